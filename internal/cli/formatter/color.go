package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/timeweave/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// DisableColor renders every style as plain text, e.g. when stdout is not
// a terminal.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// EventTypeStyle returns the style used for events of the given type.
func EventTypeStyle(t domain.EventType) lipgloss.Style {
	switch t {
	case domain.EventTypeTask:
		return StyleBlue
	case domain.EventTypeGoal:
		return StylePurple
	case domain.EventTypePlan:
		return StyleYellow
	case domain.EventTypeCompleted:
		return StyleGreen
	default:
		return StyleDim
	}
}

// EventTypeBadge returns a colored marker such as "● goal".
func EventTypeBadge(t domain.EventType) string {
	switch t {
	case domain.EventTypeCompleted:
		return EventTypeStyle(t).Render("✔ " + string(t))
	case domain.EventTypeTemplate:
		return EventTypeStyle(t).Render("↻ " + string(t))
	default:
		return EventTypeStyle(t).Render("● " + string(t))
	}
}

// FailurePill colors a failure reason by whether a later run may clear it.
func FailurePill(r domain.FailureReason) string {
	if r.Retryable() {
		return StyleYellow.Render(string(r))
	}
	return StyleRed.Render(string(r))
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len([]rune(upper)))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}

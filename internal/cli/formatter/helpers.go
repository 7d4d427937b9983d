package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// FormatMinutes converts raw minutes into human-friendly format.
func FormatMinutes(min int) string {
	if min <= 0 {
		return "0m"
	}
	d := min / (24 * 60)
	h := (min % (24 * 60)) / 60
	m := min % 60
	var parts []string
	if d > 0 {
		parts = append(parts, fmt.Sprintf("%dd", d))
	}
	if h > 0 {
		parts = append(parts, fmt.Sprintf("%dh", h))
	}
	if m > 0 {
		parts = append(parts, fmt.Sprintf("%dm", m))
	}
	return strings.Join(parts, " ")
}

// DayLabel renders a day heading like "Mon 16 Jun", prefixed with "Today"
// when t falls on the same calendar day as now.
func DayLabel(t, now time.Time) string {
	label := t.Format("Mon 02 Jan")
	y1, m1, d1 := t.Date()
	y2, m2, d2 := now.In(t.Location()).Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		return "Today · " + label
	}
	return label
}

// TimeRange renders "09:00–10:30", marking an end on a later day with "+1".
func TimeRange(start, end time.Time) string {
	s := start.Format("15:04") + "–" + end.In(start.Location()).Format("15:04")
	sy, sm, sd := start.Date()
	ey, em, ed := end.In(start.Location()).Date()
	if sy != ey || sm != em || sd != ed {
		s += "+1"
	}
	return s
}

// Truncate shortens s to n visible characters with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const colGap = 2

// Table is an aligned text table. Widths are measured on visible text so
// styled cells line up.
type Table struct {
	Headers []string
	Rows    [][]string
	// Right lists the column indexes that are right-aligned.
	Right map[int]bool
}

func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

func (t *Table) widths() []int {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i := 0; i < len(widths) && i < len(row); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

func (t *Table) cell(b *strings.Builder, i int, text string, width int, last bool) {
	pad := width - lipgloss.Width(text)
	if pad < 0 {
		pad = 0
	}
	if t.Right[i] {
		b.WriteString(strings.Repeat(" ", pad))
		b.WriteString(text)
	} else {
		b.WriteString(text)
		if !last {
			b.WriteString(strings.Repeat(" ", pad))
		}
	}
	if !last {
		b.WriteString(strings.Repeat(" ", colGap))
	}
}

// Render returns the table with a header separator line, or "" when it has
// no columns.
func (t *Table) Render() string {
	cols := len(t.Headers)
	if cols == 0 {
		return ""
	}
	widths := t.widths()

	var b strings.Builder
	for i, h := range t.Headers {
		t.cell(&b, i, StyleHeader.Render(h), widths[i], i == cols-1)
	}
	b.WriteString("\n")

	for i, w := range widths {
		b.WriteString(StyleDim.Render(strings.Repeat("─", w)))
		if i < cols-1 {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")

	for _, row := range t.Rows {
		for i := 0; i < cols; i++ {
			text := ""
			if i < len(row) {
				text = row[i]
			}
			t.cell(&b, i, text, widths[i], i == cols-1)
		}
		b.WriteString("\n")
	}
	return b.String()
}

package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// painter draws on one background color. Every cell it emits, spaces
// included, carries that color; plain joins between styled segments would
// otherwise show the terminal background.
type painter struct {
	bg lipgloss.Color
}

func newPainter(color string) painter {
	return painter{bg: lipgloss.Color(color)}
}

// text renders s in style. Words are styled one by one and rejoined with
// painted spaces.
func (p painter) text(s string, style lipgloss.Style) string {
	if s == "" {
		return ""
	}
	style = style.Background(p.bg)
	words := strings.Split(s, " ")
	for i, w := range words {
		if w != "" {
			words[i] = style.Render(w)
		}
	}
	return strings.Join(words, p.gap(1))
}

// gap returns n painted spaces.
func (p painter) gap(n int) string {
	return p.raw(strings.Repeat(" ", max(n, 0)))
}

// raw paints s without any foreground styling.
func (p painter) raw(s string) string {
	if s == "" {
		return ""
	}
	return lipgloss.NewStyle().Background(p.bg).Render(s)
}

// line pads rendered content out to width.
func (p painter) line(content string, width int) string {
	return lipgloss.NewStyle().Background(p.bg).Width(width).Render(content)
}

// renderBox draws a bordered panel with the title embedded in the top border.
// content is clipped or padded to fill height rows.
func (m Model) renderBox(title, content string, width, height int, focused bool) string {
	borderColor, bgColor := m.theme.Border, m.theme.SurfaceAlt
	if focused {
		borderColor, bgColor = m.theme.BorderFocus, m.theme.FocusBg
	}
	bg := newPainter(bgColor)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColor))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 0))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	top := bg.text("┌", borderStyle) +
		bg.text(strings.Repeat("─", leftPad), borderStyle) +
		bg.text(" "+title+" ", titleStyle) +
		bg.text(strings.Repeat("─", rightPad), borderStyle) +
		bg.text("┐", borderStyle)
	bottom := bg.text("└", borderStyle) +
		bg.text(strings.Repeat("─", innerWidth), borderStyle) +
		bg.text("┘", borderStyle)

	lineStyle := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).Background(lipgloss.Color(bgColor))
	lines := strings.Split(content, "\n")
	rows := max(height-2, 0)
	out := make([]string, 0, rows+2)
	out = append(out, top)
	for i := range rows {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		out = append(out, bg.text("│", borderStyle)+lineStyle.Render(line)+bg.text("│", borderStyle))
	}
	out = append(out, bottom)
	return strings.Join(out, "\n")
}

// Package overlay draws popups over an already rendered view.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Compose splices the visible part of each overlay line into base at
// the same columns. Blank overlay lines and the leading and trailing
// spaces of each line leave base showing. Styled text is handled.
func Compose(base, overlay string, width int) string {
	baseLines := strings.Split(base, "\n")
	for i, line := range strings.Split(overlay, "\n") {
		if i >= len(baseLines) {
			break
		}
		plain := ansi.Strip(line)
		trimmed := strings.TrimRight(plain, " ")
		content := strings.TrimLeft(trimmed, " ")
		if content == "" {
			continue
		}
		start := ansi.StringWidth(trimmed) - ansi.StringWidth(content)
		end := start + ansi.StringWidth(content)

		b := baseLines[i]
		if w := ansi.StringWidth(b); w < width {
			b += strings.Repeat(" ", width-w)
		}
		out := ansi.Cut(b, 0, start) + ansi.Cut(line, start, end)
		if end < width {
			out += ansi.Cut(b, end, width)
		}
		baseLines[i] = out
	}
	return strings.Join(baseLines, "\n")
}

// Center draws box in the middle of a width x height base.
func Center(base, box string, width, height int) string {
	return Compose(base, lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box), width)
}

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// neutral stands in for colors that are not "#rrggbb" (ANSI indexes).
var neutral = colorful.Color{R: 0.5, G: 0.5, B: 0.5}

func toColorful(c lipgloss.Color) colorful.Color {
	if col, err := colorful.Hex(string(c)); err == nil {
		return col
	}
	return neutral
}

// Gradient returns n colors blended from -> to in HCL space.
func Gradient(n int, from, to lipgloss.Color) []lipgloss.Color {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []lipgloss.Color{from}
	}
	a, b := toColorful(from), toColorful(to)
	out := make([]lipgloss.Color, n)
	for i := 1; i < n-1; i++ {
		out[i] = lipgloss.Color(a.BlendHcl(b, float64(i)/float64(n-1)).Clamped().Hex())
	}
	out[0], out[n-1] = from, to
	return out
}

// GradientBar draws width cells: the first filled ones in fill, colored
// along the full-width gradient, the rest in empty with the subtle color.
func GradientBar(width, filled int, fill, empty string, from, to lipgloss.Color) string {
	if width <= 0 {
		return ""
	}
	filled = max(min(filled, width), 0)

	var b strings.Builder
	for _, c := range Gradient(width, from, to)[:filled] {
		b.WriteString(lipgloss.NewStyle().Foreground(c).Render(fill))
	}
	if rest := width - filled; rest > 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(T().FgSubtle).Render(strings.Repeat(empty, rest)))
	}
	return b.String()
}

// ApplyGradient colors text grapheme by grapheme from -> to.
func ApplyGradient(text string, from, to lipgloss.Color) string {
	return gradientText(text, lipgloss.NewStyle(), from, to)
}

// ApplyBoldGradient is ApplyGradient in bold.
func ApplyBoldGradient(text string, from, to lipgloss.Color) string {
	return gradientText(text, lipgloss.NewStyle().Bold(true), from, to)
}

func gradientText(text string, base lipgloss.Style, from, to lipgloss.Color) string {
	var clusters []string
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		clusters = append(clusters, g.Str())
	}

	var b strings.Builder
	for i, c := range Gradient(len(clusters), from, to) {
		b.WriteString(base.Foreground(c).Render(clusters[i]))
	}
	return b.String()
}

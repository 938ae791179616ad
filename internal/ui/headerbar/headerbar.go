// Package headerbar renders the single-line application header.
package headerbar

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/frvmusic/internal/player"
	"github.com/llehouerou/frvmusic/internal/ui/styles"
)

// Height is the fixed height of the header bar (single line).
const Height = 1

const appTitle = "frvmusic"

// State holds the indicators shown on the right of the header.
type State struct {
	Backend   player.Kind
	EmbedMode string // placement label
	Filter    string
	Theme     string
}

// Render returns the header bar string for the given width.
func Render(s State, width int) string {
	if width < 20 {
		return ""
	}
	t := styles.T()
	st := t.S()
	separator := st.Subtle.Render(" │ ")

	title := styles.ApplyBoldGradient(appTitle, t.Primary, t.Secondary)

	var parts []string
	if s.Filter != "" {
		parts = append(parts, st.Muted.Render("/")+st.Base.Render(s.Filter))
	}
	switch s.Backend {
	case player.KindLocal:
		parts = append(parts, st.Playing.Render("audio"))
	case player.KindEmbedded:
		parts = append(parts, st.Playing.Render("video")+" "+st.Muted.Render(s.EmbedMode))
	}
	if s.Theme != "" {
		parts = append(parts, st.Subtle.Render(s.Theme))
	}
	right := strings.Join(parts, separator)

	gap := width - lipgloss.Width(title) - lipgloss.Width(right) - 2
	if gap < 1 {
		return " " + title
	}
	return " " + title + strings.Repeat(" ", gap) + right + " "
}

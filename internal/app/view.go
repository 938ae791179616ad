package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/frvmusic/internal/player"
	"github.com/llehouerou/frvmusic/internal/ui"
	"github.com/llehouerou/frvmusic/internal/ui/embedpane"
	"github.com/llehouerou/frvmusic/internal/ui/headerbar"
	"github.com/llehouerou/frvmusic/internal/ui/overlay"
	"github.com/llehouerou/frvmusic/internal/ui/playerbar"
	"github.com/llehouerou/frvmusic/internal/ui/render"
	"github.com/llehouerou/frvmusic/internal/ui/styles"
)

// View renders the application UI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	st := m.coord.Status()
	surface := m.placement.Surface()

	sections := []string{headerbar.Render(headerbar.State{
		Backend:   st.Backend,
		EmbedMode: surface.Mode.Label(),
		Filter:    m.filter,
		Theme:     string(m.theme),
	}, m.width)}

	if dock := embedpane.Dock(surface, m.width); dock != "" {
		sections = append(sections, dock)
	}
	switch {
	case m.searching:
		sections = append(sections, m.search.View())
	case m.naming:
		sections = append(sections, m.nameInput.View())
	}

	body := m.tracks.View()
	if m.showSidebar() {
		pane := embedpane.State{Unavailable: m.embedErr != nil}
		if st.Track != nil && st.Backend == player.KindEmbedded {
			pane.Title = st.Track.Title
			pane.WatchURL = st.Track.WatchURL()
		}
		sidebar := embedpane.Sidebar(surface, pane, ui.SidebarWidth, m.bodyHeight())
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, sidebar)
	}
	sections = append(sections, body)

	artist := ""
	if st.Track != nil {
		artist = m.catalog.ArtistName(*st.Track)
	}
	bar := playerbar.NewState(st, m.coord.DisplayDuration(), artist, m.displayMode)
	bar.EmbedMode = surface.Mode.Label()
	if out := playerbar.Render(bar, m.width); out != "" {
		sections = append(sections, out)
	}

	sections = append(sections, m.footer(st.Queue))
	out := strings.Join(sections, "\n")
	if m.showHelp {
		out = overlay.Center(out, m.helpPopup(), m.width, m.height)
	}
	return out
}

func (m Model) footer(queue []string) string {
	s := styles.T().S()
	left := s.Muted.Render(humanize.Comma(int64(len(m.catalog.Tracks()))) + " tracks · " +
		humanize.Comma(int64(len(queue))) + " queued · " +
		humanize.Comma(int64(len(m.favorites))) + " favorites · " +
		humanize.Comma(int64(len(m.playlists))) + " playlists")
	right := s.Subtle.Render("? help")
	if m.errorMsg != "" {
		right = s.Error.Render(render.Truncate(m.errorMsg, max(m.width/2, 10)))
	}
	return render.Row(left, right, m.width)
}

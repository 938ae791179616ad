package app

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/frvmusic/internal/keymap"
	"github.com/llehouerou/frvmusic/internal/ui"
	"github.com/llehouerou/frvmusic/internal/ui/headerbar"
	"github.com/llehouerou/frvmusic/internal/ui/playerbar"
	"github.com/llehouerou/frvmusic/internal/ui/styles"
)

const footerHeight = 1

// dockHeight is 1 while the dock layer is active.
func (m Model) dockHeight() int {
	if m.placement.Surface().Active {
		return 1
	}
	return 0
}

// bodyTop is the first row of the track list.
func (m Model) bodyTop() int {
	top := headerbar.Height + m.dockHeight()
	if m.searching || m.naming {
		top++
	}
	return top
}

func (m Model) showSidebar() bool {
	return m.width >= ui.MinSidebarTotalWidth
}

// helpPopup is the bordered key reference drawn over the view.
func (m Model) helpPopup() string {
	w := m.help
	w.Width = max(m.width-4, 0)
	content := w.FullHelpView([][]key.Binding{
		keymap.HelpKeys(keymap.ByContext("global")),
		keymap.HelpKeys(keymap.ByContext("playback")),
		keymap.HelpKeys(keymap.ByContext("tracks")),
		keymap.HelpKeys(keymap.ByContext("playlists")),
	})
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.T().Border).
		Padding(0, 1).
		Render(content)
}

// bodyHeight is what remains for the track list and sidebar.
func (m Model) bodyHeight() int {
	used := m.bodyTop() + footerHeight
	if m.coord.Status().Index >= 0 {
		used += playerbar.Height(m.displayMode)
	}
	return max(m.height-used, 0)
}

// relayout sizes the track list to the current window.
func (m *Model) relayout() {
	width := m.width
	if m.showSidebar() {
		width -= ui.SidebarWidth
	}
	m.tracks.SetSize(max(width, 0), m.bodyHeight())
}

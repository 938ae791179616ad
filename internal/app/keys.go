package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/frvmusic/internal/keymap"
)

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKey(msg)
	}
	if m.naming {
		return m.handleNameKey(msg)
	}

	action := m.keys.Resolve(msg.String())
	if action == "" {
		return m, nil
	}
	if m.tracks.HandleAction(action) {
		return m, nil
	}

	switch action { //nolint:exhaustive // movement handled by the track list
	case keymap.ActionQuit:
		return m, tea.Quit
	case keymap.ActionHelp:
		m.showHelp = !m.showHelp
	case keymap.ActionCycleTheme:
		m.cycleTheme()
	case keymap.ActionSearch:
		m.searching = true
		m.search.SetValue(m.filter)
		m.search.CursorEnd()
		cmd := m.search.Focus()
		return m, cmd
	case keymap.ActionClearSearch:
		m.filter, m.artistID, m.playlistID = "", "", ""
		m.refreshTracks()
	case keymap.ActionSelect:
		m.playSelected(true)
	case keymap.ActionPlayOnly:
		m.playSelected(false)
	case keymap.ActionToggleFavorite:
		m.toggleFavorite()
	case keymap.ActionArtistTracks:
		m.toggleArtistFilter()
	case keymap.ActionNewPlaylist:
		m.naming = true
		m.nameInput.SetValue("")
		return m, m.nameInput.Focus()
	case keymap.ActionNextPlaylist, keymap.ActionAddToPlaylist, keymap.ActionRemoveFromPlaylist,
		keymap.ActionMoveTrackUp, keymap.ActionMoveTrackDown, keymap.ActionDeletePlaylist:
		m.handlePlaylistAction(action)
	default:
		m.handlePlaybackAction(action)
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type { //nolint:exhaustive // only submit and cancel end the search
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		m.filter = m.search.Value()
		m.artistID, m.playlistID = "", ""
		m.refreshTracks()
		return m, nil
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

// handleMouse treats any mouse activity as the pointer being over the
// terminal, and clicks as row selection.
func (m Model) handleMouse(msg tea.MouseMsg) Model {
	m.placement.PointerEnter()
	top := m.bodyTop()
	if msg.Y >= top && msg.X < m.tracks.Width() {
		m.tracks.HandleMouse(msg, msg.Y-top)
	}
	return m
}

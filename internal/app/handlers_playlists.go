package app

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	zlog "github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/llehouerou/frvmusic/internal/catalog"
	"github.com/llehouerou/frvmusic/internal/errmsg"
	"github.com/llehouerou/frvmusic/internal/keymap"
	"github.com/llehouerou/frvmusic/internal/state"
)

const noPlaylistMsg = "No playlist: press N to create one"

func (m *Model) handlePlaylistAction(a keymap.Action) {
	switch a { //nolint:exhaustive // playlist actions only
	case keymap.ActionNextPlaylist:
		m.cyclePlaylist()
	case keymap.ActionAddToPlaylist:
		m.addSelectedToPlaylist()
	case keymap.ActionRemoveFromPlaylist:
		m.editListedPlaylist(func(p state.Playlist, t catalog.Track) error {
			return m.state.RemoveTrackFromPlaylist(p.ID, t.ID)
		})
	case keymap.ActionMoveTrackUp:
		m.moveSelected(-1)
	case keymap.ActionMoveTrackDown:
		m.moveSelected(1)
	case keymap.ActionDeletePlaylist:
		m.deleteListedPlaylist()
	}
}

func (m Model) handleNameKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type { //nolint:exhaustive // only submit and cancel end the prompt
	case tea.KeyEnter:
		m.naming = false
		m.nameInput.Blur()
		if name := strings.TrimSpace(m.nameInput.Value()); name != "" {
			m.createPlaylist(name)
		}
		return m, nil
	case tea.KeyEsc:
		m.naming = false
		m.nameInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m *Model) createPlaylist(name string) {
	p, err := m.state.CreatePlaylist(name, "")
	if err != nil {
		m.playlistFailed(err)
		return
	}
	m.targetID = p.ID
	m.reloadPlaylists()
}

// cyclePlaylist lists the next playlist, wrapping back to the catalog
// after the last one.
func (m *Model) cyclePlaylist() {
	if len(m.playlists) == 0 {
		m.errorMsg = noPlaylistMsg
		return
	}
	next := slices.IndexFunc(m.playlists, func(p state.Playlist) bool { return p.ID == m.playlistID }) + 1
	m.filter, m.artistID = "", ""
	if next >= len(m.playlists) {
		m.playlistID = ""
	} else {
		m.playlistID = m.playlists[next].ID
		m.targetID = m.playlistID
	}
	m.refreshTracks()
}

// addSelectedToPlaylist appends the selected track to the listed
// playlist, or to the last one created or listed.
func (m *Model) addSelectedToPlaylist() {
	t, ok := m.tracks.Selected()
	if !ok {
		return
	}
	id := m.targetID
	if m.playlistID != "" {
		id = m.playlistID
	}
	if id == "" {
		m.errorMsg = noPlaylistMsg
		return
	}
	if err := m.state.AddTrackToPlaylist(id, t.ID); err != nil {
		m.playlistFailed(err)
		return
	}
	m.reloadPlaylists()
}

func (m *Model) moveSelected(delta int) {
	m.editListedPlaylist(func(p state.Playlist, t catalog.Track) error {
		from := slices.Index(p.TrackIDs, t.ID)
		return m.state.MoveTrackInPlaylist(p.ID, from, from+delta)
	})
}

// editListedPlaylist applies edit to the selected track of the listed
// playlist. It does nothing outside a playlist listing.
func (m *Model) editListedPlaylist(edit func(p state.Playlist, t catalog.Track) error) {
	p, ok := m.listedPlaylist()
	if !ok {
		return
	}
	t, ok := m.tracks.Selected()
	if !ok {
		return
	}
	if err := edit(p, t); err != nil {
		m.playlistFailed(err)
		return
	}
	m.reloadPlaylists()
}

func (m *Model) deleteListedPlaylist() {
	p, ok := m.listedPlaylist()
	if !ok {
		return
	}
	if err := m.state.DeletePlaylist(p.ID); err != nil {
		m.playlistFailed(err)
		return
	}
	m.reloadPlaylists()
}

// reloadPlaylists re-reads playlists from the store and drops references
// to deleted ones.
func (m *Model) reloadPlaylists() {
	ps, err := m.state.Playlists()
	if err != nil {
		m.playlistFailed(err)
		return
	}
	m.playlists = ps
	exists := func(id string) bool {
		return lo.ContainsBy(ps, func(p state.Playlist) bool { return p.ID == id })
	}
	if !exists(m.playlistID) {
		m.playlistID = ""
	}
	if !exists(m.targetID) {
		m.targetID = ""
	}
	m.refreshTracks()
}

func (m Model) listedPlaylist() (state.Playlist, bool) {
	if m.playlistID == "" {
		return state.Playlist{}, false
	}
	return lo.Find(m.playlists, func(p state.Playlist) bool { return p.ID == m.playlistID })
}

// playlistTracks resolves playlist entries, skipping ids the catalog no
// longer has.
func (m Model) playlistTracks(p state.Playlist) []catalog.Track {
	return lo.FilterMap(p.TrackIDs, func(id string, _ int) (catalog.Track, bool) {
		return m.catalog.Track(id)
	})
}

func (m *Model) playlistFailed(err error) {
	zlog.Warn().Err(err).Str("playlist", m.playlistID).Msg("editing playlist")
	m.errorMsg = errmsg.Format(errmsg.OpPlaylistEdit, err)
}

package app

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/frvmusic/internal/catalog"
	"github.com/llehouerou/frvmusic/internal/errmsg"
	"github.com/llehouerou/frvmusic/internal/placement"
	"github.com/llehouerou/frvmusic/internal/playback"
	"github.com/llehouerou/frvmusic/internal/player"
	"github.com/llehouerou/frvmusic/internal/state"
)

type harness struct {
	coord     *playback.Coordinator
	local     *player.Mock
	embed     *player.Mock
	state     *state.Mock
	placement *placement.Controller
	proximity *Proximity
}

func testCatalog() *catalog.Catalog {
	return catalog.New(catalog.Data{
		Artists: []catalog.Artist{{ID: "a1", Name: "Frv"}, {ID: "a2", Name: "Other"}},
		Tracks: []catalog.Track{
			{ID: "t1", Title: "Intro", ArtistID: "a1", Duration: 61, Sources: catalog.Sources{AudioURL: "/t1.mp3"}},
			{ID: "t2", Title: "Clip", ArtistID: "a1", Duration: 200, Sources: catalog.Sources{YoutubeID: "vid2"}},
			{ID: "t3", Title: "Lost", ArtistID: "a2"},
			{ID: "t4", Title: "Outro", ArtistID: "a2", Sources: catalog.Sources{AudioURL: "/t4.mp3"}},
		},
	})
}

func newTestModel(t *testing.T) (Model, *harness) {
	t.Helper()
	h := &harness{
		local:     player.NewMock(player.KindLocal),
		embed:     player.NewMock(player.KindEmbedded),
		state:     state.NewMock(),
		proximity: NewProximity(),
	}
	cat := testCatalog()
	h.coord = playback.NewCoordinator(playback.NewEngine(), cat, h.state, playback.Config{Volume: 0.8}, h.local, h.embed)
	t.Cleanup(func() { _ = h.coord.Close() })
	h.placement = placement.NewController(placement.ModeSidebar, h.proximity, h.state)
	t.Cleanup(h.placement.Close)

	m := New(Options{
		Coordinator: h.coord,
		Catalog:     cat,
		State:       h.state,
		Placement:   h.placement,
		Proximity:   h.proximity,
		SeekStep:    5,
		Preferences: state.DefaultPreferences(),
	})
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})
	return m, h
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	result, ok := next.(Model)
	if !ok {
		t.Fatal("Update should return Model")
	}
	return result
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m = update(t, m, keyMsg(k))
	}
	return m
}

func TestUpdate_WindowSizeMsg_ResizesTrackList(t *testing.T) {
	m, _ := newTestModel(t)

	if m.width != 120 || m.height != 30 {
		t.Errorf("size = %dx%d, want 120x30", m.width, m.height)
	}
	if got := m.tracks.Width(); got != 120-36 {
		t.Errorf("track list width = %d, want %d", got, 120-36)
	}
	if got := m.tracks.Height(); got != 30-1-1 {
		t.Errorf("track list height = %d, want %d", got, 28)
	}
}

func TestEnter_PlaysSelectedWithListAsQueue(t *testing.T) {
	m, h := newTestModel(t)

	m = press(t, m, "j", "enter")

	st := h.coord.Status()
	assert.Equal(t, "t2", st.CurrentID)
	assert.Equal(t, []string{"t1", "t2", "t3", "t4"}, st.Queue)
	assert.True(t, st.Playing)
	assert.Equal(t, player.KindEmbedded, h.coord.Active())
	assert.Equal(t, "t2", h.state.Preferences().LastTrackID)
	_ = m
}

func TestAltEnter_KeepsQueue(t *testing.T) {
	m, h := newTestModel(t)
	h.coord.SetQueue([]string{"t4"}, "t4")

	m = press(t, m, "j")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter, Alt: true})

	st := h.coord.Status()
	assert.Equal(t, []string{"t4", "t2"}, st.Queue)
	assert.Equal(t, "t2", st.CurrentID)
	assert.Equal(t, 1, st.Index)
}

func TestPlaybackKeys(t *testing.T) {
	m, h := newTestModel(t)
	m = press(t, m, "enter")
	require.Equal(t, "t1", h.coord.Status().CurrentID)

	m = press(t, m, "n")
	assert.Equal(t, "t2", h.coord.Status().CurrentID)
	m = press(t, m, "p")
	assert.Equal(t, "t1", h.coord.Status().CurrentID)

	m = press(t, m, " ")
	assert.False(t, h.coord.Status().Playing)
	m = press(t, m, " ")
	assert.True(t, h.coord.Status().Playing)

	m = press(t, m, "l")
	assert.InDelta(t, 5, h.coord.Status().Progress, 1e-9)
	m = press(t, m, "h", "h")
	assert.InDelta(t, 0, h.coord.Status().Progress, 1e-9)

	m = press(t, m, "s")
	assert.Equal(t, -1, h.coord.Status().Index)
	_ = m
}

func TestPlaybackKeys_EmptyQueue(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "n")
	assert.Equal(t, "Queue is empty", m.errorMsg)
}

func TestVolumeKeys(t *testing.T) {
	m, h := newTestModel(t)

	m = press(t, m, "-")
	assert.InDelta(t, 0.75, h.coord.Volume(), 1e-9)
	m = press(t, m, "m")
	assert.InDelta(t, 0, h.coord.Volume(), 1e-9)
	m = press(t, m, "m")
	assert.InDelta(t, 0.75, h.coord.Volume(), 1e-9)
	m = press(t, m, "+", "+", "+", "+", "+", "+")
	assert.InDelta(t, 1, h.coord.Volume(), 1e-9)
	assert.InDelta(t, 1, h.state.Preferences().Volume, 1e-9)
	_ = m
}

func TestCycleEmbedMode(t *testing.T) {
	m, h := newTestModel(t)

	m = press(t, m, "e")
	assert.Equal(t, placement.ModeFullscreen, h.placement.Mode())
	assert.Equal(t, "fullscreen", h.state.Preferences().EmbedMode)

	m = press(t, m, "e", "e", "e", "e")
	assert.Equal(t, placement.ModeSidebar, h.placement.Mode())
	_ = m
}

func TestBackendChanged_TracksEmbeddedActive(t *testing.T) {
	m, h := newTestModel(t)

	m = update(t, m, BackendChangedMsg{TrackID: "t2", Kind: player.KindEmbedded})
	assert.True(t, h.placement.Surface().Visible)

	m = update(t, m, BackendChangedMsg{TrackID: "t3", Kind: player.KindNone, Unplayable: true})
	assert.False(t, h.placement.Surface().Visible)
	assert.Equal(t, "No playable source for Lost", m.errorMsg)

	m = update(t, m, BackendChangedMsg{TrackID: "t1", Kind: player.KindLocal})
	assert.Empty(t, m.errorMsg)
}

func TestFocus_DrivesBackgroundMode(t *testing.T) {
	m, h := newTestModel(t)
	h.placement.SetMode(placement.ModeFullscreen)
	m = update(t, m, BackendChangedMsg{TrackID: "t2", Kind: player.KindEmbedded})

	m = update(t, m, tea.FocusMsg{})
	assert.True(t, h.placement.Background())
	assert.Equal(t, 1, h.proximity.Watchers())

	// Repeated presence does not subscribe twice.
	m = update(t, m, tea.MouseMsg{Action: tea.MouseActionMotion, X: 1, Y: 1})
	assert.Equal(t, 1, h.proximity.Watchers())

	m = update(t, m, tea.BlurMsg{})
	assert.False(t, h.placement.Background())
	assert.Equal(t, 0, h.proximity.Watchers())
	_ = m
}

func TestFocus_IgnoredOutsideFullscreen(t *testing.T) {
	m, h := newTestModel(t)
	m = update(t, m, BackendChangedMsg{TrackID: "t2", Kind: player.KindEmbedded})

	m = update(t, m, tea.FocusMsg{})
	assert.False(t, h.placement.Background())
	assert.Equal(t, 0, h.proximity.Watchers())
	_ = m
}

func TestToggleFavorite(t *testing.T) {
	m, h := newTestModel(t)

	m = press(t, m, "f")
	fav, _ := h.state.IsFavorite("t1")
	assert.True(t, fav)
	assert.Equal(t, []string{"t1"}, m.favorites)

	m = press(t, m, "f")
	fav, _ = h.state.IsFavorite("t1")
	assert.False(t, fav)
	assert.Empty(t, m.favorites)
}

func TestSearch(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, "/")
	require.True(t, m.searching)
	m = press(t, m, "c", "l", "i", "p", "enter")

	assert.False(t, m.searching)
	assert.Equal(t, "clip", m.filter)
	assert.Equal(t, []string{"t2"}, m.tracks.IDs())

	m = press(t, m, "esc")
	assert.Empty(t, m.filter)
	assert.Len(t, m.tracks.IDs(), 4)
}

func TestSearch_EscCancels(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "/", "x", "esc")
	assert.False(t, m.searching)
	assert.Empty(t, m.filter)
	assert.Len(t, m.tracks.IDs(), 4)
}

func TestArtistTracks(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, "G", "a")
	assert.Equal(t, []string{"t3", "t4"}, m.tracks.IDs())
	assert.Equal(t, "Other", m.tracks.Title())

	m = press(t, m, "a")
	assert.Len(t, m.tracks.IDs(), 4)
}

func TestCycleTheme(t *testing.T) {
	m, h := newTestModel(t)
	t.Cleanup(func() { press(t, m, "T") })

	m = press(t, m, "T")
	assert.Equal(t, state.ThemeLight, m.theme)
	assert.Equal(t, state.ThemeLight, h.state.Preferences().Theme)
}

func TestQueueChanged_SavesQueue(t *testing.T) {
	m, h := newTestModel(t)
	h.coord.SetQueue([]string{"t1", "t4"}, "t4")

	m = update(t, m, QueueChangedMsg{IDs: []string{"t1", "t4"}, Index: 1})

	q, err := h.state.GetQueue()
	require.NoError(t, err)
	assert.Equal(t, 1, q.CurrentIndex)
	assert.Equal(t, []string{"t1", "t4"}, q.TrackIDs)
	_ = m
}

func TestTrackChanged_MarksPlaying(t *testing.T) {
	m, h := newTestModel(t)
	h.coord.SetQueue([]string{"t1", "t4"}, "t4")

	m = update(t, m, TrackChangedMsg{CurrentID: "t4", Index: 1})

	assert.Contains(t, ansi.Strip(m.tracks.View()), "▶")
	q, _ := h.state.GetQueue()
	assert.Equal(t, 1, q.CurrentIndex)
}

func TestPlaybackError_ShownInFooter(t *testing.T) {
	m, _ := newTestModel(t)

	m = update(t, m, PlaybackErrorMsg{Op: errmsg.OpPlaybackStart, TrackID: "t1", Err: errors.New("device busy")})

	assert.Equal(t, "Failed to start playback 'Intro': device busy", m.errorMsg)
	assert.Contains(t, ansi.Strip(m.View()), "device busy")
}

func TestEmbedLoaded_Failure(t *testing.T) {
	m, _ := newTestModel(t)

	m = update(t, m, EmbedLoadedMsg{Err: errors.New("mpv not found")})

	assert.Error(t, m.embedErr)
	assert.Contains(t, m.errorMsg, "load video player")
	assert.Contains(t, ansi.Strip(m.View()), "Video player unavailable")
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
}

func TestView(t *testing.T) {
	m, h := newTestModel(t)
	h.coord.SetQueue([]string{"t1", "t2"}, "t1")
	m = update(t, m, TrackChangedMsg{CurrentID: "t1"})

	out := m.View()
	plain := ansi.Strip(out)

	for _, want := range []string{"frvmusic", "All tracks", "Intro", "4 tracks · 2 queued · 0 favorites", "? help"} {
		assert.Contains(t, plain, want)
	}
	assert.Equal(t, 30, lipgloss.Height(out))
	for i, line := range strings.Split(out, "\n") {
		if w := lipgloss.Width(line); w > 120 {
			t.Errorf("line %d width = %d, want <= 120", i, w)
		}
	}
}

func TestView_Help(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "?")

	plain := ansi.Strip(m.View())
	assert.Contains(t, plain, "Cycle video placement")
	assert.Equal(t, 30, lipgloss.Height(m.View()))
}

func TestView_BeforeSize(t *testing.T) {
	m := New(Options{
		Coordinator: playback.NewCoordinator(playback.NewEngine(), testCatalog(), nil, playback.Config{}),
		Catalog:     testCatalog(),
		State:       state.NewMock(),
		Placement:   placement.NewController(placement.ModeSidebar, nil, nil),
	})
	assert.Empty(t, m.View())
}

func TestPlaylists_CreateEditAndPlay(t *testing.T) {
	m, h := newTestModel(t)

	m = press(t, m, "N", "M", "i", "x", "enter")
	require.Len(t, m.playlists, 1)
	assert.Equal(t, "Mix", m.playlists[0].Name)
	assert.False(t, m.naming)

	// Added to the playlist just created.
	m = press(t, m, "A", "G", "A")
	p, err := h.state.Playlist(m.playlists[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "t4"}, p.TrackIDs)

	m = press(t, m, "L")
	assert.Equal(t, "Playlist: Mix", m.tracks.Title())
	assert.Equal(t, []string{"t1", "t4"}, m.tracks.IDs())

	m = press(t, m, "k", "J")
	assert.Equal(t, []string{"t4", "t1"}, m.tracks.IDs())
	sel, _ := m.tracks.Selected()
	assert.Equal(t, "t1", sel.ID, "cursor follows the moved track")

	m = press(t, m, "enter")
	st := h.coord.Status()
	assert.Equal(t, []string{"t4", "t1"}, st.Queue, "playlist becomes the queue")
	assert.Equal(t, "t1", st.CurrentID)

	m = press(t, m, "x")
	assert.Equal(t, []string{"t4"}, m.tracks.IDs())

	m = press(t, m, "L")
	assert.Equal(t, "All tracks", m.tracks.Title(), "cycling wraps back to the catalog")

	m = press(t, m, "L", "X")
	assert.Empty(t, m.playlists)
	assert.Equal(t, "All tracks", m.tracks.Title())

	m = press(t, m, "A")
	assert.Equal(t, noPlaylistMsg, m.errorMsg)
}

func TestPlaylists_EditKeysIgnoredOutsidePlaylist(t *testing.T) {
	m, h := newTestModel(t)
	m = press(t, m, "N", "A", "enter", "A", "x", "J", "X")

	ps, _ := h.state.Playlists()
	require.Len(t, ps, 1)
	assert.Equal(t, []string{"t1"}, ps[0].TrackIDs)
	assert.Len(t, m.tracks.IDs(), 4)
}

func TestNewPlaylist_EscCancels(t *testing.T) {
	m, h := newTestModel(t)

	m = press(t, m, "N", "a", "esc")

	assert.False(t, m.naming)
	ps, _ := h.state.Playlists()
	assert.Empty(t, ps)

	m = press(t, m, "L")
	assert.Equal(t, noPlaylistMsg, m.errorMsg)
}

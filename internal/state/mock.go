package state

import (
	"database/sql"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/llehouerou/frvmusic/internal/playlist"
)

// Mock is a test double for Manager.
type Mock struct {
	mu         sync.Mutex
	prefs      Preferences
	queueState *QueueState
	closed     bool
}

// NewMock creates a new mock state manager holding default preferences.
func NewMock() *Mock {
	return &Mock{prefs: DefaultPreferences()}
}

func (m *Mock) DB() *sql.DB { return nil }

func (m *Mock) Load() (Preferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.prefs
	p.Favorites = slices.Clone(p.Favorites)
	p.Playlists = slices.Clone(p.Playlists)
	return p, nil
}

func (m *Mock) Save(p Preferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs = p
	return nil
}

func (m *Mock) SaveLastTrackID(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs.LastTrackID = id
}

func (m *Mock) SaveVolume(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs.Volume = clampVolume(v)
	m.prefs.VolumeSaved = true
}

func (m *Mock) SaveEmbedMode(mode string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs.EmbedMode = mode
}

func (m *Mock) SetTheme(theme Theme) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs.Theme = theme
	return nil
}

func (m *Mock) ToggleFavorite(trackID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := slices.Index(m.prefs.Favorites, trackID); i >= 0 {
		m.prefs.Favorites = slices.Delete(m.prefs.Favorites, i, i+1)
		return false, nil
	}
	m.prefs.Favorites = append(m.prefs.Favorites, trackID)
	m.prefs.LastTrackID = trackID
	return true, nil
}

func (m *Mock) IsFavorite(trackID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Contains(m.prefs.Favorites, trackID), nil
}

func (m *Mock) SaveQueue(state QueueState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	state.TrackIDs = slices.Clone(state.TrackIDs)
	m.queueState = &state
	return nil
}

func (m *Mock) GetQueue() (*QueueState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.queueState == nil {
		return &QueueState{CurrentIndex: -1}, nil
	}
	q := *m.queueState
	return &q, nil
}

func (m *Mock) Playlists() ([]Playlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := slices.Clone(m.prefs.Playlists)
	for i := range out {
		out[i].TrackIDs = slices.Clone(out[i].TrackIDs)
	}
	return out, nil
}

func (m *Mock) Playlist(id string) (Playlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.playlistIndex(id)
	if i < 0 {
		return Playlist{}, ErrPlaylistNotFound
	}
	p := m.prefs.Playlists[i]
	p.TrackIDs = slices.Clone(p.TrackIDs)
	return p, nil
}

func (m *Mock) CreatePlaylist(name, description string) (Playlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Unix(time.Now().Unix(), 0)
	p := Playlist{ID: uuid.NewString(), Name: name, Description: description, CreatedAt: now, UpdatedAt: now}
	m.prefs.Playlists = append(m.prefs.Playlists, p)
	return p, nil
}

func (m *Mock) DeletePlaylist(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.playlistIndex(id); i >= 0 {
		m.prefs.Playlists = slices.Delete(m.prefs.Playlists, i, i+1)
	}
	return nil
}

func (m *Mock) AddTrackToPlaylist(playlistID, trackID string) error {
	return m.editPlaylist(playlistID, func(p *playlist.Playlist) { p.Add(trackID) })
}

func (m *Mock) RemoveTrackFromPlaylist(playlistID, trackID string) error {
	return m.editPlaylist(playlistID, func(p *playlist.Playlist) { p.Remove(p.IndexOf(trackID)) })
}

func (m *Mock) MoveTrackInPlaylist(playlistID string, from, to int) error {
	return m.editPlaylist(playlistID, func(p *playlist.Playlist) { p.Move(from, to) })
}

func (m *Mock) editPlaylist(id string, edit func(*playlist.Playlist)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.playlistIndex(id)
	if i < 0 {
		return ErrPlaylistNotFound
	}
	pl := playlist.FromIDs(m.prefs.Playlists[i].TrackIDs)
	edit(pl)
	m.prefs.Playlists[i].TrackIDs = pl.IDs()
	return nil
}

func (m *Mock) playlistIndex(id string) int {
	return slices.IndexFunc(m.prefs.Playlists, func(p Playlist) bool { return p.ID == id })
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Test helpers

func (m *Mock) Preferences() Preferences {
	p, _ := m.Load()
	return p
}

func (m *Mock) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)

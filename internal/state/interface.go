package state

import (
	"database/sql"
)

// Interface defines the state manager contract for dependency injection and testing.
type Interface interface {
	DB() *sql.DB
	Load() (Preferences, error)
	Save(p Preferences) error
	SaveLastTrackID(id string)
	SaveVolume(v float64)
	SaveEmbedMode(mode string)
	SetTheme(theme Theme) error
	ToggleFavorite(trackID string) (bool, error)
	IsFavorite(trackID string) (bool, error)
	SaveQueue(state QueueState) error
	GetQueue() (*QueueState, error)

	Playlists() ([]Playlist, error)
	Playlist(id string) (Playlist, error)
	CreatePlaylist(name, description string) (Playlist, error)
	DeletePlaylist(id string) error
	AddTrackToPlaylist(playlistID, trackID string) error
	RemoveTrackFromPlaylist(playlistID, trackID string) error
	MoveTrackInPlaylist(playlistID string, from, to int) error

	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)

package playback

import (
	"github.com/llehouerou/frvmusic/internal/errmsg"
	"github.com/llehouerou/frvmusic/internal/player"
)

// StateChange is emitted when the transport state changes.
type StateChange struct {
	Previous State
	Current  State
}

// TrackChange is emitted on every track-change commit: replace, advance,
// rewind, jump, select and reset. A length-1 queue wrapping onto itself
// emits one too, with PreviousID == CurrentID.
type TrackChange struct {
	PreviousID    string
	CurrentID     string
	PreviousIndex int
	Index         int
	Epoch         uint64
}

// QueueChange is emitted when the queue contents change.
type QueueChange struct {
	IDs   []string
	Index int
}

// ProgressChange is emitted when progress is set.
type ProgressChange struct {
	Progress float64
}

// DurationChange is emitted when a backend reports a duration.
type DurationChange struct {
	Duration float64
}

// BackendChange is emitted when the coordinator binds a track to a
// backend. Unplayable is set when the current track has no source.
type BackendChange struct {
	TrackID    string
	Kind       player.Kind
	Unplayable bool
}

// ErrorEvent is emitted when a backend reports a failure.
type ErrorEvent struct {
	Op      errmsg.Op
	TrackID string
	Backend player.Kind
	Err     error
}

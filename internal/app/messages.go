// Package app contains the terminal UI model.
package app

import (
	"time"

	"github.com/llehouerou/frvmusic/internal/playback"
)

// TickMsg is sent periodically to refresh the progress display.
type TickMsg time.Time

// StateChangedMsg wraps a transport state change.
type StateChangedMsg playback.StateChange

// TrackChangedMsg wraps a track change.
type TrackChangedMsg playback.TrackChange

// QueueChangedMsg wraps a queue change.
type QueueChangedMsg playback.QueueChange

// ProgressMsg signals new progress or duration.
type ProgressMsg struct{}

// BackendChangedMsg wraps a backend binding change.
type BackendChangedMsg playback.BackendChange

// PlaybackErrorMsg wraps a backend failure.
type PlaybackErrorMsg playback.ErrorEvent

// ServiceClosedMsg is sent once the playback subscription closes.
type ServiceClosedMsg struct{}

// EmbedLoadedMsg is sent once the video player bootstrap completes.
type EmbedLoadedMsg struct {
	Err error
}

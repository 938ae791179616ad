// Package embed adapts an externally bootstrapped video player SDK to the
// player.Backend contract.
package embed

import (
	"context"
	"fmt"
)

// PlayerState is a state reported by the embedded player. Values follow
// the iframe player API.
type PlayerState int

const (
	StateUnstarted PlayerState = -1
	StateEnded     PlayerState = 0
	StatePlaying   PlayerState = 1
	StatePaused    PlayerState = 2
	StateBuffering PlayerState = 3
	StateCued      PlayerState = 5
)

func (s PlayerState) String() string {
	switch s {
	case StateUnstarted:
		return "unstarted"
	case StateEnded:
		return "ended"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateBuffering:
		return "buffering"
	case StateCued:
		return "cued"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// PlayerEvents are invoked by a Player from its own goroutine, never from
// inside one of its method calls.
type PlayerEvents struct {
	OnReady       func()
	OnStateChange func(PlayerState)
	OnError       func(code int)
}

// PlayerOptions configure a new player instance.
type PlayerOptions struct {
	VideoID  string
	Autoplay bool
	Events   PlayerEvents
}

// SDK creates player instances once loaded.
type SDK interface {
	NewPlayer(opts PlayerOptions) (Player, error)
}

// Player is one embedded player instance.
type Player interface {
	PlayVideo() error
	PauseVideo() error
	StopVideo() error
	SeekTo(seconds float64, allowSeekAhead bool) error
	LoadVideoByID(id string) error
	CueVideoByID(id string) error
	CurrentTime() (float64, error)
	Duration() (float64, error)
	SetVolume(percent int) error
	Mute() error
	UnMute() error
	Destroy() error
}

// Loader loads the SDK. It is called at most once per Bootstrap.
type Loader func(ctx context.Context) (SDK, error)

// ErrorCodeDisconnected is raised when the player process or its event
// channel goes away underneath an instance.
const ErrorCodeDisconnected = -1

// PlayerError is a runtime error code raised by the embedded player.
type PlayerError struct {
	Code int
}

func (e *PlayerError) Error() string {
	switch e.Code {
	case ErrorCodeDisconnected:
		return "embedded player: disconnected"
	case 2:
		return "embedded player: invalid video id"
	case 5:
		return "embedded player: playback error"
	case 100:
		return "embedded player: video not found"
	case 101, 150:
		return "embedded player: embedding not allowed"
	default:
		return fmt.Sprintf("embedded player: error %d", e.Code)
	}
}

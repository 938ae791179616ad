package mpv

import (
	"encoding/json"
	"sync"

	"github.com/llehouerou/frvmusic/internal/player/embed"
)

// event is one line received on the event connection.
type event struct {
	Event  string          `json:"event"`
	Name   string          `json:"name"`
	Data   json.RawMessage `json:"data"`
	Reason string          `json:"reason"`
}

// errorCodePlayback is the iframe API code for a generic playback error.
const errorCodePlayback = 5

// listener translates mpv events into embed player states.
//
//	start-file            → unstarted
//	file-loaded (paused)  → cued
//	playback-restart      → playing, unless paused
//	pause true/false      → paused/playing, once a file is loaded
//	end-file reason eof   → ended
//	end-file reason error → OnError
type listener struct {
	mu       sync.Mutex
	events   embed.PlayerEvents
	paused   bool
	loaded   bool
	detached bool
}

func newListener(ev embed.PlayerEvents) *listener {
	return &listener{events: ev}
}

func (l *listener) detach() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.detached = true
}

// disconnected reports the loss of the event connection as a player
// error, unless the player was destroyed first. It fires at most once.
func (l *listener) disconnected() {
	l.mu.Lock()
	if l.detached {
		l.mu.Unlock()
		return
	}
	l.detached = true
	onError := l.events.OnError
	l.mu.Unlock()

	if onError != nil {
		onError(embed.ErrorCodeDisconnected)
	}
}

func (l *listener) handle(line []byte) {
	var ev event
	if err := json.Unmarshal(line, &ev); err != nil || ev.Event == "" {
		return // replies and unparseable lines
	}

	l.mu.Lock()
	if l.detached {
		l.mu.Unlock()
		return
	}
	var state *embed.PlayerState
	errCode := 0
	set := func(s embed.PlayerState) { state = &s }

	switch ev.Event {
	case "property-change":
		if ev.Name == "pause" {
			var paused bool
			if json.Unmarshal(ev.Data, &paused) == nil {
				l.paused = paused
				if l.loaded {
					if paused {
						set(embed.StatePaused)
					} else {
						set(embed.StatePlaying)
					}
				}
			}
		}
	case "start-file":
		l.loaded = false
		set(embed.StateUnstarted)
	case "file-loaded":
		l.loaded = true
		if l.paused {
			set(embed.StateCued)
		} else {
			set(embed.StateBuffering)
		}
	case "playback-restart":
		if l.loaded && !l.paused {
			set(embed.StatePlaying)
		}
	case "end-file":
		l.loaded = false
		switch ev.Reason {
		case "eof":
			set(embed.StateEnded)
		case "error":
			errCode = errorCodePlayback
		}
	}
	events := l.events
	l.mu.Unlock()

	if state != nil && events.OnStateChange != nil {
		events.OnStateChange(*state)
	}
	if errCode != 0 && events.OnError != nil {
		events.OnError(errCode)
	}
}

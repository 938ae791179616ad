// Package placement decides where the embedded video surface renders
// and whether it is pushed to the background.
package placement

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Mode is an embed placement mode.
type Mode int

const (
	ModeSidebar Mode = iota
	ModeFullscreen
	ModeHidden
	ModeBottomRight
	ModeTopLeft
)

// Modes lists every mode in cycle order.
var Modes = []Mode{ModeSidebar, ModeFullscreen, ModeHidden, ModeBottomRight, ModeTopLeft}

// ErrUnknownMode is returned by ParseMode.
var ErrUnknownMode = errors.New("unknown embed mode")

// String returns the persisted name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeSidebar:
		return "sidebar"
	case ModeFullscreen:
		return "fullscreen"
	case ModeHidden:
		return "hidden"
	case ModeBottomRight:
		return "bottom-right"
	case ModeTopLeft:
		return "top-left"
	default:
		return "unknown"
	}
}

// Label returns a short human label.
func (m Mode) Label() string {
	switch m {
	case ModeSidebar:
		return "Sidebar"
	case ModeFullscreen:
		return "Fullscreen"
	case ModeHidden:
		return "Hidden"
	case ModeBottomRight:
		return "Bottom right"
	case ModeTopLeft:
		return "Top left"
	default:
		return "Unknown"
	}
}

// Next returns the following mode in round-robin order.
func (m Mode) Next() Mode {
	for i, mode := range Modes {
		if mode == m {
			return Modes[(i+1)%len(Modes)]
		}
	}
	return ModeSidebar
}

// Floating reports whether the mode renders in a corner overlay.
func (m Mode) Floating() bool {
	return m == ModeBottomRight || m == ModeTopLeft
}

// ParseMode parses a persisted mode name. An empty string is sidebar.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ModeSidebar, nil
	}
	for _, m := range Modes {
		if m.String() == s {
			return m, nil
		}
	}
	return ModeSidebar, errors.Wrapf(ErrUnknownMode, "%q", s)
}

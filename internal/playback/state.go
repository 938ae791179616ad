package playback

// State is the transport state derived from the queue and the
// playing flag.
type State int

const (
	StateStopped State = iota // queue empty
	StatePlaying
	StatePaused
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true if playback is active (playing or paused).
func (s State) IsActive() bool {
	return s == StatePlaying || s == StatePaused
}

// Snapshot is an immutable copy of the engine state.
type Snapshot struct {
	Queue     []string
	Index     int // -1 iff Queue is empty
	History   []string
	CurrentID string
	Playing   bool
	Progress  float64 // seconds
	Duration  float64 // seconds, 0 until reported
	Epoch     uint64
}

// State returns the transport state of the snapshot.
func (s Snapshot) State() State {
	switch {
	case s.Index < 0:
		return StateStopped
	case s.Playing:
		return StatePlaying
	default:
		return StatePaused
	}
}

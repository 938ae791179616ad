package player

import "math"

// Target is the track a backend is asked to play.
type Target struct {
	TrackID string
	Source  string // audio url or video id, depending on the backend
	Epoch   uint64 // track-change generation the target belongs to
	Volume  float64
}

// Backend is a concrete media-playback implementation.
//
// Implementations apply intents asynchronously if they must, but report
// every observable change through the bound Reporter. They never hold
// their own lock while calling the Reporter.
type Backend interface {
	Kind() Kind
	// Bind sets the reporter. Called once before the first Activate.
	Bind(r Reporter)
	// Activate loads target and starts it when playing is true.
	Activate(target Target, playing bool)
	// Deactivate stops output and releases the loaded source.
	Deactivate()
	Play()
	Pause()
	Seek(seconds float64)
	SetVolume(v float64)
	Close() error
}

// Reporter receives backend events. Every report carries the kind and
// epoch of the target it was produced for so stale reports can be dropped.
type Reporter interface {
	ReportProgress(kind Kind, epoch uint64, seconds float64)
	ReportDuration(kind Kind, epoch uint64, seconds float64)
	ReportEnded(kind Kind, epoch uint64)
	ReportPlaying(kind Kind, epoch uint64, playing bool)
	ReportError(kind Kind, epoch uint64, err error)
}

// ClampVolume clamps v to [0,1]. NaN maps to 0.
func ClampVolume(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Finite reports whether v is a usable time value.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

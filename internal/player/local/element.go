package local

// Element is a direct audio element: one persistent playable handle
// whose source can be swapped.
//
// Implementations invoke Events callbacks from their own goroutines and
// never while holding a lock that their methods also take.
type Element interface {
	// Source returns the currently assigned source, or "".
	Source() string
	// SetSource assigns src. Loading may be deferred until Play.
	SetSource(src string)
	// ClearSource detaches the source and stops any buffering.
	ClearSource()
	SetCurrentTime(seconds float64)
	// Play starts playback. It fails when the source cannot be
	// decoded or output cannot be started.
	Play() error
	Pause()
	SetVolume(v float64)
	// Generation identifies the current load. It changes whenever the
	// decoded stream is discarded.
	Generation() uint64
	Close() error
}

// Events are the continuous notifications emitted by an Element. Each
// carries the generation of the load that produced it.
type Events struct {
	TimeUpdate     func(gen uint64, seconds float64)
	LoadedMetadata func(gen uint64, duration float64)
	Ended          func(gen uint64)
}

// Factory creates the element, wiring events into it.
type Factory func(ev Events) (Element, error)

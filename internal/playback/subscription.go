package playback

const eventBufferSize = 16

// Subscription provides event channels for a subscriber.
type Subscription struct {
	StateChanged    <-chan StateChange
	TrackChanged    <-chan TrackChange
	QueueChanged    <-chan QueueChange
	ProgressChanged <-chan ProgressChange
	DurationChanged <-chan DurationChange
	BackendChanged  <-chan BackendChange
	Error           <-chan ErrorEvent
	Done            <-chan struct{}

	// Internal write channels
	stateCh    chan StateChange
	trackCh    chan TrackChange
	queueCh    chan QueueChange
	progressCh chan ProgressChange
	durationCh chan DurationChange
	backendCh  chan BackendChange
	errorCh    chan ErrorEvent
	doneCh     chan struct{}
}

// newSubscription creates a new subscription with buffered channels.
func newSubscription() *Subscription {
	s := &Subscription{
		stateCh:    make(chan StateChange, eventBufferSize),
		trackCh:    make(chan TrackChange, eventBufferSize),
		queueCh:    make(chan QueueChange, eventBufferSize),
		progressCh: make(chan ProgressChange, eventBufferSize),
		durationCh: make(chan DurationChange, eventBufferSize),
		backendCh:  make(chan BackendChange, eventBufferSize),
		errorCh:    make(chan ErrorEvent, eventBufferSize),
		doneCh:     make(chan struct{}),
	}
	s.StateChanged = s.stateCh
	s.TrackChanged = s.trackCh
	s.QueueChanged = s.queueCh
	s.ProgressChanged = s.progressCh
	s.DurationChanged = s.durationCh
	s.BackendChanged = s.backendCh
	s.Error = s.errorCh
	s.Done = s.doneCh
	return s
}

// close signals subscribers to stop by closing doneCh.
func (s *Subscription) close() {
	close(s.doneCh)
}

// send delivers e without blocking; it is dropped if the buffer is full.
func send[T any](ch chan T, e T) {
	select {
	case ch <- e:
	default:
	}
}

func (s *Subscription) sendState(e StateChange)       { send(s.stateCh, e) }
func (s *Subscription) sendTrack(e TrackChange)       { send(s.trackCh, e) }
func (s *Subscription) sendQueue(e QueueChange)       { send(s.queueCh, e) }
func (s *Subscription) sendProgress(e ProgressChange) { send(s.progressCh, e) }
func (s *Subscription) sendDuration(e DurationChange) { send(s.durationCh, e) }
func (s *Subscription) sendBackend(e BackendChange)   { send(s.backendCh, e) }
func (s *Subscription) sendError(e ErrorEvent)        { send(s.errorCh, e) }

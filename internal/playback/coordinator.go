package playback

import (
	"sync"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/llehouerou/frvmusic/internal/catalog"
	"github.com/llehouerou/frvmusic/internal/errmsg"
	"github.com/llehouerou/frvmusic/internal/player"
)

var (
	ErrEmptyQueue   = errors.New("queue is empty")
	ErrInvalidIndex = errors.New("queue index out of range")
)

// Catalog resolves track ids.
type Catalog interface {
	Track(id string) (catalog.Track, bool)
}

// Preferences receives the values the coordinator persists.
type Preferences interface {
	SaveLastTrackID(id string)
	SaveVolume(v float64)
}

// Config holds coordinator configuration.
type Config struct {
	Volume float64 // initial volume, clamped to [0,1]
	// SkipUnplayable advances past tracks without a usable source,
	// at most once per queue entry in a row.
	SkipUnplayable bool
}

// Status is what the UI renders.
type Status struct {
	Snapshot
	Backend    player.Kind
	Volume     float64
	Unplayable bool
	Track      *catalog.Track
}

// Coordinator binds the engine's current track to exactly one backend,
// forwards intents to it and applies its reports back to the engine.
//
// Intents and reports are applied on a serial executor: work submitted
// while another task runs is queued and drained by the running goroutine,
// so a backend may report synchronously from inside an intent.
type Coordinator struct {
	engine   *Engine
	catalog  Catalog
	prefs    Preferences
	cfg      Config
	backends map[player.Kind]player.Backend

	execMu  sync.Mutex
	pending []func()
	running bool

	// written only on the executor
	mu         sync.RWMutex
	bound      bool
	epoch      uint64
	active     player.Kind
	track      *catalog.Track
	playing    bool
	volume     float64
	unplayable bool
	skips      int
	skipping   bool
}

// NewCoordinator creates a coordinator driving backends. Each backend is
// bound to the coordinator as its Reporter.
func NewCoordinator(engine *Engine, cat Catalog, prefs Preferences, cfg Config, backends ...player.Backend) *Coordinator {
	c := &Coordinator{
		engine:   engine,
		catalog:  cat,
		prefs:    prefs,
		cfg:      cfg,
		backends: make(map[player.Kind]player.Backend, len(backends)),
		volume:   player.ClampVolume(cfg.Volume),
	}
	for _, b := range backends {
		c.backends[b.Kind()] = b
		b.Bind(c)
	}
	return c
}

// do runs fn on the serial executor.
func (c *Coordinator) do(fn func()) {
	c.execMu.Lock()
	c.pending = append(c.pending, fn)
	if c.running {
		c.execMu.Unlock()
		return
	}
	c.running = true
	for len(c.pending) > 0 {
		next := c.pending[0]
		c.pending = c.pending[1:]
		c.execMu.Unlock()
		next()
		c.execMu.Lock()
	}
	c.running = false
	c.execMu.Unlock()
}

// Engine returns the underlying engine.
func (c *Coordinator) Engine() *Engine { return c.engine }

// Subscribe returns a new event subscription.
func (c *Coordinator) Subscribe() *Subscription { return c.engine.Subscribe() }

// Play resumes the current track.
func (c *Coordinator) Play() error {
	if c.engine.Snapshot().Index < 0 {
		return ErrEmptyQueue
	}
	c.do(func() {
		c.engine.SetPlaying(true)
		c.sync()
	})
	return nil
}

// Pause pauses the current track.
func (c *Coordinator) Pause() {
	c.do(func() {
		c.engine.SetPlaying(false)
		c.sync()
	})
}

// Toggle flips between playing and paused.
func (c *Coordinator) Toggle() error {
	if c.engine.Snapshot().Index < 0 {
		return ErrEmptyQueue
	}
	c.do(func() {
		c.engine.TogglePlay()
		c.sync()
	})
	return nil
}

// Seek moves to seconds in the current track. Progress is updated
// immediately; only the active backend is asked to seek.
func (c *Coordinator) Seek(seconds float64) {
	c.do(func() {
		snap := c.engine.Snapshot()
		if snap.Index < 0 || !player.Finite(seconds) {
			return
		}
		seconds = max(seconds, 0)
		if snap.Duration > 0 {
			seconds = min(seconds, snap.Duration)
		}
		c.engine.SetProgress(seconds)
		if b := c.activeBackend(); b != nil {
			b.Seek(seconds)
		}
	})
}

// SeekBy moves delta seconds relative to the current progress.
func (c *Coordinator) SeekBy(delta float64) {
	c.Seek(c.engine.Snapshot().Progress + delta)
}

// SetVolume sets the shared volume and persists it.
func (c *Coordinator) SetVolume(v float64) {
	v = player.ClampVolume(v)
	c.do(func() {
		c.mu.Lock()
		c.volume = v
		c.mu.Unlock()
		if b := c.activeBackend(); b != nil {
			b.SetVolume(v)
		}
		if c.prefs != nil {
			c.prefs.SaveVolume(v)
		}
	})
}

// Volume returns the shared volume.
func (c *Coordinator) Volume() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.volume
}

// Next advances the queue.
func (c *Coordinator) Next() error {
	if c.engine.Snapshot().Index < 0 {
		return ErrEmptyQueue
	}
	c.do(func() {
		c.engine.Advance()
		c.sync()
	})
	return nil
}

// Previous rewinds the queue.
func (c *Coordinator) Previous() error {
	if c.engine.Snapshot().Index < 0 {
		return ErrEmptyQueue
	}
	c.do(func() {
		c.engine.Rewind()
		c.sync()
	})
	return nil
}

// JumpTo plays the queue entry at index.
func (c *Coordinator) JumpTo(index int) error {
	if snap := c.engine.Snapshot(); index < 0 || index >= len(snap.Queue) {
		return ErrInvalidIndex
	}
	c.do(func() {
		c.engine.JumpTo(index)
		c.sync()
	})
	return nil
}

// PlayTrack plays id, replacing the queue with context when non-empty.
func (c *Coordinator) PlayTrack(id string, context []string) error {
	if _, ok := c.catalog.Track(id); !ok {
		return errors.Wrapf(catalog.ErrTrackNotFound, "play %s", id)
	}
	c.do(func() {
		c.engine.PlaySingle(id, context)
		c.sync()
	})
	return nil
}

// SetQueue replaces the queue and starts playing startID.
func (c *Coordinator) SetQueue(ids []string, startID string) {
	c.do(func() {
		c.engine.ReplaceQueue(ids, startID)
		c.sync()
	})
}

// Restore installs a queue positioned on startID without starting
// playback, cueing the track on its backend.
func (c *Coordinator) Restore(ids []string, startID string) {
	c.do(func() {
		c.engine.RestoreQueue(ids, startID)
		c.sync()
	})
}

// Stop empties the queue and deactivates every backend.
func (c *Coordinator) Stop() {
	c.do(func() {
		c.engine.Reset()
		c.sync()
	})
}

// Status returns the state to render.
func (c *Coordinator) Status() Status {
	snap := c.engine.Snapshot()
	c.mu.RLock()
	defer c.mu.RUnlock()
	st := Status{Snapshot: snap, Backend: c.active, Volume: c.volume, Unplayable: c.unplayable}
	if c.track != nil && c.track.ID == snap.CurrentID {
		t := *c.track
		st.Track = &t
	} else if t, ok := c.catalog.Track(snap.CurrentID); ok {
		st.Track = &t
	}
	return st
}

// DisplayDuration returns the reported duration, falling back to the
// catalog hint until a backend reports one.
func (c *Coordinator) DisplayDuration() float64 {
	st := c.Status()
	if st.Duration > 0 || st.Track == nil {
		return st.Duration
	}
	return max(st.Track.Duration, 0)
}

// Active returns the backend currently receiving intents.
func (c *Coordinator) Active() player.Kind {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active
}

// Close stops playback and closes every backend and subscription.
func (c *Coordinator) Close() error {
	var errs error
	c.do(func() {
		for _, b := range c.backends {
			b.Deactivate()
			if err := b.Close(); err != nil {
				errs = errors.CombineErrors(errs, err)
			}
		}
		c.mu.Lock()
		c.active = player.KindNone
		c.mu.Unlock()
	})
	c.engine.Close()
	return errs
}

func (c *Coordinator) activeBackend() player.Backend {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.active == player.KindNone {
		return nil
	}
	return c.backends[c.active]
}

// sync reconciles the backends with the engine. Runs on the executor.
func (c *Coordinator) sync() {
	snap := c.engine.Snapshot()
	c.mu.RLock()
	bound, epoch, playing := c.bound, c.epoch, c.playing
	c.mu.RUnlock()

	if !bound || snap.Epoch != epoch {
		c.bind(snap)
		return
	}
	if snap.Playing == playing {
		return
	}
	c.mu.Lock()
	c.playing = snap.Playing
	c.mu.Unlock()
	if b := c.activeBackend(); b != nil {
		if snap.Playing {
			b.Play()
		} else {
			b.Pause()
		}
	}
}

// bind commits a track change to the backends: every other backend is
// deactivated before the selected one is activated.
func (c *Coordinator) bind(snap Snapshot) {
	var track *catalog.Track
	kind := player.KindNone
	if snap.CurrentID != "" {
		if t, ok := c.catalog.Track(snap.CurrentID); ok {
			track = &t
			kind = player.Resolve(t)
		}
	}
	unplayable := snap.CurrentID != "" && kind == player.KindNone

	if !c.skipping {
		c.skips = 0
	}
	c.skipping = false

	for k, b := range c.backends {
		if k != kind {
			b.Deactivate()
		}
	}

	c.mu.Lock()
	c.bound = true
	c.epoch = snap.Epoch
	c.active = kind
	c.track = track
	c.playing = snap.Playing
	c.unplayable = unplayable
	volume := c.volume
	c.mu.Unlock()

	if snap.CurrentID != "" && c.prefs != nil {
		c.prefs.SaveLastTrackID(snap.CurrentID)
	}
	c.engine.publishBackend(BackendChange{TrackID: snap.CurrentID, Kind: kind, Unplayable: unplayable})

	if unplayable {
		zlog.Info().Str("track", snap.CurrentID).Msg("track has no playable source")
		if c.cfg.SkipUnplayable && c.skips < len(snap.Queue)-1 {
			c.skips++
			c.skipping = true
			c.do(func() {
				c.engine.Advance()
				c.sync()
			})
		}
		return
	}

	b, ok := c.backends[kind]
	if !ok {
		if kind != player.KindNone {
			c.engine.publishError(ErrorEvent{
				Op:      errmsg.OpPlaybackStart,
				TrackID: snap.CurrentID,
				Backend: kind,
				Err:     errors.Newf("no %s backend configured", kind),
			})
		}
		return
	}
	b.Activate(player.Target{
		TrackID: snap.CurrentID,
		Source:  player.SourceFor(*track, kind),
		Epoch:   snap.Epoch,
		Volume:  volume,
	}, snap.Playing)
}

// current reports whether a report belongs to the bound track and backend.
func (c *Coordinator) current(kind player.Kind, epoch uint64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bound && kind == c.active && epoch == c.epoch && epoch == c.engine.Epoch()
}

func (c *Coordinator) ReportProgress(kind player.Kind, epoch uint64, seconds float64) {
	c.do(func() {
		if c.current(kind, epoch) {
			c.engine.SetProgress(seconds)
		}
	})
}

func (c *Coordinator) ReportDuration(kind player.Kind, epoch uint64, seconds float64) {
	c.do(func() {
		if c.current(kind, epoch) && player.Finite(seconds) && seconds > 0 {
			c.engine.SetDuration(seconds)
		}
	})
}

func (c *Coordinator) ReportEnded(kind player.Kind, epoch uint64) {
	c.do(func() {
		if !c.current(kind, epoch) {
			return
		}
		c.engine.Advance()
		c.sync()
	})
}

// ReportPlaying applies a transport change observed by the backend. It is
// not forwarded back to the backend.
func (c *Coordinator) ReportPlaying(kind player.Kind, epoch uint64, playing bool) {
	c.do(func() {
		if !c.current(kind, epoch) {
			return
		}
		c.engine.SetPlaying(playing)
		c.mu.Lock()
		c.playing = c.engine.Snapshot().Playing
		c.mu.Unlock()
	})
}

// ReportError pauses transport and publishes the failure. The queue
// position is left unchanged.
func (c *Coordinator) ReportError(kind player.Kind, epoch uint64, err error) {
	c.do(func() {
		if !c.current(kind, epoch) {
			return
		}
		snap := c.engine.Snapshot()
		zlog.Warn().Err(err).Str("track", snap.CurrentID).Stringer("backend", kind).Msg("playback error")
		c.engine.SetPlaying(false)
		c.mu.Lock()
		c.playing = false
		c.mu.Unlock()
		c.engine.publishError(ErrorEvent{Op: errmsg.OpPlaybackStart, TrackID: snap.CurrentID, Backend: kind, Err: err})
	})
}

var _ player.Reporter = (*Coordinator)(nil)

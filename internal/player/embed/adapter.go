package embed

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/llehouerou/frvmusic/internal/player"
)

// DefaultPollInterval is the progress polling cadence while playing.
const DefaultPollInterval = 500 * time.Millisecond

// report is a Reporter call deferred until the adapter lock is released.
type report func(r player.Reporter)

// Adapter drives one embedded player instance per mount.
//
// The player is created lazily on the first activation after a mount and
// reused across track changes: a new video id is loaded when playing and
// cued when paused. Intents issued before the player is ready are
// buffered; only the last seek survives and it is flushed once on ready.
type Adapter struct {
	mu       sync.Mutex
	boot     *Bootstrap
	interval time.Duration
	reporter player.Reporter

	// mount state, guarded by gen
	gen      uint64
	cancel   context.CancelFunc
	p        Player
	creating bool
	ready    bool
	autoplay bool // the player was created playing
	loadedID string
	loading  bool // a load/cue was issued and the new video has not reported yet
	failed   error

	// desired state
	active      bool
	epoch       uint64
	videoID     string
	playing     bool
	volume      float64
	muted       bool
	pendingSeek *float64

	tickStop chan struct{}
}

// New creates an adapter that obtains its SDK from boot. A zero interval
// selects DefaultPollInterval.
func New(boot *Bootstrap, interval time.Duration) *Adapter {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Adapter{boot: boot, interval: interval, volume: 1}
}

func (a *Adapter) Kind() player.Kind { return player.KindEmbedded }

func (a *Adapter) Bind(r player.Reporter) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reporter = r
}

// Activate switches to target. Mounts and bootstraps on first use.
func (a *Adapter) Activate(target player.Target, playing bool) {
	a.mu.Lock()
	a.active = true
	a.epoch = target.Epoch
	a.videoID = target.Source
	a.playing = playing
	a.volume = player.ClampVolume(target.Volume)
	a.pendingSeek = nil
	a.stopTickerLocked()

	var out []report
	switch {
	case a.failed != nil:
		out = a.failLocked(a.failed)
	case a.ready:
		if err := a.loadLocked(); err != nil {
			out = a.failLocked(err)
			break
		}
		a.applyVolumeLocked()
		if a.playing {
			a.startTickerLocked()
		}
	case !a.creating:
		a.mountLocked()
	}
	a.mu.Unlock()

	a.emit(out)
}

// mountLocked starts player creation for a new mount.
func (a *Adapter) mountLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.creating = true
	go a.create(ctx, a.gen)
}

func (a *Adapter) create(ctx context.Context, gen uint64) {
	sdk, err := a.boot.Wait(ctx)

	a.mu.Lock()
	if gen != a.gen {
		a.mu.Unlock()
		return
	}
	if err == nil {
		var p Player
		p, err = sdk.NewPlayer(PlayerOptions{
			VideoID:  a.videoID,
			Autoplay: a.active && a.playing,
			Events: PlayerEvents{
				OnReady:       func() { a.onReady(gen) },
				OnStateChange: func(s PlayerState) { a.onStateChange(gen, s) },
				OnError:       func(code int) { a.onError(gen, code) },
			},
		})
		if err == nil {
			a.p = p
			a.autoplay = a.active && a.playing
			a.loadedID = a.videoID
			a.mu.Unlock()
			return
		}
		err = errors.Wrap(err, "create embedded player")
	}

	a.creating = false
	if errors.Is(err, ErrUnavailable) {
		a.failed = err
	}
	var out []report
	if a.active {
		out = a.failLocked(err)
	}
	a.mu.Unlock()

	a.emit(out)
}

// loadLocked points the ready player at the desired video. On failure
// the previous video is stopped and nothing is considered loaded, so its
// trailing events and positions are never attributed to the new track.
func (a *Adapter) loadLocked() error {
	if a.videoID == "" {
		return nil
	}
	var err error
	if a.playing {
		err = a.p.LoadVideoByID(a.videoID)
	} else {
		err = a.p.CueVideoByID(a.videoID)
	}
	if err != nil {
		a.loadedID = ""
		a.loading = false
		if serr := a.p.StopVideo(); serr != nil {
			zlog.Debug().Err(serr).Msg("embed: stop failed")
		}
		return errors.Wrapf(err, "load video %s", a.videoID)
	}
	a.loadedID = a.videoID
	a.loading = true
	return nil
}

func (a *Adapter) onReady(gen uint64) {
	a.mu.Lock()
	if gen != a.gen || a.p == nil || a.ready {
		a.mu.Unlock()
		return
	}
	a.creating = false
	a.ready = true

	if !a.active {
		if err := a.p.StopVideo(); err != nil {
			zlog.Debug().Err(err).Msg("embed: stop failed")
		}
		a.mu.Unlock()
		return
	}

	var out []report
	switch {
	case a.loadedID != a.videoID:
		if err := a.loadLocked(); err != nil {
			out = a.failLocked(err)
		}
	case a.playing && !a.autoplay:
		if err := a.p.PlayVideo(); err != nil {
			zlog.Debug().Err(err).Msg("embed: play failed")
		}
	case !a.playing && a.autoplay:
		// Paused while the player was still coming up.
		if err := a.p.PauseVideo(); err != nil {
			zlog.Debug().Err(err).Msg("embed: pause failed")
		}
	}
	if out != nil {
		a.pendingSeek = nil
		a.mu.Unlock()
		a.emit(out)
		return
	}
	a.applyVolumeLocked()
	if a.pendingSeek != nil {
		if err := a.p.SeekTo(*a.pendingSeek, true); err != nil {
			zlog.Debug().Err(err).Msg("embed: seek failed")
		}
		a.pendingSeek = nil
	}
	if a.playing {
		a.startTickerLocked()
	}
	a.mu.Unlock()
}

// onStateChange treats the player as authoritative for transport.
func (a *Adapter) onStateChange(gen uint64, s PlayerState) {
	a.mu.Lock()
	if gen != a.gen || !a.active || !a.ready || a.loadedID != a.videoID {
		a.mu.Unlock()
		return
	}
	if a.loading {
		switch s {
		case StateEnded, StatePaused:
			// Trailing event from the previous video.
			a.mu.Unlock()
			return
		default:
			a.loading = false
		}
	}

	epoch := a.epoch
	var out []report
	switch s {
	case StateEnded:
		a.playing = false
		a.stopTickerLocked()
		if d, ok := a.readLocked(a.p.Duration); ok && d > 0 {
			out = append(out, func(r player.Reporter) { r.ReportProgress(player.KindEmbedded, epoch, d) })
		}
		out = append(out,
			func(r player.Reporter) { r.ReportPlaying(player.KindEmbedded, epoch, false) },
			func(r player.Reporter) { r.ReportEnded(player.KindEmbedded, epoch) },
		)
	case StatePlaying:
		a.playing = true
		a.startTickerLocked()
		if d, ok := a.readLocked(a.p.Duration); ok && d > 0 {
			out = append(out, func(r player.Reporter) { r.ReportDuration(player.KindEmbedded, epoch, d) })
		}
		out = append(out, func(r player.Reporter) { r.ReportPlaying(player.KindEmbedded, epoch, true) })
	case StatePaused:
		a.playing = false
		a.stopTickerLocked()
		if t, ok := a.readLocked(a.p.CurrentTime); ok {
			out = append(out, func(r player.Reporter) { r.ReportProgress(player.KindEmbedded, epoch, t) })
		}
		out = append(out, func(r player.Reporter) { r.ReportPlaying(player.KindEmbedded, epoch, false) })
	case StateCued:
		if t, ok := a.readLocked(a.p.CurrentTime); ok {
			out = append(out, func(r player.Reporter) { r.ReportProgress(player.KindEmbedded, epoch, t) })
		}
	}
	a.mu.Unlock()

	a.emit(out)
}

func (a *Adapter) onError(gen uint64, code int) {
	a.mu.Lock()
	if gen != a.gen || !a.active {
		a.mu.Unlock()
		return
	}
	out := a.failLocked(&PlayerError{Code: code})
	a.mu.Unlock()

	a.emit(out)
}

// failLocked stops polling and builds the paused+error reports.
func (a *Adapter) failLocked(err error) []report {
	a.playing = false
	a.stopTickerLocked()
	zlog.Warn().Err(err).Str("video", a.videoID).Msg("embedded playback failed")
	epoch := a.epoch
	return []report{
		func(r player.Reporter) { r.ReportPlaying(player.KindEmbedded, epoch, false) },
		func(r player.Reporter) { r.ReportError(player.KindEmbedded, epoch, err) },
	}
}

// Deactivate stops the video and polling. The player stays mounted.
func (a *Adapter) Deactivate() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.active = false
	a.playing = false
	a.pendingSeek = nil
	a.stopTickerLocked()
	if a.ready {
		if err := a.p.StopVideo(); err != nil {
			zlog.Debug().Err(err).Msg("embed: stop failed")
		}
	}
}

// Play resumes the loaded video, or retries a load that failed.
func (a *Adapter) Play() {
	a.mu.Lock()
	if !a.active {
		a.mu.Unlock()
		return
	}
	a.playing = true
	if !a.ready {
		a.mu.Unlock()
		return
	}
	var out []report
	if a.loadedID != a.videoID {
		if err := a.loadLocked(); err != nil {
			out = a.failLocked(err)
		}
	} else if err := a.p.PlayVideo(); err != nil {
		zlog.Debug().Err(err).Msg("embed: play failed")
	}
	if out == nil {
		a.startTickerLocked()
	}
	a.mu.Unlock()

	a.emit(out)
}

func (a *Adapter) Pause() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.active {
		return
	}
	a.playing = false
	a.stopTickerLocked()
	if !a.ready {
		return
	}
	if err := a.p.PauseVideo(); err != nil {
		zlog.Debug().Err(err).Msg("embed: pause failed")
	}
}

// Seek seeks the player, or buffers the target until ready.
func (a *Adapter) Seek(seconds float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.active {
		return
	}
	if !a.ready {
		a.pendingSeek = &seconds
		return
	}
	if err := a.p.SeekTo(seconds, true); err != nil {
		zlog.Debug().Err(err).Msg("embed: seek failed")
	}
}

func (a *Adapter) SetVolume(v float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.volume = player.ClampVolume(v)
	if a.ready {
		a.applyVolumeLocked()
	}
}

// applyVolumeLocked issues the scalar volume and an explicit mute or
// unmute. Both are best effort.
func (a *Adapter) applyVolumeLocked() {
	if err := a.p.SetVolume(int(math.Round(a.volume * 100))); err != nil {
		zlog.Debug().Err(err).Msg("embed: set volume failed")
	}
	a.muted = a.volume == 0
	var err error
	if a.muted {
		err = a.p.Mute()
	} else {
		err = a.p.UnMute()
	}
	if err != nil {
		zlog.Debug().Err(err).Bool("muted", a.muted).Msg("embed: mute failed")
	}
}

// Unmount destroys the player and invalidates in-flight callbacks.
func (a *Adapter) Unmount() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.gen++
	a.stopTickerLocked()
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.p != nil {
		if err := a.p.Destroy(); err != nil {
			zlog.Debug().Err(err).Msg("embed: destroy failed")
		}
	}
	a.p = nil
	a.creating = false
	a.ready = false
	a.autoplay = false
	a.loading = false
	a.loadedID = ""
	a.pendingSeek = nil
}

func (a *Adapter) Close() error {
	a.Unmount()
	return nil
}

// Ready reports whether the mounted player has signalled ready.
func (a *Adapter) Ready() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ready
}

// Muted reports the derived mute flag.
func (a *Adapter) Muted() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.muted
}

// Unavailable reports whether the SDK failed to load.
func (a *Adapter) Unavailable() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.failed != nil
}

// Polling reports whether the progress ticker is running.
func (a *Adapter) Polling() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tickStop != nil
}

func (a *Adapter) startTickerLocked() {
	if a.tickStop != nil {
		return
	}
	stop := make(chan struct{})
	a.tickStop = stop
	go a.poll(stop, a.gen, a.epoch)
}

func (a *Adapter) stopTickerLocked() {
	if a.tickStop == nil {
		return
	}
	close(a.tickStop)
	a.tickStop = nil
}

func (a *Adapter) poll(stop <-chan struct{}, gen, epoch uint64) {
	t := time.NewTicker(a.interval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			a.pollOnce(gen, epoch)
		}
	}
}

func (a *Adapter) pollOnce(gen, epoch uint64) {
	a.mu.Lock()
	if gen != a.gen || epoch != a.epoch || !a.ready || a.tickStop == nil || a.loadedID != a.videoID {
		a.mu.Unlock()
		return
	}
	var out []report
	if t, ok := a.readLocked(a.p.CurrentTime); ok {
		out = append(out, func(r player.Reporter) { r.ReportProgress(player.KindEmbedded, epoch, t) })
	}
	if d, ok := a.readLocked(a.p.Duration); ok && d > 0 {
		out = append(out, func(r player.Reporter) { r.ReportDuration(player.KindEmbedded, epoch, d) })
	}
	a.mu.Unlock()

	a.emit(out)
}

func (a *Adapter) readLocked(fn func() (float64, error)) (float64, bool) {
	v, err := fn()
	if err != nil || !player.Finite(v) || v < 0 {
		return 0, false
	}
	return v, true
}

// emit delivers deferred reports. Never called with a.mu held.
func (a *Adapter) emit(out []report) {
	if len(out) == 0 {
		return
	}
	a.mu.Lock()
	r := a.reporter
	a.mu.Unlock()
	if r == nil {
		return
	}
	for _, fn := range out {
		fn(r)
	}
}

var _ player.Backend = (*Adapter)(nil)

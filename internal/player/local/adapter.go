// Package local adapts a direct audio element to the player.Backend
// contract.
package local

import (
	"sync"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/llehouerou/frvmusic/internal/player"
)

// ErrNoSource is reported when a track is activated without an audio url.
var ErrNoSource = errors.New("track has no audio source")

// Adapter drives a single lazily created Element.
type Adapter struct {
	mu         sync.Mutex
	newElement Factory
	el         Element
	elErr      error // cached creation failure
	reporter   player.Reporter
	epoch      uint64
	loadGen    uint64 // element generation events must match
	active     bool
	volume     float64
}

// New creates an adapter. The element is created on first activation.
func New(factory Factory) *Adapter {
	return &Adapter{newElement: factory, volume: 1}
}

func (a *Adapter) Kind() player.Kind { return player.KindLocal }

func (a *Adapter) Bind(r player.Reporter) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reporter = r
}

// elementLocked returns the element, creating it once. Caller holds a.mu.
func (a *Adapter) elementLocked() (Element, error) {
	if a.el != nil || a.elErr != nil {
		return a.el, a.elErr
	}
	el, err := a.newElement(Events{
		TimeUpdate:     a.onTimeUpdate,
		LoadedMetadata: a.onLoadedMetadata,
		Ended:          a.onEnded,
	})
	if err != nil {
		a.elErr = errors.Wrap(err, "create audio element")
		return nil, a.elErr
	}
	a.el = el
	return el, nil
}

// Activate assigns the target source when it differs from the loaded
// one, rewinds to 0 and starts playback if playing is set.
func (a *Adapter) Activate(target player.Target, playing bool) {
	a.mu.Lock()
	a.epoch = target.Epoch
	a.active = true
	a.volume = player.ClampVolume(target.Volume)
	r := a.reporter

	err := a.activateLocked(target, playing)
	a.syncGenLocked()
	a.mu.Unlock()

	if err != nil {
		a.fail(r, target.Epoch, err)
	}
}

func (a *Adapter) activateLocked(target player.Target, playing bool) error {
	if target.Source == "" {
		return ErrNoSource
	}
	el, err := a.elementLocked()
	if err != nil {
		return err
	}
	if el.Source() != target.Source {
		el.SetSource(target.Source)
	}
	el.SetVolume(a.volume)
	el.SetCurrentTime(0)
	if !playing {
		return nil
	}
	if err := el.Play(); err != nil {
		return errors.Wrapf(err, "play %s", target.Source)
	}
	return nil
}

// syncGenLocked adopts the element's current load. Events from earlier
// loads are dropped from then on.
func (a *Adapter) syncGenLocked() {
	if a.el != nil {
		a.loadGen = a.el.Generation()
	}
}

// fail flips transport to paused and reports err. Never called with a.mu held.
func (a *Adapter) fail(r player.Reporter, epoch uint64, err error) {
	zlog.Warn().Err(err).Msg("local playback failed")
	if r == nil {
		return
	}
	r.ReportPlaying(player.KindLocal, epoch, false)
	r.ReportError(player.KindLocal, epoch, err)
}

// Deactivate pauses the element and detaches its source.
func (a *Adapter) Deactivate() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.active = false
	if a.el == nil {
		return
	}
	a.el.Pause()
	a.el.ClearSource()
	a.syncGenLocked()
}

func (a *Adapter) Play() {
	a.mu.Lock()
	if !a.active || a.el == nil {
		a.mu.Unlock()
		return
	}
	err := a.el.Play()
	a.syncGenLocked()
	r, epoch, src := a.reporter, a.epoch, a.el.Source()
	a.mu.Unlock()

	if err != nil {
		a.fail(r, epoch, errors.Wrapf(err, "play %s", src))
	}
}

func (a *Adapter) Pause() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.active && a.el != nil {
		a.el.Pause()
	}
}

func (a *Adapter) Seek(seconds float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.active && a.el != nil {
		a.el.SetCurrentTime(seconds)
	}
}

// SetVolume pushes v into the element.
func (a *Adapter) SetVolume(v float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.volume = player.ClampVolume(v)
	if a.el != nil {
		a.el.SetVolume(a.volume)
	}
}

// Close releases the element.
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.active = false
	if a.el == nil {
		return nil
	}
	err := a.el.Close()
	a.el = nil
	return err
}

// current returns the reporter and epoch when the adapter is active and
// gen is the load it last adopted.
func (a *Adapter) current(gen uint64) (player.Reporter, uint64, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.active || a.reporter == nil || gen != a.loadGen {
		return nil, 0, false
	}
	return a.reporter, a.epoch, true
}

func (a *Adapter) onTimeUpdate(gen uint64, seconds float64) {
	if !player.Finite(seconds) {
		return
	}
	if r, epoch, ok := a.current(gen); ok {
		r.ReportProgress(player.KindLocal, epoch, seconds)
	}
}

// onLoadedMetadata forwards only finite durations; streams report Inf.
func (a *Adapter) onLoadedMetadata(gen uint64, duration float64) {
	if !player.Finite(duration) {
		return
	}
	if r, epoch, ok := a.current(gen); ok {
		r.ReportDuration(player.KindLocal, epoch, duration)
	}
}

func (a *Adapter) onEnded(gen uint64) {
	if r, epoch, ok := a.current(gen); ok {
		r.ReportEnded(player.KindLocal, epoch)
	}
}

var _ player.Backend = (*Adapter)(nil)

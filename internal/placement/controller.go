package placement

import (
	"sync"

	zlog "github.com/rs/zerolog/log"
)

// ProximitySource reports pointer presence supplied by the embedding
// environment.
type ProximitySource interface {
	// Watch calls onLeave when the pointer leaves the tracked region.
	// The returned function releases the subscription.
	Watch(onLeave func()) (release func())
}

// ModeStore persists the selected mode.
type ModeStore interface {
	SaveEmbedMode(mode string)
}

// Controller is the placement state machine. It never touches playback.
//
// background is true only while mode is fullscreen, an embedded track is
// active, and the pointer is over the region. A proximity subscription
// is held exactly while background is true.
type Controller struct {
	mu         sync.Mutex
	mode       Mode
	embedded   bool
	background bool
	proximity  ProximitySource
	release    func()
	watchGen   uint64
	store      ModeStore
	listeners  []func(Surface)
}

// NewController creates a controller in mode. proximity and store may be nil.
func NewController(mode Mode, proximity ProximitySource, store ModeStore) *Controller {
	return &Controller{mode: mode, proximity: proximity, store: store}
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Background reports whether the surface is pushed to the background.
func (c *Controller) Background() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.background
}

// Watching reports whether a proximity subscription is held.
func (c *Controller) Watching() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.release != nil
}

// Surface returns the current rendering decision.
func (c *Controller) Surface() Surface {
	c.mu.Lock()
	defer c.mu.Unlock()
	return surfaceFor(c.mode, c.embedded, c.background)
}

// OnChange registers fn to be called after every surface change.
func (c *Controller) OnChange(fn func(Surface)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Cycle moves to the next mode and returns it.
func (c *Controller) Cycle() Mode {
	c.mu.Lock()
	next := c.mode.Next()
	c.mu.Unlock()
	c.SetMode(next)
	return next
}

// SetMode selects mode. Leaving fullscreen clears background.
func (c *Controller) SetMode(mode Mode) {
	c.mu.Lock()
	if mode == c.mode {
		c.mu.Unlock()
		return
	}
	c.mode = mode
	var release func()
	if mode != ModeFullscreen {
		release = c.clearBackgroundLocked()
	}
	store := c.store
	c.mu.Unlock()

	if release != nil {
		release()
	}
	if store != nil {
		store.SaveEmbedMode(mode.String())
	}
	zlog.Debug().Stringer("mode", mode).Msg("embed placement changed")
	c.notify()
}

// SetEmbeddedActive records whether the current track plays on the
// embedded backend. Losing it clears background.
func (c *Controller) SetEmbeddedActive(active bool) {
	c.mu.Lock()
	if active == c.embedded {
		c.mu.Unlock()
		return
	}
	c.embedded = active
	var release func()
	if !active {
		release = c.clearBackgroundLocked()
	}
	c.mu.Unlock()

	if release != nil {
		release()
	}
	c.notify()
}

// PointerEnter signals pointer presence over the designated region.
func (c *Controller) PointerEnter() {
	c.mu.Lock()
	if c.background || c.mode != ModeFullscreen || !c.embedded {
		c.mu.Unlock()
		return
	}
	c.background = true
	c.watchGen++
	gen := c.watchGen
	proximity := c.proximity
	c.mu.Unlock()

	if proximity != nil {
		release := proximity.Watch(func() { c.leave(gen) })
		c.mu.Lock()
		if c.background && c.watchGen == gen && c.release == nil {
			c.release = release
			release = nil
		}
		c.mu.Unlock()
		if release != nil {
			// Background was cleared while subscribing.
			release()
		}
	}
	c.notify()
}

// PointerLeave signals the pointer left the region.
func (c *Controller) PointerLeave() {
	c.mu.Lock()
	gen := c.watchGen
	c.mu.Unlock()
	c.leave(gen)
}

func (c *Controller) leave(gen uint64) {
	c.mu.Lock()
	if !c.background || gen != c.watchGen {
		c.mu.Unlock()
		return
	}
	release := c.clearBackgroundLocked()
	c.mu.Unlock()

	if release != nil {
		release()
	}
	c.notify()
}

// clearBackgroundLocked turns background off and returns the
// subscription release to call once the lock is dropped.
func (c *Controller) clearBackgroundLocked() func() {
	if !c.background {
		return nil
	}
	c.background = false
	c.watchGen++
	release := c.release
	c.release = nil
	return release
}

// Close releases any proximity subscription.
func (c *Controller) Close() {
	c.mu.Lock()
	release := c.clearBackgroundLocked()
	c.listeners = nil
	c.mu.Unlock()
	if release != nil {
		release()
	}
}

func (c *Controller) notify() {
	c.mu.Lock()
	s := surfaceFor(c.mode, c.embedded, c.background)
	listeners := append(([]func(Surface))(nil), c.listeners...)
	c.mu.Unlock()
	for _, fn := range listeners {
		fn(s)
	}
}

package app

import (
	"maps"
	"slices"
	"sync"
)

// Proximity reports when the pointer leaves the terminal. Terminal focus
// stands in for pointer presence: losing focus means the pointer left.
// It implements placement.ProximitySource.
type Proximity struct {
	mu       sync.Mutex
	next     int
	watchers map[int]func()
}

// NewProximity creates a proximity source with no watchers.
func NewProximity() *Proximity {
	return &Proximity{watchers: map[int]func(){}}
}

// Watch registers onLeave until the returned release is called.
func (p *Proximity) Watch(onLeave func()) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.next
	p.next++
	p.watchers[id] = onLeave
	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			delete(p.watchers, id)
		})
	}
}

// Leave notifies every watcher. Watchers run without the lock held and
// may release themselves.
func (p *Proximity) Leave() {
	p.mu.Lock()
	keys := slices.Sorted(maps.Keys(p.watchers))
	fns := make([]func(), 0, len(keys))
	for _, k := range keys {
		fns = append(fns, p.watchers[k])
	}
	p.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Watchers returns the number of active watchers.
func (p *Proximity) Watchers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.watchers)
}

// Package playback owns the playback session: the queue/history engine
// and the coordinator that keeps exactly one media backend in sync
// with it.
package playback

import (
	"math"
	"sync"

	"github.com/llehouerou/frvmusic/internal/playlist"
)

// Engine is the authoritative queue, transport and position state.
// Every transition is synchronous and atomic with respect to readers.
type Engine struct {
	mu       sync.RWMutex
	queue    *playlist.PlayingQueue
	playing  bool
	progress float64
	duration float64
	epoch    uint64

	subsMu sync.Mutex
	subs   []*Subscription
	closed bool
}

// NewEngine creates an engine with an empty queue.
func NewEngine() *Engine {
	return &Engine{queue: playlist.NewQueue()}
}

// ReplaceQueue installs a new deduplicated queue positioned on startID
// (or the first entry), clears history, resets progress and duration,
// and plays iff the queue is non-empty.
func (e *Engine) ReplaceQueue(ids []string, startID string) {
	e.replaceQueue(ids, startID, true)
}

// RestoreQueue is ReplaceQueue that leaves the transport paused. A
// non-empty queue goes straight to Paused without passing Playing.
func (e *Engine) RestoreQueue(ids []string, startID string) {
	e.replaceQueue(ids, startID, false)
}

func (e *Engine) replaceQueue(ids []string, startID string, play bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.markLocked()
	e.queue.Replace(ids, startID)
	e.commitTrackLocked(prev, play && e.queue.CurrentIndex() >= 0)
	e.publishQueueLocked()
}

// PlaySingle plays id within context. A non-empty context replaces the
// queue; otherwise id is selected, being appended first if not queued.
func (e *Engine) PlaySingle(id string, context []string) {
	if len(context) > 0 {
		e.ReplaceQueue(context, id)
		return
	}
	if id == "" {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.markLocked()
	before := e.queue.Len()
	e.queue.Select(id)
	e.commitTrackLocked(prev, true)
	if e.queue.Len() != before {
		e.publishQueueLocked()
	}
}

// Advance moves to the next entry, wrapping around, and records the
// track being left in history. No-op on an empty queue.
func (e *Engine) Advance() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.queue.IsEmpty() {
		return
	}
	prev := e.markLocked()
	e.queue.Next()
	e.commitTrackLocked(prev, true)
}

// Rewind moves to the previous entry, wrapping around. History is
// untouched. No-op on an empty queue.
func (e *Engine) Rewind() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.queue.IsEmpty() {
		return
	}
	prev := e.markLocked()
	e.queue.Previous()
	e.commitTrackLocked(prev, true)
}

// JumpTo moves to index. Returns false and does nothing when out of range.
func (e *Engine) JumpTo(index int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if index < 0 || index >= e.queue.Len() {
		return false
	}
	prev := e.markLocked()
	e.queue.JumpTo(index)
	e.commitTrackLocked(prev, true)
	return true
}

// TogglePlay flips the transport flag.
func (e *Engine) TogglePlay() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setPlayingLocked(!e.playing)
}

// SetPlaying sets the transport flag. Playing an empty queue is ignored.
func (e *Engine) SetPlaying(playing bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setPlayingLocked(playing)
}

func (e *Engine) setPlayingLocked(playing bool) {
	if playing && e.queue.IsEmpty() {
		return
	}
	if playing == e.playing {
		return
	}
	before := e.stateLocked()
	e.playing = playing
	e.publishStateLocked(before)
}

// SetProgress sets elapsed seconds. Negative and non-finite values are
// ignored.
func (e *Engine) SetProgress(seconds float64) {
	if !validTime(seconds) {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.progress = seconds
	e.publish(func(s *Subscription) { s.sendProgress(ProgressChange{Progress: seconds}) })
}

// SetDuration sets the track duration. Negative and non-finite values
// are ignored.
func (e *Engine) SetDuration(seconds float64) {
	if !validTime(seconds) {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if seconds == e.duration {
		return
	}
	e.duration = seconds
	e.publish(func(s *Subscription) { s.sendDuration(DurationChange{Duration: seconds}) })
}

// Reset empties the queue and history and pauses.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.markLocked()
	e.queue.Clear()
	e.commitTrackLocked(prev, false)
	e.publishQueueLocked()
}

// Epoch returns the current track-change generation.
func (e *Engine) Epoch() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.epoch
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Snapshot{
		Queue:     e.queue.IDs(),
		Index:     e.queue.CurrentIndex(),
		History:   e.queue.History(),
		CurrentID: e.queue.Current(),
		Playing:   e.playing,
		Progress:  e.progress,
		Duration:  e.duration,
		Epoch:     e.epoch,
	}
}

// Subscribe returns a new event subscription. After Close it returns an
// already-closed subscription.
func (e *Engine) Subscribe() *Subscription {
	e.subsMu.Lock()
	defer e.subsMu.Unlock()
	sub := newSubscription()
	if e.closed {
		sub.close()
		return sub
	}
	e.subs = append(e.subs, sub)
	return sub
}

// Close closes every subscription. Safe to call more than once.
func (e *Engine) Close() {
	e.subsMu.Lock()
	defer e.subsMu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	for _, s := range e.subs {
		s.close()
	}
	e.subs = nil
}

// mark captures what a track change is compared against.
type mark struct {
	id    string
	index int
	state State
}

func (e *Engine) markLocked() mark {
	return mark{id: e.queue.Current(), index: e.queue.CurrentIndex(), state: e.stateLocked()}
}

// commitTrackLocked finishes a track change: new epoch, progress and
// duration reset, transport set.
func (e *Engine) commitTrackLocked(prev mark, playing bool) {
	e.epoch++
	e.progress = 0
	e.duration = 0
	e.playing = playing && !e.queue.IsEmpty()

	tc := TrackChange{
		PreviousID:    prev.id,
		CurrentID:     e.queue.Current(),
		PreviousIndex: prev.index,
		Index:         e.queue.CurrentIndex(),
		Epoch:         e.epoch,
	}
	e.publish(func(s *Subscription) {
		s.sendTrack(tc)
		s.sendProgress(ProgressChange{})
	})
	e.publishStateLocked(prev.state)
}

func (e *Engine) stateLocked() State {
	switch {
	case e.queue.IsEmpty():
		return StateStopped
	case e.playing:
		return StatePlaying
	default:
		return StatePaused
	}
}

func (e *Engine) publishStateLocked(before State) {
	after := e.stateLocked()
	if after == before {
		return
	}
	e.publish(func(s *Subscription) { s.sendState(StateChange{Previous: before, Current: after}) })
}

func (e *Engine) publishQueueLocked() {
	qc := QueueChange{IDs: e.queue.IDs(), Index: e.queue.CurrentIndex()}
	e.publish(func(s *Subscription) { s.sendQueue(qc) })
}

func (e *Engine) publishError(ev ErrorEvent) {
	e.publish(func(s *Subscription) { s.sendError(ev) })
}

func (e *Engine) publishBackend(ev BackendChange) {
	e.publish(func(s *Subscription) { s.sendBackend(ev) })
}

func (e *Engine) publish(fn func(*Subscription)) {
	e.subsMu.Lock()
	defer e.subsMu.Unlock()
	for _, s := range e.subs {
		fn(s)
	}
}

func validTime(v float64) bool {
	return v >= 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

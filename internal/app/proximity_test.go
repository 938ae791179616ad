package app

import "testing"

func TestProximity_LeaveNotifiesWatchers(t *testing.T) {
	p := NewProximity()
	var calls []int
	release1 := p.Watch(func() { calls = append(calls, 1) })
	p.Watch(func() { calls = append(calls, 2) })

	p.Leave()
	if len(calls) != 2 || calls[0] != 1 || calls[1] != 2 {
		t.Errorf("Leave() calls = %v, want [1 2]", calls)
	}

	release1()
	release1()
	if got := p.Watchers(); got != 1 {
		t.Errorf("Watchers() = %d, want 1", got)
	}
}

func TestProximity_WatcherMayReleaseItself(t *testing.T) {
	p := NewProximity()
	var release func()
	release = p.Watch(func() { release() })

	p.Leave()
	if got := p.Watchers(); got != 0 {
		t.Errorf("Watchers() = %d, want 0", got)
	}
}

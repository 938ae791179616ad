package playback

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_ReplaceQueue(t *testing.T) {
	tests := []struct {
		name    string
		ids     []string
		startID string
		queue   []string
		index   int
		playing bool
	}{
		{"start present", []string{"a", "b", "c"}, "b", []string{"a", "b", "c"}, 1, true},
		{"start missing", []string{"a", "b"}, "z", []string{"a", "b"}, 0, true},
		{"no start", []string{"a", "b"}, "", []string{"a", "b"}, 0, true},
		{"dedupes keeping first", []string{"a", "b", "a", "c", "b"}, "c", []string{"a", "b", "c"}, 2, true},
		{"empty", nil, "a", []string{}, -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine()
			e.ReplaceQueue([]string{"old"}, "")
			e.Advance()
			e.SetProgress(12)
			e.SetDuration(90)

			e.ReplaceQueue(tt.ids, tt.startID)

			s := e.Snapshot()
			assert.Equal(t, tt.queue, s.Queue)
			assert.Equal(t, tt.index, s.Index)
			assert.Equal(t, tt.playing, s.Playing)
			assert.Empty(t, s.History)
			assert.Zero(t, s.Progress)
			assert.Zero(t, s.Duration)
		})
	}
}

func TestEngine_ReplaceQueueIdempotent(t *testing.T) {
	e := NewEngine()
	ids := []string{"a", "b", "b", "c"}

	e.ReplaceQueue(ids, "c")
	first := e.Snapshot()
	e.ReplaceQueue(ids, "c")
	second := e.Snapshot()

	assert.Equal(t, first.Queue, second.Queue)
	assert.Equal(t, first.Index, second.Index)
	assert.Equal(t, first.History, second.History)
	assert.Equal(t, first.Progress, second.Progress)
	assert.Equal(t, first.Duration, second.Duration)
	assert.Equal(t, first.Playing, second.Playing)
}

func TestEngine_Scenario_AdvanceWrapRewind(t *testing.T) {
	e := NewEngine()

	e.ReplaceQueue([]string{"a", "b", "c"}, "b")
	require.Equal(t, 1, e.Snapshot().Index)

	e.Advance()
	s := e.Snapshot()
	assert.Equal(t, 2, s.Index)
	assert.Equal(t, []string{"b"}, s.History)

	e.Advance()
	s = e.Snapshot()
	assert.Equal(t, 0, s.Index, "wraps")
	assert.Equal(t, []string{"b", "c"}, s.History)

	e.Rewind()
	s = e.Snapshot()
	assert.Equal(t, 2, s.Index)
	assert.Equal(t, []string{"b", "c"}, s.History, "rewind leaves history")
}

func TestEngine_AdvanceFullCycleReturnsToStart(t *testing.T) {
	for n := 1; n <= 6; n++ {
		ids := make([]string, n)
		for i := range ids {
			ids[i] = string(rune('a' + i))
		}
		for start := range n {
			e := NewEngine()
			e.ReplaceQueue(ids, ids[start])
			for range n {
				e.Advance()
			}
			if got := e.Snapshot().Index; got != start {
				t.Errorf("len %d start %d: Index after %d advances = %d, want %d", n, start, n, got, start)
			}
		}
	}
}

func TestEngine_RewindUndoesAdvance(t *testing.T) {
	for n := 2; n <= 5; n++ {
		ids := make([]string, n)
		for i := range ids {
			ids[i] = string(rune('a' + i))
		}
		for start := range n {
			e := NewEngine()
			e.ReplaceQueue(ids, ids[start])
			e.Advance()
			e.Rewind()
			if got := e.Snapshot().Index; got != start {
				t.Errorf("len %d: Rewind(Advance()) = %d, want %d", n, got, start)
			}
		}
	}
}

func TestEngine_SingleTrackRepeats(t *testing.T) {
	e := NewEngine()
	e.ReplaceQueue([]string{"only"}, "")
	e.SetProgress(100)
	epoch := e.Epoch()

	e.Advance()

	s := e.Snapshot()
	assert.Equal(t, 0, s.Index)
	assert.Zero(t, s.Progress)
	assert.True(t, s.Playing)
	assert.Greater(t, s.Epoch, epoch, "same-track wrap is a track change")

	e.Rewind()
	assert.Equal(t, 0, e.Snapshot().Index)
}

func TestEngine_EmptyQueueNavigationNoop(t *testing.T) {
	e := NewEngine()
	epoch := e.Epoch()

	e.Advance()
	e.Rewind()
	ok := e.JumpTo(0)

	assert.False(t, ok)
	s := e.Snapshot()
	assert.Equal(t, -1, s.Index)
	assert.Equal(t, epoch, s.Epoch)
	assert.False(t, s.Playing)
}

func TestEngine_Scenario_PlaySingleAppends(t *testing.T) {
	e := NewEngine()
	e.ReplaceQueue([]string{"a", "b"}, "a")
	e.SetProgress(40)

	e.PlaySingle("x", nil)

	s := e.Snapshot()
	assert.Equal(t, []string{"a", "b", "x"}, s.Queue)
	assert.Equal(t, 2, s.Index)
	assert.True(t, s.Playing)
	assert.Zero(t, s.Progress)
	assert.Empty(t, s.History)
}

func TestEngine_PlaySingleExistingJumps(t *testing.T) {
	e := NewEngine()
	e.ReplaceQueue([]string{"a", "b", "c"}, "a")
	e.SetPlaying(false)

	e.PlaySingle("c", nil)

	s := e.Snapshot()
	assert.Equal(t, []string{"a", "b", "c"}, s.Queue)
	assert.Equal(t, 2, s.Index)
	assert.True(t, s.Playing)
	assert.Empty(t, s.History, "no history push")
}

func TestEngine_PlaySingleWithContextReplaces(t *testing.T) {
	e := NewEngine()
	e.ReplaceQueue([]string{"a", "b"}, "a")
	e.Advance()

	e.PlaySingle("y", []string{"x", "y", "z"})

	s := e.Snapshot()
	assert.Equal(t, []string{"x", "y", "z"}, s.Queue)
	assert.Equal(t, 1, s.Index)
	assert.Empty(t, s.History)
}

func TestEngine_JumpTo(t *testing.T) {
	e := NewEngine()
	e.ReplaceQueue([]string{"a", "b", "c"}, "a")
	e.SetPlaying(false)
	e.SetProgress(5)

	assert.False(t, e.JumpTo(3))
	assert.False(t, e.JumpTo(-1))
	assert.Equal(t, 0, e.Snapshot().Index)

	assert.True(t, e.JumpTo(2))
	s := e.Snapshot()
	assert.Equal(t, 2, s.Index)
	assert.True(t, s.Playing)
	assert.Zero(t, s.Progress)
	assert.Empty(t, s.History, "jump does not push history")
}

func TestEngine_Reset(t *testing.T) {
	e := NewEngine()
	e.ReplaceQueue([]string{"a", "b"}, "a")
	e.Advance()
	e.SetDuration(100)

	e.Reset()

	s := e.Snapshot()
	assert.Empty(t, s.Queue)
	assert.Empty(t, s.History)
	assert.Equal(t, -1, s.Index)
	assert.False(t, s.Playing)
	assert.Zero(t, s.Progress)
	assert.Zero(t, s.Duration)
	assert.Equal(t, StateStopped, s.State())
}

func TestEngine_Setters(t *testing.T) {
	e := NewEngine()
	e.ReplaceQueue([]string{"a"}, "")
	epoch := e.Epoch()

	e.TogglePlay()
	assert.False(t, e.Snapshot().Playing)
	e.TogglePlay()
	assert.True(t, e.Snapshot().Playing)

	e.SetProgress(12.5)
	e.SetDuration(300)
	e.SetProgress(-1)
	e.SetProgress(math.NaN())
	e.SetDuration(math.Inf(1))

	s := e.Snapshot()
	assert.InDelta(t, 12.5, s.Progress, 1e-9)
	assert.InDelta(t, 300, s.Duration, 1e-9)
	assert.Equal(t, epoch, s.Epoch, "setters are not track changes")
}

func TestEngine_SetPlayingOnEmptyIgnored(t *testing.T) {
	e := NewEngine()

	e.SetPlaying(true)
	e.TogglePlay()

	assert.False(t, e.Snapshot().Playing)
}

func TestEngine_SnapshotIsCopy(t *testing.T) {
	e := NewEngine()
	e.ReplaceQueue([]string{"a", "b"}, "")

	s := e.Snapshot()
	s.Queue[0] = "mutated"

	assert.Equal(t, "a", e.Snapshot().Queue[0])
}

func TestEngine_EventsOnTrackChange(t *testing.T) {
	e := NewEngine()
	sub := e.Subscribe()

	e.ReplaceQueue([]string{"a", "b"}, "b")

	tc := <-sub.TrackChanged
	assert.Equal(t, "", tc.PreviousID)
	assert.Equal(t, "b", tc.CurrentID)
	assert.Equal(t, 1, tc.Index)
	sc := <-sub.StateChanged
	assert.Equal(t, StateChange{Previous: StateStopped, Current: StatePlaying}, sc)
	qc := <-sub.QueueChanged
	assert.Equal(t, []string{"a", "b"}, qc.IDs)

	e.Advance()
	tc = <-sub.TrackChanged
	assert.Equal(t, "b", tc.PreviousID)
	assert.Equal(t, "a", tc.CurrentID)
	assert.Equal(t, e.Epoch(), tc.Epoch)

	select {
	case <-sub.QueueChanged:
		t.Error("advance must not emit QueueChanged")
	default:
	}
}

func TestEngine_RestoreQueueGoesStraightToPaused(t *testing.T) {
	e := NewEngine()
	sub := e.Subscribe()

	e.RestoreQueue([]string{"a", "b"}, "b")

	s := e.Snapshot()
	assert.Equal(t, []string{"a", "b"}, s.Queue)
	assert.Equal(t, 1, s.Index)
	assert.False(t, s.Playing)
	assert.Equal(t, StateChange{Previous: StateStopped, Current: StatePaused}, <-sub.StateChanged)
	select {
	case sc := <-sub.StateChanged:
		t.Errorf("unexpected state change %v", sc)
	default:
	}

	e.RestoreQueue(nil, "")
	assert.Equal(t, StateChange{Previous: StatePaused, Current: StateStopped}, <-sub.StateChanged)
}

func TestEngine_CloseClosesSubscriptions(t *testing.T) {
	e := NewEngine()
	sub := e.Subscribe()

	e.Close()
	e.Close()

	<-sub.Done
	late := e.Subscribe()
	<-late.Done
}

func TestEngine_ConcurrentReadsSeeConsistentState(t *testing.T) {
	e := NewEngine()
	ids := []string{"a", "b", "c", "d"}
	e.ReplaceQueue(ids, "")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 500 {
			e.Advance()
		}
	}()
	for range 500 {
		s := e.Snapshot()
		if s.Index < 0 || s.Index >= len(s.Queue) {
			t.Fatalf("Index %d out of range for %d", s.Index, len(s.Queue))
		}
		if !slices.Contains(ids, s.CurrentID) || s.Queue[s.Index] != s.CurrentID {
			t.Fatalf("CurrentID %q inconsistent with Queue[%d]", s.CurrentID, s.Index)
		}
	}
	<-done
}

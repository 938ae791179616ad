package playback

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/frvmusic/internal/catalog"
	"github.com/llehouerou/frvmusic/internal/player"
)

type fakePrefs struct {
	mu      sync.Mutex
	lastIDs []string
	volumes []float64
}

func (p *fakePrefs) SaveLastTrackID(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastIDs = append(p.lastIDs, id)
}

func (p *fakePrefs) SaveVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volumes = append(p.volumes, v)
}

func testCatalog() *catalog.Catalog {
	return catalog.New(catalog.Data{
		Tracks: []catalog.Track{
			{ID: "l1", Duration: 200, Sources: catalog.Sources{AudioURL: "/l1.mp3"}},
			{ID: "l2", Duration: 180, Sources: catalog.Sources{AudioURL: "/l2.mp3"}},
			{ID: "e1", Duration: 240, Sources: catalog.Sources{YoutubeID: "vid1"}},
			{ID: "e2", Sources: catalog.Sources{YoutubeID: "vid2"}},
			{ID: "both", Sources: catalog.Sources{AudioURL: "/both.mp3", YoutubeID: "vidb"}},
			{ID: "none1"},
			{ID: "none2"},
		},
	})
}

type harness struct {
	c     *Coordinator
	local *player.Mock
	embed *player.Mock
	prefs *fakePrefs
}

func newHarness(t *testing.T, cfg Config) *harness {
	t.Helper()
	h := &harness{
		local: player.NewMock(player.KindLocal),
		embed: player.NewMock(player.KindEmbedded),
		prefs: &fakePrefs{},
	}
	if cfg.Volume == 0 {
		cfg.Volume = 0.8
	}
	h.c = NewCoordinator(NewEngine(), testCatalog(), h.prefs, cfg, h.local, h.embed)
	return h
}

func (h *harness) activeCount() int {
	n := 0
	for _, b := range []*player.Mock{h.local, h.embed} {
		if b.IsActive() {
			n++
		}
	}
	return n
}

func TestCoordinator_BindsBackends(t *testing.T) {
	h := newHarness(t, Config{})
	assert.Same(t, h.c, h.local.Reporter())
	assert.Same(t, h.c, h.embed.Reporter())
}

func TestCoordinator_ActivatesResolvedBackend(t *testing.T) {
	tests := []struct {
		id     string
		kind   player.Kind
		source string
	}{
		{"l1", player.KindLocal, "/l1.mp3"},
		{"e1", player.KindEmbedded, "vid1"},
		{"both", player.KindLocal, "/both.mp3"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			h := newHarness(t, Config{})

			h.c.SetQueue([]string{tt.id}, "")

			assert.Equal(t, tt.kind, h.c.Active())
			assert.Equal(t, 1, h.activeCount())
			active := map[player.Kind]*player.Mock{player.KindLocal: h.local, player.KindEmbedded: h.embed}[tt.kind]
			assert.Equal(t, tt.source, active.Target().Source)
			assert.Equal(t, h.c.Engine().Epoch(), active.Target().Epoch)
			assert.InDelta(t, 0.8, active.Target().Volume, 1e-9)
		})
	}
}

func TestCoordinator_DualSourceNeverTouchesEmbedded(t *testing.T) {
	h := newHarness(t, Config{})

	h.c.SetQueue([]string{"both"}, "")
	h.c.Pause()
	require.NoError(t, h.c.Play())
	h.c.Seek(30)
	h.c.SetVolume(0.2)

	for _, call := range h.embed.Calls() {
		assert.Equal(t, "deactivate", call, "embedded adapter only deactivated")
	}
	assert.Equal(t, []string{"activate:/both.mp3:true", "pause", "play", "seek:30", "volume:0.2"}, h.local.Calls())
}

func TestCoordinator_SwitchDeactivatesBeforeActivating(t *testing.T) {
	h := newHarness(t, Config{})
	h.c.SetQueue([]string{"l1", "e1", "l2"}, "l1")
	h.local.ResetCalls()
	h.embed.ResetCalls()

	require.NoError(t, h.c.Next())

	assert.Equal(t, []string{"deactivate"}, h.local.Calls())
	assert.Equal(t, []string{"activate:vid1:true"}, h.embed.Calls())
	assert.Equal(t, 1, h.activeCount())

	require.NoError(t, h.c.Next())
	assert.Equal(t, player.KindLocal, h.c.Active())
	assert.Equal(t, 1, h.activeCount())
	assert.False(t, h.embed.IsActive())
}

func TestCoordinator_TransportForwardedToActive(t *testing.T) {
	h := newHarness(t, Config{})
	h.c.SetQueue([]string{"e1"}, "")
	h.embed.ResetCalls()

	require.NoError(t, h.c.Toggle())
	require.NoError(t, h.c.Toggle())
	h.c.Pause()
	h.c.Pause()

	assert.Equal(t, []string{"pause", "play", "pause"}, h.embed.Calls())
}

func TestCoordinator_IntentsOnEmptyQueue(t *testing.T) {
	h := newHarness(t, Config{})

	assert.ErrorIs(t, h.c.Play(), ErrEmptyQueue)
	assert.ErrorIs(t, h.c.Toggle(), ErrEmptyQueue)
	assert.ErrorIs(t, h.c.Next(), ErrEmptyQueue)
	assert.ErrorIs(t, h.c.Previous(), ErrEmptyQueue)
	assert.ErrorIs(t, h.c.JumpTo(0), ErrInvalidIndex)
	assert.ErrorIs(t, h.c.PlayTrack("missing", nil), catalog.ErrTrackNotFound)
	h.c.Seek(10)

	assert.Empty(t, h.local.Calls())
	assert.Empty(t, h.embed.Calls())
}

func TestCoordinator_EndedAdvances(t *testing.T) {
	h := newHarness(t, Config{})
	h.c.SetQueue([]string{"l1", "l2"}, "l1")

	h.local.SimulateEnded()

	s := h.c.Status()
	assert.Equal(t, "l2", s.CurrentID)
	assert.Equal(t, []string{"l1"}, s.History)
	assert.Equal(t, "/l2.mp3", h.local.Target().Source)
}

func TestCoordinator_StaleReportsDropped(t *testing.T) {
	h := newHarness(t, Config{})
	h.c.SetQueue([]string{"l1", "e1"}, "l1")
	staleEpoch := h.local.Target().Epoch
	require.NoError(t, h.c.Next())

	rep := h.local.Reporter()
	rep.ReportProgress(player.KindLocal, staleEpoch, 150)
	rep.ReportEnded(player.KindLocal, staleEpoch)
	rep.ReportPlaying(player.KindLocal, staleEpoch, false)
	rep.ReportError(player.KindLocal, staleEpoch, errors.New("late"))
	// Right epoch, wrong backend.
	rep.ReportProgress(player.KindLocal, h.embed.Target().Epoch, 99)

	s := h.c.Status()
	assert.Equal(t, "e1", s.CurrentID)
	assert.Zero(t, s.Progress)
	assert.True(t, s.Playing)
}

func TestCoordinator_ProgressResetBeforeNewTrackReports(t *testing.T) {
	h := newHarness(t, Config{})
	h.c.SetQueue([]string{"l1", "l2"}, "l1")
	h.local.SimulateProgress(120)
	require.InDelta(t, 120, h.c.Status().Progress, 1e-9)

	sub := h.c.Subscribe()
	require.NoError(t, h.c.Next())

	assert.Zero(t, h.c.Status().Progress)
	tc := <-sub.TrackChanged
	assert.Equal(t, "l2", tc.CurrentID)
	first := <-sub.ProgressChanged
	assert.Zero(t, first.Progress, "first progress after a track change is 0")

	h.local.SimulateProgress(1)
	assert.InDelta(t, 1, h.c.Status().Progress, 1e-9)
}

func TestCoordinator_ReportsApplied(t *testing.T) {
	h := newHarness(t, Config{})
	h.c.SetQueue([]string{"e1"}, "")
	epoch := h.embed.Target().Epoch

	h.c.ReportDuration(player.KindEmbedded, epoch, 240)
	h.c.ReportProgress(player.KindEmbedded, epoch, 12)
	h.c.ReportPlaying(player.KindEmbedded, epoch, false)

	s := h.c.Status()
	assert.InDelta(t, 240, s.Duration, 1e-9)
	assert.InDelta(t, 12, s.Progress, 1e-9)
	assert.False(t, s.Playing)
	assert.NotContains(t, h.embed.Calls(), "pause", "reported transport is not echoed back")

	// External play then local resume intent is a no-op.
	h.c.ReportPlaying(player.KindEmbedded, epoch, true)
	h.embed.ResetCalls()
	require.NoError(t, h.c.Play())
	assert.Empty(t, h.embed.Calls())
}

func TestCoordinator_ErrorPausesKeepsPosition(t *testing.T) {
	h := newHarness(t, Config{})
	h.c.SetQueue([]string{"e1", "l1"}, "e1")
	sub := h.c.Subscribe()

	h.c.ReportError(player.KindEmbedded, h.embed.Target().Epoch, errors.New("code 150"))

	s := h.c.Status()
	assert.Equal(t, "e1", s.CurrentID)
	assert.False(t, s.Playing)
	ev := <-sub.Error
	assert.Equal(t, "e1", ev.TrackID)
	assert.Equal(t, player.KindEmbedded, ev.Backend)
}

// reentrantBackend reports failure synchronously from Activate.
type reentrantBackend struct {
	*player.Mock
}

func (b reentrantBackend) Activate(t player.Target, playing bool) {
	b.Mock.Activate(t, playing)
	if playing {
		b.Reporter().ReportPlaying(player.KindLocal, t.Epoch, false)
		b.Reporter().ReportError(player.KindLocal, t.Epoch, errors.New("autoplay blocked"))
	}
}

func TestCoordinator_SynchronousPlayRejection(t *testing.T) {
	local := reentrantBackend{player.NewMock(player.KindLocal)}
	c := NewCoordinator(NewEngine(), testCatalog(), nil, Config{Volume: 1}, local)

	c.SetQueue([]string{"l1"}, "")

	s := c.Status()
	assert.False(t, s.Playing, "transport flips to paused")
	assert.Equal(t, "l1", s.CurrentID)
}

func TestCoordinator_UnplayableStays(t *testing.T) {
	h := newHarness(t, Config{})
	h.c.SetQueue([]string{"l1", "none1", "l2"}, "l1")
	sub := h.c.Subscribe()

	require.NoError(t, h.c.Next())

	s := h.c.Status()
	assert.Equal(t, "none1", s.CurrentID)
	assert.Equal(t, 1, s.Index)
	assert.True(t, s.Unplayable)
	assert.Equal(t, player.KindNone, s.Backend)
	assert.Zero(t, h.activeCount(), "both adapters deactivated")
	bc := <-sub.BackendChanged
	assert.True(t, bc.Unplayable)
}

func TestCoordinator_UnplayableSkippedWhenConfigured(t *testing.T) {
	h := newHarness(t, Config{SkipUnplayable: true})

	h.c.SetQueue([]string{"l1", "none1", "none2", "e1"}, "l1")
	require.NoError(t, h.c.Next())

	s := h.c.Status()
	assert.Equal(t, "e1", s.CurrentID)
	assert.Equal(t, []string{"l1", "none1", "none2"}, s.History)
	assert.False(t, s.Unplayable)
}

func TestCoordinator_AllUnplayableSkipIsBounded(t *testing.T) {
	h := newHarness(t, Config{SkipUnplayable: true})

	h.c.SetQueue([]string{"none1", "none2"}, "none1")

	s := h.c.Status()
	assert.True(t, s.Unplayable)
	assert.Len(t, s.History, 1, "one skip per other entry")
}

func TestCoordinator_PlayTrackScenario(t *testing.T) {
	h := newHarness(t, Config{})
	h.c.SetQueue([]string{"l1", "l2"}, "l1")

	require.NoError(t, h.c.PlayTrack("e1", nil))

	s := h.c.Status()
	assert.Equal(t, []string{"l1", "l2", "e1"}, s.Queue)
	assert.Equal(t, 2, s.Index)
	assert.True(t, s.Playing)
	assert.Zero(t, s.Progress)
	assert.Equal(t, player.KindEmbedded, s.Backend)
}

func TestCoordinator_PersistsLastTrackAndVolume(t *testing.T) {
	h := newHarness(t, Config{})

	h.c.SetQueue([]string{"l1", "l2"}, "l1")
	require.NoError(t, h.c.Next())
	require.NoError(t, h.c.Previous())
	h.c.SetVolume(1.7)

	assert.Equal(t, []string{"l1", "l2", "l1"}, h.prefs.lastIDs)
	assert.Equal(t, []float64{1}, h.prefs.volumes)
	assert.InDelta(t, 1, h.c.Volume(), 1e-9)
}

func TestCoordinator_VolumeCarriedIntoNextActivation(t *testing.T) {
	h := newHarness(t, Config{})
	h.c.SetQueue([]string{"l1", "e1"}, "l1")

	h.c.SetVolume(0)
	require.NoError(t, h.c.Next())

	assert.Zero(t, h.embed.Target().Volume)
	assert.NotContains(t, h.embed.Calls(), "volume:0", "inactive backend gets volume via target")
}

func TestCoordinator_SeekClampsAndUpdatesProgress(t *testing.T) {
	h := newHarness(t, Config{})
	h.c.SetQueue([]string{"l1"}, "")
	h.c.ReportDuration(player.KindLocal, h.local.Target().Epoch, 100)

	h.c.Seek(42)
	assert.InDelta(t, 42, h.c.Status().Progress, 1e-9)

	h.c.Seek(500)
	assert.InDelta(t, 100, h.c.Status().Progress, 1e-9)

	h.c.SeekBy(-150)
	assert.Zero(t, h.c.Status().Progress)
	assert.Equal(t, []string{"seek:42", "seek:100", "seek:0"}, h.local.Calls()[1:])
}

func TestCoordinator_RestoreCuesPaused(t *testing.T) {
	h := newHarness(t, Config{})

	h.c.Restore([]string{"l1", "e1"}, "e1")

	s := h.c.Status()
	assert.False(t, s.Playing)
	assert.Equal(t, []string{"activate:vid1:false"}, h.embed.Calls())
}

func TestCoordinator_RestoreNeverPublishesPlaying(t *testing.T) {
	h := newHarness(t, Config{})
	sub := h.c.Subscribe()

	h.c.Restore([]string{"l1", "e1"}, "l1")

	var states []StateChange
	for len(sub.StateChanged) > 0 {
		states = append(states, <-sub.StateChanged)
	}
	assert.Equal(t, []StateChange{{Previous: StateStopped, Current: StatePaused}}, states)
	assert.Equal(t, "activate:/l1.mp3:false", h.local.Calls()[0])
}

func TestCoordinator_StopDeactivatesAll(t *testing.T) {
	h := newHarness(t, Config{})
	h.c.SetQueue([]string{"l1"}, "")

	h.c.Stop()

	s := h.c.Status()
	assert.Equal(t, StateStopped, s.State())
	assert.Zero(t, h.activeCount())
	assert.Equal(t, player.KindNone, s.Backend)
	assert.False(t, s.Unplayable)
}

func TestCoordinator_DisplayDuration(t *testing.T) {
	h := newHarness(t, Config{})
	h.c.SetQueue([]string{"e1"}, "")

	assert.InDelta(t, 240, h.c.DisplayDuration(), 1e-9, "catalog hint")

	h.c.ReportDuration(player.KindEmbedded, h.embed.Target().Epoch, 238.5)
	assert.InDelta(t, 238.5, h.c.DisplayDuration(), 1e-9)
}

func TestCoordinator_StatusTrack(t *testing.T) {
	h := newHarness(t, Config{})
	assert.Nil(t, h.c.Status().Track)

	h.c.SetQueue([]string{"l2"}, "")
	require.NotNil(t, h.c.Status().Track)
	assert.Equal(t, "l2", h.c.Status().Track.ID)
}

func TestCoordinator_Close(t *testing.T) {
	h := newHarness(t, Config{})
	h.c.SetQueue([]string{"l1"}, "")
	sub := h.c.Subscribe()

	require.NoError(t, h.c.Close())

	<-sub.Done
	assert.Contains(t, h.local.Calls(), "close")
	assert.Contains(t, h.embed.Calls(), "close")
	assert.Equal(t, player.KindNone, h.c.Active())
}

func TestCoordinator_ConcurrentReportsSerialized(t *testing.T) {
	h := newHarness(t, Config{})
	h.c.SetQueue([]string{"l1", "l2", "e1"}, "l1")

	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			for range 50 {
				h.local.SimulateProgress(1)
				_ = h.c.Next()
			}
		})
	}
	wg.Wait()

	assert.LessOrEqual(t, h.activeCount(), 1)
	s := h.c.Status()
	assert.Equal(t, s.CurrentID, s.Queue[s.Index])
}

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/frvmusic/internal/catalog"
	"github.com/llehouerou/frvmusic/internal/placement"
	"github.com/llehouerou/frvmusic/internal/playback"
	"github.com/llehouerou/frvmusic/internal/player"
	"github.com/llehouerou/frvmusic/internal/state"
)

func testCatalog() *catalog.Catalog {
	return catalog.New(catalog.Data{
		Tracks: []catalog.Track{
			{ID: "t1", Sources: catalog.Sources{AudioURL: "/t1.mp3"}},
			{ID: "t2", Sources: catalog.Sources{AudioURL: "/t2.mp3"}},
			{ID: "t3", Sources: catalog.Sources{AudioURL: "/t3.mp3"}},
		},
	})
}

func newCoordinator(t *testing.T, store *state.Mock) *playback.Coordinator {
	t.Helper()
	c := playback.NewCoordinator(playback.NewEngine(), testCatalog(), store, playback.Config{Volume: 0.5},
		player.NewMock(player.KindLocal), player.NewMock(player.KindEmbedded))
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRestoreQueue_WholeCatalogWithoutSavedQueue(t *testing.T) {
	store := state.NewMock()
	coord := newCoordinator(t, store)

	restoreQueue(coord, testCatalog(), store, "t2")

	st := coord.Status()
	assert.Equal(t, []string{"t1", "t2", "t3"}, st.Queue)
	assert.Equal(t, "t2", st.CurrentID)
	assert.False(t, st.Playing)
}

func TestRestoreQueue_SavedQueueDropsUnknownIDs(t *testing.T) {
	store := state.NewMock()
	require.NoError(t, store.SaveQueue(state.QueueState{CurrentIndex: 2, TrackIDs: []string{"t3", "gone", "t1"}}))
	coord := newCoordinator(t, store)

	restoreQueue(coord, testCatalog(), store, "t3")

	st := coord.Status()
	assert.Equal(t, []string{"t3", "t1"}, st.Queue)
	assert.Equal(t, "t1", st.CurrentID, "saved index wins over the last track id")
	assert.False(t, st.Playing)
}

func TestRestoreQueue_EmptyCatalog(t *testing.T) {
	store := state.NewMock()
	coord := newCoordinator(t, store)

	restoreQueue(coord, catalog.New(catalog.Data{}), store, "")

	assert.Equal(t, -1, coord.Status().Index)
}

func TestInitialMode(t *testing.T) {
	tests := []struct {
		name     string
		saved    string
		fallback string
		want     placement.Mode
	}{
		{"saved wins", "top-left", "fullscreen", placement.ModeTopLeft},
		{"fallback when unsaved", "", "fullscreen", placement.ModeFullscreen},
		{"fallback when saved is unknown", "cinema", "hidden", placement.ModeHidden},
		{"sidebar when both unknown", "cinema", "theatre", placement.ModeSidebar},
		{"sidebar when both empty", "", "", placement.ModeSidebar},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := initialMode(tt.saved, tt.fallback); got != tt.want {
				t.Errorf("initialMode(%q, %q) = %v, want %v", tt.saved, tt.fallback, got, tt.want)
			}
		})
	}
}

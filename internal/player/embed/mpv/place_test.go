package mpv

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/frvmusic/internal/placement"
	"github.com/llehouerou/frvmusic/internal/player/embed"
)

func surfaceFor(t *testing.T, mode placement.Mode, background bool) placement.Surface {
	t.Helper()
	c := placement.NewController(mode, nil, nil)
	c.SetEmbeddedActive(true)
	if background {
		c.PointerEnter()
	}
	return c.Surface()
}

func propMap(props []property) map[string]any {
	out := make(map[string]any, len(props))
	for _, p := range props {
		out[p.name] = p.value
	}
	return out
}

func TestPlacementProperties(t *testing.T) {
	tests := []struct {
		name       string
		mode       placement.Mode
		background bool
		want       map[string]any
	}{
		{"sidebar", placement.ModeSidebar, false, map[string]any{
			"vid": "auto", "fullscreen": false, "ontop": false, "geometry": "32%x32%-0+0",
		}},
		{"fullscreen", placement.ModeFullscreen, false, map[string]any{
			"vid": "auto", "fullscreen": true, "ontop": true,
		}},
		{"fullscreen background", placement.ModeFullscreen, true, map[string]any{
			"vid": "auto", "fullscreen": true, "ontop": false,
		}},
		{"hidden", placement.ModeHidden, false, map[string]any{
			"vid": "no", "fullscreen": false, "ontop": false,
		}},
		{"bottom right", placement.ModeBottomRight, false, map[string]any{
			"vid": "auto", "fullscreen": false, "ontop": true, "geometry": "30%x30%-0-0",
		}},
		{"top left", placement.ModeTopLeft, false, map[string]any{
			"vid": "auto", "fullscreen": false, "ontop": true, "geometry": "30%x30%+0+0",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := propMap(placementProperties(surfaceFor(t, tt.mode, tt.background)))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProcess_Place(t *testing.T) {
	f := startFakeMPV(t)
	p := &Process{socketPath: f.path}

	require.NoError(t, p.Place(surfaceFor(t, placement.ModeTopLeft, false)))

	cmds := f.Commands()
	require.Len(t, cmds, 4)
	assert.Equal(t, []any{"set_property", "vid", "auto"}, cmds[0])
	assert.Equal(t, []any{"set_property", "geometry", "30%x30%+0+0"}, cmds[3])
}

func TestProcess_PlaceCombinesErrors(t *testing.T) {
	f := startFakeMPV(t)
	f.setReply(func(cmd []any) string {
		if len(cmd) > 1 && cmd[1] == "geometry" {
			return `{"error":"property unavailable"}`
		}
		return `{"error":"success","data":null}`
	})
	p := &Process{socketPath: f.path}

	err := p.Place(surfaceFor(t, placement.ModeSidebar, false))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "set geometry")
	assert.Len(t, f.Commands(), 4)
}

func TestFollow_AppliesCurrentThenLatest(t *testing.T) {
	f := startFakeMPV(t)
	proc := &Process{socketPath: f.path}
	boot := embed.NewBootstrap(func(context.Context) (embed.SDK, error) { return proc, nil })
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sidebar := surfaceFor(t, placement.ModeSidebar, false)
	update := Follow(ctx, boot, func() placement.Surface { return sidebar })

	// Queued before mpv is up; the second one replaces the first.
	update(surfaceFor(t, placement.ModeBottomRight, false))
	update(surfaceFor(t, placement.ModeTopLeft, false))
	boot.Start()

	assert.Eventually(t, func() bool { return len(f.Commands()) == 8 }, 5*time.Second, 10*time.Millisecond)
	cmds := f.Commands()
	assert.Equal(t, []any{"set_property", "geometry", "32%x32%-0+0"}, cmds[3])
	assert.Equal(t, []any{"set_property", "geometry", "30%x30%+0+0"}, cmds[7])
}

func TestFollow_StopsOnFailedLoad(t *testing.T) {
	boot := embed.NewBootstrap(func(context.Context) (embed.SDK, error) { return nil, errors.New("no mpv") })
	update := Follow(context.Background(), boot, func() placement.Surface { return placement.Surface{} })
	boot.Start()
	<-boot.Done()

	done := make(chan struct{})
	go func() {
		update(placement.Surface{})
		update(placement.Surface{})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("update blocked after a failed load")
	}
}

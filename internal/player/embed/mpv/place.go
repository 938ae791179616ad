package mpv

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/llehouerou/frvmusic/internal/placement"
	"github.com/llehouerou/frvmusic/internal/player/embed"
)

type property struct {
	name  string
	value any
}

// Window geometries per placement mode, in mpv --geometry syntax.
var geometries = map[placement.Mode]string{
	placement.ModeSidebar:     "32%x32%-0+0",
	placement.ModeBottomRight: "30%x30%-0-0",
	placement.ModeTopLeft:     "30%x30%+0+0",
}

// placementProperties maps a surface onto window properties. A background
// fullscreen video drops below other windows so the terminal can be
// raised over it.
func placementProperties(s placement.Surface) []property {
	vid := "auto"
	if s.Hidden {
		vid = "no"
	}
	props := []property{
		{"vid", vid},
		{"fullscreen", s.Fullscreen},
		{"ontop", s.Floating || (s.Fullscreen && !s.Background)},
	}
	if g, ok := geometries[s.Mode]; ok && !s.Fullscreen {
		props = append(props, property{"geometry", g})
	}
	return props
}

// Place applies the surface to the mpv window. Every property is tried;
// the failures are combined.
func (p *Process) Place(s placement.Surface) error {
	var errs error
	for _, prop := range placementProperties(s) {
		if _, err := send(p.socketPath, "set_property", prop.name, prop.value); err != nil {
			zlog.Debug().Err(err).Str("property", prop.name).Msg("mpv: placement property rejected")
			errs = errors.CombineErrors(errs, errors.Wrapf(err, "set %s", prop.name))
		}
	}
	return errs
}

// Follow applies surfaces to the mpv window once boot has started it.
// The returned update never blocks; only the latest pending surface is
// applied. current supplies the surface to apply when mpv comes up.
// The follower stops when ctx is done or the load fails.
func Follow(ctx context.Context, boot *embed.Bootstrap, current func() placement.Surface) (update func(placement.Surface)) {
	pending := make(chan placement.Surface, 1)
	go func() {
		select {
		case <-ctx.Done():
			return
		case <-boot.Done():
		}
		sdk, err := boot.Wait(ctx)
		if err != nil {
			return
		}
		proc, ok := sdk.(*Process)
		if !ok {
			return
		}
		apply := func(s placement.Surface) {
			if err := proc.Place(s); err != nil {
				zlog.Debug().Err(err).Stringer("mode", s.Mode).Msg("mpv: placement not fully applied")
			}
		}
		apply(current())
		for {
			select {
			case <-ctx.Done():
				return
			case <-proc.Exited():
				return
			case s := <-pending:
				apply(s)
			}
		}
	}()
	return func(s placement.Surface) {
		for {
			select {
			case pending <- s:
				return
			default:
			}
			// Drop the stale surface.
			select {
			case <-pending:
			default:
			}
		}
	}
}

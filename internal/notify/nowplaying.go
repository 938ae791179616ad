package notify

import (
	"context"
	"sync"

	zlog "github.com/rs/zerolog/log"

	"github.com/llehouerou/frvmusic/internal/catalog"
	"github.com/llehouerou/frvmusic/internal/playback"
	"github.com/llehouerou/frvmusic/internal/player"
)

const nowPlayingTimeout = 5000

// Tracks resolves the track a notification describes.
// *catalog.Catalog implements it.
type Tracks interface {
	Track(id string) (catalog.Track, bool)
	ArtistName(t catalog.Track) string
}

// NowPlaying keeps a single notification describing the bound track.
// Each new track replaces the previous notification; stopping closes it.
type NowPlaying struct {
	notifier Notifier
	tracks   Tracks

	mu     sync.Mutex
	lastID uint32
}

// NewNowPlaying creates a now-playing notifier.
func NewNowPlaying(n Notifier, tracks Tracks) *NowPlaying {
	return &NowPlaying{notifier: n, tracks: tracks}
}

// Show describes the backend bound for a track.
func (p *NowPlaying) Show(ev playback.BackendChange) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if ev.TrackID == "" {
		if p.lastID == 0 {
			return nil
		}
		id := p.lastID
		p.lastID = 0
		return p.notifier.Close(id)
	}
	t, ok := p.tracks.Track(ev.TrackID)
	if !ok {
		return nil
	}

	n := Notification{
		Title:      t.Title,
		Body:       p.tracks.ArtistName(t),
		Icon:       icon(ev.Kind),
		Timeout:    nowPlayingTimeout,
		ReplacesID: p.lastID,
		Urgency:    UrgencyLow,
		Transient:  true,
	}
	if ev.Unplayable {
		n.Body = "No playable source"
		n.Icon = "dialog-warning"
		n.Urgency = UrgencyNormal
	}
	id, err := p.notifier.Notify(n)
	if err != nil {
		return err
	}
	p.lastID = id
	return nil
}

// Run shows every backend change until sub is closed or ctx is done.
func (p *NowPlaying) Run(ctx context.Context, sub *playback.Subscription) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done:
			return
		case ev := <-sub.BackendChanged:
			if err := p.Show(ev); err != nil {
				zlog.Debug().Err(err).Str("track", ev.TrackID).Msg("notification failed")
			}
		}
	}
}

func icon(k player.Kind) string {
	if k == player.KindEmbedded {
		return "video-x-generic"
	}
	return "audio-x-generic"
}

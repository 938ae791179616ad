//go:build linux

package mpris

import (
	"fmt"
	"hash/fnv"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"
	zlog "github.com/rs/zerolog/log"

	"github.com/llehouerou/frvmusic/internal/playback"
)

const microsPerSecond = 1_000_000

// Adapter connects the playback coordinator to MPRIS over D-Bus.
type Adapter struct {
	server *server.Server
}

// New creates and starts a new MPRIS adapter.
func New(ctrl Controller, artists ArtistNamer) (*Adapter, error) {
	a := &Adapter{
		server: server.NewServer("frvmusic", &rootAdapter{}, &playerAdapter{ctrl: ctrl, artists: artists}),
	}

	go func() {
		if err := a.server.Listen(); err != nil {
			zlog.Warn().Err(err).Msg("mpris server stopped")
		}
	}()

	return a, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return nil // the UI owns the lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "frvmusic", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file", "https"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/flac"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter.
type playerAdapter struct {
	ctrl    Controller
	artists ArtistNamer
}

func (p *playerAdapter) Next() error {
	return p.ctrl.Next()
}

func (p *playerAdapter) Previous() error {
	return p.ctrl.Previous()
}

func (p *playerAdapter) Pause() error {
	p.ctrl.Pause()
	return nil
}

func (p *playerAdapter) PlayPause() error {
	return p.ctrl.Toggle()
}

func (p *playerAdapter) Stop() error {
	p.ctrl.Stop()
	return nil
}

func (p *playerAdapter) Play() error {
	return p.ctrl.Play()
}

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	p.ctrl.SeekBy(float64(offset) / microsPerSecond)
	return nil
}

func (p *playerAdapter) SetPosition(_ string, position types.Microseconds) error {
	p.ctrl.Seek(float64(position) / microsPerSecond)
	return nil
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil // Not supported
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	switch p.ctrl.Status().State() {
	case playback.StatePlaying:
		return types.PlaybackStatusPlaying, nil
	case playback.StatePaused:
		return types.PlaybackStatusPaused, nil
	case playback.StateStopped:
		return types.PlaybackStatusStopped, nil
	}
	return types.PlaybackStatusStopped, nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	st := p.ctrl.Status()
	if st.Track == nil {
		return types.Metadata{}, nil
	}
	track := st.Track

	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(track.ID)),
		Length:  seconds(p.ctrl.DisplayDuration()),
		Title:   track.Title,
		ArtUrl:  track.CoverURL,
	}
	if p.artists != nil {
		if name := p.artists.ArtistName(*track); name != "" {
			meta.Artist = []string{name}
		}
	}
	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	return p.ctrl.Status().Volume, nil
}

func (p *playerAdapter) SetVolume(v float64) error {
	p.ctrl.SetVolume(v)
	return nil
}

func (p *playerAdapter) Position() (int64, error) {
	return int64(seconds(p.ctrl.Status().Progress)), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

// The queue wraps, so next and previous exist whenever it is non-empty.
func (p *playerAdapter) CanGoNext() (bool, error) {
	return p.ctrl.Status().Index >= 0, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return p.ctrl.Status().Index >= 0, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	st := p.ctrl.Status()
	return st.Index >= 0 && !st.Unplayable, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return p.ctrl.Status().Index >= 0, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

func seconds(s float64) types.Microseconds {
	return types.Microseconds(s * microsPerSecond)
}

func formatTrackID(id string) string {
	h := fnv.New64a()
	h.Write([]byte(id))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}

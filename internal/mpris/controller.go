package mpris

import (
	"github.com/llehouerou/frvmusic/internal/catalog"
	"github.com/llehouerou/frvmusic/internal/playback"
)

// Controller is the playback surface exposed over D-Bus.
// *playback.Coordinator implements it.
type Controller interface {
	Play() error
	Pause()
	Toggle() error
	Next() error
	Previous() error
	Stop()
	Seek(seconds float64)
	SeekBy(delta float64)
	SetVolume(v float64)
	Status() playback.Status
	DisplayDuration() float64
}

// ArtistNamer resolves artist display names.
type ArtistNamer interface {
	ArtistName(t catalog.Track) string
}

var (
	_ Controller  = (*playback.Coordinator)(nil)
	_ ArtistNamer = (*catalog.Catalog)(nil)
)

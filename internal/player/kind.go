// Package player defines the contract between the playback coordinator
// and the concrete media backends.
package player

import "github.com/llehouerou/frvmusic/internal/catalog"

// Kind identifies a media backend.
//
// The binding of a track to a backend is derived, never stored:
//
//	audio url present       → KindLocal
//	else youtube id present → KindEmbedded
//	else                    → KindNone (unplayable)
type Kind int

const (
	KindNone Kind = iota
	KindLocal
	KindEmbedded
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindLocal:
		return "local"
	case KindEmbedded:
		return "embedded"
	default:
		return "unknown"
	}
}

// Resolve returns the backend kind for a track. Local wins when a track
// has both sources.
func Resolve(t catalog.Track) Kind {
	switch {
	case t.Sources.AudioURL != "":
		return KindLocal
	case t.Sources.YoutubeID != "":
		return KindEmbedded
	default:
		return KindNone
	}
}

// SourceFor returns the source string kind k plays for t.
func SourceFor(t catalog.Track, k Kind) string {
	switch k {
	case KindLocal:
		return t.Sources.AudioURL
	case KindEmbedded:
		return t.Sources.YoutubeID
	default:
		return ""
	}
}

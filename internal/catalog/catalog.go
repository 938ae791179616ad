// Package catalog holds the read-only artist/track lookup tables.
package catalog

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// ErrTrackNotFound is returned when a track id is not in the catalog.
var ErrTrackNotFound = errors.New("track not found")

// Artist is a catalog artist.
type Artist struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Slug      string            `json:"slug"`
	Bio       string            `json:"bio,omitempty"`
	AvatarURL string            `json:"avatarUrl,omitempty"`
	BannerURL string            `json:"bannerUrl,omitempty"`
	DebutYear int               `json:"debutYear,omitempty"`
	Tags      []string          `json:"tags,omitempty"`
	Socials   map[string]string `json:"socials,omitempty"`
}

// Sources describes where a track can be played from.
// At most one source is used: AudioURL wins over YoutubeID.
type Sources struct {
	AudioURL  string `json:"audioUrl,omitempty"`
	YoutubeID string `json:"youtubeId,omitempty"`
}

// Track is a catalog track.
type Track struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	ArtistID    string   `json:"artistId"`
	Duration    float64  `json:"duration"` // seconds, catalog hint only
	ReleaseDate string   `json:"releaseDate,omitempty"`
	CoverURL    string   `json:"coverUrl,omitempty"`
	Description string   `json:"description,omitempty"`
	Sources     Sources  `json:"sources"`
	Tags        []string `json:"tags,omitempty"`
}

// Playable reports whether the track has any usable source.
func (t Track) Playable() bool {
	return t.Sources.AudioURL != "" || t.Sources.YoutubeID != ""
}

// WatchURL returns the external page for an embedded track, or "".
func (t Track) WatchURL() string {
	if t.Sources.YoutubeID == "" {
		return ""
	}
	return "https://www.youtube.com/watch?v=" + t.Sources.YoutubeID
}

// Data is the fixed shape returned by the catalog source.
type Data struct {
	Artists []Artist `json:"artists"`
	Tracks  []Track  `json:"tracks"`
}

// Catalog indexes catalog data by id. It is never mutated after New.
type Catalog struct {
	artists     []Artist
	tracks      []Track
	artistsByID map[string]Artist
	tracksByID  map[string]Track
}

// New indexes data. Later entries with a duplicate id are ignored.
func New(data Data) *Catalog {
	artists := lo.UniqBy(data.Artists, func(a Artist) string { return a.ID })
	tracks := lo.UniqBy(data.Tracks, func(t Track) string { return t.ID })
	return &Catalog{
		artists:     artists,
		tracks:      tracks,
		artistsByID: lo.KeyBy(artists, func(a Artist) string { return a.ID }),
		tracksByID:  lo.KeyBy(tracks, func(t Track) string { return t.ID }),
	}
}

// Track returns the track with the given id.
func (c *Catalog) Track(id string) (Track, bool) {
	t, ok := c.tracksByID[id]
	return t, ok
}

// Artist returns the artist with the given id.
func (c *Catalog) Artist(id string) (Artist, bool) {
	a, ok := c.artistsByID[id]
	return a, ok
}

// Tracks returns all tracks in catalog order.
func (c *Catalog) Tracks() []Track {
	return append([]Track(nil), c.tracks...)
}

// Artists returns all artists in catalog order.
func (c *Catalog) Artists() []Artist {
	return append([]Artist(nil), c.artists...)
}

// TrackIDs returns the ids of tracks, in order.
func TrackIDs(tracks []Track) []string {
	return lo.Map(tracks, func(t Track, _ int) string { return t.ID })
}

// TracksByArtist returns the tracks of an artist in catalog order.
func (c *Catalog) TracksByArtist(artistID string) []Track {
	return lo.Filter(c.tracks, func(t Track, _ int) bool { return t.ArtistID == artistID })
}

// ArtistName returns the display name for a track's artist, or "".
func (c *Catalog) ArtistName(t Track) string {
	if a, ok := c.artistsByID[t.ArtistID]; ok {
		return a.Name
	}
	return ""
}

// Search returns tracks whose title, description, tags or artist name
// contain term, case-insensitively. An empty term returns every track.
func (c *Catalog) Search(term string) []Track {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return c.Tracks()
	}
	return lo.Filter(c.tracks, func(t Track, _ int) bool {
		haystack := strings.ToLower(strings.Join(append([]string{
			t.Title, t.Description, c.ArtistName(t),
		}, t.Tags...), " "))
		return strings.Contains(haystack, needle)
	})
}

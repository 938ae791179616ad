package app

import (
	"slices"

	zlog "github.com/rs/zerolog/log"

	"github.com/llehouerou/frvmusic/internal/catalog"
	"github.com/llehouerou/frvmusic/internal/errmsg"
	"github.com/llehouerou/frvmusic/internal/state"
	"github.com/llehouerou/frvmusic/internal/ui/styles"
)

// refreshTracks lists the tracks matching the artist or text filter.
func (m *Model) refreshTracks() {
	var (
		title  string
		tracks []catalog.Track
	)
	switch {
	case m.playlistID != "":
		p, _ := m.listedPlaylist()
		tracks = m.playlistTracks(p)
		title = "Playlist: " + p.Name
	case m.artistID != "":
		tracks = m.catalog.TracksByArtist(m.artistID)
		title = "Artist"
		if a, ok := m.catalog.Artist(m.artistID); ok {
			title = a.Name
		}
	case m.filter != "":
		tracks = m.catalog.Search(m.filter)
		title = "Search: " + m.filter
	default:
		tracks = m.catalog.Tracks()
		title = "All tracks"
	}
	m.tracks.SetTracks(title, tracks)
}

// toggleArtistFilter lists the selected track's artist, or returns to
// the previous listing when already filtered by artist.
func (m *Model) toggleArtistFilter() {
	if m.artistID != "" {
		m.artistID = ""
		m.refreshTracks()
		return
	}
	t, ok := m.tracks.Selected()
	if !ok || t.ArtistID == "" {
		return
	}
	m.artistID = t.ArtistID
	m.refreshTracks()
}

func (m *Model) toggleFavorite() {
	t, ok := m.tracks.Selected()
	if !ok {
		return
	}
	added, err := m.state.ToggleFavorite(t.ID)
	if err != nil {
		zlog.Warn().Err(err).Str("track", t.ID).Msg("toggling favorite")
		m.errorMsg = errmsg.Format(errmsg.OpFavoriteToggle, err)
		return
	}
	if added {
		m.favorites = append(m.favorites, t.ID)
	} else {
		m.favorites = slices.DeleteFunc(slices.Clone(m.favorites), func(id string) bool { return id == t.ID })
	}
	m.tracks.SetFavorites(m.favorites)
}

func (m *Model) cycleTheme() {
	next := state.ThemeLight
	if m.theme == state.ThemeLight {
		next = state.ThemeDark
	}
	if err := m.state.SetTheme(next); err != nil {
		m.errorMsg = errmsg.Format(errmsg.OpPrefsSave, err)
		return
	}
	m.theme = next
	styles.Use(string(next))
}

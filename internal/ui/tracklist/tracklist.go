// Package tracklist renders the catalog track list and handles cursor
// movement over it.
package tracklist

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/samber/lo"

	"github.com/llehouerou/frvmusic/internal/catalog"
	"github.com/llehouerou/frvmusic/internal/keymap"
	"github.com/llehouerou/frvmusic/internal/player"
	"github.com/llehouerou/frvmusic/internal/ui"
	"github.com/llehouerou/frvmusic/internal/ui/render"
	"github.com/llehouerou/frvmusic/internal/ui/styles"
)

// ArtistNamer resolves a track's artist display name.
type ArtistNamer interface {
	ArtistName(t catalog.Track) string
}

// Model is the scrollable track list.
type Model struct {
	ui.Base
	title     string
	tracks    []catalog.Track
	cur       cursor
	playingID string
	favorites map[string]bool
	artists   ArtistNamer
}

// New creates an empty list.
func New(artists ArtistNamer) Model {
	return Model{
		cur:       cursor{margin: ui.ScrollMargin},
		favorites: map[string]bool{},
		artists:   artists,
	}
}

// SetTracks replaces the listed tracks. The cursor stays on the
// previously selected track when it is still listed.
func (m *Model) SetTracks(title string, tracks []catalog.Track) {
	selected, hadSelection := m.Selected()
	m.title = title
	m.tracks = tracks
	pos := 0
	if hadSelection {
		if i := lo.IndexOf(catalog.TrackIDs(tracks), selected.ID); i >= 0 {
			pos = i
		}
	}
	m.cur.offset = 0
	m.cur.jump(pos, len(tracks), m.listHeight())
}

// Tracks returns the listed tracks.
func (m Model) Tracks() []catalog.Track {
	return m.tracks
}

// IDs returns the listed track ids in display order.
func (m Model) IDs() []string {
	return catalog.TrackIDs(m.tracks)
}

// Title returns the list heading.
func (m Model) Title() string {
	return m.title
}

// Selected returns the track under the cursor.
func (m Model) Selected() (catalog.Track, bool) {
	if m.cur.pos < 0 || m.cur.pos >= len(m.tracks) {
		return catalog.Track{}, false
	}
	return m.tracks[m.cur.pos], true
}

// SelectedIndex returns the cursor row.
func (m Model) SelectedIndex() int {
	return m.cur.pos
}

// SetPlaying marks the current track.
func (m *Model) SetPlaying(id string) {
	m.playingID = id
}

// SetFavorites replaces the favorite marks.
func (m *Model) SetFavorites(ids []string) {
	m.favorites = lo.SliceToMap(ids, func(id string) (string, bool) { return id, true })
}

// SetSize updates dimensions and keeps the cursor visible.
func (m *Model) SetSize(width, height int) {
	m.Base.SetSize(width, height)
	m.cur.ensureVisible(len(m.tracks), m.listHeight())
}

func (m Model) listHeight() int {
	return m.ListHeight(ui.PanelOverhead)
}

// HandleAction applies a movement action and reports whether it was one.
func (m *Model) HandleAction(a keymap.Action) bool {
	n, h := len(m.tracks), m.listHeight()
	switch a { //nolint:exhaustive // only movement actions
	case keymap.ActionMoveUp:
		m.cur.move(-1, n, h)
	case keymap.ActionMoveDown:
		m.cur.move(1, n, h)
	case keymap.ActionJumpStart:
		m.cur.jump(0, n, h)
	case keymap.ActionJumpEnd:
		m.cur.jump(n-1, n, h)
	case keymap.ActionPageUp:
		m.cur.move(-max(h/2, 1), n, h)
	case keymap.ActionPageDown:
		m.cur.move(max(h/2, 1), n, h)
	default:
		return false
	}
	return true
}

// HandleMouse scrolls on the wheel and moves the cursor on a left click.
// It returns true when a row was clicked. y is relative to the list's
// top border.
func (m *Model) HandleMouse(msg tea.MouseMsg, y int) bool {
	n, h := len(m.tracks), m.listHeight()
	switch msg.Button { //nolint:exhaustive // wheel and left click only
	case tea.MouseButtonWheelUp:
		m.cur.scroll(-1, n, h)
	case tea.MouseButtonWheelDown:
		m.cur.scroll(1, n, h)
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return false
		}
		row := y - (ui.PanelOverhead - 1)
		if row < 0 || m.cur.offset+row >= n || row >= h {
			return false
		}
		m.cur.jump(m.cur.offset+row, n, h)
		return true
	}
	return false
}

// View renders the list inside a bordered panel.
func (m Model) View() string {
	width, height := m.Width(), m.Height()
	if width < 10 || height < ui.PanelOverhead {
		return ""
	}
	st := styles.T().S()
	inner := width - 2

	header := st.Title.Render(render.Truncate(m.title, inner-12))
	count := st.Muted.Render(humanize.Comma(int64(len(m.tracks))) + " tracks")
	lines := []string{
		render.Row(header, count, inner),
		st.Subtle.Render(strings.Repeat("─", inner)),
	}

	h := m.listHeight()
	start, end := m.cur.visibleRange(len(m.tracks), h)
	for i := start; i < end; i++ {
		lines = append(lines, m.renderRow(i, inner))
	}
	if len(m.tracks) == 0 {
		lines = append(lines, st.Muted.Render(render.TruncateAndPad("No tracks", inner)))
	}
	for len(lines) < height-ui.BorderHeight {
		lines = append(lines, strings.Repeat(" ", inner))
	}

	return st.Panel.Width(inner).Render(strings.Join(lines, "\n"))
}

func (m Model) renderRow(i, width int) string {
	st := styles.T().S()
	t := m.tracks[i]

	marker := "  "
	if t.ID == m.playingID {
		marker = playingMarker + " "
	}
	fav := "  "
	if m.favorites[t.ID] {
		fav = favoriteMarker + " "
	}
	right := fmt.Sprintf(" %-5s %6s", sourceTag(t), render.FormatTime(t.Duration))
	name := render.Sanitize(t.Title)
	if m.artists != nil {
		if artist := m.artists.ArtistName(t); artist != "" {
			name += " · " + render.Sanitize(artist)
		}
	}
	avail := max(width-lipgloss.Width(marker+fav)-lipgloss.Width(right), 1)
	line := marker + fav + render.TruncateAndPad(name, avail) + right

	switch {
	case i == m.cur.pos:
		return st.Cursor.Render(line)
	case t.ID == m.playingID:
		return st.Playing.Render(line)
	case !t.Playable():
		return st.Subtle.Render(line)
	default:
		return st.Base.Render(line)
	}
}

const (
	playingMarker  = "▶"
	favoriteMarker = "★"
)

func sourceTag(t catalog.Track) string {
	switch player.Resolve(t) {
	case player.KindLocal:
		return "audio"
	case player.KindEmbedded:
		return "video"
	default:
		return "-"
	}
}

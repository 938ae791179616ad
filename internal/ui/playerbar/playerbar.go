package playerbar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/frvmusic/internal/playback"
	"github.com/llehouerou/frvmusic/internal/player"
	"github.com/llehouerou/frvmusic/internal/ui/render"
	"github.com/llehouerou/frvmusic/internal/ui/styles"
)

// DisplayMode controls the player bar appearance.
type DisplayMode int

const (
	ModeCompact  DisplayMode = iota // Single-line view
	ModeExpanded                    // Detailed view with source info
)

const (
	playSymbol  = "▶"
	pauseSymbol = "⏸"
)

// State holds everything needed to render the player bar.
type State struct {
	Playing     bool
	Paused      bool
	Title       string
	Artist      string
	Position    float64 // seconds
	Duration    float64 // seconds
	Backend     player.Kind
	Volume      float64
	Unplayable  bool
	EmbedMode   string // placement label, shown for embedded tracks
	WatchURL    string
	Index       int
	QueueLen    int
	DisplayMode DisplayMode
}

// Height returns the total height of the player bar for the given mode.
func Height(mode DisplayMode) int {
	if mode == ModeExpanded {
		return 5 // 3 content rows + 2 border rows
	}
	return 3 // top border + content + bottom border
}

// NewState builds the bar state from a coordinator status. duration is
// the display duration (reported, or the catalog hint).
func NewState(st playback.Status, duration float64, artist string, mode DisplayMode) State {
	if st.Index < 0 {
		return State{}
	}
	s := State{
		Playing:     st.Playing,
		Paused:      !st.Playing,
		Position:    st.Progress,
		Duration:    duration,
		Backend:     st.Backend,
		Volume:      st.Volume,
		Unplayable:  st.Unplayable,
		Artist:      artist,
		Index:       st.Index,
		QueueLen:    len(st.Queue),
		DisplayMode: mode,
	}
	if st.Track != nil {
		s.Title = st.Track.Title
		if st.Backend == player.KindEmbedded {
			s.WatchURL = st.Track.WatchURL()
		}
	}
	return s
}

// Render returns the player bar string for the given width.
// Returns empty string if nothing is queued.
func Render(s State, width int) string {
	if !s.Playing && !s.Paused {
		return ""
	}
	if s.DisplayMode == ModeExpanded && width >= 40 {
		return renderExpanded(s, width)
	}
	return renderCompact(s, width)
}

func title(s State) string {
	if s.Title == "" {
		return "Unknown Track"
	}
	return s.Title
}

func renderCompact(s State, width int) string {
	innerWidth := max(width-6, 0)
	st := styles.T().S()

	status := playSymbol
	if s.Paused {
		status = pauseSymbol
	}
	timeStr := render.FormatTime(s.Position) + " / " + render.FormatTime(s.Duration)
	vol := RenderVolumeCompact(s.Volume)

	const separator = "   "
	sepWidth := lipgloss.Width(separator)
	fixed := lipgloss.Width(status+"  ") + lipgloss.Width(timeStr) + lipgloss.Width(vol) + sepWidth*3
	minBarWidth := 10

	available := innerWidth - fixed - minBarWidth
	name := title(s)
	var content strings.Builder
	used := 0
	switch {
	case s.Artist != "" && lipgloss.Width(name)+sepWidth+lipgloss.Width(s.Artist) <= available:
		content.WriteString(st.Title.Render(render.Sanitize(name)))
		content.WriteString(separator)
		content.WriteString(st.Muted.Render(render.Sanitize(s.Artist)))
		used = lipgloss.Width(name) + sepWidth + lipgloss.Width(s.Artist)
	default:
		maxTitle := max(available, 10)
		truncated := render.Truncate(name, maxTitle)
		content.WriteString(st.Title.Render(truncated))
		used = lipgloss.Width(truncated)
	}

	content.WriteString(separator)
	if s.Unplayable {
		msg := "no playable source"
		barWidth := max(innerWidth-used-fixed, lipgloss.Width(msg))
		content.WriteString(st.Warning.Render(render.TruncateAndPad(msg, barWidth+lipgloss.Width(status+"  "))))
	} else {
		barWidth := max(innerWidth-used-fixed, 5)
		content.WriteString(status)
		content.WriteString("  ")
		content.WriteString(progressLine(s.Position, s.Duration, barWidth))
	}
	content.WriteString(separator)
	content.WriteString(st.Muted.Render(timeStr))
	content.WriteString(separator)
	content.WriteString(vol)

	return barStyle().Padding(0, 2).Width(max(width-2, 0)).Render(content.String())
}

func renderExpanded(s State, width int) string {
	innerWidth := max(width-6, 0)
	st := styles.T().S()

	head := st.Title.Render(render.Truncate(title(s), innerWidth/2))
	if s.Artist != "" {
		head += st.Muted.Render(" · " + render.Truncate(s.Artist, innerWidth/3))
	}
	queuePos := ""
	if s.QueueLen > 0 {
		queuePos = st.Subtle.Render(fmt.Sprintf("%d/%d", s.Index+1, s.QueueLen))
	}
	line1 := render.Row(head, queuePos, innerWidth)

	var line2 string
	if s.Unplayable {
		line2 = st.Warning.Render("No playable source for this track")
	} else {
		line2 = RenderProgressBar(s.Position, s.Duration, innerWidth, s.Playing)
	}

	source := backendLabel(s.Backend)
	if s.Backend == player.KindEmbedded && s.EmbedMode != "" {
		source += " · " + s.EmbedMode
	}
	if s.WatchURL != "" {
		source += " · " + s.WatchURL
	}
	vol := RenderVolumeCompact(s.Volume)
	line3 := render.Row(st.Subtle.Render(render.Truncate(source, innerWidth-lipgloss.Width(vol)-1)), vol, innerWidth)

	content := strings.Join([]string{line1, line2, line3}, "\n")
	return barStyle().Padding(0, 2).Width(max(width-2, 0)).Render(content)
}

func backendLabel(k player.Kind) string {
	switch k {
	case player.KindLocal:
		return "Audio"
	case player.KindEmbedded:
		return "Video"
	default:
		return "No source"
	}
}

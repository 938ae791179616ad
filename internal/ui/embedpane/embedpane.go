// Package embedpane renders where the embedded video currently plays.
// The video itself is drawn by the external player window; the pane
// shows its placement and the flags of the surface.
package embedpane

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/frvmusic/internal/placement"
	"github.com/llehouerou/frvmusic/internal/ui/render"
	"github.com/llehouerou/frvmusic/internal/ui/styles"
)

// State holds what the pane needs besides the surface.
type State struct {
	Title       string
	WatchURL    string
	Unavailable bool // the video player could not be started this session
}

// Sidebar renders the inline anchor shown in the sidebar column.
// It is blank unless the surface targets the sidebar and is visible.
func Sidebar(s placement.Surface, st State, width, height int) string {
	if width < 10 || height < 4 {
		return ""
	}
	t := styles.T()
	inner := width - 2

	var lines []string
	lines = append(lines, t.S().Title.Render(render.Truncate("Video", inner)))
	switch {
	case st.Unavailable:
		lines = append(lines, t.S().Warning.Render(render.Truncate("Video player unavailable", inner)))
	case s.Target == placement.TargetSidebar && s.Visible:
		lines = append(lines,
			styles.ApplyGradient(render.Truncate(st.Title, inner), t.Primary, t.Secondary),
			t.S().Muted.Render(render.Truncate("Docked in sidebar", inner)),
		)
		if st.WatchURL != "" {
			lines = append(lines, t.S().Subtle.Render(render.Truncate(st.WatchURL, inner)))
		}
	case s.Target == placement.TargetDock:
		lines = append(lines, t.S().Muted.Render(render.Truncate(s.Mode.Label(), inner)))
	default:
		lines = append(lines, t.S().Subtle.Render(render.Truncate("No video", inner)))
	}
	for len(lines) < height-2 {
		lines = append(lines, "")
	}
	return t.S().Panel.Width(inner).Render(strings.Join(lines[:height-2], "\n"))
}

// Dock renders the one-line dock status shown above the player bar
// while the dock layer is active. It returns "" otherwise.
func Dock(s placement.Surface, width int) string {
	if !s.Active || width <= 0 {
		return ""
	}
	t := styles.T()
	label := "Video: " + s.Mode.Label()
	switch {
	case s.Background:
		label += " (background, return to the terminal to restore)"
	case s.Fullscreen:
		label += " (focus the video window to send it to the background)"
	case s.Floating:
		label += " (floating)"
	}
	flags := strings.Join(s.Flags(), " · ")
	return render.Row(t.S().Playing.Render(render.Truncate(label, width-lipgloss.Width(flags)-1)),
		t.S().Subtle.Render(flags), width)
}

package playerbar

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/frvmusic/internal/ui/render"
	"github.com/llehouerou/frvmusic/internal/ui/styles"
)

const (
	filledBlock = "━"
	emptyBlock  = "─"
)

// progressLine renders the gradient bar alone, width cells wide.
func progressLine(position, duration float64, width int) string {
	var ratio float64
	if duration > 0 {
		ratio = min(max(position/duration, 0), 1)
	}
	t := styles.T()
	return styles.GradientBar(width, int(float64(width)*ratio), filledBlock, emptyBlock, t.Primary, t.Secondary)
}

// RenderProgressBar renders status, times and bar on one line.
// Format: ▶  1:23  ━━━━━─────  4:56
func RenderProgressBar(position, duration float64, width int, playing bool) string {
	status := playSymbol
	if !playing {
		status = pauseSymbol
	}

	posStr := render.FormatTime(position)
	durStr := render.FormatTime(duration)

	fixedWidth := lipgloss.Width(status) + 2 + lipgloss.Width(posStr) + 2 + 2 + lipgloss.Width(durStr)
	barWidth := width - fixedWidth

	if barWidth < 3 {
		// Too narrow for bar, just show times
		return status + "  " + posStr + " / " + durStr
	}

	return status + "  " + posStr + "  " + progressLine(position, duration, barWidth) + "  " + durStr
}

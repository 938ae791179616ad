package playerbar

import (
	"fmt"

	"github.com/llehouerou/frvmusic/internal/ui/styles"
)

// RenderVolumeCompact renders the volume indicator.
// Format: "vol 80%" or "muted" at zero.
func RenderVolumeCompact(volume float64) string {
	st := styles.T().S()
	if volume <= 0 {
		return st.Warning.Render("muted")
	}
	return st.Muted.Render(fmt.Sprintf("vol %3d%%", int(volume*100+0.5)))
}

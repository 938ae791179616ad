package playerbar

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/frvmusic/internal/ui/styles"
)

func barStyle() lipgloss.Style {
	return styles.T().S().Panel
}

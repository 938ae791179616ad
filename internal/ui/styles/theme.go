package styles

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color palette and pre-built styles for the application.
type Theme struct {
	Name string

	// Brand/accent colors
	Primary   lipgloss.Color // focused items, the playing track
	Secondary lipgloss.Color // embedded video accents

	// Text hierarchy (most to least prominent)
	FgBase   lipgloss.Color
	FgMuted  lipgloss.Color
	FgSubtle lipgloss.Color

	// Backgrounds
	BgCursor lipgloss.Color

	Border lipgloss.Color

	Error   lipgloss.Color
	Warning lipgloss.Color

	styles *Styles
}

// Styles contains pre-built lipgloss styles for common UI patterns.
type Styles struct {
	Base    lipgloss.Style
	Muted   lipgloss.Style
	Subtle  lipgloss.Style
	Title   lipgloss.Style
	Playing lipgloss.Style
	Cursor  lipgloss.Style
	Panel   lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
}

var darkTheme = Theme{
	Name:      "dark",
	Primary:   lipgloss.Color("#a78bfa"),
	Secondary: lipgloss.Color("#f1a208"),
	FgBase:    lipgloss.Color("#c0c0c0"),
	FgMuted:   lipgloss.Color("#808080"),
	FgSubtle:  lipgloss.Color("#585858"),
	BgCursor:  lipgloss.Color("#303030"),
	Border:    lipgloss.Color("#585858"),
	Error:     lipgloss.Color("#ff5555"),
	Warning:   lipgloss.Color("#f1a208"),
}

var lightTheme = Theme{
	Name:      "light",
	Primary:   lipgloss.Color("#6d28d9"),
	Secondary: lipgloss.Color("#b45309"),
	FgBase:    lipgloss.Color("#1f1f1f"),
	FgMuted:   lipgloss.Color("#5c5c5c"),
	FgSubtle:  lipgloss.Color("#9a9a9a"),
	BgCursor:  lipgloss.Color("#e4e0f5"),
	Border:    lipgloss.Color("#b0b0b0"),
	Error:     lipgloss.Color("#c62828"),
	Warning:   lipgloss.Color("#b45309"),
}

var (
	themeMu sync.RWMutex
	current = &darkTheme
)

// T returns the active theme.
func T() *Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return current
}

// Use selects the theme by name ("dark" or "light"); unknown names pick dark.
func Use(name string) {
	themeMu.Lock()
	defer themeMu.Unlock()
	if name == lightTheme.Name {
		current = &lightTheme
	} else {
		current = &darkTheme
	}
}

// S returns the pre-built styles for this theme.
func (t *Theme) S() *Styles {
	themeMu.Lock()
	defer themeMu.Unlock()
	if t.styles == nil {
		t.styles = t.buildStyles()
	}
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	base := lipgloss.NewStyle().Foreground(t.FgBase)

	return &Styles{
		Base:   base,
		Muted:  lipgloss.NewStyle().Foreground(t.FgMuted),
		Subtle: lipgloss.NewStyle().Foreground(t.FgSubtle),
		Title:  base.Bold(true),
		Playing: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),
		Cursor: lipgloss.NewStyle().
			Background(t.BgCursor).
			Foreground(t.FgBase),
		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border),
		Error:   lipgloss.NewStyle().Foreground(t.Error),
		Warning: lipgloss.NewStyle().Foreground(t.Warning),
	}
}

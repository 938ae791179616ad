package keymap

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/samber/lo"
)

// Binding describes a single key binding.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "playback", "tracks", "playlists"
}

// Bindings contains all key bindings, in help order.
var Bindings = []Binding{
	// Global
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
	{ActionHelp, []string{"?"}, "Toggle help", "global"},
	{ActionCycleTheme, []string{"T"}, "Switch theme", "global"},
	{ActionSearch, []string{"/"}, "Filter tracks", "global"},
	{ActionClearSearch, []string{"esc"}, "Clear filter", "global"},

	// Playback
	{ActionPlayPause, []string{" "}, "Play/pause", "playback"},
	{ActionStop, []string{"s"}, "Stop", "playback"},
	{ActionNextTrack, []string{"n", "pgdown"}, "Next track", "playback"},
	{ActionPrevTrack, []string{"p", "pgup"}, "Previous track", "playback"},
	{ActionSeekForward, []string{"right", "l"}, "Seek forward", "playback"},
	{ActionSeekBack, []string{"left", "h"}, "Seek back", "playback"},
	{ActionVolumeUp, []string{"+", "="}, "Volume up", "playback"},
	{ActionVolumeDown, []string{"-"}, "Volume down", "playback"},
	{ActionMute, []string{"m"}, "Mute", "playback"},
	{ActionTogglePlayerDisplay, []string{"v"}, "Toggle player display", "playback"},
	{ActionCycleEmbedMode, []string{"e"}, "Cycle video placement", "playback"},

	// Track list
	{ActionMoveUp, []string{"k", "up"}, "Move up", "tracks"},
	{ActionMoveDown, []string{"j", "down"}, "Move down", "tracks"},
	{ActionJumpStart, []string{"g", "home"}, "First track", "tracks"},
	{ActionJumpEnd, []string{"G", "end"}, "Last track", "tracks"},
	{ActionPageUp, []string{"ctrl+u"}, "Half page up", "tracks"},
	{ActionPageDown, []string{"ctrl+d"}, "Half page down", "tracks"},
	{ActionSelect, []string{"enter"}, "Play from here", "tracks"},
	{ActionPlayOnly, []string{"alt+enter"}, "Play, keep queue", "tracks"},
	{ActionToggleFavorite, []string{"f"}, "Toggle favorite", "tracks"},
	{ActionArtistTracks, []string{"a"}, "Artist tracks", "tracks"},

	// Playlists
	{ActionNextPlaylist, []string{"L"}, "Next playlist", "playlists"},
	{ActionNewPlaylist, []string{"N"}, "New playlist", "playlists"},
	{ActionAddToPlaylist, []string{"A"}, "Add to playlist", "playlists"},
	{ActionRemoveFromPlaylist, []string{"x"}, "Remove from playlist", "playlists"},
	{ActionMoveTrackUp, []string{"K"}, "Move track up", "playlists"},
	{ActionMoveTrackDown, []string{"J"}, "Move track down", "playlists"},
	{ActionDeletePlaylist, []string{"X"}, "Delete playlist", "playlists"},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	return lo.Filter(Bindings, func(b Binding, _ int) bool { return b.Context == context })
}

// HelpKeys converts bindings into bubbles key bindings for the help view.
func HelpKeys(bindings []Binding) []key.Binding {
	return lo.Map(bindings, func(b Binding, _ int) key.Binding {
		return key.NewBinding(
			key.WithKeys(b.Keys...),
			key.WithHelp(displayKey(b.Keys[0]), b.Description),
		)
	})
}

func displayKey(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

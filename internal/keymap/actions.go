// Package keymap defines key bindings and action dispatch for the application.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit        Action = "quit"
	ActionHelp        Action = "help"
	ActionCycleTheme  Action = "cycle_theme"
	ActionSearch      Action = "search"
	ActionClearSearch Action = "clear_search"

	// Playback actions
	ActionPlayPause           Action = "play_pause"
	ActionStop                Action = "stop"
	ActionNextTrack           Action = "next_track"
	ActionPrevTrack           Action = "prev_track"
	ActionSeekForward         Action = "seek_forward"
	ActionSeekBack            Action = "seek_back"
	ActionVolumeUp            Action = "volume_up"
	ActionVolumeDown          Action = "volume_down"
	ActionMute                Action = "mute"
	ActionTogglePlayerDisplay Action = "toggle_player_display"

	// Embedded video placement
	ActionCycleEmbedMode Action = "cycle_embed_mode"

	// Navigation actions
	ActionMoveUp    Action = "move_up"
	ActionMoveDown  Action = "move_down"
	ActionJumpStart Action = "jump_start"
	ActionJumpEnd   Action = "jump_end"
	ActionPageUp    Action = "page_up"
	ActionPageDown  Action = "page_down"

	// Track list actions
	ActionSelect         Action = "select"          // enter - play with the visible list as queue
	ActionPlayOnly       Action = "play_only"       // alt+enter - play without replacing the queue
	ActionToggleFavorite Action = "toggle_favorite" // f
	ActionArtistTracks   Action = "artist_tracks"   // a - list the artist's tracks

	// Playlist actions
	ActionNextPlaylist       Action = "next_playlist"
	ActionNewPlaylist        Action = "new_playlist"
	ActionAddToPlaylist      Action = "add_to_playlist"
	ActionRemoveFromPlaylist Action = "remove_from_playlist"
	ActionMoveTrackUp        Action = "move_track_up"
	ActionMoveTrackDown      Action = "move_track_down"
	ActionDeletePlaylist     Action = "delete_playlist"
)

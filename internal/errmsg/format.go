// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants, grouped by domain.
const (
	// Playback
	OpPlaybackStart Op = "start playback"
	OpPlaybackNext  Op = "skip to next track"
	OpPlaybackPrev  Op = "go to previous track"
	OpEmbedLoad     Op = "load video player"

	// Session state
	OpQueueSave      Op = "save queue"
	OpPrefsSave      Op = "save preferences"
	OpFavoriteToggle Op = "update favorites"
	OpPlaylistEdit   Op = "update playlist"

	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}

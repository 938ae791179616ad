//nolint:goconst // test cases intentionally repeat strings for readability
package errmsg

import (
	"errors"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpQueueSave,
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with operation",
			op:       OpQueueSave,
			err:      errors.New("database is locked"),
			expected: "Failed to save queue: database is locked",
		},
		{
			name:     "playback operation",
			op:       OpPlaybackStart,
			err:      errors.New("no audio device"),
			expected: "Failed to start playback: no audio device",
		},
		{
			name:     "embed operation",
			op:       OpEmbedLoad,
			err:      errors.New("embedded player unavailable"),
			expected: "Failed to load video player: embedded player unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.op, tt.err)
			if result != tt.expected {
				t.Errorf("Format(%q, %v) = %q, want %q", tt.op, tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatWith(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		context  string
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpPlaybackStart,
			context:  "Intro",
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with context",
			op:       OpPlaybackStart,
			context:  "Intro",
			err:      errors.New("video unavailable"),
			expected: "Failed to start playback 'Intro': video unavailable",
		},
		{
			name:     "empty context falls back to Format",
			op:       OpPlaybackStart,
			context:  "",
			err:      errors.New("video unavailable"),
			expected: "Failed to start playback: video unavailable",
		},
		{
			name:     "favorite toggle with context",
			op:       OpFavoriteToggle,
			context:  "Clip",
			err:      errors.New("readonly database"),
			expected: "Failed to update favorites 'Clip': readonly database",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatWith(tt.op, tt.context, tt.err)
			if result != tt.expected {
				t.Errorf("FormatWith(%q, %q, %v) = %q, want %q", tt.op, tt.context, tt.err, result, tt.expected)
			}
		})
	}
}

func TestOpConstants(t *testing.T) {
	ops := []Op{
		OpPlaybackStart, OpPlaybackNext, OpPlaybackPrev, OpEmbedLoad,
		OpQueueSave, OpPrefsSave, OpFavoriteToggle,
		OpInitialize,
	}

	testErr := errors.New("test error")

	for _, op := range ops {
		t.Run(string(op), func(t *testing.T) {
			if op == "" {
				t.Error("Op constant should not be empty")
			}

			expected := "Failed to " + string(op) + ": test error"
			if result := Format(op, testErr); result != expected {
				t.Errorf("Format = %q, want %q", result, expected)
			}
		})
	}
}

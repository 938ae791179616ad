package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"", zerolog.InfoLevel},
		{"info", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"verbose", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInit_FileWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "frv.log")
	closer, err := Init(Config{Output: "file", Level: "info", File: path})
	require.NoError(t, err)

	zlog.Info().Str("track", "t1").Msg("bound")
	zlog.Debug().Msg("filtered")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry), "expected exactly one JSON line, got %q", data)
	assert.Equal(t, "bound", entry["message"])
	assert.Equal(t, "t1", entry["track"])
	assert.Equal(t, "info", entry["level"])
}

func TestInit_UnknownOutput(t *testing.T) {
	_, err := Init(Config{Output: "syslog"})
	assert.Error(t, err)
}

func TestInit_Discard(t *testing.T) {
	closer, err := Init(Config{Output: "discard"})
	require.NoError(t, err)
	assert.NoError(t, closer.Close())
}

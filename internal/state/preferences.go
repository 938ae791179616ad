package state

import (
	"database/sql"
	"math"
	"strconv"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	"github.com/samber/lo"

	dbutil "github.com/llehouerou/frvmusic/internal/db"
)

const (
	keyVolume      = "volume"
	keyLastTrackID = "last_track_id"
	keyEmbedMode   = "embed_mode"
	keyTheme       = "theme"
)

// Theme is the UI color scheme.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// DefaultVolume is used when no volume was ever saved.
const DefaultVolume = 0.8

// Preferences is everything the store remembers between sessions.
type Preferences struct {
	Volume      float64
	VolumeSaved bool // false until a volume was ever written
	LastTrackID string
	EmbedMode   string // empty means the configured default
	Theme       Theme
	Favorites   []string
	Playlists   []Playlist
}

// DefaultPreferences returns the preferences of a fresh install.
func DefaultPreferences() Preferences {
	return Preferences{Volume: DefaultVolume, Theme: ThemeDark}
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func putValue(db execer, key, value string) error {
	_, err := db.Exec(`
		INSERT INTO preferences (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

func getValues(db *sql.DB) (map[string]string, error) {
	rows, err := db.Query(`SELECT key, value FROM preferences`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}

func clampVolume(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return lo.Clamp(v, 0, 1)
}

func formatVolume(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Load returns the stored preferences, falling back to defaults for
// missing or malformed values. Pending debounced writes are flushed first.
func (m *Manager) Load() (Preferences, error) {
	m.Flush()

	prefs := DefaultPreferences()
	values, err := getValues(m.db)
	if err != nil {
		return prefs, errors.Wrap(err, "load preferences")
	}

	if raw, ok := values[keyVolume]; ok {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			zlog.Warn().Str("value", raw).Msg("ignoring malformed stored volume")
		} else {
			prefs.Volume = clampVolume(v)
			prefs.VolumeSaved = true
		}
	}
	prefs.LastTrackID = values[keyLastTrackID]
	prefs.EmbedMode = values[keyEmbedMode]
	switch Theme(values[keyTheme]) {
	case ThemeLight:
		prefs.Theme = ThemeLight
	default:
		prefs.Theme = ThemeDark
	}

	if prefs.Favorites, err = getFavorites(m.db); err != nil {
		return prefs, errors.Wrap(err, "load favorites")
	}
	if prefs.Playlists, err = getPlaylists(m.db); err != nil {
		return prefs, errors.Wrap(err, "load playlists")
	}
	return prefs, nil
}

// Save replaces every stored preference with p.
func (m *Manager) Save(p Preferences) error {
	m.saveMu.Lock()
	if m.saveTimer != nil {
		m.saveTimer.Stop()
		m.saveTimer = nil
	}
	m.pending = pendingWrites{}
	m.saveMu.Unlock()

	return dbutil.WithTx(m.db, func(tx *sql.Tx) error {
		values := map[string]string{
			keyVolume:      formatVolume(clampVolume(p.Volume)),
			keyLastTrackID: p.LastTrackID,
			keyEmbedMode:   p.EmbedMode,
			keyTheme:       string(lo.Ternary(p.Theme == ThemeLight, ThemeLight, ThemeDark)),
		}
		for k, v := range values {
			if err := putValue(tx, k, v); err != nil {
				return err
			}
		}
		if err := replaceFavorites(tx, p.Favorites); err != nil {
			return err
		}
		return replacePlaylists(tx, p.Playlists)
	})
}

// SaveEmbedMode records the embed placement mode.
func (m *Manager) SaveEmbedMode(mode string) {
	if err := putValue(m.db, keyEmbedMode, mode); err != nil {
		zlog.Warn().Err(err).Str("mode", mode).Msg("save embed mode")
	}
}

// SetTheme records the UI theme.
func (m *Manager) SetTheme(theme Theme) error {
	if theme != ThemeDark && theme != ThemeLight {
		return errors.Newf("unknown theme %q", theme)
	}
	return putValue(m.db, keyTheme, string(theme))
}

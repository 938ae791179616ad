// Package state persists user preferences and the session queue in SQLite.
package state

import (
	"database/sql"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	dbutil "github.com/llehouerou/frvmusic/internal/db"
)

const (
	appName      = "frvmusic"
	dbFileName   = "frvmusic.db"
	saveDebounce = 500 * time.Millisecond
)

// pendingWrites holds debounced preference writes not yet flushed.
type pendingWrites struct {
	lastTrackID *string
	volume      *float64
}

func (p pendingWrites) empty() bool {
	return p.lastTrackID == nil && p.volume == nil
}

type Manager struct {
	db        *sql.DB
	saveMu    sync.Mutex
	saveTimer *time.Timer
	pending   pendingWrites
}

// Open opens the store at path. An empty path selects the XDG data file.
func Open(path string) (*Manager, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	db, err := dbutil.Open(path)
	if err != nil {
		return nil, err
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "init schema")
	}

	return &Manager{db: db}, nil
}

// DefaultPath returns the XDG location of the database.
func DefaultPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}

func (m *Manager) Close() error {
	m.Flush()
	return m.db.Close()
}

// Flush writes pending debounced values immediately.
func (m *Manager) Flush() {
	m.saveMu.Lock()
	if m.saveTimer != nil {
		m.saveTimer.Stop()
		m.saveTimer = nil
	}
	pending := m.pending
	m.pending = pendingWrites{}
	m.saveMu.Unlock()

	m.write(pending)
}

func (m *Manager) DB() *sql.DB {
	return m.db
}

// SaveLastTrackID records the last played track. Writes are debounced.
func (m *Manager) SaveLastTrackID(id string) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()
	m.pending.lastTrackID = &id
	m.scheduleLocked()
}

// SaveVolume records the volume, clamped to [0,1]. Writes are debounced.
func (m *Manager) SaveVolume(v float64) {
	v = clampVolume(v)
	m.saveMu.Lock()
	defer m.saveMu.Unlock()
	m.pending.volume = &v
	m.scheduleLocked()
}

func (m *Manager) scheduleLocked() {
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}

	m.saveTimer = time.AfterFunc(saveDebounce, func() {
		m.saveMu.Lock()
		pending := m.pending
		m.pending = pendingWrites{}
		m.saveTimer = nil
		m.saveMu.Unlock()

		m.write(pending)
	})
}

func (m *Manager) write(p pendingWrites) {
	if p.empty() {
		return
	}
	err := dbutil.WithTx(m.db, func(tx *sql.Tx) error {
		if p.lastTrackID != nil {
			if err := putValue(tx, keyLastTrackID, *p.lastTrackID); err != nil {
				return err
			}
		}
		if p.volume != nil {
			if err := putValue(tx, keyVolume, formatVolume(*p.volume)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		zlog.Warn().Err(err).Msg("save preferences")
	}
}

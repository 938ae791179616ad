package state

import (
	"database/sql"
	"errors"

	dbutil "github.com/llehouerou/frvmusic/internal/db"
)

// QueueState is the saved session queue.
type QueueState struct {
	CurrentIndex int
	TrackIDs     []string
}

func getQueue(db *sql.DB) (*QueueState, error) {
	var currentIndex int
	row := db.QueryRow(`SELECT current_index FROM queue_state WHERE id = 1`)
	err := row.Scan(&currentIndex)
	if errors.Is(err, sql.ErrNoRows) {
		return &QueueState{CurrentIndex: -1}, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(`SELECT track_id FROM queue_tracks ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if currentIndex >= len(ids) {
		currentIndex = len(ids) - 1
	}
	return &QueueState{CurrentIndex: currentIndex, TrackIDs: ids}, nil
}

func saveQueue(sqlDB *sql.DB, state QueueState) error {
	return dbutil.WithTx(sqlDB, func(tx *sql.Tx) error {
		_, err := tx.Exec(`DELETE FROM queue_tracks`)
		if err != nil {
			return err
		}

		_, err = tx.Exec(`
			INSERT INTO queue_state (id, current_index)
			VALUES (1, ?)
			ON CONFLICT(id) DO UPDATE SET
				current_index = excluded.current_index
		`, state.CurrentIndex)
		if err != nil {
			return err
		}

		stmt, err := tx.Prepare(`INSERT INTO queue_tracks (position, track_id) VALUES (?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, id := range state.TrackIDs {
			if _, err = stmt.Exec(i, id); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetQueue returns the saved queue. An empty store yields index -1.
func (m *Manager) GetQueue() (*QueueState, error) {
	return getQueue(m.db)
}

// SaveQueue replaces the saved queue.
func (m *Manager) SaveQueue(state QueueState) error {
	return saveQueue(m.db, state)
}

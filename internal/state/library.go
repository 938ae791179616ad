package state

import (
	"database/sql"
	"slices"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	dbutil "github.com/llehouerou/frvmusic/internal/db"
	"github.com/llehouerou/frvmusic/internal/playlist"
)

// ErrPlaylistNotFound is returned for an unknown playlist id.
var ErrPlaylistNotFound = errors.New("playlist not found")

// Playlist is a user-defined ordered list of catalog track ids.
type Playlist struct {
	ID          string
	Name        string
	Description string
	TrackIDs    []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func getFavorites(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`SELECT track_id FROM favorites ORDER BY position`)
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
	return ids, rows.Err()
}

func replaceFavorites(tx *sql.Tx, ids []string) error {
	if _, err := tx.Exec(`DELETE FROM favorites`); err != nil {
		return err
	}
	for i, id := range ids {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO favorites (track_id, position) VALUES (?, ?)`, id, i); err != nil {
			return err
		}
	}
	return nil
}

// ToggleFavorite adds or removes trackID from favorites and reports
// whether it is now a favorite. Adding a favorite also records it as the
// last track.
func (m *Manager) ToggleFavorite(trackID string) (bool, error) {
	var added bool
	err := dbutil.WithTx(m.db, func(tx *sql.Tx) error {
		res, err := tx.Exec(`DELETE FROM favorites WHERE track_id = ?`, trackID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			return nil
		}
		added = true
		_, err = tx.Exec(`
			INSERT INTO favorites (track_id, position)
			VALUES (?, (SELECT COALESCE(MAX(position), -1) + 1 FROM favorites))
		`, trackID)
		return err
	})
	if err != nil {
		return false, err
	}
	if added {
		m.SaveLastTrackID(trackID)
	}
	return added, nil
}

// IsFavorite reports whether trackID is a favorite.
func (m *Manager) IsFavorite(trackID string) (bool, error) {
	var n int
	err := m.db.QueryRow(`SELECT COUNT(*) FROM favorites WHERE track_id = ?`, trackID).Scan(&n)
	return n > 0, err
}

// Playlists returns every playlist in creation order.
func (m *Manager) Playlists() ([]Playlist, error) {
	return getPlaylists(m.db)
}

func getPlaylists(db *sql.DB) ([]Playlist, error) {
	rows, err := db.Query(`
		SELECT id, name, description, created_at, updated_at
		FROM playlists
		ORDER BY created_at, name
	`)
	if err != nil {
		return nil, err
	}

	var out []Playlist
	for rows.Next() {
		var p Playlist
		var desc sql.NullString
		var created, updated int64
		if err := rows.Scan(&p.ID, &p.Name, &desc, &created, &updated); err != nil {
			rows.Close()
			return nil, err
		}
		p.Description = dbutil.NullStringValue(desc)
		p.CreatedAt = time.Unix(created, 0)
		p.UpdatedAt = time.Unix(updated, 0)
		out = append(out, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		ids, err := getPlaylistTracks(db, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].TrackIDs = ids
	}
	return out, nil
}

func getPlaylistTracks(db *sql.DB, playlistID string) ([]string, error) {
	rows, err := db.Query(`
		SELECT track_id FROM playlist_tracks
		WHERE playlist_id = ?
		ORDER BY position
	`, playlistID)
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
	return ids, rows.Err()
}

func replacePlaylists(tx *sql.Tx, playlists []Playlist) error {
	if _, err := tx.Exec(`DELETE FROM playlists`); err != nil {
		return err
	}
	for _, p := range playlists {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if err := insertPlaylist(tx, p); err != nil {
			return err
		}
	}
	return nil
}

func insertPlaylist(tx *sql.Tx, p Playlist) error {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	_, err := tx.Exec(`
		INSERT INTO playlists (id, name, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.Description, p.CreatedAt.Unix(), p.UpdatedAt.Unix())
	if err != nil {
		return err
	}
	return writePlaylistTracks(tx, p.ID, p.TrackIDs)
}

func writePlaylistTracks(tx *sql.Tx, playlistID string, ids []string) error {
	if _, err := tx.Exec(`DELETE FROM playlist_tracks WHERE playlist_id = ?`, playlistID); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO playlist_tracks (playlist_id, position, track_id)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, id := range ids {
		if _, err := stmt.Exec(playlistID, i, id); err != nil {
			return err
		}
	}
	return nil
}

// CreatePlaylist creates an empty playlist.
func (m *Manager) CreatePlaylist(name, description string) (Playlist, error) {
	now := time.Unix(time.Now().Unix(), 0)
	p := Playlist{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := dbutil.WithTx(m.db, func(tx *sql.Tx) error {
		return insertPlaylist(tx, p)
	})
	if err != nil {
		return Playlist{}, err
	}
	return p, nil
}

// Playlist returns the playlist with id.
func (m *Manager) Playlist(id string) (Playlist, error) {
	var p Playlist
	var desc sql.NullString
	var created, updated int64
	err := m.db.QueryRow(`
		SELECT id, name, description, created_at, updated_at FROM playlists WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &desc, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return Playlist{}, ErrPlaylistNotFound
	}
	if err != nil {
		return Playlist{}, err
	}
	p.Description = dbutil.NullStringValue(desc)
	p.CreatedAt = time.Unix(created, 0)
	p.UpdatedAt = time.Unix(updated, 0)
	p.TrackIDs, err = getPlaylistTracks(m.db, id)
	return p, err
}

// DeletePlaylist removes a playlist. Unknown ids are ignored.
func (m *Manager) DeletePlaylist(id string) error {
	_, err := m.db.Exec(`DELETE FROM playlists WHERE id = ?`, id)
	return err
}

// AddTrackToPlaylist appends trackID unless it is already present.
func (m *Manager) AddTrackToPlaylist(playlistID, trackID string) error {
	return m.editPlaylistTracks(playlistID, func(p *playlist.Playlist) {
		p.Add(trackID)
	})
}

// RemoveTrackFromPlaylist removes trackID from the playlist.
func (m *Manager) RemoveTrackFromPlaylist(playlistID, trackID string) error {
	return m.editPlaylistTracks(playlistID, func(p *playlist.Playlist) {
		p.Remove(p.IndexOf(trackID))
	})
}

// MoveTrackInPlaylist moves the track at from to position to. Out of
// range positions leave the playlist unchanged.
func (m *Manager) MoveTrackInPlaylist(playlistID string, from, to int) error {
	return m.editPlaylistTracks(playlistID, func(p *playlist.Playlist) {
		p.Move(from, to)
	})
}

func (m *Manager) editPlaylistTracks(playlistID string, edit func(*playlist.Playlist)) error {
	p, err := m.Playlist(playlistID)
	if err != nil {
		return err
	}
	pl := playlist.FromIDs(p.TrackIDs)
	edit(pl)
	ids := pl.IDs()
	if slices.Equal(ids, p.TrackIDs) {
		return nil
	}
	return dbutil.WithTx(m.db, func(tx *sql.Tx) error {
		if err := writePlaylistTracks(tx, playlistID, ids); err != nil {
			return err
		}
		_, err := tx.Exec(`UPDATE playlists SET updated_at = ? WHERE id = ?`, time.Now().Unix(), playlistID)
		return err
	})
}

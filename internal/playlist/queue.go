package playlist

// PlayingQueue wraps a Playlist with the current position and the
// history of tracks advanced past.
//
// Navigation wraps around in both directions, so a single-track queue
// re-selects itself on Next/Previous.
type PlayingQueue struct {
	playlist     *Playlist
	history      *History
	currentIndex int // -1 iff the queue is empty
}

// NewQueue creates a new empty playing queue.
func NewQueue() *PlayingQueue {
	return &PlayingQueue{
		playlist:     NewPlaylist(),
		history:      NewHistory(),
		currentIndex: -1,
	}
}

// Current returns the current track id, or "" if none.
func (q *PlayingQueue) Current() string {
	return q.playlist.At(q.currentIndex)
}

// CurrentIndex returns the index of the current track (-1 if none).
func (q *PlayingQueue) CurrentIndex() int {
	return q.currentIndex
}

// Replace installs a new deduplicated queue and clears history.
// The position is the index of startID when present, otherwise 0,
// or -1 for an empty list. Returns the selected id.
func (q *PlayingQueue) Replace(ids []string, startID string) string {
	q.playlist = FromIDs(ids)
	q.history.Clear()
	q.currentIndex = -1
	if q.playlist.Len() == 0 {
		return ""
	}
	q.currentIndex = 0
	if startID != "" {
		if idx := q.playlist.IndexOf(startID); idx >= 0 {
			q.currentIndex = idx
		}
	}
	return q.Current()
}

// Select moves to id, appending it first when it is not queued.
// History is left untouched. Returns the new index.
func (q *PlayingQueue) Select(id string) int {
	if idx := q.playlist.IndexOf(id); idx >= 0 {
		q.currentIndex = idx
		return idx
	}
	q.playlist.Add(id)
	q.currentIndex = q.playlist.Len() - 1
	return q.currentIndex
}

// Next advances with wraparound and records the track being left.
// Returns "" and does nothing on an empty queue.
func (q *PlayingQueue) Next() string {
	n := q.playlist.Len()
	if n == 0 {
		return ""
	}
	if q.currentIndex >= 0 {
		q.history.Push(q.Current())
	}
	q.currentIndex = (q.currentIndex + 1) % n
	return q.Current()
}

// Previous steps back with wraparound. History is not modified.
func (q *PlayingQueue) Previous() string {
	n := q.playlist.Len()
	if n == 0 {
		return ""
	}
	q.currentIndex = (q.currentIndex - 1 + n) % n
	return q.Current()
}

// JumpTo sets the current index to the specified position.
// Returns the id at that position, or "" if invalid.
func (q *PlayingQueue) JumpTo(index int) string {
	if index < 0 || index >= q.playlist.Len() {
		return ""
	}
	q.currentIndex = index
	return q.Current()
}

// Clear removes all tracks and history.
func (q *PlayingQueue) Clear() {
	q.playlist.Clear()
	q.history.Clear()
	q.currentIndex = -1
}

// IDs returns all queued ids.
func (q *PlayingQueue) IDs() []string {
	return q.playlist.IDs()
}

// History returns the ids advanced past, oldest first.
func (q *PlayingQueue) History() []string {
	return q.history.IDs()
}

// IndexOf returns the queue index of id, or -1.
func (q *PlayingQueue) IndexOf(id string) int {
	return q.playlist.IndexOf(id)
}

// Len returns the number of tracks in the queue.
func (q *PlayingQueue) Len() int {
	return q.playlist.Len()
}

// IsEmpty returns true if the queue has no tracks.
func (q *PlayingQueue) IsEmpty() bool {
	return q.playlist.Len() == 0
}

package playlist

// History is the stack of previously-current track IDs.
// It only grows on forward advance; jumps and rewinds never touch it.
type History struct {
	ids []string
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{ids: make([]string, 0)}
}

// Push records id as the most recently left track.
func (h *History) Push(id string) {
	h.ids = append(h.ids, id)
}

// IDs returns a copy of the history, oldest first.
func (h *History) IDs() []string {
	snapshot := make([]string, len(h.ids))
	copy(snapshot, h.ids)
	return snapshot
}

// Clear drops every entry.
func (h *History) Clear() {
	h.ids = h.ids[:0]
}

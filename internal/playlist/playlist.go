package playlist

import "github.com/samber/lo"

// Playlist holds an ordered collection of unique track IDs.
type Playlist struct {
	ids []string
}

// NewPlaylist creates a new empty playlist.
func NewPlaylist() *Playlist {
	return &Playlist{
		ids: make([]string, 0),
	}
}

// FromIDs builds a playlist from ids, keeping the first occurrence of each.
func FromIDs(ids []string) *Playlist {
	return &Playlist{ids: lo.Uniq(ids)}
}

// Add appends ids that are not already present.
// Returns the number of ids actually appended.
func (p *Playlist) Add(ids ...string) int {
	added := 0
	for _, id := range ids {
		if p.Contains(id) {
			continue
		}
		p.ids = append(p.ids, id)
		added++
	}
	return added
}

// Remove removes the id at the given index.
// Returns false if index is out of bounds.
func (p *Playlist) Remove(index int) bool {
	if index < 0 || index >= len(p.ids) {
		return false
	}
	p.ids = append(p.ids[:index], p.ids[index+1:]...)
	return true
}

// Clear removes all ids from the playlist.
func (p *Playlist) Clear() {
	p.ids = p.ids[:0]
}

// IDs returns a copy of all ids.
func (p *Playlist) IDs() []string {
	result := make([]string, len(p.ids))
	copy(result, p.ids)
	return result
}

// At returns the id at the given index, or "" if out of bounds.
func (p *Playlist) At(index int) string {
	if index < 0 || index >= len(p.ids) {
		return ""
	}
	return p.ids[index]
}

// IndexOf returns the index of id, or -1 if absent.
func (p *Playlist) IndexOf(id string) int {
	return lo.IndexOf(p.ids, id)
}

// Contains reports whether id is in the playlist.
func (p *Playlist) Contains(id string) bool {
	return p.IndexOf(id) >= 0
}

// Len returns the number of ids.
func (p *Playlist) Len() int {
	return len(p.ids)
}

// Move moves the id at fromIndex to toIndex.
// Returns false if either index is out of bounds.
func (p *Playlist) Move(fromIndex, toIndex int) bool {
	if fromIndex < 0 || fromIndex >= len(p.ids) {
		return false
	}
	if toIndex < 0 || toIndex >= len(p.ids) {
		return false
	}
	if fromIndex == toIndex {
		return true
	}

	id := p.ids[fromIndex]
	p.ids = append(p.ids[:fromIndex], p.ids[fromIndex+1:]...)
	p.ids = append(p.ids[:toIndex], append([]string{id}, p.ids[toIndex:]...)...)
	return true
}

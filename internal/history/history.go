// Package history holds the shell's command history and its on-disk journal.
package history

// DefaultCapacity is the number of entries kept when no capacity is configured.
const DefaultCapacity = 128

// History is an append-only, bounded list of command lines. Once full, new
// lines are dropped rather than evicting old ones.
type History struct {
	entries  []string
	capacity int
}

// New creates a History holding at most capacity entries.
func New(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &History{capacity: capacity}
}

// Add appends line. Empty lines and lines arriving after the history is full
// are dropped; the return value reports whether line was stored.
func (h *History) Add(line string) bool {
	if line == "" || len(h.entries) >= h.capacity {
		return false
	}
	h.entries = append(h.entries, line)
	return true
}

// Len returns the number of stored entries.
func (h *History) Len() int { return len(h.entries) }

// Cap returns the capacity.
func (h *History) Cap() int { return h.capacity }

// At returns entry i, oldest first.
func (h *History) At(i int) (string, bool) {
	if i < 0 || i >= len(h.entries) {
		return "", false
	}
	return h.entries[i], true
}

// Entries returns a copy of all entries, oldest first.
func (h *History) Entries() []string {
	return append([]string(nil), h.entries...)
}

package engine

// History is a LIFO stack of state snapshots used for undo.
// A positive limit caps the depth; the oldest snapshots are dropped first.
type History struct {
	snapshots []*GameState
	limit     int
}

// NewHistory creates an empty history. limit <= 0 means unbounded.
func NewHistory(limit int) *History {
	return &History{limit: limit}
}

// Push stores a deep copy of gs
func (h *History) Push(gs *GameState) {
	h.snapshots = append(h.snapshots, gs.Clone())
	if h.limit > 0 && len(h.snapshots) > h.limit {
		drop := len(h.snapshots) - h.limit
		clear(h.snapshots[:drop])
		h.snapshots = h.snapshots[drop:]
	}
}

// Pop removes and returns the most recent snapshot
func (h *History) Pop() (*GameState, bool) {
	if len(h.snapshots) == 0 {
		return nil, false
	}
	last := h.snapshots[len(h.snapshots)-1]
	h.snapshots[len(h.snapshots)-1] = nil
	h.snapshots = h.snapshots[:len(h.snapshots)-1]
	return last, true
}

// Len returns the number of snapshots available to undo
func (h *History) Len() int {
	return len(h.snapshots)
}

// Reset discards every snapshot
func (h *History) Reset() {
	clear(h.snapshots)
	h.snapshots = nil
}

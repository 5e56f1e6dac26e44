package state

// DefaultHistoryLimit is the number of snapshots kept before the oldest is evicted.
const DefaultHistoryLimit = 50

// HistoryEntry is a snapshot of every layer, pixels included. Entries are
// never modified after they are captured.
type HistoryEntry struct {
	Layers    []Layer
	Current   string
	Timestamp uint64
}

// History is a bounded linear undo stack. Cursor is the index of the entry
// matching the live state, or -1 when there are no entries.
type History struct {
	entries []HistoryEntry
	cursor  int
	limit   int
}

// NewHistory creates an empty history holding at most limit entries.
// A limit below 1 selects DefaultHistoryLimit.
func NewHistory(limit int) *History {
	if limit < 1 {
		limit = DefaultHistoryLimit
	}
	return &History{cursor: -1, limit: limit}
}

// Push appends e after the cursor, dropping any redo entries and evicting
// the oldest entry when the limit is exceeded. The cursor moves to e.
func (h *History) Push(e HistoryEntry) {
	for i := h.cursor + 1; i < len(h.entries); i++ {
		h.entries[i] = HistoryEntry{}
	}
	h.entries = append(h.entries[:h.cursor+1], e)
	if over := len(h.entries) - h.limit; over > 0 {
		for i := 0; i < over; i++ {
			h.entries[i] = HistoryEntry{}
		}
		h.entries = h.entries[over:]
	}
	h.cursor = len(h.entries) - 1
}

// Undo steps the cursor back and returns the entry there. ok is false when
// the cursor is already at the earliest entry.
func (h *History) Undo() (e HistoryEntry, ok bool) {
	if h.cursor <= 0 {
		return HistoryEntry{}, false
	}
	h.cursor--
	return h.entries[h.cursor], true
}

// Redo steps the cursor forward and returns the entry there. ok is false
// when the cursor is already at the latest entry.
func (h *History) Redo() (e HistoryEntry, ok bool) {
	if h.cursor >= len(h.entries)-1 {
		return HistoryEntry{}, false
	}
	h.cursor++
	return h.entries[h.cursor], true
}

// Len returns the number of stored entries.
func (h *History) Len() int { return len(h.entries) }

// Cursor returns the current index, -1 when empty.
func (h *History) Cursor() int { return h.cursor }

// Limit returns the maximum number of entries.
func (h *History) Limit() int { return h.limit }

// CanUndo reports whether Undo would move the cursor.
func (h *History) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether Redo would move the cursor.
func (h *History) CanRedo() bool { return h.cursor < len(h.entries)-1 }

// Entry returns the entry at index i.
func (h *History) Entry(i int) (HistoryEntry, bool) {
	if i < 0 || i >= len(h.entries) {
		return HistoryEntry{}, false
	}
	return h.entries[i], true
}

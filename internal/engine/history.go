package engine

import "github.com/deveshc20/cricket-auction/internal/roster"

// ActionKind identifies what a history entry recorded.
type ActionKind string

const (
	// ActionSold records a sale resolved from the draw slot.
	ActionSold ActionKind = "sold"
	// ActionUnsold records a pass resolved from the draw slot.
	ActionUnsold ActionKind = "unsold"
	// ActionCorrected records an unsold result retroactively turned into a
	// sale. Undoing it restores the unsold result rather than clearing it.
	ActionCorrected ActionKind = "corrected"
)

// historyEntry is one committed, reversible action.
type historyEntry struct {
	Kind     ActionKind
	PlayerNo string
	Team     string
	Price    int
	// Player snapshots the roster row at commit time so undo can restore
	// it without consulting the live roster.
	Player roster.Player
}

// historyLog is an append-only stack. Access is LIFO only: entries are
// pushed as actions commit and popped one at a time by undo. The owning
// session serializes access.
type historyLog struct {
	entries []historyEntry
}

func (h *historyLog) push(e historyEntry) {
	h.entries = append(h.entries, e)
}

// popLast removes and returns the most recent entry.
func (h *historyLog) popLast() (historyEntry, bool) {
	if len(h.entries) == 0 {
		return historyEntry{}, false
	}
	e := h.entries[len(h.entries)-1]
	h.entries = h.entries[:len(h.entries)-1]
	return e, true
}

func (h *historyLog) depth() int { return len(h.entries) }

func (h *historyLog) clear() { h.entries = nil }

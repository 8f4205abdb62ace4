package terminal

import "gridpath/core"

// snapshot is one undoable editor state.
type snapshot struct {
	obstacles   []core.Cell
	start, goal core.Cell
}

// history manages undo/redo using a simple slice of snapshots.
type history struct {
	states  []snapshot
	current int // Index of the state on screen
	max     int // Maximum number of states to keep
}

func newHistory(max int) *history {
	if max <= 0 {
		max = 50
	}
	return &history{
		states:  make([]snapshot, 0, max),
		current: -1,
		max:     max,
	}
}

// save records s after the current state, discarding any redo states.
func (h *history) save(s snapshot) {
	if h.current < len(h.states)-1 {
		h.states = h.states[:h.current+1]
	}
	h.states = append(h.states, s)

	if len(h.states) > h.max {
		h.states = h.states[1:]
	} else {
		h.current++
	}
}

func (h *history) canUndo() bool { return h.current > 0 }

func (h *history) canRedo() bool { return h.current < len(h.states)-1 }

// undo steps back one state.
func (h *history) undo() (snapshot, bool) {
	if !h.canUndo() {
		return snapshot{}, false
	}
	h.current--
	return h.states[h.current], true
}

// redo steps forward one state.
func (h *history) redo() (snapshot, bool) {
	if !h.canRedo() {
		return snapshot{}, false
	}
	h.current++
	return h.states[h.current], true
}

// stats returns the 1-based position and the number of states.
func (h *history) stats() (current, total int) {
	return h.current + 1, len(h.states)
}

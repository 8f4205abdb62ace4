package terminal

import (
	"testing"

	"gridpath/core"
)

func TestHistoryUndoRedo(t *testing.T) {
	h := newHistory(3)
	if h.canUndo() || h.canRedo() {
		t.Fatal("empty history should not undo or redo")
	}

	for i := 0; i < 3; i++ {
		h.save(snapshot{start: core.Cell{X: i}})
	}
	if cur, total := h.stats(); cur != 3 || total != 3 {
		t.Fatalf("stats() = %d/%d, want 3/3", cur, total)
	}

	s, ok := h.undo()
	if !ok || s.start.X != 1 {
		t.Fatalf("undo() = %v, %v; want start x=1", s, ok)
	}
	s, ok = h.redo()
	if !ok || s.start.X != 2 {
		t.Fatalf("redo() = %v, %v; want start x=2", s, ok)
	}

	// Saving after an undo drops the redo branch.
	h.undo()
	h.save(snapshot{start: core.Cell{X: 9}})
	if h.canRedo() {
		t.Error("redo branch should be discarded")
	}

	// The oldest state falls off once max is exceeded.
	h.save(snapshot{start: core.Cell{X: 10}})
	if cur, total := h.stats(); cur != 3 || total != 3 {
		t.Errorf("stats() = %d/%d, want 3/3", cur, total)
	}
	if h.states[0].start.X != 1 {
		t.Errorf("oldest state x = %d, want 1", h.states[0].start.X)
	}
}

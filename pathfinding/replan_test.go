package pathfinding

import (
	"testing"

	"gridpath/core"
)

func TestFindPathWithUpdates(t *testing.T) {
	start, goal := core.Cell{X: 0, Y: 0}, core.Cell{X: 4, Y: 0}
	goalBlocked := cells(4, 0)
	wall := cells(2, 0, 2, 1, 2, 2, 2, 3, 2, 4)

	tests := []struct {
		name       string
		frames     [][]core.Cell // obstacle set reported on each call; the last repeats
		maxReplans int
		wantFound  bool
		wantCalls  int
	}{
		{"clear on first frame", [][]core.Cell{nil}, 3, true, 1},
		{"goal clears on third frame", [][]core.Cell{goalBlocked, goalBlocked, nil}, 3, true, 3},
		{"goal clears too late", [][]core.Cell{goalBlocked, goalBlocked, nil}, 1, false, 2},
		{"wall opens", [][]core.Cell{wall, cells(2, 0, 2, 1, 2, 3, 2, 4)}, 2, true, 2},
		{"wall stays", [][]core.Cell{wall}, 2, false, 3},
		{"out of bounds cells ignored", [][]core.Cell{cells(-1, 0, 7, 7)}, 0, true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPlanner(5, 5)
			if err != nil {
				t.Fatal(err)
			}
			calls := 0
			source := func() []core.Cell {
				frame := tt.frames[min(calls, len(tt.frames)-1)]
				calls++
				return frame
			}

			path, found, err := p.FindPathWithUpdates(start, goal, source, tt.maxReplans)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if found != tt.wantFound {
				t.Errorf("found = %v, want %v", found, tt.wantFound)
			}
			if calls != tt.wantCalls {
				t.Errorf("source called %d times, want %d", calls, tt.wantCalls)
			}
			if found {
				assertValidPath(t, p.Snapshot(), p.Options(), path, start, goal)
			}
		})
	}
}

func TestFindPathWithUpdatesNilSource(t *testing.T) {
	p, _ := NewPlanner(3, 3)
	p.SetObstacle(1, 1, true)
	path, found, err := p.FindPathWithUpdates(core.Cell{}, core.Cell{X: 2, Y: 2}, nil, 2)
	if err != nil || !found || path.Cost != 4 {
		t.Errorf("path=%s found=%v err=%v", path, found, err)
	}
}

func TestFindPathWithUpdatesStartOutOfBounds(t *testing.T) {
	p, _ := NewPlanner(3, 3)
	_, found, err := p.FindPathWithUpdates(core.Cell{X: 5, Y: 5}, core.Cell{}, nil, 2)
	if err != nil || found {
		t.Errorf("found=%v err=%v, want quiet absence", found, err)
	}
}

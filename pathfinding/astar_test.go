package pathfinding

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"gridpath/core"
	"gridpath/geometry"
	"gridpath/grid"
)

func TestSearchSimplePaths(t *testing.T) {
	tests := []struct {
		name      string
		start     core.Cell
		goal      core.Cell
		obstacles string
		wantCost  float64
	}{
		{
			name:  "straight line",
			start: core.Cell{X: 0, Y: 0},
			goal:  core.Cell{X: 5, Y: 0},
			obstacles: `
......`,
			wantCost: 5,
		},
		{
			name:  "around a wall",
			start: core.Cell{X: 0, Y: 2},
			goal:  core.Cell{X: 4, Y: 2},
			obstacles: `
.....
..#..
..#..
..#..
.....`,
			wantCost: 8,
		},
		{
			name:  "through maze",
			start: core.Cell{X: 0, Y: 0},
			goal:  core.Cell{X: 4, Y: 4},
			obstacles: `
.XXX.
...X.
.X...
.XXX.
.....`,
			wantCost: 8,
		},
		{
			name:  "checkerboard corners",
			start: core.Cell{X: 0, Y: 0},
			goal:  core.Cell{X: 4, Y: 4},
			obstacles: `
.....
.#.#.
.....
.#.#.
.....`,
			wantCost: 8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := parseGrid(t, tt.obstacles)
			res, err := Search(g, tt.start, tt.goal, DefaultOptions())
			if err != nil {
				t.Fatalf("Search failed: %v", err)
			}
			if !res.Found || res.State != StateSucceeded {
				t.Fatalf("no path (state %s)", res.State)
			}
			if res.Path.Cost != tt.wantCost {
				t.Errorf("cost = %v, want %v\n%s", res.Path.Cost, tt.wantCost, res.Path)
			}
			assertValidPath(t, g, DefaultOptions(), res.Path, tt.start, tt.goal)
		})
	}
}

func TestSearchTieBreakPrefersCellsNearGoal(t *testing.T) {
	g, _ := grid.New(3, 3)
	res, err := Search(g, core.Cell{X: 0, Y: 0}, core.Cell{X: 2, Y: 2}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	// South is tried before east, and among equal f the deeper node wins,
	// so the search runs down the first column and then along the bottom.
	want := cells(0, 0, 0, 1, 0, 2, 1, 2, 2, 2)
	if diff := cmp.Diff(want, res.Path.Cells); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}
	if res.Expanded != 5 {
		t.Errorf("expanded %d cells, want 5", res.Expanded)
	}
}

func TestSearchUnreachable(t *testing.T) {
	tests := []struct {
		name      string
		obstacles string
		goal      core.Cell
	}{
		{
			name: "blocked middle column",
			obstacles: `
.#.
.#.
.#.`,
			goal: core.Cell{X: 2, Y: 2},
		},
		{
			name: "enclosed goal",
			obstacles: `
.....
.###.
.#.#.
.###.
.....`,
			goal: core.Cell{X: 2, Y: 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := parseGrid(t, tt.obstacles)
			res, err := Search(g, core.Cell{}, tt.goal, DefaultOptions())
			if err != nil {
				t.Fatalf("unreachable must not be an error: %v", err)
			}
			if res.Found || res.State != StateExhausted {
				t.Errorf("found=%v state=%s, want exhausted", res.Found, res.State)
			}
			if !res.Path.IsEmpty() {
				t.Errorf("path = %s, want empty", res.Path)
			}
		})
	}
}

func TestSearchEndpoints(t *testing.T) {
	g := parseGrid(t, `
...
.#.
...`)
	tests := []struct {
		name        string
		start, goal core.Cell
		wantErrs    []error
	}{
		{"start out of bounds", core.Cell{X: -1, Y: 0}, core.Cell{X: 2, Y: 2},
			[]error{core.ErrInvalidEndpoint, core.ErrInvalidStart, core.ErrOutOfBounds}},
		{"goal out of bounds", core.Cell{}, core.Cell{X: 3, Y: 0},
			[]error{core.ErrInvalidEndpoint, core.ErrInvalidGoal, core.ErrOutOfBounds}},
		{"start blocked", core.Cell{X: 1, Y: 1}, core.Cell{},
			[]error{core.ErrInvalidEndpoint, core.ErrInvalidStart, core.ErrBlocked}},
		{"goal blocked", core.Cell{}, core.Cell{X: 1, Y: 1},
			[]error{core.ErrInvalidEndpoint, core.ErrInvalidGoal, core.ErrBlocked}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Search(g, tt.start, tt.goal, DefaultOptions())
			if err == nil {
				t.Fatal("expected error")
			}
			for _, want := range tt.wantErrs {
				if !errors.Is(err, want) {
					t.Errorf("error %q does not match %q", err, want)
				}
			}
			if res.Expanded != 0 || res.State != StateInitialized {
				t.Errorf("search ran before validation: expanded=%d state=%s", res.Expanded, res.State)
			}
		})
	}
}

func TestSearchStartIsGoal(t *testing.T) {
	g, _ := grid.New(4, 4)
	c := core.Cell{X: 2, Y: 3}
	res, err := Search(g, c, c, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(core.Path{Cells: []core.Cell{c}}, res.Path); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}
	if !res.Found || res.State != StateSucceeded {
		t.Errorf("found=%v state=%s", res.Found, res.State)
	}
}

func TestSearchOctile(t *testing.T) {
	g, _ := grid.New(5, 5)
	opts := Options{Connectivity: core.Octile}
	res, err := Search(g, core.Cell{}, core.Cell{X: 4, Y: 2}, opts)
	if err != nil {
		t.Fatal(err)
	}
	want := 2 + 2*grid.DefaultDiagonalCost
	if !geometry.AlmostEqual(res.Path.Cost, want) {
		t.Errorf("cost = %v, want %v", res.Path.Cost, want)
	}
	assertValidPath(t, g, opts.normalized(), res.Path, core.Cell{}, core.Cell{X: 4, Y: 2})
}

func TestSearchOctileDoesNotCutCorners(t *testing.T) {
	g := parseGrid(t, `
.#
#.`)
	res, err := Search(g, core.Cell{}, core.Cell{X: 1, Y: 1}, Options{Connectivity: core.Octile})
	if err != nil {
		t.Fatal(err)
	}
	if res.Found {
		t.Errorf("found %s through a blocked corner", res.Path)
	}

	g = parseGrid(t, `
.#
..`)
	res, err = Search(g, core.Cell{}, core.Cell{X: 1, Y: 1}, Options{Connectivity: core.Octile})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Found || res.Path.Cost != 2 {
		t.Errorf("path = %s, want two straight steps", res.Path)
	}
}

func TestSearchMaxExpansions(t *testing.T) {
	g, _ := grid.New(20, 20)
	_, err := Search(g, core.Cell{}, core.Cell{X: 19, Y: 19}, Options{MaxExpansions: 5})
	if !errors.Is(err, ErrSearchLimit) {
		t.Errorf("err = %v, want ErrSearchLimit", err)
	}

	res, err := Search(g, core.Cell{}, core.Cell{X: 19, Y: 19}, Options{MaxExpansions: 1000})
	if err != nil || !res.Found {
		t.Errorf("generous limit failed: found=%v err=%v", res.Found, err)
	}
}

func TestSearchRecordsVisited(t *testing.T) {
	g, _ := grid.New(6, 6)
	res, err := Search(g, core.Cell{}, core.Cell{X: 5, Y: 5}, Options{RecordVisited: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Visited) != res.Expanded {
		t.Errorf("visited %d cells, expanded %d", len(res.Visited), res.Expanded)
	}
	if res.Visited[0] != (core.Cell{}) {
		t.Errorf("first visited = %s, want start", res.Visited[0])
	}
	if res.Pushed < res.Expanded {
		t.Errorf("pushed %d < expanded %d", res.Pushed, res.Expanded)
	}
}

func TestSearchAccounting(t *testing.T) {
	g := parseGrid(t, `
......
.####.
......`)
	res, err := Search(g, core.Cell{X: 0, Y: 1}, core.Cell{X: 5, Y: 1}, Options{Heuristic: HeuristicChebyshev})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Found || res.Path.Cost != 7 {
		t.Fatalf("path = %s, want cost 7", res.Path)
	}
	// Every pop is either an expansion or a discarded stale entry.
	if res.Expanded+res.Stale > res.Pushed {
		t.Errorf("pushed=%d < expanded=%d + stale=%d", res.Pushed, res.Expanded, res.Stale)
	}
}

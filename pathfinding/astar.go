package pathfinding

import (
	"fmt"
	"math"

	"gridpath/core"
	"gridpath/grid"
)

// SearchState is the lifecycle of one search.
type SearchState int

const (
	StateInitialized SearchState = iota
	StateExpanding
	StateSucceeded
	StateExhausted
)

// String returns the lower-case state name.
func (s SearchState) String() string {
	switch s {
	case StateInitialized:
		return "initialized"
	case StateExpanding:
		return "expanding"
	case StateSucceeded:
		return "succeeded"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Result is the outcome of one search. Found is false when the goal is
// unreachable; that is a normal outcome, not an error.
type Result struct {
	Path     core.Path
	Found    bool
	State    SearchState
	Expanded int // Cells popped and expanded
	Pushed   int // Frontier insertions, start included
	Stale    int // Popped entries discarded by lazy deletion
	Visited  []core.Cell
}

// AStarPathFinder implements A* over a grid.Grid.
type AStarPathFinder struct {
	opts      Options
	heuristic Heuristic
}

// NewAStarPathFinder validates opts and creates a path finder.
func NewAStarPathFinder(opts Options) (*AStarPathFinder, error) {
	opts = opts.normalized()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &AStarPathFinder{opts: opts, heuristic: opts.HeuristicFunc()}, nil
}

// Options returns the normalized options.
func (a *AStarPathFinder) Options() Options { return a.opts }

// Heuristic returns the heuristic used by this finder.
func (a *AStarPathFinder) Heuristic() Heuristic { return a.heuristic }

// Search runs A* once with the given options.
func Search(g *grid.Grid, start, goal core.Cell, opts Options) (Result, error) {
	finder, err := NewAStarPathFinder(opts)
	if err != nil {
		return Result{}, err
	}
	return finder.FindPath(g, start, goal)
}

// ValidateEndpoints reports an *core.EndpointError when start or goal is
// out of bounds or blocked.
func ValidateEndpoints(g *grid.Grid, start, goal core.Cell) error {
	for _, ep := range []struct {
		role string
		cell core.Cell
	}{{"start", start}, {"goal", goal}} {
		if !g.InBounds(ep.cell) {
			return core.NewEndpointError(ep.role, ep.cell, core.ErrOutOfBounds)
		}
		if g.IsObstacle(ep.cell) {
			return core.NewEndpointError(ep.role, ep.cell, core.ErrBlocked)
		}
	}
	return nil
}

// FindPath finds an optimal path from start to goal.
func (a *AStarPathFinder) FindPath(g *grid.Grid, start, goal core.Cell) (Result, error) {
	if err := ValidateEndpoints(g, start, goal); err != nil {
		return Result{State: StateInitialized}, err
	}
	if start == goal {
		return Result{
			Path:  core.Path{Cells: []core.Cell{start}, Cost: 0},
			Found: true,
			State: StateSucceeded,
		}, nil
	}

	s := newSearch(g, goal, a)
	return s.run(start)
}

// search is the per-call state. Everything is sized to the grid and
// dropped when the call returns.
type search struct {
	grid     *grid.Grid
	goal     core.Cell
	finder   *AStarPathFinder
	gScore   []float64
	cameFrom []int32
	closed   []bool
	open     *Frontier
	result   Result
}

func newSearch(g *grid.Grid, goal core.Cell, finder *AStarPathFinder) *search {
	size := g.Size()
	s := &search{
		grid:     g,
		goal:     goal,
		finder:   finder,
		gScore:   make([]float64, size),
		cameFrom: make([]int32, size),
		closed:   make([]bool, size),
		open:     NewFrontier(size / 4),
	}
	for i := range s.gScore {
		s.gScore[i] = math.Inf(1)
		s.cameFrom[i] = -1
	}
	return s
}

func (s *search) run(start core.Cell) (Result, error) {
	g := s.grid
	h := s.finder.heuristic
	opts := s.finder.opts

	s.gScore[g.Index(start)] = 0
	s.open.Push(start, 0, h(start, s.goal))
	s.result.Pushed = 1
	s.result.State = StateExpanding

	for {
		current, ok := s.open.PopMin()
		if !ok {
			break
		}
		idx := g.Index(current.Cell)

		// Lazy deletion: a better entry for this cell was pushed later.
		if s.closed[idx] || current.G > s.gScore[idx] {
			s.result.Stale++
			continue
		}
		s.closed[idx] = true

		s.result.Expanded++
		if opts.MaxExpansions > 0 && s.result.Expanded > opts.MaxExpansions {
			return s.result, fmt.Errorf("%w: %d expansions from %s to %s", ErrSearchLimit, opts.MaxExpansions, start, s.goal)
		}
		if opts.RecordVisited {
			s.result.Visited = append(s.result.Visited, current.Cell)
		}

		if current.Cell == s.goal {
			s.result.State = StateSucceeded
			s.result.Found = true
			s.result.Path = s.reconstructPath(idx)
			return s.result, nil
		}

		for n := range g.Neighbors(current.Cell, opts.Connectivity, opts.DiagonalCost) {
			nidx := g.Index(n.Cell)
			if s.closed[nidx] {
				continue
			}
			tentative := current.G + n.Cost
			if tentative < s.gScore[nidx] {
				s.gScore[nidx] = tentative
				s.cameFrom[nidx] = int32(idx)
				s.open.Push(n.Cell, tentative, h(n.Cell, s.goal))
				s.result.Pushed++
			}
		}
	}

	s.result.State = StateExhausted
	return s.result, nil
}

// reconstructPath walks cameFrom backward from the goal, then reverses.
func (s *search) reconstructPath(goalIdx int) core.Path {
	var cells []core.Cell
	for idx := int32(goalIdx); idx >= 0; idx = s.cameFrom[idx] {
		cells = append(cells, s.grid.CellAt(int(idx)))
	}
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}
	return core.Path{Cells: cells, Cost: s.gScore[goalIdx]}
}

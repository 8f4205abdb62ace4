// Package grid provides the fixed-size obstacle map searched by the planner.
//
// A Grid is a width×height boolean occupancy map stored as a flat slice.
// Every effective mutation bumps Version and updates Fingerprint, an
// order-independent summary of the obstacle set that the replanning cache
// compares against.
//
// Grid is NOT safe for concurrent use. Callers sharing a grid between
// goroutines must serialize access themselves.
package grid

import (
	"fmt"
	"iter"
	"math"

	"gridpath/core"
)

// Grid is a 2-D obstacle map.
type Grid struct {
	width       int
	height      int
	blocked     []bool // true = obstacle, indexed y*width+x
	count       int
	version     uint64
	fingerprint uint64
}

// Neighbor is a passable cell one step away, with the cost of that step.
type Neighbor struct {
	Cell core.Cell
	Cost float64
}

type move struct {
	dx, dy   int
	diagonal bool
}

// Moves in the fixed expansion order: N, S, E, W, then NE, NW, SE, SW.
var moves = [8]move{
	{0, -1, false}, {0, 1, false}, {1, 0, false}, {-1, 0, false},
	{1, -1, true}, {-1, -1, true}, {1, 1, true}, {-1, 1, true},
}

// New creates an empty grid with the given dimensions.
func New(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", core.ErrInvalidSize, width, height)
	}
	return &Grid{
		width:   width,
		height:  height,
		blocked: make([]bool, width*height),
	}, nil
}

// FromMatrix builds a grid from a row-major occupancy matrix where
// matrix[y][x] != 0 marks an obstacle. All rows must have the same length.
func FromMatrix(matrix [][]int) (*Grid, error) {
	if len(matrix) == 0 || len(matrix[0]) == 0 {
		return nil, fmt.Errorf("%w: empty matrix", core.ErrInvalidSize)
	}
	width := len(matrix[0])
	g, err := New(width, len(matrix))
	if err != nil {
		return nil, err
	}
	for y, row := range matrix {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", core.ErrInvalidSize, y, len(row), width)
		}
		for x, v := range row {
			if v != 0 {
				g.set(y*width+x, true)
			}
		}
	}
	return g, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Size returns the number of cells.
func (g *Grid) Size() int { return g.width * g.height }

// ObstacleCount returns the number of blocked cells.
func (g *Grid) ObstacleCount() int { return g.count }

// Version increments on every mutation that changes occupancy.
func (g *Grid) Version() uint64 { return g.version }

// Fingerprint summarizes the current obstacle set. Two grids of the same
// size with the same obstacles have the same fingerprint.
func (g *Grid) Fingerprint() uint64 { return g.fingerprint }

// InBounds reports whether c lies within [0,width)×[0,height).
func (g *Grid) InBounds(c core.Cell) bool {
	return c.X >= 0 && c.X < g.width && c.Y >= 0 && c.Y < g.height
}

// Index returns the flat index of an in-bounds cell.
func (g *Grid) Index(c core.Cell) int {
	return c.Y*g.width + c.X
}

// CellAt is the inverse of Index.
func (g *Grid) CellAt(idx int) core.Cell {
	return core.Cell{X: idx % g.width, Y: idx / g.width}
}

// IsObstacle reports whether c is blocked. Out-of-bounds cells are not
// obstacles; use InBounds to tell them apart.
func (g *Grid) IsObstacle(c core.Cell) bool {
	if !g.InBounds(c) {
		return false
	}
	return g.blocked[g.Index(c)]
}

// IsPassable reports whether c is in bounds and not blocked.
func (g *Grid) IsPassable(c core.Cell) bool {
	return g.InBounds(c) && !g.blocked[g.Index(c)]
}

// SetObstacle marks or clears an obstacle. It reports whether occupancy
// actually changed and fails with core.ErrOutOfBounds outside the grid.
func (g *Grid) SetObstacle(c core.Cell, blocked bool) (bool, error) {
	if !g.InBounds(c) {
		return false, fmt.Errorf("set obstacle %s on %dx%d grid: %w", c, g.width, g.height, core.ErrOutOfBounds)
	}
	return g.set(g.Index(c), blocked), nil
}

func (g *Grid) set(idx int, blocked bool) bool {
	if g.blocked[idx] == blocked {
		return false
	}
	g.blocked[idx] = blocked
	if blocked {
		g.count++
	} else {
		g.count--
	}
	g.fingerprint ^= cellMix(idx)
	g.version++
	return true
}

// ReplaceObstacles swaps the whole obstacle set for cells. It fails without
// modifying the grid if any cell is out of bounds.
func (g *Grid) ReplaceObstacles(cells []core.Cell) error {
	for _, c := range cells {
		if !g.InBounds(c) {
			return fmt.Errorf("replace obstacles: %s: %w", c, core.ErrOutOfBounds)
		}
	}
	next := make([]bool, len(g.blocked))
	for _, c := range cells {
		next[g.Index(c)] = true
	}
	for idx := range g.blocked {
		g.set(idx, next[idx])
	}
	return nil
}

// ClearObstacles removes every obstacle.
func (g *Grid) ClearObstacles() {
	for idx, b := range g.blocked {
		if b {
			g.set(idx, false)
		}
	}
}

// Obstacles returns the blocked cells in row-major order.
func (g *Grid) Obstacles() []core.Cell {
	cells := make([]core.Cell, 0, g.count)
	for idx, b := range g.blocked {
		if b {
			cells = append(cells, g.CellAt(idx))
		}
	}
	return cells
}

// Clone returns an independent copy, including version and fingerprint.
func (g *Grid) Clone() *Grid {
	c := *g
	c.blocked = make([]bool, len(g.blocked))
	copy(c.blocked, g.blocked)
	return &c
}

// StepCost returns the cost of moving from a to an adjacent b: 1 for a
// straight step, diagonal for a diagonal one.
func StepCost(a, b core.Cell, diagonal float64) float64 {
	if a.X != b.X && a.Y != b.Y {
		return diagonal
	}
	return 1
}

// Neighbors yields the passable cells one step from c, in the fixed order
// N, S, E, W and, under octile connectivity, NE, NW, SE, SW. A diagonal step
// is only offered when both orthogonal cells it passes between are passable.
func (g *Grid) Neighbors(c core.Cell, conn core.Connectivity, diagonal float64) iter.Seq[Neighbor] {
	return func(yield func(Neighbor) bool) {
		limit := 4
		if conn == core.Octile {
			limit = 8
		}
		for _, m := range moves[:limit] {
			n := c.Add(m.dx, m.dy)
			if !g.IsPassable(n) {
				continue
			}
			cost := 1.0
			if m.diagonal {
				if !g.IsPassable(c.Add(m.dx, 0)) || !g.IsPassable(c.Add(0, m.dy)) {
					continue
				}
				cost = diagonal
			}
			if !yield(Neighbor{Cell: n, Cost: cost}) {
				return
			}
		}
	}
}

// String renders the grid with '#' for obstacles and '.' for free cells.
func (g *Grid) String() string {
	buf := make([]byte, 0, (g.width+1)*g.height)
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if g.blocked[y*g.width+x] {
				buf = append(buf, '#')
			} else {
				buf = append(buf, '.')
			}
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}

// cellMix is splitmix64 over the flat index.
func cellMix(idx int) uint64 {
	z := uint64(idx) + 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// DefaultDiagonalCost is the Euclidean length of one diagonal step.
const DefaultDiagonalCost = math.Sqrt2

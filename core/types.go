// Package core contains the fundamental types used throughout the gridpath planner.
package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Cell is an integer coordinate on the grid. Origin (0,0) is top-left,
// X grows rightward and Y grows downward.
type Cell struct {
	X, Y int
}

// String returns the "(x,y)" form used in logs and test output.
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Add returns the cell offset by (dx, dy).
func (c Cell) Add(dx, dy int) Cell {
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

// ParseCell parses "x,y" (spaces allowed) into a Cell.
func ParseCell(s string) (Cell, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Cell{}, fmt.Errorf("invalid cell %q: want x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Cell{}, fmt.Errorf("invalid cell %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Cell{}, fmt.Errorf("invalid cell %q: %w", s, err)
	}
	return Cell{X: x, Y: y}, nil
}

// ParseCells parses a ';'-separated list of "x,y" pairs. An empty string
// yields no cells.
func ParseCells(s string) ([]Cell, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var cells []Cell
	for _, part := range strings.Split(s, ";") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		c, err := ParseCell(part)
		if err != nil {
			return nil, err
		}
		cells = append(cells, c)
	}
	return cells, nil
}

// Connectivity selects which moves a single step may make.
type Connectivity int

const (
	// Cardinal allows the four axis-aligned moves.
	Cardinal Connectivity = iota
	// Octile adds the four diagonal moves.
	Octile
)

// String returns the name used by the CLI and scenario files.
func (c Connectivity) String() string {
	switch c {
	case Cardinal:
		return "cardinal"
	case Octile:
		return "octile"
	default:
		return "unknown"
	}
}

// ParseConnectivity converts a name into a Connectivity.
func ParseConnectivity(s string) (Connectivity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cardinal", "4", "four":
		return Cardinal, nil
	case "octile", "diagonal", "8", "eight":
		return Octile, nil
	default:
		return Cardinal, fmt.Errorf("unknown connectivity: %s", s)
	}
}

// IsStep reports whether b is reachable from a in one move under c.
func (c Connectivity) IsStep(a, b Cell) bool {
	dx, dy := abs(b.X-a.X), abs(b.Y-a.Y)
	switch c {
	case Cardinal:
		return dx+dy == 1
	case Octile:
		return dx <= 1 && dy <= 1 && dx+dy > 0
	default:
		return false
	}
}

// Path represents a route across the grid, start and goal inclusive.
type Path struct {
	Cells []Cell
	Cost  float64 // Sum of step costs
}

// Length returns the number of cells in the path.
func (p Path) Length() int {
	return len(p.Cells)
}

// IsEmpty returns true if the path has no cells.
func (p Path) IsEmpty() bool {
	return len(p.Cells) == 0
}

// Start returns the first cell. The path must not be empty.
func (p Path) Start() Cell {
	return p.Cells[0]
}

// Goal returns the last cell. The path must not be empty.
func (p Path) Goal() Cell {
	return p.Cells[len(p.Cells)-1]
}

// Contains reports whether c lies on the path.
func (p Path) Contains(c Cell) bool {
	for _, pc := range p.Cells {
		if pc == c {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no memory with p.
func (p Path) Clone() Path {
	if p.Cells == nil {
		return Path{Cost: p.Cost}
	}
	cells := make([]Cell, len(p.Cells))
	copy(cells, p.Cells)
	return Path{Cells: cells, Cost: p.Cost}
}

// String converts a path to a string representation for debugging.
func (p Path) String() string {
	if p.IsEmpty() {
		return "empty path"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Path (cost=%.3f): ", p.Cost)
	for i, c := range p.Cells {
		if i > 0 {
			b.WriteString(" -> ")
		}
		b.WriteString(c.String())
	}
	return b.String()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

package pathfinding

import (
	"math"
	"strings"
	"testing"

	"gridpath/core"
	"gridpath/grid"
	"gridpath/validation"
)

// parseGrid builds a grid from an ASCII map: '#' or 'X' is an obstacle,
// anything else is free. Leading and trailing blank lines are ignored.
func parseGrid(t testing.TB, layout string) *grid.Grid {
	t.Helper()
	rows := strings.Split(strings.TrimSpace(layout), "\n")
	matrix := make([][]int, len(rows))
	for y, row := range rows {
		row = strings.TrimSpace(row)
		matrix[y] = make([]int, len(row))
		for x := 0; x < len(row); x++ {
			if row[x] == '#' || row[x] == 'X' {
				matrix[y][x] = 1
			}
		}
	}
	g, err := grid.FromMatrix(matrix)
	if err != nil {
		t.Fatalf("bad test grid: %v", err)
	}
	return g
}

func cells(xy ...int) []core.Cell {
	out := make([]core.Cell, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		out = append(out, core.Cell{X: xy[i], Y: xy[i+1]})
	}
	return out
}

// assertValidPath fails the test if path is not a legal route.
func assertValidPath(t testing.TB, g *grid.Grid, opts Options, path core.Path, start, goal core.Cell) {
	t.Helper()
	v := validation.NewPathValidator(opts.Connectivity)
	if opts.DiagonalCost != 0 {
		v.SetDiagonalCost(opts.DiagonalCost)
	}
	for _, e := range v.Validate(g, path, start, goal) {
		t.Errorf("invalid path: %v\n%s", e, g)
	}
}

// bfsDistance is an independent unit-cost reference for cardinal grids.
// It returns -1 when goal is unreachable.
func bfsDistance(g *grid.Grid, start, goal core.Cell) int {
	dist := make([]int, g.Size())
	for i := range dist {
		dist[i] = -1
	}
	dist[g.Index(start)] = 0
	queue := []core.Cell{start}
	steps := [4]core.Cell{{X: 0, Y: -1}, {X: 0, Y: 1}, {X: 1, Y: 0}, {X: -1, Y: 0}}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == goal {
			return dist[g.Index(c)]
		}
		for _, s := range steps {
			n := c.Add(s.X, s.Y)
			if !g.IsPassable(n) || dist[g.Index(n)] >= 0 {
				continue
			}
			dist[g.Index(n)] = dist[g.Index(c)] + 1
			queue = append(queue, n)
		}
	}
	return -1
}

// dijkstra returns the cost from source to every cell, +Inf where
// unreachable. It scans for the minimum instead of using a heap so it shares
// no code with the frontier under test.
func dijkstra(g *grid.Grid, source core.Cell, conn core.Connectivity, diagonal float64) []float64 {
	dist := make([]float64, g.Size())
	done := make([]bool, g.Size())
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	dist[g.Index(source)] = 0
	for {
		best := -1
		for i := range dist {
			if !done[i] && !math.IsInf(dist[i], 1) && (best < 0 || dist[i] < dist[best]) {
				best = i
			}
		}
		if best < 0 {
			return dist
		}
		done[best] = true
		for n := range g.Neighbors(g.CellAt(best), conn, diagonal) {
			idx := g.Index(n.Cell)
			if d := dist[best] + n.Cost; d < dist[idx] {
				dist[idx] = d
			}
		}
	}
}

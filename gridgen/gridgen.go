// Package gridgen builds obstacle layouts for benchmarks, property tests and
// the bench command. All generators are deterministic for a given non-zero seed.
package gridgen

import (
	"fmt"
	"math/rand"
	"time"

	"gridpath/core"
	"gridpath/grid"
)

// RandomConfig describes a uniformly random obstacle field.
type RandomConfig struct {
	Width, Height int
	Density       float64     // Probability that a cell is blocked, 0..1
	Seed          int64       // 0 = time based
	Keep          []core.Cell // Cells that are always left free, e.g. start and goal
}

// Random fills a grid with independent obstacles.
func Random(cfg RandomConfig) (*grid.Grid, error) {
	if cfg.Density < 0 || cfg.Density > 1 {
		return nil, fmt.Errorf("density %.2f outside [0, 1]", cfg.Density)
	}
	g, err := grid.New(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	rng := newRand(cfg.Seed)

	keep := make(map[core.Cell]bool, len(cfg.Keep))
	for _, c := range cfg.Keep {
		keep[c] = true
	}
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			c := core.Cell{X: x, Y: y}
			if keep[c] || rng.Float64() >= cfg.Density {
				continue
			}
			if _, err := g.SetObstacle(c, true); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

// MazeConfig describes a recursive-backtracker maze.
type MazeConfig struct {
	Width, Height int
	// Braiding removes walls between corridors with this probability,
	// turning the spanning tree into a graph with cycles.
	Braiding float64
	Seed     int64 // 0 = time based
}

// Maze is a generated maze and the corners a query should connect.
type Maze struct {
	Grid        *grid.Grid
	Start, Goal core.Cell
}

// GenerateMaze carves a maze. Dimensions are rounded down to odd numbers so
// the outer wall is closed; both must be at least 3.
func GenerateMaze(cfg MazeConfig) (Maze, error) {
	w, h := ensureOdd(cfg.Width), ensureOdd(cfg.Height)
	if w < 3 || h < 3 {
		return Maze{}, fmt.Errorf("%w: maze needs at least 3x3, got %dx%d", core.ErrInvalidSize, cfg.Width, cfg.Height)
	}
	walls := make([]bool, w*h)
	for i := range walls {
		walls[i] = true
	}
	rng := newRand(cfg.Seed)
	start := core.Cell{X: 1, Y: 1}
	carve(walls, w, h, start, rng)
	if cfg.Braiding > 0 {
		braid(walls, w, h, cfg.Braiding, rng)
	}

	g, err := grid.New(w, h)
	if err != nil {
		return Maze{}, err
	}
	for i, wall := range walls {
		if wall {
			if _, err := g.SetObstacle(g.CellAt(i), true); err != nil {
				return Maze{}, err
			}
		}
	}
	return Maze{Grid: g, Start: start, Goal: core.Cell{X: w - 2, Y: h - 2}}, nil
}

var mazeSteps = [4]core.Cell{{X: 0, Y: -2}, {X: 0, Y: 2}, {X: -2, Y: 0}, {X: 2, Y: 0}}

// carve runs the recursive backtracker with an explicit stack.
func carve(walls []bool, w, h int, start core.Cell, rng *rand.Rand) {
	stack := []core.Cell{start}
	walls[start.Y*w+start.X] = false

	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		candidates := make([]core.Cell, 0, 4)
		for _, d := range mazeSteps {
			nx, ny := curr.X+d.X, curr.Y+d.Y
			if nx > 0 && nx < w-1 && ny > 0 && ny < h-1 && walls[ny*w+nx] {
				candidates = append(candidates, d)
			}
		}
		if len(candidates) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}
		d := candidates[rng.Intn(len(candidates))]
		walls[(curr.Y+d.Y/2)*w+curr.X+d.X/2] = false
		next := curr.Add(d.X, d.Y)
		walls[next.Y*w+next.X] = false
		stack = append(stack, next)
	}
}

// braid knocks out interior walls that separate two corridors.
func braid(walls []bool, w, h int, p float64, rng *rand.Rand) {
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			if !walls[y*w+x] {
				continue
			}
			horizontal := !walls[y*w+x-1] && !walls[y*w+x+1] && walls[(y-1)*w+x] && walls[(y+1)*w+x]
			vertical := !walls[(y-1)*w+x] && !walls[(y+1)*w+x] && walls[y*w+x-1] && walls[y*w+x+1]
			if (horizontal || vertical) && rng.Float64() < p {
				walls[y*w+x] = false
			}
		}
	}
}

func ensureOdd(n int) int {
	if n%2 == 0 {
		return n - 1
	}
	return n
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

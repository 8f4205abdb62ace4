package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"gridpath/core"
	"gridpath/ctxlog"
	"gridpath/geometry"
	"gridpath/grid"
	"gridpath/gridgen"
	"gridpath/pathfinding"
)

// ErrMismatch is returned when the cached planner disagrees with a fresh
// search.
var ErrMismatch = errors.New("cached and uncached planners disagree")

// Config describes one benchmark run.
type Config struct {
	Width, Height int
	Density       float64
	Maze          bool
	Octile        bool
	Grids         int
	Pairs         int
	Repeats       int
	Seed          int64
	Parallel      int
}

// Result holds the totals for one generated grid.
type Result struct {
	Seed             int64
	Queries          int
	Found            int
	Cache            pathfinding.CacheStats
	CachedTime       time.Duration
	UncachedTime     time.Duration
	CachedExpanded   int
	UncachedExpanded int
}

func (r *Result) add(o Result) {
	r.Queries += o.Queries
	r.Found += o.Found
	r.Cache.Hits += o.Cache.Hits
	r.Cache.Misses += o.Cache.Misses
	r.Cache.Stale += o.Cache.Stale
	r.Cache.Invalidations += o.Cache.Invalidations
	r.Cache.Retained += o.Cache.Retained
	r.CachedTime += o.CachedTime
	r.UncachedTime += o.UncachedTime
	r.CachedExpanded += o.CachedExpanded
	r.UncachedExpanded += o.UncachedExpanded
}

// Run benchmarks cfg.Grids grids, cfg.Parallel at a time. Each grid is
// handled by one goroutine with its own planners, so no planner is shared.
func Run(ctx context.Context, cfg Config) ([]Result, error) {
	if cfg.Grids <= 0 || cfg.Pairs <= 0 || cfg.Repeats <= 0 {
		return nil, fmt.Errorf("grids, pairs and repeats must be positive")
	}
	results := make([]Result, cfg.Grids)

	g, ctx := errgroup.WithContext(ctx)
	if cfg.Parallel > 0 {
		g.SetLimit(cfg.Parallel)
	}
	for i := range cfg.Grids {
		seed := cfg.Seed + int64(i)
		g.Go(func() error {
			r, err := benchGrid(ctx, cfg, seed)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func benchGrid(ctx context.Context, cfg Config, seed int64) (Result, error) {
	logger := ctxlog.FromContext(ctx).With("seed", seed)
	base, err := generate(cfg, seed)
	if err != nil {
		return Result{}, err
	}

	opts := pathfinding.DefaultOptions()
	if cfg.Octile {
		opts.Connectivity = core.Octile
	}
	cached, err := pathfinding.NewPlannerForGrid(base.Clone(), pathfinding.WithOptions(opts), pathfinding.WithLogger(logger))
	if err != nil {
		return Result{}, err
	}
	uncached, err := pathfinding.NewPlannerForGrid(base.Clone(), pathfinding.WithOptions(opts), pathfinding.WithoutCache())
	if err != nil {
		return Result{}, err
	}

	free := freeCells(base)
	if len(free) < 2 {
		return Result{}, fmt.Errorf("grid has fewer than two free cells")
	}
	rng := rand.New(rand.NewSource(seed))
	res := Result{Seed: seed}

	for range cfg.Pairs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		start := free[rng.Intn(len(free))]
		goal := free[rng.Intn(len(free))]

		for rep := range cfg.Repeats {
			if rep > 0 {
				// Toggle one random cell, leaving the endpoints alone.
				c := core.Cell{X: rng.Intn(base.Width()), Y: rng.Intn(base.Height())}
				if c != start && c != goal {
					blocked := !cached.IsObstacle(c.X, c.Y)
					if err := cached.SetObstacleAt(c, blocked); err != nil {
						return res, err
					}
					if err := uncached.SetObstacleAt(c, blocked); err != nil {
						return res, err
					}
				}
			}

			a, err := cached.Query(ctx, start, goal)
			if err != nil {
				return res, err
			}
			b, err := uncached.Query(ctx, start, goal)
			if err != nil {
				return res, err
			}
			if a.Found != b.Found || !geometry.AlmostEqual(a.Path.Cost, b.Path.Cost) {
				return res, fmt.Errorf("%w: %s -> %s: cached (%v, %g) vs fresh (%v, %g)",
					ErrMismatch, start, goal, a.Found, a.Path.Cost, b.Found, b.Path.Cost)
			}
			if !slices.Equal(a.Path.Cells, b.Path.Cells) {
				return res, fmt.Errorf("%w: %s -> %s: cached path %s vs fresh %s",
					ErrMismatch, start, goal, a.Path, b.Path)
			}

			res.Queries++
			if a.Found {
				res.Found++
			}
			res.CachedTime += a.Elapsed
			res.UncachedTime += b.Elapsed
			res.CachedExpanded += a.Expanded
			res.UncachedExpanded += b.Expanded
		}
	}
	res.Cache = cached.CacheStats()
	logger.Info("grid finished", "queries", res.Queries, "hits", res.Cache.Hits)
	return res, nil
}

func generate(cfg Config, seed int64) (*grid.Grid, error) {
	if cfg.Maze {
		m, err := gridgen.GenerateMaze(gridgen.MazeConfig{Width: cfg.Width, Height: cfg.Height, Braiding: 0.2, Seed: seed})
		if err != nil {
			return nil, err
		}
		return m.Grid, nil
	}
	return gridgen.Random(gridgen.RandomConfig{Width: cfg.Width, Height: cfg.Height, Density: cfg.Density, Seed: seed})
}

func freeCells(g *grid.Grid) []core.Cell {
	var free []core.Cell
	for y := range g.Height() {
		for x := range g.Width() {
			if c := (core.Cell{X: x, Y: y}); !g.IsObstacle(c) {
				free = append(free, c)
			}
		}
	}
	return free
}

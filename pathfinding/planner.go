package pathfinding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"gridpath/core"
	"gridpath/grid"
	"gridpath/metrics"
)

const tracerName = "gridpath/pathfinding"

// Planner owns a grid and answers repeated path queries on it, reusing the
// last answer while obstacle changes leave it valid.
type Planner struct {
	grid         *grid.Grid
	finder       *AStarPathFinder
	cache        *PathCache
	cacheEnabled bool
	logger       *slog.Logger
	metrics      *metrics.Metrics
	tracer       trace.Tracer
}

type plannerConfig struct {
	opts         Options
	cacheEnabled bool
	logger       *slog.Logger
	metrics      *metrics.Metrics
	tracer       trace.Tracer
}

// PlannerOption configures a Planner.
type PlannerOption func(*plannerConfig)

// WithOptions replaces all search options.
func WithOptions(opts Options) PlannerOption {
	return func(c *plannerConfig) { c.opts = opts }
}

// WithConnectivity selects cardinal or octile moves.
func WithConnectivity(conn core.Connectivity) PlannerOption {
	return func(c *plannerConfig) { c.opts.Connectivity = conn }
}

// WithHeuristic selects the heuristic.
func WithHeuristic(kind HeuristicKind) PlannerOption {
	return func(c *plannerConfig) { c.opts.Heuristic = kind }
}

// WithDiagonalCost sets the cost of a diagonal step.
func WithDiagonalCost(cost float64) PlannerOption {
	return func(c *plannerConfig) { c.opts.DiagonalCost = cost }
}

// WithMaxExpansions caps the number of cells one search may expand.
func WithMaxExpansions(n int) PlannerOption {
	return func(c *plannerConfig) { c.opts.MaxExpansions = n }
}

// WithoutCache makes every query run a fresh search.
func WithoutCache() PlannerOption {
	return func(c *plannerConfig) { c.cacheEnabled = false }
}

// WithLogger sets the logger; queries log at debug level.
func WithLogger(logger *slog.Logger) PlannerOption {
	return func(c *plannerConfig) { c.logger = logger }
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) PlannerOption {
	return func(c *plannerConfig) { c.metrics = m }
}

// WithTracer overrides the OpenTelemetry tracer.
func WithTracer(t trace.Tracer) PlannerOption {
	return func(c *plannerConfig) { c.tracer = t }
}

// NewPlanner creates a planner over an empty width×height grid.
func NewPlanner(width, height int, options ...PlannerOption) (*Planner, error) {
	g, err := grid.New(width, height)
	if err != nil {
		return nil, err
	}
	return NewPlannerForGrid(g, options...)
}

// NewPlannerFromMatrix creates a planner from a row-major occupancy matrix
// where a non-zero value marks an obstacle.
func NewPlannerFromMatrix(matrix [][]int, options ...PlannerOption) (*Planner, error) {
	g, err := grid.FromMatrix(matrix)
	if err != nil {
		return nil, err
	}
	return NewPlannerForGrid(g, options...)
}

// NewPlannerForGrid creates a planner that takes ownership of g. Mutating g
// afterwards without going through the planner is detected by fingerprint
// and costs a cache miss, never a wrong answer.
func NewPlannerForGrid(g *grid.Grid, options ...PlannerOption) (*Planner, error) {
	cfg := plannerConfig{
		opts:         DefaultOptions(),
		cacheEnabled: true,
	}
	for _, option := range options {
		option(&cfg)
	}
	finder, err := NewAStarPathFinder(cfg.opts)
	if err != nil {
		return nil, err
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	if cfg.tracer == nil {
		cfg.tracer = otel.Tracer(tracerName)
	}
	opts := finder.Options()
	return &Planner{
		grid:         g,
		finder:       finder,
		cache:        NewPathCache(finder.Heuristic(), opts.Connectivity, opts.DiagonalCost),
		cacheEnabled: cfg.cacheEnabled,
		logger:       cfg.logger,
		metrics:      cfg.metrics,
		tracer:       cfg.tracer,
	}, nil
}

// Width returns the grid width.
func (p *Planner) Width() int { return p.grid.Width() }

// Height returns the grid height.
func (p *Planner) Height() int { return p.grid.Height() }

// Options returns the normalized search options.
func (p *Planner) Options() Options { return p.finder.Options() }

// Snapshot returns a copy of the grid for read-only use such as rendering.
func (p *Planner) Snapshot() *grid.Grid { return p.grid.Clone() }

// IsObstacle reports whether (x, y) is blocked.
func (p *Planner) IsObstacle(x, y int) bool {
	return p.grid.IsObstacle(core.Cell{X: x, Y: y})
}

// SetObstacle marks or clears the obstacle at (x, y).
func (p *Planner) SetObstacle(x, y int, blocked bool) error {
	return p.SetObstacleAt(core.Cell{X: x, Y: y}, blocked)
}

// SetObstacleAt marks or clears the obstacle at c and tells the cache.
func (p *Planner) SetObstacleAt(c core.Cell, blocked bool) error {
	before := p.grid.Fingerprint()
	changed, err := p.grid.SetObstacle(c, blocked)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	p.metrics.ObstacleUpdated()
	if reason := p.cache.NotifyObstacle(c, blocked, before, p.grid.Fingerprint()); reason != "" {
		p.metrics.CacheInvalidated(reason)
		p.logger.Debug("cache invalidated", "cell", c.String(), "blocked", blocked, "reason", reason)
	}
	return nil
}

// ReplaceObstacles swaps the whole obstacle set.
func (p *Planner) ReplaceObstacles(cells []core.Cell) error {
	before := p.grid.Fingerprint()
	if err := p.grid.ReplaceObstacles(cells); err != nil {
		return err
	}
	if p.grid.Fingerprint() != before {
		p.metrics.ObstacleUpdated()
		p.invalidate(ReasonBulkUpdate)
	}
	return nil
}

// ClearObstacles removes every obstacle.
func (p *Planner) ClearObstacles() {
	if p.grid.ObstacleCount() == 0 {
		return
	}
	p.grid.ClearObstacles()
	p.metrics.ObstacleUpdated()
	p.invalidate(ReasonBulkUpdate)
}

// InvalidateCache forces the next query to search.
func (p *Planner) InvalidateCache() {
	p.invalidate(ReasonManual)
}

func (p *Planner) invalidate(reason string) {
	if _, ok := p.cache.Entry(); ok {
		p.cache.Invalidate(reason)
		p.metrics.CacheInvalidated(reason)
	}
}

// CacheStats returns replanning cache counters.
func (p *Planner) CacheStats() CacheStats { return p.cache.Stats() }

// QueryResult is a Planner answer with provenance.
type QueryResult struct {
	Path     core.Path
	Found    bool
	Cached   bool // Served from the replanning cache
	Expanded int  // Cells expanded by the search, 0 on a cache hit
	Elapsed  time.Duration
}

// FindPath returns the cells from start to goal inclusive. found is false
// when no path exists; err is reserved for malformed input.
func (p *Planner) FindPath(start, goal core.Cell) (path core.Path, found bool, err error) {
	res, err := p.Query(context.Background(), start, goal)
	if err != nil {
		return core.Path{}, false, err
	}
	return res.Path, res.Found, nil
}

// Query answers one path query. ctx carries tracing only; the search is
// synchronous and is not cancelled by ctx.
func (p *Planner) Query(ctx context.Context, start, goal core.Cell) (QueryResult, error) {
	_, span := p.tracer.Start(ctx, "pathfinding.Query", trace.WithAttributes(
		attribute.String("start", start.String()),
		attribute.String("goal", goal.String()),
		attribute.Int("grid.width", p.grid.Width()),
		attribute.Int("grid.height", p.grid.Height()),
	))
	defer span.End()

	res, err := p.query(start, goal)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return res, err
	}
	span.SetAttributes(
		attribute.Bool("path.found", res.Found),
		attribute.Bool("cache.hit", res.Cached),
		attribute.Int("search.expanded", res.Expanded),
	)
	return res, nil
}

func (p *Planner) query(start, goal core.Cell) (QueryResult, error) {
	began := time.Now()
	if err := ValidateEndpoints(p.grid, start, goal); err != nil {
		p.metrics.ObserveSearch(metrics.OutcomeError, 0, time.Since(began))
		return QueryResult{}, err
	}

	if p.cacheEnabled {
		entry, lookup := p.cache.Lookup(p.grid, start, goal)
		p.metrics.CacheLookup(lookup.String())
		if lookup == LookupStale {
			p.metrics.CacheInvalidated(ReasonStale)
		}
		if lookup == LookupHit {
			p.logger.Debug("path served from cache", "start", start.String(), "goal", goal.String(), "found", entry.Found)
			return QueryResult{
				Path:    entry.Path.Clone(),
				Found:   entry.Found,
				Cached:  true,
				Elapsed: time.Since(began),
			}, nil
		}
	}

	res, err := p.finder.FindPath(p.grid, start, goal)
	elapsed := time.Since(began)
	if err != nil {
		p.metrics.ObserveSearch(metrics.OutcomeError, res.Expanded, elapsed)
		if errors.Is(err, ErrSearchLimit) {
			p.logger.Warn("search aborted", "start", start.String(), "goal", goal.String(), "error", err)
		}
		return QueryResult{}, err
	}

	outcome := metrics.OutcomeUnreachable
	if res.Found {
		outcome = metrics.OutcomeFound
	}
	p.metrics.ObserveSearch(outcome, res.Expanded, elapsed)
	p.logger.Debug("search finished",
		"start", start.String(), "goal", goal.String(),
		"state", res.State.String(), "cost", res.Path.Cost,
		"expanded", res.Expanded, "stale", res.Stale, "elapsed", elapsed)

	if p.cacheEnabled {
		p.cache.Store(p.grid, start, goal, res.Path, res.Found)
	}
	return QueryResult{
		Path:     res.Path,
		Found:    res.Found,
		Expanded: res.Expanded,
		Elapsed:  elapsed,
	}, nil
}

// FindPathInGrid builds a width×height grid, blocks obstacles and returns
// one path, for callers that do not need a persistent planner.
func FindPathInGrid(width, height int, start, goal core.Cell, obstacles []core.Cell, options ...PlannerOption) (core.Path, bool, error) {
	p, err := NewPlanner(width, height, append(options, WithoutCache())...)
	if err != nil {
		return core.Path{}, false, err
	}
	for _, c := range obstacles {
		if err := p.SetObstacleAt(c, true); err != nil {
			return core.Path{}, false, fmt.Errorf("obstacle %s: %w", c, err)
		}
	}
	return p.FindPath(start, goal)
}

// Package scenario describes a grid, search settings and an ordered list of
// queries with obstacle changes between them, and runs them against a
// planner.
package scenario

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gridpath/core"
	"gridpath/ctxlog"
	"gridpath/geometry"
	"gridpath/grid"
	"gridpath/pathfinding"
)

// ErrExpectation is wrapped by Report.Err when a query's result differs
// from what the scenario expected.
var ErrExpectation = errors.New("scenario expectation failed")

// Scenario is a self-contained planning exercise.
type Scenario struct {
	Name      string
	Width     int
	Height    int
	Obstacles []core.Cell
	Options   pathfinding.Options
	Queries   []Query
}

// Query is one path request. Block and Unblock are applied, in that order,
// before the search.
type Query struct {
	Name              string
	Start, Goal       core.Cell
	Block             []core.Cell
	Unblock           []core.Cell
	ExpectCost        *float64 // nil = not checked
	ExpectUnreachable bool
}

// Validate checks the scenario for structural problems before it is run.
func (s *Scenario) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("scenario %q: %w: %dx%d", s.Name, core.ErrInvalidSize, s.Width, s.Height)
	}
	if len(s.Queries) == 0 {
		return fmt.Errorf("scenario %q has no queries", s.Name)
	}
	for i, q := range s.Queries {
		if q.ExpectCost != nil && q.ExpectUnreachable {
			return fmt.Errorf("query %s: expect_cost and expect_unreachable are exclusive", q.label(i))
		}
	}
	return s.Options.Validate()
}

func (q Query) label(i int) string {
	if q.Name != "" {
		return fmt.Sprintf("%q", q.Name)
	}
	return fmt.Sprintf("#%d", i+1)
}

// Outcome is the result of one query.
type Outcome struct {
	Query    Query
	Result   pathfinding.QueryResult
	Err      error      // Endpoint or search error for this query
	Grid     *grid.Grid // Grid as the query saw it
	Failures []string   // Unmet expectations
}

// Passed reports whether every expectation held.
func (o Outcome) Passed() bool { return len(o.Failures) == 0 }

// Report collects the outcomes of a run.
type Report struct {
	Scenario string
	Options  pathfinding.Options
	Outcomes []Outcome
	Cache    pathfinding.CacheStats
	Elapsed  time.Duration
}

// Failed returns the number of outcomes with unmet expectations.
func (r *Report) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if !o.Passed() {
			n++
		}
	}
	return n
}

// Err returns an error wrapping ErrExpectation if any outcome failed.
func (r *Report) Err() error {
	if n := r.Failed(); n > 0 {
		return fmt.Errorf("%w: %d of %d queries in %q", ErrExpectation, n, len(r.Outcomes), r.Scenario)
	}
	return nil
}

// Run executes every query in order on one planner, so the replanning cache
// carries over between queries. Query errors are recorded in the outcome;
// Run itself only fails on a malformed scenario or obstacle update.
func Run(ctx context.Context, s *Scenario, options ...pathfinding.PlannerOption) (*Report, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	logger := ctxlog.FromContext(ctx).With("scenario", s.Name)

	options = append([]pathfinding.PlannerOption{
		pathfinding.WithOptions(s.Options),
		pathfinding.WithLogger(logger),
	}, options...)
	planner, err := pathfinding.NewPlanner(s.Width, s.Height, options...)
	if err != nil {
		return nil, err
	}
	if err := planner.ReplaceObstacles(s.Obstacles); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}

	began := time.Now()
	report := &Report{Scenario: s.Name, Options: planner.Options()}
	for i, q := range s.Queries {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		for _, c := range q.Block {
			if err := planner.SetObstacleAt(c, true); err != nil {
				return report, fmt.Errorf("query %s: block: %w", q.label(i), err)
			}
		}
		for _, c := range q.Unblock {
			if err := planner.SetObstacleAt(c, false); err != nil {
				return report, fmt.Errorf("query %s: unblock: %w", q.label(i), err)
			}
		}

		res, err := planner.Query(ctx, q.Start, q.Goal)
		out := Outcome{Query: q, Result: res, Err: err, Grid: planner.Snapshot()}
		out.Failures = check(q, res, err)
		report.Outcomes = append(report.Outcomes, out)

		logger.Info("query finished",
			"query", q.label(i), "found", res.Found, "cost", res.Path.Cost,
			"cached", res.Cached, "expanded", res.Expanded, "passed", out.Passed())
		for _, f := range out.Failures {
			logger.Warn("expectation failed", "query", q.label(i), "reason", f)
		}
	}
	report.Cache = planner.CacheStats()
	report.Elapsed = time.Since(began)
	return report, nil
}

func check(q Query, res pathfinding.QueryResult, err error) []string {
	var failures []string
	switch {
	case err != nil:
		if q.ExpectCost != nil || q.ExpectUnreachable {
			failures = append(failures, fmt.Sprintf("query error: %v", err))
		}
	case q.ExpectUnreachable && res.Found:
		failures = append(failures, fmt.Sprintf("expected unreachable, found path of cost %g", res.Path.Cost))
	case q.ExpectCost != nil && !res.Found:
		failures = append(failures, fmt.Sprintf("expected cost %g, goal unreachable", *q.ExpectCost))
	case q.ExpectCost != nil && !geometry.AlmostEqual(res.Path.Cost, *q.ExpectCost):
		failures = append(failures, fmt.Sprintf("expected cost %g, got %g", *q.ExpectCost, res.Path.Cost))
	}
	return failures
}

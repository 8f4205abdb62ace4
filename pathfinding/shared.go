package pathfinding

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"gridpath/core"
	"gridpath/grid"
)

// SharedPlanner makes a Planner safe for concurrent use. Mutations and
// searches are serialized; identical queries issued while one is running on
// the same grid version share its result.
type SharedPlanner struct {
	mu        sync.Mutex
	planner   *Planner
	group     singleflight.Group
	collapsed atomic.Int64
}

// NewSharedPlanner wraps p. The caller must not use p directly afterwards.
func NewSharedPlanner(p *Planner) *SharedPlanner {
	return &SharedPlanner{planner: p}
}

// SetObstacle marks or clears the obstacle at (x, y).
func (s *SharedPlanner) SetObstacle(x, y int, blocked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.planner.SetObstacle(x, y, blocked)
}

// ReplaceObstacles swaps the whole obstacle set.
func (s *SharedPlanner) ReplaceObstacles(cells []core.Cell) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.planner.ReplaceObstacles(cells)
}

// Snapshot returns a copy of the grid.
func (s *SharedPlanner) Snapshot() *grid.Grid {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.planner.Snapshot()
}

// CacheStats returns the wrapped planner's cache counters.
func (s *SharedPlanner) CacheStats() CacheStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.planner.CacheStats()
}

// Collapsed returns how many queries took part in a shared search,
// counting the caller that ran it.
func (s *SharedPlanner) Collapsed() int64 { return s.collapsed.Load() }

// FindPath is the concurrent form of Planner.FindPath.
func (s *SharedPlanner) FindPath(start, goal core.Cell) (core.Path, bool, error) {
	res, err := s.Query(context.Background(), start, goal)
	if err != nil {
		return core.Path{}, false, err
	}
	return res.Path, res.Found, nil
}

// Query is the concurrent form of Planner.Query. Each caller receives its
// own copy of the path.
func (s *SharedPlanner) Query(ctx context.Context, start, goal core.Cell) (QueryResult, error) {
	s.mu.Lock()
	key := fmt.Sprintf("%s>%s@%d", start, goal, s.planner.grid.Version())
	s.mu.Unlock()

	v, err, shared := s.group.Do(key, func() (any, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.planner.Query(ctx, start, goal)
	})
	if shared {
		s.collapsed.Add(1)
	}
	if err != nil {
		return QueryResult{}, err
	}
	res := v.(QueryResult)
	res.Path = res.Path.Clone()
	return res, nil
}

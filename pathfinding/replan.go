package pathfinding

import (
	"errors"

	"gridpath/core"
)

// ObstacleSource reports the current obstacle set, for example from a
// sensor feed. Cells outside the grid are ignored.
type ObstacleSource func() []core.Cell

// FindPathWithUpdates retries a query while the obstacle set changes. Each of
// the maxReplans+1 attempts first replaces the obstacles with source() (when
// source is non-nil) and then searches. An attempt whose start or goal is
// blocked by the new obstacles is not fatal; the next attempt may see it
// cleared. The first path found is returned; found is false when every
// attempt failed. Errors other than endpoint errors abort immediately.
func (p *Planner) FindPathWithUpdates(start, goal core.Cell, source ObstacleSource, maxReplans int) (core.Path, bool, error) {
	if maxReplans < 0 {
		maxReplans = 0
	}
	for attempt := 0; attempt <= maxReplans; attempt++ {
		if source != nil {
			cells := source()
			kept := cells[:0:0]
			for _, c := range cells {
				if p.grid.InBounds(c) {
					kept = append(kept, c)
				}
			}
			if dropped := len(cells) - len(kept); dropped > 0 {
				p.logger.Debug("ignoring out-of-bounds obstacles", "count", dropped)
			}
			if err := p.ReplaceObstacles(kept); err != nil {
				return core.Path{}, false, err
			}
		}

		path, found, err := p.FindPath(start, goal)
		switch {
		case err == nil && found:
			if attempt > 0 {
				p.logger.Debug("path found after replanning", "attempts", attempt+1)
			}
			return path, true, nil
		case err != nil && !errors.Is(err, core.ErrInvalidEndpoint):
			return core.Path{}, false, err
		case err != nil:
			p.logger.Debug("endpoint unusable, replanning", "attempt", attempt, "error", err)
		}
	}
	return core.Path{}, false, nil
}

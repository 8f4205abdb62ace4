package pathfinding

import (
	"fmt"
	"math"

	"github.com/zyedidia/generic/mapset"

	"gridpath/core"
	"gridpath/grid"
	"gridpath/metrics"
	"gridpath/validation"
)

// Invalidation reasons reported to metrics and logs.
const (
	ReasonBlockedOnPath      = "blocked_on_path"
	ReasonClearedShortcut    = "cleared_shortcut"
	ReasonClearedUnreachable = "cleared_unreachable"
	ReasonFingerprint        = "fingerprint_mismatch"
	ReasonStale              = "stale_path"
	ReasonBulkUpdate         = "bulk_update"
	ReasonManual             = "manual"
)

// LookupResult classifies a cache lookup.
type LookupResult int

const (
	LookupMiss  LookupResult = iota // No entry for these endpoints or grid state
	LookupHit                       // Entry returned
	LookupStale                     // Entry matched but failed validation
)

func (r LookupResult) String() string {
	switch r {
	case LookupHit:
		return metrics.LookupHit
	case LookupStale:
		return metrics.LookupStale
	default:
		return metrics.LookupMiss
	}
}

// CacheEntry is the last answered query.
type CacheEntry struct {
	Start, Goal core.Cell
	Path        core.Path
	Found       bool
	Fingerprint uint64 // Grid fingerprint the entry is known to be valid for

	cells mapset.Set[core.Cell]
}

// CacheStats counts cache activity since creation or the last Reset.
type CacheStats struct {
	Hits          int
	Misses        int
	Stale         int
	Invalidations int
	Retained      int // Mutations that left the entry valid
}

// PathCache holds one entry per planner: the last query, its answer and the
// grid fingerprint it is valid for. Obstacle mutations are reported through
// NotifyObstacle, which either advances the entry to the new fingerprint or
// drops it.
type PathCache struct {
	entry     *CacheEntry
	heuristic Heuristic
	conn      core.Connectivity
	validator *validation.PathValidator
	stats     CacheStats
	lastDrop  string
}

// NewPathCache creates an empty cache. The heuristic must be admissible for
// the connectivity; it bounds which freed cells can shorten a cached path.
func NewPathCache(h Heuristic, conn core.Connectivity, diagonal float64) *PathCache {
	v := validation.NewPathValidator(conn)
	v.SetDiagonalCost(diagonal)
	return &PathCache{heuristic: h, conn: conn, validator: v}
}

// Lookup returns the cached answer for (start, goal) if it is still valid
// on g. A hit on a found path has been re-walked cell by cell.
func (pc *PathCache) Lookup(g *grid.Grid, start, goal core.Cell) (CacheEntry, LookupResult) {
	e := pc.entry
	if e == nil || e.Start != start || e.Goal != goal {
		pc.stats.Misses++
		return CacheEntry{}, LookupMiss
	}
	if e.Fingerprint != g.Fingerprint() {
		pc.drop(ReasonFingerprint)
		pc.stats.Misses++
		return CacheEntry{}, LookupMiss
	}
	if e.Found {
		if err := pc.validator.Check(g, e.Path, start, goal); err != nil {
			pc.drop(ReasonStale)
			pc.stats.Stale++
			return CacheEntry{}, LookupStale
		}
	}
	pc.stats.Hits++
	return *e, LookupHit
}

// Store replaces the entry with a fresh answer computed on g.
func (pc *PathCache) Store(g *grid.Grid, start, goal core.Cell, path core.Path, found bool) {
	cells := mapset.New[core.Cell]()
	for _, c := range path.Cells {
		cells.Put(c)
	}
	pc.entry = &CacheEntry{
		Start:       start,
		Goal:        goal,
		Path:        path.Clone(),
		Found:       found,
		Fingerprint: g.Fingerprint(),
		cells:       cells,
	}
}

// NotifyObstacle reports that cell changed to blocked, taking the grid
// fingerprint from before to after. It returns the invalidation reason, or
// "" if the entry survived (or there was none).
//
// A newly blocked cell only matters if it lies on the cached path or is a
// corner one of its diagonal steps passes. A freed cell can only change the
// answer if some route through it could cost no more than the cached path,
// which the admissible heuristic bounds from below. Equal-cost routes drop
// the entry too, since the search tie-break may prefer them. Under octile
// moves a freed cell also opens diagonals between its neighbours, so those
// count as routes through it.
func (pc *PathCache) NotifyObstacle(cell core.Cell, blocked bool, before, after uint64) string {
	e := pc.entry
	if e == nil {
		return ""
	}
	if e.Fingerprint != before {
		pc.drop(ReasonFingerprint)
		return ReasonFingerprint
	}

	if blocked {
		if e.Found && (e.cells.Has(cell) || pc.cornerOf(e.Path, cell)) {
			pc.drop(ReasonBlockedOnPath)
			return ReasonBlockedOnPath
		}
	} else {
		if !e.Found {
			pc.drop(ReasonClearedUnreachable)
			return ReasonClearedUnreachable
		}
		if pc.lowerBoundThrough(cell, e) <= e.Path.Cost+1e-9 {
			pc.drop(ReasonClearedShortcut)
			return ReasonClearedShortcut
		}
	}

	e.Fingerprint = after
	pc.stats.Retained++
	return ""
}

// cornerOf reports whether cell is an orthogonal corner of one of the
// path's diagonal steps, which blocking it would forbid.
func (pc *PathCache) cornerOf(path core.Path, cell core.Cell) bool {
	if pc.conn != core.Octile {
		return false
	}
	for i := 1; i < len(path.Cells); i++ {
		a, b := path.Cells[i-1], path.Cells[i]
		if a.X == b.X || a.Y == b.Y {
			continue
		}
		if cell == (core.Cell{X: b.X, Y: a.Y}) || cell == (core.Cell{X: a.X, Y: b.Y}) {
			return true
		}
	}
	return false
}

func (pc *PathCache) lowerBoundThrough(cell core.Cell, e *CacheEntry) float64 {
	if pc.heuristic == nil {
		return math.Inf(-1)
	}
	through := func(c core.Cell) float64 {
		return pc.heuristic(e.Start, c) + pc.heuristic(c, e.Goal)
	}
	bound := through(cell)
	if pc.conn == core.Octile {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				bound = math.Min(bound, through(cell.Add(dx, dy)))
			}
		}
	}
	return bound
}

// Invalidate drops the entry for the given reason.
func (pc *PathCache) Invalidate(reason string) {
	if pc.entry != nil {
		pc.drop(reason)
	}
}

func (pc *PathCache) drop(reason string) {
	pc.entry = nil
	pc.lastDrop = reason
	pc.stats.Invalidations++
}

// Entry returns the current entry, if any.
func (pc *PathCache) Entry() (CacheEntry, bool) {
	if pc.entry == nil {
		return CacheEntry{}, false
	}
	return *pc.entry, true
}

// LastInvalidation returns the reason the entry was last dropped.
func (pc *PathCache) LastInvalidation() string { return pc.lastDrop }

// Stats returns the counters.
func (pc *PathCache) Stats() CacheStats { return pc.stats }

// Reset drops the entry and zeroes the counters.
func (pc *PathCache) Reset() {
	pc.entry = nil
	pc.stats = CacheStats{}
	pc.lastDrop = ""
}

// String returns a string representation of cache statistics.
func (s CacheStats) String() string {
	hitRate := 0.0
	if total := s.Hits + s.Misses + s.Stale; total > 0 {
		hitRate = float64(s.Hits) / float64(total) * 100
	}
	return fmt.Sprintf("PathCache[hits=%d, misses=%d, stale=%d, hitRate=%.1f%%, invalidations=%d, retained=%d]",
		s.Hits, s.Misses, s.Stale, hitRate, s.Invalidations, s.Retained)
}

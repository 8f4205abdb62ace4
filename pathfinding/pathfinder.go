// Package pathfinding finds shortest paths across a grid.Grid with A* and
// keeps the last answer in a replanning cache so that repeated queries on a
// grid whose obstacles change between calls avoid needless searches.
//
// The search itself is synchronous and single-threaded. Planner is not safe
// for concurrent use; SharedPlanner adds the locking for callers that need it.
package pathfinding

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gridpath/core"
	"gridpath/geometry"
	"gridpath/grid"
)

// Heuristic returns the estimated cost from a to b. Implementations must be
// admissible for the connectivity they are used with.
type Heuristic func(a, b core.Cell) float64

// HeuristicKind names one of the built-in heuristics.
type HeuristicKind int

const (
	// HeuristicAuto picks Manhattan for cardinal and Octile for octile grids.
	HeuristicAuto HeuristicKind = iota
	HeuristicManhattan
	HeuristicEuclidean
	HeuristicChebyshev
	HeuristicOctile
)

// String returns the name used by the CLI and scenario files.
func (k HeuristicKind) String() string {
	switch k {
	case HeuristicAuto:
		return "auto"
	case HeuristicManhattan:
		return "manhattan"
	case HeuristicEuclidean:
		return "euclidean"
	case HeuristicChebyshev:
		return "chebyshev"
	case HeuristicOctile:
		return "octile"
	default:
		return "unknown"
	}
}

// ParseHeuristic converts a name into a HeuristicKind.
func ParseHeuristic(s string) (HeuristicKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return HeuristicAuto, nil
	case "manhattan", "taxicab":
		return HeuristicManhattan, nil
	case "euclidean":
		return HeuristicEuclidean, nil
	case "chebyshev", "diagonal":
		return HeuristicChebyshev, nil
	case "octile":
		return HeuristicOctile, nil
	default:
		return HeuristicAuto, fmt.Errorf("unknown heuristic: %s", s)
	}
}

// Manhattan is |dx|+|dy|.
func Manhattan(a, b core.Cell) float64 {
	return float64(geometry.ManhattanDistance(a.X, a.Y, b.X, b.Y))
}

// Euclidean is the straight-line distance.
func Euclidean(a, b core.Cell) float64 {
	return geometry.EuclideanDistance(a.X, a.Y, b.X, b.Y)
}

// Chebyshev is max(|dx|,|dy|).
func Chebyshev(a, b core.Cell) float64 {
	return float64(geometry.ChebyshevDistance(a.X, a.Y, b.X, b.Y))
}

// Octile returns the octile distance for the given diagonal step cost.
func Octile(diagonal float64) Heuristic {
	return func(a, b core.Cell) float64 {
		return geometry.OctileDistance(a.X, a.Y, b.X, b.Y, diagonal)
	}
}

// Errors returned by option validation and the search loop.
var (
	// ErrInadmissibleHeuristic is returned when the configured heuristic can
	// overestimate the true cost under the configured connectivity.
	ErrInadmissibleHeuristic = errors.New("heuristic is not admissible for this configuration")

	// ErrSearchLimit is returned when a search expands more cells than
	// Options.MaxExpansions allows.
	ErrSearchLimit = errors.New("pathfinding exceeded expansion limit")
)

// Options configures a search.
type Options struct {
	Connectivity  core.Connectivity
	Heuristic     HeuristicKind
	DiagonalCost  float64 // Cost of one diagonal step; 0 means √2
	MaxExpansions int     // Safety limit on expanded cells; 0 means unlimited
	RecordVisited bool    // Keep the expansion order in Result.Visited
}

// DefaultOptions are cardinal moves with the Manhattan heuristic.
func DefaultOptions() Options {
	return Options{
		Connectivity: core.Cardinal,
		Heuristic:    HeuristicAuto,
		DiagonalCost: grid.DefaultDiagonalCost,
	}
}

// normalized fills in the defaults for zero values.
func (o Options) normalized() Options {
	if o.DiagonalCost == 0 {
		o.DiagonalCost = grid.DefaultDiagonalCost
	}
	if o.Heuristic == HeuristicAuto {
		if o.Connectivity == core.Octile {
			o.Heuristic = HeuristicOctile
		} else {
			o.Heuristic = HeuristicManhattan
		}
	}
	return o
}

// Validate rejects configurations that would break optimality.
func (o Options) Validate() error {
	o = o.normalized()
	if o.Connectivity != core.Cardinal && o.Connectivity != core.Octile {
		return fmt.Errorf("unknown connectivity %d", o.Connectivity)
	}
	if o.MaxExpansions < 0 {
		return fmt.Errorf("max expansions must not be negative, got %d", o.MaxExpansions)
	}
	// Below 1 a diagonal beats Chebyshev; above 2 the octile estimate
	// exceeds two straight steps.
	if o.Connectivity == core.Octile || o.Heuristic == HeuristicOctile {
		if o.DiagonalCost < 1 || o.DiagonalCost > 2 || math.IsNaN(o.DiagonalCost) {
			return fmt.Errorf("%w: diagonal cost %.4f outside [1, 2]", ErrInadmissibleHeuristic, o.DiagonalCost)
		}
	}
	if o.Connectivity == core.Cardinal {
		return nil
	}
	switch o.Heuristic {
	case HeuristicManhattan:
		return fmt.Errorf("%w: manhattan with octile connectivity", ErrInadmissibleHeuristic)
	case HeuristicEuclidean:
		if o.DiagonalCost < math.Sqrt2 {
			return fmt.Errorf("%w: euclidean needs diagonal cost >= √2, got %.4f", ErrInadmissibleHeuristic, o.DiagonalCost)
		}
	}
	return nil
}

// HeuristicFunc returns the heuristic selected by the options.
func (o Options) HeuristicFunc() Heuristic {
	o = o.normalized()
	switch o.Heuristic {
	case HeuristicEuclidean:
		return Euclidean
	case HeuristicChebyshev:
		return Chebyshev
	case HeuristicOctile:
		return Octile(o.DiagonalCost)
	default:
		return Manhattan
	}
}

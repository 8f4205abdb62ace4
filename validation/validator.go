// Package validation checks that a path is a legal route across a grid.
package validation

import (
	"errors"
	"fmt"

	"gridpath/core"
	"gridpath/geometry"
	"gridpath/grid"
)

// ErrInvalidPath is wrapped by the error Check returns.
var ErrInvalidPath = errors.New("invalid path")

// PathValidator validates paths against a grid and a connectivity rule.
// It collects every problem it finds, with the offending cell and index.
type PathValidator struct {
	errors []ValidationError
	// Options
	connectivity core.Connectivity
	diagonalCost float64
	checkCost    bool // Compare Path.Cost with the sum of step costs
}

// ValidationError represents a validation error with location information.
type ValidationError struct {
	Index   int // Position in the path, -1 for whole-path problems
	Cell    core.Cell
	Message string
}

func (e ValidationError) Error() string {
	if e.Index < 0 {
		return e.Message
	}
	return fmt.Sprintf("cell %d %s: %s", e.Index, e.Cell, e.Message)
}

// NewPathValidator creates a validator for the given connectivity with the
// default diagonal cost and cost checking enabled.
func NewPathValidator(conn core.Connectivity) *PathValidator {
	return &PathValidator{
		connectivity: conn,
		diagonalCost: grid.DefaultDiagonalCost,
		checkCost:    true,
	}
}

// SetDiagonalCost sets the cost expected for diagonal steps.
func (v *PathValidator) SetDiagonalCost(cost float64) {
	v.diagonalCost = cost
}

// SetCheckCost enables or disables the cost comparison.
func (v *PathValidator) SetCheckCost(check bool) {
	v.checkCost = check
}

// Validate reports every problem with path as a route from start to goal.
func (v *PathValidator) Validate(g *grid.Grid, path core.Path, start, goal core.Cell) []ValidationError {
	v.errors = nil
	v.walk(g, path, start, goal, false)
	return v.errors
}

// Check stops at the first problem. The replanning cache uses it to decide
// whether a cached path can still be trusted.
func (v *PathValidator) Check(g *grid.Grid, path core.Path, start, goal core.Cell) error {
	v.errors = nil
	v.walk(g, path, start, goal, true)
	if len(v.errors) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidPath, v.errors[0].Error())
	}
	return nil
}

func (v *PathValidator) walk(g *grid.Grid, path core.Path, start, goal core.Cell, stopEarly bool) {
	if path.IsEmpty() {
		v.addError(-1, core.Cell{}, "path is empty")
		return
	}
	if path.Start() != start {
		v.addError(0, path.Start(), "path does not begin at start %s", start)
		if stopEarly {
			return
		}
	}
	if path.Goal() != goal {
		v.addError(path.Length()-1, path.Goal(), "path does not end at goal %s", goal)
		if stopEarly {
			return
		}
	}

	total := 0.0
	for i, c := range path.Cells {
		if !g.InBounds(c) {
			v.addError(i, c, "cell is out of bounds")
		} else if g.IsObstacle(c) {
			v.addError(i, c, "cell is an obstacle")
		}
		if stopEarly && len(v.errors) > 0 {
			return
		}
		if i == 0 {
			continue
		}

		prev := path.Cells[i-1]
		if !v.connectivity.IsStep(prev, c) {
			v.addError(i, c, "%s -> %s is not a %s step", prev, c, v.connectivity)
		} else if prev.X != c.X && prev.Y != c.Y {
			// A diagonal step needs both orthogonal cells free.
			if !g.IsPassable(core.Cell{X: c.X, Y: prev.Y}) || !g.IsPassable(core.Cell{X: prev.X, Y: c.Y}) {
				v.addError(i, c, "%s -> %s cuts a blocked corner", prev, c)
			}
		}
		if stopEarly && len(v.errors) > 0 {
			return
		}
		total += grid.StepCost(prev, c, v.diagonalCost)
	}

	if v.checkCost && !geometry.AlmostEqual(total, path.Cost) {
		v.addError(-1, core.Cell{}, "path cost %.6f does not match step sum %.6f", path.Cost, total)
	}
}

func (v *PathValidator) addError(index int, c core.Cell, format string, args ...any) {
	v.errors = append(v.errors, ValidationError{
		Index:   index,
		Cell:    c,
		Message: fmt.Sprintf(format, args...),
	})
}

// PathCost sums the step costs along cells.
func PathCost(cells []core.Cell, diagonal float64) float64 {
	total := 0.0
	for i := 1; i < len(cells); i++ {
		total += grid.StepCost(cells[i-1], cells[i], diagonal)
	}
	return total
}

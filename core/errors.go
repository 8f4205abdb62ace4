package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for grid and search operations.
var (
	// ErrOutOfBounds is returned when a coordinate lies outside the grid
	// extents. Coordinates are never clamped.
	ErrOutOfBounds = errors.New("position out of bounds")

	// ErrInvalidSize is returned when a grid is built with a non-positive
	// dimension or from a ragged occupancy matrix.
	ErrInvalidSize = errors.New("invalid grid size")

	// ErrInvalidEndpoint is returned when the start or goal of a query is out
	// of bounds or sits on an obstacle. It is reported before any expansion.
	ErrInvalidEndpoint = errors.New("invalid endpoint")

	// ErrInvalidStart narrows ErrInvalidEndpoint to the start cell.
	ErrInvalidStart = errors.New("invalid start")

	// ErrInvalidGoal narrows ErrInvalidEndpoint to the goal cell.
	ErrInvalidGoal = errors.New("invalid goal")
)

// EndpointError describes why a start or goal cell was rejected. It matches
// ErrInvalidEndpoint, the role-specific sentinel and, when relevant,
// ErrOutOfBounds under errors.Is.
type EndpointError struct {
	Role   string // "start" or "goal"
	Cell   Cell
	Reason error
}

// NewEndpointError builds an EndpointError for the given role.
func NewEndpointError(role string, c Cell, reason error) *EndpointError {
	return &EndpointError{Role: role, Cell: c, Reason: reason}
}

func (e *EndpointError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Role, e.Cell, e.Reason)
}

// Unwrap exposes the sentinel chain to errors.Is.
func (e *EndpointError) Unwrap() []error {
	errs := []error{ErrInvalidEndpoint}
	switch e.Role {
	case "start":
		errs = append(errs, ErrInvalidStart)
	case "goal":
		errs = append(errs, ErrInvalidGoal)
	}
	if e.Reason != nil {
		errs = append(errs, e.Reason)
	}
	return errs
}

// ErrBlocked is the reason attached to an endpoint that sits on an obstacle.
var ErrBlocked = errors.New("cell is an obstacle")

package ramp

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
)

// errRampInfeasible is returned when no profile satisfies the boundary
// conditions under the given caps. This is an expected negative result:
// shortcut candidates routinely fail to solve and are simply discarded.
var errRampInfeasible = errors.New("no feasible velocity profile for boundary conditions")

// errInvalidLimits is returned for non-positive or non-finite caps.
var errInvalidLimits = errors.New("velocity and acceleration limits must be positive and finite")

func newDimensionError(want int) error {
	return pkgerrors.Errorf("boundary state and limit vectors must all have dimension %d", want)
}

// IsInfeasible reports whether err indicates an infeasible boundary-value
// problem rather than malformed input.
func IsInfeasible(err error) bool {
	return errors.Is(err, errRampInfeasible)
}

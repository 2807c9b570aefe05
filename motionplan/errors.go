package motionplan

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
)

var (
	errNoLimits            = errors.New("at least one configuration-space limit is required")
	errInvertedLimit       = errors.New("configuration-space limits must have min <= max")
	errEndpointInCollision = errors.New("planning endpoint is in collision")
)

// NewPlannerFailedError is returned when a planner exhausts its iteration
// budget without connecting start to goal.
func NewPlannerFailedError() error {
	return errors.New("motion planner failed to find path")
}

func newDimensionError(want int) error {
	return pkgerrors.Errorf("configuration does not match planner dimension %d", want)
}

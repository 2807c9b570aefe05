package trajectory

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
)

var (
	errTooFewKnots     = errors.New("a curve requires at least two knots")
	errTooFewWaypoints = errors.New("a path requires at least two waypoints")
	errZeroDimension   = errors.New("knot samples must have at least one dimension")
	errDegeneratePath  = errors.New("all waypoints are identical; nothing to retime")
)

func newKnotCountError(times, positions, velocities int) error {
	return pkgerrors.Errorf(
		"knot count mismatch: %d times, %d positions, %d velocities", times, positions, velocities)
}

func newDimensionMismatchError(index, want int) error {
	return pkgerrors.Errorf("sample %d does not match dimension %d", index, want)
}

func newNonIncreasingTimesError(index int) error {
	return pkgerrors.Errorf("knot times must be strictly increasing at index %d", index)
}

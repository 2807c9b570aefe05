package shortcut

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
)

var (
	errNilCurve            = errors.New("cannot smooth a nil curve")
	errNegativeImprovement = errors.New("minimum improvement threshold must be positive")
)

func newCapDimensionError(dim int) error {
	return pkgerrors.Errorf("velocity and acceleration caps must have the curve's dimension %d", dim)
}

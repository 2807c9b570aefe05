// Package trajectory provides time-parameterized configuration-space
// curves: piecewise cubic interpolants with continuous position and
// velocity at knots, plus limit checking, discretization, and waypoint
// retiming.
package trajectory

import (
	"math"
	"sort"

	"go.uber.org/multierr"
)

// segCoeffs holds the local cubic coefficients for one dimension of one
// segment: p(tau) = a + b*tau + c*tau^2 + d*tau^3 with tau seconds past the
// segment's starting knot.
type segCoeffs struct {
	a, b, c, d float64
}

// Curve is a time-parameterized configuration-space trajectory: strictly
// increasing knot times, a position and velocity sample per knot, and a
// cubic Hermite interpolant per segment. Position and velocity are
// continuous everywhere; acceleration may jump at knots. A Curve is
// immutable once built: all accessors return copies, and updates construct
// new Curve values.
type Curve struct {
	times      []float64
	positions  [][]float64
	velocities [][]float64
	coeffs     [][]segCoeffs // [segment][dimension]
}

// NewCurve builds a curve through the given knots. Times must be strictly
// increasing, at least two knots are required, and every position and
// velocity sample must share one dimensionality. Violations are reported as
// invalid-input errors, never silently tolerated.
func NewCurve(times []float64, positions, velocities [][]float64) (*Curve, error) {
	var err error
	if len(times) < 2 {
		err = multierr.Append(err, errTooFewKnots)
	}
	if len(positions) != len(times) || len(velocities) != len(times) {
		err = multierr.Append(err, newKnotCountError(len(times), len(positions), len(velocities)))
	}
	if err != nil {
		return nil, err
	}
	dim := len(positions[0])
	for i := range times {
		if len(positions[i]) != dim || len(velocities[i]) != dim {
			err = multierr.Append(err, newDimensionMismatchError(i, dim))
		}
		if i > 0 && times[i] <= times[i-1] {
			err = multierr.Append(err, newNonIncreasingTimesError(i))
		}
	}
	if dim == 0 {
		err = multierr.Append(err, errZeroDimension)
	}
	if err != nil {
		return nil, err
	}

	c := &Curve{
		times:      append([]float64(nil), times...),
		positions:  copyVectors(positions),
		velocities: copyVectors(velocities),
		coeffs:     make([][]segCoeffs, len(times)-1),
	}
	for s := 0; s < len(times)-1; s++ {
		h := c.times[s+1] - c.times[s]
		c.coeffs[s] = make([]segCoeffs, dim)
		for j := 0; j < dim; j++ {
			p0, p1 := c.positions[s][j], c.positions[s+1][j]
			v0, v1 := c.velocities[s][j], c.velocities[s+1][j]
			dp := p1 - p0
			c.coeffs[s][j] = segCoeffs{
				a: p0,
				b: v0,
				c: 3*dp/(h*h) - (2*v0+v1)/h,
				d: -2*dp/(h*h*h) + (v0+v1)/(h*h),
			}
		}
	}
	return c, nil
}

// Dim returns the configuration-space dimensionality.
func (c *Curve) Dim() int {
	return len(c.positions[0])
}

// StartTime returns the first knot time.
func (c *Curve) StartTime() float64 {
	return c.times[0]
}

// EndTime returns the last knot time.
func (c *Curve) EndTime() float64 {
	return c.times[len(c.times)-1]
}

// Duration returns the total time spanned by the curve, the primary
// objective minimized by shortcutting.
func (c *Curve) Duration() float64 {
	return c.EndTime() - c.StartTime()
}

// Knots returns a copy of the knot times.
func (c *Curve) Knots() []float64 {
	return append([]float64(nil), c.times...)
}

// KnotPositions returns a copy of the per-knot position samples.
func (c *Curve) KnotPositions() [][]float64 {
	return copyVectors(c.positions)
}

// KnotVelocities returns a copy of the per-knot velocity samples.
func (c *Curve) KnotVelocities() [][]float64 {
	return copyVectors(c.velocities)
}

// Position evaluates the curve position at time t, clamped to the curve's
// time span.
func (c *Curve) Position(t float64) []float64 {
	s, tau := c.segment(t)
	q := make([]float64, c.Dim())
	for j, sc := range c.coeffs[s] {
		q[j] = sc.a + tau*(sc.b+tau*(sc.c+tau*sc.d))
	}
	return q
}

// Velocity evaluates the curve velocity at time t, clamped to the curve's
// time span.
func (c *Curve) Velocity(t float64) []float64 {
	s, tau := c.segment(t)
	v := make([]float64, c.Dim())
	for j, sc := range c.coeffs[s] {
		v[j] = sc.b + tau*(2*sc.c+tau*3*sc.d)
	}
	return v
}

// Acceleration evaluates the curve acceleration at time t, clamped to the
// curve's time span. At knots the value is the right-sided limit.
func (c *Curve) Acceleration(t float64) []float64 {
	s, tau := c.segment(t)
	a := make([]float64, c.Dim())
	for j, sc := range c.coeffs[s] {
		a[j] = 2*sc.c + 6*sc.d*tau
	}
	return a
}

// segment returns the index of the segment containing t and the offset of
// t past that segment's starting knot, clamping t to the curve's span.
func (c *Curve) segment(t float64) (int, float64) {
	t = math.Min(math.Max(t, c.StartTime()), c.EndTime())
	// Greatest knot index with time <= t, capped at the final segment.
	i := sort.SearchFloat64s(c.times, t)
	if i == len(c.times) || c.times[i] > t {
		i--
	}
	if i >= len(c.coeffs) {
		i = len(c.coeffs) - 1
	}
	return i, t - c.times[i]
}

func copyVectors(vs [][]float64) [][]float64 {
	out := make([][]float64, len(vs))
	for i, v := range vs {
		out[i] = append([]float64(nil), v...)
	}
	return out
}

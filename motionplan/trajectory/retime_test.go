package trajectory

import (
	"testing"

	"go.viam.com/test"
)

func TestRetime(t *testing.T) {
	// One trapezoidal segment per dimension: T = d/v + v/a = 3.
	c, err := Retime([][]float64{{0, 0}, {2, 2}}, []float64{1, 1}, []float64{1, 1})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, c.Duration(), test.ShouldAlmostEqual, 3., 1e-9)
	test.That(t, c.Position(0), test.ShouldResemble, []float64{0, 0})
	end := c.Position(c.EndTime())
	test.That(t, end[0], test.ShouldAlmostEqual, 2., 1e-9)
	test.That(t, end[1], test.ShouldAlmostEqual, 2., 1e-9)

	// Rest at the waypoints.
	v := c.Velocity(c.EndTime())
	test.That(t, v[0], test.ShouldAlmostEqual, 0., 1e-9)
	test.That(t, v[1], test.ShouldAlmostEqual, 0., 1e-9)

	// Ramp breakpoints become knots, so the interpolant reproduces the
	// parabolic profile and stays within both caps.
	knots := c.Knots()
	test.That(t, len(knots), test.ShouldEqual, 4)
	test.That(t, knots[1], test.ShouldAlmostEqual, 1., 1e-9)
	test.That(t, knots[2], test.ShouldAlmostEqual, 2., 1e-9)
	test.That(t, CheckBounds(c, []float64{1, 1}, []float64{1, 1}, c.StartTime(), c.EndTime()), test.ShouldBeTrue)
	// Cruising at the cap through the middle.
	test.That(t, c.Velocity(1.5)[0], test.ShouldAlmostEqual, 1., 1e-9)
}

func TestRetimeMultiSegment(t *testing.T) {
	// An out-and-back path must come to rest at the turnaround.
	c, err := Retime([][]float64{{0}, {1}, {0}}, []float64{10}, []float64{1})
	test.That(t, err, test.ShouldBeNil)
	// Each leg is a two-second triangular transfer.
	test.That(t, c.Duration(), test.ShouldAlmostEqual, 4., 1e-9)
	test.That(t, c.Position(2.)[0], test.ShouldAlmostEqual, 1., 1e-9)
	test.That(t, c.Velocity(2.)[0], test.ShouldAlmostEqual, 0., 1e-9)
	test.That(t, c.Position(4.)[0], test.ShouldAlmostEqual, 0., 1e-9)
}

func TestRetimeDuplicateWaypoints(t *testing.T) {
	// Consecutive duplicates are skipped rather than producing a
	// zero-length segment.
	c, err := Retime([][]float64{{0}, {0}, {1}}, []float64{10}, []float64{1})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, c.Duration(), test.ShouldAlmostEqual, 2., 1e-9)

	// A path with no net motion cannot be timed.
	_, err = Retime([][]float64{{1}, {1}}, []float64{10}, []float64{1})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestRetimeValidation(t *testing.T) {
	_, err := Retime([][]float64{{0}}, []float64{1}, []float64{1})
	test.That(t, err, test.ShouldNotBeNil)

	_, err = Retime([][]float64{{0}, {1, 2}}, []float64{1}, []float64{1})
	test.That(t, err, test.ShouldNotBeNil)

	_, err = Retime([][]float64{{0}, {1}}, []float64{-1}, []float64{1})
	test.That(t, err, test.ShouldNotBeNil)
}

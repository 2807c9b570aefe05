package shortcut

import (
	"math/rand"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"go.viam.com/test"

	"go.viam.com/trajplan/motionplan/trajectory"
)

// rectObstacle returns a collision predicate for a rectangular obstacle
// between the detour's endpoints, grown outward by margin on all sides.
func rectObstacle(margin float64) CollisionFunc {
	return func(q []float64) bool {
		return q[0] > 0.8-margin && q[0] < 2.2+margin &&
			q[1] > -0.75-margin && q[1] < 0.75+margin
	}
}

// detourScenario is a planar detour around a rectangular obstacle: the
// straight line from start to goal is blocked, so the input path climbs
// over the top and the smoother can cut the corners.
func detourScenario(t *testing.T) (*trajectory.Curve, []float64, []float64, CollisionFunc) {
	t.Helper()
	vmax := []float64{2, 2}
	amax := []float64{4, 4}
	waypoints := [][]float64{{0, 0}, {1, 1.5}, {2, 1.5}, {3, 0}}
	curve, err := trajectory.Retime(waypoints, vmax, amax)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, curve.Duration(), test.ShouldAlmostEqual, 3.5, 1e-9)
	return curve, vmax, amax, rectObstacle(0)
}

func TestSmoothImprovesDetour(t *testing.T) {
	curve, vmax, amax, inRect := detourScenario(t)

	// Smooth against the obstacle grown by more than the worst-case
	// between-sample excursion (check resolution times vmax), so the true
	// obstacle is avoided continuously, not just at check samples.
	inflated := rectObstacle(0.05)
	opts := NewBasicOptions()
	//nolint:gosec
	opts.RandSeed = rand.New(rand.NewSource(42))
	out, err := Smooth(curve, vmax, amax, inflated, opts)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.Duration(), test.ShouldBeLessThan, curve.Duration())

	// Endpoints are preserved.
	outStart := out.Position(out.StartTime())
	outEnd := out.Position(out.EndTime())
	test.That(t, outStart[0], test.ShouldAlmostEqual, 0., 1e-9)
	test.That(t, outStart[1], test.ShouldAlmostEqual, 0., 1e-9)
	test.That(t, outEnd[0], test.ShouldAlmostEqual, 3., 1e-9)
	test.That(t, outEnd[1], test.ShouldAlmostEqual, 0., 1e-9)

	// Replacements are exact ramp profiles, so the accepted curve respects
	// both caps even though only velocity is re-checked.
	test.That(t, trajectory.CheckBounds(out, vmax, amax, out.StartTime(), out.EndTime()), test.ShouldBeTrue)

	// Clear of the true obstacle at the check resolution and finer ones.
	for _, step := range []float64{0.01, 0.003} {
		for _, sample := range trajectory.Discretize(out, step, out.StartTime(), out.EndTime()) {
			test.That(t, inRect(sample.Q), test.ShouldBeFalse)
		}
	}

	// Knot times stay strictly increasing through every splice.
	knots := out.Knots()
	for i := 1; i < len(knots); i++ {
		test.That(t, knots[i], test.ShouldBeGreaterThan, knots[i-1])
	}
}

func TestSmoothExactRampRefit(t *testing.T) {
	curve, vmax, amax, inRect := detourScenario(t)

	opts := NewBasicOptions()
	//nolint:gosec
	opts.RandSeed = rand.New(rand.NewSource(42))
	opts.RefitMethod = ExactRampRefit
	out, err := Smooth(curve, vmax, amax, inRect, opts)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.Duration(), test.ShouldBeLessThan, curve.Duration())
	test.That(t, trajectory.CheckBounds(out, vmax, amax, out.StartTime(), out.EndTime()), test.ShouldBeTrue)
	for _, sample := range trajectory.Discretize(out, 0.01, out.StartTime(), out.EndTime()) {
		test.That(t, inRect(sample.Q), test.ShouldBeFalse)
	}
}

func TestSmoothZeroBudget(t *testing.T) {
	curve, vmax, amax, inRect := detourScenario(t)

	// A zero iteration budget returns the input curve itself.
	out, err := Smooth(curve, vmax, amax, inRect, &Options{MaxIterations: 0})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldEqual, curve)
}

func TestSmoothTimeBudget(t *testing.T) {
	curve, vmax, amax, _ := detourScenario(t)

	// The collision predicate advances a mock clock, so the budget is
	// already spent when the first iteration checks it.
	mock := clock.NewMock()
	collides := func(q []float64) bool {
		mock.Add(time.Millisecond)
		return false
	}
	opts := NewBasicOptions()
	opts.MaxTime = time.Nanosecond
	opts.Clock = mock
	out, err := Smooth(curve, vmax, amax, collides, opts)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldEqual, curve)
}

func TestSmoothInfeasibleInput(t *testing.T) {
	// A rest-to-rest cubic over unit time peaks at 1.5x average velocity,
	// violating the cap; the smoother hands such a curve straight back.
	curve, err := trajectory.NewCurve(
		[]float64{0, 1},
		[][]float64{{0}, {1}},
		[][]float64{{0}, {0}},
	)
	test.That(t, err, test.ShouldBeNil)
	out, err := Smooth(curve, []float64{1}, []float64{100}, nil, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldEqual, curve)
}

func TestSmoothLogsAcceptedShortcuts(t *testing.T) {
	curve, vmax, amax, inRect := detourScenario(t)

	core, logs := observer.New(zap.DebugLevel)
	opts := NewBasicOptions()
	//nolint:gosec
	opts.RandSeed = rand.New(rand.NewSource(42))
	opts.Logger = zap.New(core).Sugar()
	out, err := Smooth(curve, vmax, amax, inRect, opts)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.Duration(), test.ShouldBeLessThan, curve.Duration())
	test.That(t, logs.FilterMessageSnippet("accepted shortcut").Len(), test.ShouldBeGreaterThan, 0)
	test.That(t, logs.FilterMessageSnippet("shortcutting done").Len(), test.ShouldEqual, 1)
}

func TestSmoothValidation(t *testing.T) {
	curve, vmax, amax, _ := detourScenario(t)

	_, err := Smooth(nil, vmax, amax, nil, nil)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = Smooth(curve, []float64{1}, amax, nil, nil)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = Smooth(curve, vmax, amax, nil, &Options{MinImprovement: -1})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestCheckerFeasibility(t *testing.T) {
	curve, vmax, amax, inRect := detourScenario(t)

	ck := NewChecker(vmax, amax, inRect, 0.01)
	test.That(t, ck.Feasible(curve), test.ShouldBeTrue)
	test.That(t, ck.Feasible(nil), test.ShouldBeFalse)

	// A predicate that forbids the detour's upper shelf makes it infeasible.
	above := func(q []float64) bool { return q[1] > 1.4 }
	test.That(t, NewChecker(vmax, amax, above, 0.01).Feasible(curve), test.ShouldBeFalse)

	// Sub-interval checks only examine the window they are given.
	test.That(t, NewChecker(vmax, amax, above, 0.01).FeasibleBetween(curve, 0, 0.2), test.ShouldBeTrue)
}

func TestOutcomeString(t *testing.T) {
	test.That(t, Accepted.String(), test.ShouldEqual, "accepted")
	test.That(t, RejectedLowerBound.String(), test.ShouldNotBeEmpty)
}

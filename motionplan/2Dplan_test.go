package motionplan

import (
	"context"
	"testing"

	"github.com/edaniels/golog"
	"go.viam.com/test"

	"go.viam.com/trajplan/motionplan/shortcut"
	"go.viam.com/trajplan/motionplan/trajectory"
)

// A planar world with a wall jutting up from the floor between start and
// goal, so every solution must climb over the top.
var (
	planLimits = []Limit{{Min: -1, Max: 4}, {Min: -1, Max: 3}}
	planStart  = []float64{0, 0}
	planGoal   = []float64{3, 0}
)

func planCollides(q []float64) bool {
	return q[0] > 0.95 && q[0] < 2.05 && q[1] < 1.45
}

type plannerConstructor func([]Limit, CollisionFunc, golog.Logger, *PlannerOptions) (Planner, error)

var plannerConstructors = []struct {
	name string
	ctor plannerConstructor
}{
	{"rrt", NewRRTMotionPlanner},
	{"rrtconnect", NewRRTConnectMotionPlanner},
	{"rrtstar", NewRRTStarMotionPlanner},
	{"prm", NewPRMMotionPlanner},
	{"lattice", NewLatticeMotionPlanner},
}

// checkValidPath asserts a path solves the planar problem: correct endpoints,
// every waypoint in bounds and collision-free, and every edge collision-free
// when densely interpolated.
func checkValidPath(t *testing.T, path Path) {
	t.Helper()
	test.That(t, len(path), test.ShouldBeGreaterThanOrEqualTo, 2)
	test.That(t, path[0], test.ShouldResemble, planStart)
	test.That(t, path[len(path)-1], test.ShouldResemble, planGoal)
	for _, q := range path {
		test.That(t, len(q), test.ShouldEqual, len(planLimits))
		for i, l := range planLimits {
			test.That(t, q[i], test.ShouldBeGreaterThanOrEqualTo, l.Min)
			test.That(t, q[i], test.ShouldBeLessThanOrEqualTo, l.Max)
		}
		test.That(t, planCollides(q), test.ShouldBeFalse)
	}
	for i := 1; i < len(path); i++ {
		for f := 0.; f <= 1.; f += 0.01 {
			test.That(t, planCollides(interpolateConfigurations(path[i-1], path[i], f)), test.ShouldBeFalse)
		}
	}
}

func TestPlan2D(t *testing.T) {
	for _, entry := range plannerConstructors {
		t.Run(entry.name, func(t *testing.T) {
			logger := golog.NewTestLogger(t)
			mp, err := entry.ctor(planLimits, planCollides, logger, nil)
			test.That(t, err, test.ShouldBeNil)
			path, err := mp.Plan(context.Background(), planStart, planGoal)
			test.That(t, err, test.ShouldBeNil)
			checkValidPath(t, path)
		})
	}
}

func TestPlanEndpointValidation(t *testing.T) {
	logger := golog.NewTestLogger(t)
	mp, err := NewRRTMotionPlanner(planLimits, planCollides, logger, nil)
	test.That(t, err, test.ShouldBeNil)

	// A colliding endpoint is rejected before planning starts.
	_, err = mp.Plan(context.Background(), []float64{1.5, 0}, planGoal)
	test.That(t, err, test.ShouldNotBeNil)

	// So is a configuration of the wrong dimension.
	_, err = mp.Plan(context.Background(), []float64{0}, planGoal)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestPlanContextCancellation(t *testing.T) {
	logger := golog.NewTestLogger(t)
	mp, err := NewRRTConnectMotionPlanner(planLimits, planCollides, logger, nil)
	test.That(t, err, test.ShouldBeNil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = mp.Plan(ctx, planStart, planGoal)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestLatticeOffGridEndpoints(t *testing.T) {
	logger := golog.NewTestLogger(t)
	// A thin slab sits between the off-grid start and its cell center, so
	// the stitch edge collides and no collision-free path exists.
	slab := func(q []float64) bool { return q[0] > 0.06 && q[0] < 0.09 }
	mp, err := NewLatticeMotionPlanner([]Limit{{Min: -1, Max: 1}}, slab, logger, nil)
	test.That(t, err, test.ShouldBeNil)
	_, err = mp.Plan(context.Background(), []float64{0.05}, []float64{0.5})
	test.That(t, err, test.ShouldNotBeNil)

	// With the slab gone the same off-grid endpoints plan fine.
	mp, err = NewLatticeMotionPlanner([]Limit{{Min: -1, Max: 1}}, nil, logger, nil)
	test.That(t, err, test.ShouldBeNil)
	path, err := mp.Plan(context.Background(), []float64{0.05}, []float64{0.5})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, path[0], test.ShouldResemble, []float64{0.05})
	test.That(t, path[len(path)-1], test.ShouldResemble, []float64{0.5})
}

func TestPlannerConstruction(t *testing.T) {
	logger := golog.NewTestLogger(t)

	_, err := NewRRTMotionPlanner(nil, planCollides, logger, nil)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = NewPRMMotionPlanner([]Limit{{Min: 1, Max: 0}}, planCollides, logger, nil)
	test.That(t, err, test.ShouldNotBeNil)
}

// TestPlanAndSmooth runs the full pipeline: plan a waypoint path, strip
// redundant waypoints, retime it into a timed curve, and shortcut it.
func TestPlanAndSmooth(t *testing.T) {
	logger := golog.NewTestLogger(t)
	mp, err := NewRRTConnectMotionPlanner(planLimits, planCollides, logger, nil)
	test.That(t, err, test.ShouldBeNil)
	path, err := mp.Plan(context.Background(), planStart, planGoal)
	test.That(t, err, test.ShouldBeNil)

	reduced := ReduceRedundant(path)
	test.That(t, len(reduced), test.ShouldBeLessThanOrEqualTo, len(path))
	checkValidPath(t, reduced)

	vmax := []float64{1, 1}
	amax := []float64{2, 2}
	curve, err := trajectory.Retime(reduced, vmax, amax)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, curve.Position(curve.StartTime()), test.ShouldResemble, planStart)
	retimedEnd := curve.Position(curve.EndTime())
	test.That(t, retimedEnd[0], test.ShouldAlmostEqual, planGoal[0], 1e-9)
	test.That(t, retimedEnd[1], test.ShouldAlmostEqual, planGoal[1], 1e-9)
	test.That(t, trajectory.CheckBounds(curve, vmax, amax, curve.StartTime(), curve.EndTime()), test.ShouldBeTrue)

	smoothed, err := shortcut.Smooth(curve, vmax, amax, planCollides, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, smoothed.Duration(), test.ShouldBeLessThanOrEqualTo, curve.Duration())
	test.That(t, smoothed.Position(smoothed.StartTime()), test.ShouldResemble, planStart)
	end := smoothed.Position(smoothed.EndTime())
	test.That(t, end[0], test.ShouldAlmostEqual, planGoal[0], 1e-9)
	test.That(t, end[1], test.ShouldAlmostEqual, planGoal[1], 1e-9)
	test.That(t, trajectory.CheckBounds(smoothed, vmax, amax, smoothed.StartTime(), smoothed.EndTime()), test.ShouldBeTrue)
}

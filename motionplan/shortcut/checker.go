package shortcut

import (
	"go.viam.com/trajplan/motionplan/trajectory"
)

// CollisionFunc reports whether a configuration is in collision. It is
// supplied by the caller, may be arbitrarily expensive, and is assumed to
// be free of side effects.
type CollisionFunc func(q []float64) bool

// Checker bundles a configuration collision predicate and kinodynamic caps
// into a single feasibility test over a curve or sub-interval. Collision
// checking samples the curve at a fixed time resolution, so a coarse
// resolution may miss thin obstacles between samples; that is an accepted
// approximation, not a defect. Given a fixed resolution the test is
// deterministic.
type Checker struct {
	vmax, amax []float64
	collides   CollisionFunc
	resolution float64
}

// NewChecker returns a Checker for the given caps, collision predicate, and
// sampling resolution. Nil cap slices skip the corresponding bound check;
// a nil predicate skips collision checking; a non-positive resolution falls
// back to trajectory.DefaultStep.
func NewChecker(vmax, amax []float64, collides CollisionFunc, resolution float64) *Checker {
	if !(resolution > 0) {
		resolution = trajectory.DefaultStep
	}
	return &Checker{vmax: vmax, amax: amax, collides: collides, resolution: resolution}
}

// Feasible reports whether the whole curve respects the caps and is
// collision-free. A nil curve is infeasible.
func (ck *Checker) Feasible(c *trajectory.Curve) bool {
	if c == nil {
		return false
	}
	return ck.FeasibleBetween(c, c.StartTime(), c.EndTime())
}

// FeasibleBetween is Feasible restricted to [start, end].
func (ck *Checker) FeasibleBetween(c *trajectory.Curve, start, end float64) bool {
	if c == nil {
		return false
	}
	if !trajectory.CheckBounds(c, ck.vmax, ck.amax, start, end) {
		return false
	}
	if ck.collides == nil {
		return true
	}
	for _, sample := range trajectory.Discretize(c, ck.resolution, start, end) {
		if ck.collides(sample.Q) {
			return false
		}
	}
	return true
}

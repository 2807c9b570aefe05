// Package shortcut implements anytime randomized trajectory shortcutting:
// repeatedly sample a window of the current timed curve, solve a faster
// boundary-value transfer across it, splice the result in, refit the whole
// curve, and accept only strict, globally re-verified improvements. The
// accepted-curve sequence therefore has non-increasing duration and never
// loses feasibility.
package shortcut

import (
	"math/rand"
	"sort"

	"go.viam.com/trajplan/motionplan/ramp"
	"go.viam.com/trajplan/motionplan/trajectory"
)

// Knot times closer together than this are merged during splicing to keep
// the time vector strictly increasing.
const knotEpsilon = 1e-9

type smoother struct {
	vmax, amax []float64
	checker    *Checker
	randseed   *rand.Rand
	opts       Options
}

// Smooth locally optimizes a feasible timed curve under per-dimension
// velocity and acceleration caps, returning a curve whose duration is never
// greater than the input's. An infeasible input curve is returned unchanged:
// the smoother improves feasible curves, it does not repair broken ones.
// The only error condition is malformed input; solver failures, refit
// regressions, and budget exhaustion are all normal non-error outcomes.
func Smooth(
	curve *trajectory.Curve,
	vmax, amax []float64,
	collides CollisionFunc,
	opts *Options,
) (*trajectory.Curve, error) {
	if curve == nil {
		return nil, errNilCurve
	}
	if opts == nil {
		opts = NewBasicOptions()
	}
	filled := opts.withDefaults()
	if filled.MinImprovement < 0 {
		return nil, errNegativeImprovement
	}
	if len(vmax) != curve.Dim() || len(amax) != curve.Dim() {
		return nil, newCapDimensionError(curve.Dim())
	}

	s := &smoother{
		vmax: vmax,
		amax: amax,
		// Acceleration caps are enforced by ramp construction rather
		// than post-checked: a cubic refit of a minimum-time ramp
		// necessarily brushes the acceleration cap, so checking it
		// here would reject every candidate.
		checker:  NewChecker(vmax, nil, collides, filled.CheckResolution),
		randseed: filled.RandSeed,
		opts:     filled,
	}

	logger := filled.Logger
	startTime := filled.Clock.Now()
	if !s.checker.Feasible(curve) {
		logger.Debug("input curve is infeasible; returning it unchanged")
		return curve, nil
	}

	current := curve
	var counts [numOutcomes]int
	for i := 0; i < filled.MaxIterations; i++ {
		if filled.MaxTime > 0 && filled.Clock.Since(startTime) >= filled.MaxTime {
			break
		}
		next, outcome := s.attempt(current)
		counts[outcome]++
		if outcome == Accepted {
			logger.Debugf("iteration %d: accepted shortcut, duration %.4f -> %.4f",
				i, current.Duration(), next.Duration())
			current = next
		}
	}
	logger.Debugf("shortcutting done: duration %.4f -> %.4f (accepted %d of %d attempts)",
		curve.Duration(), current.Duration(), counts[Accepted], s.total(counts))
	return current, nil
}

func (s *smoother) total(counts [numOutcomes]int) int {
	n := 0
	for _, c := range counts {
		n += c
	}
	return n
}

// attempt runs one shortcut iteration against the current curve and returns
// the accepted replacement curve, or the current curve with the rejection
// reason. It never mutates its input: acceptance is a wholesale reference
// swap by the caller.
func (s *smoother) attempt(cur *trajectory.Curve) (*trajectory.Curve, Outcome) {
	times := cur.Knots()
	first, last := times[0], times[len(times)-1]

	t1 := first + s.randseed.Float64()*(last-first)
	t2 := first + s.randseed.Float64()*(last-first)
	if t1 > t2 {
		t1, t2 = t2, t1
	}

	// i1: greatest knot index at or before t1; i2: least at or after t2.
	i1 := sort.SearchFloat64s(times, t1)
	if i1 == len(times) || times[i1] > t1 {
		i1--
	}
	i2 := sort.SearchFloat64s(times, t2)
	if i2 == len(times) {
		i2--
	}
	if i1 == i2 {
		return cur, RejectedNarrowSpan
	}

	x1, v1 := cur.Position(t1), cur.Velocity(t1)
	x2, v2 := cur.Position(t2), cur.Velocity(t2)

	// Prune with the cheap bound before invoking the solver.
	available := (t2 - t1) - s.opts.MinImprovement
	if ramp.LowerBound(x1, x2, v1, v2, s.vmax, s.amax) >= available {
		return cur, RejectedLowerBound
	}
	prof, err := ramp.Solve(x1, x2, v1, v2, s.vmax, s.amax)
	if err != nil {
		return cur, RejectedSolverFailure
	}
	if prof.Duration() >= available {
		return cur, RejectedNoGain
	}

	newTimes, newPos, newVel, ok := s.splice(cur, times, i1, i2, t1, t2, prof)
	if !ok {
		return cur, RejectedNarrowSpan
	}

	var refit *trajectory.Curve
	switch s.opts.RefitMethod {
	case ExactRampRefit:
		refit, err = s.exactRefit(newTimes, newPos, newVel)
	default:
		refit, err = trajectory.NewCurve(newTimes, newPos, newVel)
	}
	if err != nil {
		return cur, RejectedRefitFailure
	}
	if refit.Duration() >= cur.Duration() {
		return cur, RejectedRegression
	}
	// Re-verify the WHOLE curve: a global refit through new knots can
	// reintroduce cap violations or collisions far from the splice.
	if !s.checker.Feasible(refit) {
		return cur, RejectedInfeasible
	}
	return refit, Accepted
}

// splice assembles the knot sequence of the candidate curve: the untouched
// leading knots, the boundary state at t1, the replacement profile's knots,
// the boundary state at t2 (as the profile's endpoint), and the trailing
// knots shifted earlier by the saved duration. Degenerate slivers at the
// seams are merged. Returns ok=false if merging degenerates the sequence.
func (s *smoother) splice(
	cur *trajectory.Curve,
	times []float64,
	i1, i2 int,
	t1, t2 float64,
	prof *ramp.MultiProfile,
) ([]float64, [][]float64, [][]float64, bool) {
	knotPos := cur.KnotPositions()
	knotVel := cur.KnotVelocities()

	newTimes := append([]float64(nil), times[:i1+1]...)
	newPos := append([][]float64(nil), knotPos[:i1+1]...)
	newVel := append([][]float64(nil), knotVel[:i1+1]...)

	// Seam before the replacement.
	startT := newTimes[len(newTimes)-1]
	if t1-startT > knotEpsilon {
		newTimes = append(newTimes, t1)
		newPos = append(newPos, cur.Position(t1))
		newVel = append(newVel, cur.Velocity(t1))
		startT = t1
	}

	// Replacement knots; interior breakpoints only when expanding.
	breaks := prof.Breakpoints()
	if s.opts.ExpandIntermediateKnots && len(breaks) > 2 {
		for _, bt := range breaks[1 : len(breaks)-1] {
			newTimes = append(newTimes, startT+bt)
			newPos = append(newPos, prof.Position(bt))
			newVel = append(newVel, prof.Velocity(bt))
		}
	}
	endT := startT + prof.Duration()
	if endT-newTimes[len(newTimes)-1] > knotEpsilon {
		newTimes = append(newTimes, endT)
		newPos = append(newPos, cur.Position(t2))
		newVel = append(newVel, cur.Velocity(t2))
	} else {
		// Zero-length replacement: the transfer removed a loop and the
		// boundary states coincide with the last kept knot.
		endT = newTimes[len(newTimes)-1]
	}

	// Trailing knots, shifted by the saved duration. The seam after the
	// replacement merges with knot i2 when t2 sampled a knot exactly.
	for k := i2; k < len(times); k++ {
		shifted := endT + (times[k] - t2)
		if shifted-newTimes[len(newTimes)-1] <= knotEpsilon {
			continue
		}
		newTimes = append(newTimes, shifted)
		newPos = append(newPos, knotPos[k])
		newVel = append(newVel, knotVel[k])
	}
	if len(newTimes) < 2 {
		return nil, nil, nil, false
	}
	return newTimes, newPos, newVel, true
}

// exactRefit rebuilds every inter-knot segment as an exact fixed-duration
// ramp and returns a curve through all resulting breakpoints.
func (s *smoother) exactRefit(times []float64, positions, velocities [][]float64) (*trajectory.Curve, error) {
	outTimes := []float64{times[0]}
	outPos := [][]float64{positions[0]}
	outVel := [][]float64{velocities[0]}
	for i := 0; i+1 < len(times); i++ {
		prof, err := ramp.SolveFixed(
			positions[i], positions[i+1],
			velocities[i], velocities[i+1],
			s.vmax, s.amax,
			times[i+1]-times[i],
		)
		if err != nil {
			return nil, err
		}
		breaks := prof.Breakpoints()
		for _, bt := range breaks[1 : len(breaks)-1] {
			outTimes = append(outTimes, times[i]+bt)
			outPos = append(outPos, prof.Position(bt))
			outVel = append(outVel, prof.Velocity(bt))
		}
		outTimes = append(outTimes, times[i+1])
		outPos = append(outPos, positions[i+1])
		outVel = append(outVel, velocities[i+1])
	}
	return trajectory.NewCurve(outTimes, outPos, outVel)
}

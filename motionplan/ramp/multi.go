package ramp

import (
	"math"
	"sort"
)

// MultiProfile is a synchronized multivariate ramp: one Profile per
// configuration dimension, all spanning the same duration.
type MultiProfile struct {
	dims     []*Profile
	duration float64
}

// Duration returns the synchronized transfer duration.
func (mp *MultiProfile) Duration() float64 {
	return mp.duration
}

// Dim returns the dimensionality of the profile.
func (mp *MultiProfile) Dim() int {
	return len(mp.dims)
}

// Position evaluates all dimensions' positions at time t.
func (mp *MultiProfile) Position(t float64) []float64 {
	q := make([]float64, len(mp.dims))
	for i, p := range mp.dims {
		q[i] = p.Position(t)
	}
	return q
}

// Velocity evaluates all dimensions' velocities at time t.
func (mp *MultiProfile) Velocity(t float64) []float64 {
	v := make([]float64, len(mp.dims))
	for i, p := range mp.dims {
		v[i] = p.Velocity(t)
	}
	return v
}

// Breakpoints returns the sorted union of all dimensions' acceleration
// switch times, including 0 and the total duration. Between consecutive
// breakpoints every dimension moves at constant acceleration, so a cubic
// interpolant through the breakpoint states reproduces the profile exactly.
func (mp *MultiProfile) Breakpoints() []float64 {
	all := []float64{0, mp.duration}
	for _, p := range mp.dims {
		all = append(all, p.Breakpoints()...)
	}
	sort.Float64s(all)
	merged := all[:1]
	for _, t := range all[1:] {
		if t-merged[len(merged)-1] > solveEpsilon {
			merged = append(merged, t)
		}
	}
	return merged
}

// Solve computes a synchronized minimum-time transfer between boundary
// states (x1, v1) and (x2, v2) under per-dimension velocity and
// acceleration caps. The transfer duration is the maximum of the
// per-dimension time-optimal durations; every other dimension is then
// re-solved to take exactly that long. An error indicates that no feasible
// profile exists under the given caps, which callers should treat as an
// ordinary negative result rather than a fault.
func Solve(x1, x2, v1, v2, vmax, amax []float64) (*MultiProfile, error) {
	if err := checkVectorBounds(x1, x2, v1, v2, vmax, amax); err != nil {
		return nil, err
	}
	duration := 0.
	for i := range x1 {
		p, err := minTime(x1[i], x2[i], v1[i], v2[i], vmax[i], amax[i])
		if err != nil {
			return nil, err
		}
		duration = math.Max(duration, p.Duration())
	}
	return SolveFixed(x1, x2, v1, v2, vmax, amax, duration)
}

// SolveFixed computes a transfer between the boundary states taking exactly
// the given duration, under the same caps as Solve. Used to rebuild curve
// segments whose timing is already pinned.
func SolveFixed(x1, x2, v1, v2, vmax, amax []float64, duration float64) (*MultiProfile, error) {
	if err := checkVectorBounds(x1, x2, v1, v2, vmax, amax); err != nil {
		return nil, err
	}
	if duration < 0 || math.IsNaN(duration) {
		return nil, errRampInfeasible
	}
	dims := make([]*Profile, len(x1))
	for i := range x1 {
		p, err := fixedTime(x1[i], x2[i], v1[i], v2[i], vmax[i], amax[i], duration)
		if err != nil {
			return nil, err
		}
		dims[i] = p
	}
	return &MultiProfile{dims: dims, duration: duration}, nil
}

func checkVectorBounds(x1, x2, v1, v2, vmax, amax []float64) error {
	d := len(x1)
	if d == 0 {
		return newDimensionError(0)
	}
	for _, vec := range [][]float64{x2, v1, v2, vmax, amax} {
		if len(vec) != d {
			return newDimensionError(d)
		}
	}
	return nil
}

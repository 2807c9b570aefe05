// Package ramp solves boundary-value minimum-time motion problems for
// configurations with independent per-dimension velocity and acceleration
// limits. A solution is a piecewise constant-acceleration velocity profile:
// parabolic position arcs, optionally saturating at the velocity limit.
package ramp

import (
	"math"
)

// Numerical slack for phase durations and limit comparisons.
const solveEpsilon = 1e-9

// phase is a single constant-acceleration span of a profile.
type phase struct {
	duration float64
	accel    float64
}

// Profile is a one-dimensional piecewise constant-acceleration trajectory
// starting from a known position and velocity. Profiles are immutable once
// built.
type Profile struct {
	x0, v0 float64
	phases []phase
}

// Duration returns the total time spanned by the profile.
func (p *Profile) Duration() float64 {
	total := 0.
	for _, ph := range p.phases {
		total += ph.duration
	}
	return total
}

// Breakpoints returns the cumulative times at which the acceleration
// changes, including 0 and the total duration.
func (p *Profile) Breakpoints() []float64 {
	breaks := []float64{0}
	elapsed := 0.
	for _, ph := range p.phases {
		if ph.duration <= 0 {
			continue
		}
		elapsed += ph.duration
		breaks = append(breaks, elapsed)
	}
	return breaks
}

// Position evaluates the profile position at time t, clamped to the
// profile's time span.
func (p *Profile) Position(t float64) float64 {
	x, _ := p.evaluate(t)
	return x
}

// Velocity evaluates the profile velocity at time t, clamped to the
// profile's time span.
func (p *Profile) Velocity(t float64) float64 {
	_, v := p.evaluate(t)
	return v
}

func (p *Profile) evaluate(t float64) (float64, float64) {
	x, v := p.x0, p.v0
	if t < 0 {
		t = 0
	}
	for _, ph := range p.phases {
		dt := math.Min(t, ph.duration)
		x += v*dt + ph.accel*dt*dt/2
		v += ph.accel * dt
		t -= dt
		if t <= 0 {
			break
		}
	}
	return x, v
}

func makeProfile(x0, v0 float64, phases []phase) *Profile {
	kept := make([]phase, 0, len(phases))
	for _, ph := range phases {
		if ph.duration > solveEpsilon {
			kept = append(kept, ph)
		}
	}
	return &Profile{x0: x0, v0: v0, phases: kept}
}

// minTime computes the time-optimal one-dimensional profile between
// (x1, v1) and (x2, v2) subject to |v| <= vmax and |a| <= amax. Both caps
// must be positive and finite. The solution is the faster of the two
// accelerate-then-decelerate parabolic candidates, saturating to a
// trapezoidal cruise at the velocity limit when the parabolic peak would
// exceed it.
func minTime(x1, x2, v1, v2, vmax, amax float64) (*Profile, error) {
	if err := checkScalarBounds(v1, v2, vmax, amax); err != nil {
		return nil, err
	}
	d := x2 - x1
	if math.Abs(d) < solveEpsilon && math.Abs(v2-v1) < solveEpsilon {
		return makeProfile(x1, v1, nil), nil
	}

	var best *Profile
	bestT := math.Inf(1)
	for _, s := range []float64{1, -1} {
		// Peak velocity of the two-parabola candidate with leading
		// acceleration s*amax.
		vpSq := s*amax*d + (v1*v1+v2*v2)/2
		if vpSq < 0 {
			continue
		}
		vp := s * math.Sqrt(vpSq)
		t1 := s * (vp - v1) / amax
		t2 := s * (vp - v2) / amax
		if t1 < -solveEpsilon || t2 < -solveEpsilon {
			continue
		}
		t1, t2 = math.Max(t1, 0), math.Max(t2, 0)

		var cand *Profile
		if math.Abs(vp) <= vmax+solveEpsilon {
			cand = makeProfile(x1, v1, []phase{{t1, s * amax}, {t2, -s * amax}})
		} else {
			// Saturate: accelerate to the velocity limit, cruise,
			// then decelerate.
			vc := s * vmax
			t1 = s * (vc - v1) / amax
			t3 := s * (vc - v2) / amax
			cruised := d - (v1+vc)*t1/2 - (vc+v2)*t3/2
			tc := cruised / vc
			if tc < -solveEpsilon {
				continue
			}
			cand = makeProfile(x1, v1, []phase{{t1, s * amax}, {math.Max(tc, 0), 0}, {t3, -s * amax}})
		}
		if T := cand.Duration(); T < bestT {
			best, bestT = cand, T
		}
	}
	if best == nil {
		return nil, errRampInfeasible
	}
	return best, nil
}

// fixedTime computes a one-dimensional profile between (x1, v1) and
// (x2, v2) taking exactly duration total, subject to |v| <= vmax and
// |a| <= amax. Used to stretch the non-limiting dimensions of a
// multivariate solve to the synchronized duration.
func fixedTime(x1, x2, v1, v2, vmax, amax, total float64) (*Profile, error) {
	if err := checkScalarBounds(v1, v2, vmax, amax); err != nil {
		return nil, err
	}
	d := x2 - x1
	dv := v2 - v1
	if total < solveEpsilon {
		if math.Abs(d) < solveEpsilon && math.Abs(dv) < solveEpsilon {
			return makeProfile(x1, v1, nil), nil
		}
		return nil, errRampInfeasible
	}

	// Excess displacement over pure boundary-velocity interpolation.
	k := d - total*(v1+v2)/2
	if math.Abs(k) < solveEpsilon && math.Abs(dv) < solveEpsilon {
		return makeProfile(x1, v1, []phase{{total, 0}}), nil
	}

	// Two-parabola candidates: accelerations are the roots of
	// total^2*a^2 - 4*k*a - dv^2 = 0. Prefer the gentler valid root.
	disc := math.Sqrt(4*k*k + total*total*dv*dv)
	var best *Profile
	bestA := math.Inf(1)
	for _, a := range []float64{(2*k + disc) / (total * total), (2*k - disc) / (total * total)} {
		if math.Abs(a) < solveEpsilon || math.Abs(a) > amax+solveEpsilon {
			continue
		}
		ts := (total + dv/a) / 2
		if ts < -solveEpsilon || ts > total+solveEpsilon {
			continue
		}
		ts = math.Min(math.Max(ts, 0), total)
		if vp := v1 + a*ts; math.Abs(vp) > vmax+solveEpsilon {
			continue
		}
		if math.Abs(a) < bestA {
			best = makeProfile(x1, v1, []phase{{ts, a}, {total - ts, -a}})
			bestA = math.Abs(a)
		}
	}
	if best != nil {
		return best, nil
	}

	// Saturated candidates: cruise at +/-vmax between symmetric-magnitude
	// acceleration and deceleration ramps.
	for _, vc := range []float64{vmax, -vmax} {
		// The displacement shortfall covered by the ramp phases flips
		// sign with the cruise direction.
		denom := vc*total - d
		if vc < 0 {
			denom = -denom
		}
		if denom <= solveEpsilon {
			continue
		}
		a := ((vc-v1)*(vc-v1) + (vc-v2)*(vc-v2)) / (2 * denom)
		if a <= solveEpsilon || a > amax+solveEpsilon {
			continue
		}
		t1 := math.Abs(vc-v1) / a
		t3 := math.Abs(vc-v2) / a
		tc := total - t1 - t3
		if tc < -solveEpsilon {
			continue
		}
		phases := make([]phase, 0, 3)
		if t1 > solveEpsilon {
			phases = append(phases, phase{t1, (vc - v1) / t1})
		}
		phases = append(phases, phase{math.Max(tc, 0), 0})
		if t3 > solveEpsilon {
			phases = append(phases, phase{t3, (v2 - vc) / t3})
		}
		return makeProfile(x1, v1, phases), nil
	}
	return nil, errRampInfeasible
}

func checkScalarBounds(v1, v2, vmax, amax float64) error {
	if !(vmax > 0) || !(amax > 0) || math.IsInf(vmax, 1) || math.IsInf(amax, 1) {
		return errInvalidLimits
	}
	if math.Abs(v1) > vmax+solveEpsilon || math.Abs(v2) > vmax+solveEpsilon {
		return errRampInfeasible
	}
	return nil
}

package trajectory

import "math"

// Tolerance applied to limit comparisons so that profiles which ride a cap
// exactly are not rejected for floating-point noise.
const boundsTolerance = 1e-6

// CheckBounds reports whether the curve respects the given per-dimension
// velocity and acceleration caps everywhere in [start, end], clamped to the
// curve's span. A nil cap slice skips that check entirely, as does a
// non-positive or infinite cap entry. Within a segment velocity is
// quadratic and acceleration linear in time, so the extrema are found
// analytically rather than by sampling.
func CheckBounds(c *Curve, vmax, amax []float64, start, end float64) bool {
	if c == nil {
		return false
	}
	start = math.Max(start, c.StartTime())
	end = math.Min(end, c.EndTime())
	if start > end {
		return true
	}
	for s := 0; s < len(c.coeffs); s++ {
		segStart, segEnd := c.times[s], c.times[s+1]
		if segEnd < start || segStart > end {
			continue
		}
		lo := math.Max(start, segStart) - segStart
		hi := math.Min(end, segEnd) - segStart
		for j, sc := range c.coeffs[s] {
			if !dimWithinBounds(sc, capAt(vmax, j), capAt(amax, j), lo, hi) {
				return false
			}
		}
	}
	return true
}

func capAt(caps []float64, j int) float64 {
	if caps == nil {
		return math.Inf(1)
	}
	return caps[j]
}

func dimWithinBounds(sc segCoeffs, vcap, acap, lo, hi float64) bool {
	if vcap > 0 && !math.IsInf(vcap, 1) {
		limit := vcap + boundsTolerance
		if math.Abs(velAt(sc, lo)) > limit || math.Abs(velAt(sc, hi)) > limit {
			return false
		}
		// Interior extremum of the quadratic velocity.
		if sc.d != 0 {
			if tau := -sc.c / (3 * sc.d); tau > lo && tau < hi && math.Abs(velAt(sc, tau)) > limit {
				return false
			}
		}
	}
	if acap > 0 && !math.IsInf(acap, 1) {
		limit := acap + boundsTolerance
		// Acceleration is linear; endpoints bound it.
		if math.Abs(2*sc.c+6*sc.d*lo) > limit || math.Abs(2*sc.c+6*sc.d*hi) > limit {
			return false
		}
	}
	return true
}

func velAt(sc segCoeffs, tau float64) float64 {
	return sc.b + tau*(2*sc.c+tau*3*sc.d)
}

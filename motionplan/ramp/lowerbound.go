package ramp

import "math"

// LowerBound returns a cheap, always-valid underestimate of the minimal
// feasible transfer duration between boundary states. It is the maximum of
// the per-dimension times to cover the displacement at the velocity cap
// and, when both boundary velocities are known, the per-dimension times to
// change velocity at the acceleration cap. Nil velocity or cap slices are
// treated as unknown and unlimited respectively; the acceleration term is
// skipped unless both boundary velocities are present, so rest-to-rest
// queries with nil velocities are bounded by displacement alone. Vectors
// of mismatched length yield the trivial bound of zero; the solver
// reports such input as a proper error.
func LowerBound(x1, x2, v1, v2, vmax, amax []float64) float64 {
	d := len(x1)
	if len(x2) != d ||
		(v1 != nil && len(v1) != d) || (v2 != nil && len(v2) != d) ||
		(vmax != nil && len(vmax) != d) || (amax != nil && len(amax) != d) {
		return 0
	}
	bound := 0.
	for i := range x1 {
		if vmax != nil && vmax[i] > 0 && !math.IsInf(vmax[i], 1) {
			bound = math.Max(bound, math.Abs(x2[i]-x1[i])/vmax[i])
		}
	}
	if v1 != nil && v2 != nil {
		for i := range v1 {
			if amax != nil && amax[i] > 0 && !math.IsInf(amax[i], 1) {
				bound = math.Max(bound, math.Abs(v2[i]-v1[i])/amax[i])
			}
		}
	}
	return bound
}

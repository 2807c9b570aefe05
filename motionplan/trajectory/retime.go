package trajectory

import (
	"github.com/pkg/errors"

	"go.viam.com/trajplan/motionplan/ramp"
)

// Retime builds the initial feasible timed curve for a waypoint path. Each
// consecutive waypoint pair is connected by a synchronized rest-to-rest
// minimum-time ramp, and every ramp breakpoint becomes a knot, so the
// resulting cubic interpolant reproduces the piecewise-parabolic profile
// exactly and respects both caps by construction. Knot velocities are zero
// at waypoints.
func Retime(waypoints [][]float64, vmax, amax []float64) (*Curve, error) {
	if len(waypoints) < 2 {
		return nil, errTooFewWaypoints
	}
	dim := len(waypoints[0])
	for i, w := range waypoints {
		if len(w) != dim {
			return nil, newDimensionMismatchError(i, dim)
		}
	}
	rest := make([]float64, dim)

	times := []float64{0}
	positions := [][]float64{append([]float64(nil), waypoints[0]...)}
	velocities := [][]float64{append([]float64(nil), rest...)}
	for i := 0; i+1 < len(waypoints); i++ {
		prof, err := ramp.Solve(waypoints[i], waypoints[i+1], rest, rest, vmax, amax)
		if err != nil {
			return nil, errors.Wrapf(err, "retiming waypoint segment %d", i)
		}
		if prof.Duration() == 0 {
			// Duplicate waypoint; a zero-length segment would break
			// knot monotonicity.
			continue
		}
		t0 := times[len(times)-1]
		breaks := prof.Breakpoints()
		for _, bt := range breaks[1 : len(breaks)-1] {
			times = append(times, t0+bt)
			positions = append(positions, prof.Position(bt))
			velocities = append(velocities, prof.Velocity(bt))
		}
		times = append(times, t0+prof.Duration())
		positions = append(positions, append([]float64(nil), waypoints[i+1]...))
		velocities = append(velocities, append([]float64(nil), rest...))
	}
	if len(times) < 2 {
		return nil, errDegeneratePath
	}
	return NewCurve(times, positions, velocities)
}

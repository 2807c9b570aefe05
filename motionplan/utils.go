package motionplan

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Path is an ordered sequence of configurations produced by a planner.
type Path [][]float64

// Evaluate assigns a numeric score to a path: the cumulative distance
// between consecutive waypoints under the given metric.
func (p Path) Evaluate(distFunc func(a, b []float64) float64) float64 {
	if len(p) < 2 {
		return math.Inf(1)
	}
	total := 0.
	for i := 1; i < len(p); i++ {
		total += distFunc(p[i-1], p[i])
	}
	return total
}

// Tolerance below which two waypoint directions are considered colinear.
const colinearEpsilon = 1e-9

// ReduceRedundant drops consecutive duplicate configurations and colinear
// interior waypoints from a path, preserving the endpoints and every
// direction change.
func ReduceRedundant(path Path) Path {
	if len(path) < 2 {
		return append(Path(nil), path...)
	}
	out := Path{path[0]}
	for i := 1; i < len(path)-1; i++ {
		prev := out[len(out)-1]
		v1 := subConfigurations(path[i], prev)
		v2 := subConfigurations(path[i+1], path[i])
		n1, n2 := floats.Norm(v1, 2), floats.Norm(v2, 2)
		if n1 == 0 {
			// duplicate of the previously kept waypoint
			continue
		}
		if n2 > 0 && n1*n2-floats.Dot(v1, v2) < colinearEpsilon*n1*n2 {
			// interior point on the straight line to its successor
			continue
		}
		out = append(out, path[i])
	}
	return append(out, path[len(path)-1])
}

// interpolateConfigurations returns the configuration a fraction of the way
// from one configuration to another.
func interpolateConfigurations(from, to []float64, frac float64) []float64 {
	q := make([]float64, len(from))
	for i := range from {
		q[i] = from[i] + frac*(to[i]-from[i])
	}
	return q
}

func subConfigurations(a, b []float64) []float64 {
	diff := make([]float64, len(a))
	floats.SubTo(diff, a, b)
	return diff
}

package trajectory

import "math"

// DefaultStep is the discretization time step used when a caller does not
// supply one.
const DefaultStep = 1e-2

// TimedConfiguration is a configuration sample stamped with its curve time.
type TimedConfiguration struct {
	T float64
	Q []float64
}

// Discretize samples the curve at a fixed time step over [start, end],
// clamped to the curve's span, always including both interval endpoints.
// The step is an explicit approximation knob: a coarse step may miss thin
// obstacles between samples, which callers accept in exchange for fewer
// collision checks. Non-positive steps fall back to DefaultStep.
func Discretize(c *Curve, step, start, end float64) []TimedConfiguration {
	if c == nil {
		return nil
	}
	if !(step > 0) {
		step = DefaultStep
	}
	start = math.Max(start, c.StartTime())
	end = math.Min(end, c.EndTime())
	if start > end {
		return nil
	}
	n := int(math.Ceil((end - start) / step))
	if n < 1 {
		n = 1
	}
	samples := make([]TimedConfiguration, 0, n+1)
	for i := 0; i <= n; i++ {
		t := start + (end-start)*float64(i)/float64(n)
		samples = append(samples, TimedConfiguration{T: t, Q: c.Position(t)})
	}
	return samples
}

package shortcut

import (
	"math/rand"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
)

// default values for smoothing options.
const (
	// Number of shortcut attempts before giving up.
	defaultMaxIterations = 1000

	// Minimum duration a shortcut must save to be worth splicing in.
	defaultMinImprovement = 1e-4
)

// RefitMethod selects how the whole curve is rebuilt through the spliced
// knot sequence after a shortcut.
type RefitMethod int

const (
	// SmoothGlobalRefit rebuilds the cubic interpolant directly through
	// the spliced knots. Cheap, but the interpolant may overshoot caps or
	// re-enter obstacles between knots; the whole-curve feasibility
	// recheck catches that and rejects the candidate.
	SmoothGlobalRefit RefitMethod = iota
	// ExactRampRefit re-solves every inter-knot segment at its exact
	// duration and inserts all profile breakpoints as knots, yielding a
	// piecewise-parabolic curve with no inter-knot overshoot. Costlier to
	// build densely, and segments whose pinned timing admits no profile
	// cause the candidate to be rejected.
	ExactRampRefit
)

// Options configure Smooth. Zero-valued fields other than MaxIterations
// take the documented defaults; negative MinImprovement is an invalid-input
// error.
type Options struct {
	// MaxIterations caps the number of shortcut attempts. Zero runs no
	// iterations and returns the input curve unchanged.
	MaxIterations int

	// MaxTime is the wall-clock budget. Zero means no time limit. The
	// budget is checked only between iterations, so the worst-case
	// overshoot is one iteration's cost.
	MaxTime time.Duration

	// MinImprovement is the strict duration gain a candidate must offer.
	MinImprovement float64

	// ExpandIntermediateKnots adds the solver's internal breakpoints as
	// knots when splicing, so the refit reproduces the ramp profile
	// exactly instead of approximating it with a single cubic.
	ExpandIntermediateKnots bool

	// RefitMethod selects the whole-curve rebuild strategy.
	RefitMethod RefitMethod

	// CheckResolution is the time step for collision sampling during
	// feasibility checks.
	CheckResolution float64

	// RandSeed drives the uniform sampling of shortcut windows. Passing
	// an explicit seeded source makes runs reproducible.
	RandSeed *rand.Rand

	// Clock supplies wall-clock time for the budget; tests inject a mock.
	Clock clock.Clock

	Logger golog.Logger
}

// NewBasicOptions returns options with reasonable defaults: intermediate
// knots expanded, smooth global refit, and a fixed random seed.
func NewBasicOptions() *Options {
	return &Options{
		MaxIterations:           defaultMaxIterations,
		MinImprovement:          defaultMinImprovement,
		ExpandIntermediateKnots: true,
		RefitMethod:             SmoothGlobalRefit,
		//nolint:gosec
		RandSeed: rand.New(rand.NewSource(1)),
		Clock:    clock.New(),
	}
}

// withDefaults fills unset fields, leaving the receiver untouched.
func (o Options) withDefaults() Options {
	if o.MinImprovement == 0 {
		o.MinImprovement = defaultMinImprovement
	}
	if o.RandSeed == nil {
		//nolint:gosec
		o.RandSeed = rand.New(rand.NewSource(1))
	}
	if o.Clock == nil {
		o.Clock = clock.New()
	}
	if o.Logger == nil {
		o.Logger = golog.NewLogger("shortcut")
	}
	return o
}

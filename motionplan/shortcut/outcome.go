package shortcut

// Outcome classifies a single shortcutting iteration. Every rejection path
// is an ordinary per-iteration result rather than a fault; only accepted
// iterations change the current curve.
type Outcome int

const (
	// Accepted means the refit curve was strictly shorter and globally
	// feasible, and replaced the current curve.
	Accepted Outcome = iota
	// RejectedNarrowSpan means the sampled times bracketed no knot
	// interval or produced a degenerate span.
	RejectedNarrowSpan
	// RejectedLowerBound means the transfer-duration lower bound already
	// ruled out a net improvement, so the solver was never invoked.
	RejectedLowerBound
	// RejectedSolverFailure means the boundary-value solve found no
	// feasible profile. Expected and frequent.
	RejectedSolverFailure
	// RejectedNoGain means the solver's best duration was not faster
	// than the span it would replace by at least the improvement
	// threshold.
	RejectedNoGain
	// RejectedRefitFailure means the spliced knot sequence could not be
	// refit into a structurally valid curve.
	RejectedRefitFailure
	// RejectedRegression means the refit curve was no shorter than the
	// current curve; the local gain was erased by the global refit.
	RejectedRegression
	// RejectedInfeasible means the refit curve violated caps or collided
	// somewhere on the whole curve, not necessarily in the spliced span.
	RejectedInfeasible

	numOutcomes
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case RejectedNarrowSpan:
		return "narrow span"
	case RejectedLowerBound:
		return "lower bound"
	case RejectedSolverFailure:
		return "solver failure"
	case RejectedNoGain:
		return "no gain"
	case RejectedRefitFailure:
		return "refit failure"
	case RejectedRegression:
		return "regression"
	case RejectedInfeasible:
		return "infeasible"
	default:
		return "unknown"
	}
}

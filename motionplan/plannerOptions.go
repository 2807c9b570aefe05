package motionplan

import (
	"math/rand"
	"runtime"

	"gonum.org/v1/gonum/floats"
)

// default values for planning options.
const (
	// Number of planner iterations before giving up.
	defaultPlanIter = 10000

	// Check collisions every this much configuration-space distance along
	// an edge.
	defaultResolution = 0.01

	// Max configuration-space distance a single tree extension may cover.
	defaultStepSize = 0.5

	// Probability of sampling the goal itself during tree growth.
	defaultGoalBias = 0.1

	// The number of nearest neighbors to consider when adding a new
	// sample to a roadmap or rewiring a tree.
	defaultNeighborhoodSize = 10

	// Number of valid samples in a probabilistic roadmap.
	defaultRoadmapSize = 200

	// Per-dimension cell size of the lattice planner's grid.
	defaultLatticeStep = 0.1
)

var defaultNumThreads = runtime.NumCPU() / 2

// PlannerOptions are a set of options to be passed to a planner which
// specify how a motion planning problem should be solved. The injected
// functions default to Euclidean distance, uniform sampling within the
// limits, and straight-line extension.
type PlannerOptions struct {
	// Number of planner iterations before giving up.
	PlanIter int

	// Check collisions every this much configuration-space distance.
	Resolution float64

	// Max distance a single tree extension may cover.
	StepSize float64

	// Probability of sampling the goal itself during tree growth.
	GoalBias float64

	// Number of nearest neighbors considered by PRM and RRT*.
	NeighborhoodSize int

	// Number of valid samples in a PRM roadmap.
	RoadmapSize int

	// Per-dimension cell size of the lattice planner's grid.
	LatticeStep float64

	// Number of cpu cores to use for nearest-neighbor searches.
	NumThreads int

	// DistanceFunc measures distance between two configurations.
	DistanceFunc func(a, b []float64) float64

	// SampleFunc draws a configuration from the space bounded by limits.
	SampleFunc func(r *rand.Rand, limits []Limit) []float64

	// ExtendFunc steps from one configuration toward another, covering at
	// most step of configuration-space distance.
	ExtendFunc func(from, to []float64, step float64) []float64
}

// NewBasicPlannerOptions specifies a set of basic options for the planner.
func NewBasicPlannerOptions() *PlannerOptions {
	return &PlannerOptions{
		PlanIter:         defaultPlanIter,
		Resolution:       defaultResolution,
		StepSize:         defaultStepSize,
		GoalBias:         defaultGoalBias,
		NeighborhoodSize: defaultNeighborhoodSize,
		RoadmapSize:      defaultRoadmapSize,
		LatticeStep:      defaultLatticeStep,
		NumThreads:       defaultNumThreads,
		DistanceFunc:     defaultDistanceFunc,
		SampleFunc:       defaultSampleFunc,
	}
}

// defaultDistanceFunc returns the two-norm between two configurations.
func defaultDistanceFunc(a, b []float64) float64 {
	return floats.Distance(a, b, 2)
}

// defaultSampleFunc draws uniformly within each dimension's limits.
func defaultSampleFunc(r *rand.Rand, limits []Limit) []float64 {
	q := make([]float64, len(limits))
	for i, l := range limits {
		q[i] = l.Min + r.Float64()*(l.Max-l.Min)
	}
	return q
}

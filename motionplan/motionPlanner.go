// Package motionplan is a sampling-based motion planning library for
// configuration spaces with independently bounded dimensions. Planners
// produce collision-free waypoint paths; the trajectory and shortcut
// subpackages retime those paths and locally optimize them.
package motionplan

import (
	"context"
	"math"

	"github.com/edaniels/golog"
	"gonum.org/v1/gonum/floats"
)

// CollisionFunc reports whether a configuration is in collision. Supplied
// by the caller, may be arbitrarily expensive, assumed side-effect free.
type CollisionFunc func(q []float64) bool

// Limit bounds one dimension of the configuration space.
type Limit struct {
	Min, Max float64
}

// Planner provides an interface to path planning methods, providing ways to
// request a collision-free waypoint path between two configurations.
type Planner interface {
	// Plan will take a context, a start and a goal configuration, and
	// return a series of configurations which should be visited in order
	// to arrive at the goal without colliding.
	Plan(ctx context.Context, start, goal []float64) (Path, error)
}

// planReturn carries a finished plan out of a planRunner goroutine.
type planReturn struct {
	steps []node
	err   error
}

func (pr *planReturn) toPath() Path {
	path := make(Path, 0, len(pr.steps))
	for _, step := range pr.steps {
		path = append(path, step.Q())
	}
	return path
}

// planner holds the state shared by all the sampling-based planners.
type planner struct {
	limits   []Limit
	collides CollisionFunc
	logger   golog.Logger
	opts     *PlannerOptions
}

func newPlanner(limits []Limit, collides CollisionFunc, logger golog.Logger, opts *PlannerOptions) (*planner, error) {
	if len(limits) == 0 {
		return nil, errNoLimits
	}
	for _, l := range limits {
		if l.Max < l.Min {
			return nil, errInvertedLimit
		}
	}
	if opts == nil {
		opts = NewBasicPlannerOptions()
	}
	return &planner{limits: limits, collides: collides, logger: logger, opts: opts}, nil
}

// checkConfiguration validates dimensionality and collision state of a
// planning endpoint.
func (mp *planner) checkConfiguration(q []float64) error {
	if len(q) != len(mp.limits) {
		return newDimensionError(len(mp.limits))
	}
	if mp.collides != nil && mp.collides(q) {
		return errEndpointInCollision
	}
	return nil
}

// checkPath reports whether the straight-line motion between two
// configurations is collision-free, sampled every Resolution of
// configuration-space distance.
func (mp *planner) checkPath(from, to []float64) bool {
	if mp.collides == nil {
		return true
	}
	steps := int(math.Ceil(floats.Distance(from, to, 2) / mp.opts.Resolution))
	if steps < 1 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		if mp.collides(interpolateConfigurations(from, to, float64(i)/float64(steps))) {
			return false
		}
	}
	return true
}

// extend steps from one configuration toward another by at most StepSize of
// configuration-space distance.
func (mp *planner) extend(from, to []float64) []float64 {
	if mp.opts.ExtendFunc != nil {
		return mp.opts.ExtendFunc(from, to, mp.opts.StepSize)
	}
	dist := floats.Distance(from, to, 2)
	if dist <= mp.opts.StepSize {
		return append([]float64(nil), to...)
	}
	return interpolateConfigurations(from, to, mp.opts.StepSize/dist)
}

func (mp *planner) distance(a, b []float64) float64 {
	return mp.opts.DistanceFunc(a, b)
}

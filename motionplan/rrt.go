package motionplan

import (
	"context"
	"math/rand"

	"github.com/edaniels/golog"
	"go.viam.com/utils"
)

// rrtMap maps each tree node to its parent; roots map to nil.
type rrtMap map[node]node

type rrtMotionPlanner struct {
	*planner
	randseed *rand.Rand
	nm       *neighborManager
}

// NewRRTMotionPlanner creates a single-tree, goal-biased RRT planner.
func NewRRTMotionPlanner(limits []Limit, collides CollisionFunc, logger golog.Logger, opts *PlannerOptions) (Planner, error) {
	//nolint:gosec
	return NewRRTMotionPlannerWithSeed(limits, collides, rand.New(rand.NewSource(1)), logger, opts)
}

// NewRRTMotionPlannerWithSeed creates an RRT planner with a user specified
// random seed.
func NewRRTMotionPlannerWithSeed(
	limits []Limit,
	collides CollisionFunc,
	seed *rand.Rand,
	logger golog.Logger,
	opts *PlannerOptions,
) (Planner, error) {
	mp, err := newPlanner(limits, collides, logger, opts)
	if err != nil {
		return nil, err
	}
	return &rrtMotionPlanner{
		planner:  mp,
		randseed: seed,
		nm:       &neighborManager{nCPU: mp.opts.NumThreads, distFunc: mp.opts.DistanceFunc},
	}, nil
}

func (mp *rrtMotionPlanner) Plan(ctx context.Context, start, goal []float64) (Path, error) {
	if err := mp.checkConfiguration(start); err != nil {
		return nil, err
	}
	if err := mp.checkConfiguration(goal); err != nil {
		return nil, err
	}
	solutionChan := make(chan *planReturn, 1)
	utils.PanicCapturingGo(func() {
		mp.planRunner(ctx, start, goal, solutionChan)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case plan := <-solutionChan:
		if plan.err != nil {
			return nil, plan.err
		}
		return plan.toPath(), nil
	}
}

// planRunner will execute the plan. Plan() calls planRunner in a separate
// thread and waits for the results, keeping Plan responsive to context
// cancellation.
func (mp *rrtMotionPlanner) planRunner(ctx context.Context, start, goal []float64, solutionChan chan *planReturn) {
	defer close(solutionChan)

	startNode := newConfigurationNode(start)
	tree := rrtMap{startNode: nil}

	for i := 0; i < mp.opts.PlanIter; i++ {
		select {
		case <-ctx.Done():
			solutionChan <- &planReturn{err: ctx.Err()}
			return
		default:
		}

		target := mp.opts.SampleFunc(mp.randseed, mp.limits)
		if mp.randseed.Float64() < mp.opts.GoalBias {
			target = goal
		}
		nearest := mp.nm.nearestNeighbor(ctx, newConfigurationNode(target), tree)
		if nearest == nil {
			continue
		}
		candidate := mp.extend(nearest.Q(), target)
		if !mp.checkPath(nearest.Q(), candidate) {
			continue
		}
		candNode := newConfigurationNode(candidate)
		tree[candNode] = nearest

		// Close enough to try a direct connection to the goal.
		if mp.distance(candidate, goal) <= mp.opts.StepSize && mp.checkPath(candidate, goal) {
			goalNode := newConfigurationNode(goal)
			tree[goalNode] = candNode
			solutionChan <- &planReturn{steps: extractTreePath(tree, goalNode)}
			return
		}
	}
	solutionChan <- &planReturn{err: NewPlannerFailedError()}
}

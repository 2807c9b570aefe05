package motionplan

import (
	"context"
	"math"
	"math/rand"

	"github.com/edaniels/golog"
	"go.viam.com/utils"
)

type rrtStarMotionPlanner struct {
	*planner
	randseed *rand.Rand
	nm       *neighborManager
}

// NewRRTStarMotionPlanner creates an asymptotically-optimal RRT* planner:
// new samples choose the cheapest nearby parent and rewire their
// neighborhood, and planning continues for the full iteration budget so the
// best goal connection found is returned.
func NewRRTStarMotionPlanner(limits []Limit, collides CollisionFunc, logger golog.Logger, opts *PlannerOptions) (Planner, error) {
	//nolint:gosec
	return NewRRTStarMotionPlannerWithSeed(limits, collides, rand.New(rand.NewSource(1)), logger, opts)
}

// NewRRTStarMotionPlannerWithSeed creates a rrtStarMotionPlanner object
// with a user specified random seed.
func NewRRTStarMotionPlannerWithSeed(
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
	return &rrtStarMotionPlanner{
		planner:  mp,
		randseed: seed,
		nm:       &neighborManager{nCPU: mp.opts.NumThreads, distFunc: mp.opts.DistanceFunc},
	}, nil
}

func (mp *rrtStarMotionPlanner) Plan(ctx context.Context, start, goal []float64) (Path, error) {
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

func (mp *rrtStarMotionPlanner) planRunner(ctx context.Context, start, goal []float64, solutionChan chan *planReturn) {
	defer close(solutionChan)

	startNode := &basicNode{q: start, cost: 0}
	tree := rrtMap{startNode: nil}

	// best discovered connection into the goal
	var bestGoal node
	bestGoalCost := math.Inf(1)

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

		// choose the cheapest valid parent within the neighborhood
		candNode := &basicNode{q: candidate, cost: math.Inf(1)}
		neighbors := kNearestNeighbors(tree, candNode, mp.opts.NeighborhoodSize, mp.opts.DistanceFunc)
		var parent node
		for _, nn := range neighbors {
			cost := nn.node.Cost() + nn.dist
			if cost < candNode.Cost() && mp.checkPath(nn.node.Q(), candidate) {
				parent = nn.node
				candNode.SetCost(cost)
			}
		}
		if parent == nil {
			continue
		}
		tree[candNode] = parent

		// rewire the neighborhood through the new node where cheaper
		for _, nn := range neighbors {
			rewired := candNode.Cost() + nn.dist
			if rewired < nn.node.Cost() && mp.checkPath(candidate, nn.node.Q()) {
				tree[nn.node] = candNode
				nn.node.SetCost(rewired)
			}
		}

		if dist := mp.distance(candidate, goal); dist <= mp.opts.StepSize && mp.checkPath(candidate, goal) {
			if cost := candNode.Cost() + dist; cost < bestGoalCost {
				goalNode := &basicNode{q: goal, cost: cost}
				tree[goalNode] = candNode
				bestGoal, bestGoalCost = goalNode, cost
			}
		}
	}

	if bestGoal == nil {
		solutionChan <- &planReturn{err: NewPlannerFailedError()}
		return
	}
	solutionChan <- &planReturn{steps: extractTreePath(tree, bestGoal)}
}

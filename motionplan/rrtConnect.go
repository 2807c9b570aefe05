package motionplan

import (
	"context"
	"math/rand"

	"github.com/edaniels/golog"
	"go.viam.com/utils"
)

type rrtConnectMotionPlanner struct {
	*planner
	randseed *rand.Rand
	nm       *neighborManager
}

// NewRRTConnectMotionPlanner creates a bidirectional RRT-Connect planner.
func NewRRTConnectMotionPlanner(limits []Limit, collides CollisionFunc, logger golog.Logger, opts *PlannerOptions) (Planner, error) {
	//nolint:gosec
	return NewRRTConnectMotionPlannerWithSeed(limits, collides, rand.New(rand.NewSource(1)), logger, opts)
}

// NewRRTConnectMotionPlannerWithSeed creates a rrtConnectMotionPlanner
// object with a user specified random seed.
func NewRRTConnectMotionPlannerWithSeed(
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
	return &rrtConnectMotionPlanner{
		planner:  mp,
		randseed: seed,
		nm:       &neighborManager{nCPU: mp.opts.NumThreads, distFunc: mp.opts.DistanceFunc},
	}, nil
}

func (mp *rrtConnectMotionPlanner) Plan(ctx context.Context, start, goal []float64) (Path, error) {
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

// planRunner grows a tree from each endpoint, attempting on every iteration
// to connect both trees to the same target and alternating which tree is
// grown first.
func (mp *rrtConnectMotionPlanner) planRunner(ctx context.Context, start, goal []float64, solutionChan chan *planReturn) {
	defer close(solutionChan)

	startMap := rrtMap{newConfigurationNode(start): nil}
	goalMap := rrtMap{newConfigurationNode(goal): nil}

	// for the first iteration, try the halfway interpolation between the
	// endpoints
	target := interpolateConfigurations(start, goal, 0.5)

	// Keep a reference to the two maps so that we can alternate which one
	// is grown
	map1, map2 := startMap, goalMap

	for i := 0; i < mp.opts.PlanIter; i++ {
		select {
		case <-ctx.Done():
			solutionChan <- &planReturn{err: ctx.Err()}
			return
		default:
		}

		targetNode := newConfigurationNode(target)
		nearest1 := mp.nm.nearestNeighbor(ctx, targetNode, map1)
		nearest2 := mp.nm.nearestNeighbor(ctx, targetNode, map2)
		if nearest1 == nil || nearest2 == nil {
			continue
		}

		// attempt to extend the target to map 1, then try to connect the
		// maps together through it
		map1reached := mp.checkPath(nearest1.Q(), target)
		if map1reached {
			map1[targetNode] = nearest1
		}
		map2reached := mp.checkPath(nearest2.Q(), target)
		if map2reached {
			map2[targetNode] = nearest2
		}

		if map1reached && map2reached {
			solutionChan <- &planReturn{steps: extractPath(startMap, goalMap, targetNode)}
			return
		}

		target = mp.opts.SampleFunc(mp.randseed, mp.limits)

		map1, map2 = map2, map1
	}
	solutionChan <- &planReturn{err: NewPlannerFailedError()}
}

package motionplan

import (
	"container/heap"
	"context"
	"math"
	"math/rand"

	"github.com/edaniels/golog"
	"go.viam.com/utils"
)

// Sampling attempts per requested roadmap node before giving up on filling
// the roadmap.
const roadmapSampleFactor = 20

type prmMotionPlanner struct {
	*planner
	randseed *rand.Rand
}

// NewPRMMotionPlanner creates a probabilistic-roadmap planner: a roadmap of
// valid samples connected through their collision-checked k-nearest
// neighbors, queried with a shortest-path search.
func NewPRMMotionPlanner(limits []Limit, collides CollisionFunc, logger golog.Logger, opts *PlannerOptions) (Planner, error) {
	//nolint:gosec
	return NewPRMMotionPlannerWithSeed(limits, collides, rand.New(rand.NewSource(1)), logger, opts)
}

// NewPRMMotionPlannerWithSeed creates a prmMotionPlanner object with a user
// specified random seed.
func NewPRMMotionPlannerWithSeed(
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
	return &prmMotionPlanner{planner: mp, randseed: seed}, nil
}

func (mp *prmMotionPlanner) Plan(ctx context.Context, start, goal []float64) (Path, error) {
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

func (mp *prmMotionPlanner) planRunner(ctx context.Context, start, goal []float64, solutionChan chan *planReturn) {
	defer close(solutionChan)

	roadmap := []node{newConfigurationNode(start), newConfigurationNode(goal)}
	for attempts := 0; len(roadmap)-2 < mp.opts.RoadmapSize && attempts < mp.opts.RoadmapSize*roadmapSampleFactor; attempts++ {
		select {
		case <-ctx.Done():
			solutionChan <- &planReturn{err: ctx.Err()}
			return
		default:
		}
		q := mp.opts.SampleFunc(mp.randseed, mp.limits)
		if mp.collides == nil || !mp.collides(q) {
			roadmap = append(roadmap, newConfigurationNode(q))
		}
	}

	// Connect each node to its collision-checked k-nearest neighbors.
	adjacency := make(map[node][]*neighbor, len(roadmap))
	asMap := make(rrtMap, len(roadmap))
	for _, n := range roadmap {
		asMap[n] = nil
	}
	for _, n := range roadmap {
		delete(asMap, n)
		for _, nn := range kNearestNeighbors(asMap, n, mp.opts.NeighborhoodSize, mp.opts.DistanceFunc) {
			if mp.checkPath(n.Q(), nn.node.Q()) {
				adjacency[n] = append(adjacency[n], nn)
				adjacency[nn.node] = append(adjacency[nn.node], &neighbor{dist: nn.dist, node: n})
			}
		}
		asMap[n] = nil
	}

	steps := mp.shortestPath(adjacency, roadmap[0], roadmap[1])
	if steps == nil {
		solutionChan <- &planReturn{err: NewPlannerFailedError()}
		return
	}
	solutionChan <- &planReturn{steps: steps}
}

// shortestPath runs Dijkstra over the roadmap adjacency.
func (mp *prmMotionPlanner) shortestPath(adjacency map[node][]*neighbor, start, goal node) []node {
	dist := map[node]float64{start: 0}
	parent := map[node]node{}
	visited := map[node]bool{}
	pq := &nodeQueue{&neighbor{dist: 0, node: start}}
	heap.Init(pq)
	for pq.Len() > 0 {
		cur := heap.Pop(pq).(*neighbor)
		if visited[cur.node] {
			continue
		}
		visited[cur.node] = true
		if cur.node == goal {
			path := []node{}
			for n := goal; n != nil; n = parent[n] {
				path = append(path, n)
			}
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return path
		}
		for _, edge := range adjacency[cur.node] {
			alt := cur.dist + edge.dist
			if d, seen := dist[edge.node]; !seen || alt < d {
				dist[edge.node] = alt
				parent[edge.node] = cur.node
				heap.Push(pq, &neighbor{dist: alt, node: edge.node})
			}
		}
	}
	return nil
}

// nodeQueue is a min-heap of nodes keyed by accumulated distance.
type nodeQueue []*neighbor

func (q nodeQueue) Len() int { return len(q) }
func (q nodeQueue) Less(i, j int) bool {
	if math.IsNaN(q[i].dist) {
		return false
	}
	return q[i].dist < q[j].dist
}
func (q nodeQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *nodeQueue) Push(x interface{}) {
	*q = append(*q, x.(*neighbor))
}

func (q *nodeQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

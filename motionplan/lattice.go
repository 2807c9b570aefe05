package motionplan

import (
	"container/heap"
	"context"
	"strconv"
	"strings"

	"github.com/edaniels/golog"
	"go.viam.com/utils"
)

type latticeMotionPlanner struct {
	*planner
}

// NewLatticeMotionPlanner creates a deterministic lattice planner: the
// configuration space is discretized into an axis-aligned grid of
// LatticeStep cells anchored at the limits' minima and searched with A*.
// Resolution-complete rather than probabilistically complete, and only
// practical in low-dimensional spaces.
func NewLatticeMotionPlanner(limits []Limit, collides CollisionFunc, logger golog.Logger, opts *PlannerOptions) (Planner, error) {
	mp, err := newPlanner(limits, collides, logger, opts)
	if err != nil {
		return nil, err
	}
	return &latticeMotionPlanner{planner: mp}, nil
}

func (mp *latticeMotionPlanner) Plan(ctx context.Context, start, goal []float64) (Path, error) {
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

type latticeCell struct {
	indices []int
	config  []float64
	g       float64
	parent  *latticeCell
}

func (mp *latticeMotionPlanner) planRunner(ctx context.Context, start, goal []float64, solutionChan chan *planReturn) {
	defer close(solutionChan)

	startCell := mp.cellFor(start)
	goalCell := mp.cellFor(goal)
	if startCell.config == nil || goalCell.config == nil {
		// A cell center may collide even when the endpoint inside it
		// does not; the grid cannot represent such endpoints.
		solutionChan <- &planReturn{err: NewPlannerFailedError()}
		return
	}
	// The returned path pins the exact endpoints, so the motion between
	// each endpoint and its cell center must be collision-free too.
	if !mp.checkPath(start, startCell.config) || !mp.checkPath(goalCell.config, goal) {
		solutionChan <- &planReturn{err: NewPlannerFailedError()}
		return
	}
	goalKey := cellKey(goalCell.indices)

	open := &cellQueue{}
	heap.Init(open)
	heap.Push(open, &cellEntry{cell: startCell, f: mp.distance(startCell.config, goal)})
	closed := map[string]bool{}

	expansions := 0
	for open.Len() > 0 && expansions < mp.opts.PlanIter {
		select {
		case <-ctx.Done():
			solutionChan <- &planReturn{err: ctx.Err()}
			return
		default:
		}
		cur := heap.Pop(open).(*cellEntry).cell
		key := cellKey(cur.indices)
		if closed[key] {
			continue
		}
		closed[key] = true
		expansions++

		if key == goalKey {
			solutionChan <- &planReturn{steps: mp.cellPath(cur, start, goal)}
			return
		}

		for dim := range cur.indices {
			for _, delta := range []int{-1, 1} {
				next := make([]int, len(cur.indices))
				copy(next, cur.indices)
				next[dim] += delta
				cand := mp.cellConfig(next)
				if cand == nil || closed[cellKey(next)] {
					continue
				}
				if !mp.checkPath(cur.config, cand) {
					continue
				}
				g := cur.g + mp.distance(cur.config, cand)
				cell := &latticeCell{indices: next, config: cand, g: g, parent: cur}
				heap.Push(open, &cellEntry{cell: cell, f: g + mp.distance(cand, goal)})
			}
		}
	}
	solutionChan <- &planReturn{err: NewPlannerFailedError()}
}

// cellPath reconstructs the start-to-goal configuration sequence, pinning
// the exact endpoints to the path.
func (mp *latticeMotionPlanner) cellPath(reached *latticeCell, start, goal []float64) []node {
	cells := []node{}
	for c := reached; c != nil; c = c.parent {
		cells = append(cells, newConfigurationNode(c.config))
	}
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}
	steps := make([]node, 0, len(cells)+2)
	steps = append(steps, newConfigurationNode(start))
	steps = append(steps, cells...)
	steps = append(steps, newConfigurationNode(goal))
	return steps
}

// cellFor returns the grid cell containing a configuration.
func (mp *latticeMotionPlanner) cellFor(q []float64) *latticeCell {
	indices := make([]int, len(q))
	for i, v := range q {
		indices[i] = int((v-mp.limits[i].Min)/mp.opts.LatticeStep + 0.5)
	}
	return &latticeCell{indices: indices, config: mp.cellConfig(indices)}
}

// cellConfig returns the configuration at a cell's center, or nil when the
// cell lies outside the limits or its center collides.
func (mp *latticeMotionPlanner) cellConfig(indices []int) []float64 {
	q := make([]float64, len(indices))
	for i, idx := range indices {
		q[i] = mp.limits[i].Min + float64(idx)*mp.opts.LatticeStep
		if q[i] < mp.limits[i].Min || q[i] > mp.limits[i].Max {
			return nil
		}
	}
	if mp.collides != nil && mp.collides(q) {
		return nil
	}
	return q
}

func cellKey(indices []int) string {
	var b strings.Builder
	for _, idx := range indices {
		b.WriteString(strconv.Itoa(idx))
		b.WriteByte(',')
	}
	return b.String()
}

type cellEntry struct {
	cell *latticeCell
	f    float64
}

// cellQueue is a min-heap of lattice cells keyed by estimated total cost.
type cellQueue []*cellEntry

func (q cellQueue) Len() int            { return len(q) }
func (q cellQueue) Less(i, j int) bool  { return q[i].f < q[j].f }
func (q cellQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *cellQueue) Push(x interface{}) { *q = append(*q, x.(*cellEntry)) }
func (q *cellQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

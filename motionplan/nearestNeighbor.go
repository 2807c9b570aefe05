package motionplan

import (
	"context"
	"math"
	"sort"
	"sync"

	"go.viam.com/utils"
)

const neighborsBeforeParallelization = 1000

type neighborManager struct {
	nnKeys    chan node
	neighbors chan *neighbor
	nnLock    sync.RWMutex
	seedPos   node
	ready     bool
	nCPU      int
	distFunc  func(a, b []float64) float64
}

type neighbor struct {
	dist float64
	node node
}

func kNearestNeighbors(tree rrtMap, target node, k int, distFunc func(a, b []float64) float64) []*neighbor {
	if k > len(tree) {
		k = len(tree)
	}
	allCosts := make([]*neighbor, 0, len(tree))
	for n := range tree {
		allCosts = append(allCosts, &neighbor{dist: distFunc(n.Q(), target.Q()), node: n})
	}
	sort.Slice(allCosts, func(i, j int) bool {
		return allCosts[i].dist < allCosts[j].dist
	})
	return allCosts[:k]
}

func (nm *neighborManager) nearestNeighbor(ctx context.Context, seed node, tree rrtMap) node {
	if len(tree) > neighborsBeforeParallelization && nm.nCPU > 1 {
		// If the map is large, calculate distances in parallel
		return nm.parallelNearestNeighbor(ctx, seed, tree)
	}
	bestDist := math.Inf(1)
	var best node
	for k := range tree {
		dist := nm.distFunc(seed.Q(), k.Q())
		if dist < bestDist {
			bestDist = dist
			best = k
		}
	}
	return best
}

func (nm *neighborManager) parallelNearestNeighbor(ctx context.Context, seed node, tree rrtMap) node {
	nm.ready = false
	nm.startNNworkers(ctx)
	defer close(nm.nnKeys)
	defer close(nm.neighbors)
	nm.nnLock.Lock()
	nm.seedPos = seed
	nm.nnLock.Unlock()

	for k := range tree {
		nm.nnKeys <- k
	}
	nm.nnLock.Lock()
	nm.ready = true
	nm.nnLock.Unlock()
	var best node
	bestDist := math.Inf(1)
	returned := 0
	for returned < nm.nCPU {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		select {
		case nn := <-nm.neighbors:
			returned++
			if nn.dist < bestDist {
				bestDist = nn.dist
				best = nn.node
			}
		default:
		}
	}
	return best
}

func (nm *neighborManager) startNNworkers(ctx context.Context) {
	nm.neighbors = make(chan *neighbor, nm.nCPU)
	nm.nnKeys = make(chan node, nm.nCPU)
	for i := 0; i < nm.nCPU; i++ {
		utils.PanicCapturingGo(func() {
			nm.nnWorker(ctx)
		})
	}
}

func (nm *neighborManager) nnWorker(ctx context.Context) {
	var best node
	bestDist := math.Inf(1)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		select {
		case k := <-nm.nnKeys:
			if k != nil {
				nm.nnLock.RLock()
				dist := nm.distFunc(nm.seedPos.Q(), k.Q())
				nm.nnLock.RUnlock()
				if dist < bestDist {
					bestDist = dist
					best = k
				}
			}
		default:
			nm.nnLock.RLock()
			if nm.ready {
				nm.nnLock.RUnlock()
				nm.neighbors <- &neighbor{bestDist, best}
				return
			}
			nm.nnLock.RUnlock()
		}
	}
}

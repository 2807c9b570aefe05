package motionplan

import "math"

// node interface is used to wrap a configuration for planning purposes.
type node interface {
	// Q returns the configuration associated with the node.
	Q() []float64
	Cost() float64
	SetCost(float64)
}

type basicNode struct {
	q    []float64
	cost float64
}

// newConfigurationNode wraps a configuration in a node with no known cost.
func newConfigurationNode(q []float64) node {
	return &basicNode{q: q, cost: math.NaN()}
}

func (n *basicNode) Q() []float64 {
	return n.q
}

func (n *basicNode) Cost() float64 {
	return n.cost
}

func (n *basicNode) SetCost(cost float64) {
	n.cost = cost
}

// extractPath walks up both trees from the node where they met and returns
// the start-to-goal node sequence. The shared node appears once.
func extractPath(startMap, goalMap rrtMap, shared node) []node {
	path := make([]node, 0)
	for n := shared; n != nil; n = startMap[n] {
		path = append(path, n)
	}
	// reverse the slice
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	for n := goalMap[shared]; n != nil; n = goalMap[n] {
		path = append(path, n)
	}
	return path
}

// extractTreePath walks up a single tree from the reached node to its root.
func extractTreePath(tree rrtMap, reached node) []node {
	path := make([]node, 0)
	for n := reached; n != nil; n = tree[n] {
		path = append(path, n)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

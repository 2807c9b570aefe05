package motionplan

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestReduceRedundant(t *testing.T) {
	// Colinear interior waypoints are dropped.
	path := Path{{0, 0}, {1, 1}, {2, 2}}
	test.That(t, ReduceRedundant(path), test.ShouldResemble, Path{{0, 0}, {2, 2}})

	// Consecutive duplicates are dropped.
	path = Path{{0, 0}, {0, 0}, {1, 0}, {1, 0}, {2, 0}}
	test.That(t, ReduceRedundant(path), test.ShouldResemble, Path{{0, 0}, {2, 0}})

	// Direction changes are kept.
	path = Path{{0, 0}, {1, 0}, {1, 1}}
	test.That(t, ReduceRedundant(path), test.ShouldResemble, Path{{0, 0}, {1, 0}, {1, 1}})

	// Endpoints always survive, even on degenerate paths.
	path = Path{{0, 0}, {0, 0}}
	test.That(t, ReduceRedundant(path), test.ShouldResemble, Path{{0, 0}, {0, 0}})
	path = Path{{3, 3}}
	test.That(t, ReduceRedundant(path), test.ShouldResemble, Path{{3, 3}})
}

func TestPathEvaluate(t *testing.T) {
	path := Path{{0, 0}, {3, 4}, {3, 5}}
	test.That(t, path.Evaluate(defaultDistanceFunc), test.ShouldAlmostEqual, 6., 1e-9)
	test.That(t, Path{{0, 0}}.Evaluate(defaultDistanceFunc), test.ShouldEqual, math.Inf(1))
}

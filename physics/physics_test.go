package physics

import (
	"math"
	"testing"

	"github.com/PhivPap/n-body-2d/bodystore"
	"github.com/PhivPap/n-body-2d/quadtree"
)

func TestAllPairsAccelSymmetricTwoBody(t *testing.T) {
	s, err := bodystore.New(
		[]string{"a", "b"},
		[]float64{1e10, 1e10},
		[]bodystore.Vec2{{X: -1, Y: 0}, {X: 1, Y: 0}},
		[]bodystore.Vec2{{}, {}},
	)
	if err != nil {
		t.Fatal(err)
	}
	ax := make([]float64, 2)
	ay := make([]float64, 2)
	AllPairsAccel(s, 0, 0, 2, ax, ay)

	if ax[0] <= 0 {
		t.Fatalf("body a should accelerate toward b (+x), got ax[0]=%v", ax[0])
	}
	if ax[1] >= 0 {
		t.Fatalf("body b should accelerate toward a (-x), got ax[1]=%v", ax[1])
	}
	if math.Abs(ax[0]+ax[1]) > 1e-15 {
		t.Fatalf("equal masses should produce equal-magnitude opposite accelerations: %v vs %v", ax[0], ax[1])
	}
}

func TestAllPairsAccelZeroForSingleBody(t *testing.T) {
	s, _ := bodystore.New([]string{"a"}, []float64{1}, []bodystore.Vec2{{}}, []bodystore.Vec2{{}})
	ax := make([]float64, 1)
	ay := make([]float64, 1)
	AllPairsAccel(s, 0, 0, 1, ax, ay)
	if ax[0] != 0 || ay[0] != 0 {
		t.Fatalf("single body should feel no force, got (%v,%v)", ax[0], ay[0])
	}
}

func TestBarnesHutMatchesAllPairsForWellSeparatedBodies(t *testing.T) {
	s, err := bodystore.New(
		[]string{"a", "b", "c", "d"},
		[]float64{1e12, 1e12, 1e12, 1e12},
		[]bodystore.Vec2{{X: -1000, Y: -1000}, {X: 1000, Y: -1000}, {X: -1000, Y: 1000}, {X: 1000, Y: 1000}},
		[]bodystore.Vec2{{}, {}, {}, {}},
	)
	if err != nil {
		t.Fatal(err)
	}

	axExact := make([]float64, 4)
	ayExact := make([]float64, 4)
	AllPairsAccel(s, 0, 0, 4, axExact, ayExact)

	tree := quadtree.New()
	tree.Build(s)
	axApprox := make([]float64, 4)
	ayApprox := make([]float64, 4)
	BarnesHutAccel(s, tree, 0, 0, 4, axApprox, ayApprox)

	for i := 0; i < 4; i++ {
		if math.Abs(axExact[i]-axApprox[i]) > 1e-9*math.Abs(axExact[i])+1e-30 {
			t.Fatalf("body %d: ax exact=%v approx=%v diverge", i, axExact[i], axApprox[i])
		}
		if math.Abs(ayExact[i]-ayApprox[i]) > 1e-9*math.Abs(ayExact[i])+1e-30 {
			t.Fatalf("body %d: ay exact=%v approx=%v diverge", i, ayExact[i], ayApprox[i])
		}
	}
}

// TestBarnesHutOpeningCriterionMatchesSquaredForm builds a square 4-body
// cluster (corners at ±1,±1, so the root node's SizeX=SizeY=2) and queries
// a point at distance 3.1 along the x-axis — close enough that
// sizeLen²/dist² (8/9.61≈0.832) exceeds Theta (0.7), so the root must be
// opened and the traversal has to recurse into its four single-body
// leaves, giving an exact result. A size/dist comparison using the
// unsquared Euclidean distance and the node's longer side (2/3.1≈0.645)
// would wrongly fall under Theta and treat the root as one point mass,
// substituting a monopole approximation for the exact sum; comparing
// against AllPairsAccel on the same bodies catches that regression.
func TestBarnesHutOpeningCriterionMatchesSquaredForm(t *testing.T) {
	cluster, err := bodystore.New(
		[]string{"a", "b", "c", "d"},
		[]float64{1e12, 1e12, 1e12, 1e12},
		[]bodystore.Vec2{{X: -1, Y: -1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: 1, Y: 1}},
		[]bodystore.Vec2{{}, {}, {}, {}},
	)
	if err != nil {
		t.Fatal(err)
	}

	probe := bodystore.Vec2{X: 3.1, Y: 0}
	full, err := bodystore.New(
		[]string{"a", "b", "c", "d", "probe"},
		[]float64{1e12, 1e12, 1e12, 1e12, 1},
		[]bodystore.Vec2{{X: -1, Y: -1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: 1, Y: 1}, probe},
		[]bodystore.Vec2{{}, {}, {}, {}, {}},
	)
	if err != nil {
		t.Fatal(err)
	}
	axExact := make([]float64, 5)
	ayExact := make([]float64, 5)
	AllPairsAccel(full, 0, 4, 5, axExact, ayExact)

	tree := quadtree.New()
	tree.Build(cluster)
	if tree.Root().SizeX != 2 || tree.Root().SizeY != 2 {
		t.Fatalf("test setup: root size = (%v,%v), want (2,2)", tree.Root().SizeX, tree.Root().SizeY)
	}

	fx, fy := accelAt(tree, 0, probe, 0)
	if math.Abs(fx-axExact[4]) > 1e-6*math.Abs(axExact[4]) {
		t.Fatalf("ax = %v, want %v (root should have been opened at this distance)", fx, axExact[4])
	}
	if math.Abs(fy-ayExact[4]) > 1e-6*math.Abs(ayExact[4])+1e-30 {
		t.Fatalf("ay = %v, want %v", fy, ayExact[4])
	}
}

func TestSofteningLengthZeroForTrivialStores(t *testing.T) {
	empty, _ := bodystore.New(nil, nil, nil, nil)
	if got := SofteningLength(empty, 0.1); got != 0 {
		t.Fatalf("SofteningLength(empty) = %v, want 0", got)
	}
	single, _ := bodystore.New([]string{"a"}, []float64{1}, []bodystore.Vec2{{}}, []bodystore.Vec2{{}})
	if got := SofteningLength(single, 0.1); got != 0 {
		t.Fatalf("SofteningLength(single) = %v, want 0", got)
	}
}

func TestSofteningLengthScalesWithFactor(t *testing.T) {
	s, _ := bodystore.New(
		[]string{"a", "b"},
		[]float64{1, 1},
		[]bodystore.Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}},
		[]bodystore.Vec2{{}, {}},
	)
	lo := SofteningLength(s, 0.1)
	hi := SofteningLength(s, 0.2)
	if math.Abs(hi-2*lo) > 1e-9 {
		t.Fatalf("softening length should scale linearly with factor: lo=%v hi=%v", lo, hi)
	}
	if math.Abs(lo-1.0) > 1e-9 {
		t.Fatalf("average pairwise distance for 2 bodies 10 apart should be 10, got softening/factor=%v", lo/0.1)
	}
}

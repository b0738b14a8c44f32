package physics

import (
	"math"

	"github.com/PhivPap/n-body-2d/bodystore"
	"github.com/PhivPap/n-body-2d/quadtree"
)

// BarnesHutAccel computes the gravitational acceleration on every body in
// [start, end) by traversing tree, opening internal nodes whose squared
// size over squared distance exceeds Theta and otherwise treating them as
// a single point mass at their center of mass. eps2 is the squared
// Plummer softening length.
func BarnesHutAccel(store *bodystore.Store, tree *quadtree.Quadtree, eps2 float64, start, end int, accelX, accelY []float64) {
	if tree.Len() == 0 {
		for i := start; i < end; i++ {
			accelX[i] = 0
			accelY[i] = 0
		}
		return
	}
	for i := start; i < end; i++ {
		p := store.Pos(i)
		fx, fy := accelAt(tree, 0, p, eps2)
		accelX[i] = fx
		accelY[i] = fy
	}
}

// accelAt returns the acceleration at world position p due to every body
// under the subtree rooted at node index idx, excluding a body exactly
// coincident with p (the self-interaction skip, since a leaf holding the
// querying body has a center of mass identical to p).
func accelAt(tree *quadtree.Quadtree, idx int, p bodystore.Vec2, eps2 float64) (float64, float64) {
	node := tree.Node(idx)
	if node.BodyCount == 0 {
		return 0, 0
	}

	if node.IsLeaf() {
		if node.CenterOfMass == p {
			return 0, 0
		}
		return pointAccel(p, node.CenterOfMass, node.TotalMass, eps2)
	}

	rx := node.CenterOfMass.X - p.X
	ry := node.CenterOfMass.Y - p.Y
	dist2 := rx*rx + ry*ry
	sizeLen2 := node.SizeX*node.SizeX + node.SizeY*node.SizeY

	if dist2 > 0 && sizeLen2/dist2 < Theta {
		return pointAccel(p, node.CenterOfMass, node.TotalMass, eps2)
	}

	var fx, fy float64
	for c := 0; c < 4; c++ {
		cx, cy := accelAt(tree, node.ChildrenBase+c, p, eps2)
		fx += cx
		fy += cy
	}
	return fx, fy
}

// pointAccel returns the acceleration at p due to a point mass m at com,
// with the same Plummer softening applied as the all-pairs kernel.
func pointAccel(p, com bodystore.Vec2, m float64, eps2 float64) (float64, float64) {
	rx := com.X - p.X
	ry := com.Y - p.Y
	dist2 := rx*rx + ry*ry + eps2
	if dist2 == 0 {
		return 0, 0
	}
	invDist := 1.0 / math.Sqrt(dist2)
	invDist3 := invDist * invDist * invDist
	f := G * m * invDist3
	return f * rx, f * ry
}

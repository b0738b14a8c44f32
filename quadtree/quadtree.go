// Package quadtree builds the region quadtree used by the Barnes-Hut force
// evaluator. It is a flat, reusable slice of Quad nodes rebuilt from a
// bodystore.Store every iteration: reserve 1.1x the previous node count,
// fill depth-first, then aggregate parents from their filled children.
package quadtree

import (
	"github.com/PhivPap/n-body-2d/bodystore"
)

// maxDepth caps recursion for degenerate inputs (coincident bodies) so the
// build always terminates: once a node's rectangle halves maxDepth times,
// a body_count>=2 node with points that won't separate is promoted to a
// leaf that coalesces them into one aggregate, rather than subdividing
// forever. Chosen over a minimum-rectangle-size floor because a depth cap
// is scale-invariant; a size floor would need a world-unit-dependent
// epsilon.
const maxDepth = 48

// Quad is one node of the flat quadtree. A node is a leaf iff
// ChildrenBase == 0 (the root can never be a child, so 0 is unambiguous).
type Quad struct {
	OriginX, OriginY float64
	SizeX, SizeY     float64

	ChildrenBase int // index of first of 4 contiguous children, 0 = leaf
	BodyCount    int

	TotalMass    float64
	CenterOfMass bodystore.Vec2
	Momentum     bodystore.Vec2 // Σ mᵢ·vᵢ over bodies under this node

	bodyIdxs []int // transient, empty after build completes
	depth    int
}

// IsLeaf reports whether q is a leaf node.
func (q *Quad) IsLeaf() bool { return q.ChildrenBase == 0 }

// Quadtree is a flat ordered sequence of Quads; index 0 is the root. It is
// reused across iterations: Build clears and reserves at >=1.1x the
// previous size before rebuilding.
type Quadtree struct {
	quads []Quad
}

// New returns an empty Quadtree ready for its first Build.
func New() *Quadtree {
	return &Quadtree{}
}

// Len returns the number of nodes in the most recently built tree.
func (t *Quadtree) Len() int { return len(t.quads) }

// Node returns the node at index i (0 is the root).
func (t *Quadtree) Node(i int) *Quad { return &t.quads[i] }

// Root returns the root node, or nil if the tree is empty (Build has not
// been called yet, or the most recent Build was over an empty store).
func (t *Quadtree) Root() *Quad {
	if len(t.quads) == 0 {
		return nil
	}
	return &t.quads[0]
}

// Build reconstructs the tree over the given store's current body
// positions. It borrows the store for the duration of the call only.
func (t *Quadtree) Build(store *bodystore.Store) {
	prevLen := len(t.quads)
	want := prevLen + prevLen/10
	if want < 4 {
		want = 4
	}
	if cap(t.quads) < want {
		grown := make([]Quad, 0, want)
		t.quads = grown
	} else {
		t.quads = t.quads[:0]
	}

	n := store.Len()
	if n == 0 {
		return
	}

	ox, oy, sx, sy := store.Bounds()

	root := Quad{OriginX: ox, OriginY: oy, SizeX: sx, SizeY: sy, depth: 0}
	root.bodyIdxs = make([]int, n)
	for i := 0; i < n; i++ {
		root.bodyIdxs[i] = i
		root.TotalMass += store.Mass(i)
	}
	root.BodyCount = n
	t.quads = append(t.quads, root)

	t.refine(0, store)
}

// refine recursively subdivides the node at index idx in place. Appending
// to t.quads inside the recursion can reallocate the backing array, so
// every step re-derives pointers/indices from t.quads rather than holding
// a *Quad across an append.
func (t *Quadtree) refine(idx int, store *bodystore.Store) {
	bc := t.quads[idx].BodyCount

	if bc == 0 {
		return
	}

	if bc == 1 {
		q := &t.quads[idx]
		bi := q.bodyIdxs[0]
		q.CenterOfMass = store.Pos(bi)
		q.TotalMass = store.Mass(bi)
		v := store.Vel(bi)
		q.Momentum = bodystore.Vec2{X: q.TotalMass * v.X, Y: q.TotalMass * v.Y}
		q.bodyIdxs = nil
		return
	}

	if t.quads[idx].depth >= maxDepth {
		// Degenerate: coincident (or near-coincident) bodies that never
		// separate under subdivision. Coalesce into a single aggregate
		// rather than recursing forever.
		q := &t.quads[idx]
		var totalMass float64
		var comX, comY, momX, momY float64
		for _, bi := range q.bodyIdxs {
			m := store.Mass(bi)
			p := store.Pos(bi)
			v := store.Vel(bi)
			totalMass += m
			comX += m * p.X
			comY += m * p.Y
			momX += m * v.X
			momY += m * v.Y
		}
		q.TotalMass = totalMass
		if totalMass > 0 {
			q.CenterOfMass = bodystore.Vec2{X: comX / totalMass, Y: comY / totalMass}
		}
		q.Momentum = bodystore.Vec2{X: momX, Y: momY}
		q.bodyIdxs = nil
		return
	}

	cx := t.quads[idx].OriginX + t.quads[idx].SizeX/2
	cy := t.quads[idx].OriginY + t.quads[idx].SizeY/2
	hx := t.quads[idx].SizeX / 2
	hy := t.quads[idx].SizeY / 2
	ox := t.quads[idx].OriginX
	oy := t.quads[idx].OriginY
	depth := t.quads[idx].depth + 1
	bodyIdxs := t.quads[idx].bodyIdxs

	childrenBase := len(t.quads)
	t.quads[idx].ChildrenBase = childrenBase

	// NW, NE, SW, SE declaration order.
	t.quads = append(t.quads,
		Quad{OriginX: ox, OriginY: oy, SizeX: hx, SizeY: hy, depth: depth},
		Quad{OriginX: cx, OriginY: oy, SizeX: hx, SizeY: hy, depth: depth},
		Quad{OriginX: ox, OriginY: cy, SizeX: hx, SizeY: hy, depth: depth},
		Quad{OriginX: cx, OriginY: cy, SizeX: hx, SizeY: hy, depth: depth},
	)

	var nwIdxs, neIdxs, swIdxs, seIdxs []int
	for _, bi := range bodyIdxs {
		p := store.Pos(bi)
		switch {
		case p.X < cx && p.Y < cy:
			nwIdxs = append(nwIdxs, bi)
		case p.X >= cx && p.Y < cy:
			neIdxs = append(neIdxs, bi)
		case p.X < cx && p.Y >= cy:
			swIdxs = append(swIdxs, bi)
		default:
			seIdxs = append(seIdxs, bi)
		}
	}

	t.quads[childrenBase+0].bodyIdxs = nwIdxs
	t.quads[childrenBase+0].BodyCount = len(nwIdxs)
	for _, bi := range nwIdxs {
		t.quads[childrenBase+0].TotalMass += store.Mass(bi)
	}
	t.quads[childrenBase+1].bodyIdxs = neIdxs
	t.quads[childrenBase+1].BodyCount = len(neIdxs)
	for _, bi := range neIdxs {
		t.quads[childrenBase+1].TotalMass += store.Mass(bi)
	}
	t.quads[childrenBase+2].bodyIdxs = swIdxs
	t.quads[childrenBase+2].BodyCount = len(swIdxs)
	for _, bi := range swIdxs {
		t.quads[childrenBase+2].TotalMass += store.Mass(bi)
	}
	t.quads[childrenBase+3].bodyIdxs = seIdxs
	t.quads[childrenBase+3].BodyCount = len(seIdxs)
	for _, bi := range seIdxs {
		t.quads[childrenBase+3].TotalMass += store.Mass(bi)
	}

	t.quads[idx].bodyIdxs = nil

	t.refine(childrenBase+0, store)
	t.refine(childrenBase+1, store)
	t.refine(childrenBase+2, store)
	t.refine(childrenBase+3, store)

	// Aggregate up. childrenBase is stable (children never reallocate
	// their own subtree's base once appended), but t.quads may have grown;
	// re-index through the slice rather than holding stale pointers.
	var totalMass, comX, comY, momX, momY float64
	for c := 0; c < 4; c++ {
		child := &t.quads[childrenBase+c]
		totalMass += child.TotalMass
		comX += child.TotalMass * child.CenterOfMass.X
		comY += child.TotalMass * child.CenterOfMass.Y
		momX += child.Momentum.X
		momY += child.Momentum.Y
	}
	q := &t.quads[idx]
	q.TotalMass = totalMass
	if totalMass > 0 {
		q.CenterOfMass = bodystore.Vec2{X: comX / totalMass, Y: comY / totalMass}
	}
	q.Momentum = bodystore.Vec2{X: momX, Y: momY}
}

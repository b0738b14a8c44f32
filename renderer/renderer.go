// Package renderer draws the live BodyStore and an optional reference
// grid each frame, delegating world-to-pixel projection to Viewport.
package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/PhivPap/n-body-2d/bodystore"
	"github.com/PhivPap/n-body-2d/viewport"
)

// gridBase is G, the base of the grid's auto-refining spacing formula.
const gridBase = 4.0

// Renderer draws bodies and an optional grid through a Viewport.
type Renderer struct {
	GridEnabled bool
	BodyPixels  float32
}

// New returns a Renderer with the given initial flags.
func New(gridEnabled bool, bodyPixels float32) *Renderer {
	return &Renderer{GridEnabled: gridEnabled, BodyPixels: bodyPixels}
}

// Draw clears the frame, optionally draws the grid, then draws every body,
// then presents. Must be called on raylib's render thread (the main thread).
func (r *Renderer) Draw(store *bodystore.Store, vp *viewport.Viewport) {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	rl.ClearBackground(rl.Black)

	if r.GridEnabled {
		r.drawGrid(vp)
	}
	r.drawBodies(store, vp)
}

// drawGrid draws grid lines spaced at G^(floor(log_G(min(size)))-1) world
// units apart, semi-transparent white over the black background, so the
// grid auto-refines as the viewport zooms: it always shows between G and
// G² lines along the window's short dimension.
func (r *Renderer) drawGrid(vp *viewport.Viewport) {
	size := vp.Size()
	minSize := math.Min(size.X, size.Y)
	if minSize <= 0 {
		return
	}
	exponent := math.Floor(math.Log(minSize)/math.Log(gridBase)) - 1
	spacing := math.Pow(gridBase, exponent)
	if spacing <= 0 {
		return
	}

	gridColor := rl.NewColor(255, 255, 255, 40)
	origin := vp.Origin()

	startX := math.Floor(origin.X/spacing) * spacing
	for x := startX; x <= origin.X+size.X; x += spacing {
		top := vp.Project(viewport.Vec2{X: x, Y: origin.Y})
		bottom := vp.Project(viewport.Vec2{X: x, Y: origin.Y + size.Y})
		rl.DrawLine(int32(top.X), int32(top.Y), int32(bottom.X), int32(bottom.Y), gridColor)
	}

	startY := math.Floor(origin.Y/spacing) * spacing
	for y := startY; y <= origin.Y+size.Y; y += spacing {
		left := vp.Project(viewport.Vec2{X: origin.X, Y: y})
		right := vp.Project(viewport.Vec2{X: origin.X + size.X, Y: y})
		rl.DrawLine(int32(left.X), int32(left.Y), int32(right.X), int32(right.Y), gridColor)
	}
}

// drawBodies projects and draws one point per body. Off-screen bodies are
// not culled explicitly: the underlying rasterization call discards them.
func (r *Renderer) drawBodies(store *bodystore.Store, vp *viewport.Viewport) {
	for i := 0; i < store.Len(); i++ {
		px := vp.Project(viewport.Vec2(store.Pos(i)))
		rl.DrawCircle(int32(px.X), int32(px.Y), r.BodyPixels, rl.White)
	}
}

// Package viewport implements the affine window/world mapping used by the
// renderer and by interactive pan/zoom/resize.
package viewport

import "log/slog"

// Direction selects which way Zoom moves the view.
type Direction int

const (
	ZoomIn Direction = iota
	ZoomOut
)

const (
	// DefaultZoomFactor is Z, the per-call multiplicative zoom step.
	DefaultZoomFactor = 0.99
	minPixelScale     = 1e-12
	maxPixelScale     = 8.8e50
)

// Vec2 is a plain 2D double-precision vector (world or pixel units,
// depending on context).
type Vec2 struct {
	X, Y float64
}

// Viewport maps between pixel coordinates on the window and world
// coordinates of the simulation, maintaining origin/size ~= window_px *
// pixel_scale.
type Viewport struct {
	windowPx   Vec2
	pixelScale float64

	origin Vec2
	size   Vec2

	zoomFactor float64
}

// New returns a Viewport centered on the world origin, sized to
// windowPx*pixelScale.
func New(windowPx Vec2, pixelScale float64) *Viewport {
	v := &Viewport{windowPx: windowPx, pixelScale: pixelScale, zoomFactor: DefaultZoomFactor}
	v.computeSize()
	v.origin.X -= v.size.X / 2
	v.origin.Y -= v.size.Y / 2
	return v
}

func (v *Viewport) computeSize() {
	v.size = Vec2{X: v.windowPx.X * v.pixelScale, Y: v.windowPx.Y * v.pixelScale}
}

// WindowPx returns the current window resolution in pixels.
func (v *Viewport) WindowPx() Vec2 { return v.windowPx }

// PixelScale returns the current world-units-per-pixel scale.
func (v *Viewport) PixelScale() float64 { return v.pixelScale }

// Origin returns the world-space origin (minimum x, minimum y) of the
// viewport rectangle, which Project maps to pixel (0,0), the window's top-left.
func (v *Viewport) Origin() Vec2 { return v.origin }

// Size returns the world-space size of the viewport rectangle.
func (v *Viewport) Size() Vec2 { return v.size }

// Resize keeps pixel_scale fixed, updates world size, leaves origin unchanged.
func (v *Viewport) Resize(newPx Vec2) {
	v.windowPx = newPx
	v.computeSize()
}

// Pan translates the origin by Δpx/window_px · size.
func (v *Viewport) Pan(deltaPx Vec2) {
	v.origin.X += (deltaPx.X / v.windowPx.X) * v.size.X
	v.origin.Y += (deltaPx.Y / v.windowPx.Y) * v.size.Y
}

// Zoom multiplies (IN) or divides (OUT) pixel_scale by zoomFactor, keeping
// the world point under cursorPx fixed on screen. Rejects with a warning
// (no state change) if the resulting pixel_scale would leave
// [1e-12, 8.8e50].
func (v *Viewport) Zoom(direction Direction, cursorPx Vec2) {
	z := v.zoomFactor
	switch direction {
	case ZoomIn:
		newScale := v.pixelScale * z
		if newScale < minPixelScale {
			slog.Warn("viewport: reached max zoom, cannot zoom in")
			return
		}
		v.pixelScale = newScale
		v.origin.X += (cursorPx.X / v.windowPx.X) * v.size.X * (1 - z)
		v.origin.Y += (cursorPx.Y / v.windowPx.Y) * v.size.Y * (1 - z)
		v.computeSize()
	case ZoomOut:
		newScale := v.pixelScale / z
		if newScale > maxPixelScale {
			slog.Warn("viewport: reached min zoom, cannot zoom out")
			return
		}
		v.pixelScale = newScale
		v.computeSize()
		v.origin.X -= (cursorPx.X / v.windowPx.X) * v.size.X * (1 - z)
		v.origin.Y -= (cursorPx.Y / v.windowPx.Y) * v.size.Y * (1 - z)
	}
}

// Project maps a world position to pixel coordinates:
// (world_pos - origin)/size · window_px. Off-screen culling is the
// caller's concern.
func (v *Viewport) Project(worldPos Vec2) Vec2 {
	relX := (worldPos.X - v.origin.X) / v.size.X
	relY := (worldPos.Y - v.origin.Y) / v.size.Y
	return Vec2{X: relX * v.windowPx.X, Y: relY * v.windowPx.Y}
}

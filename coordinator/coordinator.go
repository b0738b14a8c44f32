// Package coordinator owns configuration, the Engine variant, and the
// Renderer, translating raylib input events into viewport and engine
// mutations and driving the display loop.
package coordinator

import (
	"sync/atomic"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/PhivPap/n-body-2d/bodystore"
	"github.com/PhivPap/n-body-2d/config"
	"github.com/PhivPap/n-body-2d/engine"
	"github.com/PhivPap/n-body-2d/renderer"
	"github.com/PhivPap/n-body-2d/stats"
	"github.com/PhivPap/n-body-2d/viewport"
)

// TimestepChangeFactor is the multiplicative step applied to Δt by the
// ←/→ keys.
const TimestepChangeFactor = 1.1

// TimestepRange bounds Δt reachable via keyboard control, matching the
// configuration file's own validated range.
var TimestepRange = [2]float64{1e-12, 3.15569e16}

const bodyPixelsMin = 1.0
const bodyPixelsMax = 32.0

// Coordinator owns the live Config, Engine, and Renderer and drives the
// interactive loop on the caller's (main/display) goroutine.
type Coordinator struct {
	cfg    *config.Config
	engine engine.Engine
	vp     *viewport.Viewport
	rnd    *renderer.Renderer

	statsLimiter *stats.RateLimiter

	grabbed   bool
	lastMouse viewport.Vec2

	requestedTimestep float64

	lastStats     engine.Stats
	stopRequested atomic.Bool
}

// Stats returns the most recently refreshed statistics snapshot, sampled
// at up to Graphics.panel_update_hz. The on-screen panel that formats
// these into humanized units is an external collaborator (out of scope);
// this is the data it would consume.
func (c *Coordinator) Stats() engine.Stats { return c.lastStats }

// New wires a Coordinator around an already-constructed Engine; the Store
// to draw is passed to RunGraphical.
func New(cfg *config.Config, eng engine.Engine) *Coordinator {
	res := cfg.Graphics.Resolution
	vp := viewport.New(viewport.Vec2{X: float64(res[0]), Y: float64(res[1])}, cfg.Graphics.PixelScale)
	rnd := renderer.New(cfg.Graphics.GridEnabled, 2.0)

	interval := time.Duration(float64(time.Second) / cfg.Graphics.PanelUpdateHz)
	return &Coordinator{
		cfg:               cfg,
		engine:            eng,
		vp:                vp,
		rnd:               rnd,
		statsLimiter:      stats.NewRateLimiter(interval),
		requestedTimestep: cfg.Simulation.Timestep,
	}
}

// RequestStop sets the external stop flag observed by the loop
// termination checks of RunHeadless and RunGraphical (used by the SIGINT
// handler).
func (c *Coordinator) RequestStop() {
	c.stopRequested.Store(true)
}

// RunHeadless drives the engine to completion with no window and no
// input handling, polling only the stop flag (set by the SIGINT
// handler). Used when Graphics.enabled is false.
func (c *Coordinator) RunHeadless() {
	c.engine.Run()
	for {
		if c.engine.IsFinished() {
			return
		}
		if c.stopRequested.Load() {
			c.engine.Pause()
			return
		}
		time.Sleep(time.Millisecond)
	}
}

// RunGraphical drives the windowed display loop until the engine
// finishes, a stop is requested, or the window is closed. In the latter
// two cases it pauses the engine before returning so the caller can
// safely persist final state.
func (c *Coordinator) RunGraphical(store *bodystore.Store) {
	res := c.cfg.Graphics.Resolution
	rl.InitWindow(int32(res[0]), int32(res[1]), "n-body-2d")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(c.cfg.Graphics.FPS))
	if c.cfg.Graphics.Vsync {
		rl.SetWindowState(rl.FlagVsyncHint)
	}

	c.engine.Run()

	for {
		if c.engine.IsFinished() {
			return
		}
		if c.stopRequested.Load() || rl.WindowShouldClose() {
			c.engine.Pause()
			return
		}

		c.handleInput()
		c.statsLimiter.Try(time.Now(), func() { c.lastStats = c.engine.Stats() })
		c.rnd.Draw(store, c.vp)
	}
}

func (c *Coordinator) handleInput() {
	if rl.IsWindowResized() {
		w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
		c.vp.Resize(viewport.Vec2{X: float64(w), Y: float64(h)})
	}

	wheel := rl.GetMouseWheelMove()
	if wheel != 0 {
		mp := rl.GetMousePosition()
		dir := viewport.ZoomIn
		if wheel < 0 {
			dir = viewport.ZoomOut
		}
		c.vp.Zoom(dir, viewport.Vec2{X: float64(mp.X), Y: float64(mp.Y)})
	}

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		c.grabbed = true
		mp := rl.GetMousePosition()
		c.lastMouse = viewport.Vec2{X: float64(mp.X), Y: float64(mp.Y)}
	}
	if rl.IsMouseButtonReleased(rl.MouseButtonLeft) {
		c.grabbed = false
	}
	if c.grabbed {
		mp := rl.GetMousePosition()
		cur := viewport.Vec2{X: float64(mp.X), Y: float64(mp.Y)}
		c.vp.Pan(viewport.Vec2{X: cur.X - c.lastMouse.X, Y: cur.Y - c.lastMouse.Y})
		c.lastMouse = cur
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		c.toggleRun()
	}
	if rl.IsKeyPressed(rl.KeyG) {
		c.rnd.GridEnabled = !c.rnd.GridEnabled
	}
	if rl.IsKeyPressed(rl.KeyS) {
		c.cfg.Graphics.ShowPanel = !c.cfg.Graphics.ShowPanel
	}
	if rl.IsKeyPressed(rl.KeyLeft) {
		c.scaleTimestep(1 / TimestepChangeFactor)
	}
	if rl.IsKeyPressed(rl.KeyRight) {
		c.scaleTimestep(TimestepChangeFactor)
	}
	if rl.IsKeyPressed(rl.KeyUp) && c.rnd.BodyPixels < bodyPixelsMax {
		c.rnd.BodyPixels++
	}
	if rl.IsKeyPressed(rl.KeyDown) && c.rnd.BodyPixels > bodyPixelsMin {
		c.rnd.BodyPixels--
	}
}

func (c *Coordinator) toggleRun() {
	if c.engine.State() == engine.Running {
		c.engine.Pause()
	} else {
		c.engine.Run()
	}
}

// scaleTimestep multiplies the coordinator's tracked Δt by factor and
// forwards it to the engine. The engine only exposes SetTimestep (a
// relaxed write), not a getter, so the coordinator is the single source
// of truth for "what Δt did we last request."
func (c *Coordinator) scaleTimestep(factor float64) {
	c.requestedTimestep *= factor
	if c.requestedTimestep < TimestepRange[0] {
		c.requestedTimestep = TimestepRange[0]
	}
	if c.requestedTimestep > TimestepRange[1] {
		c.requestedTimestep = TimestepRange[1]
	}
	c.engine.SetTimestep(c.requestedTimestep)
}

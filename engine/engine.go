// Package engine owns the simulation state machine: the all-pairs and
// Barnes-Hut force-evaluation kernels, the run/pause lifecycle, and the
// live iteration statistics the Coordinator polls.
package engine

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/PhivPap/n-body-2d/bodystore"
	"github.com/PhivPap/n-body-2d/physics"
	"github.com/PhivPap/n-body-2d/stats"
)

// State is the engine's run state.
type State int

const (
	Paused State = iota
	Running
	Finished
)

func (s State) String() string {
	switch s {
	case Paused:
		return "paused"
	case Running:
		return "running"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// Stats is a point-in-time snapshot of the engine's progress.
type Stats struct {
	Iteration        uint64
	IterationsPerSec float64
	RealElapsed      time.Duration
	SimulatedElapsed time.Duration
}

// meanBufferWindow is the default moving-average window for iterations/sec.
const meanBufferWindow = 60

// statsRateLimit is the default minimum interval between stats recomputes.
const statsRateLimit = 50 * time.Microsecond

// Engine is the shared contract between the all-pairs and Barnes-Hut
// kernels. Both are state machines: Paused (initial) ⇄ Running →
// Finished (terminal once Iteration == MaxIterations).
type Engine interface {
	// Run transitions Paused -> Running. Idempotent (warns, no-ops) if
	// already Running or Finished.
	Run() error
	// Pause transitions Running -> Paused, blocking until all worker
	// goroutines have quiesced. A no-op on Paused or Finished.
	Pause()
	// SetTimestep requests a new Δt, applied at the start of the next
	// iteration.
	SetTimestep(dt float64)
	// State returns the current run state.
	State() State
	// Stats returns a snapshot of iteration statistics.
	Stats() Stats
	// IsFinished reports whether the engine has reached Finished.
	IsFinished() bool
	// Close guarantees all worker goroutines are joined and the internal
	// stopwatches are paused; safe to call multiple times.
	Close()
}

// common holds the fields shared by both kernel implementations: state
// machine guard, stats, softening, and the atomic controls threads
// observe without locking.
type common struct {
	mu    sync.Mutex
	state State

	maxIterations uint64
	iteration     uint64

	eps2 float64

	timestepBits atomic.Uint64 // math.Float64bits(Δt), relaxed atomic

	statsMu       sync.Mutex
	iterPerSec    *stats.MeanBuffer
	realClock     *stats.StopWatch
	simElapsed    time.Duration
	statsLimiter  *stats.RateLimiter
	lastStatsIter uint64
	lastStatsWall time.Time
}

func newCommon(maxIterations uint64, timestep float64, eps2 float64) *common {
	c := &common{
		state:         Paused,
		maxIterations: maxIterations,
		eps2:          eps2,
		iterPerSec:    stats.NewMeanBuffer(meanBufferWindow),
		realClock:     stats.NewStopWatch(),
		statsLimiter:  stats.NewRateLimiter(statsRateLimit),
	}
	c.timestepBits.Store(math.Float64bits(timestep))
	return c
}

func (c *common) timestep() float64 {
	return math.Float64frombits(c.timestepBits.Load())
}

func (c *common) SetTimestep(dt float64) {
	c.timestepBits.Store(math.Float64bits(dt))
}

func (c *common) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *common) IsFinished() bool {
	return c.State() == Finished
}

func (c *common) Stats() Stats {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	c.mu.Lock()
	iter := c.iteration
	c.mu.Unlock()
	return Stats{
		Iteration:        iter,
		IterationsPerSec: c.iterPerSec.Mean(),
		RealElapsed:      c.realClock.Elapsed(time.Now()),
		SimulatedElapsed: c.simElapsed,
	}
}

// postIteration increments the iteration counter, advances accumulated
// simulated time by dt, and — gated by the stats RateLimiter — recomputes
// the moving-average iterations/second. Called only by the master thread.
func (c *common) postIteration(dt float64, now time.Time) {
	c.mu.Lock()
	c.iteration++
	iter := c.iteration
	c.mu.Unlock()

	c.statsMu.Lock()
	c.simElapsed += time.Duration(dt * float64(time.Second))
	c.statsLimiter.Try(now, func() {
		if c.lastStatsWall.IsZero() {
			c.lastStatsIter = iter
			c.lastStatsWall = now
			return
		}
		dIter := iter - c.lastStatsIter
		dReal := now.Sub(c.lastStatsWall).Seconds()
		if dReal > 0 {
			c.iterPerSec.Register(float64(dIter) / dReal)
		}
		c.lastStatsIter = iter
		c.lastStatsWall = now
	})
	c.statsMu.Unlock()
}

// pauseRealClock pauses the real-time stopwatch if it is still running,
// which is the case after the engine reached Finished on its own.
func (c *common) pauseRealClock() {
	if c.realClock.State() == stats.Running {
		c.realClock.Pause(time.Now())
	}
}

func (c *common) atIteration() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.iteration
}

func (c *common) atMaxIterations() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.iteration >= c.maxIterations
}

// validateThreads enforces the construction invariant threads ∈
// [1, min(256, N)].
func validateThreads(threads uint, n int) (int, error) {
	maxThreads := 256
	if n < maxThreads {
		maxThreads = n
	}
	if maxThreads < 1 {
		maxThreads = 1
	}
	t := int(threads)
	if t < 1 || t > maxThreads {
		return 0, fmt.Errorf("engine: threads %d outside [1, %d]", t, maxThreads)
	}
	return t, nil
}

// computeEps2 derives the squared Plummer softening length once at
// construction.
func computeEps2(store *bodystore.Store, softeningFactor float64) float64 {
	if softeningFactor == 0 {
		return 0
	}
	eps := physics.SofteningLength(store, softeningFactor)
	return eps * eps
}

func warnIdempotent(op string, state State) {
	slog.Warn("engine: no-op state transition", "op", op, "state", state.String())
}

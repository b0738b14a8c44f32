package engine

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/PhivPap/n-body-2d/bodystore"
	"github.com/PhivPap/n-body-2d/physics"
	"github.com/PhivPap/n-body-2d/quadtree"
	"github.com/PhivPap/n-body-2d/stats"
)

// BarnesHutEngine runs the approximate O(N log N) kernel with a master
// goroutine plus T-1 worker goroutines synchronized by a two-phase
// rendezvous barrier.
type BarnesHutEngine struct {
	*common

	store *bodystore.Store
	tree  *quadtree.Quadtree

	threads int
	chunk   int

	// dt is the Δt sampled by the master at the top of each iteration,
	// before B1, and read by every goroutine for that whole iteration.
	dt float64

	stop       atomic.Bool
	workerStop atomic.Bool

	barrier    *barrier
	workersWG  sync.WaitGroup
	masterDone chan struct{}

	// Per-phase timing of the master's own share of each iteration,
	// reported as a breakdown on Close.
	swTree *stats.StopWatch
	swVel  *stats.StopWatch
	swPos  *stats.StopWatch
}

// NewBarnesHutEngine validates construction parameters and returns a
// BarnesHutEngine in the Paused state.
func NewBarnesHutEngine(store *bodystore.Store, maxIterations uint64, timestep float64, threads uint, softeningFactor float64) (*BarnesHutEngine, error) {
	t, err := validateThreads(threads, store.Len())
	if err != nil {
		return nil, err
	}
	n := store.Len()
	chunk := n / t

	return &BarnesHutEngine{
		common:  newCommon(maxIterations, timestep, computeEps2(store, softeningFactor)),
		store:   store,
		tree:    quadtree.New(),
		threads: t,
		chunk:   chunk,
		barrier: newBarrier(t),
		swTree:  stats.NewStopWatch(),
		swVel:   stats.NewStopWatch(),
		swPos:   stats.NewStopWatch(),
	}, nil
}

// Run spawns the master and worker goroutines and returns immediately;
// the engine advances on its own goroutines, not the caller's.
func (e *BarnesHutEngine) Run() error {
	e.mu.Lock()
	switch e.state {
	case Running:
		e.mu.Unlock()
		warnIdempotent("run", Running)
		return nil
	case Finished:
		e.mu.Unlock()
		warnIdempotent("run", Finished)
		return nil
	}
	e.state = Running
	e.mu.Unlock()

	e.stop.Store(false)
	e.workerStop.Store(false)
	e.masterDone = make(chan struct{})
	e.realClock.Resume(time.Now())

	e.workersWG.Add(e.threads - 1)
	for w := 0; w < e.threads-1; w++ {
		go e.runWorker(w)
	}
	go e.runMaster()
	return nil
}

// Pause requests the master to stop at the next loop check and blocks
// until it has drained the in-progress iteration and joined all workers.
func (e *BarnesHutEngine) Pause() {
	e.mu.Lock()
	state := e.state
	e.mu.Unlock()
	if state != Running {
		warnIdempotent("pause", state)
		return
	}
	e.stop.Store(true)
	<-e.masterDone
	e.realClock.Pause(time.Now())
}

// Close joins any in-flight workers, pauses the internal stopwatch, and
// logs the per-phase timing breakdown; safe to call multiple times and
// after Pause.
func (e *BarnesHutEngine) Close() {
	if e.State() == Running {
		e.Pause()
	}
	e.pauseRealClock()
	now := time.Now()
	total := e.swTree.Add(now, e.swVel).Add(now, e.swPos)
	slog.Debug("barnes-hut phase timing",
		"tree", e.swTree.String(now), "tree_ratio", e.swTree.Ratio(now, total),
		"vel", e.swVel.String(now), "vel_ratio", e.swVel.Ratio(now, total),
		"pos", e.swPos.String(now), "pos_ratio", e.swPos.Ratio(now, total))
}

func (e *BarnesHutEngine) bodyRange(worker int) (int, int) {
	if worker == e.threads-1 {
		return worker * e.chunk, e.store.Len()
	}
	return worker * e.chunk, (worker + 1) * e.chunk
}

func (e *BarnesHutEngine) runWorker(w int) {
	defer e.workersWG.Done()
	accX := make([]float64, e.store.Len())
	accY := make([]float64, e.store.Len())
	for {
		e.barrier.wait() // B1
		if e.workerStop.Load() {
			return
		}
		start, end := e.bodyRange(w)
		e.advanceRange(start, end, accX, accY)
		e.barrier.wait() // B2
	}
}

func (e *BarnesHutEngine) runMaster() {
	defer close(e.masterDone)
	accX := make([]float64, e.store.Len())
	accY := make([]float64, e.store.Len())
	for {
		if e.stop.Load() {
			e.workerStop.Store(true)
			e.barrier.wait()
			e.workersWG.Wait()
			e.mu.Lock()
			e.state = Paused
			e.mu.Unlock()
			return
		}
		if e.atMaxIterations() {
			e.workerStop.Store(true)
			e.barrier.wait()
			e.workersWG.Wait()
			e.mu.Lock()
			e.state = Finished
			e.mu.Unlock()
			return
		}

		e.dt = e.timestep()
		e.swTree.Resume(time.Now())
		e.tree.Build(e.store)
		e.swTree.Pause(time.Now())
		e.barrier.wait() // B1

		start, end := e.bodyRange(e.threads - 1)

		e.swVel.Resume(time.Now())
		e.updateVelocities(start, end, accX, accY)
		e.swVel.Pause(time.Now())

		e.swPos.Resume(time.Now())
		e.updatePositions(start, end)
		e.swPos.Pause(time.Now())

		e.barrier.wait() // B2

		e.postIteration(e.dt, time.Now())
	}
}

// advanceRange computes Barnes-Hut accelerations for [start,end), applies
// the velocity update, then the position update — the mandatory
// forces-then-positions ordering. Used by workers, whose per-phase time is
// not individually tracked; the master instead calls updateVelocities and
// updatePositions directly so it can bracket each with its own stopwatch.
func (e *BarnesHutEngine) advanceRange(start, end int, accX, accY []float64) {
	e.updateVelocities(start, end, accX, accY)
	e.updatePositions(start, end)
}

// updateVelocities computes Barnes-Hut accelerations for [start,end) and
// applies the velocity update.
func (e *BarnesHutEngine) updateVelocities(start, end int, accX, accY []float64) {
	dt := e.dt
	physics.BarnesHutAccel(e.store, e.tree, e.eps2, start, end, accX, accY)
	for i := start; i < end; i++ {
		e.store.AddVel(i, bodystore.Vec2{X: accX[i] * dt, Y: accY[i] * dt})
	}
}

// updatePositions applies the position update for [start,end) from each
// body's (already updated) velocity.
func (e *BarnesHutEngine) updatePositions(start, end int) {
	dt := e.dt
	for i := start; i < end; i++ {
		v := e.store.Vel(i)
		e.store.AddPos(i, bodystore.Vec2{X: v.X * dt, Y: v.Y * dt})
	}
}

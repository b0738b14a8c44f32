package engine

import (
	"time"

	"github.com/PhivPap/n-body-2d/bodystore"
	"github.com/PhivPap/n-body-2d/physics"
)

// AllPairsEngine runs the exact O(N²) symmetric kernel on a single worker
// goroutine; pause sets a stop flag and joins it.
type AllPairsEngine struct {
	*common

	store *bodystore.Store

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewAllPairsEngine returns an AllPairsEngine in the Paused state.
func NewAllPairsEngine(store *bodystore.Store, maxIterations uint64, timestep float64, softeningFactor float64) *AllPairsEngine {
	return &AllPairsEngine{
		common: newCommon(maxIterations, timestep, computeEps2(store, softeningFactor)),
		store:  store,
	}
}

// Run spawns the single worker goroutine and returns immediately.
func (e *AllPairsEngine) Run() error {
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

	e.stopCh = make(chan struct{})
	e.doneCh = make(chan struct{})
	e.realClock.Resume(time.Now())

	go e.run()
	return nil
}

// Pause requests the worker to stop at the next loop check and blocks
// until it joins.
func (e *AllPairsEngine) Pause() {
	e.mu.Lock()
	state := e.state
	e.mu.Unlock()
	if state != Running {
		warnIdempotent("pause", state)
		return
	}
	close(e.stopCh)
	<-e.doneCh
	e.realClock.Pause(time.Now())
}

// Close joins the worker if still running and pauses the real-time
// stopwatch.
func (e *AllPairsEngine) Close() {
	if e.State() == Running {
		e.Pause()
	}
	e.pauseRealClock()
}

func (e *AllPairsEngine) run() {
	defer close(e.doneCh)
	for {
		select {
		case <-e.stopCh:
			e.mu.Lock()
			e.state = Paused
			e.mu.Unlock()
			return
		default:
		}
		if e.atMaxIterations() {
			e.mu.Lock()
			e.state = Finished
			e.mu.Unlock()
			return
		}

		dt := e.timestep()
		physics.AllPairsSymmetricVelocityUpdate(e.store, e.eps2, dt)
		physics.AdvancePositions(e.store, dt)

		e.postIteration(dt, time.Now())
	}
}

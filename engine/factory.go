package engine

import (
	"fmt"

	"github.com/PhivPap/n-body-2d/bodystore"
	"github.com/PhivPap/n-body-2d/config"
)

// New constructs the Engine variant named by cfg.Simulation.Algorithm.
func New(store *bodystore.Store, cfg *config.SimulationConfig) (Engine, error) {
	switch cfg.Algorithm {
	case config.BarnesHut:
		e, err := NewBarnesHutEngine(store, cfg.Iterations, cfg.Timestep, cfg.Threads, cfg.SofteningFactor)
		if err != nil {
			return nil, err
		}
		return e, nil
	case config.AllPairs:
		return NewAllPairsEngine(store, cfg.Iterations, cfg.Timestep, cfg.SofteningFactor), nil
	default:
		return nil, fmt.Errorf("engine: unknown algorithm %v", cfg.Algorithm)
	}
}

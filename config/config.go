// Package config loads and validates the simulation's JSON configuration file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Algorithm selects the force-evaluation strategy.
type Algorithm int

const (
	BarnesHut Algorithm = iota
	AllPairs
)

// String renders the display alias used in logs and echoed config.
func (a Algorithm) String() string {
	if a == AllPairs {
		return "All Pairs"
	}
	return "Barnes-Hut"
}

// MarshalJSON renders the canonical wire value, not the display alias.
func (a Algorithm) MarshalJSON() ([]byte, error) {
	if a == AllPairs {
		return json.Marshal("naive")
	}
	return json.Marshal("barnes-hut")
}

// UnmarshalJSON accepts both the canonical values and their display aliases.
func (a *Algorithm) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "barnes-hut", "Barnes-Hut":
		*a = BarnesHut
	case "naive", "All Pairs":
		*a = AllPairs
	default:
		return fmt.Errorf("config: unknown Simulation.algorithm %q", s)
	}
	return nil
}

// IOConfig describes body ingress/egress and console echo behavior.
type IOConfig struct {
	UniverseInfile  string `json:"universe_infile"`
	UniverseOutfile string `json:"universe_outfile"`
	EchoConfig      bool   `json:"echo_config"`
	EchoBodies      bool   `json:"echo_bodies"`
}

// SimulationConfig describes the physical/numerical parameters of a run.
type SimulationConfig struct {
	Timestep        float64   `json:"timestep"`
	Iterations      uint64    `json:"iterations"`
	Algorithm       Algorithm `json:"algorithm"`
	Threads         uint      `json:"threads"`
	SofteningFactor float64   `json:"softening_factor"`
}

// Resolution is a [width, height] pixel pair.
type Resolution [2]int

// GraphicsConfig describes the display loop, disabled entirely for headless runs.
type GraphicsConfig struct {
	Enabled       bool       `json:"enabled"`
	Resolution    Resolution `json:"resolution"`
	Vsync         bool       `json:"vsync"`
	FPS           int        `json:"fps"`
	PixelScale    float64    `json:"pixel_scale"`
	GridEnabled   bool       `json:"grid_enabled"`
	ShowPanel     bool       `json:"show_panel"`
	PanelUpdateHz float64    `json:"panel_update_hz"`
}

// Config is the top-level JSON document accepted on the command line.
type Config struct {
	IO         IOConfig         `json:"IO"`
	Simulation SimulationConfig `json:"Simulation"`
	Graphics   GraphicsConfig   `json:"Graphics"`
}

// Load reads and validates a configuration file at path.
//
// A non-nil error is always a ConfigInvalid or IOFailure diagnostic
// suitable for printing to stderr verbatim.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the range-bounded fields against their valid ranges,
// returning a diagnostic naming the first violated field. Graphics fields
// are checked only when Graphics.enabled is true.
func (c *Config) Validate() error {
	const (
		minTimestep = 1e-12
		maxTimestep = 3.15569e16
		maxThreads  = 256
		minPixel    = 1e-12
		maxPixel    = 8.8e50
	)

	s := &c.Simulation
	if s.Timestep < minTimestep || s.Timestep > maxTimestep {
		return fmt.Errorf("config: Simulation.timestep %g out of range [%g, %g]", s.Timestep, minTimestep, maxTimestep)
	}
	if s.Threads < 1 || s.Threads > maxThreads {
		return fmt.Errorf("config: Simulation.threads %d out of range [1, %d]", s.Threads, maxThreads)
	}
	if s.SofteningFactor < 0.0 || s.SofteningFactor > 0.2 {
		return fmt.Errorf("config: Simulation.softening_factor %g out of range [0.0, 0.2]", s.SofteningFactor)
	}

	g := &c.Graphics
	if g.Enabled {
		w, h := g.Resolution[0], g.Resolution[1]
		if w < 240 || w > 7680 {
			return fmt.Errorf("config: Graphics.resolution width %d out of range [240, 7680]", w)
		}
		if h < 135 || h > 4320 {
			return fmt.Errorf("config: Graphics.resolution height %d out of range [135, 4320]", h)
		}
		if g.FPS < 1 || g.FPS > 512 {
			return fmt.Errorf("config: Graphics.fps %d out of range [1, 512]", g.FPS)
		}
		if g.PixelScale < minPixel || g.PixelScale > maxPixel {
			return fmt.Errorf("config: Graphics.pixel_scale %g out of range [%g, %g]", g.PixelScale, minPixel, maxPixel)
		}
		if g.PanelUpdateHz < 0.1 || g.PanelUpdateHz > 30 {
			return fmt.Errorf("config: Graphics.panel_update_hz %g out of range [0.1, 30]", g.PanelUpdateHz)
		}
	}

	return nil
}

// Echo renders the configuration as indented JSON for IO.echo_config.
func (c *Config) Echo() (string, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}
	return string(data), nil
}

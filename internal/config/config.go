// Package config loads the CLI configuration: solver tuning, sweep
// sizing, and output locations. Defaults are compiled in; a JSON file
// overrides individual fields, matching the runtime-params style used
// for tuning elsewhere in the org.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/banshee-data/pareto.report/internal/solve"
)

// Config is the file schema. Pointer fields distinguish "absent" from
// zero so an override file can set just the values it cares about.
type Config struct {
	// Solver tuning
	PenaltyStart   *float64 `json:"penalty_start,omitempty"`
	PenaltyGrowth  *float64 `json:"penalty_growth,omitempty"`
	PenaltyRounds  *int     `json:"penalty_rounds,omitempty"`
	FeasibilityTol *float64 `json:"feasibility_tol,omitempty"`
	MaxBinaryVars  *int     `json:"max_binary_vars,omitempty"`

	// External solver
	SolverPath    *string  `json:"solver_path,omitempty"`
	SolverArgs    []string `json:"solver_args,omitempty"`
	SolverTimeout *string  `json:"solver_timeout,omitempty"` // duration string like "30s"

	// Sweep and output
	Steps     *int    `json:"steps,omitempty"`
	OutputDir *string `json:"output_dir,omitempty"`
	DBPath    *string `json:"db_path,omitempty"`
	Listen    *string `json:"listen,omitempty"`
}

// Settings is the resolved configuration the CLI runs with.
type Settings struct {
	Solver    solve.Options
	Steps     int
	OutputDir string
	DBPath    string
	Listen    string
}

// Default returns the compiled-in settings.
func Default() Settings {
	return Settings{
		Solver:    solve.DefaultOptions(),
		Steps:     10,
		OutputDir: "plots",
		DBPath:    "pareto.db",
		Listen:    ":8080",
	}
}

// Load reads a JSON override file and applies it on top of the defaults.
// An empty path returns the defaults unchanged.
func Load(path string) (Settings, error) {
	s := Default()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return s, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := c.apply(&s); err != nil {
		return s, fmt.Errorf("config %s: %w", path, err)
	}
	return s, nil
}

func (c *Config) apply(s *Settings) error {
	if c.PenaltyStart != nil {
		if *c.PenaltyStart <= 0 {
			return fmt.Errorf("penalty_start must be positive, got %g", *c.PenaltyStart)
		}
		s.Solver.PenaltyStart = *c.PenaltyStart
	}
	if c.PenaltyGrowth != nil {
		if *c.PenaltyGrowth <= 1 {
			return fmt.Errorf("penalty_growth must exceed 1, got %g", *c.PenaltyGrowth)
		}
		s.Solver.PenaltyGrowth = *c.PenaltyGrowth
	}
	if c.PenaltyRounds != nil {
		if *c.PenaltyRounds <= 0 {
			return fmt.Errorf("penalty_rounds must be positive, got %d", *c.PenaltyRounds)
		}
		s.Solver.PenaltyRounds = *c.PenaltyRounds
	}
	if c.FeasibilityTol != nil {
		if *c.FeasibilityTol <= 0 {
			return fmt.Errorf("feasibility_tol must be positive, got %g", *c.FeasibilityTol)
		}
		s.Solver.FeasibilityTol = *c.FeasibilityTol
	}
	if c.MaxBinaryVars != nil {
		s.Solver.MaxBinaryVars = *c.MaxBinaryVars
	}
	if c.SolverPath != nil {
		s.Solver.BinaryPath = *c.SolverPath
	}
	if c.SolverArgs != nil {
		s.Solver.BinaryArgs = c.SolverArgs
	}
	if c.SolverTimeout != nil {
		d, err := time.ParseDuration(*c.SolverTimeout)
		if err != nil {
			return fmt.Errorf("bad solver_timeout: %w", err)
		}
		s.Solver.Timeout = d
	}
	if c.Steps != nil {
		if *c.Steps <= 0 {
			return fmt.Errorf("steps must be positive, got %d", *c.Steps)
		}
		s.Steps = *c.Steps
	}
	if c.OutputDir != nil {
		s.OutputDir = *c.OutputDir
	}
	if c.DBPath != nil {
		s.DBPath = *c.DBPath
	}
	if c.Listen != nil {
		s.Listen = *c.Listen
	}
	return nil
}

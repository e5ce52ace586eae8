// Package solve provides solvers for nlp models: an in-process penalty
// solver for continuous programs, a branching wrapper for binary
// variables, and a subprocess bridge to an external solver binary.
package solve

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/banshee-data/pareto.report/internal/nlp"
)

// Status is the outcome of a solve.
type Status int

const (
	StatusUnknown Status = iota
	StatusOptimal
	StatusInfeasible
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Stats records solve effort.
type Stats struct {
	FuncEvals int
	Runtime   time.Duration
}

// Result is the outcome of solving one objective over a model.
type Result struct {
	X          []float64
	Objective  float64   // in the objective's own sense, not the minimized form
	Activities []float64 // constraint expression values at X, row order
	Status     Status
	Stats      Stats
}

// IsOptimal reports whether the solve produced an optimal point.
func (r *Result) IsOptimal() bool { return r != nil && r.Status == StatusOptimal }

// Solver optimizes a single objective over a model.
type Solver interface {
	Solve(ctx context.Context, m *nlp.Model, obj nlp.Objective) (*Result, error)
}

// WarmStarter is implemented by solvers that accept an initial point.
// Sweeps use it to chain each step from the previous solution.
type WarmStarter interface {
	SetStart(x []float64)
}

var (
	// ErrBinaryVars is returned by the continuous solver when the model
	// contains binary variables; wrap it in Branch instead.
	ErrBinaryVars = errors.New("solve: model has binary variables")

	// ErrTooManyBinaries guards the enumeration in Branch.
	ErrTooManyBinaries = errors.New("solve: too many binary variables to enumerate")
)

// Options tunes solver construction. Zero values fall back to defaults.
type Options struct {
	// Penalty schedule for the in-process continuous solver.
	PenaltyStart   float64
	PenaltyGrowth  float64
	PenaltyRounds  int
	FeasibilityTol float64

	// MaxBinaryVars caps the Branch enumeration.
	MaxBinaryVars int

	// BinaryPath, when set, routes all solves to an external solver
	// executable instead of the in-process solvers.
	BinaryPath string
	BinaryArgs []string
	Timeout    time.Duration
}

// DefaultOptions returns the tuning used by the CLI when no config
// overrides it.
func DefaultOptions() Options {
	return Options{
		PenaltyStart:   10,
		PenaltyGrowth:  10,
		PenaltyRounds:  8,
		FeasibilityTol: 1e-6,
		MaxBinaryVars:  24,
		Timeout:        30 * time.Second,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.PenaltyStart <= 0 {
		o.PenaltyStart = d.PenaltyStart
	}
	if o.PenaltyGrowth <= 1 {
		o.PenaltyGrowth = d.PenaltyGrowth
	}
	if o.PenaltyRounds <= 0 {
		o.PenaltyRounds = d.PenaltyRounds
	}
	if o.FeasibilityTol <= 0 {
		o.FeasibilityTol = d.FeasibilityTol
	}
	if o.MaxBinaryVars <= 0 {
		o.MaxBinaryVars = d.MaxBinaryVars
	}
	if o.Timeout <= 0 {
		o.Timeout = d.Timeout
	}
	return o
}

// New builds the solver stack for the given options: the external bridge
// when a binary path is configured, otherwise Branch over Penalty.
func New(opts Options, log *slog.Logger) Solver {
	opts = opts.withDefaults()
	if log == nil {
		log = slog.Default()
	}
	if opts.BinaryPath != "" {
		return NewExternal(opts.BinaryPath, opts.BinaryArgs, opts.Timeout, log)
	}
	return NewBranch(NewPenalty(opts, log), opts.MaxBinaryVars)
}

// activities evaluates every constraint expression at x.
func activities(m *nlp.Model, x []float64) []float64 {
	if len(m.Constraints) == 0 {
		return nil
	}
	out := make([]float64, len(m.Constraints))
	for i, c := range m.Constraints {
		out[i] = c.Expr.Value(x)
	}
	return out
}

// violation returns the signed distance of v outside [lower, upper],
// zero when inside.
func violation(v, lower, upper float64) float64 {
	if v < lower {
		return v - lower
	}
	if v > upper {
		return v - upper
	}
	return 0
}

// maxViolation returns the largest absolute row or bound violation at x.
func maxViolation(m *nlp.Model, x []float64) float64 {
	worst := 0.0
	for i := range x {
		if v := violation(x[i], m.Lower[i], m.Upper[i]); v < -worst || v > worst {
			worst = abs(v)
		}
	}
	for _, c := range m.Constraints {
		if v := violation(c.Expr.Value(x), c.Lower, c.Upper); v < -worst || v > worst {
			worst = abs(v)
		}
	}
	return worst
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

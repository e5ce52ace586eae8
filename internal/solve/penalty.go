package solve

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/banshee-data/pareto.report/internal/nlp"
)

// Penalty solves continuous programs with an exterior quadratic penalty:
// rows and box bounds enter the objective as mu*violation^2 terms and mu
// escalates until the iterate is feasible to tolerance. The inner
// unconstrained minimization is gonum's BFGS with analytic gradients from
// the quadratic expressions.
type Penalty struct {
	opts  Options
	log   *slog.Logger
	start []float64
}

// NewPenalty returns a continuous solver with the given tuning.
func NewPenalty(opts Options, log *slog.Logger) *Penalty {
	if log == nil {
		log = slog.Default()
	}
	return &Penalty{opts: opts.withDefaults(), log: log}
}

// SetStart sets the initial point for the next Solve. A nil or
// wrong-length start falls back to the box midpoint.
func (p *Penalty) SetStart(x []float64) {
	p.start = append(p.start[:0], x...)
}

func (p *Penalty) Solve(ctx context.Context, m *nlp.Model, obj nlp.Objective) (*Result, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if m.NumBinary() > 0 {
		return nil, fmt.Errorf("model %q: %w", m.Name, ErrBinaryVars)
	}
	if m.NumVars() == 0 {
		return nil, fmt.Errorf("model %q has no variables", m.Name)
	}

	expr := obj.Expr
	if obj.Sense == nlp.Maximize {
		expr = expr.Negate()
	}

	x := p.initialPoint(m)
	began := time.Now()
	evals := 0

	mu := p.opts.PenaltyStart
	for round := 0; round < p.opts.PenaltyRounds; round++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("solve %q/%q: %w", m.Name, obj.Name, err)
		}

		prob := optimize.Problem{
			Func: func(xs []float64) float64 {
				evals++
				return penaltyValue(m, expr, xs, mu)
			},
			Grad: func(grad, xs []float64) {
				penaltyGradient(m, expr, grad, xs, mu)
			},
		}

		result, err := optimize.Minimize(prob, x, nil, &optimize.BFGS{})
		if result != nil && len(result.X) == len(x) {
			copy(x, result.X)
		} else if err != nil {
			return nil, fmt.Errorf("solve %q/%q: inner minimize: %w", m.Name, obj.Name, err)
		}

		viol := maxViolation(m, x)
		p.log.Debug("penalty round",
			"model", m.Name, "objective", obj.Name,
			"round", round, "mu", mu, "violation", viol)
		if viol <= p.opts.FeasibilityTol {
			break
		}
		mu *= p.opts.PenaltyGrowth
	}

	clampToBounds(m, x)

	res := &Result{
		X:          x,
		Objective:  obj.Expr.Value(x),
		Activities: activities(m, x),
		Status:     StatusOptimal,
		Stats:      Stats{FuncEvals: evals, Runtime: time.Since(began)},
	}
	if maxViolation(m, x) > feasibleReportTol(p.opts.FeasibilityTol) {
		res.Status = StatusInfeasible
	}
	return res, nil
}

// initialPoint is the warm start when one fits the model, otherwise the
// midpoint of each finite box (0 for unbounded variables).
func (p *Penalty) initialPoint(m *nlp.Model) []float64 {
	n := m.NumVars()
	if len(p.start) == n {
		return append([]float64(nil), p.start...)
	}
	x := make([]float64, n)
	for i := range x {
		lo, hi := m.Lower[i], m.Upper[i]
		switch {
		case !math.IsInf(lo, 0) && !math.IsInf(hi, 0):
			x[i] = (lo + hi) / 2
		case !math.IsInf(lo, 0):
			x[i] = lo
		case !math.IsInf(hi, 0):
			x[i] = hi
		}
	}
	return x
}

// feasibleReportTol is looser than the inner tolerance: the exterior
// penalty approaches the boundary from outside, so the final iterate sits
// within O(1/mu) of feasible.
func feasibleReportTol(tol float64) float64 { return tol * 1e3 }

// clampToBounds snaps tiny box overshoots left by the penalty method.
func clampToBounds(m *nlp.Model, x []float64) {
	for i := range x {
		if x[i] < m.Lower[i] {
			x[i] = m.Lower[i]
		}
		if x[i] > m.Upper[i] {
			x[i] = m.Upper[i]
		}
	}
}

func penaltyValue(m *nlp.Model, expr nlp.QuadExpr, x []float64, mu float64) float64 {
	v := expr.Value(x)
	for i := range x {
		if d := violation(x[i], m.Lower[i], m.Upper[i]); d != 0 {
			v += mu * d * d
		}
	}
	for _, c := range m.Constraints {
		if d := violation(c.Expr.Value(x), c.Lower, c.Upper); d != 0 {
			v += mu * d * d
		}
	}
	return v
}

func penaltyGradient(m *nlp.Model, expr nlp.QuadExpr, grad, x []float64, mu float64) {
	for i := range grad {
		grad[i] = 0
	}
	expr.Gradient(grad, x)
	for i := range x {
		if d := violation(x[i], m.Lower[i], m.Upper[i]); d != 0 {
			grad[i] += 2 * mu * d
		}
	}
	var scratch []float64
	for _, c := range m.Constraints {
		if d := violation(c.Expr.Value(x), c.Lower, c.Upper); d != 0 {
			if scratch == nil {
				scratch = make([]float64, len(x))
			}
			for i := range scratch {
				scratch[i] = 0
			}
			c.Expr.Gradient(scratch, x)
			for i := range grad {
				grad[i] += 2 * mu * d * scratch[i]
			}
		}
	}
}

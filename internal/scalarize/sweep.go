package scalarize

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/banshee-data/pareto.report/internal/nlp"
	"github.com/banshee-data/pareto.report/internal/solve"
)

// ErrMixedSenses is returned when the two objectives pull in different
// directions; scalarization needs a common sense to combine or bound them.
var ErrMixedSenses = errors.New("scalarize: objectives have different senses")

// AnchorRange is the rounded, ordered span of the second objective across
// the two anchor solutions (solve each objective alone, evaluate f2 at
// both optima). It bounds the epsilon sweep.
type AnchorRange struct {
	Min float64
	Max float64
}

// Anchors solves the two single-objective problems and returns the f2
// range between them. Values are rounded to integers, then ordered, the
// way the demo scripts prepared their epsilon grid.
func Anchors(ctx context.Context, s solve.Solver, m *nlp.Model, f1, f2 nlp.Objective) (AnchorRange, error) {
	resF1, err := solveStep(ctx, s, m, f1, nil)
	if err != nil {
		return AnchorRange{}, fmt.Errorf("anchor %q: %w", f1.Name, err)
	}
	atF1 := f2.Expr.Value(resF1.X)

	resF2, err := solveStep(ctx, s, m, f2, resF1.X)
	if err != nil {
		return AnchorRange{}, fmt.Errorf("anchor %q: %w", f2.Name, err)
	}
	atF2 := f2.Expr.Value(resF2.X)

	lo, hi := math.Round(atF1), math.Round(atF2)
	if lo > hi {
		lo, hi = hi, lo
	}
	return AnchorRange{Min: lo, Max: hi}, nil
}

// EpsilonSweep minimizes f1 subject to a bound on f2, stepping the bound
// through n equal increments over [rng.Min, rng.Max). The interval is
// half-open: the final step stops one increment short of rng.Max.
func EpsilonSweep(ctx context.Context, s solve.Solver, m *nlp.Model, f1, f2 nlp.Objective, rng AnchorRange, n int) (*Front, error) {
	if f1.Sense != f2.Sense {
		return nil, ErrMixedSenses
	}
	if n <= 0 {
		return nil, fmt.Errorf("epsilon sweep: need a positive step count, got %d", n)
	}
	step := (rng.Max - rng.Min) / float64(n)
	if step == 0 {
		return nil, fmt.Errorf("epsilon sweep: degenerate anchor range [%g, %g]", rng.Min, rng.Max)
	}

	front := &Front{
		Problem: m.Name,
		Method:  MethodEpsilon,
		Sense1:  f1.Sense,
		Sense2:  f2.Sense,
	}
	var warm []float64
	for i := 0; i < n; i++ {
		eps := rng.Min + step*float64(i)

		bounded := m.Clone()
		if f2.Sense == nlp.Maximize {
			bounded.AddGe("epsilon_bound", f2.Expr, eps)
		} else {
			bounded.AddLe("epsilon_bound", f2.Expr, eps)
		}

		res, err := solveStep(ctx, s, bounded, f1, warm)
		if err != nil {
			return nil, fmt.Errorf("epsilon sweep step %d (eps=%g): %w", i, eps, err)
		}
		warm = res.X

		front.Params = append(front.Params, eps)
		front.Points = append(front.Points, Point{
			X:  res.X,
			F1: f1.Expr.Value(res.X),
			F2: f2.Expr.Value(res.X),
		})
	}
	return front, nil
}

// WeightSweep optimizes the convex combination alpha*f1 + (1-alpha)*f2
// for alpha in n equal steps over [0, 1). Both objectives must share a
// sense; the combined objective keeps it.
func WeightSweep(ctx context.Context, s solve.Solver, m *nlp.Model, f1, f2 nlp.Objective, n int) (*Front, error) {
	if f1.Sense != f2.Sense {
		return nil, ErrMixedSenses
	}
	if n <= 0 {
		return nil, fmt.Errorf("weight sweep: need a positive step count, got %d", n)
	}

	front := &Front{
		Problem: m.Name,
		Method:  MethodWeightedSum,
		Sense1:  f1.Sense,
		Sense2:  f2.Sense,
	}
	var warm []float64
	for i := 0; i < n; i++ {
		alpha := float64(i) / float64(n)
		combined := nlp.Objective{
			Name:  "scalarized",
			Expr:  f1.Expr.Scale(alpha).Plus(f2.Expr.Scale(1 - alpha)),
			Sense: f1.Sense,
		}

		res, err := solveStep(ctx, s, m, combined, warm)
		if err != nil {
			return nil, fmt.Errorf("weight sweep step %d (alpha=%g): %w", i, alpha, err)
		}
		warm = res.X

		front.Params = append(front.Params, alpha)
		front.Points = append(front.Points, Point{
			X:  res.X,
			F1: f1.Expr.Value(res.X),
			F2: f2.Expr.Value(res.X),
		})
	}
	return front, nil
}

// solveStep runs one solve, applying a warm start when the solver
// supports it, and insists on an optimal outcome.
func solveStep(ctx context.Context, s solve.Solver, m *nlp.Model, obj nlp.Objective, warm []float64) (*solve.Result, error) {
	if ws, ok := s.(solve.WarmStarter); ok && len(warm) == m.NumVars() {
		ws.SetStart(warm)
	}
	res, err := s.Solve(ctx, m, obj)
	if err != nil {
		return nil, err
	}
	if !res.IsOptimal() {
		return nil, fmt.Errorf("solve of %q came back %s", obj.Name, res.Status)
	}
	return res, nil
}

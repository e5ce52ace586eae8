package solve

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/banshee-data/pareto.report/internal/nlp"
)

// Branch handles binary variables by depth-first enumeration: each binary
// is fixed to 0 or 1 in turn, partial assignments are pruned against the
// linear rows by interval arithmetic, and any continuous remainder is
// handed to the inner solver. Problem sizes here are toy models, so full
// enumeration under a hard cap beats carrying a relaxation bound.
type Branch struct {
	inner *Penalty
	cap   int
	start []float64
}

// NewBranch wraps a continuous solver with binary enumeration.
func NewBranch(inner *Penalty, maxBinaryVars int) *Branch {
	if maxBinaryVars <= 0 {
		maxBinaryVars = DefaultOptions().MaxBinaryVars
	}
	return &Branch{inner: inner, cap: maxBinaryVars}
}

// SetStart forwards the warm start to the continuous sub-solves.
func (b *Branch) SetStart(x []float64) {
	b.start = append(b.start[:0], x...)
}

func (b *Branch) Solve(ctx context.Context, m *nlp.Model, obj nlp.Objective) (*Result, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	var binaries []int
	for i, k := range m.Kinds {
		if k == nlp.Binary {
			binaries = append(binaries, i)
		}
	}
	if len(binaries) == 0 {
		b.inner.SetStart(b.start)
		return b.inner.Solve(ctx, m, obj)
	}
	if len(binaries) > b.cap {
		return nil, fmt.Errorf("model %q has %d binary variables (cap %d): %w",
			m.Name, len(binaries), b.cap, ErrTooManyBinaries)
	}

	began := time.Now()
	srch := &binarySearch{
		branch:   b,
		model:    m,
		obj:      obj,
		binaries: binaries,
		assigned: make(map[int]float64, len(binaries)),
	}
	if err := srch.descend(ctx, 0); err != nil {
		return nil, err
	}
	if srch.best == nil {
		return &Result{
			Status: StatusInfeasible,
			Stats:  Stats{FuncEvals: srch.evals, Runtime: time.Since(began)},
		}, nil
	}
	srch.best.Stats = Stats{FuncEvals: srch.evals, Runtime: time.Since(began)}
	return srch.best, nil
}

type binarySearch struct {
	branch   *Branch
	model    *nlp.Model
	obj      nlp.Objective
	binaries []int
	assigned map[int]float64

	best     *Result
	bestCost float64 // minimized form of the objective at best
	evals    int
}

func (s *binarySearch) descend(ctx context.Context, depth int) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("solve %q/%q: %w", s.model.Name, s.obj.Name, err)
	}
	if depth == len(s.binaries) {
		return s.evalLeaf(ctx)
	}
	v := s.binaries[depth]
	for _, val := range []float64{0, 1} {
		s.assigned[v] = val
		if s.partialFeasible() {
			if err := s.descend(ctx, depth+1); err != nil {
				return err
			}
		}
		delete(s.assigned, v)
	}
	return nil
}

// partialFeasible checks every linear row against the interval reachable
// under the current partial assignment. Quadratic rows are left to the
// leaf evaluation.
func (s *binarySearch) partialFeasible() bool {
	m := s.model
	for _, c := range m.Constraints {
		if !c.Expr.IsLinear() {
			continue
		}
		lo, hi := c.Expr.Const, c.Expr.Const
		for _, t := range c.Expr.Lin {
			if val, ok := s.assigned[t.Var]; ok {
				lo += t.Coeff * val
				hi += t.Coeff * val
				continue
			}
			a := t.Coeff * m.Lower[t.Var]
			b := t.Coeff * m.Upper[t.Var]
			lo += math.Min(a, b)
			hi += math.Max(a, b)
		}
		if lo > c.Upper || hi < c.Lower {
			return false
		}
	}
	return true
}

func (s *binarySearch) evalLeaf(ctx context.Context) error {
	m := s.model

	if m.NumBinary() == m.NumVars() {
		// Pure binary model: evaluate directly, no continuous solve.
		x := make([]float64, m.NumVars())
		for v, val := range s.assigned {
			x[v] = val
		}
		s.evals++
		if maxViolation(m, x) > 1e-9 {
			return nil
		}
		s.record(&Result{
			X:          x,
			Objective:  s.obj.Expr.Value(x),
			Activities: activities(m, x),
			Status:     StatusOptimal,
		})
		return nil
	}

	// Fix the binaries and solve the continuous remainder.
	fixed := m.Clone()
	for v, val := range s.assigned {
		fixed.Lower[v] = val
		fixed.Upper[v] = val
		fixed.Kinds[v] = nlp.Continuous
	}
	s.branch.inner.SetStart(s.branch.start)
	res, err := s.branch.inner.Solve(ctx, fixed, s.obj)
	if err != nil {
		return err
	}
	s.evals += res.Stats.FuncEvals
	if res.Status != StatusOptimal {
		return nil
	}
	s.record(res)
	return nil
}

func (s *binarySearch) record(res *Result) {
	cost := res.Objective
	if s.obj.Sense == nlp.Maximize {
		cost = -cost
	}
	if s.best == nil || cost < s.bestCost {
		s.best = res
		s.bestCost = cost
	}
}

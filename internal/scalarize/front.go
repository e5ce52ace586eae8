// Package scalarize turns a two-objective model into a sequence of
// single-objective solves: anchor-point computation, the
// epsilon-constraint sweep, and the weighted-sum sweep. Each sweep yields
// a Front of solution points for storage and plotting.
package scalarize

import (
	"sort"

	"github.com/banshee-data/pareto.report/internal/nlp"
)

// Method identifies which scalarization produced a front.
const (
	MethodEpsilon     = "epsilon"
	MethodWeightedSum = "weighted_sum"
)

// Point is one sweep solution: the decision vector and both objective
// values at it.
type Point struct {
	X  []float64
	F1 float64
	F2 float64
}

// Front is the ordered output of one sweep. Params holds the sweep
// parameter (epsilon or alpha) for the point at the same index; the two
// slices always have equal length.
type Front struct {
	Problem string
	Method  string
	Sense1  nlp.Sense
	Sense2  nlp.Sense
	Params  []float64
	Points  []Point
}

// F1s returns the first-objective series, in sweep order.
func (f *Front) F1s() []float64 {
	out := make([]float64, len(f.Points))
	for i, p := range f.Points {
		out[i] = p.F1
	}
	return out
}

// F2s returns the second-objective series, in sweep order.
func (f *Front) F2s() []float64 {
	out := make([]float64, len(f.Points))
	for i, p := range f.Points {
		out[i] = p.F2
	}
	return out
}

// Coord returns the series of the i-th decision variable across the
// sweep. Used for the decision-space panels.
func (f *Front) Coord(i int) []float64 {
	out := make([]float64, len(f.Points))
	for j, p := range f.Points {
		out[j] = p.X[i]
	}
	return out
}

// Nondominated returns a copy of the front reduced to nondominated
// points, sorted by F1. Dominance respects the objective senses: for a
// minimized objective lower is better, for a maximized one higher.
func (f *Front) Nondominated() *Front {
	out := &Front{
		Problem: f.Problem,
		Method:  f.Method,
		Sense1:  f.Sense1,
		Sense2:  f.Sense2,
	}
	for i, p := range f.Points {
		dominated := false
		for j, q := range f.Points {
			if i != j && dominates(q, p, f.Sense1, f.Sense2) {
				dominated = true
				break
			}
		}
		if !dominated {
			out.Params = append(out.Params, f.Params[i])
			out.Points = append(out.Points, p)
		}
	}
	order := make([]int, len(out.Points))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return out.Points[order[a]].F1 < out.Points[order[b]].F1
	})
	params := make([]float64, len(order))
	points := make([]Point, len(order))
	for i, idx := range order {
		params[i] = out.Params[idx]
		points[i] = out.Points[idx]
	}
	out.Params = params
	out.Points = points
	return out
}

// dominates reports whether a is at least as good as b in both
// objectives and strictly better in one.
func dominates(a, b Point, s1, s2 nlp.Sense) bool {
	d1 := better(a.F1, b.F1, s1)
	d2 := better(a.F2, b.F2, s2)
	if d1 < 0 || d2 < 0 {
		return false
	}
	return d1 > 0 || d2 > 0
}

// better compares objective values under a sense: positive when a is
// strictly better than b, zero when equal, negative when worse.
func better(a, b float64, s nlp.Sense) int {
	switch {
	case a == b:
		return 0
	case (s == nlp.Minimize && a < b) || (s == nlp.Maximize && a > b):
		return 1
	default:
		return -1
	}
}

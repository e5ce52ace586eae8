// Package problems builds the demo models the CLI sweeps: two convex
// quadratic pairs and a three-item knapsack.
package problems

import (
	"fmt"

	"github.com/banshee-data/pareto.report/internal/nlp"
)

// Pair bundles a model with its two competing objectives.
type Pair struct {
	Model *nlp.Model
	F1    nlp.Objective
	F2    nlp.Objective
}

// ConvexPair is the primary demo:
//
//	min f1 = 2x^2 + y^2
//	min f2 = (x-1)^2 + 2(y-1)^2
//	x, y in [0, 4]
//
// The objectives disagree about where the minimum sits, so the Pareto
// front runs between (0,0) and (1,1).
func ConvexPair() Pair {
	m := nlp.NewModel("convex_pair")
	x := m.AddVar("x", 0, 4)
	y := m.AddVar("y", 0, 4)

	var f1 nlp.QuadExpr
	f1.AddQuad(x, x, 2)
	f1.AddQuad(y, y, 1)

	// (x-1)^2 + 2(y-1)^2 = x^2 - 2x + 2y^2 - 4y + 3
	f2 := nlp.QuadExpr{Const: 3}
	f2.AddLin(x, -2)
	f2.AddLin(y, -4)
	f2.AddQuad(x, x, 1)
	f2.AddQuad(y, y, 2)

	return Pair{
		Model: m,
		F1:    m.AddObjective("f1", f1, nlp.Minimize),
		F2:    m.AddObjective("f2", f2, nlp.Minimize),
	}
}

// OffsetPair is the near-duplicate variant with symmetric bowls:
//
//	min f1 = x^2 + y^2
//	min f2 = (x-2)^2 + (y-2)^2
//	x, y in [0, 5]
func OffsetPair() Pair {
	m := nlp.NewModel("offset_pair")
	x := m.AddVar("x", 0, 5)
	y := m.AddVar("y", 0, 5)

	var f1 nlp.QuadExpr
	f1.AddQuad(x, x, 1)
	f1.AddQuad(y, y, 1)

	f2 := nlp.QuadExpr{Const: 8}
	f2.AddLin(x, -4)
	f2.AddLin(y, -4)
	f2.AddQuad(x, x, 1)
	f2.AddQuad(y, y, 1)

	return Pair{
		Model: m,
		F1:    m.AddObjective("f1", f1, nlp.Minimize),
		F2:    m.AddObjective("f2", f2, nlp.Minimize),
	}
}

// KnapsackItem describes one tool in the knapsack demo.
type KnapsackItem struct {
	Name   string
	Value  float64
	Intel  float64
	Weight float64
}

// KnapsackItems lists the demo inventory in variable order.
func KnapsackItems() []KnapsackItem {
	return []KnapsackItem{
		{Name: "hammer", Value: 60, Intel: 100, Weight: 10},
		{Name: "wrench", Value: 100, Intel: 100, Weight: 20},
		{Name: "screwdriver", Value: 120, Intel: 1, Weight: 30},
	}
}

// KnapsackWeightLimit is the shared weight budget.
const KnapsackWeightLimit = 50

// ToolKnapsack is the binary knapsack demo: pick tools to maximize value
// or intel under the weight budget.
func ToolKnapsack() Pair {
	items := KnapsackItems()
	m := nlp.NewModel("tool_knapsack")

	value := nlp.QuadExpr{}
	intel := nlp.QuadExpr{}
	weight := nlp.QuadExpr{}
	for _, item := range items {
		v := m.AddBinary(item.Name)
		value.AddLin(v, item.Value)
		intel.AddLin(v, item.Intel)
		weight.AddLin(v, item.Weight)
	}
	m.AddLe("weight", weight, KnapsackWeightLimit)

	return Pair{
		Model: m,
		F1:    m.AddObjective("value", value, nlp.Maximize),
		F2:    m.AddObjective("intel", intel, nlp.Maximize),
	}
}

// ByName returns a named demo pair. Valid names: convex, offset, knapsack.
func ByName(name string) (Pair, error) {
	switch name {
	case "convex":
		return ConvexPair(), nil
	case "offset":
		return OffsetPair(), nil
	case "knapsack":
		return ToolKnapsack(), nil
	default:
		return Pair{}, fmt.Errorf("unknown problem %q (want convex, offset, or knapsack)", name)
	}
}

// Names lists the demo pairs in presentation order.
func Names() []string { return []string{"convex", "offset", "knapsack"} }

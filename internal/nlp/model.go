// Package nlp defines a small algebraic model for box-bounded nonlinear
// programs with linear and quadratic expressions. Models are plain data;
// solvers live in internal/solve.
package nlp

import (
	"fmt"
	"math"
)

// VarKind distinguishes continuous and binary decision variables.
type VarKind int

const (
	Continuous VarKind = iota
	Binary
)

func (k VarKind) String() string {
	switch k {
	case Continuous:
		return "continuous"
	case Binary:
		return "binary"
	default:
		return fmt.Sprintf("VarKind(%d)", int(k))
	}
}

// Sense is the optimization direction of an objective.
type Sense int

const (
	Minimize Sense = iota
	Maximize
)

func (s Sense) String() string {
	if s == Maximize {
		return "maximize"
	}
	return "minimize"
}

// Constraint is a row Lower <= Expr <= Upper. Use math.Inf for one-sided
// rows and Lower == Upper for equalities.
type Constraint struct {
	Name  string
	Expr  QuadExpr
	Lower float64
	Upper float64
}

// Objective is a named objective expression with a direction. A model may
// carry several; solvers optimize exactly one at a time.
type Objective struct {
	Name  string
	Expr  QuadExpr
	Sense Sense
}

// Model is a box-bounded program: named variables, rows, and one or more
// objectives. Parallel slices Names/Lower/Upper/Kinds describe the
// variables; index order is the decision-vector order everywhere.
type Model struct {
	Name string

	Names []string
	Lower []float64
	Upper []float64
	Kinds []VarKind

	Constraints []Constraint
	Objectives  []Objective
}

// NewModel returns an empty model with the given name.
func NewModel(name string) *Model {
	return &Model{Name: name}
}

// NumVars returns the number of decision variables.
func (m *Model) NumVars() int { return len(m.Names) }

// AddVar adds a continuous variable with box bounds and returns its index.
func (m *Model) AddVar(name string, lower, upper float64) int {
	m.Names = append(m.Names, name)
	m.Lower = append(m.Lower, lower)
	m.Upper = append(m.Upper, upper)
	m.Kinds = append(m.Kinds, Continuous)
	return len(m.Names) - 1
}

// AddBinary adds a {0,1} variable and returns its index.
func (m *Model) AddBinary(name string) int {
	i := m.AddVar(name, 0, 1)
	m.Kinds[i] = Binary
	return i
}

// AddConstraint adds the row lower <= expr <= upper.
func (m *Model) AddConstraint(name string, expr QuadExpr, lower, upper float64) {
	m.Constraints = append(m.Constraints, Constraint{Name: name, Expr: expr, Lower: lower, Upper: upper})
}

// AddLe adds expr <= rhs.
func (m *Model) AddLe(name string, expr QuadExpr, rhs float64) {
	m.AddConstraint(name, expr, math.Inf(-1), rhs)
}

// AddGe adds expr >= rhs.
func (m *Model) AddGe(name string, expr QuadExpr, rhs float64) {
	m.AddConstraint(name, expr, rhs, math.Inf(1))
}

// AddEq adds expr == rhs.
func (m *Model) AddEq(name string, expr QuadExpr, rhs float64) {
	m.AddConstraint(name, expr, rhs, rhs)
}

// AddObjective registers a named objective and returns it.
func (m *Model) AddObjective(name string, expr QuadExpr, sense Sense) Objective {
	obj := Objective{Name: name, Expr: expr, Sense: sense}
	m.Objectives = append(m.Objectives, obj)
	return obj
}

// Objective looks up a registered objective by name.
func (m *Model) Objective(name string) (Objective, bool) {
	for _, o := range m.Objectives {
		if o.Name == name {
			return o, true
		}
	}
	return Objective{}, false
}

// NumBinary returns the count of binary variables.
func (m *Model) NumBinary() int {
	n := 0
	for _, k := range m.Kinds {
		if k == Binary {
			n++
		}
	}
	return n
}

// Clone returns a deep copy sharing no mutable state with the receiver.
// Sweeps clone the base model and add their temporary rows to the copy, so
// the caller's model never accumulates sweep leftovers.
func (m *Model) Clone() *Model {
	out := &Model{
		Name:  m.Name,
		Names: append([]string(nil), m.Names...),
		Lower: append([]float64(nil), m.Lower...),
		Upper: append([]float64(nil), m.Upper...),
		Kinds: append([]VarKind(nil), m.Kinds...),
	}
	for _, c := range m.Constraints {
		out.Constraints = append(out.Constraints, Constraint{
			Name:  c.Name,
			Expr:  c.Expr.clone(),
			Lower: c.Lower,
			Upper: c.Upper,
		})
	}
	for _, o := range m.Objectives {
		out.Objectives = append(out.Objectives, Objective{
			Name:  o.Name,
			Expr:  o.Expr.clone(),
			Sense: o.Sense,
		})
	}
	return out
}

// Validate checks structural consistency: congruent variable slices, sane
// bounds, and no expression referencing a variable the model lacks.
func (m *Model) Validate() error {
	n := len(m.Names)
	if len(m.Lower) != n || len(m.Upper) != n || len(m.Kinds) != n {
		return fmt.Errorf("model %q: variable slices out of sync (%d names, %d lower, %d upper, %d kinds)",
			m.Name, n, len(m.Lower), len(m.Upper), len(m.Kinds))
	}
	for i := 0; i < n; i++ {
		if m.Lower[i] > m.Upper[i] {
			return fmt.Errorf("model %q: variable %q has empty domain [%g, %g]",
				m.Name, m.Names[i], m.Lower[i], m.Upper[i])
		}
	}
	for _, c := range m.Constraints {
		if v := c.Expr.MaxVar(); v >= n {
			return fmt.Errorf("model %q: constraint %q references variable %d of %d", m.Name, c.Name, v, n)
		}
		if c.Lower > c.Upper {
			return fmt.Errorf("model %q: constraint %q has empty range [%g, %g]", m.Name, c.Name, c.Lower, c.Upper)
		}
	}
	for _, o := range m.Objectives {
		if v := o.Expr.MaxVar(); v >= n {
			return fmt.Errorf("model %q: objective %q references variable %d of %d", m.Name, o.Name, v, n)
		}
	}
	return nil
}

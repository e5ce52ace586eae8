package nlp

// Term is a linear term c*x[Var].
type Term struct {
	Var   int
	Coeff float64
}

// QuadTerm is a quadratic term c*x[I]*x[J]. I and J may be equal.
type QuadTerm struct {
	I, J  int
	Coeff float64
}

// QuadExpr is a quadratic expression:
//
//	Const + sum(c_i * x_i) + sum(q_ij * x_i * x_j)
//
// It covers every model this package builds: linear rows are expressions
// with no quadratic terms, and the demo objectives are convex quadratics.
// The zero value is the constant 0.
type QuadExpr struct {
	Const float64
	Lin   []Term
	Quad  []QuadTerm
}

// Linear builds a linear expression from dense coefficients.
func Linear(coeffs []float64, constant float64) QuadExpr {
	e := QuadExpr{Const: constant}
	for i, c := range coeffs {
		if c != 0 {
			e.Lin = append(e.Lin, Term{Var: i, Coeff: c})
		}
	}
	return e
}

// AddLin appends a linear term in place.
func (e *QuadExpr) AddLin(v int, coeff float64) {
	e.Lin = append(e.Lin, Term{Var: v, Coeff: coeff})
}

// AddQuad appends a quadratic term in place.
func (e *QuadExpr) AddQuad(i, j int, coeff float64) {
	e.Quad = append(e.Quad, QuadTerm{I: i, J: j, Coeff: coeff})
}

// Value evaluates the expression at x.
func (e QuadExpr) Value(x []float64) float64 {
	v := e.Const
	for _, t := range e.Lin {
		v += t.Coeff * x[t.Var]
	}
	for _, q := range e.Quad {
		v += q.Coeff * x[q.I] * x[q.J]
	}
	return v
}

// Gradient accumulates the gradient of the expression at x into grad.
// grad must have len(x) entries; it is not zeroed first, so callers can
// sum the gradients of several expressions.
func (e QuadExpr) Gradient(grad, x []float64) {
	for _, t := range e.Lin {
		grad[t.Var] += t.Coeff
	}
	// For i == j the two accumulations combine into the 2*c*x_i term.
	for _, q := range e.Quad {
		grad[q.I] += q.Coeff * x[q.J]
		grad[q.J] += q.Coeff * x[q.I]
	}
}

// Scale returns the expression multiplied by k.
func (e QuadExpr) Scale(k float64) QuadExpr {
	out := QuadExpr{Const: e.Const * k}
	for _, t := range e.Lin {
		out.Lin = append(out.Lin, Term{Var: t.Var, Coeff: t.Coeff * k})
	}
	for _, q := range e.Quad {
		out.Quad = append(out.Quad, QuadTerm{I: q.I, J: q.J, Coeff: q.Coeff * k})
	}
	return out
}

// Plus returns the sum of two expressions.
func (e QuadExpr) Plus(o QuadExpr) QuadExpr {
	out := QuadExpr{Const: e.Const + o.Const}
	out.Lin = append(append(out.Lin, e.Lin...), o.Lin...)
	out.Quad = append(append(out.Quad, e.Quad...), o.Quad...)
	return out
}

// Negate returns the expression multiplied by -1.
func (e QuadExpr) Negate() QuadExpr { return e.Scale(-1) }

// IsLinear reports whether the expression has no quadratic terms.
func (e QuadExpr) IsLinear() bool { return len(e.Quad) == 0 }

// MaxVar returns the largest variable index referenced, or -1 for a
// constant expression.
func (e QuadExpr) MaxVar() int {
	max := -1
	for _, t := range e.Lin {
		if t.Var > max {
			max = t.Var
		}
	}
	for _, q := range e.Quad {
		if q.I > max {
			max = q.I
		}
		if q.J > max {
			max = q.J
		}
	}
	return max
}

func (e QuadExpr) clone() QuadExpr {
	out := QuadExpr{Const: e.Const}
	out.Lin = append([]Term(nil), e.Lin...)
	out.Quad = append([]QuadTerm(nil), e.Quad...)
	return out
}

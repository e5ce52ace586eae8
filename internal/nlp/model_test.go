package nlp

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuadExprValue(t *testing.T) {
	t.Parallel()

	// f = 3 + 2x + xy + 4y^2 at (2, -1)
	e := QuadExpr{Const: 3}
	e.AddLin(0, 2)
	e.AddQuad(0, 1, 1)
	e.AddQuad(1, 1, 4)

	got := e.Value([]float64{2, -1})
	assert.InDelta(t, 3+4-2+4, got, 1e-12)
}

func TestQuadExprGradient(t *testing.T) {
	t.Parallel()

	// f = 2x^2 + y^2: grad = (4x, 2y)
	e := QuadExpr{}
	e.AddQuad(0, 0, 2)
	e.AddQuad(1, 1, 1)

	grad := make([]float64, 2)
	e.Gradient(grad, []float64{3, -2})
	assert.InDelta(t, 12, grad[0], 1e-12)
	assert.InDelta(t, -4, grad[1], 1e-12)
}

func TestQuadExprGradientCrossTerm(t *testing.T) {
	t.Parallel()

	// f = 5xy: grad = (5y, 5x)
	e := QuadExpr{}
	e.AddQuad(0, 1, 5)

	grad := make([]float64, 2)
	e.Gradient(grad, []float64{2, 7})
	assert.InDelta(t, 35, grad[0], 1e-12)
	assert.InDelta(t, 10, grad[1], 1e-12)
}

func TestQuadExprCombine(t *testing.T) {
	t.Parallel()

	f1 := QuadExpr{}
	f1.AddQuad(0, 0, 2)
	f2 := QuadExpr{Const: 1}
	f2.AddLin(0, -2)
	f2.AddQuad(0, 0, 1)

	// 0.25*f1 + 0.75*f2 at x=2: 0.25*8 + 0.75*(1-4+4) = 2.75
	combined := f1.Scale(0.25).Plus(f2.Scale(0.75))
	assert.InDelta(t, 2.75, combined.Value([]float64{2}), 1e-12)

	// Negation flips sign everywhere.
	assert.InDelta(t, -2.75, combined.Negate().Value([]float64{2}), 1e-12)
}

func TestLinear(t *testing.T) {
	t.Parallel()

	e := Linear([]float64{10, 0, 30}, 5)
	assert.True(t, e.IsLinear())
	assert.Len(t, e.Lin, 2) // zero coefficient dropped
	assert.InDelta(t, 5+10+90, e.Value([]float64{1, 99, 3}), 1e-12)
}

func TestModelBuild(t *testing.T) {
	t.Parallel()

	m := NewModel("demo")
	x := m.AddVar("x", 0, 4)
	y := m.AddVar("y", 0, 4)
	require.Equal(t, 0, x)
	require.Equal(t, 1, y)

	var f1 QuadExpr
	f1.AddQuad(x, x, 2)
	f1.AddQuad(y, y, 1)
	m.AddObjective("f1", f1, Minimize)

	m.AddLe("cap", Linear([]float64{1, 1}, 0), 6)
	require.NoError(t, m.Validate())

	obj, ok := m.Objective("f1")
	require.True(t, ok)
	assert.Equal(t, Minimize, obj.Sense)

	_, ok = m.Objective("missing")
	assert.False(t, ok)
}

func TestModelBinary(t *testing.T) {
	t.Parallel()

	m := NewModel("kp")
	b := m.AddBinary("take")
	assert.Equal(t, Binary, m.Kinds[b])
	assert.Equal(t, 0.0, m.Lower[b])
	assert.Equal(t, 1.0, m.Upper[b])
	assert.Equal(t, 1, m.NumBinary())
}

func TestModelCloneIsDeep(t *testing.T) {
	t.Parallel()

	m := NewModel("base")
	x := m.AddVar("x", 0, 4)
	var f QuadExpr
	f.AddQuad(x, x, 1)
	m.AddObjective("f", f, Minimize)
	m.AddLe("row", Linear([]float64{2}, 0), 8)

	c := m.Clone()
	if diff := cmp.Diff(m, c); diff != "" {
		t.Fatalf("clone differs from original (-want +got):\n%s", diff)
	}

	// Mutating the clone must not leak into the base model.
	c.AddLe("extra", Linear([]float64{1}, 0), 1)
	c.Lower[0] = -99
	c.Constraints[0].Expr.Lin[0].Coeff = 42

	assert.Len(t, m.Constraints, 1)
	assert.Equal(t, 0.0, m.Lower[0])
	assert.Equal(t, 2.0, m.Constraints[0].Expr.Lin[0].Coeff)
}

func TestModelValidate(t *testing.T) {
	t.Parallel()

	t.Run("empty variable domain", func(t *testing.T) {
		t.Parallel()
		m := NewModel("bad")
		m.AddVar("x", 2, 1)
		assert.Error(t, m.Validate())
	})

	t.Run("constraint references missing variable", func(t *testing.T) {
		t.Parallel()
		m := NewModel("bad")
		m.AddVar("x", 0, 1)
		m.AddLe("row", Linear([]float64{1, 1}, 0), 3)
		assert.Error(t, m.Validate())
	})

	t.Run("empty constraint range", func(t *testing.T) {
		t.Parallel()
		m := NewModel("bad")
		m.AddVar("x", 0, 1)
		m.AddConstraint("row", Linear([]float64{1}, 0), 5, 2)
		assert.Error(t, m.Validate())
	})

	t.Run("one-sided rows are fine", func(t *testing.T) {
		t.Parallel()
		m := NewModel("ok")
		m.AddVar("x", 0, 1)
		m.AddGe("floor", Linear([]float64{1}, 0), 0.5)
		m.AddLe("cap", Linear([]float64{1}, 0), math.Inf(1))
		assert.NoError(t, m.Validate())
	})
}

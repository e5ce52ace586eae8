package solve

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/pareto.report/internal/nlp"
)

// fakeSolver writes a shell script that drains stdin and emits a canned
// JSON response, standing in for a real solver install.
func fakeSolver(t *testing.T, response string, exitCode int) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell-script fake solver requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "fake-solver")
	script := "#!/bin/sh\ncat >/dev/null\n"
	if response != "" {
		script += "printf '%s' '" + response + "'\n"
	}
	if exitCode != 0 {
		script += "echo 'solver exploded' >&2\n"
	}
	script += "exit " + strconv.Itoa(exitCode) + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func externalTestModel() (*nlp.Model, nlp.Objective) {
	m := nlp.NewModel("wire")
	x := m.AddVar("x", 0, 4)
	y := m.AddVar("y", 0, 4)
	var f nlp.QuadExpr
	f.AddQuad(x, x, 2)
	f.AddQuad(y, y, 1)
	obj := m.AddObjective("f1", f, nlp.Minimize)
	m.AddLe("cap", nlp.Linear([]float64{1, 1}, 0), 6)
	return m, obj
}

func TestExternalOptimal(t *testing.T) {
	t.Parallel()

	path := fakeSolver(t, `{"status":"optimal","x":[1,2],"objective":6}`, 0)
	m, obj := externalTestModel()

	s := NewExternal(path, nil, time.Minute, testLogger())
	res, err := s.Solve(context.Background(), m, obj)
	require.NoError(t, err)
	require.True(t, res.IsOptimal())
	assert.Equal(t, []float64{1, 2}, res.X)
	assert.InDelta(t, 6, res.Objective, 1e-9)
	require.Len(t, res.Activities, 1)
	assert.InDelta(t, 3, res.Activities[0], 1e-9)
}

func TestExternalInfeasible(t *testing.T) {
	t.Parallel()

	path := fakeSolver(t, `{"status":"infeasible"}`, 0)
	m, obj := externalTestModel()

	s := NewExternal(path, nil, time.Minute, testLogger())
	res, err := s.Solve(context.Background(), m, obj)
	require.NoError(t, err)
	assert.Equal(t, StatusInfeasible, res.Status)
	assert.Nil(t, res.X)
}

func TestExternalNonZeroExit(t *testing.T) {
	t.Parallel()

	path := fakeSolver(t, "", 1)
	m, obj := externalTestModel()

	s := NewExternal(path, nil, time.Minute, testLogger())
	_, err := s.Solve(context.Background(), m, obj)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "solver exploded")
}

func TestExternalBadResponse(t *testing.T) {
	t.Parallel()

	path := fakeSolver(t, "not json at all", 0)
	m, obj := externalTestModel()

	s := NewExternal(path, nil, time.Minute, testLogger())
	_, err := s.Solve(context.Background(), m, obj)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad response")
}

func TestExternalWrongSolutionLength(t *testing.T) {
	t.Parallel()

	path := fakeSolver(t, `{"status":"optimal","x":[1],"objective":1}`, 0)
	m, obj := externalTestModel()

	s := NewExternal(path, nil, time.Minute, testLogger())
	_, err := s.Solve(context.Background(), m, obj)
	require.Error(t, err)
}

func TestExternalMissingBinary(t *testing.T) {
	t.Parallel()

	m, obj := externalTestModel()
	s := NewExternal(filepath.Join(t.TempDir(), "nope"), nil, time.Minute, testLogger())
	_, err := s.Solve(context.Background(), m, obj)
	require.Error(t, err)
}

func TestNewPicksExternal(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.BinaryPath = "/opt/solver/bin/solver"
	_, ok := New(opts, testLogger()).(*External)
	assert.True(t, ok)

	opts.BinaryPath = ""
	_, ok = New(opts, testLogger()).(*Branch)
	assert.True(t, ok)
}

func TestWireBound(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1e30, wireBound(math.Inf(1)))
	assert.Equal(t, -1e30, wireBound(math.Inf(-1)))
	assert.Equal(t, 4.0, wireBound(4))
	assert.Equal(t, 1e30, wireBound(2e30))
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	assert.Equal(t, StatusOptimal, parseStatus("Optimal"))
	assert.Equal(t, StatusInfeasible, parseStatus("INFEASIBLE"))
	assert.Equal(t, StatusFailed, parseStatus("error"))
	assert.Equal(t, StatusUnknown, parseStatus("mystery"))
}

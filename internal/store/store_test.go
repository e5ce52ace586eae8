package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/pareto.report/internal/nlp"
	"github.com/banshee-data/pareto.report/internal/scalarize"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "pareto.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleFront() *scalarize.Front {
	return &scalarize.Front{
		Problem: "convex_pair",
		Method:  scalarize.MethodEpsilon,
		Sense1:  nlp.Minimize,
		Sense2:  nlp.Minimize,
		Params:  []float64{0, 0.3, 0.6},
		Points: []scalarize.Point{
			{X: []float64{1, 1}, F1: 3, F2: 0},
			{X: []float64{0.8, 0.9}, F1: 2.09, F2: 0.06},
			{X: []float64{0.6, 0.8}, F1: 1.36, F2: 0.24},
		},
	}
}

func TestRecordAndGetFront(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	ctx := context.Background()

	want := sampleFront()
	runID, err := s.RecordFront(ctx, want, "penalty")
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	got, err := s.GetFront(ctx, runID)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("front round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestListRuns(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	ctx := context.Background()

	id1, err := s.RecordFront(ctx, sampleFront(), "penalty")
	require.NoError(t, err)

	ws := sampleFront()
	ws.Method = scalarize.MethodWeightedSum
	id2, err := s.RecordFront(ctx, ws, "penalty")
	require.NoError(t, err)

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	ids := []string{runs[0].ID, runs[1].ID}
	assert.Contains(t, ids, id1)
	assert.Contains(t, ids, id2)
	for _, r := range runs {
		assert.Equal(t, "convex_pair", r.Problem)
		assert.Equal(t, "penalty", r.Solver)
		assert.Equal(t, 3, r.Steps)
		assert.False(t, r.CreatedAt.IsZero())
	}
}

func TestGetFrontMissing(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	_, err := s.GetFront(context.Background(), "no-such-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestOpenCreatesFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "fresh.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	runs, err := s.ListRuns(context.Background())
	require.NoError(t, err)
	assert.Empty(t, runs)
}

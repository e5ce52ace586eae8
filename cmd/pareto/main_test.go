package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/pareto.report/internal/config"
	"github.com/banshee-data/pareto.report/internal/problems"
	"github.com/banshee-data/pareto.report/internal/solve"
	"github.com/banshee-data/pareto.report/internal/store"
)

func TestSweepProblemEndToEnd(t *testing.T) {
	dir := t.TempDir()
	settings := config.Default()
	settings.Steps = 4
	settings.OutputDir = dir

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := store.Open(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	defer db.Close()

	solver := solve.New(settings.Solver, log)
	pair := problems.ConvexPair()
	require.NoError(t, sweepProblem(context.Background(), log, db, solver, "penalty", pair, settings))

	// One run per method, each with a point per step.
	runs, err := db.ListRuns(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 2)
	for _, r := range runs {
		assert.Equal(t, "convex_pair", r.Problem)
		assert.Equal(t, 4, r.Steps)

		front, err := db.GetFront(context.Background(), r.ID)
		require.NoError(t, err)
		assert.Len(t, front.Points, 4)
	}

	// The four-panel figure landed in the output directory.
	info, err := os.Stat(filepath.Join(dir, "convex_pair.png"))
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestSweepProblemKnapsack(t *testing.T) {
	dir := t.TempDir()
	settings := config.Default()
	settings.Steps = 5
	settings.OutputDir = dir

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := store.Open(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	defer db.Close()

	solver := solve.New(settings.Solver, log)
	pair := problems.ToolKnapsack()
	require.NoError(t, sweepProblem(context.Background(), log, db, solver, "penalty", pair, settings))

	runs, err := db.ListRuns(context.Background())
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

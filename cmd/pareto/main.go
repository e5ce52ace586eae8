// Command pareto runs the multi-objective scalarization demos: for each
// selected problem it computes anchor points, sweeps the
// epsilon-constraint and weighted-sum scalarizations, stores the fronts,
// and renders the four-panel figure.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"github.com/banshee-data/pareto.report/internal/config"
	"github.com/banshee-data/pareto.report/internal/nlp"
	"github.com/banshee-data/pareto.report/internal/problems"
	"github.com/banshee-data/pareto.report/internal/report"
	"github.com/banshee-data/pareto.report/internal/scalarize"
	"github.com/banshee-data/pareto.report/internal/solve"
	"github.com/banshee-data/pareto.report/internal/store"
	"github.com/banshee-data/pareto.report/internal/version"
)

var (
	problemFlag = flag.String("problem", "all", "Problem to sweep: convex, offset, knapsack, or all")
	stepsFlag   = flag.Int("steps", 0, "Sweep steps per method (overrides config)")
	outFlag     = flag.String("out", "", "Output directory for PNG panels (overrides config)")
	dbFlag      = flag.String("db", "", "SQLite database path (overrides config)")
	configFlag  = flag.String("config", "", "JSON config file")
	solverFlag  = flag.String("solver-bin", "", "External solver executable (overrides config)")
	listenFlag  = flag.String("listen", "", "Serve stored runs on this address after sweeping")
	verboseFlag = flag.Bool("v", false, "Debug logging")
)

func main() {
	flag.Parse()

	level := slog.LevelInfo
	if *verboseFlag {
		level = slog.LevelDebug
	}
	log := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(log)

	if err := run(log); err != nil {
		log.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	log.Info("pareto starting", "version", version.String())

	settings, err := config.Load(*configFlag)
	if err != nil {
		return err
	}
	if *stepsFlag > 0 {
		settings.Steps = *stepsFlag
	}
	if *outFlag != "" {
		settings.OutputDir = *outFlag
	}
	if *dbFlag != "" {
		settings.DBPath = *dbFlag
	}
	if *solverFlag != "" {
		settings.Solver.BinaryPath = *solverFlag
	}
	if *listenFlag != "" {
		settings.Listen = *listenFlag
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	names := problems.Names()
	if *problemFlag != "all" {
		names = []string{*problemFlag}
	}

	if err := os.MkdirAll(settings.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	db, err := store.Open(settings.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	solver := solve.New(settings.Solver, log)
	solverName := "penalty"
	if settings.Solver.BinaryPath != "" {
		solverName = filepath.Base(settings.Solver.BinaryPath)
	}

	for _, name := range names {
		pair, err := problems.ByName(name)
		if err != nil {
			return err
		}
		if err := sweepProblem(ctx, log, db, solver, solverName, pair, settings); err != nil {
			return fmt.Errorf("problem %s: %w", name, err)
		}
	}

	if *listenFlag != "" {
		srv := report.NewServer(db, log)
		return srv.ListenAndServe(ctx, settings.Listen)
	}
	return nil
}

func sweepProblem(ctx context.Context, log *slog.Logger, db *store.Store, solver solve.Solver, solverName string, pair problems.Pair, settings config.Settings) error {
	m := pair.Model
	log.Info("sweeping problem", "problem", m.Name, "steps", settings.Steps, "solver", solverName)

	if m.NumBinary() > 0 {
		logBinaryAnchors(ctx, log, solver, pair)
	}

	rng, err := scalarize.Anchors(ctx, solver, m, pair.F1, pair.F2)
	if err != nil {
		return err
	}
	log.Info("anchor range", "problem", m.Name, "f2_min", rng.Min, "f2_max", rng.Max)

	eps, err := scalarize.EpsilonSweep(ctx, solver, m, pair.F1, pair.F2, rng, settings.Steps)
	if err != nil {
		return err
	}
	ws, err := scalarize.WeightSweep(ctx, solver, m, pair.F1, pair.F2, settings.Steps)
	if err != nil {
		return err
	}

	epsID, err := db.RecordFront(ctx, eps, solverName)
	if err != nil {
		return fmt.Errorf("store epsilon front: %w", err)
	}
	wsID, err := db.RecordFront(ctx, ws, solverName)
	if err != nil {
		return fmt.Errorf("store weighted-sum front: %w", err)
	}
	log.Info("fronts stored", "problem", m.Name, "epsilon_run", epsID, "weighted_run", wsID)

	out := filepath.Join(settings.OutputDir, m.Name+".png")
	if err := report.RenderPanels(out, eps, ws); err != nil {
		return fmt.Errorf("render panels: %w", err)
	}
	log.Info("panels rendered", "problem", m.Name, "path", out)
	return nil
}

// logBinaryAnchors reproduces the knapsack demo's two single-objective
// solves, logging which items each objective selects on its own.
func logBinaryAnchors(ctx context.Context, log *slog.Logger, solver solve.Solver, pair problems.Pair) {
	for _, obj := range []nlp.Objective{pair.F1, pair.F2} {
		res, err := solver.Solve(ctx, pair.Model, obj)
		if err != nil || !res.IsOptimal() {
			log.Warn("anchor solve failed", "problem", pair.Model.Name, "objective", obj.Name, "error", err)
			continue
		}
		var picked []string
		for i, name := range pair.Model.Names {
			if pair.Model.Kinds[i] == nlp.Binary && res.X[i] > 0.5 {
				picked = append(picked, name)
			}
		}
		log.Info("anchor solution", "objective", obj.Name, "value", res.Objective, "items", picked)
	}
}

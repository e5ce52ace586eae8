// Package store persists sweep runs and their fronts to sqlite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/pareto.report/internal/nlp"
	"github.com/banshee-data/pareto.report/internal/scalarize"
)

// Store wraps the sqlite handle. Schema is created on open; the two
// tables are append-only.
type Store struct {
	*sql.DB
}

// Run describes one stored sweep.
type Run struct {
	ID        string    `json:"run_id"`
	Problem   string    `json:"problem"`
	Method    string    `json:"method"`
	Solver    string    `json:"solver"`
	Steps     int       `json:"steps"`
	CreatedAt time.Time `json:"created_at"`
}

// Open opens (or creates) the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS sweep_runs (
			run_id TEXT PRIMARY KEY,
			problem TEXT NOT NULL,
			method TEXT NOT NULL,
			solver TEXT NOT NULL,
			steps INTEGER NOT NULL,
			sense1 INTEGER NOT NULL,
			sense2 INTEGER NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS sweep_points (
			run_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			param DOUBLE NOT NULL,
			x TEXT NOT NULL,
			f1 DOUBLE NOT NULL,
			f2 DOUBLE NOT NULL,
			PRIMARY KEY (run_id, seq),
			FOREIGN KEY (run_id) REFERENCES sweep_runs(run_id)
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db}, nil
}

// RecordFront stores a sweep front under a fresh run id and returns it.
func (s *Store) RecordFront(ctx context.Context, front *scalarize.Front, solver string) (string, error) {
	runID := uuid.NewString()

	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO sweep_runs (run_id, problem, method, solver, steps, sense1, sense2) VALUES (?, ?, ?, ?, ?, ?, ?)",
		runID, front.Problem, front.Method, solver, len(front.Points), int(front.Sense1), int(front.Sense2))
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for i, pt := range front.Points {
		xj, err := json.Marshal(pt.X)
		if err != nil {
			return "", fmt.Errorf("encode point %d: %w", i, err)
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO sweep_points (run_id, seq, param, x, f1, f2) VALUES (?, ?, ?, ?, ?, ?)",
			runID, i, front.Params[i], string(xj), pt.F1, pt.F2)
		if err != nil {
			return "", fmt.Errorf("insert point %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return runID, nil
}

// ListRuns returns stored runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.QueryContext(ctx,
		"SELECT run_id, problem, method, solver, steps, created_at FROM sweep_runs ORDER BY created_at DESC, run_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Problem, &r.Method, &r.Solver, &r.Steps, &r.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetFront reconstructs the front stored under runID.
func (s *Store) GetFront(ctx context.Context, runID string) (*scalarize.Front, error) {
	front := &scalarize.Front{}
	var sense1, sense2 int
	err := s.QueryRowContext(ctx,
		"SELECT problem, method, sense1, sense2 FROM sweep_runs WHERE run_id = ?", runID).
		Scan(&front.Problem, &front.Method, &sense1, &sense2)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s: not found", runID)
	}
	if err != nil {
		return nil, err
	}
	front.Sense1 = nlp.Sense(sense1)
	front.Sense2 = nlp.Sense(sense2)

	rows, err := s.QueryContext(ctx,
		"SELECT param, x, f1, f2 FROM sweep_points WHERE run_id = ? ORDER BY seq", runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			param, f1, f2 float64
			xj            string
		)
		if err := rows.Scan(&param, &xj, &f1, &f2); err != nil {
			return nil, err
		}
		var x []float64
		if err := json.Unmarshal([]byte(xj), &x); err != nil {
			return nil, fmt.Errorf("run %s: decode point: %w", runID, err)
		}
		front.Params = append(front.Params, param)
		front.Points = append(front.Points, scalarize.Point{X: x, F1: f1, F2: f2})
	}
	return front, rows.Err()
}

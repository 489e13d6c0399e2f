package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run statuses.
const (
	RunRunning   = "running"
	RunCompleted = "completed"
	RunFailed    = "failed"
)

// Run is one scrape invocation.
type Run struct {
	ID         string     `db:"run_id"`
	Filter     string     `db:"filter"`
	StartedAt  time.Time  `db:"started_at"`
	FinishedAt *time.Time `db:"finished_at"`
	Recipes    int        `db:"recipe_count"`
	Errors     int        `db:"error_count"`
	Status     string     `db:"status"`
}

// CreateRun records the start of a scrape and returns its ID.
func (db *DB) CreateRun(ctx context.Context, filter string) (string, error) {
	id := uuid.NewString()
	_, err := db.ExecContext(ctx, `
		INSERT INTO scrape_runs (run_id, filter, started_at, status)
		VALUES (?, ?, ?, ?)
	`, id, filter, time.Now().UTC(), RunRunning)
	if err != nil {
		return "", fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// FinishRun stores the final counts and status of a run.
func (db *DB) FinishRun(ctx context.Context, id string, recipes, errs int, status string) error {
	res, err := db.ExecContext(ctx, `
		UPDATE scrape_runs
		SET finished_at = ?, recipe_count = ?, error_count = ?, status = ?
		WHERE run_id = ?
	`, time.Now().UTC(), recipes, errs, status, id)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListRuns returns runs, newest first.
func (db *DB) ListRuns(ctx context.Context) ([]Run, error) {
	var runs []Run
	err := db.SelectContext(ctx, &runs, `
		SELECT run_id, filter, started_at, finished_at, recipe_count, error_count, status
		FROM scrape_runs
		ORDER BY started_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/metrics"
	"github.com/therealutkarshpriyadarshi/videosdb/pkg/models"
)

// ErrBatchRunNotFound is returned when no batch run has the requested id
var ErrBatchRunNotFound = errors.New("batch run not found")

// Repository provides database operations
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

const batchRunColumns = `id, input_key, output_key, status, action_count, result_count, error,
       created_at, updated_at, completed_at`

func observe(operation string, start time.Time, err error) {
	status := "success"
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		status = "error"
	}
	metrics.RecordDatabaseOperation(operation, status, time.Since(start).Seconds())
}

// CreateBatchRun inserts a new batch run. An empty id is filled in.
func (r *Repository) CreateBatchRun(ctx context.Context, run *models.BatchRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.Status == "" {
		run.Status = models.BatchStatusPending
	}

	query := `
		INSERT INTO batch_runs (id, input_key, output_key, status, action_count, result_count, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	start := time.Now()
	err := r.db.Pool.QueryRow(ctx, query,
		run.ID, run.InputKey, run.OutputKey, run.Status, run.ActionCount, run.ResultCount, run.Error,
	).Scan(&run.CreatedAt, &run.UpdatedAt)
	observe("create_batch_run", start, err)

	if err != nil {
		return fmt.Errorf("failed to create batch run: %w", err)
	}

	return nil
}

// GetBatchRun retrieves a batch run by ID
func (r *Repository) GetBatchRun(ctx context.Context, id string) (*models.BatchRun, error) {
	query := `SELECT ` + batchRunColumns + ` FROM batch_runs WHERE id = $1`

	start := time.Now()
	run, err := scanBatchRun(r.db.Pool.QueryRow(ctx, query, id))
	observe("get_batch_run", start, err)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBatchRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get batch run: %w", err)
	}

	return run, nil
}

// UpdateBatchRun stores the mutable fields of run. Moving to a terminal
// status stamps completed_at.
func (r *Repository) UpdateBatchRun(ctx context.Context, run *models.BatchRun) error {
	query := `
		UPDATE batch_runs
		SET output_key = $2, status = $3, action_count = $4, result_count = $5, error = $6,
		    updated_at = NOW(),
		    completed_at = CASE WHEN $3 IN ('completed', 'failed') THEN NOW() ELSE completed_at END
		WHERE id = $1
		RETURNING updated_at, completed_at
	`

	start := time.Now()
	err := r.db.Pool.QueryRow(ctx, query,
		run.ID, run.OutputKey, run.Status, run.ActionCount, run.ResultCount, run.Error,
	).Scan(&run.UpdatedAt, &run.CompletedAt)
	observe("update_batch_run", start, err)

	if errors.Is(err, pgx.ErrNoRows) {
		return ErrBatchRunNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update batch run: %w", err)
	}

	return nil
}

// DeleteBatchRun removes a batch run
func (r *Repository) DeleteBatchRun(ctx context.Context, id string) error {
	start := time.Now()
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM batch_runs WHERE id = $1`, id)
	observe("delete_batch_run", start, err)

	if err != nil {
		return fmt.Errorf("failed to delete batch run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBatchRunNotFound
	}

	return nil
}

// ListBatchRuns returns batch runs newest first. An empty status lists all.
func (r *Repository) ListBatchRuns(ctx context.Context, status string, limit, offset int) ([]*models.BatchRun, error) {
	query := `
		SELECT ` + batchRunColumns + `
		FROM batch_runs
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	start := time.Now()
	rows, err := r.db.Pool.Query(ctx, query, status, limit, offset)
	if err != nil {
		observe("list_batch_runs", start, err)
		return nil, fmt.Errorf("failed to list batch runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.BatchRun
	for rows.Next() {
		run, err := scanBatchRun(rows)
		if err != nil {
			observe("list_batch_runs", start, err)
			return nil, fmt.Errorf("failed to scan batch run: %w", err)
		}
		runs = append(runs, run)
	}
	err = rows.Err()
	observe("list_batch_runs", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to iterate batch runs: %w", err)
	}

	return runs, nil
}

// CountBatchRuns returns the number of batch runs per status
func (r *Repository) CountBatchRuns(ctx context.Context) (map[string]int64, error) {
	query := `SELECT status, COUNT(*) FROM batch_runs GROUP BY status`

	start := time.Now()
	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		observe("count_batch_runs", start, err)
		return nil, fmt.Errorf("failed to count batch runs: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			observe("count_batch_runs", start, err)
			return nil, fmt.Errorf("failed to scan batch run count: %w", err)
		}
		counts[status] = count
	}
	err = rows.Err()
	observe("count_batch_runs", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to iterate batch run counts: %w", err)
	}

	return counts, nil
}

func scanBatchRun(row pgx.Row) (*models.BatchRun, error) {
	var run models.BatchRun
	err := row.Scan(
		&run.ID, &run.InputKey, &run.OutputKey, &run.Status, &run.ActionCount, &run.ResultCount,
		&run.Error, &run.CreatedAt, &run.UpdatedAt, &run.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

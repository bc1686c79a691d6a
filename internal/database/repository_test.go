package database

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/therealutkarshpriyadarshi/videosdb/pkg/models"
)

// newTestRepository connects to VIDEOSDB_TEST_DATABASE_URL and skips the
// test when it is unset.
func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	dsn := os.Getenv("VIDEOSDB_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("Skipping integration test - VIDEOSDB_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	db := &DB{Pool: pool}
	require.NoError(t, db.Migrate(ctx))
	return NewRepository(db)
}

func TestRepository_BatchRunLifecycle(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	run := &models.BatchRun{InputKey: "batches/x/input.json"}
	require.NoError(t, repo.CreateBatchRun(ctx, run))
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, models.BatchStatusPending, run.Status)
	assert.False(t, run.CreatedAt.IsZero())

	run.Status = models.BatchStatusCompleted
	run.OutputKey = "batches/x/output.json"
	run.ActionCount = 4
	run.ResultCount = 3
	require.NoError(t, repo.UpdateBatchRun(ctx, run))
	require.NotNil(t, run.CompletedAt)

	got, err := repo.GetBatchRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BatchStatusCompleted, got.Status)
	assert.Equal(t, 3, got.ResultCount)

	runs, err := repo.ListBatchRuns(ctx, models.BatchStatusCompleted, 10, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, runs)

	counts, err := repo.CountBatchRuns(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, counts[models.BatchStatusCompleted], int64(1))

	require.NoError(t, repo.DeleteBatchRun(ctx, run.ID))
	assert.ErrorIs(t, repo.DeleteBatchRun(ctx, run.ID), ErrBatchRunNotFound)
}

func TestRepository_GetMissingBatchRun(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.GetBatchRun(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrBatchRunNotFound)
}

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/therealutkarshpriyadarshi/videosdb/pkg/models"
)

func setupTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	cache, err := NewCache(mr.Host(), mr.Server().Addr().Port, "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })

	return cache, mr
}

func TestNewCache(t *testing.T) {
	cache, _ := setupTestCache(t)
	assert.NoError(t, cache.Ping(context.Background()))
}

func TestNewCacheUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	port := mr.Server().Addr().Port
	mr.Close()

	_, err := NewCache("127.0.0.1", port, "", 0)
	assert.Error(t, err)
}

func TestCache_BatchRunOperations(t *testing.T) {
	cache, mr := setupTestCache(t)
	ctx := context.Background()

	missing, err := cache.GetBatchRun(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	run := &models.BatchRun{ID: "b-1", InputKey: "batches/b-1/input.json", Status: models.BatchStatusProcessing}
	require.NoError(t, cache.SetBatchRun(ctx, run, time.Minute))

	got, err := cache.GetBatchRun(ctx, "b-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.BatchStatusProcessing, got.Status)
	assert.Equal(t, run.InputKey, got.InputKey)

	mr.FastForward(2 * time.Minute)
	expired, err := cache.GetBatchRun(ctx, "b-1")
	require.NoError(t, err)
	assert.Nil(t, expired)
}

func TestCache_BatchResults(t *testing.T) {
	cache, _ := setupTestCache(t)
	ctx := context.Background()

	_, found, err := cache.GetBatchResults(ctx, "b-2")
	require.NoError(t, err)
	assert.False(t, found)

	results := []models.Result{{ID: 1, Message: "Query result: [A]"}}
	require.NoError(t, cache.SetBatchResults(ctx, "b-2", results, time.Hour))

	got, found, err := cache.GetBatchResults(ctx, "b-2")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, results, got)

	require.NoError(t, cache.SetBatchResults(ctx, "b-3", nil, time.Hour))
	got, found, err = cache.GetBatchResults(ctx, "b-3")
	require.NoError(t, err)
	assert.True(t, found, "an empty result set is still a hit")
	assert.Empty(t, got)

	require.NoError(t, cache.DeleteBatch(ctx, "b-2"))
	_, found, err = cache.GetBatchResults(ctx, "b-2")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCache_RateLimit(t *testing.T) {
	cache, mr := setupTestCache(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := cache.CheckRateLimit(ctx, "client", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d", i+1)
	}

	allowed, err := cache.CheckRateLimit(ctx, "client", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	mr.FastForward(time.Minute + time.Second)
	allowed, err = cache.CheckRateLimit(ctx, "client", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed, "the window resets after expiry")
}

func TestCache_Locks(t *testing.T) {
	cache, _ := setupTestCache(t)
	ctx := context.Background()

	ok, err := cache.AcquireLock(ctx, "batch:b-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = cache.AcquireLock(ctx, "batch:b-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.ReleaseLock(ctx, "batch:b-1"))
	ok, err = cache.AcquireLock(ctx, "batch:b-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

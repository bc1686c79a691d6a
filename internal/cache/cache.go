package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/metrics"
	"github.com/therealutkarshpriyadarshi/videosdb/pkg/models"
)

// Cache provides caching functionality using Redis
type Cache struct {
	client *redis.Client
}

// NewCache creates a new cache instance
func NewCache(host string, port int, password string, db int) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Cache{client: client}, nil
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	return c.client.Close()
}

// Batch Run Operations

func batchRunKey(id string) string     { return fmt.Sprintf("batch:%s", id) }
func batchResultsKey(id string) string { return fmt.Sprintf("batch:results:%s", id) }

// SetBatchRun caches the latest known state of a batch run
func (c *Cache) SetBatchRun(ctx context.Context, run *models.BatchRun, ttl time.Duration) error {
	return c.setJSON(ctx, batchRunKey(run.ID), run, ttl)
}

// GetBatchRun returns the cached batch run, or nil on a cache miss
func (c *Cache) GetBatchRun(ctx context.Context, id string) (*models.BatchRun, error) {
	var run models.BatchRun
	found, err := c.getJSON(ctx, batchRunKey(id), &run)
	metrics.RecordCacheAccess("batch_run", found)
	if err != nil || !found {
		return nil, err
	}
	return &run, nil
}

// SetBatchResults caches the rendered results of a finished batch run
func (c *Cache) SetBatchResults(ctx context.Context, id string, results []models.Result, ttl time.Duration) error {
	if results == nil {
		results = []models.Result{}
	}
	return c.setJSON(ctx, batchResultsKey(id), results, ttl)
}

// GetBatchResults returns the cached results and whether they were present
func (c *Cache) GetBatchResults(ctx context.Context, id string) ([]models.Result, bool, error) {
	var results []models.Result
	found, err := c.getJSON(ctx, batchResultsKey(id), &results)
	metrics.RecordCacheAccess("batch_results", found)
	if err != nil {
		return nil, false, err
	}
	return results, found, nil
}

// DeleteBatch drops everything cached for a batch run
func (c *Cache) DeleteBatch(ctx context.Context, id string) error {
	return c.client.Del(ctx, batchRunKey(id), batchResultsKey(id)).Err()
}

// Rate Limiting Operations

// CheckRateLimit counts one request against key within a fixed window and
// reports whether it is still under limit.
func (c *Cache) CheckRateLimit(ctx context.Context, key string, limit int64, window time.Duration) (bool, error) {
	rateLimitKey := fmt.Sprintf("ratelimit:%s", key)

	count, err := c.client.Incr(ctx, rateLimitKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit: %w", err)
	}

	if count == 1 {
		if err := c.client.Expire(ctx, rateLimitKey, window).Err(); err != nil {
			return false, fmt.Errorf("failed to set expiry: %w", err)
		}
	}

	return count <= limit, nil
}

// Locking Operations

// AcquireLock attempts to acquire a distributed lock
func (c *Cache) AcquireLock(ctx context.Context, resource string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:%s", resource)
	return c.client.SetNX(ctx, key, "locked", ttl).Result()
}

// ReleaseLock releases a distributed lock
func (c *Cache) ReleaseLock(ctx context.Context, resource string) error {
	key := fmt.Sprintf("lock:%s", resource)
	return c.client.Del(ctx, key).Err()
}

// Generic Operations

func (c *Cache) setJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *Cache) getJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get value from cache: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal value: %w", err)
	}

	return true, nil
}

// Ping checks the connection
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

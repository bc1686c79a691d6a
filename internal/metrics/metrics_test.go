package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()

	RecordHTTPRequest("POST", "/api/v1/actions", "200", 0.012)

	assert.Equal(t, 1.0, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/actions", "200")))
}

func TestRecordAction(t *testing.T) {
	ActionsTotal.Reset()
	ActionDuration.Reset()

	RecordAction("command", "view", "success", 0.0001)
	RecordAction("command", "view", "success", 0.0002)
	RecordAction("recommendation", "popular", "not_applicable", 0.0003)

	assert.Equal(t, 2.0, testutil.ToFloat64(ActionsTotal.WithLabelValues("command", "view", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(ActionsTotal.WithLabelValues("recommendation", "popular", "not_applicable")))
	assert.Equal(t, 2, testutil.CollectAndCount(ActionDuration))
}

func TestRecordSuppressed(t *testing.T) {
	before := testutil.ToFloat64(ActionsSuppressedTotal)
	RecordSuppressed()
	assert.Equal(t, before+1, testutil.ToFloat64(ActionsSuppressedTotal))
}

func TestUpdateCatalogMetrics(t *testing.T) {
	UpdateCatalogMetrics(3, 2, 5, 4)

	assert.Equal(t, 3.0, testutil.ToFloat64(CatalogEntities.WithLabelValues("movies")))
	assert.Equal(t, 2.0, testutil.ToFloat64(CatalogEntities.WithLabelValues("shows")))
	assert.Equal(t, 5.0, testutil.ToFloat64(CatalogEntities.WithLabelValues("actors")))
	assert.Equal(t, 4.0, testutil.ToFloat64(CatalogEntities.WithLabelValues("users")))
}

func TestBatchMetrics(t *testing.T) {
	BatchRunsTotal.Reset()
	BatchRunsInProgress.Set(0)

	RecordBatchStarted()
	RecordBatchStarted()
	assert.Equal(t, 2.0, testutil.ToFloat64(BatchRunsInProgress))

	RecordBatchFinished("completed", 0.5)
	RecordBatchFinished("failed", 0.1)

	assert.Equal(t, 0.0, testutil.ToFloat64(BatchRunsInProgress))
	assert.Equal(t, 1.0, testutil.ToFloat64(BatchRunsTotal.WithLabelValues("completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(BatchRunsTotal.WithLabelValues("failed")))
}

func TestRecordStorageOperation(t *testing.T) {
	StorageOperationsTotal.Reset()
	StorageBytesTransferred.Reset()

	RecordStorageOperation("put", "success", 0.2, 2048)

	assert.Equal(t, 1.0, testutil.ToFloat64(StorageOperationsTotal.WithLabelValues("put", "success")))
	assert.Equal(t, 2048.0, testutil.ToFloat64(StorageBytesTransferred.WithLabelValues("put")))
}

func TestRecordDatabaseOperation(t *testing.T) {
	DatabaseOperationsTotal.Reset()

	RecordDatabaseOperation("create_batch_run", "success", 0.003)

	assert.Equal(t, 1.0, testutil.ToFloat64(DatabaseOperationsTotal.WithLabelValues("create_batch_run", "success")))
}

func TestRecordCacheAccess(t *testing.T) {
	CacheHitsTotal.Reset()
	CacheMissesTotal.Reset()

	RecordCacheAccess("batch_results", true)
	RecordCacheAccess("batch_results", true)
	RecordCacheAccess("batch_results", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(CacheHitsTotal.WithLabelValues("batch_results")))
	assert.Equal(t, 1.0, testutil.ToFloat64(CacheMissesTotal.WithLabelValues("batch_results")))
}

func TestRecordError(t *testing.T) {
	ErrorsTotal.Reset()

	RecordError("queue", "publish")

	assert.Equal(t, 1.0, testutil.ToFloat64(ErrorsTotal.WithLabelValues("queue", "publish")))
}

func TestUpdateQueueDepth(t *testing.T) {
	UpdateQueueDepth("videosdb_batches", 12)
	assert.Equal(t, 12.0, testutil.ToFloat64(QueueDepth.WithLabelValues("videosdb_batches")))

	UpdateQueueDepth("videosdb_batches", 0)
	assert.Equal(t, 0.0, testutil.ToFloat64(QueueDepth.WithLabelValues("videosdb_batches")))
}

func TestHealthHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	healthHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

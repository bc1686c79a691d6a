package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "videosdb_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "videosdb_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Action Metrics
	ActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "videosdb_actions_total",
			Help: "Total number of processed actions",
		},
		[]string{"kind", "type", "outcome"},
	)

	ActionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "videosdb_action_duration_seconds",
			Help:    "Action processing duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10us to ~2.6s
		},
		[]string{"kind"},
	)

	ActionsSuppressedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "videosdb_actions_suppressed_total",
			Help: "Total number of actions that produced no result",
		},
	)

	// Catalog Metrics
	CatalogEntities = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "videosdb_catalog_entities",
			Help: "Number of entities registered in the catalog",
		},
		[]string{"collection"},
	)

	// Batch Metrics
	BatchRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "videosdb_batch_runs_total",
			Help: "Total number of finished batch runs",
		},
		[]string{"status"},
	)

	BatchRunsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "videosdb_batch_runs_in_progress",
			Help: "Number of batch runs currently being processed",
		},
	)

	BatchRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "videosdb_batch_run_duration_seconds",
			Help:    "Batch run processing duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15),
		},
	)

	QueueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "videosdb_queue_depth",
			Help: "Number of messages waiting in a queue",
		},
		[]string{"queue"},
	)

	// Storage Metrics
	StorageOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "videosdb_storage_operations_total",
			Help: "Total number of storage operations",
		},
		[]string{"operation", "status"},
	)

	StorageOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "videosdb_storage_operation_duration_seconds",
			Help:    "Storage operation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"operation"},
	)

	StorageBytesTransferred = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "videosdb_storage_bytes_transferred_total",
			Help: "Total bytes transferred to/from storage",
		},
		[]string{"operation"},
	)

	// Database Metrics
	DatabaseOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "videosdb_database_operations_total",
			Help: "Total number of database operations",
		},
		[]string{"operation", "status"},
	)

	DatabaseOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "videosdb_database_operation_duration_seconds",
			Help:    "Database operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// Cache Metrics
	CacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "videosdb_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "videosdb_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	// Error Metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "videosdb_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)
)

// RecordHTTPRequest records an HTTP request
func RecordHTTPRequest(method, endpoint, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration)
}

// RecordAction records one processed action
func RecordAction(kind, actionType, outcome string, duration float64) {
	ActionsTotal.WithLabelValues(kind, actionType, outcome).Inc()
	ActionDuration.WithLabelValues(kind).Observe(duration)
}

// RecordSuppressed records an action that yielded no result
func RecordSuppressed() {
	ActionsSuppressedTotal.Inc()
}

// UpdateCatalogMetrics sets the catalog entity gauges
func UpdateCatalogMetrics(movies, shows, actors, users int) {
	CatalogEntities.WithLabelValues("movies").Set(float64(movies))
	CatalogEntities.WithLabelValues("shows").Set(float64(shows))
	CatalogEntities.WithLabelValues("actors").Set(float64(actors))
	CatalogEntities.WithLabelValues("users").Set(float64(users))
}

// RecordBatchStarted marks a batch run as in progress
func RecordBatchStarted() {
	BatchRunsInProgress.Inc()
}

// RecordBatchFinished records the terminal status of a batch run
func RecordBatchFinished(status string, duration float64) {
	BatchRunsInProgress.Dec()
	BatchRunsTotal.WithLabelValues(status).Inc()
	BatchRunDuration.Observe(duration)
}

// RecordStorageOperation records a storage operation
func RecordStorageOperation(operation, status string, duration float64, bytesTransferred int64) {
	StorageOperationsTotal.WithLabelValues(operation, status).Inc()
	StorageOperationDuration.WithLabelValues(operation).Observe(duration)
	StorageBytesTransferred.WithLabelValues(operation).Add(float64(bytesTransferred))
}

// RecordDatabaseOperation records a database operation
func RecordDatabaseOperation(operation, status string, duration float64) {
	DatabaseOperationsTotal.WithLabelValues(operation, status).Inc()
	DatabaseOperationDuration.WithLabelValues(operation).Observe(duration)
}

// RecordCacheAccess records cache hit or miss
func RecordCacheAccess(cacheType string, hit bool) {
	if hit {
		CacheHitsTotal.WithLabelValues(cacheType).Inc()
	} else {
		CacheMissesTotal.WithLabelValues(cacheType).Inc()
	}
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

// UpdateQueueDepth records the depth of a queue
func UpdateQueueDepth(queue string, depth int) {
	QueueDepth.WithLabelValues(queue).Set(float64(depth))
}

// Package monitoring watches the batch pipeline: queue depths and the
// batch run ledger.
package monitoring

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/therealutkarshpriyadarshi/videosdb/internal/logging"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/metrics"
	"github.com/therealutkarshpriyadarshi/videosdb/pkg/models"
)

// Health levels
const (
	HealthHealthy  = "healthy"
	HealthWarning  = "warning"
	HealthCritical = "critical"
)

// Alert thresholds
const (
	maxQueueDepth  = 1000
	maxDLQDepth    = 100
	maxFailureRate = 0.1
)

// Snapshot holds the last collected pipeline state
type Snapshot struct {
	QueueDepth     int       `json:"queue_depth"`
	DLQDepth       int       `json:"dlq_depth"`
	PendingRuns    int64     `json:"pending_runs"`
	ProcessingRuns int64     `json:"processing_runs"`
	CompletedRuns  int64     `json:"completed_runs"`
	FailedRuns     int64     `json:"failed_runs"`
	LastUpdated    time.Time `json:"last_updated"`
}

// TotalRuns returns the number of runs in the ledger
func (s *Snapshot) TotalRuns() int64 {
	return s.PendingRuns + s.ProcessingRuns + s.CompletedRuns + s.FailedRuns
}

// RunCounter reports batch runs per status
type RunCounter interface {
	CountBatchRuns(ctx context.Context) (map[string]int64, error)
}

// QueueProvider defines the interface for queue metrics
type QueueProvider interface {
	GetQueueDepth() (int, error)
	GetDLQDepth() (int, error)
}

// Monitor periodically samples the pipeline
type Monitor struct {
	snapshot Snapshot
	mu       sync.RWMutex
	runs     RunCounter
	queue    QueueProvider
	names    [2]string
	logger   *logging.Logger
}

// NewMonitor creates a monitor. queueName and dlqName label the depth gauges.
func NewMonitor(runs RunCounter, queue QueueProvider, queueName, dlqName string, logger *logging.Logger) *Monitor {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Monitor{
		snapshot: Snapshot{LastUpdated: time.Now()},
		runs:     runs,
		queue:    queue,
		names:    [2]string{queueName, dlqName},
		logger:   logger,
	}
}

// Start samples every interval until ctx is done
func (m *Monitor) Start(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := m.Collect(ctx); err != nil {
					m.logger.WithError(err).Warn("Failed to collect pipeline metrics")
				}
			}
		}
	}()
}

// Collect takes one sample
func (m *Monitor) Collect(ctx context.Context) error {
	queueDepth, err := m.queue.GetQueueDepth()
	if err != nil {
		return fmt.Errorf("failed to get queue depth: %w", err)
	}
	dlqDepth, err := m.queue.GetDLQDepth()
	if err != nil {
		return fmt.Errorf("failed to get DLQ depth: %w", err)
	}
	counts, err := m.runs.CountBatchRuns(ctx)
	if err != nil {
		return fmt.Errorf("failed to count batch runs: %w", err)
	}

	metrics.UpdateQueueDepth(m.names[0], queueDepth)
	metrics.UpdateQueueDepth(m.names[1], dlqDepth)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.snapshot = Snapshot{
		QueueDepth:     queueDepth,
		DLQDepth:       dlqDepth,
		PendingRuns:    counts[models.BatchStatusPending],
		ProcessingRuns: counts[models.BatchStatusProcessing],
		CompletedRuns:  counts[models.BatchStatusCompleted],
		FailedRuns:     counts[models.BatchStatusFailed],
		LastUpdated:    time.Now(),
	}
	return nil
}

// Snapshot returns a copy of the last sample
func (m *Monitor) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}

// Health returns the overall pipeline health
func (m *Monitor) Health() string {
	s := m.Snapshot()

	if s.DLQDepth > maxDLQDepth {
		return HealthCritical
	}
	if s.QueueDepth > maxQueueDepth || failureRate(&s) > maxFailureRate {
		return HealthWarning
	}
	return HealthHealthy
}

// Alerts describes every threshold the last sample crossed
func (m *Monitor) Alerts() []string {
	s := m.Snapshot()
	alerts := []string{}

	if s.DLQDepth > maxDLQDepth {
		alerts = append(alerts, fmt.Sprintf("High DLQ depth: %d messages", s.DLQDepth))
	}
	if s.QueueDepth > maxQueueDepth {
		alerts = append(alerts, fmt.Sprintf("High queue depth: %d batch runs pending", s.QueueDepth))
	}
	if rate := failureRate(&s); rate > maxFailureRate {
		alerts = append(alerts, fmt.Sprintf("High failure rate: %.1f%%", rate*100))
	}

	return alerts
}

func failureRate(s *Snapshot) float64 {
	total := s.TotalRuns()
	if total == 0 {
		return 0
	}
	return float64(s.FailedRuns) / float64(total)
}

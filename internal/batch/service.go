// Package batch runs whole input documents asynchronously: it stores
// submitted documents, hands them to workers over the queue and keeps the
// run record and its results.
package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/therealutkarshpriyadarshi/videosdb/internal/engine"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/loader"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/logging"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/metrics"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/storage"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/tracing"
	"github.com/therealutkarshpriyadarshi/videosdb/pkg/models"
)

var (
	// ErrInvalidDocument is returned by Submit for documents that do not parse
	ErrInvalidDocument = errors.New("invalid input document")
	// ErrNotCompleted is returned by Results while a run is still going
	ErrNotCompleted = errors.New("batch run has not completed")
	// ErrInProgress is returned by Delete for runs a worker is executing
	ErrInProgress = errors.New("batch run is being processed")
	// ErrLocked is returned by Process when another worker holds the run
	ErrLocked = errors.New("batch run is locked by another worker")
)

const maxListLimit = 100

// DocumentStore keeps input and output documents
type DocumentStore interface {
	PutDocument(ctx context.Context, key string, data []byte) error
	GetDocument(ctx context.Context, key string) ([]byte, error)
	GetURL(ctx context.Context, key string) (string, error)
	List(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, key string) error
}

// RunStore persists batch run records
type RunStore interface {
	CreateBatchRun(ctx context.Context, run *models.BatchRun) error
	GetBatchRun(ctx context.Context, id string) (*models.BatchRun, error)
	UpdateBatchRun(ctx context.Context, run *models.BatchRun) error
	ListBatchRuns(ctx context.Context, status string, limit, offset int) ([]*models.BatchRun, error)
	DeleteBatchRun(ctx context.Context, id string) error
}

// ResultCache holds recent runs and their results
type ResultCache interface {
	SetBatchRun(ctx context.Context, run *models.BatchRun, ttl time.Duration) error
	GetBatchRun(ctx context.Context, id string) (*models.BatchRun, error)
	SetBatchResults(ctx context.Context, id string, results []models.Result, ttl time.Duration) error
	GetBatchResults(ctx context.Context, id string) ([]models.Result, bool, error)
	DeleteBatch(ctx context.Context, id string) error
}

// Publisher hands batch messages to workers
type Publisher interface {
	PublishBatch(ctx context.Context, msg *models.BatchMessage) error
}

// Notifier announces finished runs
type Notifier interface {
	NotifyBatch(ctx context.Context, run *models.BatchRun) error
}

// Locker serializes work on one run across workers
type Locker interface {
	AcquireLock(ctx context.Context, resource string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, resource string) error
}

const lockTTL = 10 * time.Minute

// Service coordinates batch runs
type Service struct {
	documents DocumentStore
	runs      RunStore
	cache     ResultCache
	publisher Publisher
	notifier  Notifier
	locker    Locker
	logger    *logging.Logger
	ttl       time.Duration
}

// NewService creates a batch service. cache and publisher may be nil: runs
// are then read from the run store only, and Submit does not enqueue.
func NewService(documents DocumentStore, runs RunStore, cache ResultCache, publisher Publisher, logger *logging.Logger, ttl time.Duration) *Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Service{
		documents: documents,
		runs:      runs,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
		ttl:       ttl,
	}
}

// WithNotifier makes the service announce every run that finishes
func (s *Service) WithNotifier(n Notifier) *Service {
	s.notifier = n
	return s
}

// WithLocker makes Process hold a lock on the run while it executes
func (s *Service) WithLocker(l Locker) *Service {
	s.locker = l
	return s
}

// Submit stores data as a new pending run and enqueues it
func (s *Service) Submit(ctx context.Context, data []byte) (*models.BatchRun, error) {
	in, err := loader.DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	id := uuid.New().String()
	run := &models.BatchRun{
		ID:          id,
		InputKey:    storage.InputKey(id),
		Status:      models.BatchStatusPending,
		ActionCount: len(in.Actions),
	}

	if err := s.documents.PutDocument(ctx, run.InputKey, data); err != nil {
		return nil, fmt.Errorf("failed to store input document: %w", err)
	}
	if err := s.runs.CreateBatchRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to create batch run: %w", err)
	}
	s.cacheRun(ctx, run)

	if s.publisher != nil {
		msg := &models.BatchMessage{BatchID: run.ID, InputKey: run.InputKey, SubmittedAt: time.Now()}
		if err := s.publisher.PublishBatch(ctx, msg); err != nil {
			return s.fail(ctx, run, fmt.Errorf("failed to queue batch run: %w", err))
		}
	}

	s.logger.LogBatchEvent(run.ID, "submitted", run.Status, map[string]interface{}{
		"actions": run.ActionCount,
	})
	return run, nil
}

// Process executes the document of a queued run and stores its results
func (s *Service) Process(ctx context.Context, msg *models.BatchMessage) error {
	span, ctx := tracing.StartBatchSpan(ctx, msg.BatchID)
	defer tracing.FinishSpan(span)

	if s.locker != nil {
		resource := "batch:" + msg.BatchID
		acquired, err := s.locker.AcquireLock(ctx, resource, lockTTL)
		if err != nil {
			return fmt.Errorf("failed to lock batch run: %w", err)
		}
		if !acquired {
			return ErrLocked
		}
		defer s.locker.ReleaseLock(context.WithoutCancel(ctx), resource)
	}

	run, err := s.runs.GetBatchRun(ctx, msg.BatchID)
	if err != nil {
		tracing.LogError(span, err)
		return fmt.Errorf("failed to get batch run: %w", err)
	}
	if run.IsTerminal() {
		s.logger.LogBatchEvent(run.ID, "skipped", run.Status, nil)
		return nil
	}

	start := time.Now()
	metrics.RecordBatchStarted()
	run.Status = models.BatchStatusProcessing
	if err := s.runs.UpdateBatchRun(ctx, run); err != nil {
		metrics.RecordBatchFinished(models.BatchStatusFailed, time.Since(start).Seconds())
		return fmt.Errorf("failed to update batch run: %w", err)
	}
	s.cacheRun(ctx, run)
	s.logger.LogBatchEvent(run.ID, "started", run.Status, nil)

	results, err := s.execute(ctx, run)
	if err != nil {
		tracing.LogError(span, err)
		metrics.RecordBatchFinished(models.BatchStatusFailed, time.Since(start).Seconds())
		if errors.Is(err, ErrInvalidDocument) {
			s.fail(ctx, run, err)
			s.notify(ctx, run)
			return nil
		}
		// The run stays processing so a redelivery picks it up again.
		s.logger.WithBatchID(run.ID).WithError(err).Warn("Batch run attempt failed")
		return err
	}

	run.Status = models.BatchStatusCompleted
	run.ResultCount = len(results)
	if err := s.runs.UpdateBatchRun(ctx, run); err != nil {
		metrics.RecordBatchFinished(models.BatchStatusFailed, time.Since(start).Seconds())
		return fmt.Errorf("failed to update batch run: %w", err)
	}
	s.cacheRun(ctx, run)
	if s.cache != nil {
		if err := s.cache.SetBatchResults(ctx, run.ID, results, s.ttl); err != nil {
			s.logger.WithBatchID(run.ID).WithError(err).Warn("Failed to cache batch results")
		}
	}

	duration := time.Since(start)
	metrics.RecordBatchFinished(run.Status, duration.Seconds())
	tracing.SetTag(span, "batch.results", run.ResultCount)
	s.logger.LogBatchEvent(run.ID, "completed", run.Status, map[string]interface{}{
		"results":     run.ResultCount,
		"duration_ms": duration.Milliseconds(),
	})
	s.notify(ctx, run)
	return nil
}

func (s *Service) notify(ctx context.Context, run *models.BatchRun) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyBatch(ctx, run); err != nil {
		s.logger.WithBatchID(run.ID).WithError(err).Warn("Failed to deliver batch notification")
	}
}

func (s *Service) execute(ctx context.Context, run *models.BatchRun) ([]models.Result, error) {
	data, err := s.documents.GetDocument(ctx, run.InputKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read input document: %w", err)
	}
	in, err := loader.DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	c, _ := loader.Load(in, s.logger.WithBatchID(run.ID))
	results, err := engine.New(c, s.logger.WithBatchID(run.ID)).Run(ctx, in.Actions)
	if err != nil {
		return nil, fmt.Errorf("batch run interrupted: %w", err)
	}

	var buf bytes.Buffer
	if err := loader.EncodeResults(&buf, results); err != nil {
		return nil, err
	}
	run.OutputKey = storage.OutputKey(run.ID)
	if err := s.documents.PutDocument(ctx, run.OutputKey, buf.Bytes()); err != nil {
		run.OutputKey = ""
		return nil, fmt.Errorf("failed to store output document: %w", err)
	}
	return results, nil
}

func (s *Service) fail(ctx context.Context, run *models.BatchRun, cause error) (*models.BatchRun, error) {
	run.Status = models.BatchStatusFailed
	run.Error = cause.Error()
	if err := s.runs.UpdateBatchRun(ctx, run); err != nil {
		s.logger.WithBatchID(run.ID).WithError(err).Error("Failed to mark batch run failed")
	}
	s.cacheRun(ctx, run)
	s.logger.LogBatchEvent(run.ID, "failed", run.Status, map[string]interface{}{
		"error": run.Error,
	})
	return run, cause
}

func (s *Service) cacheRun(ctx context.Context, run *models.BatchRun) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetBatchRun(ctx, run, s.ttl); err != nil {
		s.logger.WithBatchID(run.ID).WithError(err).Warn("Failed to cache batch run")
	}
}

// Get returns a run, preferring the cached copy
func (s *Service) Get(ctx context.Context, id string) (*models.BatchRun, error) {
	if s.cache != nil {
		if run, err := s.cache.GetBatchRun(ctx, id); err == nil && run != nil {
			return run, nil
		}
	}

	run, err := s.runs.GetBatchRun(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cacheRun(ctx, run)
	return run, nil
}

// List returns runs newest first, optionally filtered by status
func (s *Service) List(ctx context.Context, status string, limit, offset int) ([]*models.BatchRun, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	runs, err := s.runs.ListBatchRuns(ctx, status, limit, offset)
	if err != nil {
		return nil, err
	}
	if runs == nil {
		runs = []*models.BatchRun{}
	}
	return runs, nil
}

// Results returns the results of a completed run
func (s *Service) Results(ctx context.Context, id string) ([]models.Result, error) {
	if s.cache != nil {
		if results, found, err := s.cache.GetBatchResults(ctx, id); err == nil && found {
			return results, nil
		}
	}

	run, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if run.Status != models.BatchStatusCompleted {
		return nil, ErrNotCompleted
	}

	data, err := s.documents.GetDocument(ctx, run.OutputKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read output document: %w", err)
	}
	results, err := loader.DecodeResults(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetBatchResults(ctx, id, results, s.ttl); err != nil {
			s.logger.WithBatchID(id).WithError(err).Warn("Failed to cache batch results")
		}
	}
	return results, nil
}

// OutputURL returns a temporary download link for the result document of a
// completed run
func (s *Service) OutputURL(ctx context.Context, id string) (string, error) {
	run, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if run.Status != models.BatchStatusCompleted {
		return "", ErrNotCompleted
	}
	return s.documents.GetURL(ctx, run.OutputKey)
}

// Delete removes a run with its documents and cached copies
func (s *Service) Delete(ctx context.Context, id string) error {
	run, err := s.runs.GetBatchRun(ctx, id)
	if err != nil {
		return err
	}
	if run.Status == models.BatchStatusProcessing {
		return ErrInProgress
	}

	keys, err := s.documents.List(ctx, storage.BatchPrefix(id))
	if err != nil {
		return fmt.Errorf("failed to list batch documents: %w", err)
	}
	for _, key := range keys {
		if err := s.documents.Delete(ctx, key); err != nil {
			return fmt.Errorf("failed to delete batch document: %w", err)
		}
	}

	if s.cache != nil {
		if err := s.cache.DeleteBatch(ctx, id); err != nil {
			s.logger.WithBatchID(id).WithError(err).Warn("Failed to evict cached batch run")
		}
	}
	if err := s.runs.DeleteBatchRun(ctx, id); err != nil {
		return err
	}

	s.logger.LogBatchEvent(id, "deleted", run.Status, map[string]interface{}{
		"documents": len(keys),
	})
	return nil
}

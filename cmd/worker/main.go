package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/therealutkarshpriyadarshi/videosdb/internal/batch"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/cache"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/config"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/database"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/logging"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/metrics"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/queue"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/storage"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/tracing"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/webhook"
	"github.com/therealutkarshpriyadarshi/videosdb/pkg/models"
)

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(logging.Config(cfg.Logging))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	_, closer, err := tracing.InitTracer(cfg.Tracing.ServiceName+"-worker", cfg.Tracing.Endpoint)
	if err != nil {
		logger.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer closer.Close()

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database
	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	repo := database.NewRepository(db)

	// Initialize storage
	stor, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		logger.Fatalf("Failed to initialize storage: %v", err)
	}

	// Initialize queue
	q, err := queue.New(cfg.Queue)
	if err != nil {
		logger.Fatalf("Failed to connect to queue: %v", err)
	}
	defer q.Close()

	// The worker runs without a cache when redis is unreachable
	var results batch.ResultCache
	rc, err := cache.NewCache(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.WithError(err).Warn("Redis unavailable, results will not be cached")
	} else {
		results = rc
	}

	service := batch.NewService(stor, repo, results, nil, logger, cfg.Batch.ResultTTL)
	if rc != nil {
		defer rc.Close()
		service.WithLocker(rc)
	}
	if notifier := webhook.NewNotifier(cfg.Webhook, logger); notifier != nil {
		service.WithNotifier(notifier)
		logger.WithField("url", cfg.Webhook.URL).Info("Batch notifications enabled")
	}

	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewServer(cfg.Metrics.Port)
		go func() {
			if err := metricsServer.Start(); err != nil {
				logger.ErrorWithErr("Metrics server stopped", err)
			}
		}()
		defer metricsServer.Shutdown(context.Background())
	}

	// Handle shutdown gracefully
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutting down worker gracefully...")
		cancel()
	}()

	// Batch handler
	handler := func(ctx context.Context, msg *models.BatchMessage) error {
		l := logger.WithBatchID(msg.BatchID)
		l.Info("Processing batch run")

		if err := service.Process(ctx, msg); err != nil {
			l.ErrorWithErr("Failed to process batch run", err)
			return err
		}

		l.Info("Successfully processed batch run")
		return nil
	}

	// Start consuming batches
	logger.Info("Worker started, waiting for batch runs...")
	if err := q.ConsumeBatches(ctx, handler); err != nil {
		logger.Fatalf("Failed to consume batches: %v", err)
	}

	// Wait for shutdown
	<-ctx.Done()
	logger.Info("Worker stopped")
}

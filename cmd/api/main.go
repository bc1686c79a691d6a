package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/therealutkarshpriyadarshi/videosdb/internal/batch"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/cache"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/catalog"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/config"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/database"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/engine"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/loader"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/logging"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/metrics"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/middleware"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/monitoring"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/queue"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/storage"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/tracing"
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

	_, closer, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.Endpoint)
	if err != nil {
		logger.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer closer.Close()

	ctx := context.Background()

	// Catalog served by the action endpoint
	c := catalog.New()
	if cfg.Engine.InputPath != "" {
		in, err := loader.DecodeFile(cfg.Engine.InputPath)
		if err != nil {
			logger.Fatalf("Failed to read catalog: %v", err)
		}
		c, _ = loader.Load(in, logger)
	}
	eng := engine.New(c, logger)

	// Initialize database
	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}
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

	// Initialize cache
	rc, err := cache.NewCache(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatalf("Failed to connect to redis: %v", err)
	}
	defer rc.Close()

	monitor := monitoring.NewMonitor(repo, q, queue.BatchQueueName, queue.DeadLetterQueueName, logger)
	monitorCtx, stopMonitor := context.WithCancel(ctx)
	defer stopMonitor()
	monitor.Start(monitorCtx, 15*time.Second)

	api := &API{
		engine:  eng,
		batches: batch.NewService(stor, repo, rc, q, logger, cfg.Batch.ResultTTL),
		monitor: monitor,
		checks: []HealthCheck{
			{Name: "database", Check: db.Health},
			{Name: "redis", Check: rc.Ping},
		},
		logger: logger,
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	limiterCtx, stopLimiter := context.WithCancel(ctx)
	defer stopLimiter()
	go limiter.Cleanup(limiterCtx, 5*time.Minute)

	auth := middleware.NewAuthenticator(cfg.Auth.Secret)
	if !auth.Enabled() {
		logger.Warn("No auth secret configured, write endpoints are open")
	}

	gin.SetMode(gin.ReleaseMode)
	router := setupRouter(api, routerOptions{auth: auth, limiter: limiter, shared: rc})

	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metricsServer = metrics.NewServer(cfg.Metrics.Port)
		go func() {
			if err := metricsServer.Start(); err != nil {
				logger.ErrorWithErr("Metrics server stopped", err)
			}
		}()
	}

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Infof("Starting API server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()

	if metricsServer != nil {
		metricsServer.Shutdown(shutdownCtx)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server stopped")
}

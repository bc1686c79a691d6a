package main

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/therealutkarshpriyadarshi/videosdb/internal/middleware"
)

// batchSubmitLimit caps submissions per client across every replica
const (
	batchSubmitLimit  = 30
	batchSubmitWindow = time.Minute
)

type routerOptions struct {
	auth    *middleware.Authenticator
	limiter *middleware.RateLimiter
	shared  middleware.RateLimitChecker
}

func setupRouter(api *API, opts routerOptions) *gin.Engine {
	if opts.auth == nil {
		opts.auth = middleware.NewAuthenticator("")
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(api.logger))

	// Health check
	router.GET("/health", api.healthCheck)

	v1 := router.Group("/api/v1")
	if opts.limiter != nil {
		v1.Use(middleware.RateLimit(opts.limiter))
	}

	submit := []gin.HandlerFunc{api.submitBatch}
	if opts.shared != nil {
		submit = append([]gin.HandlerFunc{
			middleware.SharedRateLimit(opts.shared, "batches", batchSubmitLimit, batchSubmitWindow),
		}, submit...)
	}

	// Writes require a bearer token when auth is configured
	writes := v1.Group("")
	writes.Use(opts.auth.JWTAuth())
	{
		writes.POST("/actions", api.executeAction)
		writes.POST("/batches", submit...)
		writes.DELETE("/batches/:id", api.deleteBatch)
	}

	{
		v1.GET("/batches", api.listBatches)
		v1.GET("/batches/:id", api.getBatch)
		v1.GET("/batches/:id/results", api.getBatchResults)
		v1.GET("/batches/:id/output", api.downloadBatchOutput)
		v1.GET("/catalog/stats", api.catalogStats)
		v1.GET("/system/status", api.pipelineStatus)
	}

	return router
}

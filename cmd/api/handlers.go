package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/therealutkarshpriyadarshi/videosdb/internal/batch"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/catalog"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/database"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/logging"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/monitoring"
	"github.com/therealutkarshpriyadarshi/videosdb/pkg/models"
)

// maxDocumentSize bounds the body of a batch submission
const maxDocumentSize = 32 << 20

// ActionEngine executes single actions against the served catalog
type ActionEngine interface {
	Execute(ctx context.Context, a models.ActionInput) (models.Result, bool)
	Stats() catalog.Stats
}

// BatchService manages asynchronous batch runs
type BatchService interface {
	Submit(ctx context.Context, data []byte) (*models.BatchRun, error)
	Get(ctx context.Context, id string) (*models.BatchRun, error)
	Results(ctx context.Context, id string) ([]models.Result, error)
	List(ctx context.Context, status string, limit, offset int) ([]*models.BatchRun, error)
	OutputURL(ctx context.Context, id string) (string, error)
	Delete(ctx context.Context, id string) error
}

// PipelineStatus reports the state of the batch pipeline
type PipelineStatus interface {
	Snapshot() monitoring.Snapshot
	Health() string
	Alerts() []string
}

// HealthCheck probes one dependency
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type API struct {
	engine  ActionEngine
	batches BatchService
	monitor PipelineStatus
	checks  []HealthCheck
	logger  *logging.Logger
}

// Health check endpoint
func (api *API) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	for _, hc := range api.checks {
		if err := hc.Check(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"component": hc.Name,
				"error":     err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}

// Execute action endpoint
func (api *API) executeAction(c *gin.Context) {
	var action models.ActionInput
	if err := c.ShouldBindJSON(&action); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, ok := api.engine.Execute(c.Request.Context(), action)
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Catalog stats endpoint
func (api *API) catalogStats(c *gin.Context) {
	c.JSON(http.StatusOK, api.engine.Stats())
}

// Submit batch endpoint
func (api *API) submitBatch(c *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxDocumentSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	run, err := api.batches.Submit(c.Request.Context(), data)
	if errors.Is(err, batch.ErrInvalidDocument) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		api.logger.WithError(err).Error("Failed to submit batch run")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit batch run"})
		return
	}

	c.JSON(http.StatusAccepted, run)
}

// Get batch endpoint
func (api *API) getBatch(c *gin.Context) {
	run, err := api.batches.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, database.ErrBatchRunNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Batch run not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, run)
}

// Get batch results endpoint
func (api *API) getBatchResults(c *gin.Context) {
	id := c.Param("id")

	results, err := api.batches.Results(c.Request.Context(), id)
	switch {
	case errors.Is(err, database.ErrBatchRunNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Batch run not found"})
		return
	case errors.Is(err, batch.ErrNotCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "batch_id": id})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"batch_id": id,
		"results":  results,
	})
}

// Download batch output endpoint
func (api *API) downloadBatchOutput(c *gin.Context) {
	url, err := api.batches.OutputURL(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, database.ErrBatchRunNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Batch run not found"})
		return
	case errors.Is(err, batch.ErrNotCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, url)
}

// Delete batch endpoint
func (api *API) deleteBatch(c *gin.Context) {
	id := c.Param("id")

	err := api.batches.Delete(c.Request.Context(), id)
	switch {
	case errors.Is(err, database.ErrBatchRunNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Batch run not found"})
		return
	case errors.Is(err, batch.ErrInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to delete batch run: %v", err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Batch run deleted successfully", "batch_id": id})
}

// List batches endpoint
func (api *API) listBatches(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	status := c.Query("status")

	runs, err := api.batches.List(c.Request.Context(), status, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"batches": runs,
		"limit":   limit,
		"offset":  offset,
	})
}

// Pipeline status endpoint
func (api *API) pipelineStatus(c *gin.Context) {
	if api.monitor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Pipeline monitoring is not enabled"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"health":  api.monitor.Health(),
		"alerts":  api.monitor.Alerts(),
		"metrics": api.monitor.Snapshot(),
	})
}

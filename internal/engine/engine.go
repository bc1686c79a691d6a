// Package engine routes actions to the command, query and recommendation
// handlers and renders their results.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/therealutkarshpriyadarshi/videosdb/internal/catalog"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/logging"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/metrics"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/tracing"
	"github.com/therealutkarshpriyadarshi/videosdb/pkg/models"
)

// Engine executes actions against one catalog. Each action runs to
// completion under the engine lock, so concurrent callers observe actions
// as if they were applied one at a time.
type Engine struct {
	mu      sync.Mutex
	catalog *catalog.Catalog
	logger  *logging.Logger

	commands        map[string]handler
	queries         map[queryKey]handler
	recommendations map[string]handler
}

// New creates an engine over c. A nil logger discards log output.
func New(c *catalog.Catalog, logger *logging.Logger) *Engine {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	stats := c.Stats()
	metrics.UpdateCatalogMetrics(stats.Movies, stats.Shows, stats.Actors, stats.Users)

	return &Engine{
		catalog:         c,
		logger:          logger,
		commands:        commandHandlers(),
		queries:         queryHandlers(),
		recommendations: recommendationHandlers(),
	}
}

// Execute runs one action. The boolean is false when the action produces no
// result, for example a favorite command on an unknown title or an action
// with an unknown type.
func (e *Engine) Execute(ctx context.Context, a models.ActionInput) (models.Result, bool) {
	span, _ := tracing.StartActionSpan(ctx, a.ActionID, a.ActionType, actionType(&a))
	defer tracing.FinishSpan(span)

	e.mu.Lock()
	start := time.Now()
	message, outcome := e.dispatch(&a)
	duration := time.Since(start)
	e.mu.Unlock()

	if message == "" {
		outcome = OutcomeSuppressed
	}
	tracing.SetTag(span, "action.outcome", string(outcome))
	metrics.RecordAction(a.ActionType, actionType(&a), string(outcome), duration.Seconds())
	e.logger.LogActionEvent(a.ActionID, a.ActionType, actionType(&a), string(outcome), duration)

	if message == "" {
		metrics.RecordSuppressed()
		return models.Result{}, false
	}
	return models.Result{ID: a.ActionID, Message: message}, true
}

// Run executes actions in order and collects the results they produce. It
// stops early only when ctx is cancelled.
func (e *Engine) Run(ctx context.Context, actions []models.ActionInput) ([]models.Result, error) {
	results := make([]models.Result, 0, len(actions))
	for _, a := range actions {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		if res, ok := e.Execute(ctx, a); ok {
			results = append(results, res)
		}
	}
	return results, nil
}

// Stats returns the catalog size
func (e *Engine) Stats() catalog.Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.catalog.Stats()
}

func (e *Engine) dispatch(a *models.ActionInput) (string, Outcome) {
	var h handler
	switch a.ActionType {
	case models.ActionCommand:
		h = e.commands[a.Type]
	case models.ActionQuery:
		h = e.queries[queryKey{a.ObjectType, a.Criteria}]
	case models.ActionRecommendation:
		h = e.recommendations[a.Type]
	}
	if h == nil {
		return "", OutcomeSuppressed
	}
	return h(e.catalog, a)
}

// actionType is the inner tag of an action: the command or recommendation
// type, or the queried object type.
func actionType(a *models.ActionInput) string {
	if a.ActionType == models.ActionQuery {
		return a.ObjectType
	}
	return a.Type
}

// Package webhook delivers signed batch run notifications over HTTP.
package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/therealutkarshpriyadarshi/videosdb/internal/config"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/logging"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/metrics"
	"github.com/therealutkarshpriyadarshi/videosdb/pkg/models"
)

// Event names
const (
	EventBatchCompleted = "batch.completed"
	EventBatchFailed    = "batch.failed"
)

// Headers
const (
	HeaderEvent     = "X-Webhook-Event"
	HeaderDelivery  = "X-Webhook-Delivery"
	HeaderSignature = "X-Webhook-Signature"
)

// Event is the JSON body of a notification
type Event struct {
	Event     string           `json:"event"`
	Timestamp time.Time        `json:"timestamp"`
	Data      *models.BatchRun `json:"data"`
}

// Notifier posts batch run events to one endpoint
type Notifier struct {
	client      *http.Client
	url         string
	secret      string
	maxAttempts int
	backoff     time.Duration
	logger      *logging.Logger
}

// NewNotifier creates a notifier for cfg. It returns nil when no URL is set.
func NewNotifier(cfg config.WebhookConfig, logger *logging.Logger) *Notifier {
	if cfg.URL == "" {
		return nil
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	return &Notifier{
		client:      &http.Client{Timeout: cfg.Timeout},
		url:         cfg.URL,
		secret:      cfg.Secret,
		maxAttempts: attempts,
		backoff:     time.Second,
		logger:      logger,
	}
}

// NotifyBatch sends the event matching the status of run. Deliveries are
// attempted up to the configured count with doubling delays.
func (n *Notifier) NotifyBatch(ctx context.Context, run *models.BatchRun) error {
	event := EventBatchCompleted
	if run.Status == models.BatchStatusFailed {
		event = EventBatchFailed
	}

	payload, err := json.Marshal(Event{Event: event, Timestamp: time.Now(), Data: run})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	deliveryID := uuid.New().String()
	delay := n.backoff
	for attempt := 1; ; attempt++ {
		err = n.deliver(ctx, event, deliveryID, payload)
		if err == nil {
			return nil
		}
		if attempt >= n.maxAttempts {
			break
		}

		n.logger.WithBatchID(run.ID).WithError(err).Warnf("Webhook delivery attempt %d failed", attempt)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}

	metrics.RecordError("webhook", "delivery_failed")
	return fmt.Errorf("webhook delivery failed after %d attempts: %w", n.maxAttempts, err)
}

func (n *Notifier) deliver(ctx context.Context, event, deliveryID string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Videosdb-Webhook/1.0")
	req.Header.Set(HeaderEvent, event)
	req.Header.Set(HeaderDelivery, deliveryID)
	if n.secret != "" {
		req.Header.Set(HeaderSignature, Sign(payload, n.secret))
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("endpoint returned %d: %s", resp.StatusCode, body)
	}
	return nil
}

// Sign returns the HMAC-SHA256 signature header value for payload
func Sign(payload []byte, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(payload)
	return "sha256=" + hex.EncodeToString(h.Sum(nil))
}

// Verify reports whether signature matches payload
func Verify(payload []byte, secret, signature string) bool {
	return hmac.Equal([]byte(Sign(payload, secret)), []byte(signature))
}

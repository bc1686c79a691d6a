package webhook

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/therealutkarshpriyadarshi/videosdb/internal/config"
	"github.com/therealutkarshpriyadarshi/videosdb/pkg/models"
)

func TestNewNotifierDisabled(t *testing.T) {
	assert.Nil(t, NewNotifier(config.WebhookConfig{}, nil))
}

func TestNotifyBatch(t *testing.T) {
	var received Event
	var signature, event string
	var body []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		signature = r.Header.Get(HeaderSignature)
		event = r.Header.Get(HeaderEvent)
		json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewNotifier(config.WebhookConfig{URL: server.URL, Secret: "s3cret", Timeout: time.Second, MaxAttempts: 1}, nil)
	run := &models.BatchRun{ID: "run-1", Status: models.BatchStatusCompleted, ResultCount: 4}

	require.NoError(t, n.NotifyBatch(context.Background(), run))

	assert.Equal(t, EventBatchCompleted, event)
	assert.Equal(t, EventBatchCompleted, received.Event)
	assert.Equal(t, "run-1", received.Data.ID)
	assert.Equal(t, 4, received.Data.ResultCount)
	assert.True(t, Verify(body, "s3cret", signature))
	assert.False(t, Verify(body, "other", signature))
}

func TestNotifyBatchFailedEvent(t *testing.T) {
	var event string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		event = r.Header.Get(HeaderEvent)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	n := NewNotifier(config.WebhookConfig{URL: server.URL, Timeout: time.Second}, nil)
	require.NoError(t, n.NotifyBatch(context.Background(), &models.BatchRun{ID: "run-2", Status: models.BatchStatusFailed}))
	assert.Equal(t, EventBatchFailed, event)
}

func TestNotifyBatchRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewNotifier(config.WebhookConfig{URL: server.URL, Timeout: time.Second, MaxAttempts: 3}, nil)
	n.backoff = time.Millisecond

	require.NoError(t, n.NotifyBatch(context.Background(), &models.BatchRun{ID: "run-3", Status: models.BatchStatusCompleted}))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestNotifyBatchGivesUp(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	n := NewNotifier(config.WebhookConfig{URL: server.URL, Timeout: time.Second, MaxAttempts: 2}, nil)
	n.backoff = time.Millisecond

	err := n.NotifyBatch(context.Background(), &models.BatchRun{ID: "run-4", Status: models.BatchStatusCompleted})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSign(t *testing.T) {
	sig := Sign([]byte(`{"event":"batch.completed"}`), "key")
	assert.Regexp(t, `^sha256=[0-9a-f]{64}$`, sig)
}

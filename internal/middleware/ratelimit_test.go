package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func limitedRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(handlers...)
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func get(router *gin.Engine) int {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	return w.Code
}

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl := NewRateLimiter(2, 2)
	router := limitedRouter(RateLimit(rl))

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, get(router))
	}
	assert.Equal(t, http.StatusTooManyRequests, get(router))
}

func TestRateLimiterEvict(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	rl.allow("ip:1")
	rl.allow("ip:2")

	assert.Equal(t, 0, rl.evict(time.Hour))
	assert.Equal(t, 2, rl.evict(0))
	assert.True(t, rl.allow("ip:1"), "an evicted key starts with a fresh bucket")
}

type mockChecker struct {
	mock.Mock
}

func (m *mockChecker) CheckRateLimit(ctx context.Context, key string, limit int64, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func TestSharedRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	checker := new(mockChecker)
	checker.On("CheckRateLimit", mock.Anything, "actions:ip:192.0.2.1", int64(5), time.Minute).Return(true, nil).Once()
	checker.On("CheckRateLimit", mock.Anything, "actions:ip:192.0.2.1", int64(5), time.Minute).Return(false, nil).Once()
	checker.On("CheckRateLimit", mock.Anything, "actions:ip:192.0.2.1", int64(5), time.Minute).Return(false, errors.New("redis down")).Once()

	router := limitedRouter(SharedRateLimit(checker, "actions", 5, time.Minute))

	assert.Equal(t, http.StatusOK, get(router))
	assert.Equal(t, http.StatusTooManyRequests, get(router))
	assert.Equal(t, http.StatusOK, get(router), "store errors do not block requests")
	checker.AssertExpectations(t)
}

package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cosmonumero/internal/ratelimit/models"
	"cosmonumero/pkg/platform/circuit"
	"cosmonumero/pkg/testutil"
)

type stubLimiter struct {
	result *models.RateLimitResult
	err    error
	calls  int
}

func (s *stubLimiter) CheckIP(context.Context, string, models.EndpointClass) (*models.RateLimitResult, error) {
	s.calls++
	return s.result, s.err
}

func allowed() *models.RateLimitResult {
	return &models.RateLimitResult{Allowed: true, Limit: 10, Remaining: 9, ResetAt: time.Unix(1700000060, 0)}
}

func serve(mw *Middleware) *httptest.ResponseRecorder {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	r := httptest.NewRequest(http.MethodPost, "/checkout", nil)
	r = testutil.WithClientIP(r, "203.0.113.7")
	w := httptest.NewRecorder()
	mw.RateLimit(models.ClassCheckout)(next).ServeHTTP(w, r)
	return w
}

func TestRateLimit(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("allowed sets headers", func(t *testing.T) {
		w := serve(New(&stubLimiter{result: allowed()}, logger))
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "10", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "9", w.Header().Get("X-RateLimit-Remaining"))
		assert.Equal(t, "1700000060", w.Header().Get("X-RateLimit-Reset"))
	})

	t.Run("denied returns 429", func(t *testing.T) {
		w := serve(New(&stubLimiter{result: &models.RateLimitResult{Limit: 10, RetryAfter: 42, ResetAt: time.Unix(1700000060, 0)}}, logger))
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "42", w.Header().Get("Retry-After"))

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "rate_limited", body["error"])
		assert.Equal(t, float64(42), body["retry_after"])
	})

	t.Run("limiter error fails open", func(t *testing.T) {
		w := serve(New(&stubLimiter{err: errors.New("redis down")}, logger))
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	})

	t.Run("disabled skips limiter", func(t *testing.T) {
		limiter := &stubLimiter{}
		w := serve(New(limiter, logger, WithDisabled(true)))
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Zero(t, limiter.calls)
	})
}

func TestRateLimitFallback(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	breaker := circuit.New("ratelimit",
		circuit.WithFailureThreshold(2),
		circuit.WithSuccessThreshold(1),
		circuit.WithCooldown(time.Minute),
		circuit.WithClock(func() time.Time { return now }),
	)
	primary := &stubLimiter{err: errors.New("redis down")}
	fallback := &stubLimiter{result: allowed()}
	mw := New(primary, logger, WithFallback(fallback, breaker))

	w := serve(mw)
	assert.Equal(t, "degraded", w.Header().Get(StatusHeader))
	assert.Equal(t, "10", w.Header().Get("X-RateLimit-Limit"))

	serve(mw)
	require.True(t, breaker.IsOpen())
	assert.Equal(t, 2, primary.calls)

	// open breaker skips the primary entirely
	serve(mw)
	assert.Equal(t, 2, primary.calls)
	assert.Equal(t, 3, fallback.calls)

	now = now.Add(2 * time.Minute)
	primary.err = nil
	primary.result = allowed()
	w = serve(mw)
	assert.Empty(t, w.Header().Get(StatusHeader))
	assert.Equal(t, 3, primary.calls)
	assert.False(t, breaker.IsOpen())
}

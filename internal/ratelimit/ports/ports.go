// Package ports declares the counter storage behind the rate limiter.
package ports

import (
	"context"
	"time"

	"cosmonumero/internal/ratelimit/models"
)

// BucketStore keeps one sliding window of request timestamps per key. The
// in-memory and Redis stores must agree on Allow's accounting.
type BucketStore interface {
	// Allow records a request under key when fewer than limit were seen in the
	// trailing window, and reports the decision either way.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error)
	Reset(ctx context.Context, key string) error
	GetCurrentCount(ctx context.Context, key string) (int, error)
}

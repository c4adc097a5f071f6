package models

import "time"

// EndpointClass groups endpoints that share a per-IP limit.
type EndpointClass string

const (
	// ClassCheckout covers /checkout and /checkout/verify.
	ClassCheckout EndpointClass = "checkout"
	// ClassReading covers /readings/*.
	ClassReading EndpointClass = "reading"
	// ClassWebhook covers gateway notifications.
	ClassWebhook EndpointClass = "webhook"
)

func (c EndpointClass) IsValid() bool {
	switch c {
	case ClassCheckout, ClassReading, ClassWebhook:
		return true
	}
	return false
}

// Limit is the number of requests allowed per sliding window.
type Limit struct {
	RequestsPerWindow int
	Window            time.Duration
}

// RateLimitResult represents the outcome of a rate limit check.
type RateLimitResult struct {
	Allowed    bool      `json:"allowed"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
	RetryAfter int       `json:"retry_after,omitempty"` // seconds, only set when not allowed
}

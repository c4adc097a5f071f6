// Package requestcontext carries request-scoped values from HTTP middleware to
// services without the services importing net/http.
//
// Middleware writes, services read:
//
//	ref := requestcontext.ExternalReference(ctx)
//	year := requestcontext.Now(ctx).Year()
//
// Tests inject directly:
//
//	ctx = requestcontext.WithTime(ctx, time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC))
package requestcontext

import (
	"context"
	"time"
)

type key int

const (
	keyExternalReference key = iota
	keyClientIP
	keyUserAgent
	keyRequestID
	keyNow
)

func stringValue(ctx context.Context, k key) string {
	v, _ := ctx.Value(k).(string)
	return v
}

// ExternalReference is the checkout a validated reading token grants access
// to. Empty when the request carried no token.
func ExternalReference(ctx context.Context) string {
	return stringValue(ctx, keyExternalReference)
}

func WithExternalReference(ctx context.Context, ref string) context.Context {
	return context.WithValue(ctx, keyExternalReference, ref)
}

// ClientIP is the address rate limits are keyed on.
func ClientIP(ctx context.Context) string {
	return stringValue(ctx, keyClientIP)
}

func UserAgent(ctx context.Context) string {
	return stringValue(ctx, keyUserAgent)
}

// WithClientMetadata stores the caller's IP and User-Agent.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, keyClientIP, clientIP)
	return context.WithValue(ctx, keyUserAgent, userAgent)
}

func RequestID(ctx context.Context) string {
	return stringValue(ctx, keyRequestID)
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, keyRequestID, requestID)
}

// Now is the instant the request started. Outside a request (CLI, background
// work) it is the wall clock.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(keyNow).(time.Time); ok {
		return t
	}
	return time.Now()
}

func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, keyNow, t)
}

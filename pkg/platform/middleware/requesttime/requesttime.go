// Package requesttime provides middleware for request-scoped time.
// Everything a single HTTP request computes (evaluation year, record timestamps,
// token expiry) derives from the same "now".
package requesttime

import (
	"net/http"
	"time"

	"cosmonumero/pkg/requestcontext"
)

// Middleware captures the current time at the start of the request, converted
// into loc, and stores it in the context.
func Middleware(loc *time.Location) func(http.Handler) http.Handler {
	if loc == nil {
		loc = time.UTC
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithTime(r.Context(), time.Now().In(loc))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

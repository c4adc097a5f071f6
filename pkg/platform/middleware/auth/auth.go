package auth

import (
	"log/slog"
	"net/http"
	"strings"

	dErrors "cosmonumero/pkg/domain-errors"
	"cosmonumero/pkg/platform/httputil"
	"cosmonumero/pkg/requestcontext"
)

// TokenValidator defines the interface for validating reading access tokens
type TokenValidator interface {
	ValidateToken(tokenString string) (*Claims, error)
}

// Claims is what the middleware needs from a validated token.
type Claims struct {
	ExternalReference string
	JTI               string
}

// RequireReadingToken rejects requests without a valid Bearer token and stores
// the token's external reference in the request context.
func RequireReadingToken(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Missing or invalid Authorization header"))
				return
			}

			claims, err := validator.ValidateToken(strings.TrimSpace(token))
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Invalid or expired token"))
				return
			}

			ctx = requestcontext.WithExternalReference(ctx, claims.ExternalReference)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}


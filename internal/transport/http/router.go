// Package httptransport assembles the public HTTP surface: shared middleware,
// health and metrics endpoints, and each module's routes behind its rate class.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	paymentHandler "cosmonumero/internal/payment/handler"
	"cosmonumero/internal/platform/metrics"
	rateLimitMW "cosmonumero/internal/ratelimit/middleware"
	rateLimitModels "cosmonumero/internal/ratelimit/models"
	readingHandler "cosmonumero/internal/reading/handler"
	"cosmonumero/pkg/platform/httputil"
	"cosmonumero/pkg/platform/middleware/auth"
	"cosmonumero/pkg/platform/middleware/metadata"
	"cosmonumero/pkg/platform/middleware/requestlog"
	"cosmonumero/pkg/platform/middleware/requesttime"
)

const healthTimeout = 2 * time.Second

// HealthCheck pings one dependency.
type HealthCheck func(ctx context.Context) error

// Dependencies is everything the router mounts. RateLimit and Metrics may be nil.
type Dependencies struct {
	Logger         *slog.Logger
	Location       *time.Location
	Metrics        *metrics.Metrics
	RateLimit      *rateLimitMW.Middleware
	TokenValidator auth.TokenValidator
	Payment        *paymentHandler.Handler
	Reading        *readingHandler.Handler
	HealthChecks   map[string]HealthCheck
}

// NewRouter wires all public endpoints.
func NewRouter(deps Dependencies) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(metadata.RequestID)
	r.Use(requestlog.Recovery(logger))
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware(deps.Location))
	r.Use(requestlog.Logger(logger))
	r.Use(deps.Metrics.Middleware)

	r.Get("/healthz", healthHandler(deps.HealthChecks))
	r.Handle("/metrics", promhttp.Handler())

	if deps.Payment != nil {
		r.Group(func(r chi.Router) {
			r.Use(limit(deps.RateLimit, rateLimitModels.ClassCheckout))
			deps.Payment.Register(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(limit(deps.RateLimit, rateLimitModels.ClassWebhook))
			deps.Payment.RegisterWebhook(r)
		})
	}

	if deps.Reading != nil {
		r.Group(func(r chi.Router) {
			r.Use(limit(deps.RateLimit, rateLimitModels.ClassReading))
			deps.Reading.Register(r)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireReadingToken(deps.TokenValidator, logger))
				deps.Reading.RegisterAuthenticated(r)
			})
		})
	}

	return r
}

func limit(mw *rateLimitMW.Middleware, class rateLimitModels.EndpointClass) func(http.Handler) http.Handler {
	if mw == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return mw.RateLimit(class)
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		resp := healthResponse{Status: "ok"}
		status := http.StatusOK
		if len(checks) > 0 {
			resp.Checks = make(map[string]string, len(checks))
		}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				resp.Checks[name] = err.Error()
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}

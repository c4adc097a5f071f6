// Package requestlimit applies per-IP sliding-window limits by endpoint class.
package requestlimit

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"cosmonumero/internal/platform/config"
	"cosmonumero/internal/ratelimit/metrics"
	"cosmonumero/internal/ratelimit/models"
	"cosmonumero/internal/ratelimit/ports"
	dErrors "cosmonumero/pkg/domain-errors"
	"cosmonumero/pkg/requestcontext"
)

type Service struct {
	buckets ports.BucketStore
	limits  map[models.EndpointClass]models.Limit
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// LimitsFromConfig maps the configured per-class counts onto one shared window.
func LimitsFromConfig(cfg config.RateLimit) map[models.EndpointClass]models.Limit {
	return map[models.EndpointClass]models.Limit{
		models.ClassCheckout: {RequestsPerWindow: cfg.Checkout, Window: cfg.Window},
		models.ClassReading:  {RequestsPerWindow: cfg.Reading, Window: cfg.Window},
		models.ClassWebhook:  {RequestsPerWindow: cfg.Webhook, Window: cfg.Window},
	}
}

func New(buckets ports.BucketStore, limits map[models.EndpointClass]models.Limit, opts ...Option) (*Service, error) {
	if buckets == nil {
		return nil, errors.New("buckets store is required")
	}
	svc := &Service{
		buckets: buckets,
		limits:  limits,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// CheckIP consumes one request of class for ip. A class without a configured
// limit is denied.
func (s *Service) CheckIP(ctx context.Context, ip string, class models.EndpointClass) (*models.RateLimitResult, error) {
	limit, ok := s.limits[class]
	if !ok || limit.RequestsPerWindow <= 0 || limit.Window <= 0 {
		s.logger.ErrorContext(ctx, "rate limit config missing",
			"endpoint_class", class,
			"request_id", requestcontext.RequestID(ctx),
		)
		s.metrics.RecordDecision(string(class), "denied")
		return &models.RateLimitResult{
			Allowed:    false,
			ResetAt:    requestcontext.Now(ctx).Add(time.Minute),
			RetryAfter: 60,
		}, nil
	}

	key := models.NewRateLimitKey(models.KeyPrefixIP, ip, class)
	result, err := s.buckets.Allow(ctx, key, limit.RequestsPerWindow, limit.Window)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check rate limit")
	}
	if !result.Allowed {
		s.logger.WarnContext(ctx, "ip rate limit exceeded",
			"ip_prefix", AnonymizeIP(ip),
			"endpoint_class", class,
			"limit", limit.RequestsPerWindow,
			"window_seconds", int(limit.Window.Seconds()),
			"request_id", requestcontext.RequestID(ctx),
		)
		s.metrics.RecordDecision(string(class), "denied")
		return result, nil
	}
	s.metrics.RecordDecision(string(class), "allowed")
	return result, nil
}

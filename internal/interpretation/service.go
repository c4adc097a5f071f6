package interpretation

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"cosmonumero/internal/numerology"
	"cosmonumero/pkg/platform/circuit"
)

// Provider writes a narrative for computed numbers.
type Provider interface {
	Generate(ctx context.Context, subject Subject, r numerology.Result) (Narrative, error)
}

// Service wraps a Provider so callers always get a complete narrative.
type Service struct {
	provider Provider
	breaker  *circuit.Breaker
	logger   *slog.Logger
	metrics  *Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(s *Service) {
		s.breaker = b
	}
}

func WithMetrics(m *Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService builds the service. A nil provider always yields the fallback.
func NewService(provider Provider, opts ...Option) *Service {
	s := &Service{
		provider: provider,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Interpret never fails: provider errors, an open breaker or missing sections
// are covered by the fallback text.
func (s *Service) Interpret(ctx context.Context, subject Subject, r numerology.Result) (Narrative, Source) {
	ctx, span := tracer.Start(ctx, "interpretation.interpret")
	defer span.End()

	fallback := Fallback(r)
	if s.provider == nil {
		s.metrics.RecordOutcome("disabled")
		span.SetAttributes(attribute.String("interpretation.source", string(SourceFallback)))
		return fallback, SourceFallback
	}
	if s.breaker != nil && !s.breaker.Allow() {
		s.metrics.RecordOutcome("breaker_open")
		s.logger.WarnContext(ctx, "interpretation provider skipped", "breaker", s.breaker.Name())
		span.SetAttributes(attribute.String("interpretation.source", string(SourceFallback)))
		return fallback, SourceFallback
	}

	n, err := s.provider.Generate(ctx, subject, r)
	if err != nil {
		s.metrics.RecordOutcome("error")
		if s.breaker != nil {
			if _, change := s.breaker.RecordFailure(); change.Opened {
				s.logger.WarnContext(ctx, "interpretation breaker opened", "breaker", s.breaker.Name())
			}
		}
		s.logger.ErrorContext(ctx, "interpretation provider failed", "error", err)
		span.RecordError(err)
		span.SetAttributes(attribute.String("interpretation.source", string(SourceFallback)))
		return fallback, SourceFallback
	}
	if s.breaker != nil {
		if _, change := s.breaker.RecordSuccess(); change.Closed {
			s.logger.InfoContext(ctx, "interpretation breaker closed", "breaker", s.breaker.Name())
		}
	}

	n, filled := n.withFallback(fallback)
	if filled > 0 {
		s.logger.WarnContext(ctx, "interpretation sections missing", "filled", filled)
		s.metrics.RecordOutcome("partial")
	} else {
		s.metrics.RecordOutcome("success")
	}
	span.SetAttributes(attribute.String("interpretation.source", string(SourceProvider)))
	return n, SourceProvider
}

package events

import (
	"context"
	"log/slog"
)

// LogPublisher writes events to the structured log. Used when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event Event) error {
	p.logger.InfoContext(ctx, "domain event",
		"event_type", string(event.Type),
		"key", event.Key,
		"request_id", event.RequestID,
		"occurred_at", event.OccurredAt,
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }

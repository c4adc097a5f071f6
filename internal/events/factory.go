package events

import (
	"context"
	"fmt"
	"log/slog"

	"cosmonumero/internal/platform/config"
)

// New builds the publisher selected by EVENTS_BACKEND.
func New(ctx context.Context, cfg config.Events, logger *slog.Logger) (Publisher, error) {
	switch cfg.Backend {
	case "", "log":
		return NewLogPublisher(logger), nil
	case "kafka":
		return NewKafkaPublisher(ctx, cfg.KafkaBrokers, cfg.KafkaTopic, logger)
	case "nats":
		return NewNATSPublisher(cfg.NATSURL, cfg.NATSSubject)
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Backend)
	}
}

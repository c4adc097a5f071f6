package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"cosmonumero/internal/events"
	"cosmonumero/internal/platform/config"
	"cosmonumero/internal/platform/httpserver"
	"cosmonumero/internal/platform/logger"
	"cosmonumero/internal/platform/metrics"
	platformRedis "cosmonumero/internal/platform/redis"
	"cosmonumero/internal/storage"
	httptransport "cosmonumero/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Environment, cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	shared, err := openInfra(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer shared.Close(log)

	app, err := buildApp(cfg, log, shared)
	if err != nil {
		return err
	}

	router := httptransport.NewRouter(httptransport.Dependencies{
		Logger:         log,
		Location:       loc,
		Metrics:        metrics.New(),
		RateLimit:      app.rateLimit,
		TokenValidator: app.tokens,
		Payment:        app.payment,
		Reading:        app.reading,
		HealthChecks:   shared.healthChecks(),
	})

	srv := httpserver.New(cfg.Server.Addr, router)
	log.Info("starting cosmonumero",
		"addr", cfg.Server.Addr,
		"environment", cfg.Environment,
		"database", cfg.Database.Driver,
		"redis", shared.redis != nil,
		"events", cfg.Events.Backend,
		"preview", cfg.Server.PreviewEnabled,
	)
	return httpserver.Run(ctx, log, srv, cfg.Server.ShutdownTimeout)
}

// infra holds the connections shared by every module. db and redis are nil
// when not configured.
type infra struct {
	db        *storage.DB
	redis     *platformRedis.Client
	publisher events.Publisher
	archive   archiveStore
}

func openInfra(ctx context.Context, cfg *config.Config, log *slog.Logger) (*infra, error) {
	in := &infra{}

	if strings.TrimSpace(cfg.Database.DSN) != "" {
		db, err := storage.Open(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		in.db = db
	} else {
		log.Warn("DATABASE_DSN not set, transactions and readings are kept in memory")
	}

	rc, err := platformRedis.New(ctx, cfg.Redis)
	if err != nil {
		in.Close(log)
		return nil, err
	}
	in.redis = rc

	publisher, err := events.New(ctx, cfg.Events, log)
	if err != nil {
		in.Close(log)
		return nil, fmt.Errorf("events: %w", err)
	}
	in.publisher = publisher

	archive, err := newArchive(ctx, cfg.ObjectStore, log)
	if err != nil {
		in.Close(log)
		return nil, err
	}
	in.archive = archive
	return in, nil
}

func (in *infra) healthChecks() map[string]httptransport.HealthCheck {
	checks := map[string]httptransport.HealthCheck{}
	if in.db != nil {
		checks["database"] = in.db.Health
	}
	if in.redis != nil {
		checks["redis"] = in.redis.Health
	}
	if h, ok := in.archive.(interface{ Health(context.Context) error }); ok {
		checks["object_store"] = h.Health
	}
	return checks
}

func (in *infra) Close(log *slog.Logger) {
	if in.publisher != nil {
		if err := in.publisher.Close(); err != nil {
			log.Warn("close event publisher", "error", err)
		}
	}
	if in.redis != nil {
		if err := in.redis.Close(); err != nil {
			log.Warn("close redis", "error", err)
		}
	}
	if in.db != nil {
		if err := in.db.Close(); err != nil {
			log.Warn("close database", "error", err)
		}
	}
}

func amountCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

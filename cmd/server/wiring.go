package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cosmonumero/internal/delivery"
	"cosmonumero/internal/interpretation"
	jwttoken "cosmonumero/internal/jwt_token"
	"cosmonumero/internal/payment/gateway/mercadopago"
	paymentHandler "cosmonumero/internal/payment/handler"
	paymentMetrics "cosmonumero/internal/payment/metrics"
	paymentPorts "cosmonumero/internal/payment/ports"
	paymentService "cosmonumero/internal/payment/service"
	"cosmonumero/internal/payment/store/statuscache"
	"cosmonumero/internal/payment/store/transaction"
	"cosmonumero/internal/platform/config"
	rateLimitMetrics "cosmonumero/internal/ratelimit/metrics"
	rateLimitMW "cosmonumero/internal/ratelimit/middleware"
	"cosmonumero/internal/ratelimit/service/requestlimit"
	"cosmonumero/internal/ratelimit/store/bucket"
	readingHandler "cosmonumero/internal/reading/handler"
	readingMetrics "cosmonumero/internal/reading/metrics"
	readingPorts "cosmonumero/internal/reading/ports"
	readingService "cosmonumero/internal/reading/service"
	"cosmonumero/internal/reading/store/contact"
	"cosmonumero/internal/reading/store/reading"
	"cosmonumero/internal/report"
	"cosmonumero/internal/report/archive"
	"cosmonumero/pkg/platform/circuit"
)

type archiveStore interface {
	Put(ctx context.Context, key string, data []byte) error
}

type app struct {
	payment   *paymentHandler.Handler
	reading   *readingHandler.Handler
	tokens    *jwttoken.JWTServiceAdapter
	rateLimit *rateLimitMW.Middleware
}

func buildApp(cfg *config.Config, log *slog.Logger, in *infra) (*app, error) {
	jwtService := jwttoken.NewJWTService(cfg.Auth.SigningKey, cfg.Auth.Issuer, cfg.Auth.TokenTTL)

	payments := buildPaymentService(cfg, log, in, jwtService)
	readings, err := buildReadingService(cfg, log, in, payments)
	if err != nil {
		return nil, err
	}

	limiter, err := buildRateLimit(cfg.RateLimit, log, in)
	if err != nil {
		return nil, err
	}

	return &app{
		payment:   paymentHandler.New(payments, log, cfg.Payment.FrontendBaseURL),
		reading:   readingHandler.New(readings, log),
		tokens:    jwttoken.NewJWTServiceAdapter(jwtService),
		rateLimit: limiter,
	}, nil
}

func buildPaymentService(cfg *config.Config, log *slog.Logger, in *infra, tokens paymentPorts.TokenIssuer) *paymentService.Service {
	pc := cfg.Payment
	publicBase := strings.TrimRight(pc.PublicBaseURL, "/")
	if publicBase == "" {
		publicBase = strings.TrimRight(pc.FrontendBaseURL, "/")
	}
	notificationURL := pc.NotificationURL
	if notificationURL == "" {
		notificationURL = publicBase + "/checkout/webhook"
	}

	gateway := mercadopago.New(mercadopago.Config{
		AccessToken:         pc.AccessToken,
		BaseURL:             pc.APIBaseURL,
		StatementDescriptor: pc.StatementDescriptor,
		SuccessURL:          publicBase + "/checkout/return/success",
		FailureURL:          publicBase + "/checkout/return/failure",
		PendingURL:          publicBase + "/checkout/return/pending",
		NotificationURL:     notificationURL,
		Timeout:             pc.Timeout,
	})

	var transactions paymentPorts.TransactionStore = transaction.NewInMemory()
	if in.db != nil {
		transactions = transaction.NewSQL(in.db)
	}
	var cache paymentPorts.StatusCache = statuscache.NewInMemory(pc.StatusCacheTTL)
	if in.redis != nil {
		cache = statuscache.NewRedis(in.redis.Client, pc.StatusCacheTTL)
	}

	return paymentService.New(gateway, transactions, paymentService.Config{
		AmountCents:     amountCents(pc.Amount),
		Currency:        pc.Currency,
		Description:     pc.Description,
		PublicKey:       pc.PublicKey,
		FrontendBaseURL: pc.FrontendBaseURL,
		PreviewEnabled:  cfg.Server.PreviewEnabled,
	},
		paymentService.WithLogger(log),
		paymentService.WithMetrics(paymentMetrics.New()),
		paymentService.WithStatusCache(cache),
		paymentService.WithTokenIssuer(tokens),
		paymentService.WithPublisher(in.publisher),
	)
}

func buildReadingService(cfg *config.Config, log *slog.Logger, in *infra, payments readingPorts.Transactions) (*readingService.Service, error) {
	var (
		readings readingPorts.ReadingStore = reading.NewInMemory()
		contacts readingPorts.ContactStore = contact.NewInMemory()
	)
	if in.db != nil {
		readings = reading.NewSQL(in.db)
		contacts = contact.NewSQL(in.db)
	}

	var mailer readingPorts.Mailer = delivery.NewLogChannel(log)
	if cfg.Mail.Host != "" {
		mailer = delivery.NewSMTPChannel(cfg.Mail)
	} else {
		log.Warn("SMTP_HOST not set, report e-mails are logged instead of sent")
	}

	interpreter, err := buildInterpreter(cfg.Interpretation, log)
	if err != nil {
		return nil, err
	}

	return readingService.New(payments, readings, interpreter, report.NewRenderer(cfg.Report.Title, cfg.Report.Author),
		readingService.WithLogger(log),
		readingService.WithMetrics(readingMetrics.New()),
		readingService.WithContacts(contacts),
		readingService.WithArchive(in.archive),
		readingService.WithMailer(mailer),
		readingService.WithPublisher(in.publisher),
		readingService.WithPreview(cfg.Server.PreviewEnabled),
	), nil
}

func buildInterpreter(ic config.Interpretation, log *slog.Logger) (*interpretation.Service, error) {
	opts := []interpretation.Option{
		interpretation.WithLogger(log),
		interpretation.WithMetrics(interpretation.NewMetrics()),
	}
	if ic.APIKey == "" {
		log.Warn("OPENAI_API_KEY not set, readings use the fallback narrative")
		return interpretation.NewService(nil, opts...), nil
	}

	prompt, err := interpretation.DefaultPrompt()
	if err != nil {
		return nil, fmt.Errorf("load prompt: %w", err)
	}
	provider := interpretation.NewOpenAIProvider(interpretation.OpenAIConfig{
		APIKey:      ic.APIKey,
		BaseURL:     ic.BaseURL,
		Model:       ic.Model,
		MaxTokens:   ic.MaxTokens,
		Temperature: ic.Temperature,
		Timeout:     ic.Timeout,
	}, prompt)
	breaker := circuit.New("openai",
		circuit.WithFailureThreshold(ic.BreakerFailures),
		circuit.WithCooldown(ic.BreakerCooldown),
	)
	opts = append(opts, interpretation.WithBreaker(breaker))
	return interpretation.NewService(provider, opts...), nil
}

func buildRateLimit(rc config.RateLimit, log *slog.Logger, in *infra) (*rateLimitMW.Middleware, error) {
	mt := rateLimitMetrics.New()
	limits := requestlimit.LimitsFromConfig(rc)

	local, err := requestlimit.New(bucket.New(), limits,
		requestlimit.WithLogger(log),
		requestlimit.WithMetrics(mt),
	)
	if err != nil {
		return nil, err
	}
	opts := []rateLimitMW.Option{
		rateLimitMW.WithDisabled(!rc.Enabled),
		rateLimitMW.WithMetrics(mt),
	}
	if in.redis == nil {
		return rateLimitMW.New(local, log, opts...), nil
	}

	shared, err := requestlimit.New(bucket.NewRedis(in.redis.Client), limits,
		requestlimit.WithLogger(log),
		requestlimit.WithMetrics(mt),
	)
	if err != nil {
		return nil, err
	}
	breaker := circuit.New("ratelimit-redis",
		circuit.WithFailureThreshold(5),
		circuit.WithCooldown(30*time.Second),
	)
	opts = append(opts, rateLimitMW.WithFallback(local, breaker))
	return rateLimitMW.New(shared, log, opts...), nil
}

func newArchive(ctx context.Context, oc config.ObjectStore, log *slog.Logger) (archiveStore, error) {
	if oc.Endpoint == "" {
		log.Info("OBJECT_STORE_ENDPOINT not set, reports are archived in memory")
		return archive.NewMemoryStore(), nil
	}
	store, err := archive.NewMinIOStore(ctx, oc)
	if err != nil {
		return nil, fmt.Errorf("object store: %w", err)
	}
	return store, nil
}

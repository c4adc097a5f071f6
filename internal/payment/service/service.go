// Package service orchestrates checkout: opening hosted checkouts, verifying
// payments and processing gateway notifications.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"cosmonumero/internal/events"
	"cosmonumero/internal/payment/metrics"
	"cosmonumero/internal/payment/models"
	"cosmonumero/internal/payment/ports"
	dErrors "cosmonumero/pkg/domain-errors"
	"cosmonumero/pkg/platform/sentinel"
	"cosmonumero/pkg/requestcontext"
)

// ReferencePrefix starts every external reference.
const ReferencePrefix = "NUM-"

// Config is the merchant-side pricing and presentation of the checkout.
type Config struct {
	AmountCents     int64
	Currency        string
	Description     string
	PublicKey       string
	FrontendBaseURL string
	PreviewEnabled  bool
}

type Service struct {
	gateway      ports.Gateway
	transactions ports.TransactionStore
	cache        ports.StatusCache
	tokens       ports.TokenIssuer
	publisher    ports.EventPublisher
	logger       *slog.Logger
	metrics      *metrics.Metrics
	cfg          Config
	newReference func() string
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

func WithStatusCache(cache ports.StatusCache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

func WithTokenIssuer(tokens ports.TokenIssuer) Option {
	return func(s *Service) {
		s.tokens = tokens
	}
}

func WithPublisher(publisher ports.EventPublisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

// WithReferenceGenerator overrides NUM-<uuid> reference generation.
func WithReferenceGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newReference = fn
		}
	}
}

func New(gateway ports.Gateway, transactions ports.TransactionStore, cfg Config, opts ...Option) *Service {
	s := &Service{
		gateway:      gateway,
		transactions: transactions,
		cfg:          cfg,
		logger:       slog.Default(),
		newReference: func() string { return ReferencePrefix + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PublicConfig is what the checkout page needs to render the offer.
func (s *Service) PublicConfig() models.PublicConfig {
	return models.PublicConfig{
		PublicKey:   s.cfg.PublicKey,
		BaseURL:     s.cfg.FrontendBaseURL,
		Amount:      float64(s.cfg.AmountCents) / 100,
		Currency:    s.cfg.Currency,
		Description: s.cfg.Description,
		Preview:     s.cfg.PreviewEnabled,
	}
}

// Checkout opens a hosted checkout at the configured price and records a
// pending transaction for it.
func (s *Service) Checkout(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutResult, error) {
	if req.FullName == "" || req.BirthDate.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "fullName and birthDate are required")
	}
	description := req.Description
	if description == "" {
		description = s.cfg.Description
	}
	ref := s.newReference()

	start := time.Now()
	session, err := s.gateway.CreateSession(ctx, models.SessionRequest{
		Title:             description,
		AmountCents:       s.cfg.AmountCents,
		Currency:          s.cfg.Currency,
		PayerName:         req.FullName,
		BirthDate:         req.BirthDate.String(),
		ExternalReference: ref,
	})
	s.metrics.ObserveGatewayLatency("create_session", time.Since(start).Seconds())
	if err != nil {
		s.metrics.IncrementCheckoutFailures()
		s.logger.ErrorContext(ctx, "failed to create checkout session",
			"request_id", requestcontext.RequestID(ctx),
			"external_reference", ref,
			"error", err,
		)
		return nil, gatewayError(err, "failed to create checkout session")
	}

	now := requestcontext.Now(ctx)
	txn := &models.Transaction{
		ID:                uuid.NewString(),
		ExternalReference: ref,
		PreferenceID:      session.ID,
		CustomerName:      req.FullName,
		BirthDate:         req.BirthDate,
		AmountCents:       s.cfg.AmountCents,
		Currency:          s.cfg.Currency,
		Description:       description,
		Status:            models.StatusPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.transactions.Create(ctx, txn); err != nil {
		s.metrics.IncrementCheckoutFailures()
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save transaction")
	}

	s.metrics.IncrementCheckoutsCreated()
	s.logger.InfoContext(ctx, "checkout created",
		"request_id", requestcontext.RequestID(ctx),
		"external_reference", ref,
		"preference_id", session.ID,
	)
	return &models.CheckoutResult{
		PreferenceID:      session.ID,
		InitPoint:         session.RedirectURL,
		ExternalReference: ref,
	}, nil
}

// Verify reports the status of paymentID for the checkout externalReference.
// Known approvals are answered locally; anything else asks the gateway. An
// approved result carries a reading access token.
func (s *Service) Verify(ctx context.Context, paymentID, externalReference string) (*models.VerifyResult, error) {
	txn, err := s.findTransaction(ctx, externalReference)
	if err != nil {
		return nil, err
	}

	if s.knownApproved(ctx, txn, paymentID) {
		s.metrics.RecordVerification(models.SourceLocal, string(models.StatusApproved))
		return s.approvedResult(ctx, paymentID, externalReference, models.SourceLocal)
	}

	start := time.Now()
	payment, err := s.gateway.GetPayment(ctx, paymentID)
	s.metrics.ObserveGatewayLatency("get_payment", time.Since(start).Seconds())
	if err != nil {
		return nil, gatewayError(err, "failed to query payment")
	}
	if payment.ExternalReference != externalReference {
		s.logger.WarnContext(ctx, "payment does not belong to checkout",
			"request_id", requestcontext.RequestID(ctx),
			"payment_id", paymentID,
			"external_reference", externalReference,
		)
		return nil, dErrors.New(dErrors.CodeForbidden, "payment does not belong to this checkout")
	}

	s.metrics.RecordVerification(models.SourceAPI, string(payment.Status))
	if payment.Status != models.StatusApproved {
		return &models.VerifyResult{
			PaymentID: paymentID,
			Status:    payment.Status,
			Source:    models.SourceAPI,
		}, nil
	}

	if err := s.approve(ctx, txn, payment.ID); err != nil {
		return nil, err
	}
	return s.approvedResult(ctx, paymentID, externalReference, models.SourceAPI)
}

// HandleNotification processes one gateway notification. Anything that does
// not lead to an approval is acknowledged as ignored.
func (s *Service) HandleNotification(ctx context.Context, n models.Notification) (models.NotificationOutcome, error) {
	kind, paymentID := n.Classify()
	outcome, err := s.handleNotification(ctx, kind, paymentID)
	if err != nil {
		s.metrics.RecordNotification(string(kind), "error")
		return "", err
	}
	s.metrics.RecordNotification(string(kind), string(outcome))
	return outcome, nil
}

func (s *Service) handleNotification(ctx context.Context, kind models.NotificationKind, paymentID string) (models.NotificationOutcome, error) {
	requestID := requestcontext.RequestID(ctx)
	if kind != models.KindPayment || paymentID == "" {
		s.logger.InfoContext(ctx, "notification ignored", "request_id", requestID, "kind", kind)
		return models.NotificationIgnored, nil
	}

	start := time.Now()
	payment, err := s.gateway.GetPayment(ctx, paymentID)
	s.metrics.ObserveGatewayLatency("get_payment", time.Since(start).Seconds())
	if err != nil {
		return "", gatewayError(err, "failed to query payment")
	}
	if payment.Status != models.StatusApproved {
		s.logger.InfoContext(ctx, "notification for unapproved payment",
			"request_id", requestID, "payment_id", paymentID, "status", payment.RawStatus)
		return models.NotificationIgnored, nil
	}
	if payment.ExternalReference == "" {
		s.logger.WarnContext(ctx, "approved payment without external reference",
			"request_id", requestID, "payment_id", paymentID)
		return models.NotificationIgnored, nil
	}

	txn, err := s.transactions.FindByExternalReference(ctx, payment.ExternalReference)
	if errors.Is(err, sentinel.ErrNotFound) {
		s.logger.WarnContext(ctx, "approved payment for unknown transaction",
			"request_id", requestID, "payment_id", paymentID, "external_reference", payment.ExternalReference)
		return models.NotificationIgnored, nil
	}
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to load transaction")
	}

	if err := s.approve(ctx, txn, payment.ID); err != nil {
		return "", err
	}
	return models.NotificationProcessed, nil
}

// ApprovedTransaction returns the transaction behind externalReference once it
// has been paid.
func (s *Service) ApprovedTransaction(ctx context.Context, externalReference string) (*models.Transaction, error) {
	txn, err := s.findTransaction(ctx, externalReference)
	if err != nil {
		return nil, err
	}
	if !txn.IsApproved() {
		return nil, dErrors.New(dErrors.CodePaymentRequired, "payment has not been approved")
	}
	return txn, nil
}

func (s *Service) findTransaction(ctx context.Context, externalReference string) (*models.Transaction, error) {
	txn, err := s.transactions.FindByExternalReference(ctx, externalReference)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "transaction not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load transaction")
	}
	return txn, nil
}

func (s *Service) knownApproved(ctx context.Context, txn *models.Transaction, paymentID string) bool {
	if txn.IsApproved() && txn.PaymentID == paymentID {
		return true
	}
	if s.cache == nil {
		return false
	}
	cached, err := s.cache.Get(ctx, txn.ExternalReference)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			s.logger.WarnContext(ctx, "status cache read failed",
				"request_id", requestcontext.RequestID(ctx), "error", err)
		}
		return false
	}
	return cached.Status == models.StatusApproved && cached.PaymentID == paymentID
}

// approve persists an approval. The first approval of a transaction publishes
// payment.approved; repeats only refresh the cache.
func (s *Service) approve(ctx context.Context, txn *models.Transaction, paymentID string) error {
	now := requestcontext.Now(ctx)
	firstApproval := !txn.IsApproved()
	if err := s.transactions.MarkApproved(ctx, txn.ExternalReference, paymentID, now); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record approval")
	}
	if firstApproval {
		txn.Status = models.StatusApproved
		txn.PaymentID = paymentID
	}

	if s.cache != nil {
		cached := models.CachedStatus{PaymentID: txn.PaymentID, Status: models.StatusApproved, UpdatedAt: now}
		if err := s.cache.Set(ctx, txn.ExternalReference, cached); err != nil {
			s.logger.WarnContext(ctx, "status cache write failed",
				"request_id", requestcontext.RequestID(ctx), "error", err)
		}
	}
	if !firstApproval {
		return nil
	}

	s.metrics.IncrementPaymentsApproved()
	s.logger.InfoContext(ctx, "payment approved",
		"request_id", requestcontext.RequestID(ctx),
		"external_reference", txn.ExternalReference,
		"payment_id", paymentID,
	)
	if s.publisher != nil {
		event := events.Event{
			Type: events.TypePaymentApproved,
			Key:  txn.ExternalReference,
			Payload: map[string]any{
				"external_reference": txn.ExternalReference,
				"payment_id":         paymentID,
				"amount_cents":       txn.AmountCents,
				"currency":           txn.Currency,
			},
			OccurredAt: now,
			RequestID:  requestcontext.RequestID(ctx),
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.WarnContext(ctx, "failed to publish event", "type", event.Type, "error", err)
		}
	}
	return nil
}

func (s *Service) approvedResult(ctx context.Context, paymentID, externalReference, source string) (*models.VerifyResult, error) {
	result := &models.VerifyResult{
		PaymentID: paymentID,
		Status:    models.StatusApproved,
		Approved:  true,
		Source:    source,
	}
	if s.tokens == nil {
		return result, nil
	}
	token, expiresAt, err := s.tokens.GenerateAccessToken(externalReference, paymentID, requestcontext.Now(ctx))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue access token")
	}
	result.AccessToken = token
	result.TokenExpiresAt = expiresAt
	return result, nil
}

// gatewayError keeps coded gateway errors and marks anything else unavailable.
func gatewayError(err error, msg string) error {
	if _, ok := dErrors.As(err); ok {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeUnavailable, msg)
}

// Package service computes, stores and delivers readings for paid checkouts.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"cosmonumero/internal/delivery"
	"cosmonumero/internal/events"
	"cosmonumero/internal/interpretation"
	"cosmonumero/internal/numerology"
	paymentModels "cosmonumero/internal/payment/models"
	"cosmonumero/internal/reading/metrics"
	"cosmonumero/internal/reading/models"
	"cosmonumero/internal/reading/ports"
	"cosmonumero/internal/report"
	"cosmonumero/internal/report/archive"
	dErrors "cosmonumero/pkg/domain-errors"
	"cosmonumero/pkg/email"
	"cosmonumero/pkg/platform/sentinel"
	"cosmonumero/pkg/requestcontext"
)

var tracer = otel.Tracer("cosmonumero/reading")

type Service struct {
	transactions   ports.Transactions
	readings       ports.ReadingStore
	interpreter    ports.Interpreter
	renderer       ports.Renderer
	contacts       ports.ContactStore
	archive        ports.Archive
	mailer         ports.Mailer
	publisher      ports.EventPublisher
	logger         *slog.Logger
	metrics        *metrics.Metrics
	previewEnabled bool
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

func WithContacts(contacts ports.ContactStore) Option {
	return func(s *Service) {
		s.contacts = contacts
	}
}

func WithArchive(a ports.Archive) Option {
	return func(s *Service) {
		s.archive = a
	}
}

func WithMailer(mailer ports.Mailer) Option {
	return func(s *Service) {
		s.mailer = mailer
	}
}

func WithPublisher(publisher ports.EventPublisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

// WithPreview enables unpaid preview readings.
func WithPreview(enabled bool) Option {
	return func(s *Service) {
		s.previewEnabled = enabled
	}
}

func New(transactions ports.Transactions, readings ports.ReadingStore, interpreter ports.Interpreter, renderer ports.Renderer, opts ...Option) *Service {
	s := &Service{
		transactions: transactions,
		readings:     readings,
		interpreter:  interpreter,
		renderer:     renderer,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Preview computes a reading without payment, using the fixed narrative.
// Nothing is stored.
func (s *Service) Preview(ctx context.Context, subject models.Subject) (*models.Reading, error) {
	if !s.previewEnabled {
		return nil, dErrors.New(dErrors.CodeForbidden, "preview readings are disabled")
	}
	now := requestcontext.Now(ctx)
	result, err := numerology.Compute(subject.FullName, subject.BirthDate, now.Year())
	if err != nil {
		return nil, err
	}
	s.metrics.IncrementPreviews()
	return &models.Reading{
		FullName:        subject.FullName,
		BirthDate:       subject.BirthDate,
		EvaluationYear:  now.Year(),
		Result:          result,
		Narrative:       interpretation.Fallback(result),
		NarrativeSource: interpretation.SourceFallback,
		CreatedAt:       now,
	}, nil
}

// Generate returns the reading of a paid checkout, computing and storing it on
// the first call. Later calls return the stored reading unchanged. A subject
// sent along must match the one that was paid for.
func (s *Service) Generate(ctx context.Context, externalReference string, subject *models.Subject) (*models.Reading, error) {
	ctx, span := tracer.Start(ctx, "reading.generate")
	defer span.End()
	span.SetAttributes(attribute.String("reading.external_reference", externalReference))

	txn, err := s.transactions.ApprovedTransaction(ctx, externalReference)
	if err != nil {
		span.SetStatus(codes.Error, "transaction not payable")
		return nil, err
	}
	if subject != nil && !sameSubject(txn, *subject) {
		s.logger.WarnContext(ctx, "reading subject does not match checkout",
			"request_id", requestcontext.RequestID(ctx),
			"external_reference", externalReference,
		)
		return nil, dErrors.New(dErrors.CodeForbidden, "formData does not match the paid checkout")
	}

	reading, err := s.ensureReading(ctx, txn)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generate reading")
		return nil, err
	}
	span.SetAttributes(attribute.String("reading.narrative_source", string(reading.NarrativeSource)))
	return reading, nil
}

// Deliver e-mails the report of a paid checkout and archives the PDF.
func (s *Service) Deliver(ctx context.Context, externalReference string, contact models.ContactData) error {
	ctx, span := tracer.Start(ctx, "reading.deliver")
	defer span.End()

	if s.mailer == nil {
		return dErrors.New(dErrors.CodeUnavailable, "e-mail delivery is not configured")
	}
	reading, err := s.paidReading(ctx, externalReference)
	if err != nil {
		return err
	}
	pdf, err := s.render(ctx, reading)
	if err != nil {
		return err
	}

	requestID := requestcontext.RequestID(ctx)
	now := requestcontext.Now(ctx)
	if s.contacts != nil {
		err := s.contacts.Create(ctx, &models.Contact{
			ID:            uuid.NewString(),
			TransactionID: reading.TransactionID,
			Email:         contact.Email,
			Phone:         contact.Phone,
			CreatedAt:     now,
		})
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save contact")
		}
	}

	var g errgroup.Group
	if s.archive != nil {
		g.Go(func() error {
			if err := s.archive.Put(ctx, archive.Key(externalReference), pdf); err != nil {
				s.logger.WarnContext(ctx, "failed to archive report",
					"request_id", requestID,
					"external_reference", externalReference,
					"error", err,
				)
			}
			return nil
		})
	}
	g.Go(func() error {
		return s.mailer.Send(ctx, delivery.ReadingMessage(contact.Email, reading.FullName, pdf))
	})
	if err := g.Wait(); err != nil {
		s.metrics.RecordDelivery("failed")
		s.logger.ErrorContext(ctx, "failed to send report",
			"request_id", requestID,
			"external_reference", externalReference,
			"email", email.Mask(contact.Email),
			"error", err,
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, "send report")
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to send e-mail")
	}

	s.metrics.RecordDelivery("sent")
	s.logger.InfoContext(ctx, "report delivered",
		"request_id", requestID,
		"external_reference", externalReference,
		"email", email.Mask(contact.Email),
	)
	s.publish(ctx, events.Event{
		Type: events.TypeReadingDelivered,
		Key:  externalReference,
		Payload: map[string]any{
			"external_reference": externalReference,
			"reading_id":         reading.ID,
			"email":              email.Mask(contact.Email),
		},
		OccurredAt: now,
		RequestID:  requestID,
	})
	return nil
}

// Report renders the PDF of a paid checkout for download.
func (s *Service) Report(ctx context.Context, externalReference string) (*models.Document, error) {
	ctx, span := tracer.Start(ctx, "reading.report")
	defer span.End()

	reading, err := s.paidReading(ctx, externalReference)
	if err != nil {
		return nil, err
	}
	pdf, err := s.render(ctx, reading)
	if err != nil {
		return nil, err
	}
	return &models.Document{
		Filename: report.DownloadFilename(reading.FullName),
		Content:  pdf,
	}, nil
}

func (s *Service) paidReading(ctx context.Context, externalReference string) (*models.Reading, error) {
	txn, err := s.transactions.ApprovedTransaction(ctx, externalReference)
	if err != nil {
		return nil, err
	}
	return s.ensureReading(ctx, txn)
}

// ensureReading loads the transaction's reading or creates it. A concurrent
// creation that wins the insert is returned instead of ours.
func (s *Service) ensureReading(ctx context.Context, txn *paymentModels.Transaction) (*models.Reading, error) {
	existing, err := s.findReading(ctx, txn)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load reading")
	}

	now := requestcontext.Now(ctx)
	result, err := numerology.Compute(txn.CustomerName, txn.BirthDate, now.Year())
	if err != nil {
		return nil, err
	}
	narrative, source := s.interpreter.Interpret(ctx, interpretation.Subject{
		FullName:    txn.CustomerName,
		BirthDate:   txn.BirthDate,
		CurrentDate: now,
	}, result)

	reading := &models.Reading{
		ID:                uuid.NewString(),
		TransactionID:     txn.ID,
		ExternalReference: txn.ExternalReference,
		FullName:          txn.CustomerName,
		BirthDate:         txn.BirthDate,
		EvaluationYear:    now.Year(),
		Result:            result,
		Narrative:         narrative,
		NarrativeSource:   source,
		CreatedAt:         now,
	}
	err = s.readings.Create(ctx, reading)
	if errors.Is(err, sentinel.ErrConflict) {
		stored, findErr := s.findReading(ctx, txn)
		if findErr != nil {
			return nil, dErrors.Wrap(findErr, dErrors.CodeInternal, "failed to load reading")
		}
		return stored, nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save reading")
	}

	s.metrics.IncrementReadingsGenerated(string(source))
	s.logger.InfoContext(ctx, "reading generated",
		"request_id", requestcontext.RequestID(ctx),
		"external_reference", txn.ExternalReference,
		"narrative_source", source,
	)
	s.publish(ctx, events.Event{
		Type: events.TypeReadingGenerated,
		Key:  txn.ExternalReference,
		Payload: map[string]any{
			"external_reference":   txn.ExternalReference,
			"reading_id":           reading.ID,
			"life_path_number":     result.LifePathNumber,
			"destiny_number":       result.DestinyNumber,
			"personal_year_number": result.PersonalYearNumber,
			"narrative_source":     string(source),
		},
		OccurredAt: now,
		RequestID:  requestcontext.RequestID(ctx),
	})
	return reading, nil
}

func (s *Service) findReading(ctx context.Context, txn *paymentModels.Transaction) (*models.Reading, error) {
	r, err := s.readings.FindByTransactionID(ctx, txn.ID)
	if err != nil {
		return nil, err
	}
	r.ExternalReference = txn.ExternalReference
	return r, nil
}

func (s *Service) render(ctx context.Context, r *models.Reading) ([]byte, error) {
	start := time.Now()
	pdf, err := s.renderer.Render(report.Input{
		FullName:    r.FullName,
		BirthDate:   r.BirthDate,
		Result:      r.Result,
		Narrative:   r.Narrative,
		GeneratedAt: requestcontext.Now(ctx),
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to render report")
	}
	s.metrics.ObserveRender(time.Since(start).Seconds())
	return pdf, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish event", "type", event.Type, "error", err)
	}
}

func sameSubject(txn *paymentModels.Transaction, subject models.Subject) bool {
	return txn.BirthDate == subject.BirthDate &&
		numerology.FoldName(txn.CustomerName) == numerology.FoldName(subject.FullName)
}

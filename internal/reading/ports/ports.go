// Package ports declares what the reading service needs from the outside world.
package ports

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"cosmonumero/internal/delivery"
	"cosmonumero/internal/events"
	"cosmonumero/internal/interpretation"
	"cosmonumero/internal/numerology"
	paymentModels "cosmonumero/internal/payment/models"
	"cosmonumero/internal/reading/models"
	"cosmonumero/internal/report"
)

// Transactions resolves a checkout reference to its paid transaction.
// Unpaid checkouts yield a payment_required domain error.
type Transactions interface {
	ApprovedTransaction(ctx context.Context, externalReference string) (*paymentModels.Transaction, error)
}

// Interpreter writes the narrative for computed numbers. It never fails.
type Interpreter interface {
	Interpret(ctx context.Context, subject interpretation.Subject, r numerology.Result) (interpretation.Narrative, interpretation.Source)
}

// ReadingStore persists readings. Create returns sentinel.ErrConflict when the
// transaction already has one; FindByTransactionID returns sentinel.ErrNotFound.
type ReadingStore interface {
	Create(ctx context.Context, reading *models.Reading) error
	FindByTransactionID(ctx context.Context, transactionID string) (*models.Reading, error)
}

// ContactStore records delivery addresses.
type ContactStore interface {
	Create(ctx context.Context, contact *models.Contact) error
}

// Renderer produces the report PDF.
type Renderer interface {
	Render(in report.Input) ([]byte, error)
}

// Archive keeps rendered reports.
type Archive interface {
	Put(ctx context.Context, key string, data []byte) error
}

// Mailer sends e-mail.
type Mailer interface {
	Send(ctx context.Context, msg delivery.Message) error
}

// EventPublisher emits domain events.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

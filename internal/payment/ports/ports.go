// Package ports declares what the payment service needs from the outside world.
package ports

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"cosmonumero/internal/events"
	"cosmonumero/internal/payment/models"
)

// Gateway is the hosted-checkout provider.
type Gateway interface {
	CreateSession(ctx context.Context, req models.SessionRequest) (*models.Session, error)
	GetPayment(ctx context.Context, paymentID string) (*models.Payment, error)
}

// TransactionStore persists checkout transactions.
// FindByExternalReference returns sentinel.ErrNotFound when absent.
type TransactionStore interface {
	Create(ctx context.Context, txn *models.Transaction) error
	FindByExternalReference(ctx context.Context, externalReference string) (*models.Transaction, error)
	MarkApproved(ctx context.Context, externalReference, paymentID string, at time.Time) error
}

// StatusCache is the fast path for Verify. Get returns sentinel.ErrNotFound on a miss.
type StatusCache interface {
	Get(ctx context.Context, externalReference string) (*models.CachedStatus, error)
	Set(ctx context.Context, externalReference string, status models.CachedStatus) error
}

// TokenIssuer mints reading access tokens.
type TokenIssuer interface {
	GenerateAccessToken(externalReference, paymentID string, now time.Time) (string, time.Time, error)
}

// EventPublisher emits domain events.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

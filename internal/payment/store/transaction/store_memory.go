// Package transaction stores checkout transactions keyed by external reference.
package transaction

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cosmonumero/internal/payment/models"
	"cosmonumero/pkg/platform/sentinel"
)

// InMemoryStore keeps transactions in memory for tests and local runs.
type InMemoryStore struct {
	mu    sync.RWMutex
	byRef map[string]*models.Transaction
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{byRef: make(map[string]*models.Transaction)}
}

func (s *InMemoryStore) Create(_ context.Context, txn *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byRef[txn.ExternalReference]; ok {
		return fmt.Errorf("transaction %s: %w", txn.ExternalReference, sentinel.ErrConflict)
	}
	stored := *txn
	s.byRef[txn.ExternalReference] = &stored
	return nil
}

func (s *InMemoryStore) FindByExternalReference(_ context.Context, externalReference string) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	txn, ok := s.byRef[externalReference]
	if !ok {
		return nil, fmt.Errorf("transaction %s: %w", externalReference, sentinel.ErrNotFound)
	}
	out := *txn
	return &out, nil
}

func (s *InMemoryStore) MarkApproved(_ context.Context, externalReference, paymentID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	txn, ok := s.byRef[externalReference]
	if !ok {
		return fmt.Errorf("transaction %s: %w", externalReference, sentinel.ErrNotFound)
	}
	if txn.IsApproved() {
		return nil
	}
	txn.Status = models.StatusApproved
	txn.PaymentID = paymentID
	txn.UpdatedAt = at
	return nil
}

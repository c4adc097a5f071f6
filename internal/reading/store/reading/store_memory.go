// Package reading stores computed readings, one per paid transaction.
package reading

import (
	"context"
	"fmt"
	"sync"

	"cosmonumero/internal/reading/models"
	"cosmonumero/pkg/platform/sentinel"
)

// InMemoryStore keeps readings in memory for tests and local runs.
type InMemoryStore struct {
	mu            sync.RWMutex
	byTransaction map[string]*models.Reading
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{byTransaction: make(map[string]*models.Reading)}
}

func (s *InMemoryStore) Create(_ context.Context, r *models.Reading) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byTransaction[r.TransactionID]; ok {
		return fmt.Errorf("reading for transaction %s: %w", r.TransactionID, sentinel.ErrConflict)
	}
	stored := *r
	s.byTransaction[r.TransactionID] = &stored
	return nil
}

func (s *InMemoryStore) FindByTransactionID(_ context.Context, transactionID string) (*models.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byTransaction[transactionID]
	if !ok {
		return nil, fmt.Errorf("reading for transaction %s: %w", transactionID, sentinel.ErrNotFound)
	}
	out := *r
	return &out, nil
}

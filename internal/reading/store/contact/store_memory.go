// Package contact stores the addresses readings were delivered to.
package contact

import (
	"context"
	"sync"

	"cosmonumero/internal/reading/models"
)

// InMemoryStore keeps contacts in memory for tests and local runs.
type InMemoryStore struct {
	mu       sync.RWMutex
	contacts []models.Contact
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Create(_ context.Context, c *models.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts = append(s.contacts, *c)
	return nil
}

func (s *InMemoryStore) ListByTransactionID(_ context.Context, transactionID string) ([]models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Contact
	for _, c := range s.contacts {
		if c.TransactionID == transactionID {
			out = append(out, c)
		}
	}
	return out, nil
}

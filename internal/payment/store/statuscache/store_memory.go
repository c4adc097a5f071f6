package statuscache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cosmonumero/internal/payment/models"
	"cosmonumero/pkg/platform/sentinel"
)

type entry struct {
	status    models.CachedStatus
	expiresAt time.Time
}

// InMemoryStore is the single-instance fallback when Redis is not configured.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

func NewInMemory(ttl time.Duration) *InMemoryStore {
	return &InMemoryStore{entries: make(map[string]entry), ttl: ttl, now: time.Now}
}

func (s *InMemoryStore) Get(_ context.Context, externalReference string) (*models.CachedStatus, error) {
	s.mu.RLock()
	e, ok := s.entries[externalReference]
	s.mu.RUnlock()
	if !ok || (!e.expiresAt.IsZero() && !s.now().Before(e.expiresAt)) {
		return nil, fmt.Errorf("status %s: %w", externalReference, sentinel.ErrNotFound)
	}
	out := e.status
	return &out, nil
}

func (s *InMemoryStore) Set(_ context.Context, externalReference string, status models.CachedStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := entry{status: status}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}
	s.entries[externalReference] = e
	return nil
}

// Package archive keeps rendered report PDFs in object storage.
package archive

import (
	"context"
	"fmt"
	"sync"

	"cosmonumero/pkg/platform/sentinel"
)

const contentTypePDF = "application/pdf"

// Key is the object key of a checkout's report.
func Key(externalReference string) string {
	return "readings/" + externalReference + ".pdf"
}

// MemoryStore archives in memory when no object store is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (s *MemoryStore) Put(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = append([]byte(nil), data...)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %s: %w", key, sentinel.ErrNotFound)
	}
	return append([]byte(nil), data...), nil
}

// Package cache contiene las capas de memoización que evitan llamadas
// redundantes al backend: el cache de perfiles de hijos (sobre un Store
// clave-valor) y el cache de sugerencias de prompts.
package cache

import (
	"context"
	"sync"
)

// Store es un almacenamiento clave-valor simple para payloads serializados.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

type memoryStore struct {
	mu    sync.Mutex
	items map[string]string
}

// NewMemoryStore devuelve un Store en memoria del proceso.
func NewMemoryStore() Store {
	return &memoryStore{items: make(map[string]string)}
}

func (s *memoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[key]
	return v, ok, nil
}

func (s *memoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	return nil
}

func (s *memoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.items, k)
	}
	return nil
}

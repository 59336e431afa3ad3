package storage

import (
	"context"
	"sync"
)

type InMemStorage struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func NewInMemStorage() *InMemStorage {
	return &InMemStorage{items: make(map[string][]byte)}
}

func (s *InMemStorage) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.items[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *InMemStorage) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = append([]byte(nil), value...)
	return nil
}

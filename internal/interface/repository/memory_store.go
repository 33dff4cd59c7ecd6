package repository

import (
	"context"
	"sync"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/internal/domain/repository"
)

// MemoryKeyValueStore keeps the session state in process memory
type MemoryKeyValueStore struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryKeyValueStore creates an empty in-memory store
func NewMemoryKeyValueStore() repository.KeyValueStore {
	return &MemoryKeyValueStore{
		entries: make(map[string]string),
	}
}

// Get returns the value stored under key
func (s *MemoryKeyValueStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.entries[key]
	if !ok {
		return "", entity.ErrKeyNotFound
	}
	return value, nil
}

// Set stores value under key
func (s *MemoryKeyValueStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	s.entries[key] = value
	s.mu.Unlock()
	return nil
}

// Delete removes key; deleting a missing key is not an error
func (s *MemoryKeyValueStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

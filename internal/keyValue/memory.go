package keyValue

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// MemoryStore keeps values in a map. Nothing survives a restart, so it only
// suits tests and throwaway runs.
type MemoryStore struct {
	mutex   sync.RWMutex
	hashmap map[string]string
	sugar   *zap.SugaredLogger
}

func NewMemoryStore(sugar *zap.SugaredLogger) *MemoryStore {
	return &MemoryStore{
		hashmap: make(map[string]string),
		sugar:   sugar,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.sugar.Debugf("Getting value of key [%s] from hashmap", key)

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	value, exists := s.hashmap[key]
	if !exists {
		return "", ErrNotFound
	}
	return value, nil
}

func (s *MemoryStore) SetMany(_ context.Context, values map[string]string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for key, value := range values {
		s.sugar.Debugf("Setting value of key [%s] in hashmap", key)
		s.hashmap[key] = value
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, key := range keys {
		s.sugar.Debugf("Deleting key [%s] from hashmap", key)
		delete(s.hashmap, key)
	}
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

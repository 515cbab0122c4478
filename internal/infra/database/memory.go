package database

import (
	"context"

	"github.com/patrickmn/go-cache"
)

// MemoryStore is a process-local store. Nothing survives a restart.
type MemoryStore struct {
	cache *cache.Cache
}

func NewMemory() *MemoryStore {
	return &MemoryStore{cache: cache.New(cache.NoExpiration, 0)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	x, found := s.cache.Get(key)
	if !found {
		return nil, false, nil
	}
	value := x.([]byte)
	return append([]byte{}, value...), true, nil
}

func (s *MemoryStore) Put(ctx context.Context, key string, value []byte) error {
	if value == nil {
		s.cache.Delete(key)
		return nil
	}
	s.cache.Set(key, append([]byte{}, value...), cache.NoExpiration)
	return nil
}

func (s *MemoryStore) Close() error {
	s.cache.Flush()
	return nil
}

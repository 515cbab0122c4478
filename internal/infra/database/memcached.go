package database

import (
	"context"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/pkg/errors"
)

func NewMemcached(server string) *memcache.Client {
	return memcache.New(server)
}

// MemcachedStore keeps values in memcached without expiration.
// Memcached may evict entries, which the catalog cache reads as a miss.
type MemcachedStore struct {
	mc     *memcache.Client
	prefix string
}

func NewMemcachedStore(mc *memcache.Client, prefix string) *MemcachedStore {
	return &MemcachedStore{mc: mc, prefix: prefix}
}

func (s *MemcachedStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	item, err := s.mc.Get(s.prefix + key)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "memcached get")
	}
	return item.Value, true, nil
}

func (s *MemcachedStore) Put(ctx context.Context, key string, value []byte) error {
	if value == nil {
		err := s.mc.Delete(s.prefix + key)
		if errors.Is(err, memcache.ErrCacheMiss) {
			return nil
		}
		return errors.Wrap(err, "memcached delete")
	}
	return errors.Wrap(s.mc.Set(&memcache.Item{Key: s.prefix + key, Value: value}), "memcached set")
}

func (s *MemcachedStore) Close() error {
	return s.mc.Close()
}

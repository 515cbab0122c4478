package database

import (
	"context"
)

// Store is the key-value primitive the catalog cache persists into.
// Put with a nil value deletes the key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Package kvstore defines the byte-oriented key-value contract used to persist
// serialized state. Subpackages provide in-memory, SQLite and Redis backends.
package kvstore

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when nothing is stored under the key.
var ErrKeyNotFound = errors.New("key not found")

// Store reads and writes opaque values by key.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the value stored under key or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Close releases the backend connection.
	Close() error
}

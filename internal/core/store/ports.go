package store

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned by Get when the key does not exist.
var ErrKeyNotFound = errors.New("key not found")

// Store defines the key-value operations backing remote checkpoint storage.
// This is a port that can be implemented by different providers (Redis today).
type Store interface {
	// Get retrieves a value by key.
	// Returns an error wrapping ErrKeyNotFound when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value under the specified key with the given TTL.
	// TTL of 0 means no expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error

	// Ping checks if the backing service is reachable.
	Ping(ctx context.Context) error

	// Close closes the underlying connection.
	Close() error
}

// Package store provides the opaque local key-value store backing all
// persisted application state: the trip collection, session identities, and
// UI preferences. Consumers treat values as opaque byte payloads; every
// serialization decision belongs to the caller.
package store

import (
	"context"
	"errors"
)

// ErrNoKey is returned by Get when the key has no stored value. Callers are
// expected to treat absence as "empty/default state", never as fatal.
var ErrNoKey = errors.New("key not found")

// KV is the minimal store interface the rest of the application depends on.
// The production implementation is SQLite-backed; tests may substitute an
// in-memory map.
type KV interface {
	// Get returns the value stored under key, or ErrNoKey if absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key, replacing any existing value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes the value stored under key. Deleting an absent key is
	// not an error.
	Delete(ctx context.Context, key string) error
}

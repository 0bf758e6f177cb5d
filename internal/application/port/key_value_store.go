package port

import "context"

// KeyValueStore is the durable storage the tab snapshot lives in.
// Implementations must be safe for concurrent use.
type KeyValueStore interface {
	// Get returns the value stored under key. found is false when the key is absent.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set creates or overwrites key.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists stored keys starting with prefix, sorted.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

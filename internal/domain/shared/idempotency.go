package shared

import (
	"context"
	"time"
)

// StoredResponse is the HTTP response recorded for an idempotency key
type StoredResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// IdempotencyStore remembers client supplied idempotency keys so that a
// retried create replays the first response instead of running twice.
type IdempotencyStore interface {
	// Reserve claims the key for an in-flight request.
	// Returns true if the key was newly claimed, false if it already exists.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Complete records the final response for a reserved key.
	Complete(ctx context.Context, key string, resp StoredResponse, ttl time.Duration) error

	// Lookup returns the recorded response. found is false when the key is
	// unknown or its request is still in flight.
	Lookup(ctx context.Context, key string) (resp *StoredResponse, found bool, err error)

	// Release drops a reservation so the request can be retried.
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is how long a recorded response is replayed. Default: 24 hours
	TTL time.Duration

	// Enabled determines whether the Idempotency-Key header is honoured
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}

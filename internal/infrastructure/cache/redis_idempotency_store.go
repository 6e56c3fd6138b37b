package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MrJorgx/PracticasExt/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

const (
	defaultKeyPrefix = "ledger:idempotency:"
	// pendingMarker is stored while the first request for a key is in flight
	pendingMarker = "pending"
)

// RedisIdempotencyStore implements shared.IdempotencyStore on Redis, so
// replicas behind a load balancer share idempotency keys
type RedisIdempotencyStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisIdempotencyStore connects to addr and checks the connection
func NewRedisIdempotencyStore(ctx context.Context, opts *redis.Options) (*RedisIdempotencyStore, error) {
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRedisIdempotencyStoreWithClient(client, ""), nil
}

// NewRedisIdempotencyStoreWithClient wraps an existing client
func NewRedisIdempotencyStoreWithClient(client redis.UniversalClient, keyPrefix string) *RedisIdempotencyStore {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisIdempotencyStore{client: client, keyPrefix: keyPrefix}
}

// Reserve claims key with SET NX
func (s *RedisIdempotencyStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.keyPrefix+key, pendingMarker, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to reserve idempotency key: %w", err)
	}
	return ok, nil
}

// Complete overwrites the reservation with the JSON encoded response
func (s *RedisIdempotencyStore) Complete(ctx context.Context, key string, resp shared.StoredResponse, ttl time.Duration) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to encode stored response: %w", err)
	}
	if err := s.client.Set(ctx, s.keyPrefix+key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store idempotent response: %w", err)
	}
	return nil
}

// Lookup returns the stored response for key
func (s *RedisIdempotencyStore) Lookup(ctx context.Context, key string) (*shared.StoredResponse, bool, error) {
	raw, err := s.client.Get(ctx, s.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read idempotency key: %w", err)
	}
	if string(raw) == pendingMarker {
		return nil, false, nil
	}

	var resp shared.StoredResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false, fmt.Errorf("failed to decode stored response: %w", err)
	}
	return &resp, true, nil
}

// Release deletes the key
func (s *RedisIdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	return nil
}

// Ping checks the Redis connection for the readiness probe
func (s *RedisIdempotencyStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis client
func (s *RedisIdempotencyStore) Close() error {
	return s.client.Close()
}

var _ shared.IdempotencyStore = (*RedisIdempotencyStore)(nil)

package cache

import (
	"context"
	"time"

	"github.com/MrJorgx/PracticasExt/internal/domain/shared"
	gocache "github.com/patrickmn/go-cache"
)

// InMemoryIdempotencyStore implements shared.IdempotencyStore with go-cache.
// Keys are not shared between processes.
type InMemoryIdempotencyStore struct {
	c *gocache.Cache
}

// NewInMemoryIdempotencyStore creates a store whose expired keys are purged every cleanupInterval
func NewInMemoryIdempotencyStore(defaultTTL, cleanupInterval time.Duration) *InMemoryIdempotencyStore {
	return &InMemoryIdempotencyStore{c: gocache.New(defaultTTL, cleanupInterval)}
}

// Reserve claims key; go-cache Add fails when an unexpired item exists
func (s *InMemoryIdempotencyStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if err := s.c.Add(key, pendingMarker, ttl); err != nil {
		return false, nil
	}
	return true, nil
}

func (s *InMemoryIdempotencyStore) Complete(ctx context.Context, key string, resp shared.StoredResponse, ttl time.Duration) error {
	body := make([]byte, len(resp.Body))
	copy(body, resp.Body)
	resp.Body = body
	s.c.Set(key, resp, ttl)
	return nil
}

func (s *InMemoryIdempotencyStore) Lookup(ctx context.Context, key string) (*shared.StoredResponse, bool, error) {
	v, ok := s.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	resp, done := v.(shared.StoredResponse)
	if !done {
		return nil, false, nil
	}
	return &resp, true, nil
}

func (s *InMemoryIdempotencyStore) Release(ctx context.Context, key string) error {
	s.c.Delete(key)
	return nil
}

// Close empties the store
func (s *InMemoryIdempotencyStore) Close() error {
	s.c.Flush()
	return nil
}

// Size returns the number of unexpired and not yet purged keys
func (s *InMemoryIdempotencyStore) Size() int {
	return s.c.ItemCount()
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)

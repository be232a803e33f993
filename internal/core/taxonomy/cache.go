// Copyright (c) 2026 Maria. All rights reserved.

package taxonomy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lelipitri23-dev/Maria/internal/platform/constants"
)

// Cache stores distinct-value lists under a TTL.
//
// Implementations must treat a missing key as (nil, false, nil), not an
// error: a miss is the normal lazy-population path.
type Cache interface {
	Get(ctx context.Context, key string) ([]string, bool, error)
	Set(ctx context.Context, key string, values []string, ttl time.Duration) error
}

// # Redis Cache

// RedisCache is the production [Cache], shared across processes.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache wraps an existing Redis client.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (cache *RedisCache) Get(ctx context.Context, key string) ([]string, bool, error) {
	payload, err := cache.client.Get(ctx, constants.RedisPrefixTaxonomy+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("taxonomy: cache get failed: %w", err)
	}

	var values []string
	if err := json.Unmarshal(payload, &values); err != nil {
		// A corrupt entry behaves like a miss so it gets overwritten.
		return nil, false, nil
	}
	return values, true, nil
}

func (cache *RedisCache) Set(ctx context.Context, key string, values []string, ttl time.Duration) error {
	payload, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("taxonomy: cache marshal failed: %w", err)
	}
	if err := cache.client.Set(ctx, constants.RedisPrefixTaxonomy+key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("taxonomy: cache set failed: %w", err)
	}
	return nil
}

// # In-Memory Cache

type memoryEntry struct {
	values    []string
	expiresAt time.Time
}

// MemoryCache is a process-local [Cache] used in tests and single-node
// deployments without Redis.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry

	// now is injectable so tests can control expiry.
	now func() time.Time
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// WithClock overrides the cache's time source. Test hook.
func (cache *MemoryCache) WithClock(now func() time.Time) *MemoryCache {
	cache.now = now
	return cache
}

func (cache *MemoryCache) Get(_ context.Context, key string) ([]string, bool, error) {
	cache.mu.RLock()
	entry, found := cache.entries[key]
	cache.mu.RUnlock()

	if !found || cache.now().After(entry.expiresAt) {
		return nil, false, nil
	}
	return entry.values, true, nil
}

func (cache *MemoryCache) Set(_ context.Context, key string, values []string, ttl time.Duration) error {
	cache.mu.Lock()
	cache.entries[key] = memoryEntry{values: values, expiresAt: cache.now().Add(ttl)}
	cache.mu.Unlock()
	return nil
}

// Package cachemanager wraps an in-memory TTL cache behind a typed interface.
// The render engine uses it to keep parsed templates across batch runs.
package cachemanager

import (
	"context"
	"time"
)

// CacheManager is a typed key/value cache with per-entry TTLs.
type CacheManager[K comparable, V any] interface {
	// Get returns the cached value for key, if present and not expired.
	Get(ctx context.Context, key K) (V, bool)
	// Set stores value under key. A zero ttl uses the cache default.
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	// Delete drops the given keys; missing keys are not an error.
	Delete(ctx context.Context, keys ...K) error
	// Flush drops every entry.
	Flush(ctx context.Context) error
}

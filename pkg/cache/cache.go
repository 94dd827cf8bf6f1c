// Package cache stores computed all-pairs distance matrices between runs.
//
// Shortest paths dominate start-up time for large graphs and only depend on
// the graph's structure, so repeated layouts of the same graph (different
// options, seeds or link distances) can reuse them. Keys are derived from
// the node count and links with [DistanceKey].
//
//	c, _ := cache.NewFileCache(dir)
//	d, hit, err := cache.Distances(ctx, c, cache.DistanceKey(n, links), ttl, compute)
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the stored value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

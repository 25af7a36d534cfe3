// Package cache provides page caching for fetched documents with a Redis
// backend.
//
// The cache manager stores materialized responses keyed by URL with the
// following features:
//
// - Freshness derived from Cache-Control and Expires response headers
// - Automatic eviction via Redis TTL
// - Prometheus metrics for observability
// - Deterministic cache key generation
//
// # Basic Usage
//
//	// Create Redis client
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	// Create cache manager
//	manager := cache.NewManager(redisClient)
//
//	// Create cache key
//	key := cache.Key{URL: "https://example.com/articles/1"}
//
//	// Get from cache
//	entry, err := manager.Get(ctx, key)
//	if err == cache.ErrCacheMiss {
//		// Cache miss - fetch from the network
//	}
//
// # Storing Fetched Pages
//
//	// Build an entry from a materialized response
//	entry := cache.NewEntry(statusCode, header, body)
//
//	// Store in cache (stale entries are skipped)
//	if err := manager.Set(ctx, key, entry); err != nil {
//		return err
//	}
//
// # Freshness
//
// Entry lifetime is decided in order: Cache-Control no-store/no-cache
// (expire immediately), Cache-Control max-age, the Expires header, then
// DefaultTTL. Entries whose lifetime has already passed are never written.
//
// # Metrics
//
// The cache manager exports Prometheus metrics:
//
//   - fetch_cache_hits_total{layer="redis"} - Cache hits
//   - fetch_cache_misses_total - Cache misses
//   - fetch_cache_size_bytes{layer="redis"} - Bytes written
//   - fetch_cache_errors_total{operation} - Cache operation errors
package cache

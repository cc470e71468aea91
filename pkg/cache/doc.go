// Package cache stores GraphQL responses so a watch can answer from cache
// before the network responds.
//
// The manager has two layers:
//
// - An in-memory LRU (hashicorp/golang-lru) checked first
// - An optional Redis layer shared between processes
//
// # Basic Usage
//
//	manager := cache.NewManager(redisClient)
//
//	key := cache.KeyFor(graphql.Request{
//		Query:     query,
//		Variables: map[string]any{"first": 20},
//	})
//
//	entry, err := manager.Get(ctx, key)
//	if err == cache.ErrCacheMiss {
//		// fetch from the network
//	}
//
//	// Store a raw response
//	err = manager.Set(ctx, key, cache.NewEntry(raw, manager.TTL()))
//
// # Metrics
//
//   - graphql_cache_hits_total{layer} - Cache hits by layer
//   - graphql_cache_misses_total - Cache misses
//   - graphql_cache_size_bytes{layer="redis"} - Bytes written to Redis
//   - graphql_cache_errors_total{operation} - Cache operation errors
//
// Keys are derived from the query document and its variables; see
// CacheKey.String.
package cache

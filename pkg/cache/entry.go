package cache

import (
	"encoding/json"
	"time"

	"github.com/Sternrassler/relay-pagination/pkg/graphql"
)

// CacheEntry represents a cached GraphQL response.
type CacheEntry struct {
	// Data is the raw data member of the response
	Data json.RawMessage `json:"data"`

	// Errors are the protocol errors returned with the data
	Errors []graphql.Error `json:"errors,omitempty"`

	// Expires is when the cache entry becomes stale
	Expires time.Time `json:"expires"`

	// CachedAt is when we cached this response
	CachedAt time.Time `json:"cached_at"`
}

// NewEntry creates a cache entry for a raw response that expires after ttl.
func NewEntry(raw *graphql.RawResponse, ttl time.Duration) *CacheEntry {
	now := time.Now()
	return &CacheEntry{
		Data:     raw.Data,
		Errors:   raw.Errors,
		Expires:  now.Add(ttl),
		CachedAt: now,
	}
}

// RawResponse converts the entry back into a response envelope.
func (e *CacheEntry) RawResponse() *graphql.RawResponse {
	return &graphql.RawResponse{
		Data:   e.Data,
		Errors: e.Errors,
	}
}

// IsExpired returns true if the cache entry has expired.
func (e *CacheEntry) IsExpired() bool {
	return time.Now().After(e.Expires)
}

// TTL returns the time until expiration.
// Returns 0 if already expired.
func (e *CacheEntry) TTL() time.Duration {
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}

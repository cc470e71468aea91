package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/Sternrassler/relay-pagination/pkg/graphql"
)

// CacheKey represents a unique identifier for a cached GraphQL response.
type CacheKey struct {
	// OperationName is the GraphQL operation name (may be empty)
	OperationName string

	// Query is the query document
	Query string

	// Variables are the operation variables
	Variables map[string]any
}

// KeyFor returns the cache key of a request.
func KeyFor(req graphql.Request) CacheKey {
	return CacheKey{
		OperationName: req.OperationName,
		Query:         req.Query,
		Variables:     req.Variables,
	}
}

// String generates a deterministic cache key string.
// Format: gql:operation:sha256(query, variables)
//
// Variables are encoded as JSON, which orders map keys, so equal variable
// sets always hash the same.
//
// Example:
//
//	gql:Items:5f0c...e1
func (k CacheKey) String() string {
	h := sha256.New()
	h.Write([]byte(strings.TrimSpace(k.Query)))
	h.Write([]byte{0})
	if len(k.Variables) > 0 {
		vars, err := json.Marshal(k.Variables)
		if err == nil {
			h.Write(vars)
		}
	}

	op := k.OperationName
	if op == "" {
		op = "anonymous"
	}
	return "gql:" + op + ":" + hex.EncodeToString(h.Sum(nil))
}

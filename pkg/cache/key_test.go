package cache

import (
	"strings"
	"testing"

	"github.com/Sternrassler/relay-pagination/pkg/graphql"
)

const itemsQuery = `query Items($first: Int, $after: String) {
  items(first: $first, after: $after) { edges { node { id } } pageInfo { endCursor hasNextPage } }
}`

func TestCacheKey_String(t *testing.T) {
	base := CacheKey{
		OperationName: "Items",
		Query:         itemsQuery,
		Variables:     map[string]any{"first": 10, "after": "c1"},
	}

	t.Run("prefix", func(t *testing.T) {
		if got := base.String(); !strings.HasPrefix(got, "gql:Items:") {
			t.Errorf("String() = %q, want gql:Items: prefix", got)
		}
		anon := CacheKey{Query: itemsQuery}
		if got := anon.String(); !strings.HasPrefix(got, "gql:anonymous:") {
			t.Errorf("String() = %q, want gql:anonymous: prefix", got)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		same := CacheKey{
			OperationName: "Items",
			Query:         "\n" + itemsQuery + "  ",
			Variables:     map[string]any{"after": "c1", "first": 10},
		}
		if base.String() != same.String() {
			t.Errorf("equal requests produced different keys: %q vs %q", base.String(), same.String())
		}
	})

	t.Run("variables distinguish pages", func(t *testing.T) {
		next := CacheKey{
			OperationName: "Items",
			Query:         itemsQuery,
			Variables:     map[string]any{"first": 10, "after": "c2"},
		}
		if base.String() == next.String() {
			t.Error("different cursors produced the same key")
		}
		first := CacheKey{OperationName: "Items", Query: itemsQuery}
		if base.String() == first.String() {
			t.Error("missing variables produced the same key")
		}
	})
}

func TestKeyFor(t *testing.T) {
	req := graphql.Request{
		Query:         itemsQuery,
		OperationName: "Items",
		Variables:     map[string]any{"first": 10},
	}

	key := KeyFor(req)
	if key.OperationName != "Items" || key.Query != itemsQuery || key.Variables["first"] != 10 {
		t.Errorf("KeyFor() = %+v", key)
	}
}

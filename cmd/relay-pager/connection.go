package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Sternrassler/relay-pagination/pkg/pagination"
)

// connection is a Relay connection object with undecoded edges.
type connection struct {
	Edges    []json.RawMessage    `json:"edges"`
	PageInfo *pagination.PageInfo `json:"pageInfo"`
}

// parsePath splits a dot separated path such as "viewer.repositories".
func parsePath(path string) ([]string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("connection path is empty")
	}
	parts := strings.Split(path, ".")
	for _, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("invalid connection path %q", path)
		}
	}
	return parts, nil
}

// connectionAt decodes the connection found by following path from data.
func connectionAt(data json.RawMessage, path []string) (*connection, error) {
	current := data
	for _, field := range path {
		var object map[string]json.RawMessage
		if err := json.Unmarshal(current, &object); err != nil {
			return nil, fmt.Errorf("field %q: %w", field, err)
		}
		next, ok := object[field]
		if !ok || string(next) == "null" {
			return nil, fmt.Errorf("field %q not found", field)
		}
		current = next
	}

	var conn connection
	if err := json.Unmarshal(current, &conn); err != nil {
		return nil, fmt.Errorf("decode connection: %w", err)
	}
	return &conn, nil
}

// connectionStrategy paginates the connection at path and concatenates its
// edges.
func connectionStrategy(path []string) pagination.Strategy[json.RawMessage, []json.RawMessage] {
	return pagination.Strategy[json.RawMessage, []json.RawMessage]{
		Extractor: pagination.NewRelayPageExtractor(func(data json.RawMessage) *pagination.PageInfo {
			conn, err := connectionAt(data, path)
			if err != nil {
				return nil
			}
			return conn.PageInfo
		}),
		Transformer: pagination.TransformerFunc[json.RawMessage, []json.RawMessage](func(data json.RawMessage) ([]json.RawMessage, bool) {
			conn, err := connectionAt(data, path)
			if err != nil {
				return nil, false
			}
			return conn.Edges, true
		}),
		Merge: pagination.ConcatStrategy[json.RawMessage]{},
		Equal: equalEdges,
	}
}

func equalEdges(a, b []json.RawMessage) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if string(a[i]) != string(b[i]) {
			return false
		}
	}
	return true
}

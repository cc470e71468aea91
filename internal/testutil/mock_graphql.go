// Package testutil provides testing utilities for the relay pagination packages.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ItemsQuery is the query served by MockGraphQL.
const ItemsQuery = `query Items($first: Int, $after: String) {
  items(first: $first, after: $after) {
    edges { cursor node { id name } }
    pageInfo { endCursor hasNextPage }
  }
}`

// Item is a node of the mock connection.
type Item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Edge is an edge of the mock connection.
type Edge struct {
	Cursor string `json:"cursor"`
	Node   Item   `json:"node"`
}

// PageInfo mirrors the Relay pageInfo object.
type PageInfo struct {
	EndCursor   *string `json:"endCursor"`
	HasNextPage bool    `json:"hasNextPage"`
}

// Connection is the mock items connection.
type Connection struct {
	Edges    []Edge    `json:"edges"`
	PageInfo *PageInfo `json:"pageInfo"`
}

// ItemsData is the data member of an Items response.
type ItemsData struct {
	Items *Connection `json:"items"`
}

// MockResponse defines a canned HTTP response.
type MockResponse struct {
	StatusCode int
	Body       string
	Delay      time.Duration
}

// MockGraphQL is a GraphQL server exposing a paginated items connection.
type MockGraphQL struct {
	server *httptest.Server
	mu     sync.RWMutex
	items  []Item
	queued []MockResponse

	// Tracking
	RequestCount  int
	LastVariables map[string]any
	LastUserAgent string
}

// NewMockGraphQL creates a server paginating over n generated items.
func NewMockGraphQL(n int) *MockGraphQL {
	mock := &MockGraphQL{items: NewItems(n)}
	mock.server = httptest.NewServer(http.HandlerFunc(mock.handle))
	return mock
}

// NewItems generates n items with IDs "1" to "n".
func NewItems(n int) []Item {
	items := make([]Item, 0, n)
	for i := 1; i <= n; i++ {
		items = append(items, Item{ID: strconv.Itoa(i), Name: fmt.Sprintf("item-%d", i)})
	}
	return items
}

// URL returns the mock server URL.
func (m *MockGraphQL) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockGraphQL) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockGraphQL) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.LastVariables = nil
	m.LastUserAgent = ""
}

// SetItems replaces the served items.
func (m *MockGraphQL) SetItems(items []Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = items
}

// Enqueue makes the next requests answer with resp instead of a page, in
// FIFO order.
func (m *MockGraphQL) Enqueue(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queued = append(m.queued, resp)
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockGraphQL) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetLastVariables returns the variables of the most recent request.
func (m *MockGraphQL) GetLastVariables() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastVariables
}

func (m *MockGraphQL) handle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	m.mu.Lock()
	m.RequestCount++
	m.LastVariables = req.Variables
	m.LastUserAgent = r.Header.Get("User-Agent")
	var canned *MockResponse
	if len(m.queued) > 0 {
		canned = &m.queued[0]
		m.queued = m.queued[1:]
	}
	items := m.items
	m.mu.Unlock()

	if canned != nil {
		if canned.Delay > 0 {
			select {
			case <-time.After(canned.Delay):
			case <-r.Context().Done():
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(canned.StatusCode)
		w.Write([]byte(canned.Body))
		return
	}

	first := 10
	if v, ok := req.Variables["first"].(float64); ok {
		first = int(v)
	}
	start := 0
	if after, ok := req.Variables["after"].(string); ok && after != "" {
		idx, err := strconv.Atoi(strings.TrimPrefix(after, "cursor:"))
		if err != nil {
			writeJSON(w, map[string]any{"errors": []map[string]any{{"message": "invalid cursor"}}})
			return
		}
		start = idx + 1
	}

	writeJSON(w, map[string]any{"data": ItemsData{Items: Page(items, start, first)}})
}

// Page builds the connection page of items starting at index start.
func Page(items []Item, start, first int) *Connection {
	conn := &Connection{Edges: []Edge{}, PageInfo: &PageInfo{}}
	end := min(start+first, len(items))
	for i := start; i < end; i++ {
		conn.Edges = append(conn.Edges, Edge{Cursor: Cursor(i), Node: items[i]})
	}
	if len(conn.Edges) > 0 {
		last := conn.Edges[len(conn.Edges)-1].Cursor
		conn.PageInfo.EndCursor = &last
	}
	conn.PageInfo.HasNextPage = end < len(items)
	return conn
}

// Cursor returns the cursor of the item at index i.
func Cursor(i int) string {
	return "cursor:" + strconv.Itoa(i)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

package client

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/Sternrassler/relay-pagination/internal/testutil"
	"github.com/Sternrassler/relay-pagination/pkg/cache"
	"github.com/Sternrassler/relay-pagination/pkg/graphql"
	"github.com/Sternrassler/relay-pagination/pkg/pagination"
)

const testUserAgent = "relay-pagination-test/1.0 (test@example.com)"

func itemsRequest(after string) graphql.Request {
	req := graphql.Request{
		Query:         testutil.ItemsQuery,
		OperationName: "Items",
		Variables:     map[string]any{"first": 2},
	}
	if after != "" {
		req = req.WithVariable("after", after)
	}
	return req
}

func newTestClient(t *testing.T, mock *testutil.MockGraphQL, manager *cache.Manager) *Client {
	t.Helper()

	cfg := DefaultConfig(mock.URL(), testUserAgent)
	cfg.Cache = manager
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
		errorMsg    string
	}{
		{
			name:   "valid config",
			config: DefaultConfig("http://localhost/graphql", testUserAgent),
		},
		{
			name:        "empty endpoint",
			config:      Config{UserAgent: testUserAgent},
			expectError: true,
			errorMsg:    "endpoint is required",
		},
		{
			name:        "empty user agent",
			config:      Config{Endpoint: "http://localhost/graphql"},
			expectError: true,
			errorMsg:    "user-agent is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.config)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error but got nil")
					return
				}
				if tt.errorMsg != "" && err.Error() != tt.errorMsg {
					t.Errorf("Error message = %q, want %q", err.Error(), tt.errorMsg)
				}
			} else {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
					return
				}
				if client == nil {
					t.Error("Client is nil")
				}
			}
		})
	}
}

func TestNew_DefaultTimeout(t *testing.T) {
	c, err := New(Config{Endpoint: "http://localhost/graphql", UserAgent: testUserAgent})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if c.httpClient.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", c.httpClient.Timeout)
	}
}

func TestClient_Do(t *testing.T) {
	mock := testutil.NewMockGraphQL(5)
	defer mock.Close()

	c := newTestClient(t, mock, nil)

	raw, err := c.Do(context.Background(), itemsRequest(""))
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if !raw.HasData() {
		t.Fatal("response has no data")
	}
	if mock.LastUserAgent != testUserAgent {
		t.Errorf("User-Agent = %q, want %q", mock.LastUserAgent, testUserAgent)
	}
	if got := mock.GetLastVariables()["first"]; got != float64(2) {
		t.Errorf("first = %v, want 2", got)
	}
}

func TestExecute(t *testing.T) {
	mock := testutil.NewMockGraphQL(3)
	defer mock.Close()

	c := newTestClient(t, mock, nil)

	resp, err := Execute[testutil.ItemsData](context.Background(), c, itemsRequest(testutil.Cursor(1)))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if resp.Source != graphql.SourceNetwork {
		t.Errorf("Source = %q, want network", resp.Source)
	}
	edges := resp.Data.Items.Edges
	if len(edges) != 1 || edges[0].Node.ID != "3" {
		t.Errorf("edges = %+v, want single item 3", edges)
	}
	if resp.Data.Items.PageInfo.HasNextPage {
		t.Error("last page should not have a next page")
	}
}

func TestClient_Do_Errors(t *testing.T) {
	tests := []struct {
		name       string
		response   testutil.MockResponse
		wantStatus int
		wantClass  ErrorClass
		wantCode   int
	}{
		{
			name:       "server error",
			response:   testutil.MockResponse{StatusCode: http.StatusBadGateway, Body: `{"error":"bad gateway"}`},
			wantStatus: http.StatusBadGateway,
			wantClass:  ErrorClassServer,
		},
		{
			name:       "client error",
			response:   testutil.MockResponse{StatusCode: http.StatusUnauthorized, Body: `{"error":"unauthorized"}`},
			wantStatus: http.StatusUnauthorized,
			wantClass:  ErrorClassClient,
		},
		{
			name:       "undecodable body",
			response:   testutil.MockResponse{StatusCode: http.StatusOK, Body: `<html>`},
			wantStatus: http.StatusOK,
			wantCode:   graphql.CodeBadResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testutil.NewMockGraphQL(1)
			defer mock.Close()
			mock.Enqueue(tt.response)

			c := newTestClient(t, mock, nil)
			_, err := c.Do(context.Background(), itemsRequest(""))

			var netErr *graphql.NetworkError
			if !errors.As(err, &netErr) {
				t.Fatalf("error = %v, want *graphql.NetworkError", err)
			}
			if netErr.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", netErr.StatusCode, tt.wantStatus)
			}
			if tt.wantClass != "" {
				var reqErr *RequestError
				if !errors.As(err, &reqErr) || reqErr.ErrorClass != tt.wantClass {
					t.Errorf("error = %v, want class %q", err, tt.wantClass)
				}
			}
			if tt.wantCode != 0 {
				var transportErr *graphql.TransportError
				if !errors.As(err, &transportErr) || transportErr.Code != tt.wantCode {
					t.Errorf("error = %v, want code %d", err, tt.wantCode)
				}
			}
			if pagination.IsCancelled(err) {
				t.Error("failure should not be classified as cancellation")
			}
		})
	}
}

func TestClient_Do_Cancelled(t *testing.T) {
	mock := testutil.NewMockGraphQL(1)
	defer mock.Close()
	mock.Enqueue(testutil.MockResponse{StatusCode: http.StatusOK, Body: `{}`, Delay: 5 * time.Second})

	c := newTestClient(t, mock, nil)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	_, err := c.Do(ctx, itemsRequest(""))
	if err == nil {
		t.Fatal("expected error for cancelled request")
	}
	if !pagination.IsCancelled(err) {
		t.Errorf("IsCancelled(%v) = false, want true", err)
	}
	var transportErr *graphql.TransportError
	if !errors.As(err, &transportErr) || transportErr.Code != graphql.CodeCancelled {
		t.Errorf("error = %v, want CodeCancelled", err)
	}
}

func TestWatch_CacheAndNetwork(t *testing.T) {
	mock := testutil.NewMockGraphQL(4)
	defer mock.Close()

	c := newTestClient(t, mock, cache.NewManager(nil))
	ctx := context.Background()
	req := itemsRequest("")

	// First watch: nothing cached, only the network result.
	var sources []graphql.Source
	for result := range Watch[testutil.ItemsData](ctx, c, req) {
		if result.Err != nil {
			t.Fatalf("Watch() error = %v", result.Err)
		}
		sources = append(sources, result.Response.Source)
	}
	if len(sources) != 1 || sources[0] != graphql.SourceNetwork {
		t.Fatalf("sources = %v, want [network]", sources)
	}

	// Second watch: cached result first, then network.
	sources = nil
	for result := range (Watcher[testutil.ItemsData]{Client: c}).Watch(ctx, req) {
		if result.Err != nil {
			t.Fatalf("Watch() error = %v", result.Err)
		}
		if len(result.Response.Data.Items.Edges) != 2 {
			t.Errorf("edges = %d, want 2", len(result.Response.Data.Items.Edges))
		}
		sources = append(sources, result.Response.Source)
	}
	if len(sources) != 2 || sources[0] != graphql.SourceCache || sources[1] != graphql.SourceNetwork {
		t.Errorf("sources = %v, want [cache network]", sources)
	}
	if mock.GetRequestCount() != 2 {
		t.Errorf("RequestCount = %d, want 2", mock.GetRequestCount())
	}
}

func TestWatch_ErrorResponsesAreNotCached(t *testing.T) {
	mock := testutil.NewMockGraphQL(2)
	defer mock.Close()
	mock.Enqueue(testutil.MockResponse{
		StatusCode: http.StatusOK,
		Body:       `{"data":{"items":null},"errors":[{"message":"partial"}]}`,
	})

	manager := cache.NewManager(nil)
	c := newTestClient(t, mock, manager)
	req := itemsRequest("")

	for result := range Watch[testutil.ItemsData](context.Background(), c, req) {
		if result.Err != nil {
			t.Fatalf("Watch() error = %v", result.Err)
		}
		if len(result.Response.Errors) != 1 {
			t.Errorf("Errors = %v, want 1 error", result.Response.Errors)
		}
	}

	if _, err := manager.Get(context.Background(), cache.KeyFor(req)); !errors.Is(err, cache.ErrCacheMiss) {
		t.Errorf("cache Get() error = %v, want ErrCacheMiss", err)
	}
}

func TestWatch_NetworkFailure(t *testing.T) {
	mock := testutil.NewMockGraphQL(1)
	defer mock.Close()
	mock.Enqueue(testutil.MockResponse{StatusCode: http.StatusInternalServerError, Body: `oops`})

	c := newTestClient(t, mock, nil)

	var results []pagination.Result[testutil.ItemsData]
	for result := range Watch[testutil.ItemsData](context.Background(), c, itemsRequest("")) {
		results = append(results, result)
	}

	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if results[0].Err == nil || results[0].Response != nil {
		t.Errorf("result = %+v, want failure only", results[0])
	}
}

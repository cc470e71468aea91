// Package client provides an HTTP GraphQL client that feeds page results
// to the pagination core, answering from the response cache first when one
// is configured.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Sternrassler/relay-pagination/pkg/cache"
	"github.com/Sternrassler/relay-pagination/pkg/graphql"
	"github.com/Sternrassler/relay-pagination/pkg/pagination"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for GraphQL client operations.
var (
	graphqlRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "graphql_requests_total",
		Help: "Total GraphQL requests by operation and status",
	}, []string{"operation", "status"})

	graphqlRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "graphql_request_duration_seconds",
		Help:    "GraphQL request duration in seconds by operation",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10},
	}, []string{"operation"})

	graphqlErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "graphql_errors_total",
		Help: "Total GraphQL request failures by class",
	}, []string{"class"})
)

// maxErrorBody limits how much of a failed response body is kept.
const maxErrorBody = 4096

// Client executes GraphQL requests over HTTP.
type Client struct {
	httpClient *http.Client
	cache      *cache.Manager
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// Endpoint is the GraphQL HTTP endpoint (REQUIRED)
	Endpoint string

	// User-Agent header (REQUIRED)
	// Format: "AppName/Version (contact@example.com)"
	UserAgent string

	// Headers are added to every request (e.g. Authorization)
	Headers map[string]string

	// Cache stores responses for cache-and-network watches (optional)
	Cache *cache.Manager

	// Timeout bounds a single HTTP round trip
	Timeout time.Duration
}

// DefaultConfig returns a default configuration without a cache.
func DefaultConfig(endpoint, userAgent string) Config {
	return Config{
		Endpoint:  endpoint,
		UserAgent: userAgent,
		Timeout:   30 * time.Second,
	}
}

// New creates a new GraphQL client.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}

	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		cache:  cfg.Cache,
		config: cfg,
		logger: log.With().Str("component", "graphql-client").Logger(),
	}, nil
}

// Do sends req and returns the undecoded response envelope.
//
// Failures are returned as *graphql.NetworkError. A request cancelled through
// ctx carries a *graphql.TransportError with graphql.CodeCancelled.
func (c *Client) Do(ctx context.Context, req graphql.Request) (*graphql.RawResponse, error) {
	operation := operationLabel(req)

	startTime := time.Now()
	defer func() {
		graphqlRequestDuration.WithLabelValues(operation).Observe(time.Since(startTime).Seconds())
	}()

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("User-Agent", c.config.UserAgent)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	for key, value := range c.config.Headers {
		httpReq.Header.Set(key, value)
	}

	c.logger.Debug().
		Str("operation", operation).
		Interface("variables", req.Variables).
		Msg("Executing GraphQL request")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		errClass, code := classifyTransportError(ctx, err)
		graphqlErrorsTotal.WithLabelValues(string(errClass)).Inc()
		graphqlRequestsTotal.WithLabelValues(operation, string(errClass)).Inc()

		logEvent := c.logger.Warn()
		if errClass == ErrorClassCancelled {
			logEvent = c.logger.Debug()
		}
		logEvent.Err(err).Str("operation", operation).Msg("GraphQL request failed")

		return nil, &graphql.NetworkError{
			Err: &graphql.TransportError{Code: code, Message: string(errClass), Err: err},
		}
	}
	defer resp.Body.Close()

	status := strconv.Itoa(resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		errClass, code := classifyTransportError(ctx, err)
		graphqlErrorsTotal.WithLabelValues(string(errClass)).Inc()
		graphqlRequestsTotal.WithLabelValues(operation, status).Inc()
		return nil, &graphql.NetworkError{
			StatusCode: resp.StatusCode,
			Err:        &graphql.TransportError{Code: code, Message: "read body", Err: err},
		}
	}
	graphqlRequestsTotal.WithLabelValues(operation, status).Inc()

	if resp.StatusCode >= 400 {
		errClass := classifyStatus(resp.StatusCode)
		graphqlErrorsTotal.WithLabelValues(string(errClass)).Inc()

		c.logger.Warn().
			Str("operation", operation).
			Int("status", resp.StatusCode).
			Str("error_class", string(errClass)).
			Msg("GraphQL request error")

		return nil, &graphql.NetworkError{
			StatusCode: resp.StatusCode,
			Body:       truncate(data, maxErrorBody),
			Err: &RequestError{
				StatusCode: resp.StatusCode,
				ErrorClass: errClass,
				Message:    resp.Status,
			},
		}
	}

	var raw graphql.RawResponse
	if err := json.Unmarshal(data, &raw); err != nil {
		graphqlErrorsTotal.WithLabelValues(string(ErrorClassDecode)).Inc()
		return nil, &graphql.NetworkError{
			StatusCode: resp.StatusCode,
			Body:       truncate(data, maxErrorBody),
			Err:        &graphql.TransportError{Code: graphql.CodeBadResponse, Message: "decode response", Err: err},
		}
	}

	if len(raw.Errors) > 0 {
		c.logger.Info().
			Str("operation", operation).
			Int("errors", len(raw.Errors)).
			Bool("has_data", raw.HasData()).
			Msg("GraphQL response carried errors")
	}

	return &raw, nil
}

// Execute sends req over the network, decodes the data into D and stores
// the response in the cache.
func Execute[D any](ctx context.Context, c *Client, req graphql.Request) (*graphql.Response[D], error) {
	raw, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := graphql.Decode[D](raw, graphql.SourceNetwork)
	if err != nil {
		return nil, err
	}
	c.store(ctx, req, raw)
	return resp, nil
}

// Watch fetches req with a cache-and-network policy. The returned channel
// yields the cached response (if any) followed by the network response or
// failure, then closes.
func Watch[D any](ctx context.Context, c *Client, req graphql.Request) <-chan pagination.Result[D] {
	results := make(chan pagination.Result[D], 2)

	go func() {
		defer close(results)

		if cached, ok := c.lookup(ctx, req); ok {
			resp, err := graphql.Decode[D](cached, graphql.SourceCache)
			if err != nil {
				c.logger.Warn().Err(err).Str("operation", operationLabel(req)).Msg("Discarding undecodable cache entry")
			} else {
				results <- pagination.Result[D]{Response: resp}
			}
		}

		resp, err := Execute[D](ctx, c, req)
		results <- pagination.Result[D]{Response: resp, Err: err}
	}()

	return results
}

// Watcher adapts a Client to a watch source for data type D.
type Watcher[D any] struct {
	Client *Client
}

// Watch implements pager.Watcher.
func (w Watcher[D]) Watch(ctx context.Context, req graphql.Request) <-chan pagination.Result[D] {
	return Watch[D](ctx, w.Client, req)
}

// lookup returns the cached response for req.
func (c *Client) lookup(ctx context.Context, req graphql.Request) (*graphql.RawResponse, bool) {
	if c.cache == nil {
		return nil, false
	}

	entry, err := c.cache.Get(ctx, cache.KeyFor(req))
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			c.logger.Warn().Err(err).Str("operation", operationLabel(req)).Msg("Cache get error")
		}
		return nil, false
	}

	c.logger.Debug().Str("operation", operationLabel(req)).Msg("Cache hit")
	return entry.RawResponse(), true
}

// store caches responses that carry data and no errors.
func (c *Client) store(ctx context.Context, req graphql.Request, raw *graphql.RawResponse) {
	if c.cache == nil || !raw.HasData() || len(raw.Errors) > 0 {
		return
	}

	entry := cache.NewEntry(raw, c.cache.TTL())
	if err := c.cache.Set(ctx, cache.KeyFor(req), entry); err != nil {
		c.logger.Warn().Err(err).Str("operation", operationLabel(req)).Msg("Failed to cache response")
		return
	}

	c.logger.Debug().
		Str("operation", operationLabel(req)).
		Dur("ttl", entry.TTL()).
		Msg("Cached response")
}

// classifyTransportError categorizes a failed round trip.
func classifyTransportError(ctx context.Context, err error) (ErrorClass, int) {
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		return ErrorClassCancelled, graphql.CodeCancelled
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return ErrorClassNetwork, graphql.CodeTimedOut
	default:
		return ErrorClassNetwork, graphql.CodeUnknown
	}
}

func operationLabel(req graphql.Request) string {
	if req.OperationName == "" {
		return "anonymous"
	}
	return req.OperationName
}

func truncate(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// GetCache returns the cache manager (for testing).
func (c *Client) GetCache() *cache.Manager {
	return c.cache
}

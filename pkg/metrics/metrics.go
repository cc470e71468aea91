// Package metrics provides the Prometheus registry and HTTP exposition for
// relay-pagination. All metrics are defined in their respective packages
// (pagination, pager, client, cache) to maintain modularity and avoid
// circular dependencies.
//
// This package provides the /metrics handler and documentation for all
// available metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registry used by relay-pagination.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Gatherer collects the metrics registered on Registry.
var Gatherer = prometheus.DefaultGatherer

// Handler returns the HTTP handler serving Gatherer in the Prometheus
// exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// Pagination Metrics (pkg/pagination):
//   - relay_pagination_results_total{controller, outcome} (Counter): Fetch results by outcome
//     (delivered, suppressed, cancelled, failed, dropped, malformed)
//   - relay_pagination_pages{controller} (Gauge): Distinct pages known, NoPage excluded
//   - relay_pagination_resets_total{controller} (Counter): Controller resets
//
// Pager Metrics (pkg/pager):
//   - relay_pager_fetch_duration_seconds{pager} (Histogram): Duration of one page fetch,
//     cache and network results included
//
// Cache Metrics (pkg/cache):
//   - graphql_cache_hits_total{layer="memory"|"redis"} (Counter): Cache hits by layer
//   - graphql_cache_misses_total (Counter): Cache misses
//   - graphql_cache_size_bytes{layer} (Gauge): Size of the last stored entry by layer
//   - graphql_cache_errors_total{operation} (Counter): Cache operation errors
//
// Request Metrics (pkg/client):
//   - graphql_requests_total{operation, status} (Counter): Total requests by operation and HTTP status
//   - graphql_request_duration_seconds{operation} (Histogram): Request duration by operation
//   - graphql_errors_total{class} (Counter): Errors by class (client, server, network, cancelled, decode)
//
// Example Prometheus Queries:
//
//   # Suppression rate (deliveries that did not change the merged output)
//   sum(rate(relay_pagination_results_total{outcome="suppressed"}[5m])) /
//   sum(rate(relay_pagination_results_total{outcome=~"delivered|suppressed"}[5m]))
//
//   # Cache Hit Rate
//   sum(rate(graphql_cache_hits_total[5m])) /
//   (sum(rate(graphql_cache_hits_total[5m])) + sum(rate(graphql_cache_misses_total[5m])))
//
//   # Request Error Rate
//   rate(graphql_errors_total[5m])
//
//   # P95 Page Fetch Latency
//   histogram_quantile(0.95, rate(relay_pager_fetch_duration_seconds_bucket[5m]))

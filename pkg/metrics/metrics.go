// Package metrics provides the centralized Prometheus metrics registry for
// the fetch toolkit. All metrics are defined in their respective packages
// (fetch, cache) to maintain modularity and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the fetch toolkit.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/fetch):
//   - fetch_requests_total{status} (Counter): Fetch requests by status class (2xx..5xx, error)
//   - fetch_request_duration_seconds (Histogram): Fetch request duration
//   - fetch_failures_total{reason} (Counter): Failures by reason (transport, status)
//
// Batch Metrics (pkg/fetch):
//   - fetch_batches_total (Counter): Batch fetch calls
//   - fetch_batch_size_urls (Histogram): URLs per batch fetch call
//
// Cache Metrics (pkg/cache):
//   - fetch_cache_hits_total{layer="redis"} (Counter): Page cache hits by layer
//   - fetch_cache_misses_total (Counter): Page cache misses
//   - fetch_cache_size_bytes{layer="redis"} (Gauge): Bytes written to the page cache
//   - fetch_cache_errors_total{operation} (Counter): Page cache operation errors
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(fetch_cache_hits_total[5m])) /
//   (sum(rate(fetch_cache_hits_total[5m])) + sum(rate(fetch_cache_misses_total[5m])))
//
//   # Fetch Failure Rate
//   rate(fetch_failures_total[5m]) / rate(fetch_requests_total[5m])
//
//   # P95 Fetch Latency
//   histogram_quantile(0.95, rate(fetch_request_duration_seconds_bucket[5m]))
//
//   # Median Batch Size
//   histogram_quantile(0.5, rate(fetch_batch_size_urls_bucket[5m]))

package fetch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for fetch operations.
var (
	fetchRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fetch_requests_total",
		Help: "Total fetch requests by status class",
	}, []string{"status"})

	fetchRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fetch_request_duration_seconds",
		Help:    "Fetch request duration in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	})

	fetchFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fetch_failures_total",
		Help: "Total fetch failures by reason",
	}, []string{"reason"})

	fetchBatchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fetch_batches_total",
		Help: "Total batch fetch calls",
	})

	fetchBatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fetch_batch_size_urls",
		Help:    "Number of URLs per batch fetch call",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250},
	})
)

// statusClass buckets a status code into a metric label value.
func statusClass(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500 && code < 600:
		return "5xx"
	default:
		return "other"
	}
}

// Package metrics provides Prometheus metrics for plos-articles.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpstreamRequestsTotal counts calls to the articles API.
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "plos",
			Name:      "upstream_requests_total",
			Help:      "Total number of requests sent to the articles API",
		},
		[]string{"operation", "status"},
	)

	// UpstreamRequestDuration measures articles API latency.
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "plos",
			Name:      "upstream_request_duration_seconds",
			Help:      "Duration of articles API requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// ReportsTotal counts generated reports by format.
	ReportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "plos",
			Name:      "reports_total",
			Help:      "Total number of generated reports",
		},
		[]string{"format"},
	)

	// ArticlesLoaded tracks the size of the currently loaded list.
	ArticlesLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "plos",
			Name:      "articles_loaded",
			Help:      "Number of articles in the currently loaded list",
		},
	)
)

// RecordUpstream records a single articles API call.
func RecordUpstream(operation, status string, duration float64) {
	UpstreamRequestsTotal.WithLabelValues(operation, status).Inc()
	UpstreamRequestDuration.WithLabelValues(operation).Observe(duration)
}

// RecordReport records a generated report.
func RecordReport(format string) {
	ReportsTotal.WithLabelValues(format).Inc()
}

// SetArticlesLoaded sets the loaded list size.
func SetArticlesLoaded(n int) {
	ArticlesLoaded.Set(float64(n))
}

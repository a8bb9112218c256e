// Package metrics declares the service's Prometheus collectors and the
// exposition handler.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inventory_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	exportRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_export_runs_total",
			Help: "Total number of export runs by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	exportDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "inventory_export_duration_seconds",
			Help:    "Export run duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	exportedTargets = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "inventory_exported_targets",
			Help: "Number of scrape targets produced by the last export run",
		},
	)
)

// ObserveHTTPRequest records one completed HTTP request.
func ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveExportRun records one completed export invocation.
func ObserveExportRun(mode, outcome string, duration time.Duration, records int) {
	exportRunsTotal.WithLabelValues(mode, outcome).Inc()
	exportDuration.Observe(duration.Seconds())
	if outcome == "success" {
		exportedTargets.Set(float64(records))
	}
}

// Handler returns the Prometheus exposition endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

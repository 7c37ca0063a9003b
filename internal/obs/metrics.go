package obs

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outgoing HTTP metrics.
var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pm_client_requests_total",
			Help: "Total number of outgoing API requests.",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pm_client_request_duration_seconds",
			Help:    "Outgoing API request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	refreshTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pm_client_token_refresh_total",
		Help: "Token refresh attempts.",
	})

	refreshFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pm_client_token_refresh_failures_total",
		Help: "Token refresh attempts that failed.",
	})
)

// Init registers metrics with the default registry.
func Init() {
	prometheus.MustRegister(requestsTotal, requestDuration, refreshTotal, refreshFailures)
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveRequest records one completed outgoing request.
func ObserveRequest(method, path string, status int, d time.Duration) {
	code := strconv.Itoa(status)
	requestsTotal.WithLabelValues(method, path, code).Inc()
	requestDuration.WithLabelValues(method, path, code).Observe(d.Seconds())
}

// ObserveRefresh records one token refresh attempt.
func ObserveRefresh(err error) {
	refreshTotal.Inc()
	if err != nil {
		refreshFailures.Inc()
	}
}

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	inFlightRequests = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "inventory_service",
		Subsystem: "http",
		Name:      "in_flight_requests",
		Help:      "Number of HTTP requests currently being served.",
	})

	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "inventory_service",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests served, by route and status.",
	}, []string{"method", "route", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "inventory_service",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds, by route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Metrics records request counts and latencies, labelled by the chi route
// pattern rather than the raw path so ids do not explode cardinality.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inFlightRequests.Inc()
		defer inFlightRequests.Dec()

		start := time.Now()
		rec := newStatusRecorder(w)

		next.ServeHTTP(rec, r)

		labels := prometheus.Labels{
			"method": r.Method,
			"route":  routePattern(r),
			"status": strconv.Itoa(rec.status),
		}
		requestsTotal.With(labels).Inc()
		requestDuration.With(labels).Observe(time.Since(start).Seconds())
	})
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
		return rc.RoutePattern()
	}
	return "unknown"
}

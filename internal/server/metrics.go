package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "propertypulse",
		Name:      "http_requests_total",
		Help:      "Count of HTTP requests by method and status.",
	}, []string{"method", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "propertypulse",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})
)

func (s *Service) MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		httpRequestsTotal.WithLabelValues(r.Method, strconv.Itoa(rw.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method).Observe(time.Since(started).Seconds())
	})
}

// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "satwatch_http_requests_total",
		Help: "HTTP requests by method, route pattern, and status code.",
	}, []string{"method", "route", "status"})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "satwatch_http_request_duration_seconds",
		Help:    "HTTP request latency by route pattern.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	StoreOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "satwatch_store_operations_total",
		Help: "Location store operations by operation and outcome.",
	}, []string{"op", "outcome"})

	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "satwatch_location_cache_hits_total",
		Help: "List requests served from the in-process cache.",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "satwatch_location_cache_misses_total",
		Help: "List requests that had to fetch from the backend.",
	})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

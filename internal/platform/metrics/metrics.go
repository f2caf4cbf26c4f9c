package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// OperationDuration times engine and adapter operations by outcome (ok, error).
	OperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dispatch_operation_duration_seconds",
			Help:    "Duration of planning and storage operations in seconds.",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"op", "outcome"},
	)

	RouteFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "dispatch_route_fallbacks_total", Help: "Routes that kept input order after a timeout."},
	)
	RouteCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "dispatch_route_cache_lookups_total", Help: "Route cache lookups by result (hit, miss, error)."},
		[]string{"result"},
	)
	RateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "http_requests_rate_limited_total", Help: "Requests rejected by the rate limiter."},
	)
)

var regOnce sync.Once

// RegisterDefault registers the service collectors plus Go and process
// collectors on Registry. Safe to call more than once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(OperationDuration)
		Registry.MustRegister(RouteFallbacks)
		Registry.MustRegister(RouteCacheLookups)
		Registry.MustRegister(RateLimited)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// Handler serves Registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

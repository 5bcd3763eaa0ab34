package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Gateway metrics
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracklet_api_requests_total",
			Help: "Total number of remote API requests by method and status",
		},
		[]string{"method", "status"},
	)

	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tracklet_api_request_duration_seconds",
			Help:    "Remote API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// Cache metrics
	CacheRefreshesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracklet_cache_refreshes_total",
			Help: "Total number of cache refreshes by collection and outcome",
		},
		[]string{"collection", "outcome"},
	)

	CacheEntities = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tracklet_cache_entities",
			Help: "Number of cached entities by collection",
		},
		[]string{"collection"},
	)

	// Timer metrics
	TimerTicksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tracklet_timer_ticks_total",
			Help: "Total number of timer ticks while running",
		},
	)

	SessionsStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tracklet_sessions_started_total",
			Help: "Total number of tracking sessions started",
		},
	)

	SessionsStopped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tracklet_sessions_stopped_total",
			Help: "Total number of tracking sessions stopped",
		},
	)
)

func init() {
	// Register all metrics
	prometheus.MustRegister(APIRequestsTotal)
	prometheus.MustRegister(APIRequestDuration)
	prometheus.MustRegister(CacheRefreshesTotal)
	prometheus.MustRegister(CacheEntities)
	prometheus.MustRegister(TimerTicksTotal)
	prometheus.MustRegister(SessionsStarted)
	prometheus.MustRegister(SessionsStopped)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// AppMetrics holds the toolkit's metric instruments.
// Fields are public so they can be accessed from other packages.
type AppMetrics struct {
	APIRequestsTotal   *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec
	AuthRequestsTotal  *prometheus.CounterVec
	CacheLookupsTotal  *prometheus.CounterVec
	PageRenderDuration *prometheus.HistogramVec
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// Init registers the toolkit's metric instruments ONLY ONCE on the default
// registry.
func Init() *AppMetrics {
	once.Do(func() {
		appMetrics = &AppMetrics{
			APIRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "talentlink_api_requests_total",
				Help: "Total number of backend API requests completed",
			}, []string{"method", "outcome"}),
			APIRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "talentlink_api_request_duration_seconds",
				Help:    "Duration of backend API requests in seconds",
				Buckets: prometheus.DefBuckets,
			}, []string{"method"}),
			AuthRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "talentlink_auth_requests_total",
				Help: "Total number of authentication operations",
			}, []string{"operation", "outcome"}),
			CacheLookupsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "talentlink_cache_lookups_total",
				Help: "Total number of client cache lookups",
			}, []string{"cache", "result"}),
			PageRenderDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "talentlink_page_render_duration_seconds",
				Help:    "Duration of web UI page rendering in seconds",
				Buckets: prometheus.DefBuckets,
			}, []string{"page"}),
		}
	})
	return appMetrics
}

// Get returns the globally initialized AppMetrics instance, initializing it
// on first use.
func Get() *AppMetrics {
	return Init()
}

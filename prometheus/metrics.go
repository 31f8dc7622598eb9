package prometheus

import (
	"storefront-api/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Authentication metrics
	AuthAttemptsCounter prometheus.Counter
	AuthErrorsCounter   prometheus.Counter

	// Order metrics
	OrderOperationsCounter prometheus.CounterVec

	// Review metrics
	ReviewOperationsCounter prometheus.CounterVec

	// Catalog metrics
	ProductViewsCounter prometheus.CounterVec
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	// Use metric prefix from configuration
	prefix := config.Metrics.Prefix

	// HTTP request metrics
	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTP request duration
	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Authentication metrics
	AuthAttemptsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_attempts_total",
			Help: "Total number of bearer token verifications attempted",
		},
	)

	AuthErrorsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of failed bearer token verifications",
		},
	)

	// Order metrics
	OrderOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_order_operations_total",
			Help: "Total number of order operations",
		},
		[]string{"operation"},
	)

	// Review metrics
	ReviewOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_review_operations_total",
			Help: "Total number of review operations",
		},
		[]string{"operation"},
	)

	// Catalog metrics
	ProductViewsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_product_views_total",
			Help: "Total number of product detail views",
		},
		[]string{"source"},
	)
}

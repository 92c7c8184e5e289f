package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "app_marketplace",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "app_marketplace",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	purchases = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "app_marketplace",
			Subsystem: "purchases",
			Name:      "total",
			Help:      "Total number of purchase attempts by outcome.",
		},
		[]string{"outcome"},
	)

	purchaseVolume = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "app_marketplace",
			Subsystem: "purchases",
			Name:      "volume_minor_units",
			Help:      "Cumulative value of committed purchases in minor units.",
		},
	)
)

func init() {
	Registry.MustRegister(httpRequests, httpDuration, purchases, purchaseVolume)
}

// ObserveHTTP records one handled HTTP request.
func ObserveHTTP(method, path, status string, seconds float64) {
	httpRequests.WithLabelValues(method, path, status).Inc()
	httpDuration.WithLabelValues(method, path).Observe(seconds)
}

// RecordPurchase counts a purchase attempt. outcome is one of
// "committed", "insufficient_funds", "self_purchase", "not_found",
// "lock_timeout", "error".
func RecordPurchase(outcome string, amount int64) {
	purchases.WithLabelValues(outcome).Inc()
	if outcome == "committed" {
		purchaseVolume.Add(float64(amount))
	}
}

// Handler exposes the registry for GET /metrics.
func Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}

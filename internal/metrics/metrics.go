package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Quote metrics
	QuotesComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quotes_computed_total",
			Help: "Total number of price quotes computed",
		},
		[]string{"outcome"},
	)

	QuoteTotalAmount = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quote_total_rupees",
			Help:    "Grand total distribution of computed quotes",
			Buckets: []float64{100, 500, 1000, 2000, 5000, 10000, 25000, 50000},
		},
		[]string{"shipping_method"},
	)

	// Promotion metrics
	PromotionApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promotion_applied_total",
			Help: "Total number of promotions applied to quotes",
		},
		[]string{"code", "kind"},
	)

	PromotionRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promotion_rejected_total",
			Help: "Total number of promo codes rejected during quoting",
		},
		[]string{"reason"},
	)

	// Cart store metrics
	CartStoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_store_operations_total",
			Help: "Total number of cart store operations",
		},
		[]string{"operation", "status"},
	)

	// Database metrics
	DatabaseQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "database_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors",
		},
		[]string{"type", "component"},
	)
)

// RecordHTTPRequest records an HTTP request
func RecordHTTPRequest(method, endpoint, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordQuote records a computed quote and its grand total
func RecordQuote(outcome, shippingMethod string, total int64) {
	QuotesComputed.WithLabelValues(outcome).Inc()
	QuoteTotalAmount.WithLabelValues(shippingMethod).Observe(float64(total))
}

// RecordPromotionApplied records a promotion applied to a quote
func RecordPromotionApplied(code, kind string) {
	PromotionApplied.WithLabelValues(code, kind).Inc()
}

// RecordPromotionRejected records a promo code rejection
func RecordPromotionRejected(reason string) {
	PromotionRejected.WithLabelValues(reason).Inc()
}

// RecordCartStoreOperation records a cart store operation
func RecordCartStoreOperation(operation, status string) {
	CartStoreOperations.WithLabelValues(operation, status).Inc()
}

// RecordDatabaseQuery records a database query
func RecordDatabaseQuery(operation string, duration time.Duration) {
	DatabaseQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordError records an error
func RecordError(errorType, component string) {
	ErrorsTotal.WithLabelValues(errorType, component).Inc()
}

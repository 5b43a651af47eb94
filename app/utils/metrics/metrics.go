package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const defaultPrefix = "balloon_store"

var (
	once sync.Once

	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	// Admin authentication metrics
	AuthAttemptsCounter *prometheus.CounterVec

	// Catalog metrics
	CategoryOperationsCounter *prometheus.CounterVec
	ProductOperationsCounter  *prometheus.CounterVec
	BulkCategorizedProducts   *prometheus.CounterVec
	ImportRecordsCounter      *prometheus.CounterVec
	ProductViewsCounter       prometheus.Counter

	// Notification metrics
	NotificationsCounter *prometheus.CounterVec

	DbOperationDuration *prometheus.HistogramVec
)

// InitMetrics registers every collector under prefix. Only the first call has
// an effect.
func InitMetrics(prefix string) {
	once.Do(func() {
		if prefix == "" {
			prefix = defaultPrefix
		}

		HttpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		)

		HttpRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		)

		AuthAttemptsCounter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_admin_auth_attempts_total",
				Help: "Admin authentication attempts by result",
			},
			[]string{"result"},
		)

		CategoryOperationsCounter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_category_operations_total",
				Help: "Total number of category operations",
			},
			[]string{"operation"},
		)

		ProductOperationsCounter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_product_operations_total",
				Help: "Total number of product operations",
			},
			[]string{"operation"},
		)

		BulkCategorizedProducts = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_bulk_categorized_products_total",
				Help: "Products updated by bulk categorization",
			},
			[]string{"action"},
		)

		ImportRecordsCounter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_import_records_total",
				Help: "Imported product records by outcome",
			},
			[]string{"outcome"},
		)

		ProductViewsCounter = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_product_views_total",
				Help: "Total number of product detail views",
			},
		)

		NotificationsCounter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_notifications_total",
				Help: "Merchant notifications by kind and result",
			},
			[]string{"kind", "result"},
		)

		DbOperationDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_db_operation_duration_seconds",
				Help:    "Duration of database operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation_type"},
		)
	})
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	InitMetrics(defaultPrefix)
	return func(startTime time.Time) {
		DbOperationDuration.WithLabelValues(operationType).Observe(time.Since(startTime).Seconds())
	}
}

func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	InitMetrics(defaultPrefix)
	HttpRequestsTotal.WithLabelValues(method, path, status).Inc()
	HttpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func RecordAuthAttempt(result string) {
	InitMetrics(defaultPrefix)
	AuthAttemptsCounter.WithLabelValues(result).Inc()
}

// RecordCategoryOperation increments the counter for category operations
func RecordCategoryOperation(operation string) {
	InitMetrics(defaultPrefix)
	CategoryOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordProductOperation increments the counter for product operations
func RecordProductOperation(operation string) {
	InitMetrics(defaultPrefix)
	ProductOperationsCounter.WithLabelValues(operation).Inc()
}

func RecordBulkCategorization(action string, products int) {
	InitMetrics(defaultPrefix)
	BulkCategorizedProducts.WithLabelValues(action).Add(float64(products))
}

func RecordImportRecord(outcome string) {
	InitMetrics(defaultPrefix)
	ImportRecordsCounter.WithLabelValues(outcome).Inc()
}

func RecordProductView() {
	InitMetrics(defaultPrefix)
	ProductViewsCounter.Inc()
}

func RecordNotification(kind, result string) {
	InitMetrics(defaultPrefix)
	NotificationsCounter.WithLabelValues(kind, result).Inc()
}

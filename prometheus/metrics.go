package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/athmaw/ttis-tracker/pkg/config"
)

// Counter metrics
var (
	// Login counter
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tracker_login_total",
			Help: "Total number of login attempts",
		},
	)

	// Auth error counter
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracker_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // "invalid_password", "user_not_found", "invalid_token" etc.
	)

	// Sale operation counter
	SaleOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracker_sale_operations_total",
			Help: "Total number of sale operations",
		},
		[]string{"operation"}, // "create", "update", "delete"
	)

	// Sale error counter
	SaleErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracker_sale_errors_total",
			Help: "Total number of rejected sale operations",
		},
		[]string{"type"}, // "insufficient_stock", "item_not_found", "sale_not_found" etc.
	)

	// Inventory operation counter
	InventoryOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracker_inventory_operations_total",
			Help: "Total number of inventory operations",
		},
		[]string{"operation"},
	)

	// Import row counter
	ImportRowCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracker_import_rows_total",
			Help: "Total number of spreadsheet rows processed by bulk import",
		},
		[]string{"outcome"}, // "imported", "skipped", "item_created"
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracker_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tracker_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tracker_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // "query", "insert", "update", "delete"
	)
)

// Gauge metrics
var (
	// System info
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tracker_info",
			Help: "Information about the inventory tracker service",
		},
		[]string{"service", "version"},
	)
)

func init() {
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(SaleOperationCounter)
	prometheus.MustRegister(SaleErrorCounter)
	prometheus.MustRegister(InventoryOperationCounter)
	prometheus.MustRegister(ImportRowCounter)
	prometheus.MustRegister(HTTPRequestCounter)

	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)

	prometheus.MustRegister(InfoGauge)
}

// InitMetrics records static service information
func InitMetrics(cfg *config.Config) {
	InfoGauge.With(prometheus.Labels{"service": cfg.Metrics.Prefix, "version": "1.0.0"}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation measures database operation durations
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}

// RecordAuthError records an authentication error by type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordSaleError records a rejected sale operation by type
func RecordSaleError(errorType string) {
	SaleErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordSaleOperation records a completed sale operation
func RecordSaleOperation(operation string) {
	SaleOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordInventoryOperation records a completed inventory operation
func RecordInventoryOperation(operation string) {
	InventoryOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordImportRow records a processed bulk-import row by outcome
func RecordImportRow(outcome string) {
	ImportRowCounter.With(prometheus.Labels{"outcome": outcome}).Inc()
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			RequestDuration.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Observe(duration)

			HTTPRequestCounter.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Inc()

			return err
		}
	}
}

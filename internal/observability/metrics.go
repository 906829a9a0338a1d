package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all custom application metrics.
type Metrics struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Auth Metrics
	AuthFailuresTotal   *prometheus.CounterVec
	SessionsIssuedTotal prometheus.Counter

	// Record Metrics
	RecordsCreatedTotal *prometheus.CounterVec
	RecordsDeletedTotal *prometheus.CounterVec

	// Report Metrics
	ReportsRequestedTotal    *prometheus.CounterVec
	ReportsProcessedTotal    *prometheus.CounterVec
	ReportProcessingDuration *prometheus.HistogramVec
	ReportsFailedTotal       *prometheus.CounterVec

	// Cache (Redis) Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Queue (RabbitMQ) Metrics
	QueueMessagesPublished *prometheus.CounterVec
	QueueMessagesConsumed  *prometheus.CounterVec
}

// NewMetrics registers and returns all application metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		// HTTP Metrics
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),

		// Auth Metrics
		AuthFailuresTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_failures_total",
				Help: "Total number of failed authentication attempts",
			},
			[]string{"reason"}, // bad_credentials, expired_session, invalid_session
		),

		SessionsIssuedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "sessions_issued_total",
				Help: "Total number of session tokens issued",
			},
		),

		// Record Metrics
		RecordsCreatedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "records_created_total",
				Help: "Total number of records created",
			},
			[]string{"kind"}, // expense, saving
		),

		RecordsDeletedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "records_deleted_total",
				Help: "Total number of records deleted",
			},
			[]string{"kind"},
		),

		// Report Metrics
		ReportsRequestedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reports_requested_total",
				Help: "Total number of report exports requested",
			},
			[]string{"report_type"},
		),

		ReportsProcessedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reports_processed_total",
				Help: "Total number of report exports processed",
			},
			[]string{"report_type", "status"}, // status: success, failed
		),

		ReportProcessingDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "report_processing_duration_seconds",
				Help:    "Duration of report generation in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"report_type"},
		),

		ReportsFailedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reports_failed_total",
				Help: "Total number of report exports that failed",
			},
			[]string{"report_type", "error_type"},
		),

		// Cache Metrics
		CacheHitsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"key_type"},
		),

		CacheMissesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"key_type"},
		),

		// Queue Metrics
		QueueMessagesPublished: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "queue_messages_published_total",
				Help: "Total number of messages published to the queue",
			},
			[]string{"queue_name"},
		),

		QueueMessagesConsumed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "queue_messages_consumed_total",
				Help: "Total number of messages consumed from the queue",
			},
			[]string{"queue_name"},
		),
	}
}

// GlobalMetrics is the process-wide metrics instance.
var GlobalMetrics *Metrics

// InitMetrics initializes the global metrics.
func InitMetrics() {
	GlobalMetrics = NewMetrics()
}

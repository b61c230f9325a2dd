package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector provides application metrics collection
type Collector struct {
	// API Metrics
	APIRequestsTotal   *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec
	APIErrorsTotal     *prometheus.CounterVec

	// Series Metrics
	SeriesGeneratedTotal  *prometheus.CounterVec
	GenerationDuration    prometheus.Histogram
	AggregationDuration   *prometheus.HistogramVec
	ProfileFallbacksTotal prometheus.Counter

	// Validation Metrics
	ValidationOpsTotal      *prometheus.CounterVec
	ValidationRejectedTotal *prometheus.CounterVec
	AlertResolutionsTotal   *prometheus.CounterVec

	// Import Metrics
	ImportJobsTotal    *prometheus.CounterVec
	ImportJobDuration  prometheus.Histogram
	ImportRecordsTotal prometheus.Counter

	// Database Metrics
	DBQueryDuration  *prometheus.HistogramVec
	DBConnectionPool *prometheus.GaugeVec
	DBErrorsTotal    *prometheus.CounterVec

	// Audit Metrics
	AuditEventsTotal       *prometheus.CounterVec
	AuditPurgedEventsTotal prometheus.Counter
}

// NewCollector creates a new metrics collector
func NewCollector(namespace string) *Collector {
	return &Collector{
		APIRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_requests_total",
				Help:      "Total number of API requests by endpoint, method, and status",
			},
			[]string{"endpoint", "method", "status"},
		),

		APIRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "api_request_duration_seconds",
				Help:      "API request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1.0, 2.0, 5.0},
			},
			[]string{"endpoint"},
		),

		APIErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_errors_total",
				Help:      "Total number of API errors by type",
			},
			[]string{"error_type", "endpoint"},
		),

		SeriesGeneratedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "series_generated_total",
				Help:      "Total number of reading series generated by period",
			},
			[]string{"period"},
		),

		GenerationDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "series_generation_duration_seconds",
				Help:      "Duration of series generation in seconds",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.002, 0.005, 0.01, 0.05},
			},
		),

		AggregationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "series_aggregation_duration_seconds",
				Help:      "Duration of series aggregation in seconds by granularity",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.002, 0.005, 0.01, 0.05},
			},
			[]string{"granularity"},
		),

		ProfileFallbacksTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "profile_fallbacks_total",
				Help:      "Total number of unknown station/parameter lookups resolved to the default profile",
			},
		),

		ValidationOpsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_operations_total",
				Help:      "Total number of validation state transitions by action",
			},
			[]string{"action"},
		),

		ValidationRejectedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_rejected_total",
				Help:      "Total number of rejected validation operations by reason",
			},
			[]string{"reason"},
		),

		AlertResolutionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "alert_resolutions_total",
				Help:      "Total number of alert lifecycle changes by direction",
			},
			[]string{"direction"}, // "resolve", "unresolve"
		),

		ImportJobsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "import_jobs_total",
				Help:      "Total number of import jobs by terminal state",
			},
			[]string{"state"},
		),

		ImportJobDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "import_job_duration_seconds",
				Help:      "Duration of import jobs in seconds",
				Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60},
			},
		),

		ImportRecordsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "import_records_total",
				Help:      "Total number of records reported by completed import jobs",
			},
		),

		DBQueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "db_query_duration_seconds",
				Help:      "Database query duration in seconds by query type",
				Buckets:   []float64{0.001, 0.002, 0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5},
			},
			[]string{"query_type"},
		),

		DBConnectionPool: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "db_connection_pool",
				Help:      "Database connection pool statistics",
			},
			[]string{"state"}, // "in_use", "idle", "total"
		),

		DBErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "db_errors_total",
				Help:      "Total number of database errors by type",
			},
			[]string{"error_type"},
		),

		AuditEventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "audit_events_total",
				Help:      "Total number of audit journal entries by action",
			},
			[]string{"action"},
		),

		AuditPurgedEventsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "audit_purged_events_total",
				Help:      "Total number of audit journal entries removed by retention purges",
			},
		),
	}
}

// Timer provides timing functionality for operations
type Timer struct {
	start    time.Time
	observer prometheus.Observer
}

// NewTimer creates a new timer
func (c *Collector) NewTimer(histogram prometheus.Observer) *Timer {
	return &Timer{
		start:    time.Now(),
		observer: histogram,
	}
}

// ObserveDuration records the elapsed time since timer creation
func (t *Timer) ObserveDuration() time.Duration {
	duration := time.Since(t.start)
	if t.observer != nil {
		t.observer.Observe(duration.Seconds())
	}
	return duration
}

// RecordAPIRequest increments API request counter
func (c *Collector) RecordAPIRequest(endpoint, method, status string) {
	c.APIRequestsTotal.WithLabelValues(endpoint, method, status).Inc()
}

// RecordAPIError increments API error counter
func (c *Collector) RecordAPIError(errorType, endpoint string) {
	c.APIErrorsTotal.WithLabelValues(errorType, endpoint).Inc()
}

// RecordValidationOp increments the validation operation counter
func (c *Collector) RecordValidationOp(action string) {
	c.ValidationOpsTotal.WithLabelValues(action).Inc()
}

// RecordValidationRejected increments the rejected validation counter
func (c *Collector) RecordValidationRejected(reason string) {
	c.ValidationRejectedTotal.WithLabelValues(reason).Inc()
}

// RecordAlertResolution increments the alert lifecycle counter
func (c *Collector) RecordAlertResolution(direction string) {
	c.AlertResolutionsTotal.WithLabelValues(direction).Inc()
}

// RecordAuditEvent increments the audit journal counter
func (c *Collector) RecordAuditEvent(action string) {
	c.AuditEventsTotal.WithLabelValues(action).Inc()
}

// RecordDBError increments database error counter
func (c *Collector) RecordDBError(errorType string) {
	c.DBErrorsTotal.WithLabelValues(errorType).Inc()
}

// UpdateDBConnectionPool updates database connection pool metrics
func (c *Collector) UpdateDBConnectionPool(inUse, idle, total int) {
	c.DBConnectionPool.WithLabelValues("in_use").Set(float64(inUse))
	c.DBConnectionPool.WithLabelValues("idle").Set(float64(idle))
	c.DBConnectionPool.WithLabelValues("total").Set(float64(total))
}

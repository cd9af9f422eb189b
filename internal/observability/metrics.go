package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every custom metric the API and the activity worker
// export.
type Metrics struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Record Metrics
	RecordsCreatedTotal *prometheus.CounterVec
	RecordsMutatedTotal *prometheus.CounterVec

	// Cache (Redis) Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Queue (RabbitMQ) Metrics
	QueueMessagesPublished *prometheus.CounterVec
	QueueMessagesConsumed  *prometheus.CounterVec

	// Activity worker metrics
	ActivityAppendedTotal *prometheus.CounterVec
	ActivityFailedTotal   *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
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

		RecordsCreatedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "records_created_total",
				Help: "Total number of financial records created",
			},
			[]string{"kind"}, // expense, income
		),

		RecordsMutatedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "records_mutated_total",
				Help: "Total number of record updates and deletes",
			},
			[]string{"kind", "action"}, // action: updated, deleted
		),

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

		ActivityAppendedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "activity_appended_total",
				Help: "Total number of activity log entries written",
			},
			[]string{"kind", "action"},
		),

		ActivityFailedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "activity_failed_total",
				Help: "Total number of activity events that could not be processed",
			},
			[]string{"kind", "error_type"},
		),
	}
}

// GlobalMetrics is the process-wide metrics instance.
var GlobalMetrics *Metrics

func InitMetrics() {
	GlobalMetrics = NewMetrics()
}

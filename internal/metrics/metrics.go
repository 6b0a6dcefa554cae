package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of the service. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	// Engine metrics
	RecordsRead     prometheus.Histogram
	RecordsSkipped  *prometheus.CounterVec
	ComputeDuration *prometheus.HistogramVec
	SourceErrors    *prometheus.CounterVec

	// HTTP metrics
	RequestDuration *prometheus.HistogramVec

	// Sync metrics
	PublishTotal *prometheus.CounterVec
	SyncTotal    *prometheus.CounterVec
}

// New registers every collector with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RecordsRead: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fuelstats_records_read",
				Help:    "Number of records returned by the source per computation",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
		),

		RecordsSkipped: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fuelstats_records_skipped_total",
				Help: "Records left out of an aggregation because their date did not parse",
			},
			[]string{"stage"},
		),

		ComputeDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fuelstats_compute_duration_seconds",
				Help:    "Time spent fetching and aggregating records",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		SourceErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fuelstats_source_errors_total",
				Help: "Failed reads from the record source",
			},
			[]string{"operation"},
		),

		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fuelstats_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),

		PublishTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fuelstats_sync_publish_total",
				Help: "Record sync messages published, by result",
			},
			[]string{"result"},
		),

		SyncTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fuelstats_sync_records_total",
				Help: "Records mirrored to Google Sheets, by result",
			},
			[]string{"result"},
		),
	}
}

func (m *Metrics) RecordSkip(stage string) {
	if m == nil {
		return
	}
	m.RecordsSkipped.WithLabelValues(stage).Inc()
}

func (m *Metrics) ObserveCompute(operation string, records int, d time.Duration) {
	if m == nil {
		return
	}
	m.RecordsRead.Observe(float64(records))
	m.ComputeDuration.WithLabelValues(operation).Observe(d.Seconds())
}

func (m *Metrics) RecordSourceError(operation string) {
	if m == nil {
		return
	}
	m.SourceErrors.WithLabelValues(operation).Inc()
}

func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, route, statusClass(status)).Observe(d.Seconds())
}

func (m *Metrics) RecordPublish(ok bool) {
	if m == nil {
		return
	}
	m.PublishTotal.WithLabelValues(result(ok)).Inc()
}

func (m *Metrics) RecordSync(ok bool) {
	if m == nil {
		return
	}
	m.SyncTotal.WithLabelValues(result(ok)).Inc()
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "error"
}

// statusClass keeps label cardinality bounded: 2xx, 4xx, 5xx.
func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	rejected   *prometheus.CounterVec
	duplicates prometheus.Counter
	scored     *prometheus.CounterVec
	skipped    prometheus.Counter
	stored     *prometheus.CounterVec
	extErrors  *prometheus.CounterVec
	latency    *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		rejected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentipull_records_rejected_total",
				Help: "Total raw records rejected during normalization",
			},
			[]string{"kind"},
		),
		duplicates: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "sentipull_records_duplicate_total",
				Help: "Total duplicate records dropped during normalization",
			},
		),
		scored: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentipull_items_scored_total",
				Help: "Total news items scored, by label",
			},
			[]string{"label"},
		),
		skipped: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "sentipull_items_skipped_total",
				Help: "Total news items skipped after classifier batch failures",
			},
		),
		stored: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentipull_rows_stored_total",
				Help: "Total result rows written to the store",
			},
			[]string{"table"},
		),
		extErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentipull_external_errors_total",
				Help: "Total errors from external services",
			},
			[]string{"service"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sentipull_stage_duration_seconds",
				Help:    "Duration of pipeline stages in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
	}
}

// RecordRejected records raw records rejected by validation.
func (r *Recorder) RecordRejected(kind string, n int) {
	r.rejected.WithLabelValues(kind).Add(float64(n))
}

// RecordDuplicates records duplicate records dropped.
func (r *Recorder) RecordDuplicates(n int) {
	r.duplicates.Add(float64(n))
}

// RecordScored records scored items by label.
func (r *Recorder) RecordScored(label string, n int) {
	r.scored.WithLabelValues(label).Add(float64(n))
}

// RecordSkipped records items skipped after batch failures.
func (r *Recorder) RecordSkipped(n int) {
	r.skipped.Add(float64(n))
}

// RecordStored records rows written to a result table.
func (r *Recorder) RecordStored(table string, n int) {
	r.stored.WithLabelValues(table).Add(float64(n))
}

// RecordExternalError records an error from an external service.
func (r *Recorder) RecordExternalError(service string) {
	r.extErrors.WithLabelValues(service).Inc()
}

// RecordLatency records pipeline stage latency in seconds.
func (r *Recorder) RecordLatency(stage string, seconds float64) {
	r.latency.WithLabelValues(stage).Observe(seconds)
}

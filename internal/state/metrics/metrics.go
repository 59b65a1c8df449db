package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for state and history queries.
type Metrics struct {
	// Query latency by operation and object type
	QueryLatency *prometheus.HistogramVec

	// Failed queries by operation and domain error code
	QueryErrors *prometheus.CounterVec

	// Flag names read from the store that no vocabulary declares
	UnknownFlags *prometheus.CounterVec

	// Records per reconstructed timeline
	TimelineRecords *prometheus.HistogramVec
}

// New registers the state metrics with reg. A nil reg uses the default
// registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		QueryLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fred_state_query_duration_seconds",
			Help:    "Duration of state queries by operation and object type",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation", "object_type"}),

		QueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fred_state_query_errors_total",
			Help: "Total failed state queries by operation and error code",
		}, []string{"operation", "code"}),

		UnknownFlags: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fred_state_unknown_flags_total",
			Help: "State names read from the database that the object's vocabulary does not declare",
		}, []string{"object_type", "flag"}),

		TimelineRecords: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fred_state_timeline_records",
			Help:    "Number of records in reconstructed timelines",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250},
		}, []string{"object_type"}),
	}
}

// ObserveQuery records the duration of a completed query.
func (m *Metrics) ObserveQuery(operation, objectType string, d time.Duration) {
	if m != nil {
		m.QueryLatency.WithLabelValues(operation, objectType).Observe(d.Seconds())
	}
}

// IncrementError records a failed query.
func (m *Metrics) IncrementError(operation, code string) {
	if m != nil {
		m.QueryErrors.WithLabelValues(operation, code).Inc()
	}
}

// IncrementUnknownFlag records one unrecognised flag name.
func (m *Metrics) IncrementUnknownFlag(objectType, flag string) {
	if m != nil {
		m.UnknownFlags.WithLabelValues(objectType, flag).Inc()
	}
}

// ObserveTimeline records the size of a reconstructed timeline.
func (m *Metrics) ObserveTimeline(objectType string, records int) {
	if m != nil {
		m.TimelineRecords.WithLabelValues(objectType).Observe(float64(records))
	}
}

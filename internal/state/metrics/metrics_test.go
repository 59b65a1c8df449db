package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveQuery("state", "domain", 3*time.Millisecond)
	m.IncrementError("state", "not_found")
	m.IncrementUnknownFlag("domain", "mystery")
	m.IncrementUnknownFlag("domain", "mystery")
	m.ObserveTimeline("domain", 3)

	assert.Equal(t, 1, testutil.CollectAndCount(m.QueryLatency))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.QueryErrors.WithLabelValues("state", "not_found")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.UnknownFlags.WithLabelValues("domain", "mystery")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.TimelineRecords))
}

func TestNilMetricsAreInert(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveQuery("state", "domain", time.Millisecond)
		m.IncrementError("state", "internal")
		m.IncrementUnknownFlag("domain", "x")
		m.ObserveTimeline("domain", 1)
	})
}

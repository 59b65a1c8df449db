package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the HTTP metrics of the inspection API.
type Metrics struct {
	RequestLatency *prometheus.HistogramVec
}

// New creates and registers the HTTP metrics with reg. A nil reg uses the
// default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &Metrics{
		RequestLatency: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fred_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by method, route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// ObserveRequest records one served request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m != nil {
		m.RequestLatency.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
	}
}

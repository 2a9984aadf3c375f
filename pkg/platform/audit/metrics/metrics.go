package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics instruments the audit publisher.
type Metrics struct {
	QueueDepth      prometheus.Gauge
	EventsEnqueued  prometheus.Counter
	EventsDropped   prometheus.Counter
	PersistDuration prometheus.Histogram
	PersistFailures *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		QueueDepth: f.NewGauge(prometheus.GaugeOpts{
			Name: "kycdid_audit_queue_depth",
			Help: "Audit events waiting in the async buffer",
		}),
		EventsEnqueued: f.NewCounter(prometheus.CounterOpts{
			Name: "kycdid_audit_events_enqueued_total",
			Help: "Audit events accepted into the async buffer",
		}),
		EventsDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "kycdid_audit_events_dropped_total",
			Help: "Audit events dropped because the buffer was full",
		}),
		PersistDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "kycdid_audit_persist_duration_seconds",
			Help:    "Time spent appending one event to the audit store",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		PersistFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "kycdid_audit_persist_failures_total",
			Help: "Audit events the store failed to append, by action",
		}, []string{"action"}),
	}
}

func (m *Metrics) enabled() bool { return m != nil }

func (m *Metrics) Enqueued() {
	if m.enabled() {
		m.EventsEnqueued.Inc()
		m.QueueDepth.Inc()
	}
}

func (m *Metrics) Dequeued() {
	if m.enabled() {
		m.QueueDepth.Dec()
	}
}

func (m *Metrics) Dropped() {
	if m.enabled() {
		m.EventsDropped.Inc()
	}
}

// Persisted records one Append call; failed is true when it returned an error.
func (m *Metrics) Persisted(action string, seconds float64, failed bool) {
	if !m.enabled() {
		return
	}
	m.PersistDuration.Observe(seconds)
	if failed {
		m.PersistFailures.WithLabelValues(action).Inc()
	}
}

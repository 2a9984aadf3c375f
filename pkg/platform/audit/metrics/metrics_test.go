package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestQueueAccounting(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.Enqueued()
	m.Enqueued()
	m.Dequeued()
	m.Dropped()
	m.Persisted("did_registered", 0.002, true)
	m.Persisted("did_registered", 0.001, false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueueDepth))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.EventsEnqueued))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsDropped))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PersistFailures.WithLabelValues("did_registered")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.PersistDuration))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Enqueued()
		m.Dequeued()
		m.Dropped()
		m.Persisted("x", 1, true)
	})
}

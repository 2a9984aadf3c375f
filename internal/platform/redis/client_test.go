package redis

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestOpenRejectsBadURL(t *testing.T) {
	_, err := Open(context.Background(), "not-a-url", nil)
	assert.Error(t, err)
}

func TestRecordPoolStatsAddsDeltas(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := newPoolMetrics(reg)

	addDelta(m.hits, 5, 0)
	addDelta(m.hits, 7, 5)
	addDelta(m.hits, 3, 7)

	assert.Equal(t, float64(7), testutil.ToFloat64(m.hits))
}

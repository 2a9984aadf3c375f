//go:build integration

package redis

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kycdid/pkg/testutil/containers"
)

func TestOpenAndRecordPoolStats(t *testing.T) {
	ctx := context.Background()
	rc := containers.GetManager().GetRedis(t)
	reg := prometheus.NewRegistry()

	client, err := Open(ctx, rc.URL, reg)
	require.NoError(t, err)
	defer client.Close() //nolint:errcheck

	require.NoError(t, client.Check(ctx))
	require.NoError(t, client.Set(ctx, "k", "v", 0).Err())
	client.RecordPoolStats()

	assert.GreaterOrEqual(t, testutil.ToFloat64(client.metrics.totalConns), float64(1))
	assert.Equal(t, "redis", client.Name())
}

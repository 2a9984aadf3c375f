//go:build integration

package kafka_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"kycdid/internal/platform/kafka/producer"
	audit "kycdid/pkg/platform/audit"
	"kycdid/pkg/platform/audit/publisher"
	"kycdid/pkg/platform/audit/store/kafka"
	"kycdid/pkg/testutil/containers"
)

func TestPublisherDeliversToKafka(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()
	kc := containers.GetManager().GetKafka(t)
	topic := "kyc-audit-it-" + time.Now().Format("150405.000")
	require.NoError(t, kc.CreateTopic(ctx, topic))

	prod, err := producer.New(producer.Config{Brokers: kc.Brokers, DeliveryTimeout: 10 * time.Second}, nil)
	require.NoError(t, err)
	defer prod.Close() //nolint:errcheck

	pub := publisher.NewPublisher(kafka.New(prod, topic), publisher.WithAsyncBuffer(8))
	require.NoError(t, pub.Emit(ctx, audit.Event{
		SessionID: "session-it",
		Action:    string(audit.EventStageCompleted),
		Stage:     "consents",
	}))
	pub.Close()

	record := kc.Consume(ctx, topic, 15*time.Second, func(r *kgo.Record) bool {
		return string(r.Key) == "session-it"
	})
	require.NotNil(t, record)
	var got audit.Event
	require.NoError(t, json.Unmarshal(record.Value, &got))
	assert.Equal(t, "consents", got.Stage)
	assert.False(t, got.Timestamp.IsZero())
}

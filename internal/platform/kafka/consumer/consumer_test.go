package consumer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
)

func TestNewRequiresBrokersGroupAndTopics(t *testing.T) {
	_, err := New(Config{GroupID: "g", Topics: []string{"t"}}, nil, nil)
	assert.ErrorContains(t, err, "brokers")
	_, err = New(Config{Brokers: "localhost:9092", Topics: []string{"t"}}, nil, nil)
	assert.ErrorContains(t, err, "group")
	_, err = New(Config{Brokers: "localhost:9092", GroupID: "g"}, nil, nil)
	assert.ErrorContains(t, err, "topics")
}

func TestToMessageCopiesHeaders(t *testing.T) {
	ts := time.Date(2026, time.October, 18, 10, 30, 0, 0, time.UTC)
	msg := toMessage(&kgo.Record{
		Topic:     "kyc.audit",
		Partition: 3,
		Offset:    7,
		Key:       []byte("s-1"),
		Value:     []byte(`{}`),
		Timestamp: ts,
		Headers: []kgo.RecordHeader{
			{Key: "action", Value: []byte("did_registered")},
			{Key: "event_id", Value: []byte("abc")},
		},
	})
	require.NotNil(t, msg)
	assert.Equal(t, "kyc.audit", msg.Topic)
	assert.Equal(t, int32(3), msg.Partition)
	assert.Equal(t, int64(7), msg.Offset)
	assert.Equal(t, ts, msg.Timestamp)
	assert.Equal(t, map[string]string{"action": "did_registered", "event_id": "abc"}, msg.Headers)
}

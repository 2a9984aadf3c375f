//go:build integration

package consumer_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"kycdid/internal/platform/kafka/consumer"
	"kycdid/internal/platform/kafka/producer"
	"kycdid/pkg/testutil/containers"
)

// flakyHandler fails the first attempt of every message.
type flakyHandler struct {
	mu       sync.Mutex
	attempts map[int64]int
	done     chan *consumer.Message
}

func (h *flakyHandler) Handle(_ context.Context, msg *consumer.Message) error {
	h.mu.Lock()
	h.attempts[msg.Offset]++
	n := h.attempts[msg.Offset]
	h.mu.Unlock()
	if n == 1 {
		return errors.New("transient")
	}
	h.done <- msg
	return nil
}

type ConsumerIntegrationSuite struct {
	suite.Suite
	kafka *containers.KafkaContainer
}

func TestConsumerIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(ConsumerIntegrationSuite))
}

func (s *ConsumerIntegrationSuite) SetupSuite() {
	s.kafka = containers.GetManager().GetKafka(s.T())
}

func (s *ConsumerIntegrationSuite) TestRetriesUntilHandled() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	topic := "kyc-consumer-" + time.Now().Format("150405.000")
	s.Require().NoError(s.kafka.CreateTopic(ctx, topic))

	prod, err := producer.New(producer.Config{Brokers: s.kafka.Brokers}, nil)
	s.Require().NoError(err)
	defer prod.Close() //nolint:errcheck
	s.Require().NoError(prod.Produce(ctx, &producer.Message{
		Topic:   topic,
		Key:     []byte("s-1"),
		Value:   []byte(`{"action":"kyc_stage_completed"}`),
		Headers: map[string]string{"action": "kyc_stage_completed"},
	}))

	h := &flakyHandler{attempts: map[int64]int{}, done: make(chan *consumer.Message, 1)}
	c, err := consumer.New(consumer.Config{
		Brokers:  s.kafka.Brokers,
		GroupID:  "kycdid-test-" + topic,
		Topics:   []string{topic},
		RetryMin: 10 * time.Millisecond,
		RetryMax: 50 * time.Millisecond,
	}, h, nil)
	s.Require().NoError(err)
	defer c.Close()
	s.NoError(c.Check(ctx))

	runCtx, stop := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- c.Run(runCtx) }()

	select {
	case msg := <-h.done:
		s.Equal("s-1", string(msg.Key))
		s.Equal("kyc_stage_completed", msg.Headers["action"])
	case <-ctx.Done():
		s.FailNow("message was not handled")
	}
	stop()
	s.NoError(<-errCh)
	s.Equal(2, h.attempts[0])
}

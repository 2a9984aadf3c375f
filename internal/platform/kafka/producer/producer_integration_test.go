//go:build integration

package producer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"kycdid/internal/platform/kafka/producer"
	"kycdid/pkg/testutil/containers"
)

type ProducerIntegrationSuite struct {
	suite.Suite
	kafka    *containers.KafkaContainer
	producer *producer.Producer
}

func TestProducerIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(ProducerIntegrationSuite))
}

func (s *ProducerIntegrationSuite) SetupSuite() {
	s.kafka = containers.GetManager().GetKafka(s.T())
	prod, err := producer.New(producer.Config{
		Brokers:         s.kafka.Brokers,
		Retries:         3,
		DeliveryTimeout: 10 * time.Second,
	}, nil)
	s.Require().NoError(err)
	s.producer = prod
}

func (s *ProducerIntegrationSuite) TearDownSuite() {
	if s.producer != nil {
		s.producer.Close()
	}
}

func (s *ProducerIntegrationSuite) TestProduceDeliversWithHeaders() {
	ctx := context.Background()
	topic := "kyc-audit-" + time.Now().Format("20060102150405")
	s.Require().NoError(s.kafka.CreateTopic(ctx, topic))

	s.Require().NoError(s.producer.Produce(ctx, &producer.Message{
		Topic:   topic,
		Key:     []byte("session-1"),
		Value:   []byte(`{"action":"kyc_stage_completed"}`),
		Headers: map[string]string{"action": "kyc_stage_completed"},
	}))

	record := s.kafka.Consume(ctx, topic, 10*time.Second, func(r *kgo.Record) bool {
		return string(r.Key) == "session-1"
	})
	s.Require().NotNil(record)
	s.JSONEq(`{"action":"kyc_stage_completed"}`, string(record.Value))
	s.Require().Len(record.Headers, 1)
	s.Equal("kyc_stage_completed", string(record.Headers[0].Value))
}

func (s *ProducerIntegrationSuite) TestHealthCheck() {
	s.NoError(s.producer.Check(context.Background()))
	s.Equal("kafka", s.producer.Name())
}

func (s *ProducerIntegrationSuite) TestClosedProducerRejects() {
	p, err := producer.New(producer.Config{Brokers: s.kafka.Brokers}, nil)
	s.Require().NoError(err)
	s.Require().NoError(p.Close())
	s.ErrorIs(p.Produce(context.Background(), &producer.Message{Topic: "x"}), producer.ErrClosed)
}

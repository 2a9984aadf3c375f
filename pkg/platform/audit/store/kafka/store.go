// Package kafka ships audit events to a Kafka topic. It is write-only:
// listing is served by whatever consumes the topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"kycdid/internal/platform/kafka/producer"
	dErrors "kycdid/pkg/domain-errors"
	audit "kycdid/pkg/platform/audit"
)

//go:generate mockgen -source=store.go -destination=mocks/producer_mock.go -package=mocks

// Producer is the subset of producer.Producer the sink needs.
type Producer interface {
	Produce(ctx context.Context, msg *producer.Message) error
}

type Store struct {
	producer Producer
	topic    string
}

func New(p Producer, topic string) *Store {
	return &Store{producer: p, topic: topic}
}

// HeaderEventID carries a per-event UUID so consumers can insert idempotently.
const HeaderEventID = "event_id"

// Append publishes the event keyed by session so a session's events stay ordered.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	key := event.SessionID
	if key == "" {
		key = event.Subject
	}
	return s.producer.Produce(ctx, &producer.Message{
		Topic: s.topic,
		Key:   []byte(key),
		Value: value,
		Headers: map[string]string{
			"action":      event.Action,
			HeaderEventID: uuid.NewString(),
		},
	})
}

func (s *Store) ListBySession(context.Context, string) ([]audit.Event, error) {
	return nil, dErrors.New(dErrors.CodeBadRequest, "kafka audit sink is write-only")
}

// Package consumer projects the Kafka audit stream into a queryable store.
package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"kycdid/internal/platform/kafka/consumer"
	audit "kycdid/pkg/platform/audit"
	kafkastore "kycdid/pkg/platform/audit/store/kafka"
)

// Appender is satisfied by the Postgres audit store.
type Appender interface {
	AppendWithID(ctx context.Context, eventID uuid.UUID, event audit.Event) error
}

// Handler implements consumer.Handler.
type Handler struct {
	store  Appender
	logger *slog.Logger
}

func NewHandler(store Appender, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{store: store, logger: logger}
}

// Handle stores one event. Undecodable records are logged and skipped so they
// cannot block the partition; store failures are returned for retry.
func (h *Handler) Handle(ctx context.Context, msg *consumer.Message) error {
	var event audit.Event
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		h.logger.Error("skipping undecodable audit record",
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"error", err,
		)
		return nil
	}
	if event.Action == "" {
		h.logger.Error("skipping audit record without action", "offset", msg.Offset)
		return nil
	}
	eventID := EventID(msg)
	if err := h.store.AppendWithID(ctx, eventID, event); err != nil {
		return fmt.Errorf("project audit event %s: %w", eventID, err)
	}
	return nil
}

// EventID is the producer's event_id header, or a UUID derived from the
// record position when the header is missing. Either way redelivery maps to
// the same ID.
func EventID(msg *consumer.Message) uuid.UUID {
	if raw, ok := msg.Headers[kafkastore.HeaderEventID]; ok {
		if id, err := uuid.Parse(raw); err == nil {
			return id
		}
	}
	pos := fmt.Sprintf("%s/%d/%d", msg.Topic, msg.Partition, msg.Offset)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(pos))
}

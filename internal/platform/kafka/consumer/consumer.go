// Package consumer runs a franz-go consumer group with manual commits.
package consumer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jpillora/backoff"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Message is a received record.
type Message struct {
	Topic     string
	Partition int32
	Offset    int64
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

// Handler processes one message. An error means "try again": the record is
// retried with backoff and never committed until Handle succeeds. Handlers
// drop poison messages by returning nil.
type Handler interface {
	Handle(ctx context.Context, msg *Message) error
}

type Config struct {
	Brokers  string
	GroupID  string
	Topics   []string
	RetryMin time.Duration
	RetryMax time.Duration
}

type Consumer struct {
	client  *kgo.Client
	handler Handler
	logger  *slog.Logger
	retry   backoff.Backoff
}

func New(cfg Config, handler Handler, logger *slog.Logger) (*Consumer, error) {
	if cfg.Brokers == "" {
		return nil, fmt.Errorf("kafka brokers not configured")
	}
	if cfg.GroupID == "" {
		return nil, fmt.Errorf("kafka consumer group ID not configured")
	}
	if len(cfg.Topics) == 0 {
		return nil, fmt.Errorf("kafka consumer topics not configured")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RetryMin == 0 {
		cfg.RetryMin = 100 * time.Millisecond
	}
	if cfg.RetryMax == 0 {
		cfg.RetryMax = 10 * time.Second
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(strings.Split(cfg.Brokers, ",")...),
		kgo.ConsumerGroup(cfg.GroupID),
		kgo.ConsumeTopics(cfg.Topics...),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
		kgo.DisableAutoCommit(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka consumer: %w", err)
	}
	return &Consumer{
		client:  client,
		handler: handler,
		logger:  logger,
		retry:   backoff.Backoff{Min: cfg.RetryMin, Max: cfg.RetryMax, Factor: 2},
	}, nil
}

// Run polls until ctx is cancelled, committing each batch after every record
// in it has been handled.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			return nil
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			c.logger.Error("kafka fetch failed", "topic", topic, "partition", partition, "error", err)
		})

		var handled []*kgo.Record
		iter := fetches.RecordIter()
		for !iter.Done() {
			rec := iter.Next()
			if err := c.handle(ctx, rec); err != nil {
				break
			}
			handled = append(handled, rec)
		}
		c.commit(handled)
		if ctx.Err() != nil {
			return nil
		}
	}
}

// handle retries until the handler succeeds; it only fails when ctx ends.
func (c *Consumer) handle(ctx context.Context, rec *kgo.Record) error {
	msg := toMessage(rec)
	bo := c.retry
	for {
		err := c.handler.Handle(ctx, msg)
		if err == nil {
			return nil
		}
		wait := bo.Duration()
		c.logger.Warn("kafka handler failed, retrying",
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"retry_in", wait,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

func (c *Consumer) commit(records []*kgo.Record) {
	if len(records) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := c.client.CommitRecords(ctx, records...); err != nil {
		c.logger.Error("kafka commit failed", "records", len(records), "error", err)
	}
}

func toMessage(rec *kgo.Record) *Message {
	headers := make(map[string]string, len(rec.Headers))
	for _, h := range rec.Headers {
		headers[h.Key] = string(h.Value)
	}
	return &Message{
		Topic:     rec.Topic,
		Partition: rec.Partition,
		Offset:    rec.Offset,
		Key:       rec.Key,
		Value:     rec.Value,
		Headers:   headers,
		Timestamp: rec.Timestamp,
	}
}

// Close leaves the group and releases the client.
func (c *Consumer) Close() {
	c.client.Close()
}

// Check pings the brokers. It satisfies health.Checker.
func (c *Consumer) Check(ctx context.Context) error {
	return c.client.Ping(ctx)
}

func (c *Consumer) Name() string { return "kafka-consumer" }

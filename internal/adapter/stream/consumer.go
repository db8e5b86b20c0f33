package stream

import (
	"context"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"
)

// Poller is the part of *kgo.Client the consumer needs.
type Poller interface {
	PollFetches(ctx context.Context) kgo.Fetches
	CommitRecords(ctx context.Context, rs ...*kgo.Record) error
	Close()
}

type ConsumerConfig struct {
	Brokers []string
	Topic   string
	Group   string
}

// Consumer feeds records from a Kafka topic into a Handler.
// Offsets are committed only for records the handler accepted.
type Consumer struct {
	client  Poller
	handler *Handler
	log     *zap.Logger
}

// NewKafkaClient opens a group consumer for the transfer topic.
func NewKafkaClient(cfg ConsumerConfig) (*kgo.Client, error) {
	if len(cfg.Brokers) == 0 || cfg.Topic == "" {
		return nil, errors.New("kafka brokers and topic are required")
	}
	cl, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ConsumerGroup(cfg.Group),
		kgo.ConsumeTopics(cfg.Topic),
		kgo.DisableAutoCommit(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return cl, nil
}

func NewConsumer(client Poller, handler *Handler, log *zap.Logger) *Consumer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Consumer{client: client, handler: handler, log: log}
}

// Run polls until ctx is cancelled or the client is closed.
func (c *Consumer) Run(ctx context.Context) error {
	defer c.client.Close()
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			return nil
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			c.log.Error("kafka fetch error",
				zap.String("topic", topic),
				zap.Int32("partition", partition),
				zap.Error(err))
		})

		var done []*kgo.Record
		fetches.EachRecord(func(r *kgo.Record) {
			msg := Message{Topic: r.Topic, Partition: r.Partition, Offset: r.Offset, Key: r.Key, Value: r.Value}
			if err := c.handler.Handle(ctx, msg); err != nil {
				c.log.Error("transfer event not stored",
					zap.String("topic", r.Topic),
					zap.Int64("offset", r.Offset),
					zap.Error(err))
				return
			}
			done = append(done, r)
		})
		if len(done) == 0 {
			continue
		}
		if err := c.client.CommitRecords(ctx, done...); err != nil && ctx.Err() == nil {
			c.log.Warn("kafka commit failed", zap.Int("records", len(done)), zap.Error(err))
		}
	}
}

package kafka

import (
	"context"
	"errors"
	"io"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageHandler processes a single Kafka message. A non-nil error leaves the
// message uncommitted so it is redelivered.
type MessageHandler func(ctx context.Context, msg kafkago.Message) error

// Consumer reads messages from a topic as part of a consumer group.
type Consumer struct {
	reader *kafkago.Reader
	logger *zap.Logger
}

// NewConsumer creates a Consumer for the given topic and group.
func NewConsumer(brokers []string, groupID, topic string, logger *zap.Logger) *Consumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: brokers,
		GroupID: groupID,
		Topic:   topic,
	})
	return &Consumer{reader: reader, logger: logger}
}

// Consume fetches and handles messages until the context is cancelled.
func (c *Consumer) Consume(ctx context.Context, handler MessageHandler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return ctx.Err()
			}
			return err
		}

		if err := handler(ctx, msg); err != nil {
			c.logger.Error("message handler failed",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("failed to commit offset",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}
	}
}

// Close closes the underlying reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}

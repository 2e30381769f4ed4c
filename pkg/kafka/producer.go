package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Producer publishes CloudEvents to Kafka topics.
type Producer struct {
	writer *kafkago.Writer
	logger *zap.Logger
}

// NewProducer creates a Producer connected to the given brokers.
func NewProducer(brokers []string, logger *zap.Logger) *Producer {
	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Balancer:     &kafkago.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafkago.RequireOne,
	}
	return &Producer{writer: writer, logger: logger}
}

// PublishEvent publishes a CloudEvent to the topic, keyed for partition
// ordering (events for the same key stay in order).
func (p *Producer) PublishEvent(ctx context.Context, topic, key string, event CloudEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal cloud event: %w", err)
	}

	msg := kafkago.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to %s: %w", topic, err)
	}

	p.logger.Debug("event published",
		zap.String("topic", topic),
		zap.String("type", event.Type),
		zap.String("key", key),
	)
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}

package events

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/LuxeDrive-Rentals/service-rental/pkg/kafka"
)

// PaymentRecorder is the slice of the booking service the consumer needs: it
// records payment outcomes the engine is told about.
type PaymentRecorder interface {
	RecordPaymentCompleted(ctx context.Context, evt PaymentCompletedEvent) error
	RecordPaymentFailed(ctx context.Context, evt PaymentFailedEvent) error
}

// PaymentEventConsumer listens to payment events and records the resulting
// payment status transitions against bookings.
type PaymentEventConsumer struct {
	consumer *kafka.Consumer
	recorder PaymentRecorder
	logger   *zap.Logger
}

// NewPaymentEventConsumer creates a new PaymentEventConsumer.
func NewPaymentEventConsumer(
	brokers []string,
	groupID string,
	recorder PaymentRecorder,
	logger *zap.Logger,
) *PaymentEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, TopicPaymentEvents, logger)
	return &PaymentEventConsumer{
		consumer: consumer,
		recorder: recorder,
		logger:   logger,
	}
}

// Start begins consuming payment events. This blocks until the context is cancelled.
func (c *PaymentEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *PaymentEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *PaymentEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from payment topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case PaymentCompleted:
		var evt PaymentCompletedEvent
		if err := cloudEvent.ParseData(&evt); err != nil {
			c.logger.Error("failed to parse PaymentCompletedEvent data", zap.Error(err))
			return nil
		}
		c.logger.Info("recording completed payment",
			zap.String("booking_id", evt.BookingID.String()),
			zap.String("payment_id", evt.PaymentID.String()),
		)
		return c.recorder.RecordPaymentCompleted(ctx, evt)

	case PaymentFailed:
		var evt PaymentFailedEvent
		if err := cloudEvent.ParseData(&evt); err != nil {
			c.logger.Error("failed to parse PaymentFailedEvent data", zap.Error(err))
			return nil
		}
		return c.recorder.RecordPaymentFailed(ctx, evt)

	default:
		c.logger.Debug("ignoring unhandled payment event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

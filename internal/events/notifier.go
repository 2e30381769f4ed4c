package events

import (
	"context"

	"go.uber.org/zap"

	"github.com/LuxeDrive-Rentals/service-rental/pkg/kafka"
)

const eventSource = "service-rental"

// KafkaNotifier publishes booking notifications as CloudEvents on the
// booking topic. Delivery is best-effort: failures are logged and dropped,
// never surfaced to the booking mutation that triggered them.
type KafkaNotifier struct {
	producer *kafka.Producer
	logger   *zap.Logger
}

// NewKafkaNotifier creates a KafkaNotifier on top of the shared producer.
func NewKafkaNotifier(producer *kafka.Producer, logger *zap.Logger) *KafkaNotifier {
	return &KafkaNotifier{producer: producer, logger: logger}
}

// Emit publishes one event, keyed so events for the same booking stay ordered.
func (n *KafkaNotifier) Emit(ctx context.Context, eventType, key string, payload any) {
	cloudEvent, err := kafka.NewCloudEvent(eventSource, eventType, payload)
	if err != nil {
		n.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := n.producer.PublishEvent(ctx, TopicBookingEvents, key, cloudEvent); err != nil {
		n.logger.Error("failed to publish event",
			zap.String("topic", TopicBookingEvents),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CloudEvent is the envelope all platform events travel in. It follows the
// CloudEvents 1.0 attribute names.
type CloudEvent struct {
	SpecVersion     string          `json:"specversion"`
	ID              string          `json:"id"`
	Source          string          `json:"source"`
	Type            string          `json:"type"`
	Time            time.Time       `json:"time"`
	DataContentType string          `json:"datacontenttype"`
	Data            json.RawMessage `json:"data"`
}

// NewCloudEvent wraps a payload in a CloudEvent envelope.
func NewCloudEvent(source, eventType string, data any) (CloudEvent, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return CloudEvent{}, fmt.Errorf("failed to marshal event data: %w", err)
	}

	return CloudEvent{
		SpecVersion:     "1.0",
		ID:              uuid.NewString(),
		Source:          source,
		Type:            eventType,
		Time:            time.Now().UTC(),
		DataContentType: "application/json",
		Data:            raw,
	}, nil
}

// ParseCloudEvent decodes a raw Kafka message value into a CloudEvent.
func ParseCloudEvent(value []byte) (CloudEvent, error) {
	var event CloudEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return CloudEvent{}, fmt.Errorf("failed to parse cloud event: %w", err)
	}
	return event, nil
}

// ParseData unmarshals the event payload into v.
func (e CloudEvent) ParseData(v any) error {
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("failed to parse event data: %w", err)
	}
	return nil
}

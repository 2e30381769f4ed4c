package events

import (
	"time"

	"github.com/google/uuid"
)

// Kafka topics the rental service produces to and consumes from.
const (
	TopicBookingEvents = "rental.booking.events"
	TopicPaymentEvents = "rental.payment.events"
)

// Event types carried inside CloudEvent envelopes.
const (
	BookingRequested     = "booking.requested"
	BookingStatusChanged = "booking.status_changed"
	BookingCancelled     = "booking.cancelled"

	PaymentCompleted = "payment.completed"
	PaymentFailed    = "payment.failed"
)

// BookingRequestedEvent notifies administrators that a new booking was placed.
type BookingRequestedEvent struct {
	BookingID      uuid.UUID `json:"booking_id"`
	BookingNumber  string    `json:"booking_number"`
	VehicleID      uuid.UUID `json:"vehicle_id"`
	VehicleLabel   string    `json:"vehicle_label"`
	RenterID       uuid.UUID `json:"renter_id"`
	RenterName     string    `json:"renter_name"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	TotalPriceFils int64     `json:"total_price_fils"`
	Currency       string    `json:"currency"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// BookingStatusChangedEvent notifies the renter that an administrator moved
// their booking through the lifecycle.
type BookingStatusChangedEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	RenterID      uuid.UUID `json:"renter_id"`
	OldStatus     string    `json:"old_status"`
	NewStatus     string    `json:"new_status"`
	Reason        string    `json:"reason,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// BookingCancelledEvent notifies administrators that a booking was cancelled.
type BookingCancelledEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	RenterID      uuid.UUID `json:"renter_id"`
	CancelledBy   uuid.UUID `json:"cancelled_by"`
	Reason        string    `json:"reason"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// PaymentCompletedEvent is emitted by the payment service when a capture
// succeeds. The rental service records it; it never talks to the gateway.
type PaymentCompletedEvent struct {
	PaymentID     uuid.UUID `json:"payment_id"`
	BookingID     uuid.UUID `json:"booking_id"`
	RenterID      uuid.UUID `json:"renter_id"`
	AmountFils    int64     `json:"amount_fils"`
	Currency      string    `json:"currency"`
	Method        string    `json:"method"`
	TransactionID string    `json:"transaction_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// PaymentFailedEvent is emitted by the payment service when a capture fails.
type PaymentFailedEvent struct {
	PaymentID  uuid.UUID `json:"payment_id"`
	BookingID  uuid.UUID `json:"booking_id"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}

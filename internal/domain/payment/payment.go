package payment

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/LuxeDrive-Rentals/service-rental/pkg/domain"
)

// PaymentStatus represents the state of a payment record.
type PaymentStatus string

const (
	StatusPending   PaymentStatus = "pending"
	StatusCompleted PaymentStatus = "completed"
	StatusFailed    PaymentStatus = "failed"
	StatusRefunded  PaymentStatus = "refunded"
)

// IsValid returns true if the status is a recognized payment status.
func (s PaymentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed, StatusRefunded:
		return true
	}
	return false
}

// ParsePaymentStatus converts a string to a PaymentStatus.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	status := PaymentStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid payment status: %s", s)
	}
	return status, nil
}

// Payment is the engine's local record of a payment. The gateway integration
// lives elsewhere; this record only tracks the status transitions the engine
// is told about, plus the refund bookkeeping done on cancellation.
type Payment struct {
	id            uuid.UUID
	bookingID     uuid.UUID
	renterID      uuid.UUID
	amountFils    int64
	currency      string
	method        string
	status        PaymentStatus
	transactionID string

	refundAmountFils *int64
	refundReason     string

	createdAt time.Time
	updatedAt time.Time
}

// NewPayment creates a pending payment record for a booking.
func NewPayment(bookingID, renterID uuid.UUID, amountFils int64, currency, method string) (*Payment, error) {
	if bookingID == uuid.Nil {
		return nil, domain.NewValidationError("booking ID is required")
	}
	if amountFils <= 0 {
		return nil, domain.NewValidationError("payment amount must be positive")
	}

	now := time.Now().UTC()
	return &Payment{
		id:         uuid.New(),
		bookingID:  bookingID,
		renterID:   renterID,
		amountFils: amountFils,
		currency:   currency,
		method:     method,
		status:     StatusPending,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// NewRecordedPayment creates a pending payment record under an identifier
// assigned by the payment service, so both services share the same ID.
func NewRecordedPayment(id, bookingID, renterID uuid.UUID, amountFils int64, currency, method string) *Payment {
	now := time.Now().UTC()
	return &Payment{
		id:         id,
		bookingID:  bookingID,
		renterID:   renterID,
		amountFils: amountFils,
		currency:   currency,
		method:     method,
		status:     StatusPending,
		createdAt:  now,
		updatedAt:  now,
	}
}

// ReconstructPayment rebuilds a Payment from persistence data (no validation).
func ReconstructPayment(
	id, bookingID, renterID uuid.UUID,
	amountFils int64,
	currency, method string,
	status PaymentStatus,
	transactionID string,
	refundAmountFils *int64,
	refundReason string,
	createdAt, updatedAt time.Time,
) *Payment {
	return &Payment{
		id:               id,
		bookingID:        bookingID,
		renterID:         renterID,
		amountFils:       amountFils,
		currency:         currency,
		method:           method,
		status:           status,
		transactionID:    transactionID,
		refundAmountFils: refundAmountFils,
		refundReason:     refundReason,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

// ID returns the payment's unique identifier.
func (p *Payment) ID() uuid.UUID { return p.id }

// BookingID returns the booking this payment belongs to.
func (p *Payment) BookingID() uuid.UUID { return p.bookingID }

// RenterID returns the paying renter's user ID.
func (p *Payment) RenterID() uuid.UUID { return p.renterID }

// AmountFils returns the payment amount in fils.
func (p *Payment) AmountFils() int64 { return p.amountFils }

// Currency returns the currency code.
func (p *Payment) Currency() string { return p.currency }

// Method returns the payment method reported by the gateway.
func (p *Payment) Method() string { return p.method }

// Status returns the current payment status.
func (p *Payment) Status() PaymentStatus { return p.status }

// TransactionID returns the gateway transaction reference.
func (p *Payment) TransactionID() string { return p.transactionID }

// RefundAmountFils returns the refunded amount, or nil if not refunded.
func (p *Payment) RefundAmountFils() *int64 { return p.refundAmountFils }

// RefundReason returns why the payment was refunded.
func (p *Payment) RefundReason() string { return p.refundReason }

// CreatedAt returns the creation timestamp.
func (p *Payment) CreatedAt() time.Time { return p.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (p *Payment) UpdatedAt() time.Time { return p.updatedAt }

// MarkCompleted records a successful capture reported by the gateway.
func (p *Payment) MarkCompleted(transactionID string) error {
	if p.status != StatusPending {
		return domain.NewInvalidStateError(string(p.status), string(StatusCompleted))
	}
	p.status = StatusCompleted
	p.transactionID = transactionID
	p.updatedAt = time.Now().UTC()
	return nil
}

// MarkFailed records a failed capture reported by the gateway.
func (p *Payment) MarkFailed() error {
	if p.status != StatusPending {
		return domain.NewInvalidStateError(string(p.status), string(StatusFailed))
	}
	p.status = StatusFailed
	p.updatedAt = time.Now().UTC()
	return nil
}

// MarkRefunded records a full refund of a completed payment. This is local
// bookkeeping only; no gateway call is made from here.
func (p *Payment) MarkRefunded(reason string) error {
	if p.status != StatusCompleted {
		return domain.NewInvalidStateError(string(p.status), string(StatusRefunded))
	}
	amount := p.amountFils
	p.status = StatusRefunded
	p.refundAmountFils = &amount
	p.refundReason = reason
	p.updatedAt = time.Now().UTC()
	return nil
}

package payment

import (
	"context"

	"github.com/google/uuid"
)

// PaymentRepository defines the persistence contract for payment records.
type PaymentRepository interface {
	// FindByBooking retrieves the payment linked to a booking.
	FindByBooking(ctx context.Context, bookingID uuid.UUID) (*Payment, error)

	// Save persists a new payment record.
	Save(ctx context.Context, p *Payment) error

	// Update persists changes to an existing payment record.
	Update(ctx context.Context, p *Payment) error
}

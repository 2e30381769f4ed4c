package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/LuxeDrive-Rentals/service-rental/pkg/domain"
)

const bookingNumberChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Booking is the aggregate root for a vehicle rental reservation. Status
// transitions go through the aggregate so the state machine cannot be
// bypassed; side effects on the vehicle and payment are coordinated by the
// application service.
type Booking struct {
	id            uuid.UUID
	bookingNumber string
	renterID      uuid.UUID
	vehicleID     uuid.UUID
	period        DateRange
	status        BookingStatus

	pickupLocation  string
	dropoffLocation string

	totalPriceFils int64
	currency       string

	additionalDrivers  []AdditionalDriver
	additionalServices []AdditionalService
	notes              string
	cancellationReason string

	paymentID *uuid.UUID

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// generateBookingNumber creates a booking number in the format "RB-XXXXXX".
func generateBookingNumber() (string, error) {
	result := make([]byte, 6)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(bookingNumberChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate booking number: %w", err)
		}
		result[i] = bookingNumberChars[n.Int64()]
	}
	return "RB-" + string(result), nil
}

// NewBooking creates a new Booking aggregate with status=pending.
func NewBooking(
	renterID uuid.UUID,
	vehicleID uuid.UUID,
	period DateRange,
	pickupLocation string,
	dropoffLocation string,
	drivers []AdditionalDriver,
	services []AdditionalService,
	notes string,
	totalPriceFils int64,
	currency string,
) (*Booking, error) {
	if renterID == uuid.Nil {
		return nil, domain.NewValidationError("renter ID is required")
	}
	if vehicleID == uuid.Nil {
		return nil, domain.NewValidationError("vehicle ID is required")
	}
	if pickupLocation == "" {
		return nil, domain.NewValidationError("pickup location is required")
	}
	if dropoffLocation == "" {
		return nil, domain.NewValidationError("dropoff location is required")
	}
	if totalPriceFils <= 0 {
		return nil, domain.NewValidationError("total price must be positive")
	}

	bookingNumber, err := generateBookingNumber()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Booking{
		id:                 uuid.New(),
		bookingNumber:      bookingNumber,
		renterID:           renterID,
		vehicleID:          vehicleID,
		period:             period,
		status:             StatusPending,
		pickupLocation:     pickupLocation,
		dropoffLocation:    dropoffLocation,
		totalPriceFils:     totalPriceFils,
		currency:           currency,
		additionalDrivers:  drivers,
		additionalServices: services,
		notes:              notes,
		version:            1,
		createdAt:          now,
		updatedAt:          now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id uuid.UUID,
	bookingNumber string,
	renterID uuid.UUID,
	vehicleID uuid.UUID,
	period DateRange,
	status BookingStatus,
	pickupLocation string,
	dropoffLocation string,
	totalPriceFils int64,
	currency string,
	drivers []AdditionalDriver,
	services []AdditionalService,
	notes string,
	cancellationReason string,
	paymentID *uuid.UUID,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) *Booking {
	return &Booking{
		id:                 id,
		bookingNumber:      bookingNumber,
		renterID:           renterID,
		vehicleID:          vehicleID,
		period:             period,
		status:             status,
		pickupLocation:     pickupLocation,
		dropoffLocation:    dropoffLocation,
		totalPriceFils:     totalPriceFils,
		currency:           currency,
		additionalDrivers:  drivers,
		additionalServices: services,
		notes:              notes,
		cancellationReason: cancellationReason,
		paymentID:          paymentID,
		version:            version,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// BookingNumber returns the human-readable booking number.
func (b *Booking) BookingNumber() string { return b.bookingNumber }

// RenterID returns the renter's user ID.
func (b *Booking) RenterID() uuid.UUID { return b.renterID }

// VehicleID returns the booked vehicle's ID.
func (b *Booking) VehicleID() uuid.UUID { return b.vehicleID }

// Period returns the rental date range.
func (b *Booking) Period() DateRange { return b.period }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// PickupLocation returns where the vehicle is handed over.
func (b *Booking) PickupLocation() string { return b.pickupLocation }

// DropoffLocation returns where the vehicle is returned.
func (b *Booking) DropoffLocation() string { return b.dropoffLocation }

// TotalPriceFils returns the computed total price in fils.
func (b *Booking) TotalPriceFils() int64 { return b.totalPriceFils }

// Currency returns the currency code.
func (b *Booking) Currency() string { return b.currency }

// AdditionalDrivers returns the extra drivers registered on the booking.
func (b *Booking) AdditionalDrivers() []AdditionalDriver { return b.additionalDrivers }

// AdditionalServices returns the priced add-ons on the booking.
func (b *Booking) AdditionalServices() []AdditionalService { return b.additionalServices }

// Notes returns free-form notes attached to the booking.
func (b *Booking) Notes() string { return b.notes }

// CancellationReason returns why the booking was cancelled, if it was.
func (b *Booking) CancellationReason() string { return b.cancellationReason }

// PaymentID returns the associated payment record ID, or nil.
func (b *Booking) PaymentID() *uuid.UUID { return b.paymentID }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// Confirm transitions the booking from pending to confirmed.
func (b *Booking) Confirm() error {
	if !b.status.CanTransitionTo(StatusConfirmed) {
		return domain.NewInvalidStateError(string(b.status), string(StatusConfirmed))
	}
	b.status = StatusConfirmed
	b.updatedAt = time.Now().UTC()
	return nil
}

// Activate transitions the booking from confirmed to active (vehicle handed over).
func (b *Booking) Activate() error {
	if !b.status.CanTransitionTo(StatusActive) {
		return domain.NewInvalidStateError(string(b.status), string(StatusActive))
	}
	b.status = StatusActive
	b.updatedAt = time.Now().UTC()
	return nil
}

// Complete transitions the booking from active to completed (vehicle returned).
func (b *Booking) Complete() error {
	if !b.status.CanTransitionTo(StatusCompleted) {
		return domain.NewInvalidStateError(string(b.status), string(StatusCompleted))
	}
	b.status = StatusCompleted
	b.updatedAt = time.Now().UTC()
	return nil
}

// Cancel transitions the booking to cancelled from any non-terminal state.
func (b *Booking) Cancel(reason string) error {
	if !b.status.CanBeCancelled() {
		return domain.NewInvalidStateError(string(b.status), string(StatusCancelled))
	}
	if reason == "" {
		reason = "Cancelled by user"
	}
	b.status = StatusCancelled
	b.cancellationReason = reason
	b.updatedAt = time.Now().UTC()
	return nil
}

// AmendPeriod replaces the rental dates and the recomputed total. Only
// allowed while the booking is still pending; the caller must have re-run the
// overlap check for the new period first.
func (b *Booking) AmendPeriod(period DateRange, totalPriceFils int64) error {
	if b.status != StatusPending {
		return domain.NewInvalidStateError(string(b.status), "amend dates")
	}
	if totalPriceFils <= 0 {
		return domain.NewValidationError("total price must be positive")
	}
	b.period = period
	b.totalPriceFils = totalPriceFils
	b.updatedAt = time.Now().UTC()
	return nil
}

// SetNotes replaces the booking notes. Rejected once the booking is terminal.
func (b *Booking) SetNotes(notes string) error {
	if b.status.IsTerminal() {
		return domain.NewInvalidStateError(string(b.status), "amend notes")
	}
	b.notes = notes
	b.updatedAt = time.Now().UTC()
	return nil
}

// SetAdditionalDrivers replaces the extra drivers. Rejected once terminal.
func (b *Booking) SetAdditionalDrivers(drivers []AdditionalDriver) error {
	if b.status.IsTerminal() {
		return domain.NewInvalidStateError(string(b.status), "amend drivers")
	}
	b.additionalDrivers = drivers
	b.updatedAt = time.Now().UTC()
	return nil
}

// SetLocations replaces the pickup and dropoff locations.
func (b *Booking) SetLocations(pickup, dropoff string) error {
	if b.status.IsTerminal() {
		return domain.NewInvalidStateError(string(b.status), "amend locations")
	}
	if pickup == "" || dropoff == "" {
		return domain.NewValidationError("pickup and dropoff locations are required")
	}
	b.pickupLocation = pickup
	b.dropoffLocation = dropoff
	b.updatedAt = time.Now().UTC()
	return nil
}

// AttachPayment links a payment record to the booking.
func (b *Booking) AttachPayment(paymentID uuid.UUID) {
	b.paymentID = &paymentID
	b.updatedAt = time.Now().UTC()
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}

package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Filter is the closed set of criteria a booking listing can be narrowed by.
// The storage adapter translates it to its own query language; callers never
// pass raw query fragments.
type Filter struct {
	RenterID  *uuid.UUID
	VehicleID *uuid.UUID
	Status    *BookingStatus
	StartFrom *time.Time
	StartTo   *time.Time
}

// BookingRepository defines the persistence contract for booking aggregates.
type BookingRepository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// List retrieves bookings matching the filter, newest first, with pagination.
	List(ctx context.Context, filter Filter, page, limit int) ([]*Booking, int64, error)

	// FindByVehicle retrieves every booking for a vehicle ordered by start date.
	FindByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]*Booking, error)

	// FindOverlapping retrieves the non-terminal bookings for the vehicle
	// whose period overlaps the given range. Terminal bookings never
	// conflict. When excludeID is non-nil that booking is left out of the
	// result (date-amendment flow).
	FindOverlapping(ctx context.Context, vehicleID uuid.UUID, period DateRange, excludeID *uuid.UUID) ([]*Booking, error)

	// CreateIfVacant atomically re-checks the overlap invariant and persists
	// the booking. When another non-terminal booking overlaps the period, it
	// returns a ConflictError and writes nothing: of two concurrent creates
	// for the same vehicle and overlapping dates, the first writer wins.
	CreateIfVacant(ctx context.Context, b *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, b *Booking) error

	// CountByStatus returns booking counts grouped by status.
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// RevenueFils sums totals over confirmed, active and completed bookings.
	RevenueFils(ctx context.Context) (int64, error)
}

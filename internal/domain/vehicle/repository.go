package vehicle

import (
	"context"

	"github.com/google/uuid"
)

// VehicleRegistry is the narrow contract the booking engine consumes. The
// catalog service owns the rest of the vehicle lifecycle.
type VehicleRegistry interface {
	// FindByID retrieves a vehicle by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Vehicle, error)

	// SetAvailable flips the coarse availability flag. Called by the booking
	// state machine after the corresponding booking-status write.
	SetAvailable(ctx context.Context, id uuid.UUID, available bool) error
}

package vehicle

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/LuxeDrive-Rentals/service-rental/pkg/domain"
)

// Vehicle is a fleet vehicle as seen by the booking engine. Catalog
// management owns creation and editing; the booking engine reads it and flips
// the coarse availability flag as a side effect of booking transitions.
//
// The available flag is a fast-path hint only. True availability for a date
// range is always re-derived from the overlap query, and a vehicle under
// maintenance is never bookable regardless of the flag.
type Vehicle struct {
	id            uuid.UUID
	brand         string
	model         string
	year          int
	category      string
	dailyRateFils int64
	currency      string
	available     bool
	maintenance   bool
	licensePlate  string
	odometerKm    int64
	createdAt     time.Time
	updatedAt     time.Time
}

// NewVehicle creates a validated Vehicle, available and not under maintenance.
func NewVehicle(
	brand, model string,
	year int,
	category string,
	dailyRateFils int64,
	currency string,
	licensePlate string,
) (*Vehicle, error) {
	if brand == "" || model == "" {
		return nil, domain.NewValidationError("brand and model are required")
	}
	if year < 1950 {
		return nil, domain.NewValidationError(fmt.Sprintf("implausible model year: %d", year))
	}
	if dailyRateFils <= 0 {
		return nil, domain.NewValidationError("daily rate must be positive")
	}

	now := time.Now().UTC()
	return &Vehicle{
		id:            uuid.New(),
		brand:         brand,
		model:         model,
		year:          year,
		category:      category,
		dailyRateFils: dailyRateFils,
		currency:      currency,
		available:     true,
		licensePlate:  licensePlate,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructVehicle rebuilds a Vehicle from persistence data (no validation).
func ReconstructVehicle(
	id uuid.UUID,
	brand, model string,
	year int,
	category string,
	dailyRateFils int64,
	currency string,
	available, maintenance bool,
	licensePlate string,
	odometerKm int64,
	createdAt, updatedAt time.Time,
) *Vehicle {
	return &Vehicle{
		id:            id,
		brand:         brand,
		model:         model,
		year:          year,
		category:      category,
		dailyRateFils: dailyRateFils,
		currency:      currency,
		available:     available,
		maintenance:   maintenance,
		licensePlate:  licensePlate,
		odometerKm:    odometerKm,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// ID returns the vehicle's unique identifier.
func (v *Vehicle) ID() uuid.UUID { return v.id }

// Brand returns the manufacturer name.
func (v *Vehicle) Brand() string { return v.brand }

// Model returns the model name.
func (v *Vehicle) Model() string { return v.model }

// Year returns the model year.
func (v *Vehicle) Year() int { return v.year }

// Category returns the catalog category (supercar, luxury SUV...).
func (v *Vehicle) Category() string { return v.category }

// DailyRateFils returns the daily rental rate in fils.
func (v *Vehicle) DailyRateFils() int64 { return v.dailyRateFils }

// Currency returns the currency code for the daily rate.
func (v *Vehicle) Currency() string { return v.currency }

// Available returns the coarse availability flag.
func (v *Vehicle) Available() bool { return v.available }

// Maintenance returns whether the vehicle is under maintenance.
func (v *Vehicle) Maintenance() bool { return v.maintenance }

// LicensePlate returns the registration plate.
func (v *Vehicle) LicensePlate() string { return v.licensePlate }

// OdometerKm returns the recorded odometer reading.
func (v *Vehicle) OdometerKm() int64 { return v.odometerKm }

// CreatedAt returns the creation timestamp.
func (v *Vehicle) CreatedAt() time.Time { return v.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (v *Vehicle) UpdatedAt() time.Time { return v.updatedAt }

// Label returns the display name used in notifications ("Lamborghini Huracan").
func (v *Vehicle) Label() string {
	return v.brand + " " + v.model
}

// Bookable reports whether new bookings may be created at all: the coarse
// flag must be set and the vehicle must not be under maintenance.
func (v *Vehicle) Bookable() bool {
	return v.available && !v.maintenance
}

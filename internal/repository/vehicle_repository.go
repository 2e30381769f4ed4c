package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	vehicleDomain "github.com/LuxeDrive-Rentals/service-rental/internal/domain/vehicle"
	"github.com/LuxeDrive-Rentals/service-rental/pkg/domain"
)

// VehicleModel is the GORM model for the vehicles table.
type VehicleModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Brand         string    `gorm:"not null;size:100"`
	Model         string    `gorm:"not null;size:100"`
	Year          int       `gorm:"not null"`
	Category      string    `gorm:"size:50;index"`
	DailyRateFils int64     `gorm:"not null"`
	Currency      string    `gorm:"not null;size:3;default:'AED'"`
	Available     bool      `gorm:"not null;default:true"`
	Maintenance   bool      `gorm:"not null;default:false"`
	LicensePlate  string    `gorm:"size:20"`
	OdometerKm    int64     `gorm:"not null;default:0"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (VehicleModel) TableName() string {
	return "vehicles"
}

// GormVehicleRegistry is the GORM-based implementation of VehicleRegistry.
type GormVehicleRegistry struct {
	db *gorm.DB
}

// NewGormVehicleRegistry creates a new GormVehicleRegistry.
func NewGormVehicleRegistry(db *gorm.DB) *GormVehicleRegistry {
	return &GormVehicleRegistry{db: db}
}

// FindByID retrieves a vehicle by its unique identifier.
func (r *GormVehicleRegistry) FindByID(ctx context.Context, id uuid.UUID) (*vehicleDomain.Vehicle, error) {
	var model VehicleModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Vehicle", id.String())
		}
		return nil, fmt.Errorf("failed to find vehicle by ID: %w", err)
	}
	return toDomainVehicle(&model), nil
}

// SetAvailable flips the coarse availability flag.
func (r *GormVehicleRegistry) SetAvailable(ctx context.Context, id uuid.UUID, available bool) error {
	result := r.db.WithContext(ctx).
		Model(&VehicleModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"available":  available,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update vehicle availability: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Vehicle", id.String())
	}
	return nil
}

func toDomainVehicle(m *VehicleModel) *vehicleDomain.Vehicle {
	return vehicleDomain.ReconstructVehicle(
		m.ID,
		m.Brand,
		m.Model,
		m.Year,
		m.Category,
		m.DailyRateFils,
		m.Currency,
		m.Available,
		m.Maintenance,
		m.LicensePlate,
		m.OdometerKm,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

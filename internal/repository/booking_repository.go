package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	bookingDomain "github.com/LuxeDrive-Rentals/service-rental/internal/domain/booking"
	"github.com/LuxeDrive-Rentals/service-rental/pkg/domain"
)

// pgExclusionViolation is the postgres error code raised when an insert
// violates the bookings_no_overlap exclusion constraint.
const pgExclusionViolation = "23P01"

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BookingNumber      string          `gorm:"uniqueIndex;not null;size:20"`
	RenterID           uuid.UUID       `gorm:"type:uuid;index;not null"`
	VehicleID          uuid.UUID       `gorm:"type:uuid;index;not null"`
	Status             string          `gorm:"not null;size:30;index"`
	StartDate          time.Time       `gorm:"type:date;not null;index"`
	EndDate            time.Time       `gorm:"type:date;not null"`
	PickupLocation     string          `gorm:"not null;size:255"`
	DropoffLocation    string          `gorm:"not null;size:255"`
	TotalPriceFils     int64           `gorm:"not null"`
	Currency           string          `gorm:"not null;size:3;default:'AED'"`
	AdditionalDrivers  json.RawMessage `gorm:"type:jsonb"`
	AdditionalServices json.RawMessage `gorm:"type:jsonb"`
	Notes              string          `gorm:"size:1000"`
	CancellationReason string          `gorm:"size:500"`
	PaymentID          *uuid.UUID      `gorm:"type:uuid"`
	Version            int64           `gorm:"not null;default:1"`
	CreatedAt          time.Time       `gorm:"not null"`
	UpdatedAt          time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

func nonTerminalStatusStrings() []string {
	statuses := bookingDomain.NonTerminalStatuses()
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// List retrieves bookings matching the filter, newest first, with pagination.
func (r *GormBookingRepository) List(ctx context.Context, filter bookingDomain.Filter, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&BookingModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.applyFilter(r.db.WithContext(ctx), filter).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings, err := toDomainBookings(models)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// applyFilter translates the typed filter into WHERE clauses. Only the
// enumerated fields are recognized; nothing caller-supplied reaches the query
// text.
func (r *GormBookingRepository) applyFilter(tx *gorm.DB, filter bookingDomain.Filter) *gorm.DB {
	if filter.RenterID != nil {
		tx = tx.Where("renter_id = ?", *filter.RenterID)
	}
	if filter.VehicleID != nil {
		tx = tx.Where("vehicle_id = ?", *filter.VehicleID)
	}
	if filter.Status != nil {
		tx = tx.Where("status = ?", string(*filter.Status))
	}
	if filter.StartFrom != nil {
		tx = tx.Where("start_date >= ?", *filter.StartFrom)
	}
	if filter.StartTo != nil {
		tx = tx.Where("start_date <= ?", *filter.StartTo)
	}
	return tx
}

// FindByVehicle retrieves every booking for a vehicle ordered by start date.
func (r *GormBookingRepository) FindByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("start_date ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find vehicle bookings: %w", err)
	}
	return toDomainBookings(models)
}

// FindOverlapping retrieves non-terminal bookings for the vehicle whose
// inclusive date range intersects the given period.
func (r *GormBookingRepository) FindOverlapping(ctx context.Context, vehicleID uuid.UUID, period bookingDomain.DateRange, excludeID *uuid.UUID) ([]*bookingDomain.Booking, error) {
	query := r.db.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Where("status IN ?", nonTerminalStatusStrings()).
		Where("start_date <= ? AND end_date >= ?", period.End, period.Start)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var models []BookingModel
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to query overlapping bookings: %w", err)
	}
	return toDomainBookings(models)
}

// CreateIfVacant persists a new booking after re-checking the overlap
// invariant inside one transaction. The vehicle row is locked for the
// duration so concurrent creates for the same vehicle serialize here: the
// first writer wins, the second sees the fresh row and gets a ConflictError.
// The bookings_no_overlap exclusion constraint backs this up at the schema
// level.
func (r *GormBookingRepository) CreateIfVacant(ctx context.Context, b *bookingDomain.Booking) error {
	model, err := toBookingModel(b)
	if err != nil {
		return fmt.Errorf("failed to convert booking to model: %w", err)
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var veh VehicleModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", model.VehicleID).
			First(&veh).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NewNotFoundError("Vehicle", model.VehicleID.String())
			}
			return fmt.Errorf("failed to lock vehicle row: %w", err)
		}

		var count int64
		if err := tx.Model(&BookingModel{}).
			Where("vehicle_id = ?", model.VehicleID).
			Where("status IN ?", nonTerminalStatusStrings()).
			Where("start_date <= ? AND end_date >= ?", model.EndDate, model.StartDate).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check booking conflicts: %w", err)
		}
		if count > 0 {
			return domain.NewConflictError("vehicle is already booked for the selected dates")
		}

		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to save booking: %w", err)
		}
		return nil
	})

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation {
		return domain.NewConflictError("vehicle is already booked for the selected dates")
	}
	return err
}

// Update persists changes to an existing booking with optimistic locking.
func (r *GormBookingRepository) Update(ctx context.Context, b *bookingDomain.Booking) error {
	model, err := toBookingModel(b)
	if err != nil {
		return fmt.Errorf("failed to convert booking to model: %w", err)
	}

	expectedVersion := b.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":              model.Status,
			"start_date":          model.StartDate,
			"end_date":            model.EndDate,
			"pickup_location":     model.PickupLocation,
			"dropoff_location":    model.DropoffLocation,
			"total_price_fils":    model.TotalPriceFils,
			"currency":            model.Currency,
			"additional_drivers":  model.AdditionalDrivers,
			"additional_services": model.AdditionalServices,
			"notes":               model.Notes,
			"cancellation_reason": model.CancellationReason,
			"payment_id":          model.PaymentID,
			"version":             model.Version,
			"updated_at":          model.UpdatedAt,
		})

	if result.Error != nil {
		var pgErr *pgconn.PgError
		if errors.As(result.Error, &pgErr) && pgErr.Code == pgExclusionViolation {
			return domain.NewConflictError("vehicle is already booked for the selected dates")
		}
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}
	return nil
}

// CountByStatus returns booking counts grouped by status.
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// RevenueFils sums totals over confirmed, active and completed bookings.
func (r *GormBookingRepository) RevenueFils(ctx context.Context) (int64, error) {
	var revenue int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("COALESCE(SUM(total_price_fils), 0)").
		Where("status IN ?", []string{
			string(bookingDomain.StatusConfirmed),
			string(bookingDomain.StatusActive),
			string(bookingDomain.StatusCompleted),
		}).
		Scan(&revenue).Error; err != nil {
		return 0, fmt.Errorf("failed to sum revenue: %w", err)
	}
	return revenue, nil
}

// --- Conversion Helpers ---

func toBookingModel(b *bookingDomain.Booking) (*BookingModel, error) {
	driversJSON, err := json.Marshal(b.AdditionalDrivers())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal additional drivers: %w", err)
	}
	servicesJSON, err := json.Marshal(b.AdditionalServices())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal additional services: %w", err)
	}

	return &BookingModel{
		ID:                 b.ID(),
		BookingNumber:      b.BookingNumber(),
		RenterID:           b.RenterID(),
		VehicleID:          b.VehicleID(),
		Status:             string(b.Status()),
		StartDate:          b.Period().Start,
		EndDate:            b.Period().End,
		PickupLocation:     b.PickupLocation(),
		DropoffLocation:    b.DropoffLocation(),
		TotalPriceFils:     b.TotalPriceFils(),
		Currency:           b.Currency(),
		AdditionalDrivers:  driversJSON,
		AdditionalServices: servicesJSON,
		Notes:              b.Notes(),
		CancellationReason: b.CancellationReason(),
		PaymentID:          b.PaymentID(),
		Version:            b.Version(),
		CreatedAt:          b.CreatedAt(),
		UpdatedAt:          b.UpdatedAt(),
	}, nil
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	var drivers []bookingDomain.AdditionalDriver
	if len(m.AdditionalDrivers) > 0 {
		if err := json.Unmarshal(m.AdditionalDrivers, &drivers); err != nil {
			return nil, fmt.Errorf("failed to unmarshal additional drivers: %w", err)
		}
	}

	var services []bookingDomain.AdditionalService
	if len(m.AdditionalServices) > 0 {
		if err := json.Unmarshal(m.AdditionalServices, &services); err != nil {
			return nil, fmt.Errorf("failed to unmarshal additional services: %w", err)
		}
	}

	status, err := bookingDomain.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, err
	}

	period := bookingDomain.DateRange{
		Start: bookingDomain.Day(m.StartDate),
		End:   bookingDomain.Day(m.EndDate),
	}

	return bookingDomain.ReconstructBooking(
		m.ID,
		m.BookingNumber,
		m.RenterID,
		m.VehicleID,
		period,
		status,
		m.PickupLocation,
		m.DropoffLocation,
		m.TotalPriceFils,
		m.Currency,
		drivers,
		services,
		m.Notes,
		m.CancellationReason,
		m.PaymentID,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainBookings(models []BookingModel) ([]*bookingDomain.Booking, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		b, err := toDomainBooking(&models[i])
		if err != nil {
			return nil, err
		}
		bookings[i] = b
	}
	return bookings, nil
}

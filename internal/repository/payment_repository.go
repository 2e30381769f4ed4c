package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	paymentDomain "github.com/LuxeDrive-Rentals/service-rental/internal/domain/payment"
	"github.com/LuxeDrive-Rentals/service-rental/pkg/domain"
)

// PaymentModel is the GORM model for the payments table.
type PaymentModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	BookingID        uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	RenterID         uuid.UUID `gorm:"type:uuid;index;not null"`
	AmountFils       int64     `gorm:"not null"`
	Currency         string    `gorm:"not null;size:3;default:'AED'"`
	Method           string    `gorm:"size:30"`
	Status           string    `gorm:"not null;size:20;index"`
	TransactionID    string    `gorm:"size:100"`
	RefundAmountFils *int64    `gorm:""`
	RefundReason     string    `gorm:"size:500"`
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (PaymentModel) TableName() string {
	return "payments"
}

// GormPaymentRepository is the GORM-based implementation of PaymentRepository.
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository.
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByBooking retrieves the payment linked to a booking.
func (r *GormPaymentRepository) FindByBooking(ctx context.Context, bookingID uuid.UUID) (*paymentDomain.Payment, error) {
	var model PaymentModel
	if err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Payment", bookingID.String())
		}
		return nil, fmt.Errorf("failed to find payment by booking: %w", err)
	}
	return toDomainPayment(&model)
}

// Save persists a new payment record.
func (r *GormPaymentRepository) Save(ctx context.Context, p *paymentDomain.Payment) error {
	if err := r.db.WithContext(ctx).Create(toPaymentModel(p)).Error; err != nil {
		return fmt.Errorf("failed to save payment: %w", err)
	}
	return nil
}

// Update persists changes to an existing payment record.
func (r *GormPaymentRepository) Update(ctx context.Context, p *paymentDomain.Payment) error {
	model := toPaymentModel(p)
	result := r.db.WithContext(ctx).
		Model(&PaymentModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"status":             model.Status,
			"transaction_id":     model.TransactionID,
			"refund_amount_fils": model.RefundAmountFils,
			"refund_reason":      model.RefundReason,
			"updated_at":         model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update payment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Payment", model.ID.String())
	}
	return nil
}

func toPaymentModel(p *paymentDomain.Payment) *PaymentModel {
	return &PaymentModel{
		ID:               p.ID(),
		BookingID:        p.BookingID(),
		RenterID:         p.RenterID(),
		AmountFils:       p.AmountFils(),
		Currency:         p.Currency(),
		Method:           p.Method(),
		Status:           string(p.Status()),
		TransactionID:    p.TransactionID(),
		RefundAmountFils: p.RefundAmountFils(),
		RefundReason:     p.RefundReason(),
		CreatedAt:        p.CreatedAt(),
		UpdatedAt:        p.UpdatedAt(),
	}
}

func toDomainPayment(m *PaymentModel) (*paymentDomain.Payment, error) {
	status, err := paymentDomain.ParsePaymentStatus(m.Status)
	if err != nil {
		return nil, err
	}
	return paymentDomain.ReconstructPayment(
		m.ID,
		m.BookingID,
		m.RenterID,
		m.AmountFils,
		m.Currency,
		m.Method,
		status,
		m.TransactionID,
		m.RefundAmountFils,
		m.RefundReason,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

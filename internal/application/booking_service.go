package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/LuxeDrive-Rentals/service-rental/internal/domain/booking"
	paymentDomain "github.com/LuxeDrive-Rentals/service-rental/internal/domain/payment"
	vehicleDomain "github.com/LuxeDrive-Rentals/service-rental/internal/domain/vehicle"
	"github.com/LuxeDrive-Rentals/service-rental/internal/events"
	"github.com/LuxeDrive-Rentals/service-rental/pkg/auth"
	"github.com/LuxeDrive-Rentals/service-rental/pkg/domain"
)

// confirmLockWindow is how close to the rental start a confirmation must be
// before the coarse vehicle flag is dropped immediately. Outside the window
// the vehicle stays flagged available for other non-overlapping rentals;
// per-date correctness always comes from the overlap query.
const confirmLockWindow = 24 * time.Hour

// Actor identifies the authenticated caller of a booking operation.
type Actor struct {
	ID   uuid.UUID
	Name string
	Role string
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == auth.RoleAdmin
}

// Notifier dispatches fire-and-forget booking notifications. Implementations
// must never fail the mutation that triggered the event; delivery errors are
// theirs to log and swallow.
type Notifier interface {
	Emit(ctx context.Context, eventType, key string, payload any)
}

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	VehicleID          uuid.UUID
	StartDate          time.Time
	EndDate            time.Time
	PickupLocation     string
	DropoffLocation    string
	AdditionalDrivers  []bookingDomain.AdditionalDriver
	AdditionalServices []bookingDomain.AdditionalService
	Notes              string
}

// UpdateBookingRequest carries a partial booking update. Nil fields are left
// untouched. Which fields an actor may set depends on their role.
type UpdateBookingRequest struct {
	Status             *string
	StartDate          *time.Time
	EndDate            *time.Time
	PickupLocation     *string
	DropoffLocation    *string
	Notes              *string
	AdditionalDrivers  *[]bookingDomain.AdditionalDriver
	CancellationReason *string
}

// ListBookingsQuery narrows and paginates a booking listing.
type ListBookingsQuery struct {
	RenterID  *uuid.UUID
	VehicleID *uuid.UUID
	Status    *string
	From      *time.Time
	To        *time.Time
	Page      int
	Limit     int
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID                 uuid.UUID                          `json:"id"`
	BookingNumber      string                             `json:"booking_number"`
	RenterID           uuid.UUID                          `json:"renter_id"`
	VehicleID          uuid.UUID                          `json:"vehicle_id"`
	Status             string                             `json:"status"`
	StartDate          time.Time                          `json:"start_date"`
	EndDate            time.Time                          `json:"end_date"`
	PickupLocation     string                             `json:"pickup_location"`
	DropoffLocation    string                             `json:"dropoff_location"`
	TotalPriceFils     int64                              `json:"total_price_fils"`
	Currency           string                             `json:"currency"`
	AdditionalDrivers  []bookingDomain.AdditionalDriver   `json:"additional_drivers,omitempty"`
	AdditionalServices []bookingDomain.AdditionalService  `json:"additional_services,omitempty"`
	Notes              string                             `json:"notes,omitempty"`
	CancellationReason string                             `json:"cancellation_reason,omitempty"`
	PaymentID          *uuid.UUID                         `json:"payment_id,omitempty"`
	Version            int64                              `json:"version"`
	CreatedAt          time.Time                          `json:"created_at"`
	UpdatedAt          time.Time                          `json:"updated_at"`
}

// VehicleSummaryDTO is the embedded vehicle view on a booking detail.
type VehicleSummaryDTO struct {
	ID            uuid.UUID `json:"id"`
	Brand         string    `json:"brand"`
	Model         string    `json:"model"`
	Year          int       `json:"year"`
	Category      string    `json:"category"`
	DailyRateFils int64     `json:"daily_rate_fils"`
	Currency      string    `json:"currency"`
}

// PaymentSummaryDTO is the embedded payment view on a booking detail.
type PaymentSummaryDTO struct {
	ID               uuid.UUID `json:"id"`
	AmountFils       int64     `json:"amount_fils"`
	Currency         string    `json:"currency"`
	Method           string    `json:"method,omitempty"`
	Status           string    `json:"status"`
	TransactionID    string    `json:"transaction_id,omitempty"`
	RefundAmountFils *int64    `json:"refund_amount_fils,omitempty"`
}

// BookingDetailDTO is a booking with its vehicle and payment summaries.
type BookingDetailDTO struct {
	BookingDTO
	Vehicle *VehicleSummaryDTO `json:"vehicle,omitempty"`
	Payment *PaymentSummaryDTO `json:"payment,omitempty"`
}

// AvailabilityDTO answers an availability query.
type AvailabilityDTO struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// CalendarDayDTO is one day in a vehicle's month calendar.
type CalendarDayDTO struct {
	Date      string `json:"date"`
	Available bool   `json:"available"`
}

// CalendarDTO is a vehicle's day-by-day availability for one month.
type CalendarDTO struct {
	VehicleID uuid.UUID        `json:"vehicle_id"`
	Year      int              `json:"year"`
	Month     int              `json:"month"`
	Days      []CalendarDayDTO `json:"days"`
}

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings    int64            `json:"total_bookings"`
	ByStatus         map[string]int64 `json:"by_status"`
	TotalRevenueFils int64            `json:"total_revenue_fils"`
}

// BookingService orchestrates the booking lifecycle: validation, conflict
// detection, pricing, status transitions and their side effects on the
// vehicle registry and payment records.
type BookingService struct {
	bookings bookingDomain.BookingRepository
	vehicles vehicleDomain.VehicleRegistry
	payments paymentDomain.PaymentRepository
	pricing  bookingDomain.PricingStrategy
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookings bookingDomain.BookingRepository,
	vehicles vehicleDomain.VehicleRegistry,
	payments paymentDomain.PaymentRepository,
	pricing bookingDomain.PricingStrategy,
	notifier Notifier,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		vehicles: vehicles,
		payments: payments,
		pricing:  pricing,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateBooking validates the request, prices the rental and persists a
// pending booking. The overlap invariant is enforced atomically by the
// repository; of two racing requests only the first writer succeeds.
func (s *BookingService) CreateBooking(ctx context.Context, actor Actor, req CreateBookingRequest) (*BookingDTO, error) {
	period, err := bookingDomain.NewDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if period.StartsBefore(s.now()) {
		return nil, domain.NewValidationError("start date cannot be in the past")
	}

	veh, err := s.vehicles.FindByID(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}
	if veh.Maintenance() {
		return nil, domain.NewConflictError("vehicle is under maintenance")
	}
	if !veh.Available() {
		return nil, domain.NewConflictError("vehicle is not available for booking")
	}

	price, err := s.pricing.Quote(bookingDomain.PricingParams{
		DailyRateFils: veh.DailyRateFils(),
		Period:        period,
		Services:      req.AdditionalServices,
	})
	if err != nil {
		return nil, domain.NewValidationError(fmt.Sprintf("pricing error: %v", err))
	}

	bk, err := bookingDomain.NewBooking(
		actor.ID,
		veh.ID(),
		period,
		req.PickupLocation,
		req.DropoffLocation,
		req.AdditionalDrivers,
		req.AdditionalServices,
		req.Notes,
		price,
		veh.Currency(),
	)
	if err != nil {
		return nil, err
	}

	if err := s.bookings.CreateIfVacant(ctx, bk); err != nil {
		return nil, err
	}

	s.notifier.Emit(ctx, events.BookingRequested, bk.ID().String(), events.BookingRequestedEvent{
		BookingID:      bk.ID(),
		BookingNumber:  bk.BookingNumber(),
		VehicleID:      veh.ID(),
		VehicleLabel:   veh.Label(),
		RenterID:       actor.ID,
		RenterName:     actor.Name,
		StartDate:      period.Start,
		EndDate:        period.End,
		TotalPriceFils: price,
		Currency:       bk.Currency(),
		OccurredAt:     s.now().UTC(),
	})

	result := toBookingDTO(bk)
	return &result, nil
}

// GetBooking retrieves a booking with its vehicle and payment summaries.
// Only the renter who placed it or an administrator may read it.
func (s *BookingService) GetBooking(ctx context.Context, bookingID uuid.UUID, actor Actor) (*BookingDetailDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && bk.RenterID() != actor.ID {
		return nil, domain.NewForbiddenError("not authorized to access this booking")
	}

	detail := &BookingDetailDTO{BookingDTO: toBookingDTO(bk)}

	veh, err := s.vehicles.FindByID(ctx, bk.VehicleID())
	if err == nil {
		detail.Vehicle = &VehicleSummaryDTO{
			ID:            veh.ID(),
			Brand:         veh.Brand(),
			Model:         veh.Model(),
			Year:          veh.Year(),
			Category:      veh.Category(),
			DailyRateFils: veh.DailyRateFils(),
			Currency:      veh.Currency(),
		}
	} else if !isNotFound(err) {
		return nil, err
	}

	pmt, err := s.payments.FindByBooking(ctx, bk.ID())
	if err == nil {
		detail.Payment = &PaymentSummaryDTO{
			ID:               pmt.ID(),
			AmountFils:       pmt.AmountFils(),
			Currency:         pmt.Currency(),
			Method:           pmt.Method(),
			Status:           string(pmt.Status()),
			TransactionID:    pmt.TransactionID(),
			RefundAmountFils: pmt.RefundAmountFils(),
		}
	} else if !isNotFound(err) {
		return nil, err
	}

	return detail, nil
}

// ListBookings returns a filtered, paginated booking listing. Non-admin
// callers only ever see their own bookings regardless of the filter.
func (s *BookingService) ListBookings(ctx context.Context, actor Actor, query ListBookingsQuery) (*domain.PaginatedResult[BookingDTO], error) {
	filter := bookingDomain.Filter{
		RenterID:  query.RenterID,
		VehicleID: query.VehicleID,
		StartFrom: query.From,
		StartTo:   query.To,
	}
	if !actor.IsAdmin() {
		renterID := actor.ID
		filter.RenterID = &renterID
	}
	if query.Status != nil {
		status, err := bookingDomain.ParseBookingStatus(*query.Status)
		if err != nil {
			return nil, domain.NewValidationError(err.Error())
		}
		filter.Status = &status
	}

	page, limit := normalizePagination(query.Page, query.Limit)
	bookings, total, err := s.bookings.List(ctx, filter, page, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// UpdateBooking applies a partial update. Administrators may change status,
// dates and details; regular renters may only amend notes and additional
// drivers while the booking is still pending.
func (s *BookingService) UpdateBooking(ctx context.Context, bookingID uuid.UUID, actor Actor, req UpdateBookingRequest) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() {
		return s.updateAsRenter(ctx, bk, actor, req)
	}
	return s.updateAsAdmin(ctx, bk, req)
}

func (s *BookingService) updateAsRenter(ctx context.Context, bk *bookingDomain.Booking, actor Actor, req UpdateBookingRequest) (*BookingDTO, error) {
	if bk.RenterID() != actor.ID {
		return nil, domain.NewForbiddenError("not authorized to update this booking")
	}
	if req.Status != nil || req.StartDate != nil || req.EndDate != nil ||
		req.PickupLocation != nil || req.DropoffLocation != nil || req.CancellationReason != nil {
		return nil, domain.NewForbiddenError("you may only update notes and additional drivers")
	}
	if bk.Status() != bookingDomain.StatusPending {
		return nil, domain.NewForbiddenError("booking can no longer be amended")
	}

	if req.Notes != nil {
		if err := bk.SetNotes(*req.Notes); err != nil {
			return nil, err
		}
	}
	if req.AdditionalDrivers != nil {
		if err := bk.SetAdditionalDrivers(*req.AdditionalDrivers); err != nil {
			return nil, err
		}
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	result := toBookingDTO(bk)
	return &result, nil
}

func (s *BookingService) updateAsAdmin(ctx context.Context, bk *bookingDomain.Booking, req UpdateBookingRequest) (*BookingDTO, error) {
	oldStatus := bk.Status()

	if req.StartDate != nil || req.EndDate != nil {
		if err := s.amendDates(ctx, bk, req.StartDate, req.EndDate); err != nil {
			return nil, err
		}
	}
	if req.PickupLocation != nil || req.DropoffLocation != nil {
		pickup, dropoff := bk.PickupLocation(), bk.DropoffLocation()
		if req.PickupLocation != nil {
			pickup = *req.PickupLocation
		}
		if req.DropoffLocation != nil {
			dropoff = *req.DropoffLocation
		}
		if err := bk.SetLocations(pickup, dropoff); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		if err := bk.SetNotes(*req.Notes); err != nil {
			return nil, err
		}
	}
	if req.AdditionalDrivers != nil {
		if err := bk.SetAdditionalDrivers(*req.AdditionalDrivers); err != nil {
			return nil, err
		}
	}

	statusChanged := false
	if req.Status != nil {
		newStatus, err := bookingDomain.ParseBookingStatus(*req.Status)
		if err != nil {
			return nil, domain.NewValidationError(err.Error())
		}
		if newStatus != bk.Status() {
			reason := ""
			if req.CancellationReason != nil {
				reason = *req.CancellationReason
			}
			if err := s.applyTransition(bk, newStatus, reason); err != nil {
				return nil, err
			}
			statusChanged = true
		}
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	if statusChanged {
		if err := s.applyTransitionSideEffects(ctx, bk, oldStatus); err != nil {
			return nil, err
		}
		s.notifyStatusChange(ctx, bk, oldStatus)
	}

	result := toBookingDTO(bk)
	return &result, nil
}

// amendDates re-validates the new period, re-runs the overlap check with the
// booking itself excluded and recomputes the total price.
func (s *BookingService) amendDates(ctx context.Context, bk *bookingDomain.Booking, start, end *time.Time) error {
	newStart := bk.Period().Start
	newEnd := bk.Period().End
	if start != nil {
		newStart = *start
	}
	if end != nil {
		newEnd = *end
	}

	period, err := bookingDomain.NewDateRange(newStart, newEnd)
	if err != nil {
		return err
	}
	if period.StartsBefore(s.now()) {
		return domain.NewValidationError("start date cannot be in the past")
	}

	excludeID := bk.ID()
	overlapping, err := s.bookings.FindOverlapping(ctx, bk.VehicleID(), period, &excludeID)
	if err != nil {
		return err
	}
	if len(overlapping) > 0 {
		return domain.NewConflictError("vehicle is already booked for the selected dates")
	}

	veh, err := s.vehicles.FindByID(ctx, bk.VehicleID())
	if err != nil {
		return err
	}
	price, err := s.pricing.Quote(bookingDomain.PricingParams{
		DailyRateFils: veh.DailyRateFils(),
		Period:        period,
		Services:      bk.AdditionalServices(),
	})
	if err != nil {
		return domain.NewValidationError(fmt.Sprintf("pricing error: %v", err))
	}

	return bk.AmendPeriod(period, price)
}

// applyTransition moves the aggregate into the target status, or fails with
// an InvalidStateError when the state machine forbids it.
func (s *BookingService) applyTransition(bk *bookingDomain.Booking, target bookingDomain.BookingStatus, reason string) error {
	switch target {
	case bookingDomain.StatusConfirmed:
		return bk.Confirm()
	case bookingDomain.StatusActive:
		return bk.Activate()
	case bookingDomain.StatusCompleted:
		return bk.Complete()
	case bookingDomain.StatusCancelled:
		return bk.Cancel(reason)
	default:
		return domain.NewInvalidStateError(string(bk.Status()), string(target))
	}
}

// applyTransitionSideEffects updates the vehicle's coarse flag and does the
// refund bookkeeping after the booking-status write has been persisted. The
// booking status is the source of truth; the flag is a fast-path hint only.
func (s *BookingService) applyTransitionSideEffects(ctx context.Context, bk *bookingDomain.Booking, oldStatus bookingDomain.BookingStatus) error {
	switch bk.Status() {
	case bookingDomain.StatusConfirmed:
		if bk.Period().StartsWithin(confirmLockWindow, s.now()) {
			return s.vehicles.SetAvailable(ctx, bk.VehicleID(), false)
		}
		return nil

	case bookingDomain.StatusActive:
		return s.vehicles.SetAvailable(ctx, bk.VehicleID(), false)

	case bookingDomain.StatusCompleted:
		return s.vehicles.SetAvailable(ctx, bk.VehicleID(), true)

	case bookingDomain.StatusCancelled:
		if oldStatus == bookingDomain.StatusConfirmed || oldStatus == bookingDomain.StatusActive {
			if err := s.vehicles.SetAvailable(ctx, bk.VehicleID(), true); err != nil {
				return err
			}
		}
		return s.refundCompletedPayment(ctx, bk)

	default:
		return nil
	}
}

// refundCompletedPayment marks the booking's payment refunded if one exists
// and was captured. Bookkeeping only; the gateway refund happens elsewhere.
func (s *BookingService) refundCompletedPayment(ctx context.Context, bk *bookingDomain.Booking) error {
	pmt, err := s.payments.FindByBooking(ctx, bk.ID())
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return err
	}
	if pmt.Status() != paymentDomain.StatusCompleted {
		return nil
	}
	if err := pmt.MarkRefunded(bk.CancellationReason()); err != nil {
		return err
	}
	return s.payments.Update(ctx, pmt)
}

func (s *BookingService) notifyStatusChange(ctx context.Context, bk *bookingDomain.Booking, oldStatus bookingDomain.BookingStatus) {
	s.notifier.Emit(ctx, events.BookingStatusChanged, bk.ID().String(), events.BookingStatusChangedEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		RenterID:      bk.RenterID(),
		OldStatus:     string(oldStatus),
		NewStatus:     string(bk.Status()),
		Reason:        bk.CancellationReason(),
		OccurredAt:    s.now().UTC(),
	})
}

// CancelBooking cancels a booking on behalf of its renter or an
// administrator. In-progress and finished rentals cannot be cancelled here;
// those stay immutable (active ones can only be cancelled through the admin
// status update).
func (s *BookingService) CancelBooking(ctx context.Context, bookingID uuid.UUID, actor Actor, reason string) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && bk.RenterID() != actor.ID {
		return nil, domain.NewForbiddenError("not authorized to cancel this booking")
	}
	if bk.Status() == bookingDomain.StatusActive || bk.Status() == bookingDomain.StatusCompleted {
		return nil, domain.NewInvalidStateError(string(bk.Status()), string(bookingDomain.StatusCancelled))
	}

	oldStatus := bk.Status()
	if err := bk.Cancel(reason); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	if err := s.applyTransitionSideEffects(ctx, bk, oldStatus); err != nil {
		return nil, err
	}

	s.notifyStatusChange(ctx, bk, oldStatus)
	s.notifier.Emit(ctx, events.BookingCancelled, bk.ID().String(), events.BookingCancelledEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		RenterID:      bk.RenterID(),
		CancelledBy:   actor.ID,
		Reason:        bk.CancellationReason(),
		OccurredAt:    s.now().UTC(),
	})

	result := toBookingDTO(bk)
	return &result, nil
}

// CheckAvailability answers whether a vehicle can be booked for the given
// range, with the same semantics the create path enforces.
func (s *BookingService) CheckAvailability(ctx context.Context, vehicleID uuid.UUID, start, end time.Time) (*AvailabilityDTO, error) {
	period, err := bookingDomain.NewDateRange(start, end)
	if err != nil {
		return nil, err
	}

	veh, err := s.vehicles.FindByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if veh.Maintenance() {
		return &AvailabilityDTO{Available: false, Reason: "vehicle is under maintenance"}, nil
	}

	overlapping, err := s.bookings.FindOverlapping(ctx, vehicleID, period, nil)
	if err != nil {
		return nil, err
	}
	if len(overlapping) > 0 {
		return &AvailabilityDTO{Available: false, Reason: "vehicle is already booked for the selected dates"}, nil
	}
	return &AvailabilityDTO{Available: true}, nil
}

// MonthCalendar derives day-by-day availability for one month from the
// vehicle's non-terminal bookings.
func (s *BookingService) MonthCalendar(ctx context.Context, vehicleID uuid.UUID, year, month int) (*CalendarDTO, error) {
	if month < 1 || month > 12 {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid month: %d", month))
	}
	if year < 1 {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid year: %d", year))
	}

	if _, err := s.vehicles.FindByID(ctx, vehicleID); err != nil {
		return nil, err
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	monthRange := bookingDomain.DateRange{Start: first, End: last}

	overlapping, err := s.bookings.FindOverlapping(ctx, vehicleID, monthRange, nil)
	if err != nil {
		return nil, err
	}

	days := make([]CalendarDayDTO, 0, last.Day())
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		booked := false
		for _, bk := range overlapping {
			if bk.Period().Contains(day) {
				booked = true
				break
			}
		}
		days = append(days, CalendarDayDTO{
			Date:      day.Format("2006-01-02"),
			Available: !booked,
		})
	}

	return &CalendarDTO{
		VehicleID: vehicleID,
		Year:      year,
		Month:     month,
		Days:      days,
	}, nil
}

// VehicleBookings returns every booking for a vehicle ordered by start date (admin).
func (s *BookingService) VehicleBookings(ctx context.Context, vehicleID uuid.UUID) ([]BookingDTO, error) {
	if _, err := s.vehicles.FindByID(ctx, vehicleID); err != nil {
		return nil, err
	}
	bookings, err := s.bookings.FindByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos, nil
}

// BookingStats returns aggregate booking statistics (admin).
func (s *BookingService) BookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.bookings.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}
	revenue, err := s.bookings.RevenueFils(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking revenue: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}
	return &BookingStatsDTO{
		TotalBookings:    total,
		ByStatus:         counts,
		TotalRevenueFils: revenue,
	}, nil
}

// RecordPaymentCompleted records a successful capture reported by the
// payment service and links the payment to its booking.
func (s *BookingService) RecordPaymentCompleted(ctx context.Context, evt events.PaymentCompletedEvent) error {
	bk, err := s.bookings.FindByID(ctx, evt.BookingID)
	if err != nil {
		if isNotFound(err) {
			s.logger.Warn("payment event for unknown booking",
				zap.String("booking_id", evt.BookingID.String()),
			)
			return nil
		}
		return err
	}

	pmt, err := s.payments.FindByBooking(ctx, evt.BookingID)
	switch {
	case err == nil:
		if pmt.Status() != paymentDomain.StatusPending {
			return nil // already recorded
		}
		if err := pmt.MarkCompleted(evt.TransactionID); err != nil {
			return err
		}
		if err := s.payments.Update(ctx, pmt); err != nil {
			return err
		}
	case isNotFound(err):
		pmt = paymentDomain.NewRecordedPayment(evt.PaymentID, evt.BookingID, evt.RenterID, evt.AmountFils, evt.Currency, evt.Method)
		if err := pmt.MarkCompleted(evt.TransactionID); err != nil {
			return err
		}
		if err := s.payments.Save(ctx, pmt); err != nil {
			return err
		}
	default:
		return err
	}

	if bk.PaymentID() == nil {
		bk.AttachPayment(pmt.ID())
		bk.IncrementVersion()
		if err := s.bookings.Update(ctx, bk); err != nil {
			return err
		}
	}
	return nil
}

// RecordPaymentFailed records a failed capture reported by the payment service.
func (s *BookingService) RecordPaymentFailed(ctx context.Context, evt events.PaymentFailedEvent) error {
	pmt, err := s.payments.FindByBooking(ctx, evt.BookingID)
	if err != nil {
		if isNotFound(err) {
			s.logger.Warn("payment failure for unknown payment",
				zap.String("booking_id", evt.BookingID.String()),
			)
			return nil
		}
		return err
	}
	if pmt.Status() != paymentDomain.StatusPending {
		return nil
	}
	if err := pmt.MarkFailed(); err != nil {
		return err
	}
	return s.payments.Update(ctx, pmt)
}

// --- Helpers ---

func isNotFound(err error) bool {
	var notFound *domain.NotFoundError
	return errors.As(err, &notFound)
}

func normalizePagination(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:                 bk.ID(),
		BookingNumber:      bk.BookingNumber(),
		RenterID:           bk.RenterID(),
		VehicleID:          bk.VehicleID(),
		Status:             string(bk.Status()),
		StartDate:          bk.Period().Start,
		EndDate:            bk.Period().End,
		PickupLocation:     bk.PickupLocation(),
		DropoffLocation:    bk.DropoffLocation(),
		TotalPriceFils:     bk.TotalPriceFils(),
		Currency:           bk.Currency(),
		AdditionalDrivers:  bk.AdditionalDrivers(),
		AdditionalServices: bk.AdditionalServices(),
		Notes:              bk.Notes(),
		CancellationReason: bk.CancellationReason(),
		PaymentID:          bk.PaymentID(),
		Version:            bk.Version(),
		CreatedAt:          bk.CreatedAt(),
		UpdatedAt:          bk.UpdatedAt(),
	}
}

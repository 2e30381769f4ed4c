package handler

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/LuxeDrive-Rentals/service-rental/internal/application"
	bookingDomain "github.com/LuxeDrive-Rentals/service-rental/internal/domain/booking"
	"github.com/LuxeDrive-Rentals/service-rental/pkg/domain"
	"github.com/LuxeDrive-Rentals/service-rental/pkg/middleware"
	"github.com/LuxeDrive-Rentals/service-rental/pkg/response"
)

const dateLayout = "2006-01-02"

type additionalDriverBody struct {
	Name          string `json:"name" binding:"required"`
	LicenseNumber string `json:"license_number" binding:"required"`
	LicenseExpiry string `json:"license_expiry"`
}

type additionalServiceBody struct {
	Name      string `json:"name" binding:"required"`
	PriceFils int64  `json:"price_fils" binding:"min=0"`
}

type createBookingBody struct {
	VehicleID          string                  `json:"vehicle_id" binding:"required,uuid"`
	StartDate          string                  `json:"start_date" binding:"required"`
	EndDate            string                  `json:"end_date" binding:"required"`
	PickupLocation     string                  `json:"pickup_location" binding:"required"`
	DropoffLocation    string                  `json:"dropoff_location" binding:"required"`
	AdditionalDrivers  []additionalDriverBody  `json:"additional_drivers"`
	AdditionalServices []additionalServiceBody `json:"additional_services"`
	Notes              string                  `json:"notes"`
}

type updateBookingBody struct {
	Status             *string                  `json:"status"`
	StartDate          *string                  `json:"start_date"`
	EndDate            *string                  `json:"end_date"`
	PickupLocation     *string                  `json:"pickup_location"`
	DropoffLocation    *string                  `json:"dropoff_location"`
	Notes              *string                  `json:"notes"`
	AdditionalDrivers  *[]additionalDriverBody  `json:"additional_drivers"`
	CancellationReason *string                  `json:"cancellation_reason"`
}

type cancelBookingBody struct {
	Reason string `json:"reason"`
}

// BookingHandler exposes the renter-facing booking endpoints.
type BookingHandler struct {
	service *application.BookingService
	logger  *zap.Logger
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{service: service, logger: logger}
}

// RegisterRoutes mounts the booking routes. Availability and calendar
// lookups are public; everything else requires authentication.
func (h *BookingHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	bookings := rg.Group("/bookings")

	bookings.GET("/availability/:vehicleId", h.CheckAvailability)
	bookings.GET("/calendar/:vehicleId", h.MonthCalendar)

	authed := bookings.Group("", authMW)
	authed.POST("", h.CreateBooking)
	authed.GET("", h.ListBookings)
	authed.GET("/:id", h.GetBooking)
	authed.PATCH("/:id", h.UpdateBooking)
	authed.DELETE("/:id", h.CancelBooking)
}

// CreateBooking handles POST /bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		response.Error(c, domain.NewUnauthorizedError("authentication required"))
		return
	}

	var body createBookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	vehicleID, err := uuid.Parse(body.VehicleID)
	if err != nil {
		response.BadRequest(c, "invalid vehicle ID")
		return
	}
	start, err := parseDate(body.StartDate)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	end, err := parseDate(body.EndDate)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	drivers, err := toAdditionalDrivers(body.AdditionalDrivers)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.service.CreateBooking(c.Request.Context(), actor, application.CreateBookingRequest{
		VehicleID:          vehicleID,
		StartDate:          start,
		EndDate:            end,
		PickupLocation:     body.PickupLocation,
		DropoffLocation:    body.DropoffLocation,
		AdditionalDrivers:  drivers,
		AdditionalServices: toAdditionalServices(body.AdditionalServices),
		Notes:              body.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto)
}

// GetBooking handles GET /bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		response.Error(c, domain.NewUnauthorizedError("authentication required"))
		return
	}
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	dto, err := h.service.GetBooking(c.Request.Context(), bookingID, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// ListBookings handles GET /bookings.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		response.Error(c, domain.NewUnauthorizedError("authentication required"))
		return
	}

	query, err := parseListQuery(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.ListBookings(c.Request.Context(), actor, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// UpdateBooking handles PATCH /bookings/:id.
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		response.Error(c, domain.NewUnauthorizedError("authentication required"))
		return
	}
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	var body updateBookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	req := application.UpdateBookingRequest{
		Status:             body.Status,
		PickupLocation:     body.PickupLocation,
		DropoffLocation:    body.DropoffLocation,
		Notes:              body.Notes,
		CancellationReason: body.CancellationReason,
	}
	if body.StartDate != nil {
		start, err := parseDate(*body.StartDate)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		req.StartDate = &start
	}
	if body.EndDate != nil {
		end, err := parseDate(*body.EndDate)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		req.EndDate = &end
	}
	if body.AdditionalDrivers != nil {
		drivers, err := toAdditionalDrivers(*body.AdditionalDrivers)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		req.AdditionalDrivers = &drivers
	}

	dto, err := h.service.UpdateBooking(c.Request.Context(), bookingID, actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// CancelBooking handles DELETE /bookings/:id.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		response.Error(c, domain.NewUnauthorizedError("authentication required"))
		return
	}
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	var body cancelBookingBody
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			response.BadRequest(c, "invalid request body: "+err.Error())
			return
		}
	}

	dto, err := h.service.CancelBooking(c.Request.Context(), bookingID, actor, body.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// CheckAvailability handles GET /bookings/availability/:vehicleId.
func (h *BookingHandler) CheckAvailability(c *gin.Context) {
	vehicleID, err := uuid.Parse(c.Param("vehicleId"))
	if err != nil {
		response.BadRequest(c, "invalid vehicle ID")
		return
	}
	start, err := parseDate(c.Query("startDate"))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	end, err := parseDate(c.Query("endDate"))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.service.CheckAvailability(c.Request.Context(), vehicleID, start, end)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// MonthCalendar handles GET /bookings/calendar/:vehicleId.
func (h *BookingHandler) MonthCalendar(c *gin.Context) {
	vehicleID, err := uuid.Parse(c.Param("vehicleId"))
	if err != nil {
		response.BadRequest(c, "invalid vehicle ID")
		return
	}

	now := time.Now().UTC()
	year, err := queryInt(c, "year", now.Year())
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	month, err := queryInt(c, "month", int(now.Month()))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.service.MonthCalendar(c.Request.Context(), vehicleID, year, month)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// --- Shared parsing helpers ---

func actorFromContext(c *gin.Context) (application.Actor, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return application.Actor{}, false
	}
	name, _ := middleware.GetUserName(c)
	role, _ := middleware.GetUserRole(c)
	return application.Actor{ID: userID, Name: name, Role: role}, true
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("date is required (format %s)", dateLayout)
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (format %s)", s, dateLayout)
	}
	return t, nil
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return v, nil
}

func parseListQuery(c *gin.Context) (application.ListBookingsQuery, error) {
	var query application.ListBookingsQuery

	page, err := queryInt(c, "page", 1)
	if err != nil {
		return query, err
	}
	limit, err := queryInt(c, "limit", 20)
	if err != nil {
		return query, err
	}
	query.Page = page
	query.Limit = limit

	if raw := c.Query("status"); raw != "" {
		query.Status = &raw
	}
	if raw := c.Query("vehicleId"); raw != "" {
		vehicleID, err := uuid.Parse(raw)
		if err != nil {
			return query, fmt.Errorf("invalid vehicleId: %q", raw)
		}
		query.VehicleID = &vehicleID
	}
	if raw := c.Query("renterId"); raw != "" {
		renterID, err := uuid.Parse(raw)
		if err != nil {
			return query, fmt.Errorf("invalid renterId: %q", raw)
		}
		query.RenterID = &renterID
	}
	if raw := c.Query("startFrom"); raw != "" {
		from, err := parseDate(raw)
		if err != nil {
			return query, err
		}
		query.From = &from
	}
	if raw := c.Query("startTo"); raw != "" {
		to, err := parseDate(raw)
		if err != nil {
			return query, err
		}
		query.To = &to
	}
	return query, nil
}

func toAdditionalDrivers(bodies []additionalDriverBody) ([]bookingDomain.AdditionalDriver, error) {
	if len(bodies) == 0 {
		return nil, nil
	}
	drivers := make([]bookingDomain.AdditionalDriver, len(bodies))
	for i, b := range bodies {
		var expiry time.Time
		if b.LicenseExpiry != "" {
			t, err := parseDate(b.LicenseExpiry)
			if err != nil {
				return nil, fmt.Errorf("additional driver %d: %w", i+1, err)
			}
			expiry = t
		}
		drivers[i] = bookingDomain.AdditionalDriver{
			Name:          b.Name,
			LicenseNumber: b.LicenseNumber,
			LicenseExpiry: expiry,
		}
	}
	return drivers, nil
}

func toAdditionalServices(bodies []additionalServiceBody) []bookingDomain.AdditionalService {
	if len(bodies) == 0 {
		return nil
	}
	services := make([]bookingDomain.AdditionalService, len(bodies))
	for i, b := range bodies {
		services[i] = bookingDomain.AdditionalService{
			Name:      b.Name,
			PriceFils: b.PriceFils,
		}
	}
	return services
}


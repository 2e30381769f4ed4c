package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/LuxeDrive-Rentals/service-rental/internal/application"
	"github.com/LuxeDrive-Rentals/service-rental/pkg/auth"
	"github.com/LuxeDrive-Rentals/service-rental/pkg/domain"
	"github.com/LuxeDrive-Rentals/service-rental/pkg/middleware"
	"github.com/LuxeDrive-Rentals/service-rental/pkg/response"
)

// AdminHandler exposes the fleet-operations endpoints.
type AdminHandler struct {
	service *application.BookingService
	logger  *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(service *application.BookingService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{service: service, logger: logger}
}

// RegisterRoutes mounts the admin routes behind authentication and the
// admin role check.
func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	admin := rg.Group("/admin", authMW, middleware.RequireRole(auth.RoleAdmin))
	admin.GET("/bookings", h.ListBookings)
	admin.GET("/bookings/vehicle/:vehicleId", h.VehicleBookings)
	admin.GET("/stats/bookings", h.BookingStats)
}

// ListBookings handles GET /admin/bookings with the full filter surface.
func (h *AdminHandler) ListBookings(c *gin.Context) {
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

// VehicleBookings handles GET /admin/bookings/vehicle/:vehicleId.
func (h *AdminHandler) VehicleBookings(c *gin.Context) {
	vehicleID, err := uuid.Parse(c.Param("vehicleId"))
	if err != nil {
		response.BadRequest(c, "invalid vehicle ID")
		return
	}

	dtos, err := h.service.VehicleBookings(c.Request.Context(), vehicleID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dtos)
}

// BookingStats handles GET /admin/stats/bookings.
func (h *AdminHandler) BookingStats(c *gin.Context) {
	stats, err := h.service.BookingStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}

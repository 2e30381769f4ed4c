package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LuxeDrive-Rentals/service-rental/pkg/domain"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

type paginationBody struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

type paginatedEnvelope struct {
	Success    bool           `json:"success"`
	Data       any            `json:"data"`
	Pagination paginationBody `json:"pagination"`
}

// Success writes a 200 envelope.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data})
}

// Created writes a 201 envelope.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, envelope{Success: true, Data: data})
}

// Paginated writes a 200 envelope with paging metadata.
func Paginated(c *gin.Context, items any, total int64, page, limit int) {
	c.JSON(http.StatusOK, paginatedEnvelope{
		Success: true,
		Data:    items,
		Pagination: paginationBody{
			Total: total,
			Page:  page,
			Limit: limit,
		},
	})
}

// BadRequest writes a 400 envelope with a VALIDATION code.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, envelope{
		Success: false,
		Error:   &errorBody{Code: "VALIDATION", Message: message},
	})
}

// Error maps a domain error to its HTTP status and writes the envelope.
// Unrecognized errors become opaque 500s.
func Error(c *gin.Context, err error) {
	var (
		validationErr   *domain.ValidationError
		conflictErr     *domain.ConflictError
		notFoundErr     *domain.NotFoundError
		forbiddenErr    *domain.ForbiddenError
		unauthorizedErr *domain.UnauthorizedError
		invalidStateErr *domain.InvalidStateError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, envelope{
			Success: false,
			Error:   &errorBody{Code: "VALIDATION", Message: validationErr.Message},
		})
	case errors.As(err, &invalidStateErr):
		c.JSON(http.StatusBadRequest, envelope{
			Success: false,
			Error:   &errorBody{Code: "INVALID_TRANSITION", Message: invalidStateErr.Error()},
		})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, envelope{
			Success: false,
			Error:   &errorBody{Code: "CONFLICT", Message: conflictErr.Message},
		})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, envelope{
			Success: false,
			Error:   &errorBody{Code: "NOT_FOUND", Message: notFoundErr.Error()},
		})
	case errors.As(err, &forbiddenErr):
		c.JSON(http.StatusForbidden, envelope{
			Success: false,
			Error:   &errorBody{Code: "FORBIDDEN", Message: forbiddenErr.Message},
		})
	case errors.As(err, &unauthorizedErr):
		c.JSON(http.StatusUnauthorized, envelope{
			Success: false,
			Error:   &errorBody{Code: "UNAUTHORIZED", Message: unauthorizedErr.Message},
		})
	default:
		c.JSON(http.StatusInternalServerError, envelope{
			Success: false,
			Error:   &errorBody{Code: "INTERNAL", Message: "internal server error"},
		})
	}
}

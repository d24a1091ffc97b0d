package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"carpool/internal/repository"
	"carpool/internal/service"
)

// ErrorResponse represents an error response. Code carries the machine
// readable booking error taxonomy so callers can tell a retryable
// CONCURRENCY_CONFLICT from a permanent failure.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	status := mapErrorToHTTPStatus(err)

	body := ErrorResponse{Error: err.Error(), Code: service.CodeOf(err)}
	if status == http.StatusInternalServerError {
		// Unexpected faults are surfaced generically.
		body.Error = "internal error"
	}

	c.JSON(status, body)
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrTripNotFound),
		errors.Is(err, service.ErrBookingNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidTripID),
		errors.Is(err, service.ErrInvalidBookingID),
		errors.Is(err, service.ErrInvalidUserID),
		errors.Is(err, service.ErrInvalidSeats),
		errors.Is(err, service.ErrInvalidRoute),
		errors.Is(err, service.ErrInvalidDeparture):
		return http.StatusBadRequest

	// Authorization errors
	case errors.Is(err, service.ErrNotOwner):
		return http.StatusForbidden

	// Conflict errors, including the idempotency signals and the
	// retryable lost-race conflicts
	case errors.Is(err, service.ErrAlreadyAccepted),
		errors.Is(err, service.ErrAlreadyRejected),
		errors.Is(err, service.ErrBookingNotPending),
		errors.Is(err, service.ErrTripFull),
		errors.Is(err, service.ErrConcurrencyConflict):
		return http.StatusConflict

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}

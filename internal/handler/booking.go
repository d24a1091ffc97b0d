package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"carpool/internal/domain"
	"carpool/internal/middleware"
	"carpool/internal/service"
)

// BookingHandler handles HTTP requests for bookings.
type BookingHandler struct {
	bookingService *service.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// CreateBookingRequest is the HTTP request body for requesting seats.
type CreateBookingRequest struct {
	TripID string `json:"trip_id"`
	Seats  int    `json:"seats"`
}

// BookingResponse is the HTTP response for booking operations.
type BookingResponse struct {
	BookingID       string `json:"booking_id"`
	TripID          string `json:"trip_id"`
	PassengerID     string `json:"passenger_id"`
	Seats           int    `json:"seats"`
	Status          string `json:"status"`
	CreatedAt       string `json:"created_at"`
	StatusChangedAt string `json:"status_changed_at,omitempty"`
	SeatsTaken      *int   `json:"seats_taken,omitempty"`
	TotalSeats      *int   `json:"total_seats,omitempty"`
}

func bookingResponse(b *domain.Booking) BookingResponse {
	resp := BookingResponse{
		BookingID:   b.ID,
		TripID:      b.TripID,
		PassengerID: b.PassengerID,
		Seats:       b.SeatsRequested,
		Status:      string(b.Status),
		CreatedAt:   b.CreatedAt.Format(time.RFC3339),
	}
	if !b.StatusChangedAt.IsZero() {
		resp.StatusChangedAt = b.StatusChangedAt.Format(time.RFC3339)
	}
	return resp
}

// Create handles POST /v1/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Code: service.CodeInvalidInput})
		return
	}

	booking, err := h.bookingService.CreateRequest(c.Request.Context(), service.CreateBookingRequest{
		TripID:      req.TripID,
		PassengerID: middleware.CurrentUserID(c),
		Seats:       req.Seats,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, bookingResponse(booking))
}

// Accept handles POST /v1/bookings/:id/accept
func (h *BookingHandler) Accept(c *gin.Context) {
	result, err := h.bookingService.Accept(c.Request.Context(), service.AcceptBookingRequest{
		BookingID: c.Param("id"),
		DriverID:  middleware.CurrentUserID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	resp := bookingResponse(result.Booking)
	resp.SeatsTaken = &result.SeatsTaken
	resp.TotalSeats = &result.TotalSeats

	respondJSON(c, http.StatusOK, resp)
}

// Reject handles POST /v1/bookings/:id/reject
func (h *BookingHandler) Reject(c *gin.Context) {
	booking, err := h.bookingService.Reject(c.Request.Context(), service.RejectBookingRequest{
		BookingID: c.Param("id"),
		DriverID:  middleware.CurrentUserID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, bookingResponse(booking))
}

// Cancel handles POST /v1/bookings/:id/cancel
func (h *BookingHandler) Cancel(c *gin.Context) {
	result, err := h.bookingService.Cancel(c.Request.Context(), service.CancelBookingRequest{
		BookingID:   c.Param("id"),
		PassengerID: middleware.CurrentUserID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	resp := bookingResponse(result.Booking)
	resp.SeatsTaken = &result.SeatsTaken
	resp.TotalSeats = &result.TotalSeats

	respondJSON(c, http.StatusOK, resp)
}

// ListPendingRequests handles GET /v1/bookings/requests
// It returns the pending requests against trips owned by the calling driver.
func (h *BookingHandler) ListPendingRequests(c *gin.Context) {
	bookings, err := h.bookingService.ListPendingForDriver(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		response = append(response, bookingResponse(b))
	}

	respondJSON(c, http.StatusOK, response)
}

// ListMine handles GET /v1/bookings
// It returns the calling passenger's bookings, newest first.
func (h *BookingHandler) ListMine(c *gin.Context) {
	bookings, err := h.bookingService.ListForPassenger(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		response = append(response, bookingResponse(b))
	}

	respondJSON(c, http.StatusOK, response)
}

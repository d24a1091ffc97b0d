package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"carpool/internal/domain"
	"carpool/internal/middleware"
	"carpool/internal/service"
)

// TripHandler handles HTTP requests for trips.
type TripHandler struct {
	tripService *service.TripService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripService *service.TripService) *TripHandler {
	return &TripHandler{tripService: tripService}
}

// CreateTripRequest is the HTTP request body for posting a trip.
type CreateTripRequest struct {
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	TotalSeats  int       `json:"total_seats"`
	StartsAt    time.Time `json:"starts_at"`
}

// TripResponse is the HTTP response for trip operations.
type TripResponse struct {
	TripID         string `json:"trip_id"`
	DriverID       string `json:"driver_id"`
	Origin         string `json:"origin"`
	Destination    string `json:"destination"`
	TotalSeats     int    `json:"total_seats"`
	SeatsTaken     int    `json:"seats_taken"`
	SeatsAvailable int    `json:"seats_available"`
	StartsAt       string `json:"starts_at"`
}

func tripResponse(t *domain.Trip) TripResponse {
	return TripResponse{
		TripID:         t.ID,
		DriverID:       t.DriverID,
		Origin:         t.Origin,
		Destination:    t.Destination,
		TotalSeats:     t.TotalSeats,
		SeatsTaken:     t.SeatsTaken,
		SeatsAvailable: t.SeatsAvailable(),
		StartsAt:       t.StartsAt.Format(time.RFC3339),
	}
}

// Create handles POST /v1/trips
func (h *TripHandler) Create(c *gin.Context) {
	var req CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Code: service.CodeInvalidInput})
		return
	}

	trip, err := h.tripService.CreateTrip(c.Request.Context(), service.CreateTripRequest{
		DriverID:    middleware.CurrentUserID(c),
		Origin:      req.Origin,
		Destination: req.Destination,
		TotalSeats:  req.TotalSeats,
		StartsAt:    req.StartsAt,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, tripResponse(trip))
}

// Get handles GET /v1/trips/:id
func (h *TripHandler) Get(c *gin.Context) {
	trip, err := h.tripService.GetTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, tripResponse(trip))
}

// ListUpcoming handles GET /v1/trips
func (h *TripHandler) ListUpcoming(c *gin.Context) {
	trips, err := h.tripService.ListUpcomingTrips(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TripResponse, 0, len(trips))
	for _, t := range trips {
		response = append(response, tripResponse(t))
	}

	respondJSON(c, http.StatusOK, response)
}

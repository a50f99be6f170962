package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/bus-booking-backend/internal/models"
	"github.com/smarttransit/bus-booking-backend/pkg/validator"
)

// BusSearcher finds buses with free seats between two cities
type BusSearcher interface {
	SearchBuses(ctx context.Context, req *models.SearchBusesRequest) ([]models.BusSearchResult, error)
}

// SeatAvailabilityProvider returns the seat map of a schedule on a date
type SeatAvailabilityProvider interface {
	GetSeatAvailability(ctx context.Context, scheduleID int64, travelDate string) (*models.SeatAvailability, error)
}

// BusHandler handles bus search and seat availability endpoints
type BusHandler struct {
	search       BusSearcher
	availability SeatAvailabilityProvider
	logger       *logrus.Logger
}

// NewBusHandler creates a new bus handler
func NewBusHandler(search BusSearcher, availability SeatAvailabilityProvider, logger *logrus.Logger) *BusHandler {
	return &BusHandler{
		search:       search,
		availability: availability,
		logger:       logger,
	}
}

// SearchBuses handles GET /api/v1/buses/search
func (h *BusHandler) SearchBuses(c *gin.Context) {
	var req models.SearchBusesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	buses, err := h.search.SearchBuses(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"source":      req.Source,
		"destination": req.Destination,
		"travel_date": req.TravelDate,
		"results":     len(buses),
	}).Debug("Bus search completed")

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(buses),
		"buses":   buses,
	})
}

// GetSeatAvailability handles GET /api/v1/buses/:scheduleId/seats?travelDate=YYYY-MM-DD
func (h *BusHandler) GetSeatAvailability(c *gin.Context) {
	scheduleID, ok := parseIDParam(c, "scheduleId", "schedule ID")
	if !ok {
		return
	}

	travelDate := c.Query("travelDate")
	if travelDate == "" {
		respondError(c, http.StatusBadRequest, "Travel date is required")
		return
	}
	if !validator.IsValidDate(travelDate) {
		respondError(c, http.StatusBadRequest, "travelDate must be a valid date (YYYY-MM-DD)")
		return
	}

	seats, err := h.availability.GetSeatAvailability(c.Request.Context(), scheduleID, travelDate)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"scheduleId":     seats.ScheduleID,
		"travelDate":     seats.TravelDate,
		"busType":        seats.BusType,
		"seatLayout":     seats.SeatLayout,
		"bookedSeats":    seats.BookedSeats,
		"totalSeats":     seats.TotalSeats,
		"availableSeats": seats.AvailableSeats,
		"price":          seats.Price,
	})
}

package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/bus-booking-backend/internal/middleware"
	"github.com/smarttransit/bus-booking-backend/internal/models"
	"github.com/smarttransit/bus-booking-backend/internal/services"
)

// BookingService is the booking logic used by BookingHandler
type BookingService interface {
	CreateBooking(ctx context.Context, userID int64, req *models.CreateBookingRequest) (*models.Booking, error)
	ListBookings(ctx context.Context, userID int64, req models.ListBookingsRequest) ([]models.BookingDetails, models.Pagination, error)
	GetBookingDetails(ctx context.Context, userID, bookingID int64) (*models.BookingDetails, error)
	CancelBooking(ctx context.Context, userID, bookingID int64) error
}

// TicketGenerator renders e-tickets
type TicketGenerator interface {
	GenerateTicket(ctx context.Context, userID, bookingID int64) (*services.Ticket, error)
}

// BookingHandler handles booking endpoints
type BookingHandler struct {
	bookings BookingService
	tickets  TicketGenerator
	logger   *logrus.Logger
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookings BookingService, tickets TicketGenerator, logger *logrus.Logger) *BookingHandler {
	return &BookingHandler{
		bookings: bookings,
		tickets:  tickets,
		logger:   logger,
	}
}

// CreateBooking handles POST /api/v1/bookings/create
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	booking, err := h.bookings.CreateBooking(c.Request.Context(), userCtx.UserID, &req)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":          true,
		"message":          "Booking created successfully",
		"bookingId":        booking.ID,
		"bookingReference": booking.BookingReference,
		"totalAmount":      booking.TotalAmount,
	})
}

// ListBookings handles GET /api/v1/bookings?page&limit&status
func (h *BookingHandler) ListBookings(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	var req models.ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	bookings, pagination, err := h.bookings.ListBookings(c.Request.Context(), userCtx.UserID, req)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"bookings":   bookings,
		"pagination": pagination,
	})
}

// GetBooking handles GET /api/v1/bookings/:bookingId
func (h *BookingHandler) GetBooking(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	bookingID, ok := parseIDParam(c, "bookingId", "booking ID")
	if !ok {
		return
	}

	booking, err := h.bookings.GetBookingDetails(c.Request.Context(), userCtx.UserID, bookingID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"booking": booking,
	})
}

// CancelBooking handles POST /api/v1/bookings/:bookingId/cancel
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	bookingID, ok := parseIDParam(c, "bookingId", "booking ID")
	if !ok {
		return
	}

	if err := h.bookings.CancelBooking(c.Request.Context(), userCtx.UserID, bookingID); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Booking cancelled successfully",
	})
}

// DownloadTicket handles GET /api/v1/bookings/:bookingId/ticket
func (h *BookingHandler) DownloadTicket(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	bookingID, ok := parseIDParam(c, "bookingId", "booking ID")
	if !ok {
		return
	}

	ticket, err := h.tickets.GenerateTicket(c.Request.Context(), userCtx.UserID, bookingID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, ticket.FileName))
	c.Data(http.StatusOK, "application/pdf", ticket.Content)
}

package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/bus-booking-backend/internal/middleware"
	"github.com/smarttransit/bus-booking-backend/internal/models"
	"github.com/smarttransit/bus-booking-backend/internal/services"
)

// PaymentService is the payment logic used by PaymentHandler
type PaymentService interface {
	InitiatePayment(ctx context.Context, userID int64, req *models.InitiatePaymentRequest, meta services.RequestMeta) (*models.PaymentInitiation, error)
	ConfirmPayment(ctx context.Context, req *models.ConfirmPaymentRequest, meta services.RequestMeta) (*models.PaymentConfirmation, error)
	GetPaymentStatus(ctx context.Context, userID, bookingID int64) (*models.BookingPaymentStatus, error)
}

// PaymentHandler handles payment endpoints
type PaymentHandler struct {
	service PaymentService
	logger  *logrus.Logger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(service PaymentService, logger *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		logger:  logger,
	}
}

// InitiatePayment handles POST /api/v1/payments/initiate
func (h *PaymentHandler) InitiatePayment(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	var req models.InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	result, err := h.service.InitiatePayment(c.Request.Context(), userCtx.UserID, &req, requestMeta(c))
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"paymentId":     result.PaymentID,
		"transactionId": result.TransactionID,
		"amount":        result.Amount,
		"paymentUrl":    result.PaymentURL,
	})
}

// ConfirmPayment handles POST /api/v1/payments/confirm, the gateway callback
func (h *PaymentHandler) ConfirmPayment(c *gin.Context) {
	var req models.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if req.TransactionID == "" || req.Status == "" {
			respondError(c, http.StatusBadRequest, "Transaction ID and status are required")
			return
		}
		respondBindingError(c, err)
		return
	}

	result, err := h.service.ConfirmPayment(c.Request.Context(), &req, requestMeta(c))
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Payment " + string(result.Status),
		"transactionId": result.TransactionID,
		"bookingId":     result.BookingID,
	})
}

// GetPaymentStatus handles GET /api/v1/payments/:bookingId/status
func (h *PaymentHandler) GetPaymentStatus(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	bookingID, ok := parseIDParam(c, "bookingId", "booking ID")
	if !ok {
		return
	}

	status, err := h.service.GetPaymentStatus(c.Request.Context(), userCtx.UserID, bookingID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"booking": status.Booking,
		"payment": status.Payment,
	})
}

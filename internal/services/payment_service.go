package services

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/bus-booking-backend/internal/database"
	"github.com/smarttransit/bus-booking-backend/internal/models"
)

// PaymentService runs the simulated payment lifecycle:
// pending -> success | failed, with success confirming the booking
type PaymentService struct {
	db             database.DB
	bookings       *database.BookingRepository
	payments       *database.PaymentRepository
	audit          *AuditService
	gatewayBaseURL string
	logger         *logrus.Logger

	newTransactionID func() string
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	db database.DB,
	bookings *database.BookingRepository,
	payments *database.PaymentRepository,
	audit *AuditService,
	gatewayBaseURL string,
	logger *logrus.Logger,
) *PaymentService {
	return &PaymentService{
		db:               db,
		bookings:         bookings,
		payments:         payments,
		audit:            audit,
		gatewayBaseURL:   gatewayBaseURL,
		logger:           logger,
		newTransactionID: GenerateTransactionID,
	}
}

// InitiatePayment opens a pending payment attempt for a user's booking
func (s *PaymentService) InitiatePayment(ctx context.Context, userID int64, req *models.InitiatePaymentRequest, meta RequestMeta) (*models.PaymentInitiation, error) {
	var payment *models.Payment
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		booking, err := s.bookings.GetUserBookingForUpdate(ctx, tx, req.BookingID, userID)
		if err != nil {
			return err
		}
		if booking == nil {
			return NotFoundError{Resource: "Booking"}
		}
		if booking.IsCancelled() {
			return InvalidStateError{Msg: "Cannot process payment for cancelled booking"}
		}

		if booking.Status == models.BookingStatusConfirmed {
			return ConflictError{Msg: "Payment already completed for this booking"}
		}
		paid, err := s.payments.HasSuccessfulPayment(ctx, tx, booking.ID)
		if err != nil {
			return err
		}
		if paid {
			return ConflictError{Msg: "Payment already completed for this booking"}
		}

		payment = &models.Payment{
			BookingID:     booking.ID,
			TransactionID: s.newTransactionID(),
			Amount:        booking.TotalAmount,
			PaymentMethod: req.PaymentMethod,
			Status:        models.PaymentStatusPending,
		}
		return s.payments.CreatePayment(ctx, tx, payment)
	})
	if err != nil {
		return nil, err
	}

	s.audit.PaymentInitiated(ctx, payment, meta)
	s.logger.WithFields(logrus.Fields{
		"booking_id":     payment.BookingID,
		"transaction_id": payment.TransactionID,
		"payment_method": payment.PaymentMethod,
		"amount":         payment.Amount,
	}).Info("Payment initiated")

	return &models.PaymentInitiation{
		PaymentID:     payment.ID,
		TransactionID: payment.TransactionID,
		Amount:        payment.Amount,
		PaymentURL:    fmt.Sprintf("%s/pay/%s", s.gatewayBaseURL, payment.TransactionID),
	}, nil
}

// ConfirmPayment applies a gateway result to a pending payment. The payment
// update and the booking confirmation commit together. A payment that is no
// longer pending is rejected, so replaying a webhook has no effect.
func (s *PaymentService) ConfirmPayment(ctx context.Context, req *models.ConfirmPaymentRequest, meta RequestMeta) (*models.PaymentConfirmation, error) {
	s.audit.WebhookReceived(ctx, req.TransactionID, req.Status, meta)

	var (
		settled       *models.Payment
		bookingStatus models.BookingStatus
		confirmed     bool
	)
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		payment, err := s.payments.GetByTransactionIDForUpdate(ctx, tx, req.TransactionID)
		if err != nil {
			return err
		}
		if payment == nil {
			return NotFoundError{Resource: "Payment"}
		}
		if payment.Status.IsTerminal() {
			return InvalidStateError{Msg: "Payment is not in pending status"}
		}

		settled, err = s.payments.UpdateStatus(ctx, tx, payment.ID, req.Status)
		if err != nil {
			return err
		}
		if req.Status != models.PaymentStatusSuccess {
			return nil
		}

		booking, err := s.bookings.GetBookingForUpdate(ctx, tx, payment.BookingID)
		if err != nil {
			return err
		}
		if booking == nil {
			return fmt.Errorf("booking %d of payment %s not found", payment.BookingID, payment.TransactionID)
		}
		bookingStatus = booking.Status
		if booking.Status != models.BookingStatusPending {
			return nil
		}
		if err := s.bookings.UpdateStatus(ctx, tx, booking.ID, models.BookingStatusConfirmed); err != nil {
			return err
		}
		bookingStatus = models.BookingStatusConfirmed
		confirmed = true
		return nil
	})
	if err != nil {
		s.audit.PaymentError(ctx, req.TransactionID, err, meta)
		return nil, err
	}

	s.audit.PaymentSettled(ctx, settled, meta)
	if settled.Status == models.PaymentStatusSuccess {
		switch {
		case confirmed:
			s.audit.BookingConfirmed(ctx, settled, meta)
		case bookingStatus == models.BookingStatusCancelled:
			s.audit.BookingConfirmationFailed(ctx, settled, bookingStatus, meta)
			s.logger.WithFields(logrus.Fields{
				"booking_id":     settled.BookingID,
				"transaction_id": settled.TransactionID,
			}).Warn("Payment succeeded for a cancelled booking")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":     settled.BookingID,
		"transaction_id": settled.TransactionID,
		"status":         settled.Status,
	}).Info("Payment confirmed")

	return &models.PaymentConfirmation{
		TransactionID: settled.TransactionID,
		BookingID:     settled.BookingID,
		Status:        settled.Status,
	}, nil
}

// GetPaymentStatus returns a user's booking status with its latest payment attempt
func (s *PaymentService) GetPaymentStatus(ctx context.Context, userID, bookingID int64) (*models.BookingPaymentStatus, error) {
	booking, err := s.bookings.GetUserBooking(ctx, s.db, bookingID, userID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, NotFoundError{Resource: "Booking"}
	}

	latest, err := s.payments.GetLatestByBookingID(ctx, s.db, booking.ID)
	if err != nil {
		return nil, err
	}

	return &models.BookingPaymentStatus{
		Booking: models.BookingStatusView{
			ID:          booking.ID,
			TotalAmount: booking.TotalAmount,
			Status:      booking.Status,
		},
		Payment: latest.Summary(),
	}, nil
}

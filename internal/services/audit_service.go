package services

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/smarttransit/bus-booking-backend/internal/database"
	"github.com/smarttransit/bus-booking-backend/internal/models"
	"github.com/smarttransit/bus-booking-backend/internal/utils"
)

// RequestMeta carries caller details attached to audit entries
type RequestMeta struct {
	IPAddress string
	UserAgent string
	RequestID string
}

// AuditService records the payment audit trail
type AuditService struct {
	repo    *database.PaymentAuditRepository
	logger  *logrus.Logger
	enabled bool
}

// NewAuditService creates a new audit service. A nil repository or
// enabled=false turns recording into a no-op.
func NewAuditService(repo *database.PaymentAuditRepository, logger *logrus.Logger, enabled bool) *AuditService {
	return &AuditService{
		repo:    repo,
		logger:  logger,
		enabled: enabled && repo != nil,
	}
}

// Record writes an audit entry with caller metadata and parsed device info.
// A failed write is logged and never fails the caller.
func (s *AuditService) Record(ctx context.Context, audit *models.PaymentAudit, meta RequestMeta) {
	if s == nil || !s.enabled || audit == nil {
		return
	}

	audit.SetMetadata(meta.IPAddress, meta.UserAgent, meta.RequestID)
	if meta.UserAgent != "" {
		audit.SetDetails(map[string]interface{}{
			"device_info": utils.ParseUserAgent(meta.UserAgent),
		})
	}

	if err := s.repo.Log(ctx, audit); err != nil {
		s.logger.WithError(err).WithField("event_type", audit.EventType).Warn("Payment audit entry dropped")
	}
}

// PaymentInitiated records a new pending payment attempt
func (s *AuditService) PaymentInitiated(ctx context.Context, payment *models.Payment, meta RequestMeta) {
	s.Record(ctx, models.NewPaymentAudit(models.PaymentEventInitiated, models.PaymentSourceUser).
		ForPayment(payment), meta)
}

// WebhookReceived records an inbound gateway confirmation before it is applied
func (s *AuditService) WebhookReceived(ctx context.Context, transactionID string, status models.PaymentStatus, meta RequestMeta) {
	s.Record(ctx, models.NewPaymentAudit(models.PaymentEventWebhookReceived, models.PaymentSourceWebhook).
		SetTransactionID(transactionID).
		SetPaymentStatus(string(status)), meta)
}

// PaymentSettled records the terminal status of a payment
func (s *AuditService) PaymentSettled(ctx context.Context, payment *models.Payment, meta RequestMeta) {
	eventType := models.PaymentEventFailed
	if payment.Status == models.PaymentStatusSuccess {
		eventType = models.PaymentEventSuccess
	}
	s.Record(ctx, models.NewPaymentAudit(eventType, models.PaymentSourceWebhook).
		ForPayment(payment), meta)
}

// BookingConfirmed records the booking transition driven by a successful payment
func (s *AuditService) BookingConfirmed(ctx context.Context, payment *models.Payment, meta RequestMeta) {
	s.Record(ctx, models.NewPaymentAudit(models.PaymentEventBookingConfirmed, models.PaymentSourceBackend).
		ForPayment(payment), meta)
}

// BookingConfirmationFailed records a successful payment whose booking could
// not be confirmed
func (s *AuditService) BookingConfirmationFailed(ctx context.Context, payment *models.Payment, bookingStatus models.BookingStatus, meta RequestMeta) {
	s.Record(ctx, models.NewPaymentAudit(models.PaymentEventBookingConfirmFailed, models.PaymentSourceBackend).
		ForPayment(payment).
		SetError("booking is not pending").
		SetDetails(map[string]interface{}{"booking_status": bookingStatus}), meta)
}

// PaymentError records a rejected payment operation
func (s *AuditService) PaymentError(ctx context.Context, transactionID string, cause error, meta RequestMeta) {
	s.Record(ctx, models.NewPaymentAudit(models.PaymentEventError, models.PaymentSourceBackend).
		SetTransactionID(transactionID).
		SetError(cause.Error()), meta)
}

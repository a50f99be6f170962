package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/bus-booking-backend/internal/models"
)

// PaymentAuditRepository handles payment audit operations
type PaymentAuditRepository struct {
	db     DB
	logger *logrus.Logger
}

// NewPaymentAuditRepository creates a new payment audit repository
func NewPaymentAuditRepository(db DB, logger *logrus.Logger) *PaymentAuditRepository {
	return &PaymentAuditRepository{
		db:     db,
		logger: logger,
	}
}

// Log appends a payment audit entry. Entries are written outside the payment
// transaction so failed settlements are still recorded.
func (r *PaymentAuditRepository) Log(ctx context.Context, audit *models.PaymentAudit) error {
	if audit == nil {
		return fmt.Errorf("audit entry cannot be nil")
	}

	if audit.ID == uuid.Nil {
		audit.ID = uuid.New()
	}
	if audit.CreatedAt.IsZero() {
		audit.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO payment_audits (
			id, booking_id, payment_id, transaction_id,
			event_type, event_source,
			amount, payment_status, details, error_message,
			ip_address, user_agent, correlation_id,
			created_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6,
			$7, $8, $9, $10,
			$11, $12, $13,
			$14
		)`

	_, err := r.db.ExecContext(ctx, query,
		audit.ID, audit.BookingID, audit.PaymentID, audit.TransactionID,
		audit.EventType, audit.EventSource,
		audit.Amount, audit.PaymentStatus, audit.Details, audit.ErrorMessage,
		audit.IPAddress, audit.UserAgent, audit.CorrelationID,
		audit.CreatedAt,
	)
	if err != nil {
		r.logger.WithError(err).WithFields(logrus.Fields{
			"event_type":     audit.EventType,
			"transaction_id": audit.TransactionID,
		}).Error("Failed to write payment audit entry")
		return fmt.Errorf("failed to log payment audit: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"audit_id":       audit.ID,
		"event_type":     audit.EventType,
		"event_source":   audit.EventSource,
		"transaction_id": audit.TransactionID,
	}).Debug("Payment audit logged")

	return nil
}

// GetByBookingID returns the audit trail of a booking, oldest first
func (r *PaymentAuditRepository) GetByBookingID(ctx context.Context, bookingID int64) ([]*models.PaymentAudit, error) {
	var audits []*models.PaymentAudit
	query := `
		SELECT id, booking_id, payment_id, transaction_id, event_type, event_source,
			amount, payment_status, details, error_message,
			ip_address, user_agent, correlation_id, created_at
		FROM payment_audits
		WHERE booking_id = $1
		ORDER BY created_at ASC
	`

	if err := r.db.SelectContext(ctx, &audits, query, bookingID); err != nil {
		return nil, fmt.Errorf("failed to get audits by booking ID: %w", err)
	}

	return audits, nil
}

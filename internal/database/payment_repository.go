package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/smarttransit/bus-booking-backend/internal/models"
)

const paymentColumns = `
	id, booking_id, transaction_id, amount, payment_method, status,
	payment_date, created_at, updated_at`

// PaymentRepository handles payment database operations
type PaymentRepository struct {
	db DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// CreatePayment inserts a payment attempt and fills in id and timestamps
func (r *PaymentRepository) CreatePayment(ctx context.Context, q sqlx.QueryerContext, payment *models.Payment) error {
	query := `
		INSERT INTO payments (booking_id, transaction_id, amount, payment_method, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	row := q.QueryRowxContext(ctx, query,
		payment.BookingID,
		payment.TransactionID,
		payment.Amount,
		payment.PaymentMethod,
		payment.Status,
	)
	if err := row.Scan(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

// HasSuccessfulPayment reports whether any payment attempt of the booking succeeded.
func (r *PaymentRepository) HasSuccessfulPayment(ctx context.Context, q sqlx.QueryerContext, bookingID int64) (bool, error) {
	var paid bool
	query := `SELECT EXISTS(SELECT 1 FROM payments WHERE booking_id = $1 AND status = 'success')`

	if err := sqlx.GetContext(ctx, q, &paid, query, bookingID); err != nil {
		return false, fmt.Errorf("failed to check successful payments: %w", err)
	}

	return paid, nil
}

// GetLatestByBookingID returns the most recent payment of a booking.
// Returns nil, nil when the booking has no payments.
func (r *PaymentRepository) GetLatestByBookingID(ctx context.Context, q sqlx.QueryerContext, bookingID int64) (*models.Payment, error) {
	var payment models.Payment
	query := `SELECT ` + paymentColumns + `
		FROM payments
		WHERE booking_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1`

	if err := sqlx.GetContext(ctx, q, &payment, query, bookingID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest payment: %w", err)
	}

	return &payment, nil
}

// GetByTransactionIDForUpdate locks a payment row by transaction id.
// Returns nil, nil when not found.
func (r *PaymentRepository) GetByTransactionIDForUpdate(ctx context.Context, tx sqlx.QueryerContext, transactionID string) (*models.Payment, error) {
	var payment models.Payment
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE transaction_id = $1 FOR UPDATE`

	if err := sqlx.GetContext(ctx, tx, &payment, query, transactionID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return &payment, nil
}

// UpdateStatus settles a payment. payment_date is stamped only on success.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, tx sqlx.QueryerContext, paymentID int64, status models.PaymentStatus) (*models.Payment, error) {
	var payment models.Payment
	query := `
		UPDATE payments
		SET status = $2,
			payment_date = CASE WHEN $3 THEN NOW() ELSE payment_date END,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + paymentColumns

	if err := sqlx.GetContext(ctx, tx, &payment, query, paymentID, status, status == models.PaymentStatusSuccess); err != nil {
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}

	return &payment, nil
}

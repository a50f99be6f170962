package models

import "time"

// PaymentStatus represents the state of one payment attempt
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// IsTerminal reports whether no further transition is allowed
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusSuccess || s == PaymentStatusFailed
}

// PaymentMethod represents how the customer pays
type PaymentMethod string

const (
	PaymentMethodCard       PaymentMethod = "card"
	PaymentMethodUPI        PaymentMethod = "upi"
	PaymentMethodNetBanking PaymentMethod = "net_banking"
	PaymentMethodWallet     PaymentMethod = "wallet"
)

// Payment is one settlement attempt against a booking
type Payment struct {
	ID            int64         `json:"id" db:"id"`
	BookingID     int64         `json:"bookingId" db:"booking_id"`
	TransactionID string        `json:"transactionId" db:"transaction_id"`
	Amount        float64       `json:"amount" db:"amount"`
	PaymentMethod PaymentMethod `json:"paymentMethod" db:"payment_method"`
	Status        PaymentStatus `json:"status" db:"status"`
	PaymentDate   *time.Time    `json:"paymentDate" db:"payment_date"`
	CreatedAt     time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time     `json:"-" db:"updated_at"`
}

// PaymentSummary is the latest payment shown on booking details
type PaymentSummary struct {
	TransactionID string        `json:"transactionId"`
	Amount        float64       `json:"amount"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Status        PaymentStatus `json:"status"`
	PaymentDate   *time.Time    `json:"paymentDate"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// Summary converts a payment to its public summary
func (p *Payment) Summary() *PaymentSummary {
	if p == nil {
		return nil
	}
	return &PaymentSummary{
		TransactionID: p.TransactionID,
		Amount:        p.Amount,
		PaymentMethod: p.PaymentMethod,
		Status:        p.Status,
		PaymentDate:   p.PaymentDate,
		CreatedAt:     p.CreatedAt,
	}
}

// InitiatePaymentRequest represents the initiate payment payload
type InitiatePaymentRequest struct {
	BookingID     int64         `json:"bookingId" binding:"required,gt=0"`
	PaymentMethod PaymentMethod `json:"paymentMethod" binding:"required,oneof=card upi net_banking wallet"`
}

// ConfirmPaymentRequest represents the gateway webhook payload
type ConfirmPaymentRequest struct {
	TransactionID string        `json:"transactionId" binding:"required"`
	Status        PaymentStatus `json:"status" binding:"required,oneof=success failed"`
}

// PaymentInitiation is returned when a payment attempt is created
type PaymentInitiation struct {
	PaymentID     int64   `json:"paymentId"`
	TransactionID string  `json:"transactionId"`
	Amount        float64 `json:"amount"`
	PaymentURL    string  `json:"paymentUrl"`
}

// PaymentConfirmation is returned after a webhook is applied
type PaymentConfirmation struct {
	TransactionID string        `json:"transactionId"`
	BookingID     int64         `json:"bookingId"`
	Status        PaymentStatus `json:"status"`
}

// BookingPaymentStatus is the payment status view of a booking
type BookingPaymentStatus struct {
	Booking BookingStatusView `json:"booking"`
	Payment *PaymentSummary   `json:"payment"`
}

// BookingStatusView is the short booking view on the payment status endpoint
type BookingStatusView struct {
	ID          int64         `json:"id"`
	TotalAmount float64       `json:"totalAmount"`
	Status      BookingStatus `json:"status"`
}

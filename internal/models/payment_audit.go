package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentEventType represents the type of payment event
type PaymentEventType string

const (
	PaymentEventInitiated            PaymentEventType = "payment_initiated"
	PaymentEventWebhookReceived      PaymentEventType = "webhook_received"
	PaymentEventSuccess              PaymentEventType = "payment_success"
	PaymentEventFailed               PaymentEventType = "payment_failed"
	PaymentEventBookingConfirmed     PaymentEventType = "booking_confirmed"
	PaymentEventBookingConfirmFailed PaymentEventType = "booking_confirmation_failed"
	PaymentEventDuplicateWebhook     PaymentEventType = "duplicate_webhook"
	PaymentEventError                PaymentEventType = "error"
)

// PaymentEventSource identifies where the event originated
type PaymentEventSource string

const (
	PaymentSourceBackend PaymentEventSource = "backend"
	PaymentSourceWebhook PaymentEventSource = "gateway_webhook"
	PaymentSourceUser    PaymentEventSource = "user"
)

// PaymentAudit is an append-only record of something that happened to a payment
type PaymentAudit struct {
	ID            uuid.UUID          `json:"id" db:"id"`
	BookingID     *int64             `json:"bookingId,omitempty" db:"booking_id"`
	PaymentID     *int64             `json:"paymentId,omitempty" db:"payment_id"`
	TransactionID *string            `json:"transactionId,omitempty" db:"transaction_id"`
	EventType     PaymentEventType   `json:"eventType" db:"event_type"`
	EventSource   PaymentEventSource `json:"eventSource" db:"event_source"`
	Amount        *float64           `json:"amount,omitempty" db:"amount"`
	PaymentStatus *string            `json:"paymentStatus,omitempty" db:"payment_status"`
	Details       JSONB              `json:"details,omitempty" db:"details"`
	ErrorMessage  *string            `json:"errorMessage,omitempty" db:"error_message"`
	IPAddress     *string            `json:"ipAddress,omitempty" db:"ip_address"`
	UserAgent     *string            `json:"userAgent,omitempty" db:"user_agent"`
	CorrelationID *string            `json:"correlationId,omitempty" db:"correlation_id"`
	CreatedAt     time.Time          `json:"createdAt" db:"created_at"`
}

// NewPaymentAudit creates a new payment audit entry with required fields
func NewPaymentAudit(eventType PaymentEventType, source PaymentEventSource) *PaymentAudit {
	return &PaymentAudit{
		ID:          uuid.New(),
		EventType:   eventType,
		EventSource: source,
		CreatedAt:   time.Now(),
	}
}

// ForPayment links the entry to a payment row and its booking
func (pa *PaymentAudit) ForPayment(p *Payment) *PaymentAudit {
	if p == nil {
		return pa
	}
	pa.BookingID = &p.BookingID
	if p.ID != 0 {
		pa.PaymentID = &p.ID
	}
	pa.SetTransactionID(p.TransactionID)
	amount := p.Amount
	pa.Amount = &amount
	status := string(p.Status)
	pa.PaymentStatus = &status
	return pa
}

// SetTransactionID sets the gateway transaction id
func (pa *PaymentAudit) SetTransactionID(txn string) *PaymentAudit {
	if txn != "" {
		pa.TransactionID = &txn
	}
	return pa
}

// SetPaymentStatus overrides the recorded payment status
func (pa *PaymentAudit) SetPaymentStatus(status string) *PaymentAudit {
	pa.PaymentStatus = &status
	return pa
}

// SetError sets error information
func (pa *PaymentAudit) SetError(message string) *PaymentAudit {
	pa.ErrorMessage = &message
	return pa
}

// SetDetails merges extra key/value pairs into the details document
func (pa *PaymentAudit) SetDetails(details map[string]interface{}) *PaymentAudit {
	if pa.Details == nil {
		pa.Details = JSONB{}
	}
	for k, v := range details {
		pa.Details[k] = v
	}
	return pa
}

// SetMetadata sets request metadata
func (pa *PaymentAudit) SetMetadata(ip, userAgent, correlationID string) *PaymentAudit {
	if ip != "" {
		pa.IPAddress = &ip
	}
	if userAgent != "" {
		pa.UserAgent = &userAgent
	}
	if correlationID != "" {
		pa.CorrelationID = &correlationID
	}
	return pa
}

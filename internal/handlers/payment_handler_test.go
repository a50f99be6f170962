package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/smarttransit/bus-booking-backend/internal/models"
	"github.com/smarttransit/bus-booking-backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePaymentService struct {
	confirmErr error
	lastMeta   services.RequestMeta
}

func (f *fakePaymentService) InitiatePayment(_ context.Context, _ int64, req *models.InitiatePaymentRequest, meta services.RequestMeta) (*models.PaymentInitiation, error) {
	f.lastMeta = meta
	return &models.PaymentInitiation{
		PaymentID:     11,
		TransactionID: "TXNABCDEF123456",
		Amount:        1500,
		PaymentURL:    "https://payment-gateway.com/pay/TXNABCDEF123456",
	}, nil
}

func (f *fakePaymentService) ConfirmPayment(_ context.Context, req *models.ConfirmPaymentRequest, meta services.RequestMeta) (*models.PaymentConfirmation, error) {
	f.lastMeta = meta
	if f.confirmErr != nil {
		return nil, f.confirmErr
	}
	return &models.PaymentConfirmation{TransactionID: req.TransactionID, BookingID: 5, Status: req.Status}, nil
}

func (f *fakePaymentService) GetPaymentStatus(_ context.Context, _ int64, bookingID int64) (*models.BookingPaymentStatus, error) {
	return &models.BookingPaymentStatus{
		Booking: models.BookingStatusView{ID: bookingID, TotalAmount: 1500, Status: models.BookingStatusPending},
	}, nil
}

func setupPaymentRouter(service *fakePaymentService) *gin.Engine {
	handler := NewPaymentHandler(service, testLogger())
	router := gin.New()
	router.POST("/payments/confirm", handler.ConfirmPayment)
	group := router.Group("/payments", withUser(42))
	group.POST("/initiate", handler.InitiatePayment)
	group.GET("/:bookingId/status", handler.GetPaymentStatus)
	return router
}

func TestInitiatePayment_Success(t *testing.T) {
	service := &fakePaymentService{}
	router := setupPaymentRouter(service)

	w := performRequest(router, http.MethodPost, "/payments/initiate", gin.H{
		"bookingId":     5,
		"paymentMethod": "upi",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeResponse(t, w)
	assert.Equal(t, "TXNABCDEF123456", body["transactionId"])
	assert.Equal(t, float64(11), body["paymentId"])
	assert.Equal(t, "https://payment-gateway.com/pay/TXNABCDEF123456", body["paymentUrl"])
	assert.NotEmpty(t, service.lastMeta.IPAddress)
}

func TestInitiatePayment_InvalidMethod(t *testing.T) {
	router := setupPaymentRouter(&fakePaymentService{})

	w := performRequest(router, http.MethodPost, "/payments/initiate", gin.H{
		"bookingId":     5,
		"paymentMethod": "cash",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "paymentMethod must be one of: card upi net_banking wallet", decodeResponse(t, w)["message"])
}

func TestConfirmPayment_Success(t *testing.T) {
	router := setupPaymentRouter(&fakePaymentService{})

	w := performRequest(router, http.MethodPost, "/payments/confirm", gin.H{
		"transactionId": "TXNABCDEF123456",
		"status":        "success",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeResponse(t, w)
	assert.Equal(t, "Payment success", body["message"])
	assert.Equal(t, float64(5), body["bookingId"])
}

func TestConfirmPayment_MissingFields(t *testing.T) {
	router := setupPaymentRouter(&fakePaymentService{})

	for _, payload := range []gin.H{{}, {"transactionId": "TXN1"}, {"status": "success"}} {
		w := performRequest(router, http.MethodPost, "/payments/confirm", payload)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Transaction ID and status are required", decodeResponse(t, w)["message"])
	}
}

func TestConfirmPayment_InvalidStatus(t *testing.T) {
	router := setupPaymentRouter(&fakePaymentService{})

	w := performRequest(router, http.MethodPost, "/payments/confirm", gin.H{
		"transactionId": "TXN1",
		"status":        "pending",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "status must be one of: success failed", decodeResponse(t, w)["message"])
}

func TestConfirmPayment_Replay(t *testing.T) {
	router := setupPaymentRouter(&fakePaymentService{
		confirmErr: services.InvalidStateError{Msg: "Payment is not in pending status"},
	})

	w := performRequest(router, http.MethodPost, "/payments/confirm", gin.H{
		"transactionId": "TXN1",
		"status":        "success",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Payment is not in pending status", decodeResponse(t, w)["message"])
}

func TestGetPaymentStatus_NoPayment(t *testing.T) {
	router := setupPaymentRouter(&fakePaymentService{})

	w := performRequest(router, http.MethodGet, "/payments/5/status", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeResponse(t, w)
	assert.Nil(t, body["payment"])
	booking := body["booking"].(map[string]interface{})
	assert.Equal(t, "pending", booking["status"])
}

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

type fakeBookingService struct {
	createErr error
	cancelErr error
	lastUser  int64
	lastList  models.ListBookingsRequest
}

func (f *fakeBookingService) CreateBooking(_ context.Context, userID int64, req *models.CreateBookingRequest) (*models.Booking, error) {
	f.lastUser = userID
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Booking{
		ID:               99,
		BookingReference: "BK123456ABCDEF",
		TotalAmount:      500 * float64(len(req.Passengers)),
	}, nil
}

func (f *fakeBookingService) ListBookings(_ context.Context, userID int64, req models.ListBookingsRequest) ([]models.BookingDetails, models.Pagination, error) {
	f.lastUser = userID
	f.lastList = req
	return []models.BookingDetails{}, models.NewPagination(1, 10, 0), nil
}

func (f *fakeBookingService) GetBookingDetails(_ context.Context, userID, bookingID int64) (*models.BookingDetails, error) {
	if bookingID != 5 {
		return nil, services.NotFoundError{Resource: "Booking"}
	}
	return &models.BookingDetails{
		Booking:    models.Booking{ID: bookingID, UserID: userID, Status: models.BookingStatusPending},
		Passengers: []models.Passenger{{Name: "Asha", Age: 29, Gender: "Female", SeatNumber: "11"}},
	}, nil
}

func (f *fakeBookingService) CancelBooking(_ context.Context, _ int64, _ int64) error {
	return f.cancelErr
}

type fakeTicketGenerator struct {
	err error
}

func (f *fakeTicketGenerator) GenerateTicket(_ context.Context, _ int64, _ int64) (*services.Ticket, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &services.Ticket{FileName: "ticket-BK123456ABCDEF.pdf", Content: []byte("%PDF-1.3 test")}, nil
}

func setupBookingRouter(bookings *fakeBookingService, tickets *fakeTicketGenerator) *gin.Engine {
	handler := NewBookingHandler(bookings, tickets, testLogger())
	router := gin.New()
	group := router.Group("/bookings", withUser(42))
	group.POST("/create", handler.CreateBooking)
	group.GET("", handler.ListBookings)
	group.GET("/:bookingId", handler.GetBooking)
	group.POST("/:bookingId/cancel", handler.CancelBooking)
	group.GET("/:bookingId/ticket", handler.DownloadTicket)
	return router
}

func validBookingPayload() gin.H {
	return gin.H{
		"scheduleId":    7,
		"travelDate":    "2026-10-20",
		"boardingPoint": "Central Station",
		"droppingPoint": "Airport Road",
		"passengers": []gin.H{
			{"name": "Asha", "age": 29, "gender": "Female", "seatNumber": "11"},
			{"name": "Ravi", "age": 31, "gender": "Male", "seatNumber": "12"},
		},
	}
}

func TestCreateBooking_Created(t *testing.T) {
	service := &fakeBookingService{}
	router := setupBookingRouter(service, &fakeTicketGenerator{})

	w := performRequest(router, http.MethodPost, "/bookings/create", validBookingPayload())

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decodeResponse(t, w)
	assert.Equal(t, "Booking created successfully", body["message"])
	assert.Equal(t, "BK123456ABCDEF", body["bookingReference"])
	assert.Equal(t, float64(1000), body["totalAmount"])
	assert.Equal(t, float64(99), body["bookingId"])
	assert.Equal(t, int64(42), service.lastUser)
}

func TestCreateBooking_InvalidPayload(t *testing.T) {
	router := setupBookingRouter(&fakeBookingService{}, &fakeTicketGenerator{})

	tests := []struct {
		name    string
		mutate  func(gin.H)
		message string
	}{
		{"No passengers", func(b gin.H) { b["passengers"] = []gin.H{} }, "passengers must be at least 1"},
		{"Bad gender", func(b gin.H) {
			b["passengers"] = []gin.H{{"name": "Asha", "age": 29, "gender": "F", "seatNumber": "11"}}
		}, "gender must be one of: Male Female Other"},
		{"Age out of range", func(b gin.H) {
			b["passengers"] = []gin.H{{"name": "Asha", "age": 150, "gender": "Female", "seatNumber": "11"}}
		}, "age must be at most 120"},
		{"Bad date", func(b gin.H) { b["travelDate"] = "2026/10/20" }, "travelDate must be a valid date (YYYY-MM-DD)"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			payload := validBookingPayload()
			tc.mutate(payload)

			w := performRequest(router, http.MethodPost, "/bookings/create", payload)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.message, decodeResponse(t, w)["message"])
		})
	}
}

func TestCreateBooking_SeatConflict(t *testing.T) {
	router := setupBookingRouter(&fakeBookingService{
		createErr: services.SeatConflictError{Seats: []string{"11"}},
	}, &fakeTicketGenerator{})

	w := performRequest(router, http.MethodPost, "/bookings/create", validBookingPayload())

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Seats 11 are already booked", decodeResponse(t, w)["message"])
}

func TestListBookings_QueryBinding(t *testing.T) {
	service := &fakeBookingService{}
	router := setupBookingRouter(service, &fakeTicketGenerator{})

	w := performRequest(router, http.MethodGet, "/bookings?page=2&limit=5&status=confirmed", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.ListBookingsRequest{Page: 2, Limit: 5, Status: "confirmed"}, service.lastList)

	body := decodeResponse(t, w)
	assert.Equal(t, []interface{}{}, body["bookings"])
	assert.Contains(t, body, "pagination")
}

func TestListBookings_InvalidStatus(t *testing.T) {
	router := setupBookingRouter(&fakeBookingService{}, &fakeTicketGenerator{})

	w := performRequest(router, http.MethodGet, "/bookings?status=refunded", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetBooking(t *testing.T) {
	router := setupBookingRouter(&fakeBookingService{}, &fakeTicketGenerator{})

	w := performRequest(router, http.MethodGet, "/bookings/5", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	booking := decodeResponse(t, w)["booking"].(map[string]interface{})
	assert.Len(t, booking["passengers"], 1)
	assert.NotContains(t, booking, "userId")

	w = performRequest(router, http.MethodGet, "/bookings/6", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Booking not found", decodeResponse(t, w)["message"])
}

func TestCancelBooking(t *testing.T) {
	router := setupBookingRouter(&fakeBookingService{}, &fakeTicketGenerator{})

	w := performRequest(router, http.MethodPost, "/bookings/5/cancel", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Booking cancelled successfully", decodeResponse(t, w)["message"])
}

func TestCancelBooking_TodayRejected(t *testing.T) {
	router := setupBookingRouter(&fakeBookingService{
		cancelErr: services.InvalidStateError{Msg: "Cannot cancel booking for past or today's travel date"},
	}, &fakeTicketGenerator{})

	w := performRequest(router, http.MethodPost, "/bookings/5/cancel", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Cannot cancel booking for past or today's travel date", decodeResponse(t, w)["message"])
}

func TestDownloadTicket(t *testing.T) {
	router := setupBookingRouter(&fakeBookingService{}, &fakeTicketGenerator{})

	w := performRequest(router, http.MethodGet, "/bookings/5/ticket", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="ticket-BK123456ABCDEF.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.3 test", w.Body.String())
}

func TestDownloadTicket_PendingBooking(t *testing.T) {
	router := setupBookingRouter(&fakeBookingService{}, &fakeTicketGenerator{
		err: services.InvalidStateError{Msg: "Ticket is available only for confirmed bookings"},
	})

	w := performRequest(router, http.MethodGet, "/bookings/5/ticket", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

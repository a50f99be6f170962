package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/bus-booking-backend/internal/middleware"
	"github.com/smarttransit/bus-booking-backend/internal/services"
	"github.com/smarttransit/bus-booking-backend/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := validator.RegisterBindings(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// withUser stands in for AuthMiddleware
func withUser(userID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserContextKey, middleware.UserContext{
			UserID:   userID,
			Email:    "asha@example.com",
			FullName: "Asha Rao",
		})
		c.Next()
	}
}

func performRequest(router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			payload, _ := json.Marshal(b)
			reader = bytes.NewBuffer(payload)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRespondServiceError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"Validation", services.ValidationError{Msg: "No fields to update"}, http.StatusBadRequest, "No fields to update"},
		{"Not found", services.NotFoundError{Resource: "Booking"}, http.StatusNotFound, "Booking not found"},
		{"Conflict", services.ConflictError{Msg: "Email already exists"}, http.StatusConflict, "Email already exists"},
		{"Seat conflict", services.SeatConflictError{Seats: []string{"5", "6"}}, http.StatusConflict, "Seats 5, 6 are already booked"},
		{"Insufficient seats", services.InsufficientSeatsError{Requested: 3, Available: 1}, http.StatusConflict, "Insufficient seats available"},
		{"Invalid state", services.InvalidStateError{Msg: "Payment is not in pending status"}, http.StatusBadRequest, "Payment is not in pending status"},
		{"Unauthorized", services.UnauthorizedError{Msg: "Invalid email or password"}, http.StatusUnauthorized, "Invalid email or password"},
		{"Constraint", &pq.Error{Code: "23505"}, http.StatusConflict, "Data constraint violation"},
		{"Internal", errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/", func(c *gin.Context) {
				respondServiceError(c, testLogger(), tc.err)
			})

			w := performRequest(router, http.MethodGet, "/", nil)

			assert.Equal(t, tc.status, w.Code)
			body := decodeResponse(t, w)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tc.message, body["message"])
			assert.NotContains(t, body, "error")
		})
	}
}

func TestRespondServiceError_DevelopmentDetail(t *testing.T) {
	router := gin.New()
	router.GET("/", func(c *gin.Context) {
		c.Set(EnvironmentKey, "development")
		respondServiceError(c, testLogger(), errors.New("connection reset"))
	})

	w := performRequest(router, http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "connection reset", decodeResponse(t, w)["error"])
}

func TestRespondServiceError_WrappedError(t *testing.T) {
	router := gin.New()
	router.GET("/", func(c *gin.Context) {
		respondServiceError(c, testLogger(), errors.Join(errors.New("tx"), services.NotFoundError{Resource: "Schedule"}))
	})

	w := performRequest(router, http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Schedule not found", decodeResponse(t, w)["message"])
}

func TestParseIDParam(t *testing.T) {
	router := gin.New()
	router.GET("/bookings/:bookingId", func(c *gin.Context) {
		id, ok := parseIDParam(c, "bookingId", "booking ID")
		if ok {
			c.JSON(http.StatusOK, gin.H{"id": id})
		}
	})

	assert.Equal(t, http.StatusOK, performRequest(router, http.MethodGet, "/bookings/12", nil).Code)

	for _, bad := range []string{"abc", "0", "-4"} {
		w := performRequest(router, http.MethodGet, "/bookings/"+bad, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid booking ID", decodeResponse(t, w)["message"])
	}
}


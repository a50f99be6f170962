package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smarttransit/bus-booking-backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLimiter struct {
	err  error
	keys []string
}

func (f *fakeLimiter) Allow(_ context.Context, key string) error {
	f.keys = append(f.keys, key)
	return f.err
}

func okHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func TestRequestID_Generated(t *testing.T) {
	router := setupTestRouter()
	router.GET("/ping", RequestID(), func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	id := w.Header().Get(RequestIDHeader)
	assert.Len(t, id, 36)
	assert.Equal(t, id, w.Body.String())
}

func TestRequestID_Propagated(t *testing.T) {
	router := setupTestRouter()
	router.GET("/ping", RequestID(), okHandler)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
}

func TestRateLimit_Allows(t *testing.T) {
	limiter := &fakeLimiter{}
	router := setupTestRouter()
	router.GET("/api/v1/ping", RateLimit(limiter, setupTestLogger()), okHandler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.4")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"198.51.100.4"}, limiter.keys)
}

func TestRateLimit_Exceeded(t *testing.T) {
	limiter := &fakeLimiter{err: &services.RateLimitError{
		Message:    "Too many requests from this IP, please try again later.",
		RetryAfter: time.Now().Add(90 * time.Second),
	}}
	router := setupTestRouter()
	router.GET("/api/v1/ping", RateLimit(limiter, setupTestLogger()), okHandler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	retryAfter, err := strconv.Atoi(w.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.InDelta(t, 90, retryAfter, 2)

	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Too many requests from this IP, please try again later.", body["message"])
}

func TestRateLimit_LimiterFailureFailsOpen(t *testing.T) {
	limiter := &fakeLimiter{err: errors.New("redis down")}
	router := setupTestRouter()
	router.GET("/api/v1/ping", RateLimit(limiter, setupTestLogger()), okHandler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWebhookSecret(t *testing.T) {
	router := setupTestRouter()
	router.POST("/confirm", WebhookSecret("s3cret"), okHandler)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"Missing", "", http.StatusUnauthorized},
		{"Wrong", "nope", http.StatusUnauthorized},
		{"Correct", "s3cret", http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/confirm", nil)
			if tc.header != "" {
				req.Header.Set(WebhookSecretHeader, tc.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}

func TestWebhookSecret_Disabled(t *testing.T) {
	router := setupTestRouter()
	router.POST("/confirm", WebhookSecret(""), okHandler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/confirm", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTimeout_SetsDeadline(t *testing.T) {
	router := setupTestRouter()
	router.GET("/slow", Timeout(50*time.Millisecond), func(c *gin.Context) {
		deadline, ok := c.Request.Context().Deadline()
		require.True(t, ok)
		assert.True(t, time.Until(deadline) <= 50*time.Millisecond)

		<-c.Request.Context().Done()
		c.Status(http.StatusGatewayTimeout)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}

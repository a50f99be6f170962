package middleware

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/bus-booking-backend/internal/services"
	"github.com/smarttransit/bus-booking-backend/internal/utils"
)

// RateLimit rejects clients over their request budget with 429 and a
// Retry-After header. Limiter failures are logged and the request passes.
func RateLimit(limiter services.RateLimiter, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := utils.GetRealIP(c)

		err := limiter.Allow(c.Request.Context(), ip)
		if err == nil {
			c.Next()
			return
		}

		var rateLimitErr *services.RateLimitError
		if !errors.As(err, &rateLimitErr) {
			logger.WithError(err).WithField("ip", ip).Error("Rate limiter unavailable")
			c.Next()
			return
		}

		retryAfter := int(math.Ceil(time.Until(rateLimitErr.RetryAfter).Seconds()))
		if retryAfter < 1 {
			retryAfter = 1
		}

		logger.WithFields(logrus.Fields{
			"ip":          ip,
			"path":        c.Request.URL.Path,
			"retry_after": retryAfter,
		}).Warn("Rate limit exceeded")

		c.Header("Retry-After", strconv.Itoa(retryAfter))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"success": false,
			"message": rateLimitErr.Message,
		})
	}
}

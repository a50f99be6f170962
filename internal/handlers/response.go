package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/bus-booking-backend/internal/database"
	"github.com/smarttransit/bus-booking-backend/internal/middleware"
	"github.com/smarttransit/bus-booking-backend/internal/services"
	"github.com/smarttransit/bus-booking-backend/internal/utils"
	"github.com/smarttransit/bus-booking-backend/pkg/validator"
)

// EnvironmentKey is the gin context key holding the deployment environment
const EnvironmentKey = "environment"

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

// respondBindingError reports the first failed binding rule as a 400
func respondBindingError(c *gin.Context, err error) {
	respondError(c, http.StatusBadRequest, validator.FieldErrorMessage(err))
}

// respondServiceError maps service and store errors onto HTTP responses
func respondServiceError(c *gin.Context, logger *logrus.Logger, err error) {
	var (
		notFound     services.NotFoundError
		validation   services.ValidationError
		conflict     services.ConflictError
		seatConflict services.SeatConflictError
		insufficient services.InsufficientSeatsError
		invalidState services.InvalidStateError
		unauthorized services.UnauthorizedError
	)

	switch {
	case errors.As(err, &validation):
		respondError(c, http.StatusBadRequest, validation.Error())
	case errors.As(err, &notFound):
		respondError(c, http.StatusNotFound, notFound.Error())
	case errors.As(err, &seatConflict):
		respondError(c, http.StatusConflict, seatConflict.Error())
	case errors.As(err, &insufficient):
		respondError(c, http.StatusConflict, insufficient.Error())
	case errors.As(err, &conflict):
		respondError(c, http.StatusConflict, conflict.Error())
	case errors.As(err, &invalidState):
		respondError(c, http.StatusBadRequest, invalidState.Error())
	case errors.As(err, &unauthorized):
		respondError(c, http.StatusUnauthorized, unauthorized.Error())
	case database.IsConstraintViolation(err):
		logger.WithError(err).WithField("path", c.Request.URL.Path).Warn("Constraint violation")
		respondError(c, http.StatusConflict, "Data constraint violation")
	default:
		logger.WithError(err).WithFields(logrus.Fields{
			"path":       c.Request.URL.Path,
			"request_id": middleware.GetRequestID(c),
		}).Error("Request failed")

		body := gin.H{
			"success": false,
			"message": "Internal server error",
		}
		if c.GetString(EnvironmentKey) == "development" {
			body["error"] = err.Error()
		}
		c.JSON(http.StatusInternalServerError, body)
	}
}

// parseIDParam reads a positive integer path parameter
func parseIDParam(c *gin.Context, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "Invalid "+label)
		return 0, false
	}
	return id, true
}

// requestMeta collects the caller details stored with audit entries
func requestMeta(c *gin.Context) services.RequestMeta {
	return services.RequestMeta{
		IPAddress: utils.GetRealIP(c),
		UserAgent: utils.GetUserAgent(c),
		RequestID: middleware.GetRequestID(c),
	}
}

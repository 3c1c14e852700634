package api

import (
	"errors"
	"net/http"
	"time"

	"alcyxob/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ErrorDetails is the body of every non-validation error response.
type ErrorDetails struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Details   string    `json:"details"`
}

// ValidationErrorResponse lists the rejected request fields.
type ValidationErrorResponse struct {
	Timestamp time.Time         `json:"timestamp"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors"`
}

func requestDetails(c *gin.Context) string {
	return "uri=" + c.Request.URL.Path
}

// respondError maps a service error onto the HTTP contract and aborts the request.
// Conflicts are reported as 400.
func respondError(c *gin.Context, err error) {
	now := time.Now().UTC()

	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusBadRequest, ValidationErrorResponse{
			Timestamp: now,
			Message:   "Validation Failed",
			Errors:    verr.Fields,
		})
	case errors.Is(err, service.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, ErrorDetails{Timestamp: now, Message: err.Error(), Details: requestDetails(c)})
	case errors.Is(err, service.ErrConflict):
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorDetails{Timestamp: now, Message: err.Error(), Details: requestDetails(c)})
	case errors.Is(err, service.ErrAuthenticationFailed):
		c.AbortWithStatus(http.StatusUnauthorized)
	case errors.Is(err, service.ErrStorageDisabled):
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, ErrorDetails{Timestamp: now, Message: err.Error(), Details: requestDetails(c)})
	default:
		log.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled error")
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorDetails{
			Timestamp: now,
			Message:   "An unexpected error occurred",
			Details:   requestDetails(c),
		})
	}
}

// bindJSON decodes the request body into dst, answering 400 when it cannot.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, &service.ValidationError{Fields: map[string]string{"body": "malformed request body: " + err.Error()}})
		return false
	}
	return true
}

package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/flightsearch/internal/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusFor maps a service error onto an HTTP status. Validation is checked
// first because a missing referenced entity is reported as bad input.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, logger *zap.SugaredLogger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Errorw("request failed", "route", c.FullPath(), "method", c.Request.Method, "error", err)
		c.AbortWithStatusJSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

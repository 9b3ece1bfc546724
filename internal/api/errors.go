package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"musclemap/prescription-engine/internal/learning"
	"musclemap/prescription-engine/internal/logger"
	"musclemap/prescription-engine/internal/service"
)

// respondError maps service errors onto HTTP statuses. Unknown errors are
// logged and reported as 500 without detail.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, service.ErrValidationFailed),
		errors.Is(err, learning.ErrInvalidFeedback),
		errors.Is(err, learning.ErrInvalidSet):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrPrescriptionNotFound),
		errors.Is(err, service.ErrExerciseNotFound),
		errors.Is(err, learning.ErrUnknownExercise):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrPrescriptionAccessDenied):
		// do not reveal that another user's prescription exists
		abortWithError(c, http.StatusNotFound, service.ErrPrescriptionNotFound.Error())
	case errors.Is(err, service.ErrMediaNotAvailable):
		abortWithError(c, http.StatusServiceUnavailable, err.Error())
	default:
		log.Error("request failed", "path", c.FullPath(), "error", err)
		abortWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}

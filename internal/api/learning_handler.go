package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"musclemap/prescription-engine/internal/domain"
	"musclemap/prescription-engine/internal/logger"
	"musclemap/prescription-engine/internal/service"
)

// LearningHandler serves feedback, set logging and the learned-preference reads.
type LearningHandler struct {
	log      *logger.Logger
	learning service.LearningService
}

func NewLearningHandler(log *logger.Logger, learning service.LearningService) *LearningHandler {
	return &LearningHandler{log: logger.OrNop(log), learning: learning}
}

// SubmitFeedback godoc
// @Summary Rate a completed prescription
// @Tags Learning
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param feedback body domain.PrescriptionFeedback true "Feedback"
// @Success 201 {object} domain.PrescriptionFeedback
// @Router /feedback [post]
func (h *LearningHandler) SubmitFeedback(c *gin.Context) {
	var f domain.PrescriptionFeedback
	if err := c.ShouldBindJSON(&f); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	stored, err := h.learning.SubmitFeedback(c.Request.Context(), userID, &f)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, stored)
}

func (h *LearningHandler) LogSet(c *gin.Context) {
	var set domain.SetLog
	if err := c.ShouldBindJSON(&set); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	perf, err := h.learning.LogSet(c.Request.Context(), userID, set)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, perf)
}

func (h *LearningHandler) CompleteWorkout(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	invalidated := h.learning.CompleteWorkout(c.Request.Context(), userID)
	c.JSON(http.StatusAccepted, gin.H{"invalidated": invalidated})
}

func (h *LearningHandler) Preferences(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	prof, err := h.learning.Preferences(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, prof)
}

func (h *LearningHandler) Weights(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	w, err := h.learning.Weights(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

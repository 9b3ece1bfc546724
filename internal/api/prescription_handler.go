package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"musclemap/prescription-engine/internal/logger"
	"musclemap/prescription-engine/internal/service"
)

type PrescriptionHandler struct {
	log           *logger.Logger
	prescriptions service.PrescriptionService
}

func NewPrescriptionHandler(log *logger.Logger, prescriptions service.PrescriptionService) *PrescriptionHandler {
	return &PrescriptionHandler{log: logger.OrNop(log), prescriptions: prescriptions}
}

// Generate godoc
// @Summary Generate a prescription
// @Description Scores the catalog for the caller and returns a complete session.
// @Tags Prescriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.GenerateRequest true "Request-scoped context"
// @Success 201 {object} domain.PrescriptionResult
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /prescriptions [post]
func (h *PrescriptionHandler) Generate(c *gin.Context) {
	var req service.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	result, err := h.prescriptions.Generate(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Get godoc
// @Summary Get a stored prescription
// @Tags Prescriptions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Prescription ID"
// @Success 200 {object} domain.PrescriptionResult
// @Failure 404 {object} gin.H "Not found"
// @Router /prescriptions/{id} [get]
func (h *PrescriptionHandler) Get(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	result, err := h.prescriptions.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

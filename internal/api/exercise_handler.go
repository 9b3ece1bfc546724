package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"musclemap/prescription-engine/internal/domain"
	"musclemap/prescription-engine/internal/logger"
	"musclemap/prescription-engine/internal/service"
)

type ExerciseHandler struct {
	log     *logger.Logger
	catalog service.CatalogService
}

func NewExerciseHandler(log *logger.Logger, catalog service.CatalogService) *ExerciseHandler {
	return &ExerciseHandler{log: logger.OrNop(log), catalog: catalog}
}

// ExerciseSummary is the list view of a catalog entry.
type ExerciseSummary struct {
	ID              string                 `json:"id"`
	Name            string                 `json:"name"`
	MovementPattern domain.MovementPattern `json:"movementPattern"`
	PrimaryMuscles  []string               `json:"primaryMuscles"`
	Equipment       []string               `json:"equipment,omitempty"`
	HasVideo        bool                   `json:"hasVideo"`
}

func summarize(ex *domain.ExerciseMetadata) ExerciseSummary {
	return ExerciseSummary{
		ID:              ex.ID,
		Name:            ex.Name,
		MovementPattern: ex.MovementPattern,
		PrimaryMuscles:  ex.PrimaryMuscleIDs(),
		Equipment:       ex.Equipment.Required,
		HasVideo:        ex.VideoObjectKey != "",
	}
}

// ListExercises godoc
// @Summary List the exercise catalog
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param pattern query string false "Filter by movement pattern"
// @Success 200 {array} ExerciseSummary
// @Router /exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	all, err := h.catalog.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	pattern := domain.MovementPattern(c.Query("pattern"))
	out := make([]ExerciseSummary, 0, len(all))
	for _, ex := range all {
		if pattern != "" && ex.MovementPattern != pattern {
			continue
		}
		out = append(out, summarize(ex))
	}
	c.JSON(http.StatusOK, out)
}

func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	ex, err := h.catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, ex)
}

// UpsertExercise godoc
// @Summary Create or replace a catalog entry
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Param exercise body domain.ExerciseMetadata true "Exercise"
// @Success 200 {object} domain.ExerciseMetadata
// @Failure 400 {object} gin.H "Validation error"
// @Failure 403 {object} gin.H "Forbidden (not an admin)"
// @Router /admin/exercises/{id} [put]
func (h *ExerciseHandler) UpsertExercise(c *gin.Context) {
	var ex domain.ExerciseMetadata
	if err := c.ShouldBindJSON(&ex); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	id := c.Param("id")
	if ex.ID != "" && ex.ID != id {
		abortWithError(c, http.StatusBadRequest, "Exercise id in body does not match the path")
		return
	}
	ex.ID = id

	saved, err := h.catalog.Upsert(c.Request.Context(), &ex)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

type VideoUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

// RequestVideoUpload godoc
// @Summary Get a presigned URL to upload a demo video
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Param request body VideoUploadRequest true "Content type of the upload"
// @Success 200 {object} service.VideoUpload
// @Router /admin/exercises/{id}/video-upload-url [post]
func (h *ExerciseHandler) RequestVideoUpload(c *gin.Context) {
	var req VideoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	up, err := h.catalog.RequestVideoUpload(c.Request.Context(), c.Param("id"), req.ContentType)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, up)
}

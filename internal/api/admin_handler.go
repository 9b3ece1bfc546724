package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"musclemap/prescription-engine/internal/cache"
	"musclemap/prescription-engine/internal/logger"
)

// AdminHandler exposes cache maintenance for operators and host services.
type AdminHandler struct {
	log   *logger.Logger
	cache *cache.TieredCache
}

func NewAdminHandler(log *logger.Logger, c *cache.TieredCache) *AdminHandler {
	return &AdminHandler{log: logger.OrNop(log).With("component", "AdminHandler"), cache: c}
}

// CacheEventRequest names a domain event raised outside the engine. An empty
// key clears the entity for every user.
type CacheEventRequest struct {
	Event cache.Event `json:"event" binding:"required"`
	Key   string      `json:"key"`
}

// FireCacheEvent godoc
// @Summary Invalidate cached entities for a domain event
// @Description Events no cached entity listens for are rejected.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CacheEventRequest true "Event"
// @Success 200 {object} gin.H
// @Failure 400 {object} gin.H "Unknown event"
// @Router /admin/cache/events [post]
func (h *AdminHandler) FireCacheEvent(c *gin.Context) {
	var req CacheEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	if !cache.KnownEvent(req.Event) {
		abortWithError(c, http.StatusBadRequest, "Unknown cache event: "+string(req.Event))
		return
	}
	invalidated := h.cache.InvalidateOnEvent(c.Request.Context(), req.Event, req.Key)
	h.log.Info("cache event fired", "event", req.Event, "key", req.Key, "entities", len(invalidated))
	c.JSON(http.StatusOK, gin.H{"event": req.Event, "invalidated": invalidated})
}

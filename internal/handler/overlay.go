package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"survey-app/internal/geocache"
	"survey-app/internal/models"

	"github.com/gin-gonic/gin"
)

// OverlayService interface for dependency injection
type OverlayService interface {
	Get(ctx context.Context) (*models.FeatureCollection, error)
	Download(ctx context.Context, b models.Bounds) (geocache.DownloadResult, error)
	Delete(ctx context.Context) error
}

// OverlayHandler handles the road overlay
type OverlayHandler struct {
	service OverlayService
}

// NewOverlayHandler creates a new overlay handler
func NewOverlayHandler(svc OverlayService) *OverlayHandler {
	return &OverlayHandler{service: svc}
}

// Get handles GET /overlay
func (h *OverlayHandler) Get(c *gin.Context) {
	fc, err := h.service.Get(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if fc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no overlay downloaded"})
		return
	}
	c.JSON(http.StatusOK, fc)
}

// Download handles POST /overlay/download. An empty body downloads the
// last reported map viewport.
func (h *OverlayHandler) Download(c *gin.Context) {
	var b models.Bounds
	if err := c.ShouldBindJSON(&b); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bounding box"})
		return
	}

	result, err := h.service.Download(c.Request.Context(), b)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Delete handles DELETE /overlay
func (h *OverlayHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

package handler

import (
	"context"
	"net/http"
	"strconv"

	"survey-app/internal/models"
	"survey-app/internal/service"

	"github.com/gin-gonic/gin"
)

// PublishService interface for dependency injection
type PublishService interface {
	Publish(ctx context.Context) (service.PublishResult, error)
	Nearby(ctx context.Context, point models.Coordinate, radius float64, limit int) ([]models.NearbyRecord, error)
}

// PublishHandler handles PostGIS publication and nearby lookups
type PublishHandler struct {
	service PublishService
}

// NewPublishHandler creates a new publish handler
func NewPublishHandler(svc PublishService) *PublishHandler {
	return &PublishHandler{service: svc}
}

// Publish handles POST /publish
func (h *PublishHandler) Publish(c *gin.Context) {
	result, err := h.service.Publish(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Nearby handles GET /records/nearby requests
func (h *PublishHandler) Nearby(c *gin.Context) {
	latStr := c.Query("lat")
	lonStr := c.Query("lon")

	if latStr == "" || lonStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameters 'lat' and 'lon'"})
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid latitude format"})
		return
	}

	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid longitude format"})
		return
	}

	radius, err := strconv.ParseFloat(c.DefaultQuery("radius", "0"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid radius format"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit format"})
		return
	}

	nearby, err := h.service.Nearby(c.Request.Context(), models.Coordinate{Lat: lat, Lon: lon}, radius, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if len(nearby) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no records found near the specified coordinates"})
		return
	}

	c.JSON(http.StatusOK, nearby)
}

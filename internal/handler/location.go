package handler

import (
	"context"
	"net/http"

	"survey-app/internal/models"
	"survey-app/internal/service"
	"survey-app/internal/session"

	"github.com/gin-gonic/gin"
)

// LocationService interface for dependency injection
type LocationService interface {
	HandleEvent(ctx context.Context, ev session.Event) (service.EventResult, error)
	MapView(ctx context.Context, tiles string) (models.MapView, error)
}

// LocationHandler is the map renderer's side of the render/event cycle
type LocationHandler struct {
	service LocationService
}

// NewLocationHandler creates a new location handler
func NewLocationHandler(svc LocationService) *LocationHandler {
	return &LocationHandler{service: svc}
}

// eventRequest carries exactly one map or manual input event.
type eventRequest struct {
	Type  string   `json:"type" binding:"required,oneof=click recenter bounds manual"`
	Lat   *float64 `json:"lat"`
	Lon   *float64 `json:"lon"`
	South float64  `json:"south"`
	West  float64  `json:"west"`
	North float64  `json:"north"`
	East  float64  `json:"east"`
}

func (r eventRequest) event() (session.Event, bool) {
	if r.Type == "bounds" {
		return session.MapBounds{Bounds: models.Bounds{South: r.South, West: r.West, North: r.North, East: r.East}}, true
	}
	if r.Lat == nil || r.Lon == nil {
		return nil, false
	}
	p := models.Coordinate{Lat: *r.Lat, Lon: *r.Lon}
	switch r.Type {
	case "click":
		return session.MapClick{Point: p}, true
	case "recenter":
		return session.MapRecenter{Point: p}, true
	default:
		return session.ManualInput{Point: p}, true
	}
}

// Map handles GET /map
func (h *LocationHandler) Map(c *gin.Context) {
	view, err := h.service.MapView(c.Request.Context(), c.DefaultQuery("tiles", models.TilesOSM))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Event handles POST /map/events
func (h *LocationHandler) Event(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event type must be one of click, recenter, bounds, manual"})
		return
	}

	ev, ok := req.event()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields 'lat' and 'lon'"})
		return
	}

	result, err := h.service.HandleEvent(c.Request.Context(), ev)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

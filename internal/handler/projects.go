package handler

import (
	"context"
	"net/http"

	"survey-app/internal/service"

	"github.com/gin-gonic/gin"
)

// ProjectService interface for dependency injection
type ProjectService interface {
	List(ctx context.Context) (service.ProjectList, error)
	Create(ctx context.Context, name string) (string, error)
	Select(ctx context.Context, name string) (string, error)
}

// ProjectsHandler handles project registry requests
type ProjectsHandler struct {
	service ProjectService
}

// NewProjectsHandler creates a new projects handler
func NewProjectsHandler(svc ProjectService) *ProjectsHandler {
	return &ProjectsHandler{service: svc}
}

type projectRequest struct {
	Name string `json:"name"`
}

// List handles GET /projects
func (h *ProjectsHandler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Create handles POST /projects
func (h *ProjectsHandler) Create(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	name, err := h.service.Create(c.Request.Context(), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"current": name})
}

// Select handles PUT /projects/current
func (h *ProjectsHandler) Select(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	name, err := h.service.Select(c.Request.Context(), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"current": name})
}

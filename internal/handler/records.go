package handler

import (
	"context"
	"net/http"

	"survey-app/internal/models"
	"survey-app/internal/session"

	"github.com/gin-gonic/gin"
)

// RecordService interface for dependency injection
type RecordService interface {
	Records(ctx context.Context) ([]models.Record, error)
	Submit(ctx context.Context, form session.Form) (models.Record, error)
	ReplaceRecords(ctx context.Context, records []models.Record) error
	Prefill(ctx context.Context) (session.Prefill, error)
}

// RecordsHandler handles record listing, submission and editing
type RecordsHandler struct {
	service RecordService
}

// NewRecordsHandler creates a new records handler
func NewRecordsHandler(svc RecordService) *RecordsHandler {
	return &RecordsHandler{service: svc}
}

// submitRequest is the form controller's payload.
type submitRequest struct {
	Species   string `json:"species" binding:"required"`
	Method    string `json:"method"`
	Collector string `json:"collector"`
	Notes     string `json:"notes"`
	Date      string `json:"date"`
	Time      string `json:"time"`
}

// List handles GET /records
func (h *RecordsHandler) List(c *gin.Context) {
	records, err := h.service.Records(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// Submit handles POST /records
func (h *RecordsHandler) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "species name is required"})
		return
	}

	record, err := h.service.Submit(c.Request.Context(), session.Form{
		Species:   req.Species,
		Method:    req.Method,
		Collector: req.Collector,
		Notes:     req.Notes,
		Date:      req.Date,
		Time:      req.Time,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// Replace handles PUT /records, used after editing or deleting rows
func (h *RecordsHandler) Replace(c *gin.Context) {
	var records []models.Record
	if err := c.ShouldBindJSON(&records); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a list of records"})
		return
	}
	if err := h.service.ReplaceRecords(c.Request.Context(), records); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Prefill handles GET /form
func (h *RecordsHandler) Prefill(c *gin.Context) {
	p, err := h.service.Prefill(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

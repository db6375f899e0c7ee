package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"survey-app/internal/service"

	"github.com/gin-gonic/gin"
)

// maxUploadSize bounds an uploaded table.
const maxUploadSize = 32 << 20

// TransferService interface for dependency injection
type TransferService interface {
	Export(ctx context.Context) (service.Export, error)
	Preview(ctx context.Context, r io.Reader) (service.ImportPreview, error)
	Merge(ctx context.Context, r io.Reader) (service.ImportResult, error)
	Replace(ctx context.Context, r io.Reader) (service.ImportResult, error)
}

// TransferHandler handles CSV export and import
type TransferHandler struct {
	service TransferService
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(svc TransferService) *TransferHandler {
	return &TransferHandler{service: svc}
}

// Export handles GET /export
func (h *TransferHandler) Export(c *gin.Context) {
	export, err := h.service.Export(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", export.Data)
}

// Preview handles POST /import/preview
func (h *TransferHandler) Preview(c *gin.Context) {
	h.withUpload(c, func(r io.Reader) {
		preview, err := h.service.Preview(c.Request.Context(), r)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, preview)
	})
}

// Merge handles POST /import/merge
func (h *TransferHandler) Merge(c *gin.Context) {
	h.withUpload(c, func(r io.Reader) {
		result, err := h.service.Merge(c.Request.Context(), r)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	})
}

// Replace handles POST /import/replace
func (h *TransferHandler) Replace(c *gin.Context) {
	h.withUpload(c, func(r io.Reader) {
		result, err := h.service.Replace(c.Request.Context(), r)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	})
}

// withUpload hands fn the uploaded table, taken from the multipart field
// "file" or, for any other content type, the raw request body.
func (h *TransferHandler) withUpload(c *gin.Context, fn func(io.Reader)) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing required form field 'file'"})
			return
		}
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read uploaded file"})
			return
		}
		defer f.Close()
		fn(f)
		return
	}

	if c.Request.ContentLength == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty upload"})
		return
	}
	fn(c.Request.Body)
}

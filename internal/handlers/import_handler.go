package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/dirtboard/internal/errors"
	"github.com/stwalsh4118/dirtboard/internal/importer"
	"github.com/stwalsh4118/dirtboard/internal/logger"
	"github.com/stwalsh4118/dirtboard/internal/middleware"
)

// uploadField is the multipart field carrying the spreadsheet.
const uploadField = "file"

// LeadImporter loads a lead spreadsheet.
type LeadImporter interface {
	Import(ctx context.Context, src io.Reader) (*importer.Result, error)
}

// ImportHandler handles lead spreadsheet uploads.
type ImportHandler struct {
	importer LeadImporter
	maxBytes int64
}

// NewImportHandler creates a new ImportHandler. Uploads larger than maxBytes
// are rejected with 413.
func NewImportHandler(importer LeadImporter, maxBytes int64) *ImportHandler {
	return &ImportHandler{importer: importer, maxBytes: maxBytes}
}

// Import handles POST /api/v1/imports.
func (h *ImportHandler) Import(c *gin.Context) {
	if c.Request.ContentLength > h.maxBytes {
		apierrors.PayloadTooLarge(c, h.maxBytes)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)

	header, err := c.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			apierrors.PayloadTooLarge(c, h.maxBytes)
			return
		}
		apierrors.BadRequest(c, "A CSV file is required in the \"file\" field", map[string]interface{}{
			"reason": err.Error(),
		})
		return
	}

	file, err := header.Open()
	if err != nil {
		apierrors.InternalServerError(c, "Failed to read upload", err)
		return
	}
	defer file.Close()

	result, err := h.importer.Import(c.Request.Context(), file)
	if err != nil {
		if errors.Is(err, importer.ErrMissingColumn) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to import leads", err)
		return
	}

	if log := middleware.GetLogger(c); log != nil {
		log.Info("Lead import processed", logger.Fields{
			"filename": header.Filename,
			"rows":     result.Rows,
			"imported": result.Imported,
			"skipped":  result.Skipped,
		})
	}
	c.JSON(http.StatusOK, result)
}

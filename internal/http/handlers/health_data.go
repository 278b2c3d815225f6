package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/mindbridge-backend/internal/http/response"
	"github.com/yungbote/mindbridge-backend/internal/modules/health"
)

// DefaultImportMaxBytes caps an uploaded export archive.
const DefaultImportMaxBytes int64 = 512 << 20

const multipartOverhead = 1 << 20

type HealthService interface {
	ImportHealthExport(ctx context.Context, userID uuid.UUID, archive io.ReaderAt, size int64) (health.ImportResult, error)
	GetHealthSummary(ctx context.Context, userID uuid.UUID, days int) (*health.Summary, error)
}

type HealthDataHandler struct {
	svc      HealthService
	maxBytes int64
}

func NewHealthDataHandler(svc HealthService, maxBytes int64) *HealthDataHandler {
	if maxBytes <= 0 {
		maxBytes = DefaultImportMaxBytes
	}
	return &HealthDataHandler{svc: svc, maxBytes: maxBytes}
}

// POST /api/health/import (multipart field "file")
func (h *HealthDataHandler) Import(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RespondError(c, http.StatusRequestEntityTooLarge, "archive_too_large", fmt.Errorf("archive exceeds %d bytes", h.maxBytes))
			return
		}
		response.RespondError(c, http.StatusBadRequest, "missing_file", errors.New("multipart field \"file\" is required"))
		return
	}
	if fh.Size > h.maxBytes {
		response.RespondError(c, http.StatusRequestEntityTooLarge, "archive_too_large", fmt.Errorf("archive exceeds %d bytes", h.maxBytes))
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "unreadable_file", err)
		return
	}
	defer f.Close()

	res, err := h.svc.ImportHealthExport(c.Request.Context(), userID, f, fh.Size)
	if err != nil {
		response.RespondErr(c, err, "import_failed")
		return
	}
	response.RespondOK(c, res)
}

// GET /api/health/summary?days=30
func (h *HealthDataHandler) Summary(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	days, ok := queryInt(c, "days", health.DefaultSummaryDays)
	if !ok {
		return
	}
	summary, err := h.svc.GetHealthSummary(c.Request.Context(), userID, days)
	if err != nil {
		response.RespondErr(c, err, "summary_failed")
		return
	}
	if summary == nil {
		c.Status(http.StatusNoContent)
		return
	}
	response.RespondOK(c, summary)
}

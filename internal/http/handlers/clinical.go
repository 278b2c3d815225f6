package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/mindbridge-backend/internal/domain"
	domainchat "github.com/yungbote/mindbridge-backend/internal/domain/chat"
	"github.com/yungbote/mindbridge-backend/internal/domain/clinical"
	"github.com/yungbote/mindbridge-backend/internal/http/response"
	modclinical "github.com/yungbote/mindbridge-backend/internal/modules/clinical"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ClinicalService interface {
	GetUserContext(ctx context.Context, userID uuid.UUID) (modclinical.UserContext, error)
	AnalyzeAndMaybeNote(ctx context.Context, userID uuid.UUID, messages []domainchat.Message, trigger clinical.TriggerType) (*types.ClinicalNote, error)
	ListNotes(ctx context.Context, filter clinical.ListFilter) ([]*types.ClinicalNote, error)
	GetNote(ctx context.Context, id uuid.UUID) (*types.ClinicalNote, error)
	ReviewNote(ctx context.Context, id uuid.UUID, reviewedBy, notes string) (*types.ClinicalNote, error)
	ExportNotes(ctx context.Context, filter clinical.ListFilter) ([]byte, error)
}

type ClinicalHandler struct {
	svc ClinicalService
	now func() time.Time
}

func NewClinicalHandler(svc ClinicalService) *ClinicalHandler {
	return &ClinicalHandler{svc: svc, now: time.Now}
}

// GET /api/user-context
func (h *ClinicalHandler) UserContext(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	uctx, err := h.svc.GetUserContext(c.Request.Context(), userID)
	if err != nil {
		response.RespondErr(c, err, "user_context_failed")
		return
	}
	response.RespondOK(c, uctx)
}

type analyzeReq struct {
	Messages []domainchat.Message `json:"messages" binding:"required"`
	// UserID selects the patient; it defaults to the caller.
	UserID      *uuid.UUID `json:"userId"`
	TriggerType string     `json:"triggerType"`
}

// POST /api/clinical-notes/analyze
func (h *ClinicalHandler) Analyze(c *gin.Context) {
	callerUserID, ok := callerID(c)
	if !ok {
		return
	}
	var req analyzeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	userID := callerUserID
	if req.UserID != nil {
		userID = *req.UserID
	}
	trigger := clinical.TriggerManual
	if t := strings.TrimSpace(req.TriggerType); t != "" {
		trigger = clinical.TriggerType(t)
	}
	note, err := h.svc.AnalyzeAndMaybeNote(c.Request.Context(), userID, req.Messages, trigger)
	if err != nil {
		response.RespondErr(c, err, "analyze_failed")
		return
	}
	response.RespondOK(c, gin.H{"needsNote": note != nil, "note": note})
}

// parseFilter reads ?user_id=&reviewed=&severity=&limit=.
func parseFilter(c *gin.Context) (clinical.ListFilter, error) {
	var f clinical.ListFilter
	if v := strings.TrimSpace(c.Query("user_id")); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return f, fmt.Errorf("user_id: %w", err)
		}
		f.UserID = &id
	}
	if v := strings.TrimSpace(c.Query("reviewed")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, fmt.Errorf("reviewed: %w", err)
		}
		f.Reviewed = &b
	}
	if v := strings.TrimSpace(c.Query("severity")); v != "" {
		s, err := clinical.ParseSeverity(v)
		if err != nil {
			return f, err
		}
		f.Severity = &s
	}
	if v := strings.TrimSpace(c.Query("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return f, fmt.Errorf("limit: %w", err)
		}
		f.Limit = n
	}
	return f, nil
}

// GET /api/clinical-notes?reviewed=false&severity=urgent
func (h *ClinicalHandler) List(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_filter", err)
		return
	}
	notes, err := h.svc.ListNotes(c.Request.Context(), filter)
	if err != nil {
		response.RespondErr(c, err, "list_notes_failed")
		return
	}
	response.RespondOK(c, gin.H{"notes": notes})
}

// GET /api/clinical-notes/:id
func (h *ClinicalHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	note, err := h.svc.GetNote(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err, "get_note_failed")
		return
	}
	response.RespondOK(c, note)
}

type reviewReq struct {
	ReviewedBy string `json:"reviewedBy"`
	Notes      string `json:"notes"`
}

// POST /api/clinical-notes/:id/review
func (h *ClinicalHandler) Review(c *gin.Context) {
	callerUserID, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req reviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	reviewer := strings.TrimSpace(req.ReviewedBy)
	if reviewer == "" {
		reviewer = callerUserID.String()
	}
	note, err := h.svc.ReviewNote(c.Request.Context(), id, reviewer, req.Notes)
	if err != nil {
		response.RespondErr(c, err, "review_failed")
		return
	}
	response.RespondOK(c, note)
}

// GET /api/clinical-notes/export
func (h *ClinicalHandler) Export(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_filter", err)
		return
	}
	raw, err := h.svc.ExportNotes(c.Request.Context(), filter)
	if err != nil {
		response.RespondErr(c, err, "export_failed")
		return
	}
	name := fmt.Sprintf("clinical-notes-%s.xlsx", h.now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, xlsxContentType, raw)
}

package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/mindbridge-backend/internal/http/response"
	types "github.com/yungbote/mindbridge-backend/internal/domain"
	"github.com/yungbote/mindbridge-backend/internal/modules/mood"
)

type MoodService interface {
	AddEntry(ctx context.Context, userID uuid.UUID, in mood.CheckIn) (*types.MoodEntry, error)
	History(ctx context.Context, userID uuid.UUID, days int) ([]*types.MoodEntry, error)
	DeleteEntry(ctx context.Context, userID, entryID uuid.UUID) error
}

type MoodHandler struct {
	svc MoodService
}

func NewMoodHandler(svc MoodService) *MoodHandler {
	return &MoodHandler{svc: svc}
}

type moodCheckInReq struct {
	Date        *time.Time `json:"date"`
	Mood        *int       `json:"mood"`
	StressLevel *int       `json:"stressLevel"`
	Notes       string     `json:"notes"`
}

// POST /api/mood-checkin
func (h *MoodHandler) CheckIn(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req moodCheckInReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.Mood == nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("mood must be a number"))
		return
	}
	entry, err := h.svc.AddEntry(c.Request.Context(), userID, mood.CheckIn{
		Date:        req.Date,
		Mood:        *req.Mood,
		StressLevel: req.StressLevel,
		Notes:       req.Notes,
	})
	if err != nil {
		response.RespondErr(c, err, "mood_checkin_failed")
		return
	}
	response.RespondOK(c, entry)
}

// GET /api/mood-history?days=30
func (h *MoodHandler) History(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	days, ok := queryInt(c, "days", mood.DefaultHistoryDays)
	if !ok {
		return
	}
	entries, err := h.svc.History(c.Request.Context(), userID, days)
	if err != nil {
		response.RespondErr(c, err, "mood_history_failed")
		return
	}
	response.RespondOK(c, entries)
}

// DELETE /api/mood-entries/:id
func (h *MoodHandler) Delete(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	entryID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteEntry(c.Request.Context(), userID, entryID); err != nil {
		response.RespondErr(c, err, "mood_delete_failed")
		return
	}
	response.RespondOK(c, gin.H{"deleted": true})
}

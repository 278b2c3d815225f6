package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/mindbridge-backend/internal/http/response"
	"github.com/yungbote/mindbridge-backend/internal/modules/personality"
)

type PersonalityService interface {
	RecordResults(ctx context.Context, userID uuid.UUID, averages map[string]float64) (personality.Profile, error)
	History(ctx context.Context, userID uuid.UUID) ([]personality.Profile, error)
}

type PersonalityHandler struct {
	svc PersonalityService
}

func NewPersonalityHandler(svc PersonalityService) *PersonalityHandler {
	return &PersonalityHandler{svc: svc}
}

type personalityResultsReq struct {
	// Scores are per-trait answer averages on the 1-5 scale.
	Scores map[string]float64 `json:"scores" binding:"required"`
}

// POST /api/personality-test/results
func (h *PersonalityHandler) RecordResults(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req personalityResultsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	profile, err := h.svc.RecordResults(c.Request.Context(), userID, req.Scores)
	if err != nil {
		response.RespondErr(c, err, "personality_save_failed")
		return
	}
	response.RespondOK(c, profile)
}

// GET /api/personality-test/history
func (h *PersonalityHandler) History(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	history, err := h.svc.History(c.Request.Context(), userID)
	if err != nil {
		response.RespondErr(c, err, "personality_history_failed")
		return
	}
	response.RespondOK(c, gin.H{"history": history})
}

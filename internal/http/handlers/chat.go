package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainchat "github.com/yungbote/mindbridge-backend/internal/domain/chat"
	"github.com/yungbote/mindbridge-backend/internal/http/response"
	"github.com/yungbote/mindbridge-backend/internal/modules/chat"
)

type ChatService interface {
	Chat(ctx context.Context, userID uuid.UUID, messages []domainchat.Message) (chat.Reply, error)
}

type ChatHandler struct {
	svc ChatService
}

func NewChatHandler(svc ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type chatReq struct {
	Messages []domainchat.Message `json:"messages" binding:"required"`
}

// POST /api/chat
// The reply mirrors the chat-completions shape so existing clients keep working.
func (h *ChatHandler) Chat(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	reply, err := h.svc.Chat(c.Request.Context(), userID, req.Messages)
	if err != nil {
		response.RespondErr(c, err, "chat_failed")
		return
	}
	response.RespondOK(c, gin.H{
		"message":    reply.Message,
		"configured": reply.Configured,
		"choices":    []gin.H{{"message": reply.Message}},
	})
}

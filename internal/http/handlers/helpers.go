package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/mindbridge-backend/internal/http/response"
	"github.com/yungbote/mindbridge-backend/internal/platform/ctxutil"
)

// callerID returns the authenticated user, writing a 401 when there is none.
func callerID(c *gin.Context) (uuid.UUID, bool) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.AbortError(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token")
		return uuid.Nil, false
	}
	return rd.UserID, true
}

func queryInt(c *gin.Context, key string, def int) (int, bool) {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_"+key, err)
		return 0, false
	}
	return n, true
}

func pathUUID(c *gin.Context, key string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(key))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_"+key, err)
		return uuid.Nil, false
	}
	return id, true
}

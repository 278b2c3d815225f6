package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/mindbridge-backend/internal/http/response"
	"github.com/yungbote/mindbridge-backend/internal/platform/ctxutil"
)

// ParseUserIDList reads a comma-separated list of user ids. Blank entries are ignored; any
// malformed entry rejects the whole list.
func ParseUserIDList(raw string) (map[uuid.UUID]struct{}, error) {
	out := map[uuid.UUID]struct{}{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			return nil, fmt.Errorf("invalid user id %q: %w", part, err)
		}
		out[id] = struct{}{}
	}
	return out, nil
}

// RequireClinician restricts a route group to the given users. An empty allow-list lets every
// authenticated caller through.
func RequireClinician(allowed map[uuid.UUID]struct{}) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(allowed) == 0 {
			c.Next()
			return
		}
		rd := ctxutil.GetRequestData(c.Request.Context())
		if rd == nil {
			response.AbortError(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token")
			return
		}
		if _, ok := allowed[rd.UserID]; !ok {
			response.AbortError(c, http.StatusForbidden, "forbidden", "clinician access required")
			return
		}
		c.Next()
	}
}

package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mindbridge-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
		_ = c.Error(err)
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondErr maps a service error through apierr. Internal failures get a generic message so
// storage details never reach the client.
func RespondErr(c *gin.Context, err error, fallbackCode string) {
	api := apierr.From(err, fallbackCode)
	if api == nil {
		c.Status(http.StatusNoContent)
		return
	}
	_ = c.Error(err)
	msg := api.Error()
	if api.Status >= http.StatusInternalServerError {
		msg = http.StatusText(api.Status)
	}
	c.JSON(api.Status, ErrorEnvelope{Error: APIError{Message: msg, Code: api.Code}})
}

func AbortError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: APIError{Message: message, Code: code}})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

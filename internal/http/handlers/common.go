package handlers

import (
	"net/http"

	"busgo/internal/domain"
	"busgo/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// RespondError sends standard error payload with request_id included.
func RespondError(c *gin.Context, status int, message string, err error) {
	reqID := middleware.GetRequestID(c)
	payload := gin.H{
		"message":    message,
		"request_id": reqID,
	}
	if err != nil {
		payload["error"] = err.Error()
	}
	c.JSON(status, payload)
}

// RespondOK wraps success payloads in the shared envelope.
func RespondOK(c *gin.Context, status int, message string, data any) {
	c.JSON(status, gin.H{
		"success":    true,
		"message":    message,
		"data":       data,
		"request_id": middleware.GetRequestID(c),
	})
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		RespondError(c, http.StatusBadRequest, "request body is empty", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid payload", err)
		return false
	}
	return true
}

// MustPrincipal pulls the authenticated principal or aborts with 401.
func MustPrincipal(c *gin.Context) (domain.RequestContext, bool) {
	rc, ok := middleware.Principal(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "unauthorized request, please login again", nil)
	}
	return rc, ok
}

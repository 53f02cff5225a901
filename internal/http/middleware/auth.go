package middleware

import (
	"net/http"
	"strings"

	"busgo/internal/auth"
	"busgo/internal/domain"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// RequireAuth resolves the access token from the accessToken cookie (or an
// Authorization bearer header) and attaches the principal to the context.
func RequireAuth(tokens auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := tokenFromRequest(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":      "unauthorized request, please login again",
				"request_id": GetRequestID(c),
			})
			return
		}

		rc, err := tokens.ParseAccess(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":      "unauthorized request, please login again",
				"request_id": GetRequestID(c),
			})
			return
		}

		c.Set(principalKey, rc)
		c.Next()
	}
}

// RequireRoles allows only the listed roles past. Must run after
// RequireAuth.
func RequireRoles(allowedRoles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[strings.ToUpper(strings.TrimSpace(r))] = struct{}{}
	}

	return func(c *gin.Context) {
		rc, ok := Principal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":      "unauthorized request, please login again",
				"request_id": GetRequestID(c),
			})
			return
		}

		if _, ok := allowed[strings.ToUpper(rc.Role)]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":      "your role is not allowed to perform this action",
				"request_id": GetRequestID(c),
			})
			return
		}

		c.Next()
	}
}

// Principal extracts the authenticated principal set by RequireAuth.
func Principal(c *gin.Context) (domain.RequestContext, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return domain.RequestContext{}, false
	}
	rc, ok := v.(domain.RequestContext)
	return rc, ok
}

func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie("accessToken"); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

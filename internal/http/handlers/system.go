package handlers

import (
	"net/http"

	intconfig "busgo/internal/config"

	"github.com/gin-gonic/gin"
)

// Health reports liveness.
func Health(c *gin.Context) {
	RespondOK(c, http.StatusOK, "Up and running", gin.H{})
}

// DBCheck reports DB connectivity for readiness probes.
func DBCheck(c *gin.Context) {
	if err := intconfig.EnsureDB(); err != nil {
		RespondError(c, http.StatusServiceUnavailable, "database unreachable", err)
		return
	}
	RespondOK(c, http.StatusOK, "database reachable", gin.H{})
}

// internal/api/dashboard_handlers.go
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gurkanbulca/workdesk/internal/middleware"
)

func (s *Server) handleHealth(c *gin.Context) {
	if s.health != nil && !s.health.Serving() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "unavailable",
			"timestamp": time.Now().UTC(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) handleSummary(c *gin.Context) {
	summary, err := s.services.Dashboard.Summary(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

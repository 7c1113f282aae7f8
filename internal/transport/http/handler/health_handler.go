package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"enquiry-service/internal/core/database"
	resp "enquiry-service/internal/transport/http/response"
)

// Health GET /health：DB 可达返回 200，否则 503
func Health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := database.Ping(c.Request.Context(), db); err != nil {
			c.JSON(http.StatusServiceUnavailable, resp.Error(resp.CodeUnavailable, "database unavailable"))
			return
		}
		c.JSON(http.StatusOK, resp.OK(gin.H{"ok": 1}))
	}
}

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "enquiry-service/internal/transport/http/response"
)

// MaxBodyBytes 限制请求体大小（base64 图片也走 JSON body）
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, resp.Error(resp.CodeTooLarge, ""))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}

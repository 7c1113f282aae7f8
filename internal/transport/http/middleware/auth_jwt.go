package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"enquiry-service/internal/domain"
	resp "enquiry-service/internal/transport/http/response"
)

const keyPrincipal = "principal"

// Authenticator 解析 Bearer token（AuthService 实现）
type Authenticator interface {
	Authenticate(ctx context.Context, bearer string) (*domain.Principal, error)
}

// AuthBearer 要求合法 token，并把调用方写入上下文
func AuthBearer(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, ""))
			return
		}
		p, err := a.Authenticate(c.Request.Context(), strings.TrimSpace(strings.TrimPrefix(ah, "Bearer ")))
		if err != nil {
			if errors.Is(err, domain.ErrUnauthenticated) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, ""))
				return
			}
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, resp.Error(resp.CodeServerError, ""))
			return
		}
		c.Set(keyPrincipal, p)
		c.Next()
	}
}

// PrincipalFrom 取当前调用方；未认证返回 nil
func PrincipalFrom(c *gin.Context) *domain.Principal {
	v, ok := c.Get(keyPrincipal)
	if !ok {
		return nil
	}
	p, _ := v.(*domain.Principal)
	return p
}

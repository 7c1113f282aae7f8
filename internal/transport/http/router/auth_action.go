package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"enquiry-service/internal/domain"
	"enquiry-service/internal/service"
	"enquiry-service/internal/transport/http/ez"
	mdw "enquiry-service/internal/transport/http/middleware"
)

const logoutMessage = "You have successfully been logged out and your token has been removed"

type authModule struct {
	svc *service.AuthService
	log *zap.Logger
}

func (authModule) Priority() int { return 10 }

type loginIn struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type registerIn struct {
	Name     string `json:"name"     binding:"required,max=64"`
	Email    string `json:"email"    binding:"required,email,max=191"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Role     string `json:"role"     binding:"omitempty,oneof=admin user"`
}

type authOut struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

func (m authModule) Mount(public, authed *gin.RouterGroup) {
	// 登录接口额外按 IP 限速
	login := public.Group("", mdw.RateLimitPerIP(1, 10))
	ezPublic := ez.New(login, m.log)
	ezAuth := ez.New(authed, m.log)

	// POST /login
	ez.RegisterAction(ezPublic, ez.Action[loginIn, authOut]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (authOut, error) {
			u, tok, err := m.svc.Login(c.Request.Context(), in.Email, in.Password)
			if err != nil {
				return authOut{}, err
			}
			return authOut{User: u, Token: tok}, nil
		},
	})

	// POST /register（仅 admin）
	ez.RegisterAction(ezAuth, ez.Action[registerIn, authOut]{
		Method: http.MethodPost,
		Path:   "/register",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *registerIn) (authOut, error) {
			u, tok, err := m.svc.Register(c.Request.Context(), mdw.PrincipalFrom(c), service.RegisterInput{
				Name:     in.Name,
				Email:    in.Email,
				Password: in.Password,
				Role:     in.Role,
			})
			if err != nil {
				return authOut{}, err
			}
			return authOut{User: u, Token: tok}, nil
		},
	})

	// POST /logout：只吊销当前 token
	ez.RegisterAction(ezAuth, ez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/logout",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			if err := m.svc.Logout(c.Request.Context(), mdw.PrincipalFrom(c)); err != nil {
				return nil, err
			}
			return gin.H{"message": logoutMessage}, nil
		},
	})
}

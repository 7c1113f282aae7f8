package ez

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"enquiry-service/internal/domain"
	mdw "enquiry-service/internal/transport/http/middleware"
	resp "enquiry-service/internal/transport/http/response"
)

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, log *zap.Logger) EZ { return EZ{g: g, log: log} }

// 传输层自己的错误（例如路径参数不合法）
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func NotFound(msg string) error      { return &AErr{Code: resp.CodeNotFound, Msg: msg} }
func Unprocessable(msg string) error { return &AErr{Code: resp.CodeUnprocessable, Msg: msg} }

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string // "GET" | "POST" | "PUT" | "DELETE"
	Path    string // 例："/login"、"/enquiries/:id/restore"
	Binder  Binder
	Auth    bool // 是否要求登录（Principal 由 Bearer 中间件写入）
	Status  int  // 成功状态码，默认 200
	Handler func(c *gin.Context, in *I) (O, error)
}

// RegisterAction 在当前 EZ 下注册动作接口
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}
	h := func(c *gin.Context) {
		// 1) 鉴权
		if a.Auth && mdw.PrincipalFrom(c) == nil {
			c.JSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, ""))
			return
		}

		// 2) 绑定入参
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		default: // BindNone: 不绑定
		}
		if bindErr != nil {
			c.JSON(http.StatusUnprocessableEntity, resp.Error(resp.CodeUnprocessable, bindErr.Error()))
			return
		}

		// 3) 执行
		out, err := a.Handler(c, &in)
		if err != nil {
			Fail(c, e.log, err)
			return
		}

		// 4) 已经是完整响应则原样输出
		if r, ok := any(out).(resp.Resp); ok {
			c.JSON(status, r)
			return
		}
		c.JSON(status, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}

// StatusOf 领域错误 → HTTP 状态码 + 对外提示
func StatusOf(err error) (int, string) {
	var ae *AErr
	if errors.As(err, &ae) {
		return ae.Code, ae.Error()
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return resp.CodeUnprocessable, ve.Error()
	}
	switch {
	case errors.Is(err, domain.ErrDecode):
		return resp.CodeUnprocessable, "The logo could not be decoded as an image."
	case errors.Is(err, domain.ErrInvalidCredentials):
		return resp.CodeUnauthorized, "Credentials do not match"
	case errors.Is(err, domain.ErrUnauthenticated):
		return resp.CodeUnauthorized, ""
	case errors.Is(err, domain.ErrForbidden):
		return resp.CodeForbidden, ""
	case errors.Is(err, domain.ErrNotFound):
		return resp.CodeNotFound, ""
	case errors.Is(err, domain.ErrTooManyAttempts):
		return resp.CodeTooManyRequests, "Too many login attempts. Please try again later."
	}
	return resp.CodeServerError, ""
}

// Fail 统一错误输出；5xx 记日志，不向外暴露细节
func Fail(c *gin.Context, log *zap.Logger, err error) {
	code, msg := StatusOf(err)
	if code >= http.StatusInternalServerError && log != nil {
		log.Error("request failed",
			zap.String("rid", c.GetString(mdw.KeyRequestID)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(code, resp.Error(code, msg))
}

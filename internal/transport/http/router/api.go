package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"enquiry-service/internal/core/server"
	"enquiry-service/internal/service"
	"enquiry-service/internal/transport/http/handler"
	mdw "enquiry-service/internal/transport/http/middleware"
)

type Deps struct {
	Log       *zap.Logger
	DB        *gorm.DB
	Auth      *service.AuthService
	Enquiries *service.EnquiryService

	StorageRoot    string // 公开存储根目录，为空则不挂静态路由
	StorageURL     string // 静态路由前缀，默认 /storage
	CORSOrigins    []string
	RequestTimeout time.Duration
}

func NewAPIEngine(d Deps) *gin.Engine {
	r := server.NewRouter(d.Log, d.CORSOrigins)

	timeout := d.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	// 中间件
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(timeout),
		mdw.Recovery(d.Log),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
	)

	// 健康检查 / 指标
	r.GET("/health", handler.Health(d.DB))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 上传的图片
	if d.StorageRoot != "" {
		prefix := d.StorageURL
		if prefix == "" {
			prefix = "/storage"
		}
		r.Static(prefix, d.StorageRoot)
	}

	// 前缀
	api := r.Group("/api/v1")

	// 鉴权分组
	authed := api.Group("")
	authed.Use(mdw.AuthBearer(d.Auth))

	reg := &Registry{}
	reg.Register(
		authModule{svc: d.Auth, log: d.Log},
		adminModule{svc: d.Enquiries, export: handler.NewExportHandler(d.Enquiries, d.Log), log: d.Log},
		enquiryModule{svc: d.Enquiries, log: d.Log},
	)
	reg.MountAll(api, authed)

	return r
}

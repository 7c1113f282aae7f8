package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"enquiry-service/internal/service"
	"enquiry-service/internal/transport/http/ez"
	"enquiry-service/internal/transport/http/handler"
	mdw "enquiry-service/internal/transport/http/middleware"
	resp "enquiry-service/internal/transport/http/response"
)

// adminModule 回收站 / 导出，全部要求 admin
type adminModule struct {
	svc    *service.EnquiryService
	export *handler.ExportHandler
	log    *zap.Logger
}

func (adminModule) Priority() int { return 20 }

type trashedQuery struct {
	Page    int `form:"page"     binding:"omitempty,min=1"`
	PerPage int `form:"per_page" binding:"omitempty,min=1,max=100"`
}

func (m adminModule) Mount(_, authed *gin.RouterGroup) {
	ezAdmin := ez.New(authed, m.log)

	// GET /enquiries/trashed
	ez.RegisterAction(ezAdmin, ez.Action[trashedQuery, resp.Resp]{
		Method: http.MethodGet,
		Path:   "/enquiries/trashed",
		Binder: ez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *trashedQuery) (resp.Resp, error) {
			page, err := m.svc.Trashed(c.Request.Context(), mdw.PrincipalFrom(c), in.Page, in.PerPage)
			if err != nil {
				return resp.Resp{}, err
			}
			return toCollection(page), nil
		},
	})

	// POST /enquiries/:id/restore
	ez.RegisterAction(ezAdmin, ez.Action[struct{}, resp.Resp]{
		Method: http.MethodPost,
		Path:   "/enquiries/:id/restore",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (resp.Resp, error) {
			id, err := pathID(c)
			if err != nil {
				return resp.Resp{}, err
			}
			if err := m.svc.Restore(c.Request.Context(), mdw.PrincipalFrom(c), id); err != nil {
				return resp.Resp{}, err
			}
			return resp.Message(nil, "Enquiries restored successfully"), nil
		},
	})

	// DELETE /enquiries/:id/force（不可恢复）
	ez.RegisterAction(ezAdmin, ez.Action[struct{}, resp.Resp]{
		Method: http.MethodDelete,
		Path:   "/enquiries/:id/force",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (resp.Resp, error) {
			id, err := pathID(c)
			if err != nil {
				return resp.Resp{}, err
			}
			if err := m.svc.ForceDelete(c.Request.Context(), mdw.PrincipalFrom(c), id); err != nil {
				return resp.Resp{}, err
			}
			return resp.Message(nil, "Enquiries permanently deleted"), nil
		},
	})

	// GET /enquiries/export（XLSX）
	authed.GET("/enquiries/export", m.export.Export)
}

package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"enquiry-service/internal/domain"
	"enquiry-service/internal/service"
	"enquiry-service/internal/transport/http/ez"
	mdw "enquiry-service/internal/transport/http/middleware"
	resp "enquiry-service/internal/transport/http/response"
)

type enquiryModule struct {
	svc *service.EnquiryService
	log *zap.Logger
}

func (enquiryModule) Priority() int { return 30 }

type listQuery struct {
	Page      int    `form:"page"       binding:"omitempty,min=1"`
	PerPage   int    `form:"per_page"   binding:"omitempty,min=1,max=100"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
}

// toDomain sort_order 大小写不敏感（DESC / Asc 都接受）
func (q listQuery) toDomain() (domain.ListQuery, error) {
	order := strings.ToLower(strings.TrimSpace(q.SortOrder))
	if order != "" && order != "asc" && order != "desc" {
		return domain.ListQuery{}, domain.NewValidationError("sort_order", "the selected sort order is invalid")
	}
	return domain.ListQuery{
		SortField: q.SortBy,
		SortDesc:  order != "asc",
		Page:      q.Page,
		PerPage:   q.PerPage,
	}, nil
}

// 新建：基础字段必填；图片可用 logo_path 或 dp_path 提交（base64）
type storeIn struct {
	Name        string  `json:"name"         binding:"required,max=191"`
	Address     string  `json:"address"      binding:"required,max=255"`
	City        string  `json:"city"         binding:"required,max=128"`
	ZipCode     string  `json:"zip_code"     binding:"required,max=32"`
	PhoneNumber string  `json:"phone_number" binding:"required,max=64"`
	LogoPath    *string `json:"logo_path"`
	DPPath      *string `json:"dp_path"`
}

func (in storeIn) input() service.EnquiryInput {
	return service.EnquiryInput{
		Name:        &in.Name,
		Address:     &in.Address,
		City:        &in.City,
		ZipCode:     &in.ZipCode,
		PhoneNumber: &in.PhoneNumber,
		Logo:        pickLogo(in.LogoPath, in.DPPath),
	}
}

// 更新：只改提交了的字段
type updateIn struct {
	Name        *string `json:"name"         binding:"omitempty,min=1,max=191"`
	Address     *string `json:"address"      binding:"omitempty,min=1,max=255"`
	City        *string `json:"city"         binding:"omitempty,min=1,max=128"`
	ZipCode     *string `json:"zip_code"     binding:"omitempty,min=1,max=32"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,min=1,max=64"`
	LogoPath    *string `json:"logo_path"`
	DPPath      *string `json:"dp_path"`
}

func (in updateIn) input() service.EnquiryInput {
	return service.EnquiryInput{
		Name:        in.Name,
		Address:     in.Address,
		City:        in.City,
		ZipCode:     in.ZipCode,
		PhoneNumber: in.PhoneNumber,
		Logo:        pickLogo(in.LogoPath, in.DPPath),
	}
}

func pickLogo(logo, dp *string) *string {
	if logo != nil && *logo != "" {
		return logo
	}
	return dp
}

func (m enquiryModule) Mount(public, authed *gin.RouterGroup) {
	ezPublic := ez.New(public, m.log)
	ezAuth := ez.New(authed, m.log)

	// GET /enquiries
	ez.RegisterAction(ezPublic, ez.Action[listQuery, resp.Resp]{
		Method: http.MethodGet,
		Path:   "/enquiries",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *listQuery) (resp.Resp, error) {
			q, err := in.toDomain()
			if err != nil {
				return resp.Resp{}, err
			}
			page, err := m.svc.List(c.Request.Context(), q)
			if err != nil {
				return resp.Resp{}, err
			}
			return toCollection(page), nil
		},
	})

	// POST /enquiries
	ez.RegisterAction(ezPublic, ez.Action[storeIn, enquiryResource]{
		Method: http.MethodPost,
		Path:   "/enquiries",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *storeIn) (enquiryResource, error) {
			e, err := m.svc.Store(c.Request.Context(), in.input())
			if err != nil {
				return enquiryResource{}, err
			}
			return toResource(e), nil
		},
	})

	// GET /enquiries/:id
	ez.RegisterAction(ezPublic, ez.Action[struct{}, enquiryResource]{
		Method: http.MethodGet,
		Path:   "/enquiries/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (enquiryResource, error) {
			id, err := pathID(c)
			if err != nil {
				return enquiryResource{}, err
			}
			e, err := m.svc.Show(c.Request.Context(), id)
			if err != nil {
				return enquiryResource{}, err
			}
			return toResource(e), nil
		},
	})

	// PUT /enquiries/:id（admin）
	ez.RegisterAction(ezAuth, ez.Action[updateIn, enquiryResource]{
		Method: http.MethodPut,
		Path:   "/enquiries/:id",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *updateIn) (enquiryResource, error) {
			id, err := pathID(c)
			if err != nil {
				return enquiryResource{}, err
			}
			e, err := m.svc.Update(c.Request.Context(), mdw.PrincipalFrom(c), id, in.input())
			if err != nil {
				return enquiryResource{}, err
			}
			return toResource(e), nil
		},
	})

	// DELETE /enquiries/:id（admin，软删）
	ez.RegisterAction(ezAuth, ez.Action[struct{}, resp.Resp]{
		Method: http.MethodDelete,
		Path:   "/enquiries/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (resp.Resp, error) {
			id, err := pathID(c)
			if err != nil {
				return resp.Resp{}, err
			}
			if err := m.svc.Destroy(c.Request.Context(), mdw.PrincipalFrom(c), id); err != nil {
				return resp.Resp{}, err
			}
			return resp.Message(nil, "Enquiries deleted successfully"), nil
		},
	})
}

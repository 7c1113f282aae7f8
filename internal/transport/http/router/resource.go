package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"enquiry-service/internal/domain"
	"enquiry-service/internal/transport/http/ez"
	resp "enquiry-service/internal/transport/http/response"
)

const resourceType = "Enquiries"

type enquiryResource struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	ZipCode     string    `json:"zip_code"`
	PhoneNumber string    `json:"phone_number"`
	LogoPath    *string   `json:"logo_path"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type pageMeta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
}

func toResource(e *domain.Enquiry) enquiryResource {
	return enquiryResource{
		ID:          strconv.FormatUint(uint64(e.ID), 10),
		Type:        resourceType,
		Name:        e.Name,
		Address:     e.Address,
		City:        e.City,
		ZipCode:     e.ZipCode,
		PhoneNumber: e.PhoneNumber,
		LogoPath:    e.LogoPath,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toCollection(p domain.Page[domain.Enquiry]) resp.Resp {
	items := make([]enquiryResource, 0, len(p.Items))
	for i := range p.Items {
		items = append(items, toResource(&p.Items[i]))
	}
	return resp.Page(items, pageMeta{
		CurrentPage: p.Page,
		PerPage:     p.PerPage,
		Total:       p.Total,
		LastPage:    p.LastPage(),
	})
}

// pathID 解析 :id；非数字按不存在处理
func pathID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, ez.NotFound("")
	}
	return uint(id), nil
}

package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Enquiry struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:191;not null" json:"name"`
	Address     string         `gorm:"size:255;not null" json:"address"`
	City        string         `gorm:"size:128;not null" json:"city"`
	ZipCode     string         `gorm:"size:32;not null" json:"zip_code"`
	PhoneNumber string         `gorm:"size:64;not null" json:"phone_number"`
	LogoPath    *string        `gorm:"size:255" json:"logo_path"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Enquiry) TableName() string { return "enquiries" }

// 允许排序的列（白名单），其它列名在进入查询前就被拒绝
var EnquirySortFields = map[string]struct{}{
	"id": {}, "name": {}, "address": {}, "city": {}, "zip_code": {},
	"phone_number": {}, "created_at": {}, "updated_at": {},
}

type ListQuery struct {
	SortField string
	SortDesc  bool
	Page      int
	PerPage   int
}

type EnquiryRepository interface {
	List(ctx context.Context, q ListQuery) (Page[Enquiry], error)
	Create(ctx context.Context, e *Enquiry) error
	FindActive(ctx context.Context, id uint) (*Enquiry, error)
	Update(ctx context.Context, id uint, fields map[string]any) (*Enquiry, error)
	SoftDelete(ctx context.Context, id uint) error
	ListTrashed(ctx context.Context, page, perPage int) (Page[Enquiry], error)
	FindTrashed(ctx context.Context, id uint) (*Enquiry, error)
	Restore(ctx context.Context, id uint) error
	Purge(ctx context.Context, id uint) error
	All(ctx context.Context) ([]Enquiry, error)
}

package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"enquiry-service/internal/domain"
)

type EnquiryRepo struct{ db *gorm.DB }

func NewEnquiryRepo(db *gorm.DB) *EnquiryRepo { return &EnquiryRepo{db: db} }

var _ domain.EnquiryRepository = (*EnquiryRepo)(nil)

func (r *EnquiryRepo) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&domain.Enquiry{})
}

func (r *EnquiryRepo) trashed(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Unscoped().Model(&domain.Enquiry{}).Where("deleted_at IS NOT NULL")
}

func (r *EnquiryRepo) List(ctx context.Context, q domain.ListQuery) (domain.Page[domain.Enquiry], error) {
	page, per := domain.NormalizePaging(q.Page, q.PerPage)
	out := domain.Page[domain.Enquiry]{Page: page, PerPage: per, Items: []domain.Enquiry{}}

	field := q.SortField
	if field == "" {
		field = "created_at"
	}
	if _, ok := domain.EnquirySortFields[field]; !ok {
		return out, domain.NewValidationError("sort_by", fmt.Sprintf("unsupported sort field %q", field))
	}

	if err := r.active(ctx).Count(&out.Total).Error; err != nil {
		return out, fmt.Errorf("count enquiries: %w", err)
	}
	tx := r.active(ctx).Order(clause.OrderByColumn{Column: clause.Column{Name: field}, Desc: q.SortDesc})
	if field != "id" {
		// 同值时按 id 保持稳定顺序
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: q.SortDesc})
	}
	if err := tx.Limit(per).Offset(out.Offset()).Find(&out.Items).Error; err != nil {
		return out, fmt.Errorf("list enquiries: %w", err)
	}
	return out, nil
}

func (r *EnquiryRepo) Create(ctx context.Context, e *domain.Enquiry) error {
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("create enquiry: %w", err)
	}
	return nil
}

func (r *EnquiryRepo) FindActive(ctx context.Context, id uint) (*domain.Enquiry, error) {
	var e domain.Enquiry
	if err := r.active(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		return nil, notFound(err, "find enquiry")
	}
	return &e, nil
}

// Update 只更新 fields 中出现的列（列名 → 值）
func (r *EnquiryRepo) Update(ctx context.Context, id uint, fields map[string]any) (*domain.Enquiry, error) {
	e, err := r.FindActive(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return e, nil
	}
	res := r.active(ctx).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, fmt.Errorf("update enquiry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrNotFound
	}
	return r.FindActive(ctx, id)
}

// SoftDelete 写 deleted_at 并解除图片引用（同一条语句）
func (r *EnquiryRepo) SoftDelete(ctx context.Context, id uint) error {
	res := r.active(ctx).Where("id = ?", id).Updates(map[string]any{
		"deleted_at": time.Now(),
		"logo_path":  nil,
	})
	if res.Error != nil {
		return fmt.Errorf("soft delete enquiry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *EnquiryRepo) ListTrashed(ctx context.Context, page, perPage int) (domain.Page[domain.Enquiry], error) {
	page, per := domain.NormalizePaging(page, perPage)
	out := domain.Page[domain.Enquiry]{Page: page, PerPage: per, Items: []domain.Enquiry{}}

	if err := r.trashed(ctx).Count(&out.Total).Error; err != nil {
		return out, fmt.Errorf("count trashed enquiries: %w", err)
	}
	if err := r.trashed(ctx).Order("deleted_at DESC").Order("id DESC").
		Limit(per).Offset(out.Offset()).Find(&out.Items).Error; err != nil {
		return out, fmt.Errorf("list trashed enquiries: %w", err)
	}
	return out, nil
}

func (r *EnquiryRepo) FindTrashed(ctx context.Context, id uint) (*domain.Enquiry, error) {
	var e domain.Enquiry
	if err := r.trashed(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		return nil, notFound(err, "find trashed enquiry")
	}
	return &e, nil
}

func (r *EnquiryRepo) Restore(ctx context.Context, id uint) error {
	res := r.trashed(ctx).Where("id = ?", id).Update("deleted_at", nil)
	if res.Error != nil {
		return fmt.Errorf("restore enquiry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Purge 物理删除（仅限已软删的记录）
func (r *EnquiryRepo) Purge(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Unscoped().
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Delete(&domain.Enquiry{})
	if res.Error != nil {
		return fmt.Errorf("purge enquiry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *EnquiryRepo) All(ctx context.Context) ([]domain.Enquiry, error) {
	var items []domain.Enquiry
	if err := r.active(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list all enquiries: %w", err)
	}
	return items, nil
}

func notFound(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

package service

import (
	"context"

	"go.uber.org/zap"

	"enquiry-service/internal/core/metrics"
	"enquiry-service/internal/domain"
)

// ImageStore 图片落盘（实现见 core/storage）
type ImageStore interface {
	Save(payload string) (string, error)
	Delete(path string) error
}

// Authorizer 能力检查（AuthService 实现）
type Authorizer interface {
	Authorize(actor *domain.Principal, ability domain.Ability) bool
}

// EnquiryInput 写入参数；nil 字段表示未提交。Logo 为 base64 图片
type EnquiryInput struct {
	Name        *string
	Address     *string
	City        *string
	ZipCode     *string
	PhoneNumber *string
	Logo        *string
}

func (in EnquiryInput) hasLogo() bool { return in.Logo != nil && *in.Logo != "" }

func (in EnquiryInput) columns() map[string]any {
	cols := map[string]any{}
	set := func(col string, v *string) {
		if v != nil {
			cols[col] = *v
		}
	}
	set("name", in.Name)
	set("address", in.Address)
	set("city", in.City)
	set("zip_code", in.ZipCode)
	set("phone_number", in.PhoneNumber)
	return cols
}

type EnquiryService struct {
	repo   domain.EnquiryRepository
	images ImageStore
	authz  Authorizer
	log    *zap.Logger
}

func NewEnquiryService(repo domain.EnquiryRepository, images ImageStore, authz Authorizer, log *zap.Logger) *EnquiryService {
	return &EnquiryService{repo: repo, images: images, authz: authz, log: log}
}

func (s *EnquiryService) gate(actor *domain.Principal) error {
	if !s.authz.Authorize(actor, domain.AbilityIsAdmin) {
		return domain.ErrForbidden
	}
	return nil
}

func (s *EnquiryService) List(ctx context.Context, q domain.ListQuery) (domain.Page[domain.Enquiry], error) {
	return s.repo.List(ctx, q)
}

// Store 新建；不需要登录
func (s *EnquiryService) Store(ctx context.Context, in EnquiryInput) (*domain.Enquiry, error) {
	e := &domain.Enquiry{
		Name:        deref(in.Name),
		Address:     deref(in.Address),
		City:        deref(in.City),
		ZipCode:     deref(in.ZipCode),
		PhoneNumber: deref(in.PhoneNumber),
	}
	if in.hasLogo() {
		p, err := s.saveImage(*in.Logo)
		if err != nil {
			return nil, err
		}
		e.LogoPath = &p
	}
	if err := s.repo.Create(ctx, e); err != nil {
		if e.LogoPath != nil {
			s.removeImage(*e.LogoPath)
		}
		return nil, err
	}
	metrics.RecordEnquiryOp("store")
	return e, nil
}

func (s *EnquiryService) Show(ctx context.Context, id uint) (*domain.Enquiry, error) {
	return s.repo.FindActive(ctx, id)
}

// Update 部分更新；提交了新图片时先写新图、落库，再删旧图
func (s *EnquiryService) Update(ctx context.Context, actor *domain.Principal, id uint, in EnquiryInput) (*domain.Enquiry, error) {
	if err := s.gate(actor); err != nil {
		return nil, err
	}
	current, err := s.repo.FindActive(ctx, id)
	if err != nil {
		return nil, err
	}

	cols := in.columns()
	var newPath string
	if in.hasLogo() {
		if newPath, err = s.saveImage(*in.Logo); err != nil {
			return nil, err
		}
		cols["logo_path"] = &newPath
	}

	updated, err := s.repo.Update(ctx, id, cols)
	if err != nil {
		if newPath != "" {
			s.removeImage(newPath)
		}
		return nil, err
	}
	if newPath != "" && current.LogoPath != nil && *current.LogoPath != newPath {
		s.removeImage(*current.LogoPath)
	}
	metrics.RecordEnquiryOp("update")
	return updated, nil
}

// Destroy 软删除，同时删除图片文件（先落库再删文件）
func (s *EnquiryService) Destroy(ctx context.Context, actor *domain.Principal, id uint) error {
	if err := s.gate(actor); err != nil {
		return err
	}
	current, err := s.repo.FindActive(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	if current.LogoPath != nil {
		s.removeImage(*current.LogoPath)
	}
	metrics.RecordEnquiryOp("destroy")
	return nil
}

func (s *EnquiryService) Trashed(ctx context.Context, actor *domain.Principal, page, perPage int) (domain.Page[domain.Enquiry], error) {
	if err := s.gate(actor); err != nil {
		return domain.Page[domain.Enquiry]{}, err
	}
	return s.repo.ListTrashed(ctx, page, perPage)
}

func (s *EnquiryService) Restore(ctx context.Context, actor *domain.Principal, id uint) error {
	if err := s.gate(actor); err != nil {
		return err
	}
	if err := s.repo.Restore(ctx, id); err != nil {
		return err
	}
	metrics.RecordEnquiryOp("restore")
	return nil
}

// ForceDelete 物理删除已软删的记录及其图片，不可恢复
func (s *EnquiryService) ForceDelete(ctx context.Context, actor *domain.Principal, id uint) error {
	if err := s.gate(actor); err != nil {
		return err
	}
	current, err := s.repo.FindTrashed(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Purge(ctx, id); err != nil {
		return err
	}
	if current.LogoPath != nil {
		s.removeImage(*current.LogoPath)
	}
	metrics.RecordEnquiryOp("force_delete")
	return nil
}

// Export 全部未删除记录（导出 XLSX 用）
func (s *EnquiryService) Export(ctx context.Context, actor *domain.Principal) ([]domain.Enquiry, error) {
	if err := s.gate(actor); err != nil {
		return nil, err
	}
	return s.repo.All(ctx)
}

func (s *EnquiryService) saveImage(payload string) (string, error) {
	p, err := s.images.Save(payload)
	if err != nil {
		return "", err
	}
	metrics.RecordImage("saved")
	return p, nil
}

// removeImage 尽力删除；失败只记日志，文件可能成为孤儿
func (s *EnquiryService) removeImage(p string) {
	if err := s.images.Delete(p); err != nil {
		s.log.Warn("delete image failed", zap.String("path", p), zap.Error(err))
		return
	}
	metrics.RecordImage("deleted")
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

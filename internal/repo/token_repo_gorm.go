package repo

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"enquiry-service/internal/domain"
)

type TokenRepo struct{ db *gorm.DB }

func NewTokenRepo(db *gorm.DB) *TokenRepo { return &TokenRepo{db: db} }

var _ domain.TokenRepository = (*TokenRepo)(nil)

func (r *TokenRepo) Create(ctx context.Context, t *domain.AuthToken) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("create token: %w", err)
	}
	return nil
}

func (r *TokenRepo) Find(ctx context.Context, id string) (*domain.AuthToken, error) {
	var t domain.AuthToken
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "find token")
	}
	return &t, nil
}

func (r *TokenRepo) Touch(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.AuthToken{}).
		Where("id = ?", id).UpdateColumn("last_used_at", at).Error
}

// Delete 吊销单个 token，同一用户的其它 token 不受影响
func (r *TokenRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.AuthToken{})
	if res.Error != nil {
		return fmt.Errorf("delete token: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

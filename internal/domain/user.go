package domain

import (
	"context"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:64;not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	Role      string    `gorm:"size:16;not null;default:user" json:"role"` // "user"/"admin"
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// AuthToken 已签发的 API Token；bearer 串只携带行 ID，删行即吊销
type AuthToken struct {
	ID         string     `gorm:"primaryKey;size:36"`
	UserID     uint       `gorm:"index;not null"`
	Name       string     `gorm:"size:64;not null"`
	LastUsedAt *time.Time
	ExpiresAt  *time.Time
	CreatedAt  time.Time
}

func (AuthToken) TableName() string { return "personal_access_tokens" }

// Principal 当前请求的已认证调用方
type Principal struct {
	User    *User
	TokenID string
}

type Ability string

const AbilityIsAdmin Ability = "isAdmin"

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Save(ctx context.Context, u *User) error
}

type TokenRepository interface {
	Create(ctx context.Context, t *AuthToken) error
	Find(ctx context.Context, id string) (*AuthToken, error)
	Touch(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}

// Models 需要迁移的全部模型（按顺序）
func Models() []any {
	return []any{&User{}, &AuthToken{}, &Enquiry{}}
}

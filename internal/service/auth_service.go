package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"enquiry-service/internal/core/auth"
	"enquiry-service/internal/core/metrics"
	"enquiry-service/internal/domain"
	"enquiry-service/pkg/utils"
)

const TokenName = "API Token"

// LoginLimiter 登录尝试锁定（redis 实现见 core/limiter）；为 nil 时不限制。
// Attempt 需原子地计数并判断，返回 false 表示已锁定
type LoginLimiter interface {
	Attempt(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}

// 邮箱不存在时也比对一次 bcrypt，响应耗时与密码错误一致
var dummyHash = sync.OnceValue(func() string {
	h, err := utils.HashPassword(utils.NewID())
	if err != nil {
		panic(fmt.Sprintf("dummy password hash: %v", err))
	}
	return h
})

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type AuthService struct {
	users   domain.UserRepository
	tokens  domain.TokenRepository
	jwt     *auth.JWTer
	limiter LoginLimiter
	log     *zap.Logger
	now     func() time.Time
	check   func(pw, hashed string) bool
}

func NewAuthService(users domain.UserRepository, tokens domain.TokenRepository, jwter *auth.JWTer, limiter LoginLimiter, log *zap.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, jwt: jwter, limiter: limiter, log: log, now: time.Now, check: utils.CheckPassword}
}

// Login 校验邮箱 + 密码，成功后签发新 token
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	key := normalizeEmail(email)

	if s.limiter != nil {
		ok, err := s.limiter.Attempt(ctx, key)
		switch {
		case err != nil:
			// redis 不可用时放行，只记日志
			s.log.Warn("login limiter unavailable", zap.Error(err))
		case !ok:
			metrics.RecordAuthAttempt("locked")
			return nil, "", domain.ErrTooManyAttempts
		}
	}

	u, err := s.users.FindByEmail(ctx, key)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, "", err
	}
	hashed := dummyHash()
	if u != nil {
		hashed = u.Password
	}
	if !s.check(password, hashed) || u == nil {
		metrics.RecordAuthAttempt("failure")
		return nil, "", domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, key); err != nil {
			s.log.Warn("login limiter reset failed", zap.Error(err))
		}
	}
	tok, err := s.issueToken(ctx, u)
	if err != nil {
		return nil, "", err
	}
	metrics.RecordAuthAttempt("success")
	return u, tok, nil
}

// Register 仅 admin 可创建用户
func (s *AuthService) Register(ctx context.Context, actor *domain.Principal, in RegisterInput) (*domain.User, string, error) {
	if !s.Authorize(actor, domain.AbilityIsAdmin) {
		return nil, "", domain.ErrForbidden
	}

	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if role != domain.RoleAdmin && role != domain.RoleUser {
		return nil, "", domain.NewValidationError("role", "the selected role is invalid")
	}

	email := normalizeEmail(in.Email)
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, "", domain.NewValidationError("email", "the email has already been taken")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, "", err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}
	u := &domain.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    email,
		Password: hash,
		Role:     role,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, "", err
	}
	s.log.Info("user registered",
		zap.Uint("user_id", u.ID),
		zap.String("role", u.Role),
		zap.Uint("by", actor.User.ID),
	)

	tok, err := s.issueToken(ctx, u)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

// Logout 只吊销当前请求所用的 token
func (s *AuthService) Logout(ctx context.Context, actor *domain.Principal) error {
	if actor == nil || actor.TokenID == "" {
		return domain.ErrUnauthenticated
	}
	if err := s.tokens.Delete(ctx, actor.TokenID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrUnauthenticated
		}
		return err
	}
	return nil
}

// Authenticate 解析 bearer token 并加载调用方
func (s *AuthService) Authenticate(ctx context.Context, bearer string) (*domain.Principal, error) {
	claims, err := s.jwt.Parse(bearer)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	uid, err := claims.UserID()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}

	t, err := s.tokens.Find(ctx, claims.TokenID())
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: token revoked", domain.ErrUnauthenticated)
	}
	if err != nil {
		return nil, err
	}
	now := s.now()
	if t.UserID != uid || (t.ExpiresAt != nil && now.After(*t.ExpiresAt)) {
		return nil, domain.ErrUnauthenticated
	}

	u, err := s.users.FindByID(ctx, uid)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Touch(ctx, t.ID, now); err != nil {
		s.log.Warn("touch token failed", zap.String("token_id", t.ID), zap.Error(err))
	}
	return &domain.Principal{User: u, TokenID: t.ID}, nil
}

// Authorize 能力检查；目前只有 isAdmin
func (s *AuthService) Authorize(actor *domain.Principal, ability domain.Ability) bool {
	if actor == nil || actor.User == nil {
		return false
	}
	switch ability {
	case domain.AbilityIsAdmin:
		return actor.User.IsAdmin()
	default:
		return false
	}
}

func (s *AuthService) issueToken(ctx context.Context, u *domain.User) (string, error) {
	now := s.now()
	t := &domain.AuthToken{
		ID:        utils.NewID(),
		UserID:    u.ID,
		Name:      TokenName,
		ExpiresAt: s.jwt.ExpiresAt(now),
	}
	if err := s.tokens.Create(ctx, t); err != nil {
		return "", err
	}
	tok, err := s.jwt.Issue(t.ID, u.ID, now)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tok, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"enquiry-service/internal/core/auth"
	"enquiry-service/internal/core/storage"
	"enquiry-service/internal/domain"
	"enquiry-service/internal/repo"
	"enquiry-service/internal/testutils"
	"enquiry-service/pkg/utils"
)

type fixture struct {
	db        *gorm.DB
	auth      *AuthService
	enquiry   *EnquiryService
	images    *storage.ImageStore
	enquiries *repo.EnquiryRepo
}

func newFixture(t *testing.T, limiter LoginLimiter) *fixture {
	t.Helper()
	db := testutils.SetupDB(t)
	jwter := &auth.JWTer{Secret: []byte("test"), Issuer: "test", TTL: time.Hour}
	authSvc := NewAuthService(repo.NewUserRepo(db), repo.NewTokenRepo(db), jwter, limiter, zap.NewNop())
	images := storage.NewImageStore(t.TempDir(), "/storage")
	enquiries := repo.NewEnquiryRepo(db)
	return &fixture{
		db:        db,
		auth:      authSvc,
		enquiry:   NewEnquiryService(enquiries, images, authSvc, zap.NewNop()),
		images:    images,
		enquiries: enquiries,
	}
}

func (f *fixture) createUser(t *testing.T, email, password, role string) *domain.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	u := &domain.User{Name: "Test", Email: email, Password: hash, Role: role}
	require.NoError(t, repo.NewUserRepo(f.db).Create(context.Background(), u))
	return u
}

// principal 登录并解析出调用方
func (f *fixture) principal(t *testing.T, email, password, role string) *domain.Principal {
	t.Helper()
	f.createUser(t, email, password, role)
	_, tok, err := f.auth.Login(context.Background(), email, password)
	require.NoError(t, err)
	p, err := f.auth.Authenticate(context.Background(), tok)
	require.NoError(t, err)
	return p
}

func strPtr(s string) *string { return &s }

func filepathGlob(root string) ([]string, error) {
	return filepath.Glob(filepath.Join(root, "dps", "*.jpg"))
}

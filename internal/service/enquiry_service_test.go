package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"enquiry-service/internal/domain"
	"enquiry-service/internal/testutils"
)

func acmeInput() EnquiryInput {
	return EnquiryInput{
		Name:        strPtr("Acme"),
		Address:     strPtr("1 Main St"),
		City:        strPtr("Springfield"),
		ZipCode:     strPtr("00000"),
		PhoneNumber: strPtr("555-0100"),
	}
}

func TestStore_WithAndWithoutImage(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	plain, err := f.enquiry.Store(ctx, acmeInput())
	require.NoError(t, err)
	assert.NotZero(t, plain.ID)
	assert.Nil(t, plain.LogoPath)

	in := acmeInput()
	in.Logo = strPtr(testutils.PNGBase64(t))
	withImg, err := f.enquiry.Store(ctx, in)
	require.NoError(t, err)
	require.NotNil(t, withImg.LogoPath)
	assert.True(t, f.images.Exists(*withImg.LogoPath))
}

func TestStore_BadImageCreatesNothing(t *testing.T) {
	f := newFixture(t, nil)
	in := acmeInput()
	in.Logo = strPtr("definitely not an image")

	_, err := f.enquiry.Store(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrDecode)

	var n int64
	require.NoError(t, f.db.Model(&domain.Enquiry{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestUpdate_ImageLifecycle(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	admin := f.principal(t, "admin@example.com", "pw", domain.RoleAdmin)

	in := acmeInput()
	in.Logo = strPtr(testutils.PNGBase64(t))
	e, err := f.enquiry.Store(ctx, in)
	require.NoError(t, err)
	oldPath := *e.LogoPath

	// 不带图片：logo_path 保持不变
	got, err := f.enquiry.Update(ctx, admin, e.ID, EnquiryInput{City: strPtr("Shelbyville")})
	require.NoError(t, err)
	assert.Equal(t, "Shelbyville", got.City)
	assert.Equal(t, "Acme", got.Name)
	require.NotNil(t, got.LogoPath)
	assert.Equal(t, oldPath, *got.LogoPath)
	assert.True(t, f.images.Exists(oldPath))

	// 新图片：旧文件被删除，新文件存在
	got, err = f.enquiry.Update(ctx, admin, e.ID, EnquiryInput{Logo: strPtr(testutils.PNGBase64(t))})
	require.NoError(t, err)
	require.NotNil(t, got.LogoPath)
	assert.NotEqual(t, oldPath, *got.LogoPath)
	assert.False(t, f.images.Exists(oldPath))
	assert.True(t, f.images.Exists(*got.LogoPath))
}

func TestUpdate_GatesAndNotFound(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	user := f.principal(t, "user@example.com", "pw", domain.RoleUser)
	admin := f.principal(t, "admin@example.com", "pw", domain.RoleAdmin)

	e, err := f.enquiry.Store(ctx, acmeInput())
	require.NoError(t, err)

	_, err = f.enquiry.Update(ctx, user, e.ID, EnquiryInput{City: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.enquiry.Update(ctx, admin, 9999, EnquiryInput{City: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDestroyRestoreShow(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	user := f.principal(t, "user@example.com", "pw", domain.RoleUser)
	admin := f.principal(t, "admin@example.com", "pw", domain.RoleAdmin)

	e, err := f.enquiry.Store(ctx, acmeInput())
	require.NoError(t, err)

	assert.ErrorIs(t, f.enquiry.Destroy(ctx, user, e.ID), domain.ErrForbidden)
	_, err = f.enquiry.Show(ctx, e.ID)
	require.NoError(t, err, "record still active after forbidden destroy")

	require.NoError(t, f.enquiry.Destroy(ctx, admin, e.ID))
	_, err = f.enquiry.Show(ctx, e.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	trashed, err := f.enquiry.Trashed(ctx, admin, 1, 15)
	require.NoError(t, err)
	require.Len(t, trashed.Items, 1)
	assert.Equal(t, e.ID, trashed.Items[0].ID)

	_, err = f.enquiry.Trashed(ctx, user, 1, 15)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, f.enquiry.Restore(ctx, admin, e.ID))
	back, err := f.enquiry.Show(ctx, e.ID)
	require.NoError(t, err)
	assert.False(t, back.DeletedAt.Valid)
	assert.Equal(t, e.Name, back.Name)
	assert.Equal(t, e.PhoneNumber, back.PhoneNumber)

	assert.ErrorIs(t, f.enquiry.Restore(ctx, admin, e.ID), domain.ErrNotFound)
}

func TestDestroy_RemovesImage(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	admin := f.principal(t, "admin@example.com", "pw", domain.RoleAdmin)

	in := acmeInput()
	in.Logo = strPtr(testutils.PNGBase64(t))
	e, err := f.enquiry.Store(ctx, in)
	require.NoError(t, err)

	require.NoError(t, f.enquiry.Destroy(ctx, admin, e.ID))
	assert.False(t, f.images.Exists(*e.LogoPath))

	trashed, err := f.enquiries.FindTrashed(ctx, e.ID)
	require.NoError(t, err)
	assert.Nil(t, trashed.LogoPath, "trashed record must not point at a deleted file")

	// 恢复后 logo 不会回来，记录与删除前不同
	require.NoError(t, f.enquiry.Restore(ctx, admin, e.ID))
	restored, err := f.enquiry.Show(ctx, e.ID)
	require.NoError(t, err)
	assert.Nil(t, restored.LogoPath)
	assert.Equal(t, e.Name, restored.Name)
}

func TestForceDelete_Irreversible(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	admin := f.principal(t, "admin@example.com", "pw", domain.RoleAdmin)

	e, err := f.enquiry.Store(ctx, acmeInput())
	require.NoError(t, err)

	// 未软删的记录不能直接 force
	assert.ErrorIs(t, f.enquiry.ForceDelete(ctx, admin, e.ID), domain.ErrNotFound)

	require.NoError(t, f.enquiry.Destroy(ctx, admin, e.ID))
	require.NoError(t, f.enquiry.ForceDelete(ctx, admin, e.ID))

	_, err = f.enquiry.Show(ctx, e.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, f.enquiry.Restore(ctx, admin, e.ID), domain.ErrNotFound)
	assert.ErrorIs(t, f.enquiry.ForceDelete(ctx, admin, e.ID), domain.ErrNotFound)
}

func TestList_PagingCountsOnlyActive(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	admin := f.principal(t, "admin@example.com", "pw", domain.RoleAdmin)

	var ids []uint
	for i := 0; i < 7; i++ {
		e, err := f.enquiry.Store(ctx, acmeInput())
		require.NoError(t, err)
		ids = append(ids, e.ID)
	}
	require.NoError(t, f.enquiry.Destroy(ctx, admin, ids[0]))

	seen := 0
	for page := 1; page <= 3; page++ {
		p, err := f.enquiry.List(ctx, domain.ListQuery{SortField: "id", Page: page, PerPage: 3})
		require.NoError(t, err)
		assert.LessOrEqual(t, len(p.Items), 3)
		assert.Equal(t, int64(6), p.Total)
		seen += len(p.Items)
	}
	assert.Equal(t, 6, seen)
}

func TestExport_AdminOnly(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	admin := f.principal(t, "admin@example.com", "pw", domain.RoleAdmin)
	user := f.principal(t, "user@example.com", "pw", domain.RoleUser)

	_, err := f.enquiry.Store(ctx, acmeInput())
	require.NoError(t, err)

	rows, err := f.enquiry.Export(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, err = f.enquiry.Export(ctx, user)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

type failingRepo struct {
	domain.EnquiryRepository
}

func (failingRepo) Create(context.Context, *domain.Enquiry) error { return errors.New("db down") }

func TestStore_CreateFailureRemovesImage(t *testing.T) {
	f := newFixture(t, nil)
	svc := NewEnquiryService(failingRepo{}, f.images, f.auth, zap.NewNop())

	in := acmeInput()
	in.Logo = strPtr(testutils.PNGBase64(t))
	_, err := svc.Store(context.Background(), in)
	require.Error(t, err)

	entries, _ := filepathGlob(f.images.Root)
	assert.Empty(t, entries, "image written before a failed insert is cleaned up")
}

package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"enquiry-service/internal/domain"
)

func TestNewGorm_SQLiteMigrateAndPing(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db")
	db, err := NewGorm(Opts{Driver: "sqlite", DSN: dsn, LogLevel: "silent"})
	require.NoError(t, err)

	require.NoError(t, Migrate(db))
	assert.True(t, db.Migrator().HasTable(&domain.Enquiry{}))
	assert.True(t, db.Migrator().HasTable(&domain.User{}))
	assert.True(t, db.Migrator().HasTable(&domain.AuthToken{}))
	assert.NoError(t, Ping(context.Background(), db))
}

func TestNewGorm_UnsupportedDriver(t *testing.T) {
	_, err := NewGorm(Opts{Driver: "oracle"})
	assert.True(t, errors.Is(err, ErrUnsupportedDriver))
}

func TestNormalizeMySQLDSN(t *testing.T) {
	got := normalizeMySQLDSN("jdbc:mysql://db:3306/app?useSSL=false&serverTimezone=UTC&characterEncoding=utf8", "root", "pw")
	assert.Equal(t, "root:pw@tcp(db:3306)/app?charset=utf8&loc=UTC&parseTime=true&tls=false", got)

	raw := "u:p@tcp(127.0.0.1:3306)/app"
	assert.Equal(t, raw, normalizeMySQLDSN(raw, "x", "y"))
}

func TestMaskDSN(t *testing.T) {
	assert.Equal(t, "root:****@tcp(db:3306)/app", maskDSN("root:secret@tcp(db:3306)/app"))
}

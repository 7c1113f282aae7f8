// admin 命令行：创建或提升管理员账号。
// /register 只允许 admin 调用，第一个 admin 需要从这里建。
//
//	go run ./cmd/admin -email root@example.com -password 'S3cret!!' -name Root
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"strings"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"enquiry-service/internal/core/config"
	"enquiry-service/internal/core/database"
	"enquiry-service/internal/core/logger"
	"enquiry-service/internal/domain"
	"enquiry-service/internal/repo"
	"enquiry-service/pkg/utils"
)

func main() {
	var (
		email    = flag.String("email", "", "admin email (required)")
		password = flag.String("password", "", "password; empty keeps the current one when promoting")
		name     = flag.String("name", "Admin", "display name for a new account")
	)
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	addr := strings.ToLower(strings.TrimSpace(*email))
	if addr == "" {
		flag.Usage()
		os.Exit(2)
	}

	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		log.Fatal("db open", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("automigrate failed", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := repo.NewUserRepo(db)
	u, err := users.FindByEmail(ctx, addr)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		if *password == "" {
			log.Fatal("password is required for a new account")
		}
		hash, err := utils.HashPassword(*password)
		if err != nil {
			log.Fatal("hash password", zap.Error(err))
		}
		u = &domain.User{Name: *name, Email: addr, Password: hash, Role: domain.RoleAdmin}
		if err := users.Create(ctx, u); err != nil {
			log.Fatal("create admin", zap.Error(err))
		}
		log.Info("admin created", zap.Uint("id", u.ID), zap.String("email", u.Email))

	case err != nil:
		log.Fatal("lookup user", zap.Error(err))

	default:
		u.Role = domain.RoleAdmin
		if *password != "" {
			hash, err := utils.HashPassword(*password)
			if err != nil {
				log.Fatal("hash password", zap.Error(err))
			}
			u.Password = hash
		}
		if err := users.Save(ctx, u); err != nil {
			log.Fatal("promote user", zap.Error(err))
		}
		log.Info("user promoted to admin", zap.Uint("id", u.ID), zap.String("email", u.Email))
	}
}

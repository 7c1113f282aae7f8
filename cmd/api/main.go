package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"enquiry-service/internal/core/auth"
	"enquiry-service/internal/core/config"
	"enquiry-service/internal/core/database"
	"enquiry-service/internal/core/limiter"
	"enquiry-service/internal/core/logger"
	"enquiry-service/internal/core/server"
	"enquiry-service/internal/core/storage"
	"enquiry-service/internal/repo"
	"enquiry-service/internal/service"
	"enquiry-service/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.FromConfig(cfg.Log)
	defer cleanup()
	undo := logger.RedirectStdLog(log, zapcore.InfoLevel)
	defer undo()

	if cfg.App.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = logger.ToWriter(log, zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(log, zapcore.ErrorLevel)

	// 数据库（失败会直接 Fatal）
	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	// 自动迁移
	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	// JWT（只承载 token 行 ID）
	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}

	// 登录失败锁定：配置了 redis 才启用
	var loginLimiter service.LoginLimiter
	if cfg.Redis.Addr != "" {
		rdb := limiter.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer rdb.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, login lockout fails open", zap.Error(err))
		}
		cancel()
		loginLimiter = limiter.New(rdb, cfg.Auth.MaxLoginAttempts, time.Duration(cfg.Auth.LockoutSec)*time.Second)
		log.Info("login lockout enabled", zap.Int("max_attempts", cfg.Auth.MaxLoginAttempts))
	}

	// 依赖
	authSvc := service.NewAuthService(repo.NewUserRepo(db), repo.NewTokenRepo(db), jwter, loginLimiter, log)
	images := storage.NewImageStore(cfg.Storage.Root, cfg.Storage.URLPrefix)
	enquirySvc := service.NewEnquiryService(repo.NewEnquiryRepo(db), images, authSvc, log)

	r := router.NewAPIEngine(router.Deps{
		Log:            log,
		DB:             db,
		Auth:           authSvc,
		Enquiries:      enquirySvc,
		StorageRoot:    cfg.Storage.Root,
		StorageURL:     cfg.Storage.URLPrefix,
		CORSOrigins:    cfg.App.HTTP.CORSOrigins,
		RequestTimeout: time.Duration(cfg.App.HTTP.WriteTimeoutSec) * time.Second,
	})

	// HTTP Server
	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)
	srv.ErrorLog = logger.ToStdLogger(log, zapcore.WarnLevel)

	// 启动日志
	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("enquiry api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/api/v1"),
	)

	// 异步启动
	go func() {
		if err := server.StartHTTP(srv, log); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("enquiry api start FAILED", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
	log.Info("enquiry api stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
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
		l.Fatal("db open", zap.Error(err))
	}
	return db
}

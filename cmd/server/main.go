package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	"github.com/LeeCh0129/greenie-backend/internal/cache"
	"github.com/LeeCh0129/greenie-backend/internal/config"
	"github.com/LeeCh0129/greenie-backend/internal/logger"
	"github.com/LeeCh0129/greenie-backend/internal/repository"
	"github.com/LeeCh0129/greenie-backend/internal/server"
	"github.com/LeeCh0129/greenie-backend/internal/service"
	"github.com/LeeCh0129/greenie-backend/internal/telemetry"
	"github.com/LeeCh0129/greenie-backend/internal/utils"
	"github.com/LeeCh0129/greenie-backend/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	lgr, err := logger.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = lgr.Sync() }()

	if err := run(cfg, lgr); err != nil {
		lgr.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, lgr *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	lgr.Info("starting greenie backend", zap.String("environment", cfg.Environment))

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Environment,
		}); err != nil {
			return err
		}
		defer sentry.Flush(2 * time.Second)
	}

	shutdownTracing, err := telemetry.Init(ctx, cfg.ServiceName, cfg.Environment, cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			lgr.Warn("tracing shutdown failed", zap.Error(err))
		}
	}()

	// Initialize database
	dbLogLevel := gormlogger.Warn
	if cfg.Environment == "production" {
		dbLogLevel = gormlogger.Error
	}
	db, err := utils.InitDB(ctx, utils.DBOptions{
		Driver:   cfg.DatabaseDriver,
		DSN:      cfg.DatabaseURL,
		MaxConns: cfg.DatabaseMaxConns,
		LogLevel: dbLogLevel,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := utils.CloseDB(db); err != nil {
			lgr.Warn("error closing database", zap.Error(err))
		}
	}()
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	// OTP throttle
	var throttle cache.OTPThrottle = cache.NoopOTPThrottle{}
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()
		throttle = cache.NewRedisOTPThrottle(client, cfg.OTPRequestCooldown)
	} else {
		lgr.Warn("REDIS_URL not set, otp requests are not throttled")
	}

	// Initialize email provider
	var emailProvider worker.EmailProvider
	if cfg.SMTPUser != "" {
		emailProvider = worker.NewSMTPEmailProvider(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.EmailFrom)
	} else {
		lgr.Warn("SMTP_USER not set, mail is logged instead of sent")
		emailProvider = worker.NewMockEmailProvider()
	}
	emailPool := worker.NewEmailWorkerPool(cfg.EmailWorkerPoolSize, cfg.EmailTaskQueueSize, emailProvider)
	defer emailPool.Stop()

	// Initialize repositories
	accountRepo := repository.NewAccountRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)

	// Initialize services
	hasher, err := utils.NewPasswordHasher(cfg.HashCost)
	if err != nil {
		return err
	}
	validator := utils.NewValidator()

	tokens := service.NewTokenService(accountRepo, refreshTokenRepo, hasher, service.TokenServiceConfig{
		AccessSecret:  cfg.AccessTokenSecret,
		RefreshSecret: cfg.RefreshTokenSecret,
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
	})
	otp := service.NewOTPService(accountRepo, throttle, emailPool, validator, service.OTPServiceConfig{})
	authService := service.NewAuthService(accountRepo, tokens, otp, hasher, validator, service.AuthServiceConfig{
		RotateBelow: cfg.RefreshRotateBelow,
	})

	// Initialize cleanup worker
	cleanupWorker := worker.NewCleanupWorker(refreshTokenRepo, cfg.TokenCleanupPeriod, nil)
	cleanupWorker.Start()
	defer cleanupWorker.Stop()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := server.NewRouter(lgr, server.Services{
		Auth:     authService,
		Users:    service.NewUserService(accountRepo, postRepo),
		Posts:    service.NewPostService(postRepo, likeRepo),
		Comments: service.NewCommentService(commentRepo, postRepo),
		Likes:    service.NewLikeService(likeRepo, commentRepo),
	}, validator, sqlDB, server.RouterConfig{
		ServiceName:   cfg.ServiceName,
		AuthRateLimit: cfg.AuthRateLimit,
		AuthRateBurst: cfg.AuthRateBurst,
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	health := server.NewHealthServer(lgr, sqlDB, 10*time.Second)
	health.Start()
	defer health.Stop()

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return err
	}

	errCh := make(chan error, 2)
	go func() {
		lgr.Info("starting gRPC health server", zap.String("addr", cfg.GRPCAddr))
		if err := health.GRPC().Serve(lis); err != nil {
			errCh <- err
		}
	}()
	go func() {
		lgr.Info("starting HTTP server", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Handle graceful shutdown
	select {
	case <-ctx.Done():
		lgr.Info("shutdown signal received, gracefully shutting down")
	case err := <-errCh:
		lgr.Error("server failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		lgr.Warn("http shutdown failed", zap.Error(err))
	}
	lgr.Info("servers stopped")

	return nil
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/billbook-api/internal/application/service"
	"github.com/sangkips/billbook-api/internal/config"
	"github.com/sangkips/billbook-api/internal/infrastructure/database"
	"github.com/sangkips/billbook-api/internal/infrastructure/repository"
	"github.com/sangkips/billbook-api/internal/presentation/http/handler"
	"github.com/sangkips/billbook-api/internal/presentation/http/middleware"
	"github.com/sangkips/billbook-api/internal/presentation/http/routes"
	"github.com/sangkips/billbook-api/pkg/logger"
	"github.com/sangkips/billbook-api/pkg/oauth"
	"github.com/sangkips/billbook-api/pkg/printer"
	"github.com/sangkips/billbook-api/pkg/utils"
	"go.uber.org/zap"
)

const idempotencyCleanupInterval = time.Hour

func main() {
	// Load configuration
	cfg := config.Load()

	zlog, err := logger.New(logger.Options{
		Level:      cfg.Log.Level,
		Dev:        cfg.Log.Dev,
		File:       cfg.Log.File,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		log.Fatalf("Failed to initialise logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if err := run(cfg, zlog); err != nil {
		zlog.Error("server exited with error", zap.Error(err))
		_ = zlog.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := utils.InitLedgerNode(cfg.Ledger.SnowflakeNode); err != nil {
		return err
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database, database.GormLogLevel(cfg.Log.Level), zlog)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := database.AutoMigrate(db); err != nil {
		return err
	}

	reportingDB, err := database.NewReportingDB(db)
	if err != nil {
		return err
	}

	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	transactor := repository.NewTransactor(db)
	userRepo := repository.NewUserRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	dueRepo := repository.NewDueRecordRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	reportRepo := repository.NewReportRepository(reportingDB)

	googleOAuthService := oauth.NewGoogleOAuthService(oauth.GoogleOAuthConfig{
		ClientID:           cfg.OAuth.GoogleClientID,
		ClientSecret:       cfg.OAuth.GoogleClientSecret,
		RedirectURL:        cfg.OAuth.GoogleRedirectURL,
		FrontendSuccessURL: cfg.OAuth.FrontendSuccessURL,
		FrontendErrorURL:   cfg.OAuth.FrontendErrorURL,
	})

	receiptPrinter, err := printer.New(printer.Config{
		Type:    cfg.Printer.Type,
		USBPath: cfg.Printer.USBPath,
		Address: cfg.Printer.Address,
	})
	if err != nil {
		return err
	}

	// Initialize services
	dueDays := cfg.Ledger.DueDefaultDays
	authService := service.NewAuthService(userRepo, jwtManager, zlog.Named("auth"))
	receiptService := service.NewReceiptService(transactor, userRepo, receiptRepo, dueRepo, accountRepo, dueDays, zlog.Named("receipts"))
	dueService := service.NewDueService(transactor, dueRepo, accountRepo, dueDays, zlog.Named("dues"))
	accountService := service.NewAccountService(transactor, userRepo, accountRepo, zlog.Named("ledger"))
	reportService := service.NewReportService(reportRepo)
	printService := service.NewPrintService(receiptPrinter, cfg.Printer.Type, cfg.Printer.CharWidth, receiptService, userRepo, zlog.Named("printer"))

	handlers := &routes.Handlers{
		Auth:    handler.NewAuthHandler(authService, googleOAuthService, cfg.App.IsProduction(), zlog.Named("oauth")),
		Receipt: handler.NewReceiptHandler(receiptService),
		Due:     handler.NewDueHandler(dueService),
		Account: handler.NewAccountHandler(accountService),
		Report:  handler.NewReportHandler(reportService),
		Print:   handler.NewPrintHandler(printService),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: float64(cfg.RateLimit.Requests) / float64(max(cfg.RateLimit.Duration, 1)),
		BurstSize:         cfg.RateLimit.Requests,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	})
	go rateLimiter.Run(ctx)
	go sweepIdempotencyKeys(ctx, idempotencyRepo, zlog)

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
		Logger:          zlog.Named("http"),
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zlog.Info("starting server",
			zap.String("app", cfg.App.Name),
			zap.String("env", cfg.App.Env),
			zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zlog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type expiredKeySweeper interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

func sweepIdempotencyKeys(ctx context.Context, repo expiredKeySweeper, zlog *zap.Logger) {
	ticker := time.NewTicker(idempotencyCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := repo.DeleteExpired(ctx)
			if err != nil {
				zlog.Warn("idempotency key cleanup failed", zap.Error(err))
				continue
			}
			if deleted > 0 {
				zlog.Info("expired idempotency keys removed", zap.Int64("count", deleted))
			}
		}
	}
}

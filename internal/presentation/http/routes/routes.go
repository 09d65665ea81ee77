package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/billbook-api/internal/config"
	domainRepo "github.com/sangkips/billbook-api/internal/domain/repository"
	"github.com/sangkips/billbook-api/internal/presentation/http/handler"
	"github.com/sangkips/billbook-api/internal/presentation/http/middleware"
	"github.com/sangkips/billbook-api/pkg/utils"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth    *handler.AuthHandler
	Receipt *handler.ReceiptHandler
	Due     *handler.DueHandler
	Account *handler.AccountHandler
	Report  *handler.ReportHandler
	Print   *handler.PrintHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.UserRateLimiter
	Logger          *zap.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.RecoveryMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		if deps.RateLimiter != nil {
			protected.Use(deps.RateLimiter.Middleware())
		}
		protected.Use(middleware.Idempotency(middleware.IdempotencyConfig{
			Repo:   deps.IdempotencyRepo,
			TTL:    deps.Cfg.Ledger.IdempotencyTTL,
			Logger: deps.Logger,
		}))

		registerProtectedRoutes(protected, h)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.POST("/reset-password", h.Auth.ResetPassword)
		auth.GET("/google", h.Auth.GoogleAuth)
		auth.GET("/google/callback", h.Auth.GoogleCallback)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers) {
	protected.GET("/profile", h.Auth.GetProfile)
	protected.PUT("/profile", h.Auth.UpdateProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	receipts := protected.Group("/receipts")
	{
		receipts.GET("", h.Receipt.List)
		receipts.POST("", h.Receipt.Create)
		receipts.GET("/next-number", h.Receipt.NextNumber)
		receipts.GET("/:id", h.Receipt.Get)
		receipts.GET("/:id/ticket", h.Print.Ticket)
		receipts.POST("/:id/print", h.Print.Print)
	}
	protected.GET("/printer/status", h.Print.Status)

	dues := protected.Group("/due")
	{
		dues.GET("", h.Due.ListUnpaid)
		dues.GET("/paid", h.Due.ListPaid)
		dues.POST("", h.Due.Create)
		dues.PUT("", h.Due.Settle)
	}

	transactions := protected.Group("/transactions")
	{
		transactions.GET("", h.Account.List)
		transactions.POST("", h.Account.Record)
		transactions.DELETE("", h.Account.Clear)
	}

	reports := protected.Group("/reports")
	{
		reports.GET("/summary", h.Report.Summary)
	}
}

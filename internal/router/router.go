package router

import (
	"time"

	"github.com/LUNDWw/Sistemas-oticas/internal/config"
	"github.com/LUNDWw/Sistemas-oticas/internal/handler"
	"github.com/LUNDWw/Sistemas-oticas/internal/middleware"
	"github.com/LUNDWw/Sistemas-oticas/internal/repository"
	"github.com/LUNDWw/Sistemas-oticas/internal/service"
	"github.com/LUNDWw/Sistemas-oticas/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	movementRepo := repository.NewMovementRepository(db)
	paymentRepo := repository.NewPartialPaymentRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	orderSvc := service.NewOrderService(orderRepo)
	cashFlowSvc := service.NewCashFlowService(movementRepo, paymentRepo, orderRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	ordersH := handler.NewOrderHandler(orderSvc)
	cashFlowH := handler.NewCashFlowHandler(cashFlowSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	staff := middleware.RequireRole("atendente", "admin")
	v1 := r.Group("/v1", jwtMW)
	{
		v1.GET("/dashboard", staff, ordersH.Dashboard)

		orders := v1.Group("/orders", staff)
		{
			orders.POST("", ordersH.Create)
			orders.GET("", ordersH.List)
			orders.GET("/:id", ordersH.Get)
			orders.PUT("/:id", ordersH.Update)
			orders.DELETE("/:id", ordersH.Delete)

			// Payments hang off the order they settle
			orders.POST("/:id/payments", cashFlowH.AddPartialPayment)
			orders.GET("/:id/balance", cashFlowH.GetOrderBalance)
		}
		// Restoring a soft-deleted order is an admin action
		v1.PATCH("/orders/:id/restore", middleware.RequireRole("admin"), ordersH.Restore)

		payments := v1.Group("/payments", staff)
		{
			payments.PUT("/:id", cashFlowH.EditPartialPayment)
			payments.DELETE("/:id", cashFlowH.DeletePartialPayment)
		}

		cashflow := v1.Group("/cashflow", staff)
		{
			cashflow.GET("", cashFlowH.Overview)
			cashflow.POST("/entries", cashFlowH.AddEntry)
			cashflow.POST("/exits", cashFlowH.AddExit)
			cashflow.GET("/movements", cashFlowH.ListMovements)
			cashflow.PUT("/movements/:id", cashFlowH.EditMovement)
			cashflow.GET("/balance", cashFlowH.GetBalance)
			cashflow.GET("/summary", cashFlowH.GetSummary)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}

package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"gorm.io/gorm"

	_ "github.com/sweetshop/inventory-system/docs"
	"github.com/sweetshop/inventory-system/internal/api/handler"
	"github.com/sweetshop/inventory-system/internal/api/middleware"
	"github.com/sweetshop/inventory-system/internal/core/domain"
	"github.com/sweetshop/inventory-system/internal/core/service"
	"github.com/sweetshop/inventory-system/internal/infrastructure/db/postgres"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *gorm.DB, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddleware("sweetshop"))

	// --- Dependencies ---
	authRepo := postgres.NewAuthRepository(db)
	sweetRepo := postgres.NewSweetRepository(db)

	authService := service.NewAuthService(authRepo, jwtSecret, tokenTTL)
	sweetService := service.NewSweetService(sweetRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	sweetHandler := handler.NewSweetHandler(sweetService)

	authMW := middleware.Auth(jwtSecret)
	adminMW := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/api/auth/register", authHandler.Register)
	e.POST("/api/auth/login", authHandler.Login)

	// --- Inventory routes (all authenticated) ---
	sweets := e.Group("/api/sweets", authMW)
	sweets.POST("", sweetHandler.Create)
	sweets.GET("", sweetHandler.List)
	sweets.GET("/search", sweetHandler.Search)
	sweets.GET("/:id", sweetHandler.Get)
	sweets.PUT("/:id", sweetHandler.Update)
	sweets.DELETE("/:id", sweetHandler.Delete, adminMW)
	sweets.POST("/:id/purchase", sweetHandler.Purchase)
	sweets.POST("/:id/restock", sweetHandler.Restock, adminMW)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

package router

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/athmaw/ttis-tracker/internal/handler"
	"github.com/athmaw/ttis-tracker/internal/middleware"
	"github.com/athmaw/ttis-tracker/pkg/logger"
	"github.com/athmaw/ttis-tracker/pkg/validation"
	"github.com/athmaw/ttis-tracker/prometheus"
)

// New builds the Echo instance with all middleware and routes wired
func New() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	auth := e.Group("/auth")
	auth.POST("/login", handler.Login)

	// Inventory routes - reads for any staff, writes for admins only
	inventory := e.Group("/inventory", middleware.AuthMiddleware)
	inventory.GET("", handler.ListItems)
	inventory.POST("", handler.CreateItem, middleware.RequireAdmin)
	inventory.PUT("/:id", handler.UpdateItem, middleware.RequireAdmin)
	inventory.DELETE("/:id", handler.DeleteItem, middleware.RequireAdmin)

	// Sales routes
	sales := e.Group("/sales", middleware.AuthMiddleware)
	sales.GET("", handler.ListSales)
	sales.POST("", handler.CreateSale)
	sales.PUT("/:id", handler.UpdateSale)
	sales.DELETE("/:id", handler.DeleteSale)
	sales.POST("/upload-excel", handler.UploadSales)
	sales.GET("/reports/monthly", handler.MonthlySalesReport)

	return e
}

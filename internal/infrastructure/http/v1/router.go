// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"bikeshop/internal/domain/catalog"
	"bikeshop/internal/domain/sales"
	"bikeshop/internal/domain/stock"
	"bikeshop/internal/infrastructure/http/v1/handlers"
	"bikeshop/internal/infrastructure/http/v1/middleware"
	"bikeshop/internal/infrastructure/storage/postgres"
	"bikeshop/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Pool is the database connection (for health checks)
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation; nil disables auth entirely
	JWTValidator middleware.JWTValidator

	// AuthRequired makes bearer tokens mandatory on /api/v1
	AuthRequired bool

	StockService *stock.Service
	SaleService  *sales.Service

	Products   catalog.ProductRepository
	Warehouses catalog.WarehouseRepository
	Clients    catalog.ClientRepository
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	api := router.Group("/api/v1")
	if cfg.JWTValidator != nil {
		if cfg.AuthRequired {
			api.Use(middleware.Auth(cfg.JWTValidator))
		} else {
			api.Use(middleware.OptionalAuth(cfg.JWTValidator))
		}
	}

	baseHandler := handlers.NewBaseHandler()

	stockHandler := handlers.NewStockHandler(baseHandler, cfg.StockService)
	stockHandler.RegisterRoutes(api.Group("/stock"))

	saleHandler := handlers.NewSaleHandler(baseHandler, cfg.SaleService)
	saleHandler.RegisterRoutes(api.Group("/sales"))

	catalogHandler := handlers.NewCatalogHandler(baseHandler, cfg.Products, cfg.Warehouses, cfg.Clients)
	catalogHandler.RegisterRoutes(api.Group("/catalog"))

	return router
}

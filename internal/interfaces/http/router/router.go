// Package router assembles the gin engine from middleware and handlers.
package router

import (
	"net/http"

	"github.com/farmdesk/backend/internal/infrastructure/config"
	"github.com/farmdesk/backend/internal/interfaces/http/dto"
	"github.com/farmdesk/backend/internal/interfaces/http/handler"
	"github.com/farmdesk/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers bundles everything the router mounts
type Handlers struct {
	Health        *handler.HealthHandler
	Inventory     *handler.InventoryHandler
	PurchaseOrder *handler.PurchaseOrderHandler
}

// New builds the gin engine with middleware and all routes registered
func New(cfg *config.Config, logger *zap.Logger, handlers Handlers) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(cfg.HTTP.TrustedProxies)
	}

	engine.Use(
		middleware.RequestID(),
		middleware.AccessLog(logger),
		middleware.Recovery(logger),
	)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrCodeNotFound, "Route not found"))
	})

	handlers.Health.RegisterRoutes(engine)

	api := engine.Group("/api/v1")
	api.Use(middleware.Identity())
	{
		handlers.Inventory.RegisterRoutes(api)
		handlers.PurchaseOrder.RegisterRoutes(api)
	}

	return engine
}

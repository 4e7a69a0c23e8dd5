package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ayurbazaar/storefront/internal/api/handlers"
	"github.com/ayurbazaar/storefront/internal/cart"
	"github.com/ayurbazaar/storefront/internal/catalog"
	"github.com/ayurbazaar/storefront/internal/config"
	"github.com/ayurbazaar/storefront/internal/pricing"
)

// Deps carries everything the routes close over
type Deps struct {
	Catalog    *catalog.Service
	Cart       *cart.Store
	Selections *cart.SelectionTracker
	Pricer     *pricing.Engine
}

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, deps Deps, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := router.Group("/v1")
	{
		v1.GET("/categories", handlers.HandleListCategories(deps.Catalog, logger))
		v1.GET("/products", handlers.HandleListProducts(deps.Catalog, logger))
		v1.GET("/products/:id", handlers.HandleGetProduct(deps.Catalog, deps.Cart, deps.Selections, logger))
		v1.POST("/products/:id/select", handlers.HandleSelectVariant(deps.Catalog, deps.Cart, deps.Selections, logger))

		v1.GET("/cart", handlers.HandleGetCart(cfg, deps.Cart))
		v1.PUT("/cart/items/:id", handlers.HandleSetQuantity(deps.Cart, logger))
		v1.DELETE("/cart/items/:id", handlers.HandleRemoveItem(deps.Cart, logger))

		v1.POST("/price-preview", handlers.HandlePricePreview(deps.Pricer))
	}

	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}

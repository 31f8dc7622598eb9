package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-api/internal/handler"
	mid "storefront-api/internal/middleware"
	"storefront-api/pkg/authtoken"
	"storefront-api/pkg/config"
	"storefront-api/pkg/database"
	"storefront-api/pkg/logger"
	"storefront-api/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// newRouter assembles the Echo instance: global middleware, the route
// table and the JSON 404 fallback. The database handle and token
// verifier are injected so the wiring is constructible in tests.
func newRouter(cfg *config.Config, db *gorm.DB, verifier *authtoken.Verifier, log *zap.Logger) *echo.Echo {
	catalogHandler := handler.NewCatalogHandler(db, cfg.Server.BaseURL)
	productHandler := handler.NewProductHandler(db, cfg.Server.BaseURL)
	reviewHandler := handler.NewReviewHandler(db)
	orderHandler := handler.NewOrderHandler(db, cfg.Server.BaseURL)

	e := echo.New()
	e.HideBanner = true

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(mid.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(mid.MetricsMiddleware)

	// Operational endpoints
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Catalog
	e.GET("/api/categories", catalogHandler.ListCategories)
	e.GET("/api/categories/:id", catalogHandler.GetCategory)
	e.GET("/api/category/:categoryId", catalogHandler.ListCategoryProducts)
	e.GET("/api/new-arrivals", catalogHandler.ListNewArrivals)
	e.GET("/api/best-sellers", catalogHandler.ListBestSellers)
	e.GET("/api/deals", catalogHandler.ListDeals)
	e.GET("/api/product/:id", productHandler.GetProduct)

	// Reviews - every mutation runs behind bearer-token verification
	bearerAuth := mid.BearerAuth(verifier)
	e.GET("/api/product/:id/reviews", reviewHandler.ListReviews)
	e.POST("/api/product/:id/reviews", reviewHandler.CreateReview, bearerAuth)
	e.PUT("/api/reviews/:reviewId", reviewHandler.UpdateReview, bearerAuth)
	e.DELETE("/api/reviews/:reviewId", reviewHandler.DeleteReview, bearerAuth)

	// Orders
	e.POST("/api/orders", orderHandler.CreateOrder)
	e.GET("/api/orders/user/:userId", orderHandler.ListUserOrders)
	e.GET("/api/orders/order/:orderId", orderHandler.GetOrder)
	e.DELETE("/api/orders/:orderId", orderHandler.DeleteOrder)

	// Unmatched routes answer with a JSON body
	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Endpoint not found"})
	})

	return e
}

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting storefront-api",
		zap.String("environment", cfg.Server.Env),
		zap.String("port", cfg.Server.Port))

	// Initialize Prometheus metrics
	prometheus.InitMetrics(cfg)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", cfg.Metrics.Prefix))

	// Open database; main owns the handle and hands it to the handlers
	db, err := database.Open(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established and migrations completed")

	// Identity-provider token verification
	verifier := authtoken.NewVerifier(cfg.Auth.SigningKey)

	e := newRouter(cfg, db, verifier, log)

	// Start server
	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error", zap.Error(err))
		}
	}()

	// Wait for a termination signal, then drain in-flight requests and
	// release the connection pool
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
	if err := database.Close(db); err != nil {
		log.Error("Database close failed", zap.Error(err))
	}
	log.Info("Shutdown complete")
}

package handler

import (
	"errors"
	"net/http"

	"storefront-api/internal/catalog"
	"storefront-api/pkg/logger"
	"storefront-api/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// ProductHandler serves the single aggregated product endpoint.
type ProductHandler struct {
	db      *gorm.DB
	baseURL string
}

// NewProductHandler creates a ProductHandler backed by the given database
func NewProductHandler(db *gorm.DB, baseURL string) *ProductHandler {
	return &ProductHandler{db: db, baseURL: baseURL}
}

// GetProduct returns one aggregated product with its rating summary. The
// join row and the review aggregate are independent reads, so they are
// fetched concurrently.
func (h *ProductHandler) GetProduct(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := parsePositiveID(c.Param("id"))
	if err != nil {
		log.Warn("Invalid product ID", zap.String("id", c.Param("id")))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid product ID format",
		})
	}

	var (
		row           catalog.Row
		averageRating float64
		reviewCount   int64
	)

	var g errgroup.Group
	g.Go(func() error {
		var err error
		row, err = catalog.ProductByID(h.db, id)
		return err
	})
	g.Go(func() error {
		var err error
		averageRating, reviewCount, err = catalog.RatingSummary(h.db, id)
		return err
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("Product not found", zap.Uint("product_id", id))
			return c.JSON(http.StatusNotFound, echo.Map{
				"error": "Product not found",
			})
		}
		log.Error("Failed to fetch product",
			zap.Uint("product_id", id),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Internal server error",
		})
	}

	product := catalog.FromRow(row, h.baseURL)
	product.AverageRating = &averageRating
	product.ReviewCount = &reviewCount

	source := "direct"
	if len(product.Tags) > 0 {
		source = string(product.Tags[0])
	}
	prometheus.ProductViewsCounter.WithLabelValues(source).Inc()

	log.Info("Product retrieved successfully",
		zap.Uint("product_id", product.ID),
		zap.String("product_name", product.Name),
		zap.Int("tag_count", len(product.Tags)))
	return c.JSON(http.StatusOK, product)
}

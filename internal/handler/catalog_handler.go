package handler

import (
	"errors"
	"net/http"
	"strconv"

	"storefront-api/internal/catalog"
	"storefront-api/internal/model"
	"storefront-api/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CatalogHandler serves the category and storefront rail endpoints.
type CatalogHandler struct {
	db      *gorm.DB
	baseURL string
}

// NewCatalogHandler creates a CatalogHandler backed by the given database
func NewCatalogHandler(db *gorm.DB, baseURL string) *CatalogHandler {
	return &CatalogHandler{db: db, baseURL: baseURL}
}

// ListCategories handles retrieving all categories
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	log := logger.FromContext(c)

	var categories []model.Category
	result := h.db.Find(&categories)
	if result.Error != nil {
		log.Error("Failed to list categories", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Internal server error",
		})
	}

	log.Info("Categories retrieved successfully", zap.Int("count", len(categories)))
	return c.JSON(http.StatusOK, categories)
}

// GetCategory retrieves a single category by ID. The id is validated
// before any query runs.
func (h *CatalogHandler) GetCategory(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := parsePositiveID(c.Param("id"))
	if err != nil {
		log.Warn("Invalid category ID", zap.String("id", c.Param("id")))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid category ID format",
		})
	}

	var category model.Category
	result := h.db.First(&category, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			log.Warn("Category not found", zap.Uint("category_id", id))
			return c.JSON(http.StatusNotFound, echo.Map{
				"error": "Category not found",
			})
		}
		log.Error("Failed to fetch category",
			zap.Uint("category_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error":      "Internal server error",
			"details":    result.Error.Error(),
			"suggestion": "Verify the category exists in the database",
		})
	}

	log.Info("Category retrieved successfully",
		zap.Uint("category_id", category.ID),
		zap.String("category_name", category.Name))
	return c.JSON(http.StatusOK, category)
}

// ListCategoryProducts returns every product in a category in aggregated
// form, uncapped.
func (h *CatalogHandler) ListCategoryProducts(c echo.Context) error {
	log := logger.FromContext(c)

	categoryID, err := parsePositiveID(c.Param("categoryId"))
	if err != nil {
		log.Warn("Invalid category ID", zap.String("category_id", c.Param("categoryId")))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid category ID format",
		})
	}

	rows, err := catalog.ProductsByCategory(h.db, categoryID)
	if err != nil {
		log.Error("Failed to fetch category products",
			zap.Uint("category_id", categoryID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error":      "Internal server error",
			"details":    err.Error(),
			"suggestion": "Check database connection and table structures",
		})
	}

	products := catalog.FromRows(rows, h.baseURL)
	log.Info("Category products retrieved",
		zap.Uint("category_id", categoryID),
		zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, products)
}

// ListNewArrivals returns the top 20 new arrivals, newest first
func (h *CatalogHandler) ListNewArrivals(c echo.Context) error {
	return h.listRail(c, "new_arrivals", catalog.NewArrivals)
}

// ListBestSellers returns the top 20 best sellers by units sold
func (h *CatalogHandler) ListBestSellers(c echo.Context) error {
	return h.listRail(c, "best_sellers", catalog.BestSellers)
}

// ListDeals returns the top 20 deals by steepest discount
func (h *CatalogHandler) ListDeals(c echo.Context) error {
	return h.listRail(c, "deals", catalog.Deals)
}

func (h *CatalogHandler) listRail(c echo.Context, name string, query func(*gorm.DB) ([]catalog.Row, error)) error {
	log := logger.FromContext(c)

	rows, err := query(h.db)
	if err != nil {
		log.Error("Failed to fetch product rail",
			zap.String("rail", name),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error":   "Internal server error",
			"details": err.Error(),
		})
	}

	products := catalog.FromRows(rows, h.baseURL)
	log.Info("Product rail retrieved",
		zap.String("rail", name),
		zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, products)
}

// parsePositiveID parses a path parameter that must be a positive integer
func parsePositiveID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("id must be a positive integer")
	}
	return uint(id), nil
}

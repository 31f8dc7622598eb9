package handler

import (
	"errors"
	"net/http"

	"storefront-api/internal/catalog"
	"storefront-api/internal/model"
	"storefront-api/pkg/logger"
	"storefront-api/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OrderHandler converts client cart snapshots into durable order records
// and serves order retrieval and deletion.
type OrderHandler struct {
	db      *gorm.DB
	baseURL string
}

// NewOrderHandler creates an OrderHandler backed by the given database
func NewOrderHandler(db *gorm.DB, baseURL string) *OrderHandler {
	return &OrderHandler{db: db, baseURL: baseURL}
}

// OrderPayload is the order header as submitted by the checkout form.
// Every field except user_id is optional and defaulted.
type OrderPayload struct {
	UserID          string  `json:"user_id"`
	ShippingAddress string  `json:"shipping_address"`
	City            string  `json:"city"`
	PostalCode      string  `json:"postal_code"`
	Country         string  `json:"country"`
	Phone           string  `json:"phone"`
	ShippingMethod  string  `json:"shipping_method"`
	PaymentMethod   string  `json:"payment_method"`
	Subtotal        float64 `json:"subtotal"`
	ShippingCost    float64 `json:"shipping_cost"`
	Tax             float64 `json:"tax"`
	Total           float64 `json:"total"`
}

// ItemPayload is one cart line as submitted by the client. Each field is
// defaulted independently when absent.
type ItemPayload struct {
	ProductID    uint    `json:"product_id"`
	ProductName  string  `json:"product_name"`
	ProductImage string  `json:"product_image"`
	Price        float64 `json:"price"`
	Quantity     int     `json:"quantity"`
	Source       string  `json:"source"`
}

// OrderRequest is the checkout body: one header plus the cart lines
type OrderRequest struct {
	Order OrderPayload  `json:"order"`
	Items []ItemPayload `json:"items"`
}

// CreateOrder persists the order header and every line item atomically.
// A failure anywhere rolls the whole order back; partial orders can
// never exist.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	log := logger.FromContext(c)

	var req OrderRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	if req.Order.UserID == "" {
		log.Warn("Order rejected: missing user_id")
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Missing required field: user_id",
		})
	}

	order := model.Order{
		UserID:          req.Order.UserID,
		ShippingAddress: req.Order.ShippingAddress,
		City:            req.Order.City,
		PostalCode:      req.Order.PostalCode,
		Country:         req.Order.Country,
		Phone:           req.Order.Phone,
		ShippingMethod:  defaultString(req.Order.ShippingMethod, "standard"),
		PaymentMethod:   defaultString(req.Order.PaymentMethod, "cod"),
		Subtotal:        req.Order.Subtotal,
		ShippingCost:    req.Order.ShippingCost,
		Tax:             req.Order.Tax,
		Total:           req.Order.Total,
		Status:          model.OrderStatusProcessing,
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		items := make([]model.OrderItem, 0, len(req.Items))
		for _, item := range req.Items {
			quantity := item.Quantity
			if quantity <= 0 {
				quantity = 1
			}
			items = append(items, model.OrderItem{
				OrderID:      order.ID,
				ProductID:    item.ProductID,
				ProductName:  defaultString(item.ProductName, "Unknown Product"),
				ProductImage: item.ProductImage,
				Price:        item.Price,
				Quantity:     quantity,
				Source:       defaultString(item.Source, "unknown"),
			})
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		log.Error("Failed to save order",
			zap.String("user_id", req.Order.UserID),
			zap.Int("item_count", len(req.Items)),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error":   "Internal server error",
			"details": err.Error(),
			"hint":    "Check required fields and data types",
		})
	}

	prometheus.OrderOperationsCounter.WithLabelValues("create").Inc()
	log.Info("Order created",
		zap.Uint("order_id", order.ID),
		zap.String("user_id", order.UserID),
		zap.Int("item_count", len(req.Items)),
		zap.Float64("total", order.Total))
	return c.JSON(http.StatusCreated, echo.Map{
		"orderId": order.ID,
		"message": "Order created successfully",
	})
}

// ListUserOrders returns all of a user's orders, newest first, with
// their line items attached
func (h *OrderHandler) ListUserOrders(c echo.Context) error {
	log := logger.FromContext(c)
	userID := c.Param("userId")

	orders := []model.Order{}
	result := h.db.Preload("Items").
		Where("user_id = ?", userID).
		Order("order_date DESC").
		Find(&orders)
	if result.Error != nil {
		log.Error("Failed to fetch orders",
			zap.String("user_id", userID),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Internal server error",
		})
	}

	for i := range orders {
		if orders[i].Items == nil {
			orders[i].Items = []model.OrderItem{}
		}
		h.normalizeItemImages(orders[i].Items)
	}

	log.Info("User orders retrieved",
		zap.String("user_id", userID),
		zap.Int("count", len(orders)))
	return c.JSON(http.StatusOK, orders)
}

// GetOrder returns one order with its items. The caller must supply the
// owning userId; a mismatch is Forbidden, never the order data.
func (h *OrderHandler) GetOrder(c echo.Context) error {
	log := logger.FromContext(c)

	orderID, err := parsePositiveID(c.Param("orderId"))
	if err != nil {
		log.Warn("Invalid order ID", zap.String("order_id", c.Param("orderId")))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid order ID format",
		})
	}

	userID := c.QueryParam("userId")
	if userID == "" {
		log.Warn("Missing userId query parameter", zap.Uint("order_id", orderID))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "User ID is required",
		})
	}

	var order model.Order
	result := h.db.First(&order, orderID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			log.Warn("Order not found", zap.Uint("order_id", orderID))
			return c.JSON(http.StatusNotFound, echo.Map{
				"error": "Order not found",
			})
		}
		log.Error("Failed to fetch order",
			zap.Uint("order_id", orderID),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Internal server error",
		})
	}

	if order.UserID != userID {
		log.Warn("Order ownership mismatch",
			zap.Uint("order_id", orderID),
			zap.String("owner", order.UserID),
			zap.String("caller", userID))
		return c.JSON(http.StatusForbidden, echo.Map{
			"error": "Unauthorized to view this order",
		})
	}

	order.Items = []model.OrderItem{}
	if err := h.db.Where("order_id = ?", order.ID).Find(&order.Items).Error; err != nil {
		log.Error("Failed to fetch order items",
			zap.Uint("order_id", orderID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Internal server error",
		})
	}
	h.normalizeItemImages(order.Items)

	log.Info("Order retrieved",
		zap.Uint("order_id", order.ID),
		zap.String("user_id", order.UserID),
		zap.Int("item_count", len(order.Items)))
	return c.JSON(http.StatusOK, order)
}

// DeleteOrder removes an order and, through the cascade, its items.
// There is no ownership check on this route.
func (h *OrderHandler) DeleteOrder(c echo.Context) error {
	log := logger.FromContext(c)

	orderID, err := parsePositiveID(c.Param("orderId"))
	if err != nil {
		log.Warn("Invalid order ID", zap.String("order_id", c.Param("orderId")))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid order ID format",
		})
	}

	result := h.db.Delete(&model.Order{}, orderID)
	if result.Error != nil {
		log.Error("Failed to delete order",
			zap.Uint("order_id", orderID),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Internal server error",
		})
	}

	prometheus.OrderOperationsCounter.WithLabelValues("delete").Inc()
	log.Info("Order deleted",
		zap.Uint("order_id", orderID),
		zap.Int64("rows_affected", result.RowsAffected))
	return c.JSON(http.StatusOK, echo.Map{"message": "Order deleted successfully"})
}

// normalizeItemImages resolves stored line-item image paths to absolute
// URLs; values already carrying a scheme pass through untouched
func (h *OrderHandler) normalizeItemImages(items []model.OrderItem) {
	for i := range items {
		items[i].ProductImage = catalog.AbsoluteImageURL(h.baseURL, items[i].ProductImage)
	}
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"storefront-api/internal/model"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderRequiresUserID(t *testing.T) {
	h := NewOrderHandler(nil, "http://localhost:5000")
	e := echo.New()
	body := `{"order":{"subtotal":50,"total":54},"items":[{"product_id":42,"price":50,"quantity":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.CreateOrder(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "user_id")
}

func TestGetOrderRequiresUserIDParam(t *testing.T) {
	h := NewOrderHandler(nil, "http://localhost:5000")
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/orders/order/7", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("orderId")
	c.SetParamValues("7")

	require.NoError(t, h.GetOrder(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "User ID is required")
}

func TestGetOrderRejectsInvalidOrderID(t *testing.T) {
	h := NewOrderHandler(nil, "http://localhost:5000")
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/orders/order/abc?userId=u1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("orderId")
	c.SetParamValues("abc")

	require.NoError(t, h.GetOrder(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteOrderRejectsInvalidOrderID(t *testing.T) {
	h := NewOrderHandler(nil, "http://localhost:5000")
	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/orders/abc", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("orderId")
	c.SetParamValues("abc")

	require.NoError(t, h.DeleteOrder(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func doCreateOrder(t *testing.T, h *OrderHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, h.CreateOrder(c))
	return rec
}

func doGetOrder(t *testing.T, h *OrderHandler, orderID, userID string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/orders/order/"+orderID+"?userId="+userID, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("orderId")
	c.SetParamValues(orderID)
	require.NoError(t, h.GetOrder(c))
	return rec
}

func TestOrderRoundTrip(t *testing.T) {
	h := NewOrderHandler(newTestDB(t), "http://localhost:5000")

	body := `{
		"order": {
			"user_id": "u1",
			"shipping_address": "1 Main St",
			"city": "Bangkok",
			"subtotal": 50,
			"shipping_cost": 0,
			"tax": 4,
			"total": 54
		},
		"items": [
			{"product_id": 1, "product_name": "Keyboard", "product_image": "/images/kb.jpg", "price": 20, "quantity": 2},
			{"product_id": 2, "product_name": "Mouse", "price": 10, "quantity": 1}
		]
	}`
	rec := doCreateOrder(t, h, body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		OrderID uint   `json:"orderId"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotZero(t, created.OrderID)
	assert.Equal(t, "Order created successfully", created.Message)

	orderID := strconv.FormatUint(uint64(created.OrderID), 10)
	rec = doGetOrder(t, h, orderID, "u1")
	require.Equal(t, http.StatusOK, rec.Code)

	var fetched model.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, "u1", fetched.UserID)
	assert.Equal(t, model.OrderStatusProcessing, fetched.Status)
	assert.Equal(t, "standard", fetched.ShippingMethod)
	assert.Equal(t, "cod", fetched.PaymentMethod)
	require.Len(t, fetched.Items, 2)

	// The snapshot prices must still account for the stored totals
	var itemSum float64
	for _, item := range fetched.Items {
		itemSum += item.Price * float64(item.Quantity)
	}
	assert.InDelta(t, fetched.Total, itemSum+fetched.ShippingCost+fetched.Tax, 1e-9)

	// Stored relative image path comes back absolute
	assert.Equal(t, "http://localhost:5000/images/kb.jpg", fetched.Items[0].ProductImage)
}

func TestGetOrderEnforcesOwnership(t *testing.T) {
	h := NewOrderHandler(newTestDB(t), "http://localhost:5000")

	rec := doCreateOrder(t, h, `{"order":{"user_id":"u1","total":10},"items":[{"product_id":1,"price":10,"quantity":1}]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		OrderID uint `json:"orderId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	orderID := strconv.FormatUint(uint64(created.OrderID), 10)

	rec = doGetOrder(t, h, orderID, "u2")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unauthorized to view this order")

	rec = doGetOrder(t, h, "9999", "u1")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateOrderDefaultsLineItems(t *testing.T) {
	h := NewOrderHandler(newTestDB(t), "http://localhost:5000")

	rec := doCreateOrder(t, h, `{"order":{"user_id":"u1"},"items":[{"product_id":1,"price":5,"quantity":0}]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var items []model.OrderItem
	require.NoError(t, h.db.Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, "Unknown Product", items[0].ProductName)
	assert.Equal(t, "unknown", items[0].Source)
}

func TestListUserOrdersIncludesItems(t *testing.T) {
	h := NewOrderHandler(newTestDB(t), "http://localhost:5000")

	require.Equal(t, http.StatusCreated, doCreateOrder(t, h,
		`{"order":{"user_id":"u1","total":20},"items":[{"product_id":1,"price":20,"quantity":1}]}`).Code)
	require.Equal(t, http.StatusCreated, doCreateOrder(t, h,
		`{"order":{"user_id":"u1","total":7},"items":[]}`).Code)
	require.Equal(t, http.StatusCreated, doCreateOrder(t, h,
		`{"order":{"user_id":"u2","total":3},"items":[]}`).Code)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/orders/u1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("userId")
	c.SetParamValues("u1")
	require.NoError(t, h.ListUserOrders(c))

	require.Equal(t, http.StatusOK, rec.Code)
	var orders []model.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	require.Len(t, orders, 2)
	for _, order := range orders {
		assert.Equal(t, "u1", order.UserID)
		require.NotNil(t, order.Items)
	}
}

func TestDeleteOrderRemovesOrder(t *testing.T) {
	h := NewOrderHandler(newTestDB(t), "http://localhost:5000")

	rec := doCreateOrder(t, h, `{"order":{"user_id":"u1","total":10},"items":[{"product_id":1,"price":10,"quantity":1}]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		OrderID uint `json:"orderId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	orderID := strconv.FormatUint(uint64(created.OrderID), 10)

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/orders/"+orderID, nil)
	del := httptest.NewRecorder()
	c := e.NewContext(req, del)
	c.SetParamNames("orderId")
	c.SetParamValues(orderID)
	require.NoError(t, h.DeleteOrder(c))
	assert.Equal(t, http.StatusOK, del.Code)

	rec = doGetOrder(t, h, orderID, "u1")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDefaultString(t *testing.T) {
	assert.Equal(t, "standard", defaultString("", "standard"))
	assert.Equal(t, "express", defaultString("express", "standard"))
}

package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ariefcatur/go-shop-orders/internal/apperr"
	"github.com/ariefcatur/go-shop-orders/internal/cart"
	"github.com/ariefcatur/go-shop-orders/internal/catalog"
	"github.com/ariefcatur/go-shop-orders/internal/metrics"
	"github.com/ariefcatur/go-shop-orders/internal/orders"
	"github.com/ariefcatur/go-shop-orders/internal/users"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	customerToken = "customer-token"
	sellerToken   = "seller-token"
)

type harness struct {
	handler  http.Handler
	orders   *fakeOrders
	catalog  *fakeCatalog
	carts    *fakeCarts
	accounts *fakeAccounts
	metrics  *metrics.ServerMetrics
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		orders: &fakeOrders{details: map[int64]*orders.Details{
			7: {Order: &orders.Order{ID: 7, UserID: 10, Status: orders.StatusPending, CreatedAt: testTime}, Items: []orders.OrderItem{}},
			8: {Order: &orders.Order{ID: 8, UserID: 10, Status: orders.StatusCompleted, CreatedAt: testTime}, Items: []orders.OrderItem{}},
		}},
		catalog: &fakeCatalog{products: map[int64]*catalog.Product{
			1: {ID: 1, Name: "Linen Shirt", Price: decimal.RequireFromString("19.99")},
			2: {ID: 2, Name: "Denim Jacket", Price: decimal.RequireFromString("5.50")},
		}},
		carts:   &fakeCarts{items: map[int64][]cart.Item{}},
		metrics: metrics.NewServerMetrics(prometheus.NewRegistry(), "api"),
	}
	h.accounts = &fakeAccounts{byToken: map[string]*users.User{
		customerToken: {ID: 10, Email: "ana@example.com", Role: users.RoleCustomer},
		sellerToken:   {ID: 20, Email: "seller@example.com", Role: users.RoleSeller},
	}}
	h.handler = (&Server{
		Orders:   h.orders,
		Catalog:  h.catalog,
		Carts:    h.carts,
		Accounts: h.accounts,
		Metrics:  h.metrics,
	}).Handler()
	return h
}

func (h *harness) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func messageOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var m message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m.Message
}

func TestHealth(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, http.StatusOK, h.do(t, http.MethodGet, "/healthz", "", nil).Code)
	rec := h.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAuthRequired(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/api/orders/user", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authentication required", messageOf(t, rec))

	rec = h.do(t, http.MethodGet, "/api/orders/user", "forged", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid token", messageOf(t, rec))
}

func TestAuthUserLookup(t *testing.T) {
	h := newHarness(t)

	h.accounts.findErr = users.ErrUserNotFound
	rec := h.do(t, http.MethodGet, "/api/orders/user", customerToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "User not found", messageOf(t, rec))

	h.accounts.findErr = errors.New("connection refused")
	rec = h.do(t, http.MethodGet, "/api/orders/user", customerToken, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", messageOf(t, rec))
}

func TestCreateOrderResolvesPrices(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/api/orders", customerToken, map[string]any{
		"items": []map[string]any{
			{"productId": 1, "quantity": 2},
			{"productId": 2, "size": "L", "quantity": 1},
		},
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, h.orders.created, 2)
	assert.Equal(t, catalog.SizeM, h.orders.created[0].Size)
	assert.Equal(t, "19.99", h.orders.created[0].UnitPrice.StringFixed(2))
	assert.Equal(t, catalog.SizeL, h.orders.created[1].Size)

	var o orders.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &o))
	assert.Equal(t, int64(10), o.UserID)
	assert.Equal(t, "45.48", o.TotalAmount.StringFixed(2))
	assert.Equal(t, orders.StatusPending, o.Status)
}

func TestCreateOrderRejections(t *testing.T) {
	tests := []struct {
		name    string
		body    any
		status  int
		message string
	}{
		{"empty items", map[string]any{"items": []any{}}, http.StatusBadRequest, "Order must contain at least one item"},
		{"bad size", map[string]any{"items": []map[string]any{{"productId": 1, "size": "XL", "quantity": 1}}}, http.StatusBadRequest, "Invalid size. Must be S, M, or L"},
		{"unknown product", map[string]any{"items": []map[string]any{{"productId": 404, "quantity": 1}}}, http.StatusNotFound, "Product not found"},
		{"no body", nil, http.StatusBadRequest, "Request body is required"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)

			rec := h.do(t, http.MethodPost, "/api/orders", customerToken, tc.body)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.message, messageOf(t, rec))
			assert.Nil(t, h.orders.created)
		})
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{apperr.New(apperr.CodeInsufficientStock, "Not enough stock for product ID 1, size M"), http.StatusBadRequest, "Not enough stock for product ID 1, size M"},
		{apperr.New(apperr.CodeConflict, "User already exists"), http.StatusConflict, "User already exists"},
		{errors.New("pq: connection refused"), http.StatusInternalServerError, "Internal Server Error"},
	}
	for _, tc := range tests {
		h := newHarness(t)
		h.orders.createErr = tc.err

		rec := h.do(t, http.MethodPost, "/api/orders", customerToken, map[string]any{
			"items": []map[string]any{{"productId": 1, "quantity": 1}},
		})

		assert.Equal(t, tc.status, rec.Code)
		assert.Equal(t, tc.message, messageOf(t, rec))
	}
}

func TestSellerOnlyOrderRoutes(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/api/orders/pending", customerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Access denied. Seller privileges required.", messageOf(t, rec))

	rec = h.do(t, http.MethodPut, "/api/orders/7/complete", customerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, h.orders.completed)

	rec = h.do(t, http.MethodGet, "/api/orders/pending", sellerToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = h.do(t, http.MethodPut, "/api/orders/7/complete", sellerToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = h.do(t, http.MethodPut, "/api/orders/8/complete", sellerToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Order is completed, not pending", messageOf(t, rec))
}

func TestGetOrderOwnership(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/api/orders/7", customerToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(t, http.MethodGet, "/api/orders/7", sellerToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	h.orders.details[9] = &orders.Details{Order: &orders.Order{ID: 9, UserID: 33}}
	rec = h.do(t, http.MethodGet, "/api/orders/9", customerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = h.do(t, http.MethodGet, "/api/orders/404", customerToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Order not found", messageOf(t, rec))

	rec = h.do(t, http.MethodGet, "/api/orders/abc", customerToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelPassesActor(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPut, "/api/orders/7/cancel", customerToken, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	require.Len(t, h.orders.cancelled, 1)
	assert.Equal(t, orders.Actor{UserID: 10, Role: orders.RoleCustomer}, h.orders.cancelled[0])
}

func TestUserOrders(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/api/orders/user", customerToken, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var list []orders.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, int64(10), list[0].UserID)
}

func TestProductRoutes(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, http.StatusOK, h.do(t, http.MethodGet, "/api/products?page=2&limit=5", "", nil).Code)
	assert.Equal(t, http.StatusOK, h.do(t, http.MethodGet, "/api/products/1", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, h.do(t, http.MethodGet, "/api/products/3", "", nil).Code)
	assert.Equal(t, http.StatusOK, h.do(t, http.MethodGet, "/api/products/1/stock", "", nil).Code)

	newProduct := map[string]any{
		"name": "Tee", "description": "Cotton", "price": "12.00", "image_url": "https://cdn.example.com/tee.png",
	}
	assert.Equal(t, http.StatusUnauthorized, h.do(t, http.MethodPost, "/api/products", "", newProduct).Code)
	assert.Equal(t, http.StatusForbidden, h.do(t, http.MethodPost, "/api/products", customerToken, newProduct).Code)
	assert.Equal(t, http.StatusCreated, h.do(t, http.MethodPost, "/api/products", sellerToken, newProduct).Code)

	rec := h.do(t, http.MethodPut, "/api/products/1/stock", sellerToken, map[string]any{"size": "XL", "count": 3})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid size. Must be S, M, or L", messageOf(t, rec))

	rec = h.do(t, http.MethodPut, "/api/products/1/stock", sellerToken, map[string]any{"size": "S", "count": 3})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []catalog.StockLevel{{ProductID: 1, Size: catalog.SizeS, StockCount: 3}}, h.catalog.stockSet)

	rec = h.do(t, http.MethodDelete, "/api/products/2", sellerToken, nil)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
}

func TestCartRoutes(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/api/cart/add", customerToken, map[string]any{"productId": 1, "quantity": 2})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"productId":1,"quantity":2}]`, rec.Body.String())

	rec = h.do(t, http.MethodPost, "/api/cart/add", customerToken, map[string]any{"productId": 1, "quantity": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(t, http.MethodDelete, "/api/cart/remove/1", customerToken, nil)
	assert.Equal(t, "Item removed from cart", messageOf(t, rec))

	rec = h.do(t, http.MethodGet, "/api/cart", customerToken, nil)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = h.do(t, http.MethodDelete, "/api/cart/clear", customerToken, nil)
	assert.Equal(t, "Cart cleared successfully", messageOf(t, rec))

	assert.Equal(t, http.StatusUnauthorized, h.do(t, http.MethodGet, "/api/cart", "", nil).Code)
}

func TestAccountRoutes(t *testing.T) {
	h := newHarness(t)

	for _, path := range []string{"/api/auth/register", "/api/users/register"} {
		rec := h.do(t, http.MethodPost, path, "", map[string]any{"email": "new@example.com", "password": "secret1"})
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"token":"new-token"`)
		assert.NotContains(t, rec.Body.String(), "password")
	}

	rec := h.do(t, http.MethodPost, "/api/users/login", "", map[string]any{"email": "ana@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "ana@example.com", "password": "bad"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password", messageOf(t, rec))

	rec = h.do(t, http.MethodPost, "/api/auth/logout", customerToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(t, http.MethodGet, "/api/users/profile/20", customerToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "seller@example.com")

	rec = h.do(t, http.MethodGet, "/api/users/profile/77", customerToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInstrumentRecordsRoutePattern(t *testing.T) {
	h := newHarness(t)

	h.do(t, http.MethodGet, "/api/products/1", "", nil)
	h.do(t, http.MethodGet, "/api/products/2", "", nil)

	got := testutil.ToFloat64(h.metrics.Requests.WithLabelValues("/api/products/{id}", http.MethodGet, "200"))
	assert.Equal(t, 2.0, got)
}

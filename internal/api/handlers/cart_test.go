package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ayurbazaar/storefront/internal/cart"
	"github.com/ayurbazaar/storefront/internal/config"
	"github.com/ayurbazaar/storefront/internal/pricing"
)

func newCartRouter(t *testing.T) (*gin.Engine, *cart.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	pricer := pricing.NewEngine(0.18, logger)
	store := cart.NewStore(5, pricer, nil, nil, logger)
	cfg := &config.Config{Pricing: config.PricingConfig{MOQ: 5, TaxRate: 0.18}}

	router := gin.New()
	router.GET("/v1/cart", HandleGetCart(cfg, store))
	router.PUT("/v1/cart/items/:id", HandleSetQuantity(store, logger))
	router.DELETE("/v1/cart/items/:id", HandleRemoveItem(store, logger))
	router.POST("/v1/price-preview", HandlePricePreview(pricer))
	return router, store
}

func putQuantity(t *testing.T, router *gin.Engine, itemID string, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/v1/cart/items/"+itemID, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleSetQuantity_AddAtMOQ(t *testing.T) {
	router, _ := newCartRouter(t)

	w := putQuantity(t, router, "X", map[string]interface{}{
		"quantity": 5, "name": "Ashwagandha", "base_price": 100,
	})

	require.Equal(t, http.StatusOK, w.Code)
	var resp CartItemResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Present)
	require.NotNil(t, resp.Item)
	assert.Equal(t, 5, resp.Item.Quantity)
	assert.InDelta(t, 100.0, resp.Item.UnitPrice, 1e-9)
}

func TestHandleSetQuantity_BelowMOQReportsAbsent(t *testing.T) {
	router, store := newCartRouter(t)

	w := putQuantity(t, router, "X", map[string]interface{}{
		"quantity": 3, "name": "Ashwagandha", "base_price": 100,
	})

	require.Equal(t, http.StatusOK, w.Code)
	var resp CartItemResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Present)
	assert.Equal(t, 5, resp.MOQ)
	assert.Empty(t, store.Items())
}

func TestHandleSetQuantity_DecrementBelowMOQRemoves(t *testing.T) {
	router, store := newCartRouter(t)

	putQuantity(t, router, "X", map[string]interface{}{"quantity": 5, "name": "A", "base_price": 100})
	putQuantity(t, router, "X", map[string]interface{}{"quantity": 4, "name": "A", "base_price": 100})

	assert.Empty(t, store.Items())
}

func TestHandleGetCart(t *testing.T) {
	router, _ := newCartRouter(t)

	putQuantity(t, router, "X", map[string]interface{}{"quantity": 10, "name": "A", "base_price": 100})

	req := httptest.NewRequest(http.MethodGet, "/v1/cart?apply_tax=true", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.InDelta(t, 950.0, resp.Totals.Subtotal, 1e-9)
	assert.InDelta(t, 171.0, resp.Totals.TaxAmount, 1e-9)
	assert.Equal(t, 5, resp.MOQ)
}

func TestHandleRemoveItem(t *testing.T) {
	router, store := newCartRouter(t)

	putQuantity(t, router, "X", map[string]interface{}{"quantity": 6, "name": "A", "base_price": 100})

	req := httptest.NewRequest(http.MethodDelete, "/v1/cart/items/X", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, store.Items())
}

func TestHandlePricePreview_BelowMOQAllowed(t *testing.T) {
	router, _ := newCartRouter(t)

	payload := []byte(`{"base_price": 100, "quantity": 3, "apply_tax": false}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/price-preview", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp pricing.Breakdown
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 100.0, resp.UnitPrice, 1e-9)
	assert.InDelta(t, 300.0, resp.Subtotal, 1e-9)
}

func TestHandleSetQuantity_RejectsMalformedBody(t *testing.T) {
	router, _ := newCartRouter(t)

	req := httptest.NewRequest(http.MethodPut, "/v1/cart/items/X", bytes.NewReader([]byte(`{"quantity": -2}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

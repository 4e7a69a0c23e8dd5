package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ayurbazaar/storefront/internal/cart"
	"github.com/ayurbazaar/storefront/internal/config"
	"github.com/ayurbazaar/storefront/internal/domain"
	"github.com/ayurbazaar/storefront/internal/pricing"
)

// SetQuantityRequest updates the cart quantity for one item identity.
// A quantity below the MOQ removes the item; that is the normal decrement
// path, not an error.
type SetQuantityRequest struct {
	Quantity  int     `json:"quantity" binding:"min=0"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	BasePrice float64 `json:"base_price" binding:"min=0"`
}

// CartItemResponse reports the cart state for one item after a mutation
type CartItemResponse struct {
	Present bool                 `json:"present"`
	Item    *domain.CartLineItem `json:"item,omitempty"`
	MOQ     int                  `json:"moq"`
}

// CartResponse is the full cart view
type CartResponse struct {
	CartID string                `json:"cart_id"`
	Items  []domain.CartLineItem `json:"items"`
	Totals pricing.Breakdown     `json:"totals"`
	MOQ    int                   `json:"moq"`
}

// PricePreviewRequest asks for a what-if breakdown without touching the cart
type PricePreviewRequest struct {
	BasePrice float64 `json:"base_price"`
	Quantity  int     `json:"quantity"`
	ApplyTax  bool    `json:"apply_tax"`
}

// HandleGetCart handles GET /v1/cart
func HandleGetCart(cfg *config.Config, store *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		applyTax := c.Query("apply_tax") == "true"

		c.JSON(http.StatusOK, CartResponse{
			CartID: store.ID(),
			Items:  store.Items(),
			Totals: store.Totals(applyTax, cfg.Pricing.TaxRate),
			MOQ:    store.MOQ(),
		})
	}
}

// HandleSetQuantity handles PUT /v1/cart/items/:id
func HandleSetQuantity(store *cart.Store, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID := c.Param("id")

		var req SetQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		item, present := store.SetQuantity(c.Request.Context(), itemID, req.Quantity, cart.LineItemTemplate{
			Name:      req.Name,
			Image:     req.Image,
			BasePrice: req.BasePrice,
		})

		resp := CartItemResponse{Present: present, MOQ: store.MOQ()}
		if present {
			resp.Item = &item
		}
		c.JSON(http.StatusOK, resp)
	}
}

// HandleRemoveItem handles DELETE /v1/cart/items/:id
func HandleRemoveItem(store *cart.Store, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID := c.Param("id")

		store.SetQuantity(c.Request.Context(), itemID, 0, cart.LineItemTemplate{})
		c.JSON(http.StatusOK, CartItemResponse{Present: false, MOQ: store.MOQ()})
	}
}

// HandlePricePreview handles POST /v1/price-preview. Previews are allowed
// below the MOQ so the quantity stepper can show prospective amounts; only
// the cart enforces the minimum.
func HandlePricePreview(pricer *pricing.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PricePreviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, pricer.Price(req.BasePrice, req.Quantity, req.ApplyTax))
	}
}

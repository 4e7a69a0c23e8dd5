package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ayurbazaar/storefront/internal/cart"
	"github.com/ayurbazaar/storefront/internal/catalog"
	"github.com/ayurbazaar/storefront/internal/domain"
	"github.com/ayurbazaar/storefront/pkg/errors"
)

const defaultPageLimit = 20

// ProductListResponse is the paginated, filtered product listing
type ProductListResponse struct {
	Items      []domain.Product `json:"items"`
	Offset     int              `json:"offset"`
	Limit      int              `json:"limit"`
	HasMore    bool             `json:"has_more"`
	NextOffset int              `json:"next_offset"`
	TotalCount int              `json:"total_count"`
}

// ProductDetailResponse augments a product with the cart-facing state the
// detail screen needs.
type ProductDetailResponse struct {
	Product         domain.Product `json:"product"`
	ActiveItemID    string         `json:"active_item_id"`
	DisplayQuantity int            `json:"display_quantity"`
	CartQuantity    int            `json:"cart_quantity"`
}

// HandleListCategories handles GET /v1/categories
func HandleListCategories(svc *catalog.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		onlyWithProducts := c.Query("with_products") == "true"

		categories, err := svc.Categories(c.Request.Context(), onlyWithProducts)
		if err != nil {
			if _, ok := err.(*errors.ErrUpstream); ok {
				c.JSON(http.StatusBadGateway, gin.H{"error": "catalog unavailable", "retryable": true})
				return
			}
			logger.Error("Failed to fetch categories", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"categories": categories})
	}
}

// HandleListProducts handles GET /v1/products. Pagination parameters drive
// the upstream fetch; price/stock/facet/sort parameters are applied in
// memory over the accumulated set.
func HandleListProducts(svc *catalog.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope := catalog.Scope{
			Category: c.Query("category"),
			Brand:    c.Query("brand"),
			Search:   c.Query("search"),
		}

		offset := parseIntQuery(c, "offset", 0)
		limit := parseIntQuery(c, "limit", defaultPageLimit)
		if limit <= 0 {
			limit = defaultPageLimit
		}

		set, err := svc.ProductPage(c.Request.Context(), scope, offset, limit, nil)
		if err != nil {
			if _, ok := err.(*errors.ErrUpstream); ok {
				// Transient upstream failure: the previous page set is
				// still cached, the app keeps what it has and retries
				c.JSON(http.StatusBadGateway, gin.H{"error": "catalog unavailable", "retryable": true})
				return
			}
			logger.Error("Failed to fetch product page", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		criteria := parseCriteria(c)
		items := svc.Displayed(scope, criteria)

		c.JSON(http.StatusOK, ProductListResponse{
			Items:      items,
			Offset:     set.Offset,
			Limit:      set.Limit,
			HasMore:    set.HasMore,
			NextOffset: set.NextOffset,
			TotalCount: set.TotalCount,
		})
	}
}

// HandleGetProduct handles GET /v1/products/:id
func HandleGetProduct(svc *catalog.Service, store *cart.Store, selections *cart.SelectionTracker, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		product, err := svc.ProductDetail(c.Request.Context(), id)
		if err != nil {
			if _, ok := err.(*errors.ErrNotFound); ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			if _, ok := err.(*errors.ErrUpstream); ok {
				c.JSON(http.StatusBadGateway, gin.H{"error": "catalog unavailable", "retryable": true})
				return
			}
			logger.Error("Failed to fetch product", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		itemID := selections.ActiveIdentity(product)
		c.JSON(http.StatusOK, ProductDetailResponse{
			Product:         product,
			ActiveItemID:    itemID,
			DisplayQuantity: store.DisplayQuantity(itemID),
			CartQuantity:    store.Quantity(itemID),
		})
	}
}

// SelectVariantRequest selects the active variant on a product detail screen
type SelectVariantRequest struct {
	VariantID string `json:"variant_id" binding:"required"`
}

// HandleSelectVariant handles POST /v1/products/:id/select. Switching the
// viewed variant re-reads the cart quantity for the new identity; it never
// writes to the cart.
func HandleSelectVariant(svc *catalog.Service, store *cart.Store, selections *cart.SelectionTracker, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var req SelectVariantRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		product, err := svc.ProductDetail(c.Request.Context(), id)
		if err != nil {
			if _, ok := err.(*errors.ErrNotFound); ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			logger.Error("Failed to fetch product for selection", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		if !selections.Select(product, req.VariantID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown variant"})
			return
		}

		itemID := selections.ActiveIdentity(product)
		c.JSON(http.StatusOK, ProductDetailResponse{
			Product:         product,
			ActiveItemID:    itemID,
			DisplayQuantity: store.DisplayQuantity(itemID),
			CartQuantity:    store.Quantity(itemID),
		})
	}
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

func parseCriteria(c *gin.Context) domain.FilterCriteria {
	criteria := domain.FilterCriteria{
		MinPrice:    catalog.ParseLooseFloat(c.Query("min_price")),
		MaxPrice:    catalog.ParseLooseFloat(c.Query("max_price")),
		InStockOnly: c.Query("in_stock") == "true",
		SortBy:      domain.SortOrder(c.Query("sort")),
	}
	if !criteria.SortBy.IsValid() {
		criteria.SortBy = domain.SortPopularity
	}

	if facets := c.Query("facets"); facets != "" {
		criteria.SelectedFacetIDs = make(map[string]struct{})
		for _, f := range strings.Split(facets, ",") {
			if trimmed := strings.TrimSpace(f); trimmed != "" {
				criteria.SelectedFacetIDs[trimmed] = struct{}{}
			}
		}
	}

	return criteria
}

package domain

// Category represents a product category normalized from an upstream payload
type Category struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	ImageURL     string `json:"image_url,omitempty"`
	ProductCount int    `json:"product_count"`
}

// HasProducts reports whether the category has anything to show when the
// caller asked for populated categories only.
func (c Category) HasProducts() bool {
	return c.ProductCount > 0
}

// Variant represents a purchasable variation of a product.
// Unknown numeric fields normalize to 0, never to a non-numeric value.
type Variant struct {
	ID            string            `json:"id"`
	Attributes    map[string]string `json:"attributes,omitempty"`
	RegularPrice  float64           `json:"regular_price"`
	SalePrice     float64           `json:"sale_price"`
	StockQuantity int               `json:"stock_quantity"`
}

// EffectivePrice returns the sale price when one is set, otherwise the
// regular price.
func (v Variant) EffectivePrice() float64 {
	if v.SalePrice > 0 && v.SalePrice <= v.RegularPrice {
		return v.SalePrice
	}
	return v.RegularPrice
}

// Product is the canonical catalog entity. Price is never negative and
// Discount is clamped to [0,100]. Image is the empty string when no image
// URL could be resolved; the view layer substitutes a placeholder.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug,omitempty"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Image       string    `json:"image"`
	Category    string    `json:"category,omitempty"`
	Brand       string    `json:"brand,omitempty"`
	Type        string    `json:"type,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Rating      float64   `json:"rating"`
	RatingCount int       `json:"rating_count"`
	InStock     bool      `json:"in_stock"`
	Discount    float64   `json:"discount"`
	Variants    []Variant `json:"variants,omitempty"`
}

// HasVariants reports whether cart identity for this product is variant-scoped
func (p Product) HasVariants() bool {
	return len(p.Variants) > 0
}

// PaginatedResultSet is the cumulative, de-duplicated list of products
// fetched so far for one query key. Items keep arrival order.
type PaginatedResultSet struct {
	QueryKey   string    `json:"query_key"`
	Items      []Product `json:"items"`
	Offset     int       `json:"offset"`
	Limit      int       `json:"limit"`
	HasMore    bool      `json:"has_more"`
	NextOffset int       `json:"next_offset"`
	TotalCount int       `json:"total_count"`
}

// FilterCriteria holds the client-side filter and sort selections. It is a
// pure value type and never mutates a Product.
type FilterCriteria struct {
	MinPrice         float64
	MaxPrice         float64
	InStockOnly      bool
	SelectedFacetIDs map[string]struct{}
	SortBy           SortOrder
}

// HasPriceRange reports whether a price window was set (MaxPrice zero means
// unbounded above).
func (f FilterCriteria) HasPriceRange() bool {
	return f.MinPrice > 0 || f.MaxPrice > 0
}

// CartLineItem is one cart entry keyed by a product id or, when the product
// has variants, a variant id. Quantity is always >= the minimum order
// quantity; a below-MOQ quantity means the item is absent from the cart.
type CartLineItem struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Image             string  `json:"image,omitempty"`
	UnitPrice         float64 `json:"unit_price"`
	OriginalUnitPrice float64 `json:"original_unit_price"`
	Quantity          int     `json:"quantity"`
	DiscountPercent   float64 `json:"discount_percent"`
}

// LineTotal returns the extended amount for the line
func (li CartLineItem) LineTotal() float64 {
	return li.UnitPrice * float64(li.Quantity)
}

// Savings returns the amount saved versus the original unit price
func (li CartLineItem) Savings() float64 {
	s := (li.OriginalUnitPrice - li.UnitPrice) * float64(li.Quantity)
	if s < 0 {
		return 0
	}
	return s
}

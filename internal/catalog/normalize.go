package catalog

import (
	"go.uber.org/zap"

	"github.com/tidwall/gjson"

	"github.com/ayurbazaar/storefront/internal/domain"
	"github.com/ayurbazaar/storefront/pkg/errors"
)

// The upstream catalog service answers the same request with several payload
// shapes depending on endpoint and plugin version: a bare entity array, an
// array of wrappers each carrying a nested product list, a {data:[...]}
// envelope, a single entity object, or an object whose first array property
// holds the entities. The normalizer tries an ordered list of shape
// hypotheses and the first match wins, so the priority order is a reviewable
// artifact rather than scattered conditionals.

// Field synonyms seen across upstream shapes.
var (
	idKeys    = []string{"id", "product_id", "term_id"}
	nameKeys  = []string{"name", "title"}
	imageKeys = []string{"image", "thumbnail", "image_url"}
	countKeys = []string{"count", "product_count", "total_products"}
	// wrapper fields whose value is a nested entity array
	nestedListKeys = []string{"products", "product", "items"}
)

type normalizer struct {
	logger *zap.Logger
}

// NewNormalizer creates a normalizer. The logger is used only for soft
// shape-mismatch signals; normalization itself never fails hard.
func NewNormalizer(logger *zap.Logger) *normalizer {
	return &normalizer{logger: logger}
}

// Products normalizes a raw payload into canonical products. A payload no
// hypothesis matches yields an empty list and *errors.ErrShapeMismatch;
// an explicit success:false yields *errors.ErrUpstream.
func (n *normalizer) Products(raw []byte) ([]domain.Product, error) {
	elems, err := n.resolveEntityList(gjson.ParseBytes(raw), domain.KindProduct)
	if err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(elems))
	for _, e := range elems {
		products = append(products, mapProduct(e))
	}
	return products, nil
}

// Categories normalizes a raw payload into canonical categories. When
// onlyWithProducts is set, categories with a zero product count and no
// non-empty nested product array are dropped.
func (n *normalizer) Categories(raw []byte, onlyWithProducts bool) ([]domain.Category, error) {
	elems, err := n.resolveEntityList(gjson.ParseBytes(raw), domain.KindCategory)
	if err != nil {
		return nil, err
	}

	categories := make([]domain.Category, 0, len(elems))
	for _, e := range elems {
		cat := mapCategory(e)
		if onlyWithProducts && !cat.HasProducts() && !hasNestedProducts(e) {
			continue
		}
		categories = append(categories, cat)
	}
	return categories, nil
}

// resolveEntityList applies the shape hypotheses in priority order and
// returns the raw entity elements to map.
func (n *normalizer) resolveEntityList(root gjson.Result, kind domain.EntityKind) ([]gjson.Result, error) {
	if root.IsArray() {
		arr := root.Array()

		// Hypothesis 1: array of entity-like objects
		if allEntityLike(arr) {
			return arr, nil
		}

		// Hypothesis 2: array of wrappers each holding a nested entity array
		if flat := flattenNested(arr); len(flat) > 0 {
			return flat, nil
		}

		// An array that matched neither is unusable
		n.logger.Warn("no shape hypothesis matched array payload", zap.String("kind", string(kind)))
		return nil, &errors.ErrShapeMismatch{Kind: string(kind)}
	}

	if root.IsObject() {
		// Hypothesis 3: {data: [...]} envelope
		if data := root.Get("data"); data.IsArray() {
			return data.Array(), nil
		}

		// Hypothesis 4: explicit failure envelope is a fetch failure,
		// not a shape to normalize
		if success := root.Get("success"); success.Exists() && !success.Bool() {
			return nil, &errors.ErrUpstream{Endpoint: string(kind)}
		}

		// Hypothesis 5: a single entity object
		if isEntityLike(root) {
			return []gjson.Result{root}, nil
		}

		// Hypothesis 6: first array-valued property with elements,
		// in property declaration order
		var found []gjson.Result
		root.ForEach(func(_, value gjson.Result) bool {
			if value.IsArray() {
				if arr := value.Array(); len(arr) > 0 {
					found = arr
					return false
				}
			}
			return true
		})
		if found != nil {
			return found, nil
		}
	}

	// Hypothesis 7: nothing matched
	n.logger.Warn("no shape hypothesis matched payload", zap.String("kind", string(kind)))
	return nil, &errors.ErrShapeMismatch{Kind: string(kind)}
}

func isEntityLike(v gjson.Result) bool {
	if !v.IsObject() {
		return false
	}
	return firstOf(v, idKeys).Exists() || firstOf(v, nameKeys).Exists()
}

func allEntityLike(arr []gjson.Result) bool {
	if len(arr) == 0 {
		return true
	}
	for _, e := range arr {
		if !isEntityLike(e) {
			return false
		}
	}
	return true
}

// flattenNested collects the nested entity arrays of wrapper elements into
// one candidate list, keeping wrapper order.
func flattenNested(arr []gjson.Result) []gjson.Result {
	var flat []gjson.Result
	for _, wrapper := range arr {
		if !wrapper.IsObject() {
			continue
		}
		nested := firstOf(wrapper, nestedListKeys)
		if nested.IsArray() {
			flat = append(flat, nested.Array()...)
		}
	}
	return flat
}

func hasNestedProducts(v gjson.Result) bool {
	nested := firstOf(v, nestedListKeys)
	return nested.IsArray() && len(nested.Array()) > 0
}

// firstOf returns the first existing field among the synonym keys.
func firstOf(v gjson.Result, keys []string) gjson.Result {
	for _, k := range keys {
		if f := v.Get(k); f.Exists() {
			return f
		}
	}
	return gjson.Result{}
}

func mapCategory(e gjson.Result) domain.Category {
	return domain.Category{
		ID:           CoerceString(firstOf(e, idKeys)),
		Name:         CoerceString(firstOf(e, nameKeys)),
		Slug:         CoerceString(e.Get("slug")),
		ImageURL:     CoerceString(firstOf(e, imageKeys)),
		ProductCount: CoerceInt(firstOf(e, countKeys)),
	}
}

func mapProduct(e gjson.Result) domain.Product {
	p := domain.Product{
		ID:          CoerceString(firstOf(e, idKeys)),
		Name:        CoerceString(firstOf(e, nameKeys)),
		Slug:        CoerceString(e.Get("slug")),
		Description: CoerceString(e.Get("description")),
		Image:       resolveImage(e),
		Category:    resolveCategory(e),
		Brand:       CoerceString(e.Get("brand")),
		Type:        CoerceString(e.Get("type")),
		Rating:      CoerceFloat(firstOf(e, []string{"rating", "average_rating"})),
		RatingCount: CoerceInt(firstOf(e, []string{"rating_count", "review_count"})),
	}

	regular := CoerceFloat(e.Get("regular_price"))
	sale := CoerceFloat(e.Get("sale_price"))
	p.Price = CoerceFloat(e.Get("price"))
	if p.Price == 0 {
		if sale > 0 {
			p.Price = sale
		} else {
			p.Price = regular
		}
	}
	if p.Price < 0 {
		p.Price = 0
	}

	p.Discount = CoerceFloat(e.Get("discount"))
	if p.Discount == 0 && regular > 0 && sale > 0 && sale < regular {
		p.Discount = (regular - sale) / regular * 100
	}
	if p.Discount < 0 {
		p.Discount = 0
	} else if p.Discount > 100 {
		p.Discount = 100
	}

	p.InStock = resolveStock(e)
	p.Tags = resolveTags(e)

	if variations := firstOf(e, []string{"variations", "variants"}); variations.IsArray() {
		for _, v := range variations.Array() {
			p.Variants = append(p.Variants, mapVariant(v))
		}
	}

	return p
}

func mapVariant(v gjson.Result) domain.Variant {
	variant := domain.Variant{
		ID:            CoerceString(firstOf(v, idKeys)),
		RegularPrice:  CoerceFloat(v.Get("regular_price")),
		SalePrice:     CoerceFloat(v.Get("sale_price")),
		StockQuantity: CoerceInt(v.Get("stock_quantity")),
	}
	if variant.RegularPrice == 0 {
		variant.RegularPrice = CoerceFloat(v.Get("price"))
	}
	if variant.SalePrice > variant.RegularPrice && variant.RegularPrice > 0 {
		variant.SalePrice = variant.RegularPrice
	}

	if attrs := v.Get("attributes"); attrs.Exists() {
		variant.Attributes = make(map[string]string)
		if attrs.IsObject() {
			attrs.ForEach(func(key, value gjson.Result) bool {
				variant.Attributes[key.Str] = CoerceString(value)
				return true
			})
		} else if attrs.IsArray() {
			// WooCommerce style: [{name:"Size", option:"100g"}, ...]
			for _, a := range attrs.Array() {
				name := CoerceString(firstOf(a, nameKeys))
				option := CoerceString(firstOf(a, []string{"option", "value"}))
				if name != "" {
					variant.Attributes[name] = option
				}
			}
		}
		if len(variant.Attributes) == 0 {
			variant.Attributes = nil
		}
	}

	return variant
}

func resolveImage(e gjson.Result) string {
	if img := firstOf(e, imageKeys); img.Exists() {
		switch {
		case img.Type == gjson.String:
			return img.Str
		case img.IsObject():
			return CoerceString(firstOf(img, []string{"src", "url"}))
		case img.IsArray():
			if arr := img.Array(); len(arr) > 0 {
				if arr[0].Type == gjson.String {
					return arr[0].Str
				}
				return CoerceString(firstOf(arr[0], []string{"src", "url"}))
			}
		}
	}
	if images := e.Get("images"); images.IsArray() {
		if arr := images.Array(); len(arr) > 0 {
			if arr[0].Type == gjson.String {
				return arr[0].Str
			}
			return CoerceString(firstOf(arr[0], []string{"src", "url"}))
		}
	}
	return ""
}

func resolveCategory(e gjson.Result) string {
	if cat := e.Get("category"); cat.Exists() {
		if cat.Type == gjson.String {
			return cat.Str
		}
		if cat.IsObject() {
			return CoerceString(firstOf(cat, nameKeys))
		}
	}
	if cats := e.Get("categories"); cats.IsArray() {
		if arr := cats.Array(); len(arr) > 0 {
			if arr[0].Type == gjson.String {
				return arr[0].Str
			}
			return CoerceString(firstOf(arr[0], nameKeys))
		}
	}
	return ""
}

func resolveStock(e gjson.Result) bool {
	if status := e.Get("stock_status"); status.Type == gjson.String {
		return status.Str == "instock" || status.Str == "in_stock"
	}
	if inStock := e.Get("in_stock"); inStock.Exists() {
		return inStock.Bool()
	}
	if qty := e.Get("stock_quantity"); qty.Exists() {
		return CoerceInt(qty) > 0
	}
	// Absent stock information means sellable
	return true
}

func resolveTags(e gjson.Result) []string {
	tags := e.Get("tags")
	if !tags.IsArray() {
		return nil
	}
	var out []string
	for _, t := range tags.Array() {
		if t.Type == gjson.String {
			out = append(out, t.Str)
		} else if t.IsObject() {
			if name := CoerceString(firstOf(t, nameKeys)); name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}

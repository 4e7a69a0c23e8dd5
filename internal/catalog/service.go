package catalog

import (
	"context"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/ayurbazaar/storefront/internal/domain"
	"github.com/ayurbazaar/storefront/pkg/errors"
)

// Fetcher is the slice of the upstream client the catalog service needs.
type Fetcher interface {
	Categories(ctx context.Context) ([]byte, error)
	Products(ctx context.Context) ([]byte, error)
	Product(ctx context.Context, id string) ([]byte, error)
	CategoryProducts(ctx context.Context, slug string, offset, limit int, filters map[string]interface{}) ([]byte, error)
	BrandProducts(ctx context.Context, slug string, offset, limit int) ([]byte, error)
}

// Scope identifies which catalog listing a page belongs to. At most one of
// the fields is set; all empty means the full catalog.
type Scope struct {
	Category string
	Brand    string
	Search   string
}

// QueryKey renders the scope as the pagination cache key.
func (s Scope) QueryKey() string {
	switch {
	case s.Category != "":
		return "category:" + s.Category
	case s.Brand != "":
		return "brand:" + s.Brand
	case s.Search != "":
		return "search:" + strings.ToLower(s.Search)
	default:
		return "all"
	}
}

// Service ties the upstream client, the normalizer and the pagination
// accumulator together. Filtering and sorting stay out of it: they are
// derived on demand from the accumulated set via Displayed.
type Service struct {
	fetcher Fetcher
	norm    *normalizer
	acc     *Accumulator
	logger  *zap.Logger
}

// NewService creates a catalog service
func NewService(fetcher Fetcher, logger *zap.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		norm:    NewNormalizer(logger),
		acc:     NewAccumulator(logger),
		logger:  logger,
	}
}

// Categories fetches and normalizes the category list.
func (s *Service) Categories(ctx context.Context, onlyWithProducts bool) ([]domain.Category, error) {
	raw, err := s.fetcher.Categories(ctx)
	if err != nil {
		return nil, err
	}

	categories, err := s.norm.Categories(raw, onlyWithProducts)
	if err != nil {
		if _, ok := err.(*errors.ErrShapeMismatch); ok {
			// Unrecognized payload degrades to "no results"
			return []domain.Category{}, nil
		}
		return nil, err
	}
	return categories, nil
}

// ProductPage fetches one page for a scope and merges it into the
// accumulated result set. An upstream failure leaves the cached set
// untouched; a stale result (scope changed mid-flight) is dropped and the
// current cache returned instead.
func (s *Service) ProductPage(ctx context.Context, scope Scope, offset, limit int, upstreamFilters map[string]interface{}) (domain.PaginatedResultSet, error) {
	queryKey := scope.QueryKey()
	token := s.acc.Begin(queryKey, offset)

	raw, err := s.fetchScope(ctx, scope, offset, limit, upstreamFilters)
	if err != nil {
		return domain.PaginatedResultSet{}, err
	}

	page, err := s.buildPage(raw, scope, offset, limit)
	if err != nil {
		// success:false envelope: retryable, cache stays as it was
		return domain.PaginatedResultSet{}, err
	}

	set, err := s.acc.Merge(token, page)
	if err != nil {
		if _, ok := err.(*errors.ErrStalePage); ok {
			if current, ok := s.acc.Current(queryKey); ok {
				return current, nil
			}
			return domain.PaginatedResultSet{QueryKey: queryKey}, nil
		}
		return domain.PaginatedResultSet{}, err
	}
	return set, nil
}

// ProductDetail fetches and normalizes a single product.
func (s *Service) ProductDetail(ctx context.Context, id string) (domain.Product, error) {
	raw, err := s.fetcher.Product(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	products, err := s.norm.Products(raw)
	if err != nil {
		if _, ok := err.(*errors.ErrShapeMismatch); ok {
			return domain.Product{}, &errors.ErrNotFound{Resource: "product", ID: id}
		}
		return domain.Product{}, err
	}
	if len(products) == 0 {
		return domain.Product{}, &errors.ErrNotFound{Resource: "product", ID: id}
	}
	return products[0], nil
}

// Displayed derives the visible list for a scope from the accumulated set
// and the client-side criteria. Missing cache yields an empty list.
func (s *Service) Displayed(scope Scope, criteria domain.FilterCriteria) []domain.Product {
	set, ok := s.acc.Current(scope.QueryKey())
	if !ok {
		return []domain.Product{}
	}
	return ApplyFilters(set.Items, criteria)
}

// Cached returns the raw accumulated set for a scope.
func (s *Service) Cached(scope Scope) (domain.PaginatedResultSet, bool) {
	return s.acc.Current(scope.QueryKey())
}

// InvalidateCache drops the pagination cache (pull-to-refresh).
func (s *Service) InvalidateCache() {
	s.acc.Invalidate()
}

func (s *Service) fetchScope(ctx context.Context, scope Scope, offset, limit int, upstreamFilters map[string]interface{}) ([]byte, error) {
	switch {
	case scope.Category != "":
		return s.fetcher.CategoryProducts(ctx, scope.Category, offset, limit, upstreamFilters)
	case scope.Brand != "":
		return s.fetcher.BrandProducts(ctx, scope.Brand, offset, limit)
	default:
		// Full catalog and search share one endpoint; search narrows
		// the normalized list locally since the upstream ignores terms.
		return s.fetcher.Products(ctx)
	}
}

// buildPage normalizes one raw response into a mergeable page, lifting the
// pagination metadata the upstream sometimes provides at the envelope level.
// A shape mismatch degrades to an empty exhausted page; an explicit
// success:false envelope propagates as *errors.ErrUpstream.
func (s *Service) buildPage(raw []byte, scope Scope, offset, limit int) (Page, error) {
	items, err := s.norm.Products(raw)
	if err != nil {
		if _, ok := err.(*errors.ErrShapeMismatch); ok {
			s.logger.Warn("unrecognized product payload, treating as empty page",
				zap.String("query_key", scope.QueryKey()))
			hasMore := false
			return Page{Items: nil, Offset: offset, Limit: limit, HasMore: &hasMore}, nil
		}
		return Page{}, err
	}

	if scope.Search != "" {
		items = searchByName(items, scope.Search)
	}

	page := Page{Items: items, Offset: offset, Limit: limit}

	root := gjson.ParseBytes(raw)
	if root.IsObject() {
		if v := root.Get("hasMore"); v.IsBool() {
			b := v.Bool()
			page.HasMore = &b
		}
		if v := root.Get("nextOffset"); v.Exists() {
			n := CoerceInt(v)
			page.NextOffset = &n
		}
		if v := firstOf(root, countKeys); v.Exists() {
			n := CoerceInt(v)
			page.TotalCount = &n
		}
	}

	return page, nil
}

func searchByName(items []domain.Product, term string) []domain.Product {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return items
	}
	out := make([]domain.Product, 0, len(items))
	for _, p := range items {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) {
			out = append(out, p)
		}
	}
	return out
}

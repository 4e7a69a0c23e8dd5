package catalog

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ayurbazaar/storefront/internal/domain"
	"github.com/ayurbazaar/storefront/pkg/errors"
)

// Page is one fetched page before merging. HasMore, NextOffset and
// TotalCount are nil when the upstream response did not carry them.
type Page struct {
	Items      []domain.Product
	Offset     int
	Limit      int
	HasMore    *bool
	NextOffset *int
	TotalCount *int
}

// PageToken tags an in-flight page request so a result arriving after its
// query key was superseded can be recognized and dropped.
type PageToken struct {
	ID         uuid.UUID
	QueryKey   string
	generation uint64
}

// Accumulator owns the paginated result cache for the single active query
// key. All mutation goes through Begin/Merge under one lock, which
// serializes updates and keeps the ordering guarantees: a refresh
// (offset==0) or a query-key change bumps the generation, and any still
// in-flight page from an older generation becomes a no-op on arrival.
type Accumulator struct {
	mu         sync.Mutex
	current    *domain.PaginatedResultSet
	activeKey  string
	generation uint64
	logger     *zap.Logger
}

// NewAccumulator creates an empty pagination accumulator
func NewAccumulator(logger *zap.Logger) *Accumulator {
	return &Accumulator{logger: logger}
}

// Begin registers an outgoing page request and returns its token. A refresh
// request (offset 0) or a key different from the active one supersedes every
// outstanding request; appends for the active key share its generation.
func (a *Accumulator) Begin(queryKey string, offset int) PageToken {
	a.mu.Lock()
	defer a.mu.Unlock()

	if queryKey != a.activeKey {
		// New catalog scope: the old key's cache is gone regardless of
		// whether this request ever completes
		a.activeKey = queryKey
		a.current = nil
		a.generation++
	} else if offset == 0 {
		a.generation++
	}

	return PageToken{ID: uuid.New(), QueryKey: queryKey, generation: a.generation}
}

// Merge applies a fetched page under the token obtained from Begin. Stale
// results (superseded key or generation) return *errors.ErrStalePage and
// leave the cache untouched. The returned set is a snapshot value.
func (a *Accumulator) Merge(token PageToken, page Page) (domain.PaginatedResultSet, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if token.QueryKey != a.activeKey || token.generation != a.generation {
		a.logger.Debug("dropping stale page result",
			zap.String("query_key", token.QueryKey),
			zap.String("request_id", token.ID.String()),
		)
		return domain.PaginatedResultSet{}, &errors.ErrStalePage{QueryKey: token.QueryKey}
	}

	prevHasMore := true
	if page.Offset == 0 || a.current == nil {
		a.current = &domain.PaginatedResultSet{
			QueryKey: token.QueryKey,
			Items:    dedupe(nil, page.Items),
		}
	} else {
		prevHasMore = a.current.HasMore
		a.current.Items = dedupe(a.current.Items, page.Items)
	}

	set := a.current
	set.Offset = page.Offset
	set.Limit = page.Limit

	if page.TotalCount != nil {
		set.TotalCount = *page.TotalCount
	}

	if page.NextOffset != nil {
		set.NextOffset = *page.NextOffset
	} else {
		set.NextOffset = page.Offset + page.Limit
	}

	if page.HasMore != nil {
		set.HasMore = *page.HasMore
	} else {
		set.HasMore = set.TotalCount > page.Offset+len(page.Items)
	}
	// an exhausted list only becomes fetchable again through a refresh
	if !prevHasMore {
		set.HasMore = false
	}

	return *set, nil
}

// Current returns the cached set for the query key, if it is the active one.
func (a *Accumulator) Current(queryKey string) (domain.PaginatedResultSet, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.current == nil || queryKey != a.activeKey {
		return domain.PaginatedResultSet{}, false
	}
	return *a.current, true
}

// Invalidate drops the cache unconditionally (pull-to-refresh before the
// first page lands, logout, etc.).
func (a *Accumulator) Invalidate() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.current = nil
	a.activeKey = ""
	a.generation++
}

// dedupe appends items to base, skipping ids already present, and returns
// the combined slice. Arrival order is preserved.
func dedupe(base, items []domain.Product) []domain.Product {
	seen := make(map[string]struct{}, len(base)+len(items))
	out := make([]domain.Product, 0, len(base)+len(items))
	for _, p := range base {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	for _, p := range items {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}

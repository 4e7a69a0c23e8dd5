package errors

import "fmt"

// ErrNotFound indicates a requested resource does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUpstream indicates the upstream catalog service returned a failure
// (non-2xx status or an explicit success:false payload). It is retryable:
// callers keep any previously cached data.
type ErrUpstream struct {
	Endpoint string
	Status   int
	Body     string
}

func (e *ErrUpstream) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstream error on %s: status %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("upstream error on %s: success=false", e.Endpoint)
}

// ErrShapeMismatch indicates no normalization hypothesis matched the raw
// payload. Non-fatal: callers surface "no results" rather than a dialog.
type ErrShapeMismatch struct {
	Kind string
}

func (e *ErrShapeMismatch) Error() string {
	return fmt.Sprintf("no %s shape hypothesis matched payload", e.Kind)
}

// ErrStalePage indicates a page result arrived for a query key that has been
// superseded and was discarded without touching the cache.
type ErrStalePage struct {
	QueryKey string
}

func (e *ErrStalePage) Error() string {
	return fmt.Sprintf("stale page discarded for query key: %s", e.QueryKey)
}

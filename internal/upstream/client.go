package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ayurbazaar/storefront/internal/config"
	"github.com/ayurbazaar/storefront/pkg/errors"
)

// Client talks to the upstream catalog service. Every request carries the
// client identifier, in the query string for GETs and in the JSON body for
// POSTs. Responses come back as raw JSON for the normalizer; the client
// makes no schema assumptions beyond the HTTP status.
type Client struct {
	baseURL    string
	clientID   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates an upstream catalog client
func NewClient(cfg config.UpstreamConfig, logger *zap.Logger) *Client {
	// Normalize base URL - remove trailing slashes
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")

	return &Client{
		baseURL:  baseURL,
		clientID: cfg.ClientID,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// Categories fetches the category list. GET /categories?client_id=...
func (c *Client) Categories(ctx context.Context) ([]byte, error) {
	return c.get(ctx, "/categories", nil)
}

// Products fetches the full product catalog. POST /products
func (c *Client) Products(ctx context.Context) ([]byte, error) {
	return c.post(ctx, "/products", map[string]interface{}{})
}

// Product fetches a single product detail. POST /products/{id}
func (c *Client) Product(ctx context.Context, id string) ([]byte, error) {
	return c.post(ctx, "/products/"+url.PathEscape(id), map[string]interface{}{})
}

// CategoryProducts fetches one page of a category listing.
// POST /categories/{slug} with offset/limit and any upstream-side filters.
func (c *Client) CategoryProducts(ctx context.Context, slug string, offset, limit int, filters map[string]interface{}) ([]byte, error) {
	body := map[string]interface{}{
		"slug":   slug,
		"offset": offset,
		"limit":  limit,
	}
	for k, v := range filters {
		body[k] = v
	}
	return c.post(ctx, "/categories/"+url.PathEscape(slug), body)
}

// BrandProducts fetches one page of a brand listing.
// GET /brands/{slug}?offset=&limit=
func (c *Client) BrandProducts(ctx context.Context, slug string, offset, limit int) ([]byte, error) {
	return c.get(ctx, "/brands/"+url.PathEscape(slug), url.Values{
		"offset": []string{strconv.Itoa(offset)},
		"limit":  []string{strconv.Itoa(limit)},
	})
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("client_id", c.clientID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	return c.do(req, path)
}

func (c *Client) post(ctx context.Context, path string, body map[string]interface{}) ([]byte, error) {
	body["client_id"] = c.clientID

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, path)
}

func (c *Client) do(req *http.Request, path string) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("upstream request failed",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return nil, &errors.ErrUpstream{
			Endpoint: path,
			Status:   resp.StatusCode,
			Body:     string(respBody),
		}
	}

	return respBody, nil
}

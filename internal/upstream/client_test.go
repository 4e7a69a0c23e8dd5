package upstream

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ayurbazaar/storefront/internal/config"
	"github.com/ayurbazaar/storefront/pkg/errors"
)

func newTestClient(baseURL string) *Client {
	return NewClient(config.UpstreamConfig{
		BaseURL:  baseURL,
		ClientID: "test-client",
		Timeout:  5 * time.Second,
	}, zap.NewNop())
}

func TestClient_Categories_AppendsClientID(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/categories", r.URL.Path)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	raw, err := newTestClient(srv.URL).Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
	assert.Contains(t, gotQuery, "client_id=test-client")
}

func TestClient_CategoryProducts_BodyCarriesPagingAndClientID(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/categories/churnas", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotBody))
		w.Write([]byte(`{"products": []}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).CategoryProducts(context.Background(), "churnas", 20, 10, map[string]interface{}{
		"orderby": "price",
	})
	require.NoError(t, err)

	assert.Equal(t, "test-client", gotBody["client_id"])
	assert.Equal(t, "churnas", gotBody["slug"])
	assert.EqualValues(t, 20, gotBody["offset"])
	assert.EqualValues(t, 10, gotBody["limit"])
	assert.Equal(t, "price", gotBody["orderby"])
}

func TestClient_BrandProducts_QueryParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/brands/kapiva", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("offset"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "test-client", r.URL.Query().Get("client_id"))
		w.Write([]byte(`{"count": 0, "products": [], "hasMore": false}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).BrandProducts(context.Background(), "kapiva", 10, 5)
	require.NoError(t, err)
}

func TestClient_NonSuccessStatusIsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error": "down"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Products(context.Background())

	var upstreamErr *errors.ErrUpstream
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, http.StatusServiceUnavailable, upstreamErr.Status)
	assert.Contains(t, upstreamErr.Body, "down")
}

func TestClient_TrimsTrailingSlash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/7", r.URL.Path)
		w.Write([]byte(`{"id": 7, "name": "Tonic"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL + "/").Product(context.Background(), "7")
	require.NoError(t, err)
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresUpstreamSettings(t *testing.T) {
	t.Setenv("UPSTREAM_BASE_URL", "")
	t.Setenv("UPSTREAM_CLIENT_ID", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UPSTREAM_BASE_URL")
}

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	t.Setenv("UPSTREAM_BASE_URL", "https://api.example.com/")
	t.Setenv("UPSTREAM_CLIENT_ID", "mobile-app")
	t.Setenv("PRICING_MOQ", "10")
	t.Setenv("EVENTS_BROKERS", "broker1:9092, broker2:9092")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "https://api.example.com/", cfg.Upstream.BaseURL)
	assert.Equal(t, "mobile-app", cfg.Upstream.ClientID)
	assert.Equal(t, 30*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, 10, cfg.Pricing.MOQ)
	assert.InDelta(t, 0.18, cfg.Pricing.TaxRate, 1e-9)
	assert.False(t, cfg.Database.Enabled())
	assert.True(t, cfg.Events.Enabled())
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.Events.Brokers)
	assert.Equal(t, "storefront.cart", cfg.Events.Topic)
}

func TestLoad_BadNumericFallsBack(t *testing.T) {
	t.Setenv("UPSTREAM_BASE_URL", "https://api.example.com")
	t.Setenv("UPSTREAM_CLIENT_ID", "mobile-app")
	t.Setenv("PRICING_MOQ", "zero")
	t.Setenv("PRICING_TAX_RATE", "lots")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Pricing.MOQ)
	assert.InDelta(t, 0.18, cfg.Pricing.TaxRate, 1e-9)
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	Upstream    UpstreamConfig
	Pricing     PricingConfig
	Database    DatabaseConfig
	Events      EventsConfig
	LogLevel    string
}

type UpstreamConfig struct {
	BaseURL  string
	ClientID string
	Timeout  time.Duration
}

type PricingConfig struct {
	MOQ     int
	TaxRate float64
}

// DatabaseConfig configures the optional cart snapshot store. Snapshots are
// disabled when Host is empty.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// EventsConfig configures the optional Kafka publisher. Publishing is
// disabled when Brokers is empty.
type EventsConfig struct {
	Brokers []string
	Topic   string
}

func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

func (e EventsConfig) Enabled() bool {
	return len(e.Brokers) > 0
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("UPSTREAM_TIMEOUT_SECONDS", "30")
	viper.SetDefault("PRICING_MOQ", "5")
	viper.SetDefault("PRICING_TAX_RATE", "0.18")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("EVENTS_TOPIC", "storefront.cart")
	viper.SetDefault("LOG_LEVEL", "info")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	timeoutSeconds, err := strconv.Atoi(getEnvOrViper("UPSTREAM_TIMEOUT_SECONDS", "30"))
	if err != nil || timeoutSeconds <= 0 {
		timeoutSeconds = 30
	}

	moq, err := strconv.Atoi(getEnvOrViper("PRICING_MOQ", "5"))
	if err != nil || moq <= 0 {
		moq = 5
	}

	taxRate, err := strconv.ParseFloat(getEnvOrViper("PRICING_TAX_RATE", "0.18"), 64)
	if err != nil || taxRate < 0 {
		taxRate = 0.18
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		Upstream: UpstreamConfig{
			BaseURL:  getEnvOrViper("UPSTREAM_BASE_URL", ""),
			ClientID: getEnvOrViper("UPSTREAM_CLIENT_ID", ""),
			Timeout:  time.Duration(timeoutSeconds) * time.Second,
		},
		Pricing: PricingConfig{
			MOQ:     moq,
			TaxRate: taxRate,
		},
		Database: DatabaseConfig{
			Host:     getEnvOrViper("DB_HOST", ""),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "storefront"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		Events: EventsConfig{
			Brokers: splitList(getEnvOrViper("EVENTS_BROKERS", "")),
			Topic:   getEnvOrViper("EVENTS_TOPIC", "storefront.cart"),
		},
		LogLevel: getEnvOrViper("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if cfg.Upstream.BaseURL == "" {
		return nil, fmt.Errorf("UPSTREAM_BASE_URL is required")
	}
	if cfg.Upstream.ClientID == "" {
		return nil, fmt.Errorf("UPSTREAM_CLIENT_ID is required")
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

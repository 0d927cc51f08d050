package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Pricing  PricingConfig
	Catalog  CatalogConfig
	LogLevel string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

type AuthConfig struct {
	JWTSecret string // Shared secret for tokens issued by the account service
}

type PricingConfig struct {
	ShippingCost decimal.Decimal // Flat shipping cost per order
	TaxRate      decimal.Decimal // Tax as a fraction of the subtotal
}

type CatalogConfig struct {
	Source        string // Optional JSON catalog file path or URL; empty uses the seed catalog
	ReconcileCron string // Cron spec for the cart/stock reconcile sweep
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	shipping, err := decimal.NewFromString(getEnv("SHIPPING_COST", "5.99"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHIPPING_COST: %w", err)
	}

	taxRate, err := decimal.NewFromString(getEnv("TAX_RATE", "0.10"))
	if err != nil {
		return nil, fmt.Errorf("invalid TAX_RATE: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 15),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "devsecret"),
		},
		Pricing: PricingConfig{
			ShippingCost: shipping,
			TaxRate:      taxRate,
		},
		Catalog: CatalogConfig{
			Source:        getEnv("CATALOG_SOURCE", ""),
			ReconcileCron: getEnv("RECONCILE_CRON", "@every 1m"),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.Pricing.ShippingCost.IsNegative() {
		return fmt.Errorf("SHIPPING_COST must not be negative")
	}

	if c.Pricing.TaxRate.IsNegative() {
		return fmt.Errorf("TAX_RATE must not be negative")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

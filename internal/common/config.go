package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Parse     ParseConfig
	Reconcile ReconcileConfig
	Patterns  PatternsConfig
	Catalog   CatalogConfig
}

// ParseConfig holds parsing-related configuration
type ParseConfig struct {
	VendorConfigPath string
	MaxContinuation  int
	CurrencyCode     string
	Timeout          time.Duration
}

// ReconcileConfig holds reconciliation-related configuration
type ReconcileConfig struct {
	TaxRate      float64
	Tolerance    float64
	LineRounding bool
}

// PatternsConfig holds learned-pattern-store configuration
type PatternsConfig struct {
	Path      string
	UseSQLite bool
}

// CatalogConfig holds reference-catalog matcher configuration
type CatalogConfig struct {
	Path            string
	MatchThreshold  float64
	CorrectionsPath string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Parse: ParseConfig{
			VendorConfigPath: getEnv("VENDOR_CONFIG", ""),
			MaxContinuation:  getEnvAsInt("MAX_CONTINUATION_LINES", 5),
			CurrencyCode:     getEnv("CURRENCY_CODE", "AUD"),
			Timeout:          getEnvAsDuration("PARSE_TIMEOUT", 0),
		},
		Reconcile: ReconcileConfig{
			TaxRate:      getEnvAsFloat64("TAX_RATE", 0.10),
			Tolerance:    getEnvAsFloat64("RECON_TOLERANCE", 0.01),
			LineRounding: getEnvAsBool("LINE_ROUNDING", false),
		},
		Patterns: PatternsConfig{
			Path:      getEnv("PATTERNS_PATH", "learned_patterns.json"),
			UseSQLite: getEnvAsBool("PATTERNS_SQLITE", false),
		},
		Catalog: CatalogConfig{
			Path:            getEnv("SITE_CATALOG", ""),
			MatchThreshold:  getEnvAsFloat64("MATCH_THRESHOLD", 0.80),
			CorrectionsPath: getEnv("SITE_CORRECTIONS", "site_name_corrections.csv"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// ValidateConfig validates the loaded configuration
func (c *Config) Validate() error {
	if c.Parse.MaxContinuation < 1 {
		return NewAppError("CONFIG_ERROR", "MAX_CONTINUATION_LINES must be at least 1", ErrInvalidInput)
	}
	if c.Parse.Timeout < 0 {
		return NewAppError("CONFIG_ERROR", "PARSE_TIMEOUT must not be negative", ErrInvalidInput)
	}
	if c.Reconcile.TaxRate < 0 {
		return NewAppError("CONFIG_ERROR", "TAX_RATE must not be negative", ErrInvalidInput)
	}
	if c.Reconcile.Tolerance <= 0 {
		return NewAppError("CONFIG_ERROR", "RECON_TOLERANCE must be positive", ErrInvalidInput)
	}
	if c.Catalog.MatchThreshold < 0 || c.Catalog.MatchThreshold > 1 {
		return NewAppError("CONFIG_ERROR", "MATCH_THRESHOLD must be within [0,1]", ErrInvalidInput)
	}
	return nil
}

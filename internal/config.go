package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/dukerupert/taxbridge/internal/crypto"
	"github.com/dukerupert/taxbridge/internal/telemetry"
)

type Config struct {
	Env      string
	LogLevel string
	Port     uint16

	// SaleorDomain restricts webhook delivery to one Saleor instance.
	// Empty means any saleor-domain header is accepted.
	SaleorDomain string

	// EncryptionKey is a base64-encoded 32-byte key for decrypting
	// per-channel provider credentials stored in app metadata.
	EncryptionKey string

	TaxJar TaxJarConfig
	Sentry telemetry.SentryConfig
}

// TaxJarConfig holds the static single-tenant provider configuration.
// When channel settings come from app metadata instead, only Timeout
// is used.
type TaxJarConfig struct {
	APIKey  string
	Sandbox bool
	Active  bool
	Timeout time.Duration

	// Ship-from address reported on every tax calculation.
	FromCountry string
	FromZip     string
	FromState   string
	FromCity    string
	FromStreet  string
}

func NewConfig() (*Config, error) {
	// Try to load .env from current directory, then walk up to find it (max 2 levels)
	err := godotenv.Load()
	if err != nil {
		dir, _ := os.Getwd()
		found := false
		for i := 0; i < 2; i++ {
			dir = filepath.Join(dir, "..")
			if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
				found = true
				break
			}
		}
		if !found {
			slog.Default().Warn("Warning: .env file not found, using environment variables and defaults")
		}
	}

	cfg := &Config{
		Env:           getEnv("ENV", "dev"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		Port:          getEnvInt("PORT", 3000),
		SaleorDomain:  getEnv("SALEOR_DOMAIN", ""),
		EncryptionKey: getEnv("ENCRYPTION_KEY", ""),
		TaxJar: TaxJarConfig{
			APIKey:      getEnv("TAXJAR_API_KEY", ""),
			Sandbox:     getEnvBool("TAXJAR_SANDBOX", false),
			Active:      getEnvBool("TAXJAR_ACTIVE", true),
			Timeout:     time.Duration(getEnvInt("TAXJAR_TIMEOUT_SECONDS", 10)) * time.Second,
			FromCountry: getEnv("TAXJAR_FROM_COUNTRY", ""),
			FromZip:     getEnv("TAXJAR_FROM_ZIP", ""),
			FromState:   getEnv("TAXJAR_FROM_STATE", ""),
			FromCity:    getEnv("TAXJAR_FROM_CITY", ""),
			FromStreet:  getEnv("TAXJAR_FROM_STREET", ""),
		},
		Sentry: telemetry.SentryConfig{
			DSN:         getEnv("SENTRY_DSN", ""),
			Enabled:     getEnvBool("SENTRY_ENABLED", false),
			Environment: getEnv("SENTRY_ENVIRONMENT", "development"),
			Release:     getEnv("SENTRY_RELEASE", ""),
			SampleRate:  getEnvFloat("SENTRY_SAMPLE_RATE", 1.0),
			Debug:       getEnvBool("SENTRY_DEBUG", false),
		},
	}

	// Validate env
	validEnv := cfg.Env == "dev" || cfg.Env == "prod"
	if !validEnv {
		slog.Default().Warn("Invalid environment. Using default: prod", slog.String("env", cfg.Env))
		cfg.Env = "prod"
	}

	// Validate log level
	validLevel := cfg.LogLevel == "info" || cfg.LogLevel == "debug" || cfg.LogLevel == "warn" || cfg.LogLevel == "error"
	if !validLevel {
		slog.Default().Warn("Invalid log level. Using default: info", slog.String("value", cfg.LogLevel))
		cfg.LogLevel = "info"
	}

	if cfg.Env == "prod" && cfg.SaleorDomain == "" {
		slog.Default().Warn("SALEOR_DOMAIN not set; webhooks from any Saleor instance will be accepted")
	}

	// A set encryption key must be usable; a bad key would otherwise
	// surface as decrypt failures on live webhook traffic.
	if cfg.EncryptionKey != "" {
		if _, err := crypto.DecodeKeyBase64(cfg.EncryptionKey); err != nil {
			return nil, fmt.Errorf("invalid ENCRYPTION_KEY: %w", err)
		}
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue uint16) uint16 {
	if value := os.Getenv(key); value != "" {
		var intValue uint16
		if _, err := fmt.Sscanf(value, "%d", &intValue); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var floatValue float64
		if _, err := fmt.Sscanf(value, "%f", &floatValue); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/subosito/gotenv"
)

type Config struct {
	API       APIConfig
	Anthropic AnthropicConfig
	Keystore  KeystoreConfig
	Cache     CacheConfig
	Language  string
	Log       LogConfig
	Telemetry TelemetryConfig
}

type APIConfig struct {
	BaseURL string
}

type AnthropicConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
}

type KeystoreConfig struct {
	Path string
}

type CacheConfig struct {
	TransactionStaleTime time.Duration
	ReadRetryAttempts    int
}

type LogConfig struct {
	Level  string
	Format string
}

type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	OTLPEndpoint string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if present; real environment variables win.
func Load() (*Config, error) {
	_ = gotenv.Load()

	maxTokens, err := strconv.Atoi(getEnv("ANTHROPIC_MAX_TOKENS", "1000"))
	if err != nil {
		return nil, fmt.Errorf("invalid ANTHROPIC_MAX_TOKENS: %w", err)
	}

	staleTime, err := time.ParseDuration(getEnv("TRANSACTIONS_STALE_TIME", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid TRANSACTIONS_STALE_TIME: %w", err)
	}

	retryAttempts, err := strconv.Atoi(getEnv("READ_RETRY_ATTEMPTS", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid READ_RETRY_ATTEMPTS: %w", err)
	}
	if retryAttempts < 1 {
		return nil, fmt.Errorf("READ_RETRY_ATTEMPTS must be at least 1")
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL: getEnv("API_BASE_URL", "http://localhost:8080"),
		},
		Anthropic: AnthropicConfig{
			APIKey:    getEnv("ANTHROPIC_API_KEY", ""),
			BaseURL:   getEnv("ANTHROPIC_BASE_URL", "https://api.anthropic.com"),
			Model:     getEnv("ANTHROPIC_MODEL", "claude-3-opus-20240229"),
			MaxTokens: maxTokens,
		},
		Keystore: KeystoreConfig{
			Path: getEnv("KEYSTORE_PATH", "lakshya.db"),
		},
		Cache: CacheConfig{
			TransactionStaleTime: staleTime,
			ReadRetryAttempts:    retryAttempts,
		},
		Language: getEnv("LANGUAGE", "en"),
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		Telemetry: TelemetryConfig{
			Enabled:      getBoolEnv("OTEL_ENABLED", false),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "lakshya"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_ENDPOINT", "localhost:4317"),
		},
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept: true, false, 1, 0, yes, no (case-insensitive)
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}

package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// Persistence. The file store is the default; setting
	// USE_REMOTE_SYNC=true switches to the sync API.
	StateFile     string
	UseRemoteSync bool
	SyncAPIURL    string
	SyncAPIKey    string
	DeviceID      string

	// HTTP client
	HTTPTimeout time.Duration

	// Resilience
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int

	// Duplicate-scan suppression. Zero disables it.
	DedupeWindow time.Duration

	// Regions. Optional YAML overrides for the built-in reward profiles.
	RegionsFile string

	// Observability
	OTLPEndpoint string

	// Auth. Empty secret leaves the API open (single-device setups).
	JWTSecret string
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		StateFile:     getEnv("STATE_FILE", "ledger-state.json"),
		UseRemoteSync: getEnv("USE_REMOTE_SYNC", "false") == "true",
		SyncAPIURL:    getEnv("SYNC_API_URL", ""),
		SyncAPIKey:    getEnv("SYNC_API_KEY", ""),
		DeviceID:      getEnv("DEVICE_ID", "default-device"),

		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 10*time.Second),

		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		InitialBackoff: getEnvDuration("INITIAL_BACKOFF", 100*time.Millisecond),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 50),

		DedupeWindow: getEnvDuration("DEDUPE_WINDOW", 10*time.Second),

		RegionsFile: getEnv("REGIONS_FILE", ""),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),

		JWTSecret: getEnv("JWT_SECRET", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// Package config reads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the full runtime configuration for the API and worker.
type Config struct {
	// Port is the HTTP listen port.
	Port string

	// Env names the deployment environment (development, staging, production).
	Env string

	// LogLevel is the minimum zerolog level (trace, debug, info, warn, error).
	LogLevel string

	// LogFormat selects json or console output.
	LogFormat string

	// CacheTTL is how long an assembled air quality record stays fresh.
	CacheTTL time.Duration

	// Gateway base URLs per source family. Empty disables the gateway:
	// satellite and weather fall back to estimates, ground reports absence.
	TempoGatewayURL  string
	OpenAQGatewayURL string
	MeteoGatewayURL  string

	// SourceTimeout bounds each upstream fetch.
	SourceTimeout time.Duration

	// GroundRadiusKM is the station search radius for ground measurements.
	GroundRadiusKM float64

	// HistoryDays is how far back the historical AQI series reaches.
	HistoryDays int

	// WarmInterval is how often the worker refreshes records for the
	// configured cities. SweepInterval is how often expired cache entries
	// are evicted.
	WarmInterval  time.Duration
	SweepInterval time.Duration

	// WarmConcurrency bounds parallel refreshes during a warm cycle.
	WarmConcurrency int

	// WarmCities lists city names to keep warm. Empty means the worker's
	// default set.
	WarmCities []string

	// RateLimitRPM is the per-client request budget per minute.
	RateLimitRPM int

	// CORSAllowedOrigins lists origins allowed to call the API.
	CORSAllowedOrigins []string

	// OTELEnabled turns on trace and metric export to OTLPEndpoint.
	OTELEnabled  bool
	OTLPEndpoint string
}

// Load reads configuration from the environment with defaults suitable for
// local development. A .env file in the working directory is applied first
// when present.
func Load() (*Config, error) {
	// Missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg := &Config{
		Port:      getEnvOrDefault("PORT", "8000"),
		Env:       getEnvOrDefault("APP_ENV", "development"),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),

		TempoGatewayURL:  os.Getenv("TEMPO_GATEWAY_URL"),
		OpenAQGatewayURL: os.Getenv("OPENAQ_GATEWAY_URL"),
		MeteoGatewayURL:  os.Getenv("METEO_GATEWAY_URL"),

		GroundRadiusKM: getEnvFloat("GROUND_RADIUS_KM", 50),
		HistoryDays:    getEnvInt("HISTORY_DAYS", 7),

		WarmConcurrency: getEnvInt("WARM_CONCURRENCY", 4),
		WarmCities:      splitList(os.Getenv("WARM_CITIES")),

		RateLimitRPM:       getEnvInt("RATE_LIMIT_RPM", 120),
		CORSAllowedOrigins: splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),

		OTELEnabled:  os.Getenv("OTEL_ENABLED") == "true",
		OTLPEndpoint: getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
	}

	cfg.CacheTTL = time.Duration(getEnvInt("CACHE_TTL_SECONDS", 900)) * time.Second

	var err error
	if cfg.SourceTimeout, err = getEnvDuration("SOURCE_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.WarmInterval, err = getEnvDuration("WARM_INTERVAL", 15*time.Minute); err != nil {
		return nil, err
	}
	if cfg.SweepInterval, err = getEnvDuration("SWEEP_INTERVAL", 5*time.Minute); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// splitList parses a comma-separated value, trimming whitespace and
// dropping empties. It returns nil for an empty input.
func splitList(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

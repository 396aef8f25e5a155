// Package config reads runtime settings from the environment. A .env file in
// the working directory, when present, is loaded first and never overrides
// variables that are already set.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the settings of both services. Each binary reads the fields
// it needs.
type Config struct {
	Environment string

	// dashboard-api
	HTTPAddr         string
	StoreAddr        string
	TransitionLogDSN string
	ProductCacheTTL  time.Duration
	RequestTimeout   time.Duration

	// store-service
	GRPCAddr       string
	SeedPath       string
	IdempotencyTTL time.Duration

	// Redis is optional; an empty address disables caching.
	RedisAddr string

	OTelEnabled  bool
	OTLPEndpoint string

	LogLevel  string
	LogFormat string
}

// Load populates Config from the environment, after loading envFiles (".env"
// when none is given). Missing files are ignored.
func Load(envFiles ...string) Config {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	return Config{
		Environment:      getenv("APP_ENV", "local"),
		HTTPAddr:         getenv("HTTP_ADDR", ":8080"),
		StoreAddr:        getenv("STORE_SERVICE_ADDR", "localhost:9090"),
		TransitionLogDSN: getenv("TRANSITION_LOG_PATH", "transitions.db"),
		ProductCacheTTL:  parseDurationEnv("PRODUCT_CACHE_TTL", 5*time.Minute),
		RequestTimeout:   parseDurationEnv("REQUEST_TIMEOUT", 10*time.Second),
		GRPCAddr:         getenv("GRPC_ADDR", ":9090"),
		SeedPath:         os.Getenv("STORE_SEED_PATH"),
		IdempotencyTTL:   parseDurationEnv("IDEMPOTENCY_TTL", 10*time.Minute),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		OTelEnabled:      parseBoolEnv("OTEL_ENABLED", false),
		OTLPEndpoint:     getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		LogLevel:         getenv("LOG_LEVEL", "info"),
		LogFormat:        getenv("LOG_FORMAT", "json"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseBoolEnv(key string, def bool) bool {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// parseDurationEnv accepts Go durations ("30s") or whole seconds ("30").
func parseDurationEnv(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		if i, err := strconv.Atoi(v); err == nil {
			return time.Duration(i) * time.Second
		}
	}
	return def
}

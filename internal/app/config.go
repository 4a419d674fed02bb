package app

import (
	"os"
	"strconv"
	"time"

	"github.com/authgate/authgate/pkg/jwtx"
)

type Config struct {
	JWTSecret string // Required: shared HMAC secret for session tokens
	Issuer    string // Optional: issuer claim for tokens (default: authgate)

	TokenTTL            time.Duration // Optional: session token lifetime (default: 1h)
	DatabaseFile        string        // Optional: path to SQLite database file (default: ./authgate.db)
	HashWorkers         int           // Optional: concurrent password hashing slots (default: 4)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		JWTSecret:           os.Getenv("AUTHGATE_JWT_SECRET"),
		Issuer:              getEnvOrDefault("AUTHGATE_ISSUER", "authgate"),
		TokenTTL:            getEnvDurationOrDefault("AUTHGATE_TOKEN_TTL", jwtx.DefaultTokenTTL),
		DatabaseFile:        getEnvOrDefault("AUTHGATE_DATABASE_FILE", "authgate.db"),
		HashWorkers:         getEnvIntOrDefault("AUTHGATE_HASH_WORKERS", 0),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}

// Package config provides configuration for the chat gateway.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the gateway configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Database
	DatabaseURL string

	// RAG service settings
	RAGServiceURL string
	RAGTimeout    time.Duration

	// Logging
	LogLevel string
}

// Load loads configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		HTTPPort:      getEnvInt("HTTP_PORT", 4000),
		DatabaseURL:   getEnv("DATABASE_URL", "file:gateway.db?cache=shared&mode=rwc"),
		RAGServiceURL: getEnv("RAG_SERVICE_URL", "http://localhost:8000"),
		RAGTimeout:    time.Duration(getEnvInt("RAG_TIMEOUT_MS", 120000)) * time.Millisecond,
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

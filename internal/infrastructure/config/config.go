// internal/infrastructure/config/config.go
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string

	// Server
	Port         string
	OpsPort      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// PostgreSQL
	PostgresURI string

	// MongoDB (sync-run audit trail)
	MongoURI      string
	MongoDB       string
	MongoUser     string
	MongoPassword string

	// Feed sync
	SyncInterval     time.Duration
	FeedFetchTimeout time.Duration
	FeedPause        time.Duration

	// ICS export
	ExportHorizonDays int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	// Set defaults and override with env vars
	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		Port:         getEnv("PORT", "8080"),
		OpsPort:      getEnv("OPS_PORT", "9090"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,

		PostgresURI: getEnv("POSTGRES_DSN", "postgres://localhost:5432/staysync?sslmode=disable"),

		MongoURI:      getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "staysync"),
		MongoUser:     getEnv("MONGO_USER", ""),
		MongoPassword: getEnv("MONGO_PASSWORD", ""),

		SyncInterval:     time.Duration(getEnvAsInt("SYNC_INTERVAL", 60)) * time.Second,
		FeedFetchTimeout: time.Duration(getEnvAsInt("FEED_FETCH_TIMEOUT", 15)) * time.Second,
		FeedPause:        time.Duration(getEnvAsInt("FEED_PAUSE_MS", 1000)) * time.Millisecond,

		ExportHorizonDays: getEnvAsInt("EXPORT_HORIZON_DAYS", 365),
	}

	return config, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

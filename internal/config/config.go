package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Config struct {
	// Client
	DBPath      string
	APIBaseURL  string
	NotifierURL string

	// Entries are keyed by the local civil date of a fixed-offset business
	// timezone.
	BusinessUTCOffsetHours int

	// Server
	Port         string
	ServerDBPath string

	// JWT
	JWTSecret            string
	JWTExpirationMinutes int
	RefreshTTLHours      int
}

// Load reads configuration from the environment. JWT_SECRET is only
// required by the server binary; it is checked in ValidateServer.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg := &Config{
		DBPath:                 getEnv("SADHANA_DB_PATH", filepath.Join(home, ".sadhana", "sadhana.db")),
		APIBaseURL:             getEnv("SADHANA_API_BASE_URL", "http://localhost:8080"),
		NotifierURL:            getEnv("SADHANA_NOTIFIER_URL", "ws://localhost:8080/ws/notifications"),
		BusinessUTCOffsetHours: getEnvInt("SADHANA_BUSINESS_UTC_OFFSET_HOURS", 3),
		Port:                   getEnv("PORT", "8080"),
		ServerDBPath:           getEnv("SERVER_DB_PATH", filepath.Join(home, ".sadhana", "server.db")),
		JWTSecret:              getEnv("JWT_SECRET", ""),
		JWTExpirationMinutes:   getEnvInt("JWT_EXPIRATION_MINUTES", 15),
		RefreshTTLHours:        getEnvInt("REFRESH_TTL_HOURS", 168),
	}

	return cfg, nil
}

// ValidateServer checks the settings only the server binary depends on.
func (c *Config) ValidateServer() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is required")
	}
	return nil
}

// BusinessOffset returns the fixed business-timezone offset as a duration.
func (c *Config) BusinessOffset() time.Duration {
	return time.Duration(c.BusinessUTCOffsetHours) * time.Hour
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	APIURL string // Required: base URL of the backend API

	Env       string // Environment (dev, staging, prod) (default: dev)
	LogLevel  string // Log level (debug, info, warn, error) (default: info)
	LogFormat string // Log format (json, text) (default: json)
	Port      int    // HTTP server port (default: 3000)

	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)

	CartTTL         time.Duration // Idle cart lifetime (default: 4h)
	JanitorInterval time.Duration // Cart sweep interval (default: 10m)

	// SMTP transport for transactional mail. Mail is disabled when
	// EmailHost is empty.
	EmailHost     string
	EmailPort     int
	EmailSecure   bool
	EmailUser     string
	EmailPassword string
	EmailFrom     string

	// SiteURL is the public base URL used in links inside outbound mail.
	SiteURL string
}

func LoadConfig() Config {
	cfg := Config{
		APIURL:              getEnvOrDefault("API_URL", "http://localhost:8080"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 3000),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		CartTTL:             getEnvDurationOrDefault("CART_TTL", 4*time.Hour),
		JanitorInterval:     getEnvDurationOrDefault("CART_JANITOR_INTERVAL", 10*time.Minute),

		EmailHost:     os.Getenv("EMAIL_HOST"),
		EmailPort:     getEnvIntOrDefault("EMAIL_PORT", 587),
		EmailSecure:   getEnvBoolOrDefault("EMAIL_SECURE", false),
		EmailUser:     os.Getenv("EMAIL_USER"),
		EmailPassword: os.Getenv("EMAIL_PASSWORD"),
		EmailFrom:     getEnvOrDefault("EMAIL_FROM", "no-reply@veriport.example"),

		SiteURL: getEnvOrDefault("SITE_URL", "http://localhost:3000"),
	}

	return cfg
}

// SecureCookies reports whether session cookies should carry the Secure
// flag. Anything that is not dev is assumed to sit behind HTTPS.
func (c Config) SecureCookies() bool {
	return c.Env != "dev"
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	LogLevel  string
	JwtSecret string

	// Vendor credentials. An empty value leaves that provider
	// registered but without a preconfigured account.
	VultrAPIKey       string
	BandwagonAccounts []string
	DigitalOceanToken string

	NotificationLimit int

	OtelEnabled  bool
	OtelEndpoint string
	OtelInsecure bool
	Env          string
}

// Load loads configuration from environment variables
// Automatically loads .env file if present
func Load() *Config {
	// Try to load .env file (fail silently if not present)
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		JwtSecret:         getEnv("JWT_SECRET", ""),
		VultrAPIKey:       getEnv("VULTR_API_KEY", ""),
		BandwagonAccounts: getEnvList("BANDWAGON_ACCOUNTS"),
		DigitalOceanToken: getEnv("DIGITALOCEAN_TOKEN", ""),
		NotificationLimit: getEnvInt("NOTIFICATION_LIMIT", 100),
		OtelEnabled:       getEnvBool("OTEL_ENABLED", false),
		OtelEndpoint:      getEnv("OTEL_ENDPOINT", "localhost:4317"),
		OtelInsecure:      getEnvBool("OTEL_INSECURE", true),
		Env:               getEnv("ENV", "development"),
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getEnvList splits a comma-separated value, dropping empty entries.
func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

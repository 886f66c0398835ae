package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NewRelic NewRelicConfig
	Gateway  GatewayConfig
	Fees     FeeConfig
	Payout   PayoutConfig
	Auth     AuthConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// BaseURL is the public URL of this service, used for payment QR links.
	BaseURL string
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// GatewayConfig holds payment gateway (mobile money aggregator) configuration.
type GatewayConfig struct {
	APIKey         string
	PublishableKey string
	WebhookSecret  string
	TestMode       bool
	Timeout        time.Duration
}

// FeeConfig holds the platform fee scheme applied to collections.
// Percentage is expressed in percent (0.5 means 0.5%), Fixed in currency units.
type FeeConfig struct {
	Percentage float64
	Fixed      float64
}

// PayoutConfig holds payout orchestration configuration.
type PayoutConfig struct {
	// MinimumThreshold is the smallest amount the gateway will disburse.
	// Balances below it accrue until the batch sweep picks them up.
	MinimumThreshold float64
	DispatchInterval time.Duration
	SweepInterval    time.Duration
	StaleAfter       time.Duration
}

// AuthConfig holds driver authentication configuration.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
			BaseURL:      getEnv("SERVER_BASE_URL", "http://localhost:8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "payswiftly"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnv("NEW_RELIC_APP_NAME", "payswiftly"),
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			Enabled:    getBoolEnv("NEW_RELIC_ENABLED", false),
		},
		Gateway: GatewayConfig{
			APIKey:         getEnv("GATEWAY_API_KEY", ""),
			PublishableKey: getEnv("GATEWAY_PUBLISHABLE_KEY", ""),
			WebhookSecret:  getEnv("GATEWAY_WEBHOOK_SECRET", ""),
			TestMode:       getBoolEnv("GATEWAY_TEST_MODE", true),
			Timeout:        getDurationEnv("GATEWAY_TIMEOUT", 30*time.Second),
		},
		Fees: FeeConfig{
			Percentage: getFloatEnv("PLATFORM_FEE_PERCENTAGE", 0.5),
			Fixed:      getFloatEnv("PLATFORM_FEE_FIXED", 0),
		},
		Payout: PayoutConfig{
			MinimumThreshold: getFloatEnv("PAYOUT_MINIMUM_THRESHOLD", 100),
			DispatchInterval: getDurationEnv("PAYOUT_DISPATCH_INTERVAL", 5*time.Second),
			SweepInterval:    getDurationEnv("PAYOUT_SWEEP_INTERVAL", 24*time.Hour),
			StaleAfter:       getDurationEnv("COLLECTION_STALE_AFTER", 15*time.Minute),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET_KEY", "change-me-in-production"),
			TokenTTL:  getDurationEnv("JWT_TOKEN_TTL", 7*24*time.Hour),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

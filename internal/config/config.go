package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Cache backends.
const (
	CacheMemo  = "memo"
	CacheRedis = "redis"
)

// Config holds the runtime settings of the calculator.
type Config struct {
	MaxPrincipal    float64
	MaxMonths       int
	MaxRate         float64
	LogLevel        string
	OTELEndpoint    string
	OTELServiceName string
	PortfolioFile   string
	MetricsFile     string
	Currency        string
	CacheBackend    string
	RedisAddr       string
	CacheTTL        time.Duration
	ImportNoticeTTL time.Duration
}

// LoadConfig reads the configuration from the environment, after loading a
// .env file when one exists.
func LoadConfig() (*Config, error) {
	// a missing .env file is not an error
	_ = godotenv.Load()

	cfg := &Config{
		MaxPrincipal:    getEnvFloat("MAX_PRINCIPAL", 1e9),
		MaxMonths:       getEnvInt("MAX_MONTHS", 600),
		MaxRate:         getEnvFloat("MAX_RATE", 200),
		LogLevel:        getEnvString("LOG_LEVEL", "INFO"),
		OTELEndpoint:    getEnvString("OTEL_ENDPOINT", ""),
		OTELServiceName: getEnvString("OTEL_SERVICE_NAME", "loanfolio"),
		PortfolioFile:   getEnvString("PORTFOLIO_FILE", "portfolio.json"),
		MetricsFile:     getEnvString("METRICS_FILE", ""),
		Currency:        getEnvString("CURRENCY", "EUR"),
		CacheBackend:    getEnvString("CACHE_BACKEND", CacheMemo),
		RedisAddr:       getEnvString("REDIS_ADDR", "localhost:6379"),
		CacheTTL:        getEnvDuration("CACHE_TTL", 10*time.Minute),
		ImportNoticeTTL: getEnvDuration("IMPORT_NOTICE_TTL", 5*time.Second),
	}

	return cfg, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

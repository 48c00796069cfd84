package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	BaseURL    string
	SearchPath string

	DefaultLimit int
	MaxLimit     int
	MaxQueries   int

	NavTimeout      time.Duration
	InterceptWindow time.Duration
	DOMTimeout      time.Duration
	ProbeTimeout    time.Duration
	QueryDelay      time.Duration
	MaxSessions     int
	MaxConcurrency  int

	ProbeEnabled bool
	ChromeBin    string

	CacheTTL  time.Duration
	CacheSize int

	MetricsAddr string

	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		BaseURL:    getEnv("SHOPEE_BASE_URL", "https://shopee.com.br"),
		SearchPath: getEnv("SHOPEE_SEARCH_PATH", "/search"),

		DefaultLimit: getEnvInt("DEFAULT_LIMIT", 25),
		MaxLimit:     getEnvInt("MAX_LIMIT", 100),
		MaxQueries:   getEnvInt("MAX_QUERIES", 3),

		NavTimeout:      getEnvDuration("NAV_TIMEOUT_MS", 30000),
		InterceptWindow: getEnvDuration("INTERCEPT_WINDOW_MS", 8000),
		DOMTimeout:      getEnvDuration("DOM_TIMEOUT_MS", 10000),
		ProbeTimeout:    getEnvDuration("PROBE_TIMEOUT_MS", 10000),
		QueryDelay:      getEnvDuration("QUERY_DELAY_MS", 2000),
		MaxSessions:     getEnvInt("MAX_SESSIONS", 2),
		MaxConcurrency:  getEnvInt("MAX_CONCURRENCY", 2),

		ProbeEnabled: getEnvBool("PROBE_ENABLED", true),
		ChromeBin:    getEnv("CHROME_BIN", ""),

		CacheTTL:  getEnvDuration("CACHE_TTL_MS", 300000),
		CacheSize: getEnvInt("CACHE_SIZE", 64),

		MetricsAddr: getEnv("METRICS_ADDR", ""),

		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "analyzer"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "analyzer123"),
		PostgresDB:       getEnv("POSTGRES_DB", "market_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
	}
}

// SearchURL returns the full search endpoint URL.
func (c *Config) SearchURL() string {
	return c.BaseURL + c.SearchPath
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallbackMs int) time.Duration {
	return time.Duration(getEnvInt(key, fallbackMs)) * time.Millisecond
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the gateway.
type Config struct {
	App     AppConfig
	Backend BackendConfig
	Session SessionConfig
	Redis   RedisConfig
	Logger  LoggerConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// BackendConfig locates the clinic REST API the gateway fronts.
type BackendConfig struct {
	BaseURL               string
	RequestTimeoutSeconds int
}

// SessionConfig defines session lifecycle parameters.
type SessionConfig struct {
	RenewalWindowSeconds int
	HeartbeatSeconds     int
	StatusCacheSeconds   int
	RenewalLockSeconds   int
	CookieSecure         bool
	CookieSameSite       string
}

// RedisConfig holds Redis connection values. An empty Addr disables Redis
// and the gateway falls back to in-process locking and caching.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "clinic-portal-gateway"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Backend: BackendConfig{
			BaseURL:               getEnv("BACKEND_BASE_URL", "http://127.0.0.1:3000"),
			RequestTimeoutSeconds: getEnvAsInt("BACKEND_REQUEST_TIMEOUT_SECONDS", 10),
		},
		Session: SessionConfig{
			RenewalWindowSeconds: getEnvAsInt("SESSION_RENEWAL_WINDOW_SECONDS", 120),
			HeartbeatSeconds:     getEnvAsInt("SESSION_HEARTBEAT_SECONDS", 10),
			StatusCacheSeconds:   getEnvAsInt("SESSION_STATUS_CACHE_SECONDS", 5),
			RenewalLockSeconds:   getEnvAsInt("SESSION_RENEWAL_LOCK_SECONDS", 5),
			CookieSecure:         getEnvAsBool("SESSION_COOKIE_SECURE", true),
			CookieSameSite:       getEnv("SESSION_COOKIE_SAMESITE", "Strict"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// RequestTimeout returns the timeout applied to backend calls.
func (b BackendConfig) RequestTimeout() time.Duration {
	if b.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(b.RequestTimeoutSeconds) * time.Second
}

// RenewalWindow returns the absolute time-left threshold under which the
// session token counts as near expiry.
func (s SessionConfig) RenewalWindow() time.Duration {
	if s.RenewalWindowSeconds <= 0 {
		return 2 * time.Minute
	}
	return time.Duration(s.RenewalWindowSeconds) * time.Second
}

// HeartbeatInterval returns the activity heartbeat cadence.
func (s SessionConfig) HeartbeatInterval() time.Duration {
	if s.HeartbeatSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(s.HeartbeatSeconds) * time.Second
}

// StatusCacheTTL returns how long a positive check-status result is reused.
func (s SessionConfig) StatusCacheTTL() time.Duration {
	if s.StatusCacheSeconds <= 0 {
		return 0
	}
	return time.Duration(s.StatusCacheSeconds) * time.Second
}

// RenewalLockTTL returns how long a renewal single-flight lock is held.
func (s SessionConfig) RenewalLockTTL() time.Duration {
	if s.RenewalLockSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(s.RenewalLockSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config captures all runtime configuration derived from environment variables.
type Config struct {
	Port               string
	DatabaseURL        string
	RedisURL           string
	MovieCacheTTLSecs  int
	LogLevel           string
	CORSAllowedOrigins []string
	ReadTimeoutSecs    int
	WriteTimeoutSecs   int
	IdleTimeoutSecs    int
	DBMaxConns         int
	DBMinConns         int
	DBMaxIdleSecs      int
	DBMaxLifeSecs      int
	DBConnTimeoutSecs  int
}

// Load reads configuration from environment variables, applying defaults and validation.
func Load() (Config, error) {
	cfg := Config{
		Port:               getEnv("PORT", "5000"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisURL:           os.Getenv("REDIS_URL"),
		MovieCacheTTLSecs:  getEnvInt("MOVIE_CACHE_TTL_SECS", 900),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		ReadTimeoutSecs:    getEnvInt("SERVER_READ_TIMEOUT", 15),
		WriteTimeoutSecs:   getEnvInt("SERVER_WRITE_TIMEOUT", 15),
		IdleTimeoutSecs:    getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		DBMaxConns:         getEnvInt("DB_MAX_CONNS", 20),
		DBMinConns:         getEnvInt("DB_MIN_CONNS", 2),
		DBMaxIdleSecs:      getEnvInt("DB_MAX_CONN_IDLE_SECS", 300),
		DBMaxLifeSecs:      getEnvInt("DB_MAX_CONN_LIFETIME_SECS", 3600),
		DBConnTimeoutSecs:  getEnvInt("DB_CONN_TIMEOUT_SECS", 10),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.MovieCacheTTLSecs <= 0 {
		return Config{}, fmt.Errorf("MOVIE_CACHE_TTL_SECS must be positive")
	}
	if cfg.DBMaxConns <= 0 {
		return Config{}, fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if cfg.DBMinConns < 0 {
		return Config{}, fmt.Errorf("DB_MIN_CONNS must be non-negative")
	}
	if cfg.DBMinConns > cfg.DBMaxConns {
		return Config{}, fmt.Errorf("DB_MIN_CONNS cannot exceed DB_MAX_CONNS")
	}

	return cfg, nil
}

// LoaderDatabaseURL returns the database URL for one-shot tools that only need
// the store, not the full server configuration.
func LoaderDatabaseURL() (string, error) {
	dsn := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dsn == "" {
		return "", fmt.Errorf("DATABASE_URL is required")
	}
	return dsn, nil
}

func getEnv(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if strings.TrimSpace(val) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ServerConfig holds record store settings
type ServerConfig struct {
	Port            string
	DBFile          string
	DB              DBConfig
	TokenSecret     string
	RequireAuth     bool
	AllowOrigins    []string
	GinMode         string
	ShutdownTimeout time.Duration
}

// UsePostgres reports whether DATABASE_URL selected the Postgres repository.
func (c ServerConfig) UsePostgres() bool {
	return c.DB.DSN != ""
}

// LoadServerConfig reads an optional .env file, then the environment.
func LoadServerConfig(envFiles ...string) (ServerConfig, error) {
	// a missing .env is fine, the environment alone is enough
	_ = godotenv.Load(envFiles...)

	cfg := ServerConfig{
		Port:   getEnv("PORT", "3001"),
		DBFile: getEnv("DB_FILE", "db.json"),
		DB: DBConfig{
			DSN:           getEnv("DATABASE_URL", ""),
			MaxRetries:    getEnvInt("DB_MAX_RETRIES", 5),
			RetryInterval: time.Duration(getEnvInt("DB_RETRY_INTERVAL_SEC", 5)) * time.Second,
		},
		TokenSecret:     getEnv("TOKEN_SECRET", ""),
		RequireAuth:     getEnvBool("REQUIRE_AUTH", false),
		AllowOrigins:    splitList(getEnv("CORS_ALLOW_ORIGINS", "*")),
		GinMode:         getEnv("GIN_MODE", "debug"),
		ShutdownTimeout: time.Duration(getEnvInt("SHUTDOWN_TIMEOUT_SEC", 5)) * time.Second,
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return ServerConfig{}, fmt.Errorf("PORT must be numeric, got %q", cfg.Port)
	}
	if !cfg.UsePostgres() && cfg.DBFile == "" {
		return ServerConfig{}, fmt.Errorf("DB_FILE must not be empty when DATABASE_URL is unset")
	}
	if cfg.RequireAuth && cfg.TokenSecret == "" {
		return ServerConfig{}, fmt.Errorf("TOKEN_SECRET is required when REQUIRE_AUTH is enabled")
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		return ServerConfig{}, fmt.Errorf("GIN_MODE must be debug, release or test, got %q", cfg.GinMode)
	}
	if cfg.ShutdownTimeout <= 0 {
		return ServerConfig{}, fmt.Errorf("SHUTDOWN_TIMEOUT_SEC must be > 0")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	return val
}

func getEnvInt(key string, fallback int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return b
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

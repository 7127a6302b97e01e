package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config carries every runtime setting, sourced from the environment with
// an optional .env file for development.
type Config struct {
	Port        string
	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool

	JWTSecret       string
	AccessTokenTTL  int // seconds
	RefreshTokenTTL int // seconds

	// DefaultInvoiceScope is the SCOPE token used for invoice numbers when
	// the user has no default company to take a short code from.
	DefaultInvoiceScope string
}

// Load reads configuration from the environment. A missing .env file is
// not an error; a missing DATABASE_URL or JWT_SECRET is.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using environment")
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinioUseSSL:    getEnvBool("MINIO_USE_SSL", false),

		JWTSecret:       os.Getenv("JWT_SECRET"),
		AccessTokenTTL:  getEnvInt("ACCESS_TOKEN_TTL", 900),
		RefreshTokenTTL: getEnvInt("REFRESH_TOKEN_TTL", 7*24*3600),

		DefaultInvoiceScope: getEnv("DEFAULT_INVOICE_SCOPE", "GEN"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Warn().Str("key", key).Str("value", v).Msg("invalid integer in environment, using default")
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Warn().Str("key", key).Str("value", v).Msg("invalid boolean in environment, using default")
	}
	return fallback
}

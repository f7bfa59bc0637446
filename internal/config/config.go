package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config carries settings for both binaries. The client only reads
// ServerURL and AdminToken; the server reads the rest. Values come from
// the environment, with .env loading left to main.
type Config struct {
	Env  string
	Port string

	// Client side.
	ServerURL  string
	AdminToken string

	// Server side.
	DataDir    string
	InvoiceDir string
	JWTSecret  string

	// Optional Redis-backed store; the JSON file store is used when
	// RedisAddr is empty.
	RedisAddr string
	RedisPass string
	RedisDB   int
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:        getEnv("POS_ENV", "development"),
		Port:       getEnv("POS_PORT", "8000"),
		ServerURL:  getEnv("POS_SERVER_URL", "http://localhost:8000"),
		AdminToken: os.Getenv("POS_ADMIN_TOKEN"),
		DataDir:    getEnv("POS_DATA_DIR", "data"),
		InvoiceDir: getEnv("POS_INVOICE_DIR", "invoices"),
		JWTSecret:  getEnv("POS_JWT_SECRET", "dev-secret-change-me"),
		RedisAddr:  os.Getenv("POS_REDIS_ADDR"),
		RedisPass:  os.Getenv("POS_REDIS_PASS"),
	}

	if v := os.Getenv("POS_REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid POS_REDIS_DB %q: %w", v, err)
		}
		cfg.RedisDB = db
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

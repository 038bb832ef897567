package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the server's environment-driven settings.
type Config struct {
	Port         string
	DatabaseURL  string
	KafkaBrokers []string
	LogMode      string
	AuthMode     string
}

// Load reads .env if present, then the process environment.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port:        getenv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		LogMode:     getenv("LOG_MODE", "dev"),
		AuthMode:    getenv("AUTH_MODE", "ed25519"),
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

package config

import (
	"os"
	"strings"
)

type AppConfig struct {
	HTTPAddr     string
	DatabaseURL  string // empty selects the in-memory store
	KafkaBrokers []string
	KafkaTopic   string
	RedisAddr    string // empty disables the directory cache
	RedisPass    string
	AdminUserIDs []string
}

func Load() AppConfig {
	return AppConfig{
		HTTPAddr:     getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		KafkaBrokers: getEnvSlice("KAFKA_BROKERS", nil),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "gl_entry_posted"),
		RedisAddr:    getEnv("REDIS_ADDR", ""),
		RedisPass:    getEnv("REDIS_PASS", ""),
		AdminUserIDs: getEnvSlice("ADMIN_USER_IDS", nil),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		return strings.Split(v, ",")
	}
	return fallback
}

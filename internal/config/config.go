package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	RetryCount     int

	ListenAddr    string
	SessionSecret string
	GinMode       string

	CacheDriver string
	CacheDSN    string

	Debug bool
}

func Load() *Config {
	return &Config{
		APIBaseURL:     getEnv("TASKDECK_API_URL", "http://localhost:8080"),
		RequestTimeout: getDurationEnv("TASKDECK_API_TIMEOUT", 15*time.Second),
		RetryCount:     getIntEnv("TASKDECK_API_RETRIES", 2),
		ListenAddr:     getEnv("TASKDECK_LISTEN_ADDR", ":3000"),
		SessionSecret:  getEnv("TASKDECK_SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		CacheDriver:    getEnv("TASKDECK_CACHE_DRIVER", "sqlite"),
		CacheDSN:       getEnv("TASKDECK_CACHE_DSN", "taskdeck-cache.db"),
		Debug:          getBoolEnv("TASKDECK_DEBUG", false),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	MoviesFile       string
	SeriesFile       string
	SnapshotPath     string
	RedisURL         string
	CacheDisabled    bool
	RedisTitleTTL    time.Duration
	SearchParallel   bool
	SearchWorkers    int
	DefaultLimit     int
	IngestOnStart    bool
	IngestPolicy     string
	RequestRateLimit int
}

func LoadConfig() Config {
	return Config{
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		LogLevel:         strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:        strings.ToLower(getEnv("LOG_FORMAT", "text")),
		MoviesFile:       getEnv("CATALOG_MOVIES_FILE", ""),
		SeriesFile:       getEnv("CATALOG_SERIES_FILE", ""),
		SnapshotPath:     getEnv("CATALOG_SNAPSHOT_PATH", ""),
		RedisURL:         getEnv("REDIS_URL", ""),
		CacheDisabled:    getEnvBool("SEARCH_CACHE_DISABLED", false),
		RedisTitleTTL:    time.Duration(getEnvInt("SEARCH_TITLE_CACHE_TTL_MINUTES", 30)) * time.Minute,
		SearchParallel:   getEnvBool("SEARCH_PARALLEL", false),
		SearchWorkers:    getEnvInt("SEARCH_WORKERS", 4),
		DefaultLimit:     getEnvInt("SEARCH_DEFAULT_LIMIT", 50),
		IngestOnStart:    getEnvBool("CATALOG_INGEST_ON_START", true),
		IngestPolicy:     strings.ToLower(getEnv("CATALOG_INGEST_POLICY", "skip_invalid")),
		RequestRateLimit: getEnvInt("HTTP_RATE_LIMIT", 50),
	}
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

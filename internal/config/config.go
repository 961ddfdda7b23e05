package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	ServerPort  int
	DatabaseURL string

	JWTSecret string
	JWTTTL    time.Duration

	CORSAllowedOrigins []string

	LogLevel      string
	LogFormat     string
	LogFile       string
	LogMaxAgeDays int

	EventRetention     time.Duration
	EventPurgeSchedule string
	StatsInterval      time.Duration
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	port, err := getEnvInt("PORT", 8000)
	if err != nil {
		return nil, err
	}
	ttlMinutes, err := getEnvInt("JWT_TTL_MINUTES", 60)
	if err != nil {
		return nil, err
	}
	maxAge, err := getEnvInt("LOG_MAX_AGE_DAYS", 7)
	if err != nil {
		return nil, err
	}
	retentionDays, err := getEnvInt("EVENT_RETENTION_DAYS", 30)
	if err != nil {
		return nil, err
	}
	statsSeconds, err := getEnvInt("STATS_INTERVAL_SECONDS", 15)
	if err != nil {
		return nil, err
	}

	secret := getEnv("JWT_SECRET", "")
	if secret == "" {
		return nil, errors.New("JWT_SECRET must be set")
	}
	if ttlMinutes <= 0 {
		return nil, fmt.Errorf("JWT_TTL_MINUTES must be positive, got %d", ttlMinutes)
	}
	if statsSeconds <= 0 {
		return nil, fmt.Errorf("STATS_INTERVAL_SECONDS must be positive, got %d", statsSeconds)
	}

	return &Config{
		ServerPort:         port,
		DatabaseURL:        getEnv("DATABASE_URL", "file:userhub.db"),
		JWTSecret:          secret,
		JWTTTL:             time.Duration(ttlMinutes) * time.Minute,
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "console"),
		LogFile:            getEnv("LOG_FILE", ""),
		LogMaxAgeDays:      maxAge,
		EventRetention:     time.Duration(retentionDays) * 24 * time.Hour,
		EventPurgeSchedule: getEnv("EVENT_PURGE_SCHEDULE", "@daily"),
		StatsInterval:      time.Duration(statsSeconds) * time.Second,
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

package config

import (
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog/log"
)

// Config holds all configuration for the service
type Config struct {
	Port     int
	AppEnv   string
	LogLevel string

	// Gemini. An empty API key leaves the AI capability unavailable.
	GeminiAPIKey   string
	GeminiModel    string
	GeminiEndpoint string
	GeminiTimeout  time.Duration
	AICacheSize    int

	// Per-client limits on the POST endpoints. RateLimitRPS 0 disables them.
	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads configuration from the environment (.env is autoloaded).
func Load() *Config {
	return &Config{
		Port:           getEnvInt("PORT", 8080),
		AppEnv:         getEnv("APP_ENV", "production"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiEndpoint: getEnv("GEMINI_ENDPOINT", "https://generativelanguage.googleapis.com/v1beta/models"),
		GeminiTimeout:  getEnvDuration("GEMINI_TIMEOUT", 30*time.Second),
		AICacheSize:    getEnvInt("AI_CACHE_SIZE", 128),
		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 10),
	}
}

// IsLocal reports whether the service runs on a developer machine.
func (c *Config) IsLocal() bool {
	return c.AppEnv == "local" || c.AppEnv == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		log.Warn().Str("key", key).Str("value", raw).Msgf("Invalid integer, using default %d", defaultValue)
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value < 0 {
		log.Warn().Str("key", key).Str("value", raw).Msgf("Invalid number, using default %g", defaultValue)
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		log.Warn().Str("key", key).Str("value", raw).Msgf("Invalid duration, using default %s", defaultValue)
		return defaultValue
	}
	return value
}

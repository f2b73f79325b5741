package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultUserAgent is the browser-like agent sent when fetching remote question images.
// Some image hosts reject Go's default agent.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.3"

// Config holds all application configuration.
type Config struct {
	ServerPort   string
	GinMode      string
	LogLevel     string
	LogFormat    string
	QuestionFile string
	// AllowedOrigins controls HTTP CORS and WebSocket origin validation.
	// Empty slice means all origins are permitted (dev default).
	AllowedOrigins []string

	ImageSize      int
	ImageTimeout   time.Duration
	ImageMaxBytes  int64
	// ImageMaxPixels caps width*height before decoding; compressed size alone
	// does not bound the decoded bitmap.
	ImageMaxPixels int64
	ImageUserAgent string

	// TickInterval is how often the websocket stream pushes the elapsed time.
	TickInterval time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load() // .env is optional

	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "release"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "pretty"),
		QuestionFile:   getEnv("QUESTION_FILE", "data/questions.json"),
		AllowedOrigins: parseOrigins(getEnv("ALLOWED_ORIGINS", "")),
		ImageSize:      getEnvInt("IMAGE_SIZE", 200),
		ImageTimeout:   time.Duration(getEnvInt("IMAGE_TIMEOUT_SECONDS", 15)) * time.Second,
		ImageMaxBytes:  int64(getEnvInt("IMAGE_MAX_BYTES_MB", 10)) * 1024 * 1024,
		ImageMaxPixels: int64(getEnvInt("IMAGE_MAX_MEGAPIXELS", 40)) * 1000 * 1000,
		ImageUserAgent: getEnv("IMAGE_USER_AGENT", DefaultUserAgent),
		TickInterval:   time.Duration(getEnvInt("TICK_INTERVAL_MS", 1000)) * time.Millisecond,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt falls back on missing, malformed and non-positive values alike;
// none of the integer settings accept zero.
func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

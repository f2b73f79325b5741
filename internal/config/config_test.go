package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"SERVER_PORT", "QUESTION_FILE", "IMAGE_SIZE", "TICK_INTERVAL_MS",
		"IMAGE_TIMEOUT_SECONDS", "IMAGE_MAX_BYTES_MB", "IMAGE_MAX_MEGAPIXELS", "IMAGE_USER_AGENT", "ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "data/questions.json", cfg.QuestionFile)
	assert.Equal(t, 200, cfg.ImageSize)
	assert.Equal(t, time.Second, cfg.TickInterval)
	assert.Equal(t, 15*time.Second, cfg.ImageTimeout)
	assert.Equal(t, int64(10*1024*1024), cfg.ImageMaxBytes)
	assert.Equal(t, int64(40_000_000), cfg.ImageMaxPixels)
	assert.Equal(t, DefaultUserAgent, cfg.ImageUserAgent)
	assert.Nil(t, cfg.AllowedOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("QUESTION_FILE", "/tmp/bank.json")
	t.Setenv("IMAGE_SIZE", "64")
	t.Setenv("TICK_INTERVAL_MS", "250")
	t.Setenv("IMAGE_MAX_MEGAPIXELS", "5")
	t.Setenv("ALLOWED_ORIGINS", " http://a.test , ,http://b.test")

	cfg := Load()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "/tmp/bank.json", cfg.QuestionFile)
	assert.Equal(t, 64, cfg.ImageSize)
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, int64(5_000_000), cfg.ImageMaxPixels)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
}

func TestGetEnvIntFallback(t *testing.T) {
	t.Setenv("IMAGE_SIZE", "abc")
	assert.Equal(t, 200, getEnvInt("IMAGE_SIZE", 200))

	t.Setenv("IMAGE_SIZE", "-5")
	assert.Equal(t, 200, getEnvInt("IMAGE_SIZE", 200))
}

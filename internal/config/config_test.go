package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	// the environment may legitimately override any of these (integration
	// runs set MONGODB_URI), so only pin values we control here
	t.Setenv("PORT", "8080")
	t.Setenv("DB_NAME", "student_connect")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "student_connect", cfg.DBName)
	assert.NotEmpty(t, cfg.MongoURI)
	assert.NotEmpty(t, cfg.SessionSecret)
	assert.NotEmpty(t, cfg.CORSOrigins)
	assert.Positive(t, cfg.RateLimitRPM)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("DB_NAME", "connect_test")
	t.Setenv("RATE_LIMIT_RPM", "42")

	cfg := Load()

	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "connect_test", cfg.DBName)
	assert.Equal(t, 42, cfg.RateLimitRPM)
}

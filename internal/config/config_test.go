package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/graphchat")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("GRAPH_CHAIN_URL", "http://localhost:9000/query")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.ServerPort)
	assert.Equal(t, 720*time.Hour, cfg.JWTExpiration)
	assert.Equal(t, 60*time.Second, cfg.GraphQueryTimeout)
	assert.Equal(t, 60, cfg.RateLimitRequests)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.EventsEnabled)
	assert.False(t, cfg.TracingEnabled)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_EXPIRATION", "24h")
	t.Setenv("GRAPH_QUERY_TIMEOUT", "10s")
	t.Setenv("RATE_LIMIT_REQUESTS", "5")
	t.Setenv("EVENTS_ENABLED", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiration)
	assert.Equal(t, 10*time.Second, cfg.GraphQueryTimeout)
	assert.Equal(t, 5, cfg.RateLimitRequests)
	assert.True(t, cfg.EventsEnabled)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRequiredSettings(t *testing.T) {
	cases := []struct {
		name  string
		unset string
	}{
		{"database url", "DATABASE_URL"},
		{"jwt secret", "JWT_SECRET"},
		{"query backend", "GRAPH_CHAIN_URL"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tc.unset, "")

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadBackendAlternatives(t *testing.T) {
	setRequired(t)
	t.Setenv("GRAPH_CHAIN_URL", "")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.AnthropicAPIKey)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	setRequired(t)
	t.Setenv("RATE_LIMIT_REQUESTS", "not-a-number")
	t.Setenv("JWT_EXPIRATION", "eventually")
	t.Setenv("EVENTS_ENABLED", "affirmative")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.RateLimitRequests)
	assert.Equal(t, 720*time.Hour, cfg.JWTExpiration)
	assert.False(t, cfg.EventsEnabled)
}

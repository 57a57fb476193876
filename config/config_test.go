package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost:5432/portal")
	t.Setenv("REVAI_API_KEY", "test-key")
	t.Setenv("S3_PUBLIC_BASE_URL", "https://media.example")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10, cfg.Database.MaxConns)
	assert.Equal(t, "media", cfg.Storage.Bucket)
	assert.Equal(t, "https://api.rev.ai/alignment/v1", cfg.Alignment.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Alignment.Timeout)
	assert.Equal(t, time.Minute, cfg.Alignment.TranscriptTimeout)
	assert.Equal(t, 8, cfg.Refresh.Workers)
	assert.Equal(t, 10, cfg.Refresh.RPS)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9090")
	t.Setenv("REVAI_TIMEOUT", "30s")
	t.Setenv("REFRESH_WORKERS", "4")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Alignment.Timeout)
	assert.Equal(t, 4, cfg.Refresh.Workers)
}

func TestLoad_MissingAPIKey(t *testing.T) {
	setRequired(t)
	t.Setenv("REVAI_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REVAI_API_KEY")
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	setRequired(t)
	t.Setenv("REFRESH_WORKERS", "many")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Refresh.Workers)
}

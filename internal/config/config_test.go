package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TALENTLINK_API_URL", "")
	t.Setenv("TALENTLINK_STATE_DIR", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, ":8091", cfg.WebAddr)
	assert.Equal(t, 10, cfg.PageSize)
	assert.False(t, cfg.Debug)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TALENTLINK_API_URL", "https://api.example.com")
	t.Setenv("TALENTLINK_TIMEOUT", "30s")
	t.Setenv("TALENTLINK_WEB_ADDR", ":9000")
	t.Setenv("TALENTLINK_PAGE_SIZE", "25")
	t.Setenv("TALENTLINK_DEBUG", "true")
	t.Setenv("TALENTLINK_STATE_DIR", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, ":9000", cfg.WebAddr)
	assert.Equal(t, 25, cfg.PageSize)
	assert.True(t, cfg.Debug)
}

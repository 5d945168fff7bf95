package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "Swift Stay Admin", cfg.App.Name)
	assert.Equal(t, "http://localhost:5000", cfg.API.URL)
	assert.Equal(t, "http://localhost:5000/api", cfg.API.BaseURL())
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, "keyring", cfg.Storage.Backend)
	assert.Equal(t, 10*time.Minute, cfg.Theme.OverrideTTL)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("SWIFTSTAY_API_BASE_URL", "https://api.swiftstay.example/")
	t.Setenv("SWIFTSTAY_STORAGE_BACKEND", "redis")
	t.Setenv("SWIFTSTAY_REDIS_DB", "3")
	t.Setenv("SWIFTSTAY_HTTP_TIMEOUT", "5s")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "https://api.swiftstay.example/api", cfg.API.BaseURL())
	assert.Equal(t, "redis", cfg.Storage.Backend)
	assert.Equal(t, 3, cfg.Storage.RedisDB)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
}

func TestFromEnv_InvalidBackend(t *testing.T) {
	t.Setenv("SWIFTSTAY_STORAGE_BACKEND", "cookies")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid storage backend")
}

func TestFromEnv_InvalidTimeout(t *testing.T) {
	t.Setenv("SWIFTSTAY_HTTP_TIMEOUT", "0s")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}

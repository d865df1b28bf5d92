package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ARK_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.Ark.APIKey)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 180*time.Second, cfg.Ark.Timeout)
	assert.Equal(t, 10, cfg.Upload.MaxImages)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_MissingAPIKeyFails(t *testing.T) {
	// t.Setenv registers the restore; the key must be truly absent for
	// envconfig's required check to fire.
	t.Setenv("ARK_API_KEY", "placeholder")
	require.NoError(t, os.Unsetenv("ARK_API_KEY"))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ARK_API_KEY")
}

func TestLoad_EmptyAPIKeyFails(t *testing.T) {
	t.Setenv("ARK_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ARK_API_KEY")
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("ARK_API_KEY", "k")
	t.Setenv("PORT", "9001")
	t.Setenv("MAX_IMAGES", "5")
	t.Setenv("ARK_TIMEOUT", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9001, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Upload.MaxImages)
	assert.Equal(t, 30*time.Second, cfg.Ark.Timeout)
}

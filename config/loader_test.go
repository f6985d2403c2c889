package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EasterCompany/package-builder-service/internal/remote"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "service.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, remote.DefaultBaseURL, cfg.Remote.BaseURL)
	assert.Equal(t, remote.DefaultToken, cfg.Remote.Token)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, 10, cfg.Fuel.DecayAmount)
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, `
port: 9000
core_interval: 2s
storage:
  backend: redis
  redis_addr: cache:6379
remote:
  base_url: https://staging.example/v1
  timeout: 1500ms
dashboard:
  mode: demo
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 2*time.Second, cfg.CoreInterval)
	assert.Equal(t, BackendRedis, cfg.Storage.Backend)
	assert.Equal(t, "cache:6379", cfg.Storage.RedisAddr)
	assert.Equal(t, "https://staging.example/v1", cfg.Remote.BaseURL)
	assert.Equal(t, 1500*time.Millisecond, cfg.Remote.Timeout)
	assert.Equal(t, remote.DefaultToken, cfg.Remote.Token)
	assert.Equal(t, "demo", cfg.Dashboard.Mode)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "remote:\n  base_url: https://file.example/v1\n")
	t.Setenv("PACKAGE_BUILDER_API_URL", "https://env.example/v1")
	t.Setenv("PACKAGE_BUILDER_API_TOKEN", "secret-token")
	t.Setenv("PACKAGE_BUILDER_STORAGE", "memory")
	t.Setenv("PACKAGE_BUILDER_TOKEN_TTL", "1h")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example/v1", cfg.Remote.BaseURL)
	assert.Equal(t, "secret-token", cfg.Remote.Token)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
}

func TestValidateRejectsBadValues(t *testing.T) {
	path := writeConfig(t, "port: 0\nstorage:\n  backend: floppy\ndashboard:\n  mode: fancy\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port 0 out of range")
	assert.Contains(t, err.Error(), `unknown storage backend "floppy"`)
	assert.Contains(t, err.Error(), `unknown dashboard mode "fancy"`)
}

func TestGetSanitized(t *testing.T) {
	cfg := Default()
	clean := cfg.GetSanitized()
	assert.Equal(t, "********", clean.Remote.Token)
	assert.Equal(t, "********", clean.Auth.JWTSecret)
	assert.Empty(t, clean.Storage.RedisPassword)
	assert.Equal(t, remote.DefaultToken, cfg.Remote.Token)
}

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "localhost:1111", cfg.Server.Addr())
	assert.Equal(t, "badger", cfg.Store.Backend)
	assert.Equal(t, 30*time.Minute, cfg.Auth.AccessTTL)
	assert.False(t, cfg.IsProd())
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	yaml := []byte("server:\n  port: 9999\nstore:\n  backend: memory\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Store.Backend)
	// Untouched fields keep their defaults.
	assert.Equal(t, "localhost", cfg.Server.Host)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	yaml := []byte("server:\n  port: 9999\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644))
	t.Setenv("MUSICEE_PORT", "4444")
	t.Setenv("MUSICEE_STORE_BACKEND", "memory")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 4444, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Store.Backend)
}

func TestLoadConfigIgnoresUnknownEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MUSICEE_BOGUS", "whatever")

	_, err := LoadConfig()
	assert.NoError(t, err)
}

func TestLoadConfigProdNeedsSecret(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MUSICEE_ENV", "prod")

	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("MUSICEE_AUTH_SECRET", "a-real-secret")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.IsProd())
}

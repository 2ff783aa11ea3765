package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "JUL2024", cfg.AccessCode)
	assert.Equal(t, "access_granted", cfg.FlagName)
	assert.Equal(t, "cookie", cfg.StoreBackend)
	assert.Equal(t, "localhost:60000", cfg.Addr())
	assert.Equal(t, 500*time.Millisecond, cfg.ShakeDuration())
	assert.Equal(t, 3*time.Second, cfg.ErrorDuration())
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("ACCESS_CODE", "NISSE")
	t.Setenv("STORE_BACKEND", "sqlite")
	t.Setenv("UI_ADDR", "0.0.0.0")
	t.Setenv("UI_PORT", "8080")
	t.Setenv("GATE_SHAKE_MS", "250")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("REDIS_DB", "2")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "NISSE", cfg.AccessCode)
	assert.Equal(t, "sqlite", cfg.StoreBackend)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, 250*time.Millisecond, cfg.ShakeDuration())
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, 2, cfg.RedisDB)
}

func TestLoadConfigErrors(t *testing.T) {
	t.Setenv("GATE_ERROR_MS", "soon")
	_, err := LoadConfig()
	assert.ErrorContains(t, err, "parse env:")
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "localstorage")
	_, err := LoadConfig()
	assert.ErrorContains(t, err, "STORE_BACKEND")
}

func TestValidateRejectsInvalidFlagName(t *testing.T) {
	for _, name := range []string{"access granted", "flag;x", "fl\u00e5g"} {
		t.Setenv("FLAG_NAME", name)
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "FLAG_NAME", name)
	}

	t.Setenv("FLAG_NAME", "julebord_access-1")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "julebord_access-1", cfg.FlagName)
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "julebord", DBSSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=julebord sslmode=disable", cfg.PostgresDSN())
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("JULEBORD_TEST_DOTENV=lutefisk\n"), 0o600))

	old := DotEnvPaths
	DotEnvPaths = []string{filepath.Join(dir, "missing.env"), path}
	t.Cleanup(func() { DotEnvPaths = old })
	t.Cleanup(func() { os.Unsetenv("JULEBORD_TEST_DOTENV") })

	got, ok := LoadDotEnv()
	require.True(t, ok)
	assert.Equal(t, path, got)
	assert.Equal(t, "lutefisk", os.Getenv("JULEBORD_TEST_DOTENV"))
}

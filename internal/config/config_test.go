package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearServerEnv(t *testing.T) {
	for _, key := range []string{"PORT", "DB_FILE", "DATABASE_URL", "TOKEN_SECRET", "REQUIRE_AUTH",
		"CORS_ALLOW_ORIGINS", "GIN_MODE", "SHUTDOWN_TIMEOUT_SEC", "DB_MAX_RETRIES", "DB_RETRY_INTERVAL_SEC"} {
		t.Setenv(key, "")
	}
}

func TestLoadServerConfig_Defaults(t *testing.T) {
	clearServerEnv(t)

	cfg, err := LoadServerConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, "db.json", cfg.DBFile)
	assert.False(t, cfg.UsePostgres())
	assert.False(t, cfg.RequireAuth)
	assert.Equal(t, []string{"*"}, cfg.AllowOrigins)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 5, cfg.DB.MaxRetries)
}

func TestLoadServerConfig_FromEnv(t *testing.T) {
	clearServerEnv(t)
	t.Setenv("PORT", "4000")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/db")
	t.Setenv("REQUIRE_AUTH", "true")
	t.Setenv("TOKEN_SECRET", "s3cret")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.test, http://b.test")

	cfg, err := LoadServerConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "4000", cfg.Port)
	assert.True(t, cfg.UsePostgres())
	assert.True(t, cfg.RequireAuth)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowOrigins)
}

func TestLoadServerConfig_DotEnvFile(t *testing.T) {
	clearServerEnv(t)
	os.Unsetenv("DB_FILE")
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("DB_FILE=seed.json\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("DB_FILE") })

	cfg, err := LoadServerConfig(envFile)
	require.NoError(t, err)
	assert.Equal(t, "seed.json", cfg.DBFile)
}

func TestLoadServerConfig_Invalid(t *testing.T) {
	clearServerEnv(t)
	t.Setenv("REQUIRE_AUTH", "true")
	_, err := LoadServerConfig(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "TOKEN_SECRET")

	clearServerEnv(t)
	t.Setenv("PORT", "http")
	_, err = LoadServerConfig(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "PORT")
}

func TestLoadClientConfig_FileAndEnv(t *testing.T) {
	t.Setenv("API_URL", "")
	t.Setenv("TOKEN_SECRET", "")
	t.Setenv("TOKEN_FILE", "")

	path := filepath.Join(t.TempDir(), "client.yaml")
	cfg := DefaultClientConfig()
	cfg.APIURL = "http://records.test:9000"
	cfg.Timeout = 3 * time.Second
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadClientConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://records.test:9000", loaded.APIURL)
	assert.Equal(t, 3*time.Second, loaded.Timeout)

	t.Setenv("API_URL", "http://override.test")
	t.Setenv("TOKEN_FILE", "/tmp/token.json")
	loaded, err = LoadClientConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://override.test", loaded.APIURL)
	assert.Equal(t, "/tmp/token.json", loaded.TokenFile)
}

func TestClientConfig_Validate(t *testing.T) {
	cfg := DefaultClientConfig()
	require.NoError(t, cfg.Validate())

	cfg.APIURL = "localhost"
	assert.Error(t, cfg.Validate())

	cfg = DefaultClientConfig()
	cfg.TokenSecret = ""
	assert.Error(t, cfg.Validate())
}

func TestLoadClientConfig_MissingFile(t *testing.T) {
	_, err := LoadClientConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/maxviazov/station-vendor-service/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func clearSecrets(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_POSTGRES_USER", "APP_POSTGRES_PASSWORD", "APP_POSTGRES_DB",
		"POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
		"DB_USER", "DB_PASSWORD", "DB_NAME",
		"APP_AUTH_JWT_SECRET", "JWT_SECRET",
	} {
		t.Setenv(k, "")
	}
}

const baseYAML = `
app:
  name: station-vendor-service
  version: 0.1.0
  env: test
  port: 18080
  shutdown_timeout: 3s

logger:
  level: info
  format: json
  output_target: stdout

postgres:
  host: 127.0.0.1
  port: 5432
  sslmode: disable
  max_conns: 5

pagination:
  default_limit: 10
  max_limit: 100
  resources:
    pending_admins:
      default_limit: 25
    licenses:
      max_limit: 50
`

func TestConfigLoad_FromYAMLAndEnv(t *testing.T) {
	clearSecrets(t)
	path := writeTempConfig(t, baseYAML)

	t.Setenv("APP_POSTGRES_USER", "testuser")
	t.Setenv("APP_POSTGRES_PASSWORD", "testpass")
	t.Setenv("APP_POSTGRES_DB", "testdb")
	t.Setenv("APP_AUTH_JWT_SECRET", "0123456789abcdef0123")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 18080, cfg.App.Port)
	assert.Equal(t, 3*time.Second, cfg.App.ShutdownTimeout)
	assert.Equal(t, "testuser", cfg.Postgres.User)
	assert.Equal(t, "testpass", cfg.Postgres.Password)
	assert.Equal(t, "testdb", cfg.Postgres.DBName)
	assert.Equal(t, "127.0.0.1", cfg.Postgres.Host)
	assert.Equal(t, int32(5), cfg.Postgres.MaxConns)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "stdout", cfg.Logger.OutputTarget)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
}

func TestConfigLoad_LegacyEnvNames(t *testing.T) {
	clearSecrets(t)
	path := writeTempConfig(t, baseYAML)

	t.Setenv("POSTGRES_USER", "legacy")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "stations")
	t.Setenv("JWT_SECRET", "a-long-enough-secret")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "legacy", cfg.Postgres.User)
	assert.Equal(t, "stations", cfg.Postgres.DBName)
	assert.Equal(t, "a-long-enough-secret", cfg.Auth.JWTSecret)
}

func TestConfigLoad_MissingRequiredEnvFails(t *testing.T) {
	clearSecrets(t)
	path := writeTempConfig(t, baseYAML)

	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestConfigLoad_MissingFileFails(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestPaginationConfig_Limits(t *testing.T) {
	p := config.PaginationConfig{
		DefaultLimit: 10,
		MaxLimit:     100,
		Resources: map[string]config.LimitConfig{
			"pending_admins": {DefaultLimit: 25},
			"licenses":       {MaxLimit: 50},
		},
	}

	def, maxLimit := p.Limits("stations")
	assert.Equal(t, 10, def)
	assert.Equal(t, 100, maxLimit)

	def, maxLimit = p.Limits("pending_admins")
	assert.Equal(t, 25, def)
	assert.Equal(t, 100, maxLimit)

	def, maxLimit = p.Limits("licenses")
	assert.Equal(t, 10, def)
	assert.Equal(t, 50, maxLimit)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, time.Hour, cfg.Audit.GetInterval())
	assert.False(t, cfg.Audit.AutoCorrect)
}

func TestConfig_TeacherEnvNamesOverrideDatabase(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_USER", "ledger")
	t.Setenv("DB_NAME", "ledger_prod")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("PORT", "9090")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "6543", cfg.Database.Port)
	assert.Equal(t, "ledger", cfg.Database.User)
	assert.Equal(t, "ledger_prod", cfg.Database.Name)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestConfig_InvalidPortIgnored(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ledger.toml")
	content := `
environment = "production"

[database]
driver = "sqlite3"
path = "/var/lib/ledger.db"

[reconciliation]
per_minute = 30
burst = 4

[audit]
interval = "15m"
batch_size = 250
auto_correct = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("LEDGER_AUDIT_INTERVAL", "30m")

	cfg, err := LoadConfig(path, filepath.Join(dir, "missing.toml"))
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, "/var/lib/ledger.db", cfg.Database.Path)
	assert.Equal(t, 30, cfg.Reconciliation.PerMinute)
	assert.Equal(t, 4, cfg.Reconciliation.Burst)
	assert.Equal(t, 250, cfg.Audit.BatchSize)
	assert.True(t, cfg.Audit.AutoCorrect)
	assert.Equal(t, 30*time.Minute, cfg.Audit.GetInterval())
}

func TestLoadConfig_UnsupportedDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_ZeroLimitsFallBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ledger.toml")
	require.NoError(t, os.WriteFile(path, []byte("[audit]\nworkers = 0\nbatch_size = -1\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Audit.Workers)
	assert.Equal(t, 1000, cfg.Audit.BatchSize)
}

func TestAuditConfig_BadIntervalUsesDefault(t *testing.T) {
	c := AuditConfig{Interval: "soon"}
	assert.Equal(t, time.Hour, c.GetInterval())
}

func TestLoggingConfig_LogLevel(t *testing.T) {
	assert.Equal(t, log.DEBUG, LoggingConfig{Level: "debug"}.LogLevel())
	assert.Equal(t, log.WARN, LoggingConfig{Level: "WARN"}.LogLevel())
	assert.Equal(t, log.ERROR, LoggingConfig{Level: "error"}.LogLevel())
	assert.Equal(t, log.INFO, LoggingConfig{Level: "verbose"}.LogLevel())
}

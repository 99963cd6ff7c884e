// Package config loads the ledger engine configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/radhian/ledger-engine/consts"
)

// Config holds all configuration for the ledger engine
type Config struct {
	Environment    string               `toml:"environment"`
	Server         ServerConfig         `toml:"server"`
	Database       DatabaseConfig       `toml:"database"`
	Logging        LoggingConfig        `toml:"logging"`
	Reconciliation ReconciliationConfig `toml:"reconciliation"`
	Audit          AuditConfig          `toml:"audit"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// DatabaseConfig selects the gorm dialect and its connection settings.
// Driver is "postgres" or "sqlite3"; Path is only used by sqlite3.
type DatabaseConfig struct {
	Driver   string `toml:"driver"`
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	User     string `toml:"user"`
	Name     string `toml:"name"`
	Password string `toml:"password"`
	SSLMode  string `toml:"sslmode"`
	Path     string `toml:"path"`
	Debug    bool   `toml:"debug"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

// ReconciliationConfig throttles the administrator-invoked recalculation per account.
type ReconciliationConfig struct {
	PerMinute int `toml:"per_minute"`
	Burst     int `toml:"burst"`
}

// AuditConfig drives the background drift audit workers.
type AuditConfig struct {
	Interval    string `toml:"interval"`
	Workers     int    `toml:"workers"`
	BatchSize   int    `toml:"batch_size"`
	AutoCorrect bool   `toml:"auto_correct"`
}

// GetInterval parses and returns the audit interval
func (c *AuditConfig) GetInterval() time.Duration {
	d, err := time.ParseDuration(c.Interval)
	if err != nil || d <= 0 {
		return consts.DefaultIntervalInSec * time.Second
	}
	return d
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Database: DatabaseConfig{
			Driver:  "postgres",
			Host:    "localhost",
			Port:    "5432",
			SSLMode: "disable",
			Path:    "data/ledger.db",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Reconciliation: ReconciliationConfig{
			PerMinute: consts.DefaultReconcilePerMin,
			Burst:     consts.DefaultReconcileBurst,
		},
		Audit: AuditConfig{
			Interval:  "1h",
			Workers:   consts.DefaultWorkerNumber,
			BatchSize: consts.DefaultBatchSize,
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Later files override earlier ones
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("LEDGER_ENV"); env != "" {
		config.Environment = env
	}

	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("LEDGER_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if v := os.Getenv("DB_DRIVER"); v != "" {
		config.Database.Driver = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		config.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		config.Database.Port = v
	}
	if v := os.Getenv("DB_USER"); v != "" {
		config.Database.User = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		config.Database.Name = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		config.Database.Password = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		config.Database.Path = v
	}

	if v := os.Getenv("LEDGER_AUDIT_INTERVAL"); v != "" {
		config.Audit.Interval = v
	}
	if v := os.Getenv("LEDGER_AUDIT_AUTO_CORRECT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Audit.AutoCorrect = b
		}
	}
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite3":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Reconciliation.PerMinute <= 0 {
		c.Reconciliation.PerMinute = consts.DefaultReconcilePerMin
	}
	if c.Reconciliation.Burst <= 0 {
		c.Reconciliation.Burst = consts.DefaultReconcileBurst
	}
	if c.Audit.Workers <= 0 {
		c.Audit.Workers = consts.DefaultWorkerNumber
	}
	if c.Audit.BatchSize <= 0 {
		c.Audit.BatchSize = consts.DefaultBatchSize
	}
	return nil
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// LogLevel maps the configured level name to a gommon level.
func (c LoggingConfig) LogLevel() log.Lvl {
	switch strings.ToLower(c.Level) {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}

// ApplyLogging configures the package-level gommon logger.
func ApplyLogging(c LoggingConfig) {
	log.SetLevel(c.LogLevel())
	log.SetHeader("${time_rfc3339} ${level} ${short_file}:${line}")
}

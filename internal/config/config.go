// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host         string        `envconfig:"HOST" default:"0.0.0.0"`
	Port         int           `envconfig:"PORT" default:"8080"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout  time.Duration `envconfig:"IDLE_TIMEOUT" default:"60s"`
}

// DatabaseConfig holds PostgreSQL settings for the audit journal
type DatabaseConfig struct {
	Host            string        `envconfig:"HOST" default:"localhost"`
	Port            int           `envconfig:"PORT" default:"5432"`
	User            string        `envconfig:"USER" default:"airquality"`
	Password        string        `envconfig:"PASSWORD" default:"airquality"`
	Database        string        `envconfig:"NAME" default:"airquality"`
	SSLMode         string        `envconfig:"SSLMODE" default:"disable"`
	MaxOpenConns    int           `envconfig:"MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"CONN_MAX_LIFETIME" default:"30m"`
	ConnMaxIdleTime time.Duration `envconfig:"CONN_MAX_IDLE_TIME" default:"5m"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string `envconfig:"LEVEL" default:"info"`
}

// AuditConfig holds audit journal retention settings
type AuditConfig struct {
	RetentionDays int    `envconfig:"RETENTION_DAYS" default:"90"`
	PurgeSchedule string `envconfig:"PURGE_SCHEDULE" default:"0 3 * * *"`
}

// ImportConfig holds simulated import pipeline settings
type ImportConfig struct {
	TickInterval time.Duration `envconfig:"TICK_INTERVAL" default:"150ms"`
	StepPercent  int           `envconfig:"STEP_PERCENT" default:"10"`
}

// Config is the full service configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	Audit    AuditConfig
	Import   ImportConfig
}

// LoadConfig reads configuration from the environment. A .env file in the
// working directory is honored when present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	sections := []struct {
		prefix string
		target interface{}
	}{
		{"AQM_SERVER", &cfg.Server},
		{"AQM_DB", &cfg.Database},
		{"AQM_LOG", &cfg.Logging},
		{"AQM_AUDIT", &cfg.Audit},
		{"AQM_IMPORT", &cfg.Import},
	}

	for _, s := range sections {
		if err := envconfig.Process(s.prefix, s.target); err != nil {
			return nil, fmt.Errorf("failed to process %s configuration: %w", s.prefix, err)
		}
	}

	return &cfg, nil
}

// Validate checks configuration consistency
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Database.Port)
	}
	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("database max open connections must be positive, got %d", c.Database.MaxOpenConns)
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database max idle connections (%d) exceeds max open connections (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Logging.Level)
	}
	if c.Audit.RetentionDays < 1 {
		return fmt.Errorf("audit retention must be at least one day, got %d", c.Audit.RetentionDays)
	}
	if c.Import.TickInterval <= 0 {
		return fmt.Errorf("import tick interval must be positive, got %s", c.Import.TickInterval)
	}
	if c.Import.StepPercent < 1 || c.Import.StepPercent > 100 {
		return fmt.Errorf("import step percent must be between 1 and 100, got %d", c.Import.StepPercent)
	}
	return nil
}

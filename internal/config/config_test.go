package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 90, cfg.Audit.RetentionDays)
	assert.Equal(t, "0 3 * * *", cfg.Audit.PurgeSchedule)
	assert.Equal(t, 150*time.Millisecond, cfg.Import.TickInterval)
	assert.Equal(t, 10, cfg.Import.StepPercent)

	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("AQM_SERVER_PORT", "9090")
	t.Setenv("AQM_DB_HOST", "db.internal")
	t.Setenv("AQM_LOG_LEVEL", "debug")
	t.Setenv("AQM_AUDIT_RETENTION_DAYS", "30")
	t.Setenv("AQM_IMPORT_STEP_PERCENT", "25")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 30, cfg.Audit.RetentionDays)
	assert.Equal(t, 25, cfg.Import.StepPercent)
}

func TestLoadConfigRejectsMalformedValues(t *testing.T) {
	t.Setenv("AQM_SERVER_PORT", "not-a-port")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := LoadConfig()
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"server port out of range", func(c *Config) { c.Server.Port = 0 }, "invalid server port"},
		{"database port out of range", func(c *Config) { c.Database.Port = 70000 }, "invalid database port"},
		{"no open connections", func(c *Config) { c.Database.MaxOpenConns = 0 }, "max open connections"},
		{"idle exceeds open", func(c *Config) { c.Database.MaxIdleConns = 50 }, "exceeds max open"},
		{"unknown log level", func(c *Config) { c.Logging.Level = "verbose" }, "invalid log level"},
		{"retention too short", func(c *Config) { c.Audit.RetentionDays = 0 }, "audit retention"},
		{"zero tick interval", func(c *Config) { c.Import.TickInterval = 0 }, "tick interval"},
		{"step percent too large", func(c *Config) { c.Import.StepPercent = 101 }, "step percent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

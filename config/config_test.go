package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 5000
database:
  dsn: postgres://libraria@localhost/libraria
auth:
  secret: ` + testSecret + `
policy:
  loan_days: 21
  fine_per_day: "12.50"
  rounding: floor
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, 21, cfg.Policy.LoanDays)
	assert.Equal(t, "12.50", cfg.Policy.FinePerDay)
	assert.Equal(t, "floor", cfg.Policy.Rounding)
	// Defaults still apply to keys missing from the file.
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, "15m", cfg.Database.MaxIdleTime)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DSN", "postgres://libraria@localhost/libraria")
	t.Setenv("AUTHSECRET", testSecret)
	t.Setenv("LOANDAYS", "7")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, 7, cfg.Policy.LoanDays)
	assert.Equal(t, "50", cfg.Policy.FinePerDay)
	assert.Equal(t, "ceil", cfg.Policy.Rounding)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		var cfg Config
		cfg.Server.Port = 4000
		cfg.Database.DSN = "postgres://localhost"
		cfg.Database.MaxIdleTime = "15m"
		cfg.Auth.Secret = testSecret
		cfg.Policy.LoanDays = 14
		cfg.Policy.FinePerDay = "50"
		cfg.Policy.Rounding = "ceil"
		return cfg
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"missing dsn", func(c *Config) { c.Database.DSN = "" }},
		{"short secret", func(c *Config) { c.Auth.Secret = "short" }},
		{"zero loan days", func(c *Config) { c.Policy.LoanDays = 0 }},
		{"bad fine", func(c *Config) { c.Policy.FinePerDay = "fifty" }},
		{"negative fine", func(c *Config) { c.Policy.FinePerDay = "-1" }},
		{"unknown rounding", func(c *Config) { c.Policy.Rounding = "nearest" }},
		{"bad idle time", func(c *Config) { c.Database.MaxIdleTime = "soon" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

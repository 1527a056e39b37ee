package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/loans?sslmode=disable")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 26.5, cfg.Business.DefaultInterestRate)
	assert.True(t, cfg.GetMinPrincipal().Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, time.Minute, cfg.Business.AnalyticsCacheTTL)
	assert.Equal(t, 10, cfg.Business.DefaultPageSize)
	assert.Equal(t, 3, cfg.Scheduler.ReminderLookaheadDays)
	assert.Equal(t, "postgres://u:p@db:5432/loans?sslmode=disable", cfg.Database.DSN())
	assert.False(t, cfg.CloudinaryEnabled())
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DATABASE_HOST", "pg")
	t.Setenv("DATABASE_USER", "loan")
	t.Setenv("DATABASE_PASSWORD", "secret")
	t.Setenv("DATABASE_NAME", "ledger")
	t.Setenv("DEFAULT_INTEREST_RATE", "18")
	t.Setenv("ANALYTICS_CACHE_TTL", "0s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 18.0, cfg.Business.DefaultInterestRate)
	assert.Equal(t, time.Duration(0), cfg.Business.AnalyticsCacheTTL)
	assert.Equal(t, "postgres://loan:secret@pg:5432/ledger?sslmode=disable", cfg.Database.DSN())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: "8080", Env: "development"},
			Database:  DatabaseConfig{URL: "postgres://localhost/db"},
			Scheduler: SchedulerConfig{Timezone: "UTC", ReminderLookaheadDays: 3},
			Business: BusinessConfig{
				DefaultInterestRate: 26.5,
				MinPrincipal:        "1000",
				DefaultPageSize:     10,
				MaxPageSize:         100,
			},
			RateLimit: RateLimitConfig{RPS: 10, Burst: 20},
			Auth:      AuthConfig{TokenTTL: time.Hour, BcryptCost: 10},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing port", func(c *Config) { c.Server.Port = "" }, "SERVER_PORT"},
		{"missing database", func(c *Config) { c.Database.URL = "" }, "DATABASE_URL"},
		{"rate out of range", func(c *Config) { c.Business.DefaultInterestRate = 101 }, "DEFAULT_INTEREST_RATE"},
		{"bad min principal", func(c *Config) { c.Business.MinPrincipal = "abc" }, "MIN_PRINCIPAL"},
		{"page size", func(c *Config) { c.Business.MaxPageSize = 5 }, "DEFAULT_PAGE_SIZE"},
		{"timezone", func(c *Config) { c.Scheduler.Timezone = "Mars/Olympus" }, "SCHEDULER_TIMEZONE"},
		{"rate limit", func(c *Config) { c.RateLimit.Burst = 0 }, "RATE_LIMIT"},
		{"token ttl", func(c *Config) { c.Auth.TokenTTL = 0 }, "JWT_TOKEN_TTL"},
		{"bcrypt cost", func(c *Config) { c.Auth.BcryptCost = 2 }, "BCRYPT_COST"},
		{"production secret", func(c *Config) { c.Server.Env = "production" }, "JWT_SECRET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

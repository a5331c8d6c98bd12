package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "billbook", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, DriverPostgres, cfg.Database.Driver)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "billbook", cfg.Database.DBName)
		assert.Equal(t, "India", cfg.Invoice.HomeCountry)
		assert.Equal(t, "Gujarat", cfg.Invoice.HomeState)
		assert.Equal(t, "INR", cfg.Invoice.HomeCurrency)
		assert.True(t, decimal.RequireFromString("0.09").Equal(cfg.Invoice.IntraStateRate))
		assert.True(t, decimal.RequireFromString("0.18").Equal(cfg.Invoice.InterStateRate))
		assert.Equal(t, 3, cfg.Invoice.MaxAllocRetry)
		assert.Equal(t, "log", cfg.Mail.Driver)
		assert.Equal(t, 10*time.Minute, cfg.Cache.BalanceTTL)
		assert.Equal(t, 30*time.Second, cfg.HTTP.ShutdownTimeout)
		assert.True(t, cfg.Printing.PaperA4)
		assert.False(t, cfg.Telemetry.MetricsEnabled)
		assert.Equal(t, time.Minute, cfg.Telemetry.MetricsExportInterval)
		assert.Equal(t, 15*time.Second, cfg.Telemetry.DBPoolStatsInterval)
	})

	t.Run("loads values from environment variables with BILLBOOK prefix", func(t *testing.T) {
		t.Setenv("BILLBOOK_APP_PORT", "9000")
		t.Setenv("BILLBOOK_DATABASE_DRIVER", "MySQL")
		t.Setenv("BILLBOOK_DATABASE_HOST", "db.local")
		t.Setenv("BILLBOOK_INVOICE_HOME_STATE", "Karnataka")
		t.Setenv("BILLBOOK_INVOICE_INTRA_STATE_RATE", "0.06")
		t.Setenv("BILLBOOK_CACHE_BALANCE_TTL", "90s")
		t.Setenv("BILLBOOK_TELEMETRY_METRICS_ENABLED", "true")
		t.Setenv("BILLBOOK_TELEMETRY_METRICS_EXPORT_INTERVAL", "10s")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, DriverMySQL, cfg.Database.Driver)
		assert.Equal(t, 3306, cfg.Database.Port)
		assert.Equal(t, "Karnataka", cfg.Invoice.HomeState)
		assert.True(t, decimal.RequireFromString("0.06").Equal(cfg.Invoice.IntraStateRate))
		assert.Equal(t, 90*time.Second, cfg.Cache.BalanceTTL)
		assert.True(t, cfg.Telemetry.MetricsEnabled)
		assert.Equal(t, 10*time.Second, cfg.Telemetry.MetricsExportInterval)
	})

	t.Run("rejects malformed tax rate", func(t *testing.T) {
		t.Setenv("BILLBOOK_INVOICE_INTER_STATE_RATE", "eighteen")
		_, err := Load()
		assert.ErrorContains(t, err, "invoice.inter_state_rate")
	})
}

func validConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults are valid", func(c *Config) {}, ""},
		{"unknown driver", func(c *Config) { c.Database.Driver = "oracle" }, "database.driver"},
		{"idle above open", func(c *Config) { c.Database.MaxIdleConns = 100 }, "max_idle_conns"},
		{"rate above one", func(c *Config) { c.Invoice.InterStateRate = decimal.NewFromInt(18) }, "inter_state_rate"},
		{"negative rate", func(c *Config) { c.Invoice.IntraStateRate = decimal.NewFromInt(-1) }, "intra_state_rate"},
		{"smtp without host", func(c *Config) { c.Mail.Driver = "smtp" }, "mail.host"},
		{"lock without redis", func(c *Config) { c.Lock.Enabled = true }, "redis.enabled"},
		{"production short secret", func(c *Config) {
			c.App.Env = "production"
			c.JWT.Secret = "short"
		}, "at least 32"},
		{"production sqlite", func(c *Config) {
			c.App.Env = "production"
			c.JWT.Secret = "0123456789abcdef0123456789abcdef"
			c.Database.Driver = DriverSQLite
		}, "sqlite"},
		{"production wildcard cors", func(c *Config) {
			c.App.Env = "production"
			c.JWT.Secret = "0123456789abcdef0123456789abcdef"
			c.Database.Password = "secret"
			c.HTTP.CORSAllowOrigins = []string{"*"}
		}, "cors_allow_origins"},
		{"sampling ratio", func(c *Config) { c.Telemetry.SamplingRatio = 2 }, "sampling_ratio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	pg := DatabaseConfig{Driver: DriverPostgres, User: "u", Password: "p@ss", Host: "h", Port: 5432, DBName: "db", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss@h:5432/db?TimeZone=UTC&sslmode=disable", pg.DSN())

	my := DatabaseConfig{Driver: DriverMySQL, User: "u", Password: "p", Host: "h", Port: 3306, DBName: "db"}
	assert.Equal(t, "u:p@tcp(h:3306)/db?charset=utf8mb4&parseTime=True&loc=UTC", my.DSN())

	mem := DatabaseConfig{Driver: DriverSQLite}
	assert.Equal(t, "file::memory:?cache=shared", mem.DSN())
	file := DatabaseConfig{Driver: DriverSQLite, DBName: "/tmp/bb.db"}
	assert.Equal(t, "/tmp/bb.db", file.DSN())
}

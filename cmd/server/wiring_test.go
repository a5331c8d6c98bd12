package main

import (
	"context"
	"testing"
	"time"

	"github.com/billbook/backend/internal/domain/shared/valueobject"
	"github.com/billbook/backend/internal/infrastructure/config"
	"github.com/billbook/backend/internal/infrastructure/printing"
	"github.com/billbook/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

// ============ Pricer Tests ============

func TestPricerFrom(t *testing.T) {
	t.Run("empty config keeps the standard rates", func(t *testing.T) {
		pricer, err := pricerFrom(config.InvoiceConfig{})
		require.NoError(t, err)
		assert.Equal(t, "Gujarat", pricer.Tax.HomeState)
		assert.True(t, decimal.RequireFromString("0.09").Equal(pricer.Tax.IntraStateRate))
		assert.True(t, decimal.RequireFromString("0.18").Equal(pricer.Tax.InterStateRate))
		assert.Equal(t, valueobject.INR, pricer.Currency.HomeCurrency)
	})

	t.Run("overrides", func(t *testing.T) {
		pricer, err := pricerFrom(config.InvoiceConfig{
			HomeState:      "Maharashtra",
			HomeCurrency:   "usd",
			IntraStateRate: decimal.RequireFromString("0.06"),
			InterStateRate: decimal.RequireFromString("0.12"),
		})
		require.NoError(t, err)
		assert.Equal(t, "India", pricer.Tax.HomeCountry)
		assert.Equal(t, "Maharashtra", pricer.Tax.HomeState)
		assert.True(t, decimal.RequireFromString("0.06").Equal(pricer.Tax.IntraStateRate))
		assert.True(t, decimal.RequireFromString("0.12").Equal(pricer.Tax.InterStateRate))
		assert.Equal(t, valueobject.USD, pricer.Currency.HomeCurrency)
	})

	t.Run("bad currency", func(t *testing.T) {
		_, err := pricerFrom(config.InvoiceConfig{HomeCurrency: "rupees"})
		assert.Error(t, err)
	})
}

// ============ Config Mapping Tests ============

func TestLoggerConfig(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Name: "billbook", Env: "production"}}
	lc := loggerConfig(cfg)
	assert.Equal(t, "json", lc.Format)
	assert.Equal(t, "info", lc.Level)
	assert.Equal(t, "billbook", lc.Service)

	cfg.Log = config.LogConfig{Level: "warn", Format: "console", Output: "stderr"}
	lc = loggerConfig(cfg)
	assert.Equal(t, "warn", lc.Level)
	assert.Equal(t, "console", lc.Format)
	assert.Equal(t, "stderr", lc.Output)
}

func TestTelemetryConfig(t *testing.T) {
	cfg := &config.Config{
		App:       config.AppConfig{Name: "billbook", Env: "staging"},
		Database:  config.DatabaseConfig{Driver: config.DriverPostgres},
		Telemetry: config.TelemetryConfig{Enabled: true, DBTraceEnabled: true, DBSlowQueryThresh: time.Second},
	}

	tc := telemetryConfig(cfg, "1.2.3")
	assert.Equal(t, "billbook", tc.ServiceName, "service name falls back to the app name")
	assert.Equal(t, "1.2.3", tc.ServiceVersion)

	db := dbTracingConfig(cfg)
	assert.True(t, db.Enabled)
	assert.Equal(t, "postgresql", db.DBSystem)
	assert.Equal(t, time.Second, db.SlowQueryThresh)
	assert.False(t, db.LogFullSQL)

	cfg.Telemetry.Enabled = false
	assert.False(t, dbTracingConfig(cfg).Enabled, "db tracing needs tracing")
}

func TestMetricsConfig(t *testing.T) {
	cfg := &config.Config{
		App: config.AppConfig{Name: "billbook"},
		Telemetry: config.TelemetryConfig{
			CollectorEndpoint:     "otel:4317",
			Insecure:              true,
			MetricsEnabled:        true,
			MetricsExportInterval: 10 * time.Second,
			DBMetricsEnabled:      true,
			DBSlowQueryThresh:     time.Second,
			DBPoolStatsInterval:   5 * time.Second,
		},
	}

	mc := metricsConfig(cfg, "1.2.3")
	assert.True(t, mc.Enabled)
	assert.Equal(t, "otel:4317", mc.CollectorEndpoint)
	assert.Equal(t, 10*time.Second, mc.ExportInterval)
	assert.Equal(t, "billbook", mc.ServiceName)
	assert.Equal(t, "1.2.3", mc.ServiceVersion)
	assert.True(t, mc.Insecure)

	dm := dbMetricsConfig(cfg)
	assert.True(t, dm.Enabled)
	assert.Equal(t, time.Second, dm.SlowQueryThreshold)
	assert.Equal(t, 5*time.Second, dm.PoolStatsInterval)

	cfg.Telemetry.MetricsEnabled = false
	assert.False(t, dbMetricsConfig(cfg).Enabled, "db metrics need metrics")
}

func TestInvoiceMetrics(t *testing.T) {
	assert.Nil(t, invoiceMetrics(nil, zap.NewNop()))

	mp := telemetry.NewMeterProviderWithReader(sdkmetric.NewManualReader(), zap.NewNop())
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	assert.NotNil(t, invoiceMetrics(mp, zap.NewNop()))
}

func TestPaperFrom(t *testing.T) {
	assert.Equal(t, printing.PaperA4, paperFrom(config.PrintingConfig{PaperA4: true}))
	assert.Equal(t, printing.PaperLetter, paperFrom(config.PrintingConfig{}))
}

// ============ Rate Limiter Tests ============

func TestRateLimiters_InMemory(t *testing.T) {
	global, auth, stop := rateLimiters(nil, config.HTTPConfig{RateLimitRequests: 100, RateLimitWindow: time.Minute})
	defer stop()

	assert.Equal(t, 100, global.Limit())
	assert.Equal(t, 10, auth.Limit())

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		ok, _, err := auth.Allow(ctx, "ip:10.0.0.1")
		require.NoError(t, err)
		require.True(t, ok)
	}
	ok, _, err := auth.Allow(ctx, "ip:10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRateLimiters_AuthLimitFloor(t *testing.T) {
	_, auth, stop := rateLimiters(nil, config.HTTPConfig{RateLimitRequests: 5, RateLimitWindow: time.Minute})
	defer stop()
	assert.Equal(t, 1, auth.Limit())
}

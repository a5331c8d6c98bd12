package main

import (
	"context"
	"fmt"

	appinvoicing "github.com/billbook/backend/internal/application/invoicing"
	"github.com/billbook/backend/internal/domain/invoicing"
	"github.com/billbook/backend/internal/domain/shared/valueobject"
	"github.com/billbook/backend/internal/infrastructure/config"
	"github.com/billbook/backend/internal/infrastructure/logger"
	"github.com/billbook/backend/internal/infrastructure/printing"
	"github.com/billbook/backend/internal/infrastructure/telemetry"
	"github.com/billbook/backend/internal/interfaces/http/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// authRateLimitDivisor tightens the limit on credential and OTP endpoints
const authRateLimitDivisor = 10

// loggerConfig maps the log settings onto the logger, falling back to the
// environment defaults for anything left empty.
func loggerConfig(cfg *config.Config) logger.Config {
	lc := logger.ConfigForEnvironment(cfg.App.Env)
	if cfg.Log.Level != "" {
		lc.Level = cfg.Log.Level
	}
	if cfg.Log.Format != "" {
		lc.Format = cfg.Log.Format
	}
	if cfg.Log.Output != "" {
		lc.Output = cfg.Log.Output
	}
	lc.Service = cfg.App.Name
	return lc
}

func telemetryConfig(cfg *config.Config, version string) telemetry.Config {
	name := cfg.Telemetry.ServiceName
	if name == "" {
		name = cfg.App.Name
	}
	return telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       name,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}
}

func dbTracingConfig(cfg *config.Config) telemetry.DBTracingConfig {
	return telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBSystem:        telemetry.DBSystemForDriver(cfg.Database.Driver),
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		LogFullSQL:      cfg.App.Env == "development",
	}
}

func metricsConfig(cfg *config.Config, version string) telemetry.MetricsConfig {
	tc := telemetryConfig(cfg, version)
	return telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: tc.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsExportInterval,
		ServiceName:       tc.ServiceName,
		ServiceVersion:    version,
		Insecure:          tc.Insecure,
	}
}

func dbMetricsConfig(cfg *config.Config) telemetry.DBMetricsConfig {
	return telemetry.DBMetricsConfig{
		Enabled:            cfg.Telemetry.MetricsEnabled && cfg.Telemetry.DBMetricsEnabled,
		SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
		PoolStatsInterval:  cfg.Telemetry.DBPoolStatsInterval,
	}
}

// invoiceMetrics returns nil, leaving the service on its no-op recorder,
// when metrics are off
func invoiceMetrics(mp *telemetry.MeterProvider, log *zap.Logger) appinvoicing.Metrics {
	if !mp.IsEnabled() {
		return nil
	}
	m, err := telemetry.NewInvoiceMetrics(mp.Meter("billbook.invoicing"))
	if err != nil {
		log.Error("Failed to create invoice metrics", zap.Error(err))
		return nil
	}
	return m
}

// pricerFrom builds the GST pricer for the configured seller home
func pricerFrom(cfg config.InvoiceConfig) (invoicing.Pricer, error) {
	pricer := invoicing.NewPricer()
	if cfg.HomeCountry != "" {
		pricer.Tax.HomeCountry = cfg.HomeCountry
	}
	if cfg.HomeState != "" {
		pricer.Tax.HomeState = cfg.HomeState
	}
	if !cfg.IntraStateRate.IsZero() {
		pricer.Tax.IntraStateRate = cfg.IntraStateRate
	}
	if !cfg.InterStateRate.IsZero() {
		pricer.Tax.InterStateRate = cfg.InterStateRate
	}
	if cfg.HomeCurrency != "" {
		currency, err := valueobject.ParseCurrency(cfg.HomeCurrency)
		if err != nil {
			return invoicing.Pricer{}, fmt.Errorf("invoice.home_currency: %w", err)
		}
		pricer.Currency.HomeCurrency = currency
	}
	return pricer, nil
}

func paperFrom(cfg config.PrintingConfig) printing.Paper {
	if cfg.PaperA4 {
		return printing.PaperA4
	}
	return printing.PaperLetter
}

// newPrinter builds the headless Chrome invoice printer. The browser itself
// starts on the first print.
func newPrinter(cfg config.PrintingConfig, pricer invoicing.Pricer, log *zap.Logger) (*printing.InvoicePrinter, error) {
	var (
		tmpl *printing.InvoiceTemplate
		err  error
	)
	if cfg.TemplatePath != "" {
		tmpl, err = printing.LoadInvoiceTemplate(cfg.TemplatePath)
	} else {
		tmpl, err = printing.NewInvoiceTemplate()
	}
	if err != nil {
		return nil, fmt.Errorf("invoice template: %w", err)
	}

	renderer, err := printing.NewChromedpRenderer(printing.ChromedpConfigFrom(cfg, log))
	if err != nil {
		return nil, fmt.Errorf("pdf renderer: %w", err)
	}
	return printing.NewInvoicePrinter(tmpl, renderer, pricer, paperFrom(cfg), log), nil
}

// rateLimiters returns the global limiter and the stricter one guarding the
// auth endpoints. A nil client keeps the counters in process memory.
func rateLimiters(client redis.UniversalClient, cfg config.HTTPConfig) (global, auth middleware.Limiter, stop func()) {
	authLimit := cfg.RateLimitRequests / authRateLimitDivisor
	if authLimit < 1 {
		authLimit = 1
	}

	if client != nil {
		return middleware.NewRedisRateLimiter(client, "ratelimit:api:", cfg.RateLimitRequests, cfg.RateLimitWindow),
			middleware.NewRedisRateLimiter(client, "ratelimit:auth:", authLimit, cfg.RateLimitWindow),
			func() {}
	}

	g := middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	a := middleware.NewRateLimiter(authLimit, cfg.RateLimitWindow)
	return g, a, func() {
		g.Stop()
		a.Stop()
	}
}

// redisCheck adapts a Redis client to a health check
func redisCheck(client redis.UniversalClient) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}

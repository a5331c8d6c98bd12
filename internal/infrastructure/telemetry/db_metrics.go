package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBMetricsConfig holds configuration for database metrics collection.
type DBMetricsConfig struct {
	Enabled            bool
	SlowQueryThreshold time.Duration
	PoolStatsInterval  time.Duration
}

// DBMetrics records query counts, latency and connection pool usage
type DBMetrics struct {
	poolConnections    *Gauge
	poolConnectionsMax *Gauge
	queryTotal         *Counter
	queryErrors        *Counter
	queryDuration      *Histogram
	slowQueryTotal     *Counter

	config   DBMetricsConfig
	logger   *zap.Logger
	sqlDB    *sql.DB
	stopCh   chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewDBMetrics creates the database instruments on meter.
func NewDBMetrics(meter metric.Meter, cfg DBMetricsConfig, logger *zap.Logger) (*DBMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SlowQueryThreshold <= 0 {
		cfg.SlowQueryThreshold = 200 * time.Millisecond
	}
	if cfg.PoolStatsInterval <= 0 {
		cfg.PoolStatsInterval = 15 * time.Second
	}

	m := &DBMetrics{config: cfg, logger: logger, stopCh: make(chan struct{})}
	var err error
	if m.poolConnections, err = NewGauge(meter, "db_pool_connections",
		"Number of connections in the pool by state", "{connection}"); err != nil {
		return nil, err
	}
	if m.poolConnectionsMax, err = NewGauge(meter, "db_pool_connections_max",
		"Maximum number of open connections", "{connection}"); err != nil {
		return nil, err
	}
	if m.queryTotal, err = NewCounter(meter, "db_query_total",
		"Database queries by operation", "{query}"); err != nil {
		return nil, err
	}
	if m.queryErrors, err = NewCounter(meter, "db_query_errors_total",
		"Database queries that failed, excluding not-found lookups", "{query}"); err != nil {
		return nil, err
	}
	if m.queryDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "db_query_duration_seconds",
		Description: "Database query latency in seconds",
		Unit:        "s",
		Boundaries:  DBDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.slowQueryTotal, err = NewCounter(meter, "db_slow_query_total",
		"Database queries slower than the configured threshold", "{query}"); err != nil {
		return nil, err
	}
	return m, nil
}

// StartPoolStatsCollection samples sqlDB.Stats every PoolStatsInterval until
// Stop is called or ctx ends.
func (m *DBMetrics) StartPoolStatsCollection(ctx context.Context, sqlDB *sql.DB) {
	m.sqlDB = sqlDB
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.config.PoolStatsInterval)
		defer ticker.Stop()

		m.collectPoolStats(ctx)
		for {
			select {
			case <-ticker.C:
				m.collectPoolStats(ctx)
			case <-m.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (m *DBMetrics) collectPoolStats(ctx context.Context) {
	if m.sqlDB == nil {
		return
	}
	stats := m.sqlDB.Stats()
	m.poolConnectionsMax.Record(ctx, int64(stats.MaxOpenConnections))
	m.poolConnections.Record(ctx, int64(stats.Idle), AttrDBState.String("idle"))
	m.poolConnections.Record(ctx, int64(stats.InUse), AttrDBState.String("in_use"))
	m.poolConnections.Record(ctx, int64(stats.OpenConnections), AttrDBState.String("open"))
}

// Stop ends pool stats collection. Safe to call more than once.
func (m *DBMetrics) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
		m.wg.Wait()
	})
}

// RecordQuery records one finished statement.
func (m *DBMetrics) RecordQuery(ctx context.Context, operation, table string, duration time.Duration, err error) {
	operation = strings.ToUpper(operation)
	if operation == "" {
		operation = "OTHER"
	}
	if table == "" {
		table = "unknown"
	}

	m.queryTotal.Inc(ctx, AttrDBOperation.String(operation), AttrDBTable.String(table))
	m.queryDuration.RecordDuration(ctx, duration, AttrDBOperation.String(operation))
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		m.queryErrors.Inc(ctx, AttrDBOperation.String(operation), AttrDBTable.String(table))
	}
	if duration > m.config.SlowQueryThreshold {
		m.slowQueryTotal.Inc(ctx, AttrDBTable.String(table))
	}
}

type metricsStartKey struct{}

// dbMetricsPlugin feeds GORM statements into DBMetrics
type dbMetricsPlugin struct {
	metrics *DBMetrics
}

func (p *dbMetricsPlugin) Name() string {
	return "billbook:db_metrics"
}

func (p *dbMetricsPlugin) Initialize(db *gorm.DB) error {
	before := func(tx *gorm.DB) {
		ctx := tx.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}
		tx.Statement.Context = context.WithValue(ctx, metricsStartKey{}, time.Now())
	}
	after := func(operation string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			op := operation
			if op == "" {
				op = detectOperation(tx.Statement.SQL.String())
			}
			p.record(tx, op)
		}
	}

	cb := db.Callback()
	if err := cb.Create().Before("gorm:create").Register("db_metrics:before_create", before); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("db_metrics:after_create", after("INSERT")); err != nil {
		return err
	}
	if err := cb.Query().Before("gorm:query").Register("db_metrics:before_query", before); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("db_metrics:after_query", after("SELECT")); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("db_metrics:before_update", before); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("db_metrics:after_update", after("UPDATE")); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("db_metrics:before_delete", before); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("db_metrics:after_delete", after("DELETE")); err != nil {
		return err
	}
	if err := cb.Row().Before("gorm:row").Register("db_metrics:before_row", before); err != nil {
		return err
	}
	if err := cb.Row().After("gorm:row").Register("db_metrics:after_row", after("")); err != nil {
		return err
	}
	if err := cb.Raw().Before("gorm:raw").Register("db_metrics:before_raw", before); err != nil {
		return err
	}
	return cb.Raw().After("gorm:raw").Register("db_metrics:after_raw", after(""))
}

func (p *dbMetricsPlugin) record(tx *gorm.DB, operation string) {
	ctx := tx.Statement.Context
	if ctx == nil {
		ctx = context.Background()
	}
	var elapsed time.Duration
	if start, ok := ctx.Value(metricsStartKey{}).(time.Time); ok {
		elapsed = time.Since(start)
	}
	p.metrics.RecordQuery(ctx, operation, tx.Statement.Table, elapsed, tx.Error)
}

func detectOperation(statement string) string {
	statement = strings.ToUpper(strings.TrimSpace(statement))
	for _, op := range []string{"SELECT", "INSERT", "UPDATE", "DELETE"} {
		if strings.HasPrefix(statement, op) {
			return op
		}
	}
	return "OTHER"
}

// RegisterDBMetrics installs the query metrics plugin on db and starts
// sampling its connection pool. It returns nil when metrics are off; call
// Stop on the result at shutdown.
func RegisterDBMetrics(ctx context.Context, db *gorm.DB, mp *MeterProvider, cfg DBMetricsConfig, logger *zap.Logger) (*DBMetrics, error) {
	if !cfg.Enabled || !mp.IsEnabled() {
		logger.Debug("Database metrics disabled")
		return nil, nil
	}

	metrics, err := NewDBMetrics(mp.Meter("db.client"), cfg, logger)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := db.Use(&dbMetricsPlugin{metrics: metrics}); err != nil {
		return nil, err
	}
	metrics.StartPoolStatsCollection(ctx, sqlDB)

	logger.Info("Database metrics registered",
		zap.Duration("slow_query_threshold", metrics.config.SlowQueryThreshold),
		zap.Duration("pool_stats_interval", metrics.config.PoolStatsInterval),
	)
	return metrics, nil
}

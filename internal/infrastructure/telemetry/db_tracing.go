package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled         bool
	DBSystem        string        // postgresql, mysql, sqlite
	SlowQueryThresh time.Duration // spans above this are flagged db.slow_query
	LogFullSQL      bool          // keep bound variables in span statements
}

// DBSystemForDriver maps a database.driver setting to the semconv db.system value.
func DBSystemForDriver(driver string) string {
	switch driver {
	case "postgres":
		return "postgresql"
	default:
		return driver
	}
}

type queryStartKey struct{}

// RegisterDBTracing installs the otelgorm plugin plus callbacks that flag
// slow statements and record errors on the statement span.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBSystem)}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	before := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartKey{}, time.Now())
		}
	}
	after := func(tx *gorm.DB) { annotateSpan(tx, cfg.SlowQueryThresh) }

	cb := db.Callback()
	if err := cb.Create().Before("gorm:create").Register("billbook:before_create", before); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("billbook:after_create", after); err != nil {
		return err
	}
	if err := cb.Query().Before("gorm:query").Register("billbook:before_query", before); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("billbook:after_query", after); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("billbook:before_update", before); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("billbook:after_update", after); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("billbook:before_delete", before); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("billbook:after_delete", after); err != nil {
		return err
	}

	logger.Info("Database tracing enabled",
		zap.String("db_system", cfg.DBSystem),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThresh),
	)
	return nil
}

func annotateSpan(tx *gorm.DB, threshold time.Duration) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	if tx.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", tx.Statement.Table))
	}
	span.SetAttributes(attribute.Int64("db.rows_affected", tx.Statement.RowsAffected))

	if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, tx.Error.Error())
		span.RecordError(tx.Error)
	}

	if start, ok := ctx.Value(queryStartKey{}).(time.Time); ok {
		if elapsed := time.Since(start); elapsed > threshold {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
		}
	}
}

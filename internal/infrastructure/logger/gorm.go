package logger

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DefaultSlowQuery is the threshold above which a statement is logged at warn
const DefaultSlowQuery = 200 * time.Millisecond

// credentialTables hold password hashes and reset codes. Statements touching
// them are logged with their literals masked.
var credentialTables = []string{"users", "password_reset_otps"}

var sqlLiteral = regexp.MustCompile(`'(?:[^']|'')*'`)

// GormLogger routes GORM statements into zap under the "gorm" name, tagged
// with the request and user from the context.
type GormLogger struct {
	logger        *zap.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
	logNotFound   bool
}

// GormLoggerOption configures a GormLogger
type GormLoggerOption func(*GormLogger)

// WithSlowThreshold overrides DefaultSlowQuery. Zero turns slow logging off.
func WithSlowThreshold(threshold time.Duration) GormLoggerOption {
	return func(l *GormLogger) { l.slowThreshold = threshold }
}

// WithIgnoreRecordNotFoundError controls whether lookups that found nothing
// are logged. They are ignored by default since every GET by id does one.
func WithIgnoreRecordNotFoundError(ignore bool) GormLoggerOption {
	return func(l *GormLogger) { l.logNotFound = !ignore }
}

func NewGormLogger(zapLogger *zap.Logger, level gormlogger.LogLevel, opts ...GormLoggerOption) *GormLogger {
	gl := &GormLogger{
		logger:        zapLogger.Named("gorm"),
		level:         level,
		slowThreshold: DefaultSlowQuery,
	}
	for _, opt := range opts {
		opt(gl)
	}
	return gl
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Info {
		l.logger.With(l.contextFields(ctx)...).Sugar().Infof(msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Warn {
		l.logger.With(l.contextFields(ctx)...).Sugar().Warnf(msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Error {
		l.logger.With(l.contextFields(ctx)...).Sugar().Errorf(msg, data...)
	}
}

// Trace logs one executed statement. Failures go to error, except missing
// rows and duplicate keys: the number allocator retries on the latter, so
// both are kept at debug.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	notFound := errors.Is(err, gormlogger.ErrRecordNotFound)
	slow := l.slowThreshold > 0 && elapsed > l.slowThreshold

	switch {
	case err != nil && l.level >= gormlogger.Error:
		if notFound && !l.logNotFound {
			return
		}
		fields := append(l.statementFields(ctx, elapsed, fc), zap.Error(err))
		if notFound || errors.Is(err, gorm.ErrDuplicatedKey) {
			l.logger.Debug("query failed", fields...)
			return
		}
		l.logger.Error("query failed", fields...)

	case slow && l.level >= gormlogger.Warn:
		fields := append(l.statementFields(ctx, elapsed, fc), zap.Duration("threshold", l.slowThreshold))
		l.logger.Warn("slow query", fields...)

	case l.level >= gormlogger.Info:
		l.logger.Debug("query", l.statementFields(ctx, elapsed, fc)...)
	}
}

func (l *GormLogger) statementFields(ctx context.Context, elapsed time.Duration, fc func() (string, int64)) []zap.Field {
	sql, rows := fc()
	fields := []zap.Field{
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", RedactSQL(sql)),
	}
	return append(fields, l.contextFields(ctx)...)
}

func (l *GormLogger) contextFields(ctx context.Context) []zap.Field {
	var fields []zap.Field
	if requestID := RequestID(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	if userID := UserID(ctx); userID != "" {
		fields = append(fields, zap.String("user_id", userID))
	}
	return fields
}

// RedactSQL masks the string literals of statements against the credential
// tables. Other statements are returned unchanged.
func RedactSQL(sql string) string {
	lower := strings.ToLower(sql)
	for _, table := range credentialTables {
		if strings.Contains(lower, `"`+table+`"`) || strings.Contains(lower, " "+table+" ") || strings.HasSuffix(lower, " "+table) {
			return sqlLiteral.ReplaceAllString(sql, "'***'")
		}
	}
	return sql
}

// MapGormLogLevel maps the application log level to a GORM log level.
// Statements are only traced at debug.
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

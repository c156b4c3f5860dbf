package logging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger routes gorm's logger through slog.
// SQL traces go out at debug, slow queries at warn, failures at error.
type GormLogger struct {
	logger        *slog.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

var _ gormlogger.Interface = (*GormLogger)(nil)

// NewGormLogger adapts logger for gorm. SQL traces are on when logger has
// debug enabled. A zero slowThreshold disables slow query warnings.
func NewGormLogger(logger *slog.Logger, slowThreshold time.Duration) *GormLogger {
	if logger == nil {
		logger = slog.Default()
	}
	level := gormlogger.Warn
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		level = gormlogger.Info
	}
	return &GormLogger{
		logger:        logger,
		level:         level,
		slowThreshold: slowThreshold,
	}
}

// LogMode returns a copy of the logger at the requested level.
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	next := *l
	next.level = level
	return &next
}

func (l *GormLogger) Info(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Info {
		FromContext(ctx, l.logger).InfoContext(ctx, fmt.Sprintf(msg, args...))
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Warn {
		FromContext(ctx, l.logger).WarnContext(ctx, fmt.Sprintf(msg, args...))
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Error {
		FromContext(ctx, l.logger).ErrorContext(ctx, fmt.Sprintf(msg, args...))
	}
}

// Trace logs a finished statement.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	logger := FromContext(ctx, l.logger)
	sql, rows := fc()
	attrs := []any{
		slog.String(FieldSQL, sql),
		slog.Int64(FieldRows, rows),
		slog.Int64(FieldDurationMS, elapsed.Milliseconds()),
	}

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= gormlogger.Error:
		logger.ErrorContext(ctx, "query failed", append(attrs, "error", err)...)
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		logger.WarnContext(ctx, "slow query", attrs...)
	case l.level >= gormlogger.Info:
		logger.DebugContext(ctx, "query", attrs...)
	}
}

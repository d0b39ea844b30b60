package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ZapLogger sends gorm's logs to zap.
type ZapLogger struct {
	l             *zap.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

func NewZapLogger(l *zap.Logger, slowThreshold time.Duration) *ZapLogger {
	return &ZapLogger{
		l:             l.WithOptions(zap.AddCallerSkip(3)),
		level:         gormlogger.Warn,
		slowThreshold: slowThreshold,
	}
}

func (z *ZapLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *z
	clone.level = level
	return &clone
}

func (z *ZapLogger) Info(_ context.Context, msg string, args ...any) {
	if z.level >= gormlogger.Info {
		z.l.Info(fmt.Sprintf(msg, args...))
	}
}

func (z *ZapLogger) Warn(_ context.Context, msg string, args ...any) {
	if z.level >= gormlogger.Warn {
		z.l.Warn(fmt.Sprintf(msg, args...))
	}
}

func (z *ZapLogger) Error(_ context.Context, msg string, args ...any) {
	if z.level >= gormlogger.Error {
		z.l.Error(fmt.Sprintf(msg, args...))
	}
}

func (z *ZapLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if z.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && z.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		z.l.Error("query failed", zap.Error(err), zap.Duration("elapsed", elapsed), zap.Int64("rows", rows), zap.String("sql", sql))
	case z.slowThreshold != 0 && elapsed > z.slowThreshold && z.level >= gormlogger.Warn:
		sql, rows := fc()
		z.l.Warn("slow query", zap.Duration("elapsed", elapsed), zap.Int64("rows", rows), zap.String("sql", sql))
	case z.level >= gormlogger.Info:
		sql, rows := fc()
		z.l.Debug("query", zap.Duration("elapsed", elapsed), zap.Int64("rows", rows), zap.String("sql", sql))
	}
}

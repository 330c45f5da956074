// Package logging builds the service's zap.Logger: JSON in production,
// console in development, level parsed from a string.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap.Logger at the given level ("debug", "info", "warn",
// "error"). An unrecognized level falls back to info rather than erroring,
// since a bad log-level string shouldn't prevent the service from
// starting.
func New(level string, development bool) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build: %w", err)
	}
	return logger, nil
}

// QueryLogger adapts a *zap.Logger for slow-query logging around raw SQL
// calls, the same role the teacher's zapGORMLogger plays around gorm's own
// query lifecycle, just without a gorm-specific interface to satisfy. No
// package in this module calls it; the store and engines log nothing per
// query.
type QueryLogger struct {
	log       *zap.Logger
	slowAfter int64 // milliseconds
}

// NewQueryLogger builds a QueryLogger that flags queries taking
// slowAfterMillis or longer at Warn instead of Debug.
func NewQueryLogger(log *zap.Logger, slowAfterMillis int64) *QueryLogger {
	return &QueryLogger{log: log, slowAfter: slowAfterMillis}
}

// Log records one executed statement and its elapsed time in
// milliseconds.
func (q *QueryLogger) Log(sql string, elapsedMillis int64, err error) {
	fields := []zap.Field{
		zap.String("sql", sql),
		zap.Int64("elapsed_ms", elapsedMillis),
	}
	if err != nil {
		q.log.Error("query failed", append(fields, zap.Error(err))...)
		return
	}
	if elapsedMillis >= q.slowAfter {
		q.log.Warn("slow query", fields...)
		return
	}
	q.log.Debug("query", fields...)
}

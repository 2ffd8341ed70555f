// Package ormzap adapts a zap logger to the orm.Logger interface, so that
// orm.DB.Debug can emit structured query logs.
package ormzap

import (
	"context"

	"go.uber.org/zap"

	"github.com/scohe001/foreign-keys/orm"
)

// Logger logs queries at debug level with the SQL text and its arguments
// as structured fields.
type Logger struct {
	l *zap.Logger
}

// New wraps a *zap.Logger.
func New(l *zap.Logger) *Logger {
	return &Logger{l: l}
}

var _ orm.Logger = (*Logger)(nil)

// Log implements orm.Logger.
func (z *Logger) Log(_ context.Context, query string, args ...any) {
	z.l.Debug("query",
		zap.String("sql", query),
		zap.Any("args", args),
	)
}

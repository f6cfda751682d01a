// Package zapadapter adapts a zap logger to the engine's Logger interface,
// for users who want structured logging without implementing the interface
// themselves.
package zapadapter

import (
	"go.uber.org/zap"
)

// Logger implements postgresengine.Logger on top of a zap.SugaredLogger,
// passing the engine's key-value argument pairs through unchanged.
type Logger struct {
	sugar *zap.SugaredLogger
}

// New creates a Logger from a zap.Logger.
func New(logger *zap.Logger) *Logger {
	return &Logger{sugar: logger.Sugar()}
}

// NewNop creates a Logger that discards everything, useful in tests.
func NewNop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

// Debug logs a message with key-value pairs at debug level.
func (l *Logger) Debug(msg string, args ...any) {
	l.sugar.Debugw(msg, args...)
}

// Info logs a message with key-value pairs at info level.
func (l *Logger) Info(msg string, args ...any) {
	l.sugar.Infow(msg, args...)
}

// Warn logs a message with key-value pairs at warn level.
func (l *Logger) Warn(msg string, args ...any) {
	l.sugar.Warnw(msg, args...)
}

// Error logs a message with key-value pairs at error level.
func (l *Logger) Error(msg string, args ...any) {
	l.sugar.Errorw(msg, args...)
}

package postgresengine

import (
	"github.com/libtrack/recordstore-go/recordstore"
)

// Logger interface for SQL query logging, operational metrics, warnings, and error reporting.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type settings struct {
	tableName string
	logger    Logger
}

// Option defines a functional option for configuring a Repository or a UnitOfWork.
type Option func(*settings) error

// WithTableName overrides the table name declared by the schema.
func WithTableName(tableName string) Option {
	return func(s *settings) error {
		if tableName == "" {
			return recordstore.ErrEmptyTableName
		}

		s.tableName = tableName

		return nil
	}
}

// WithLogger sets the logger.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL queries with execution timing (development use)
// Info level: Operation outcomes with row counts and durations (production-safe)
// Warn level: Non-critical issues like cleanup failures
// Error level: Critical failures that cause operation failures.
func WithLogger(logger Logger) Option {
	return func(s *settings) error {
		s.logger = logger
		return nil
	}
}

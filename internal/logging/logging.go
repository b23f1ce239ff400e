// Package logging provides the application logger.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a zap sugared logger behind the surface the rest of the
// application uses: a message plus alternating key/value pairs.
type Logger struct {
	s *zap.SugaredLogger
}

// NewLogger creates a production logger writing JSON to stdout.
func NewLogger() *Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stdout"}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	z, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		z = zap.NewNop()
	}
	return &Logger{s: z.Sugar()}
}

// NewNopLogger creates a logger that discards everything, for tests.
func NewNopLogger() *Logger {
	return &Logger{s: zap.NewNop().Sugar()}
}

// Info logs an informational message.
func (l *Logger) Info(msg string, kv ...interface{}) {
	l.s.Infow(msg, kv...)
}

// Warn logs a warning.
func (l *Logger) Warn(msg string, kv ...interface{}) {
	l.s.Warnw(msg, kv...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, kv ...interface{}) {
	l.s.Errorw(msg, kv...)
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, kv ...interface{}) {
	l.s.Debugw(msg, kv...)
}

// Sync flushes buffered log entries.
func (l *Logger) Sync() error {
	return l.s.Sync()
}

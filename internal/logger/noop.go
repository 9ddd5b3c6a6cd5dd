package logger

// NoOpLogger is a logger that does nothing. Useful in tests.
type NoOpLogger struct{}

// NewNoOp creates a new no-op logger instance.
func NewNoOp() Interface {
	return &NoOpLogger{}
}

// Debug logs a debug message.
func (l *NoOpLogger) Debug(msg string, fields ...any) {}

// Info logs an info message.
func (l *NoOpLogger) Info(msg string, fields ...any) {}

// Warn logs a warning message.
func (l *NoOpLogger) Warn(msg string, fields ...any) {}

// Error logs an error message.
func (l *NoOpLogger) Error(msg string, fields ...any) {}

// Fatal logs a fatal message.
func (l *NoOpLogger) Fatal(msg string, fields ...any) {}

// With returns the same no-op logger.
func (l *NoOpLogger) With(fields ...any) Interface {
	return l
}

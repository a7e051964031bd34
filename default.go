package daylog

import (
	"time"
)

// Global instance for package-level functions. Applications that need
// isolated instances (tests especially) construct their own with New.
var defaultLogger = New()

// Init applies a configuration to the default logger and starts it
func Init(cfg *Config) error {
	if err := defaultLogger.ApplyConfig(cfg); err != nil {
		return err
	}
	return defaultLogger.Start()
}

// InitWithDefaults initializes the default logger with built-in defaults
// and optional "key=value" overrides
func InitWithDefaults(overrides ...string) error {
	if err := defaultLogger.ApplyOverride(overrides...); err != nil {
		return err
	}
	return defaultLogger.Start()
}

// Shutdown gracefully closes the default logger, draining pending records
func Shutdown(timeout ...time.Duration) error {
	return defaultLogger.Shutdown(timeout...)
}

// Flush syncs the default logger's active file to disk
func Flush(timeout time.Duration) error {
	return defaultLogger.Flush(timeout)
}

// Debug logs a message at debug level
func Debug(msg string) {
	defaultLogger.emit(LevelDebug, msg, nil, 3)
}

// Info logs a message at info level
func Info(msg string) {
	defaultLogger.emit(LevelInfo, msg, nil, 3)
}

// Warning logs a message at warning level
func Warning(msg string) {
	defaultLogger.emit(LevelWarn, msg, nil, 3)
}

// Error logs a message at error level
func Error(msg string) {
	defaultLogger.emit(LevelError, msg, nil, 3)
}

// Critical logs a message at critical level
func Critical(msg string) {
	defaultLogger.emit(LevelCritical, msg, nil, 3)
}

// ErrorCtx logs an error-level message with an attached error or stack payload
func ErrorCtx(msg string, ctx any) {
	defaultLogger.emit(LevelError, msg, ctx, 3)
}

// CriticalCtx logs a critical-level message with an attached payload
func CriticalCtx(msg string, ctx any) {
	defaultLogger.emit(LevelCritical, msg, ctx, 3)
}

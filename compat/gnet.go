// Package compat provides adapters that let third-party servers route
// their internal logging through a daylog.Logger.
package compat

import (
	"fmt"
	"os"
	"time"

	"github.com/lixenwraith/daylog"
)

// GnetAdapter wraps daylog.Logger to implement gnet's logging.Logger interface
type GnetAdapter struct {
	logger       *daylog.Logger
	fatalHandler func(msg string) // Customizable fatal behavior
}

// NewGnetAdapter creates a new gnet-compatible logger adapter
func NewGnetAdapter(logger *daylog.Logger, opts ...GnetOption) *GnetAdapter {
	adapter := &GnetAdapter{
		logger: logger,
		fatalHandler: func(msg string) {
			os.Exit(1) // Default behavior matches gnet expectations
		},
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// GnetOption allows customizing adapter behavior
type GnetOption func(*GnetAdapter)

// WithFatalHandler sets a custom fatal handler
func WithFatalHandler(handler func(string)) GnetOption {
	return func(a *GnetAdapter) {
		a.fatalHandler = handler
	}
}

// Debugf logs at debug level with printf-style formatting
func (a *GnetAdapter) Debugf(format string, args ...any) {
	a.logger.Emit(daylog.LevelDebug, fmt.Sprintf(format, args...), nil)
}

// Infof logs at info level with printf-style formatting
func (a *GnetAdapter) Infof(format string, args ...any) {
	a.logger.Emit(daylog.LevelInfo, fmt.Sprintf(format, args...), nil)
}

// Warnf logs at warning level with printf-style formatting
func (a *GnetAdapter) Warnf(format string, args ...any) {
	a.logger.Emit(daylog.LevelWarn, fmt.Sprintf(format, args...), nil)
}

// Errorf logs at error level with printf-style formatting
func (a *GnetAdapter) Errorf(format string, args ...any) {
	a.logger.Emit(daylog.LevelError, fmt.Sprintf(format, args...), nil)
}

// Fatalf logs at critical level and triggers the fatal handler
func (a *GnetAdapter) Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.logger.Emit(daylog.LevelCritical, msg, nil)

	// Ensure the record reaches disk before exit
	_ = a.logger.Flush(100 * time.Millisecond)

	if a.fatalHandler != nil {
		a.fatalHandler(msg)
	}
}

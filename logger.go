// Package daylog configures process-wide logging with two sinks: a daily
// rotating, compressing, retention-limited file sink and a colorized
// console sink, each with an independent severity threshold and layout.
package daylog

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Logger is the facade every application emission goes through. The zero
// value is not usable; construct with New and configure with ApplyConfig.
type Logger struct {
	currentConfig atomic.Value // stores *Config
	state         State
	initMu        sync.Mutex
	formatter     *formatter

	// Clock indirection for tests
	now func() time.Time
}

// New creates a new Logger instance with default settings
func New() *Logger {
	l := &Logger{
		formatter: newFormatter(),
		now:       time.Now,
	}

	l.currentConfig.Store(DefaultConfig())

	l.state.IsInitialized.Store(false)
	l.state.FileDisabled.Store(false)
	l.state.ShutdownCalled.Store(false)
	l.state.ProcessorExited.Store(true)
	l.state.CurrentSize.Store(0)
	l.state.LoggerStartTime.Store(time.Time{})

	// A closed queue until Start, prevents nil channel sends
	initialQueue := make(chan Record)
	close(initialQueue)
	l.state.ActiveQueue.Store(initialQueue)

	l.state.flushRequestChan = make(chan chan struct{}, 1)

	return l
}

// ApplyConfig applies a validated configuration to the logger.
// This is the primary way applications configure the logger; the log
// directory is provisioned here, so a directory that cannot be created
// fails construction rather than the first write.
func (l *Logger) ApplyConfig(cfg *Config) error {
	if cfg == nil {
		return fmtErrorf("configuration cannot be nil")
	}

	if err := cfg.validate(); err != nil {
		return err
	}

	l.initMu.Lock()
	defer l.initMu.Unlock()

	return l.applyConfig(cfg.Clone())
}

// GetConfig returns a copy of the current configuration
func (l *Logger) GetConfig() *Config {
	return l.getConfig().Clone()
}

// getConfig returns the current configuration (thread-safe)
func (l *Logger) getConfig() *Config {
	return l.currentConfig.Load().(*Config)
}

// applyConfig is the internal implementation, assuming initMu is held
func (l *Logger) applyConfig(cfg *Config) error {
	oldCfg := l.getConfig()
	l.currentConfig.Store(cfg)

	wasInitialized := l.state.IsInitialized.Load()
	wasStarted := l.state.Started.Load()

	// Queue topology changes require a processor restart. So does an
	// active file swap (directory or app name change): stopping first
	// drains the queue, so the swap can never race an in-flight write.
	needsRestart := wasStarted && wasInitialized &&
		(oldCfg.EnableQueue != cfg.EnableQueue || oldCfg.BufferSize != cfg.BufferSize ||
			oldCfg.Directory != cfg.Directory || oldCfg.AppName != cfg.AppName)

	if needsRestart {
		if err := l.Stop(); err != nil {
			l.currentConfig.Store(oldCfg) // Rollback
			return fmtErrorf("failed to stop processor for restart: %w", err)
		}
	}

	// writeMutex serializes the swap against synchronous-mode dispatch; in
	// queued mode the processor is already stopped when a swap is needed.
	if err := func() error {
		l.state.writeMutex.Lock()
		defer l.state.writeMutex.Unlock()

		currentFile := l.currentFile()

		boundary, _ := parseRotationAt(cfg.RotationAt)
		date := logDay(l.now(), boundary)

		needsNewFile := !wasInitialized || currentFile == nil ||
			oldCfg.Directory != cfg.Directory ||
			oldCfg.AppName != cfg.AppName

		if !cfg.EnableFile {
			// Disabling file output releases the active file
			if currentFile != nil {
				_ = currentFile.Sync()
				if err := currentFile.Close(); err != nil {
					l.internalLog("warning - failed to close log file during disable: %v\n", err)
				}
			}
			l.state.CurrentFile.Store((*os.File)(nil))
			l.state.CurrentDate.Store(time.Time{})
			l.state.CurrentSize.Store(0)
		} else if needsNewFile {
			if err := ensureDirectory(cfg.Directory); err != nil {
				l.currentConfig.Store(oldCfg) // Rollback
				return err
			}

			logFile, err := l.openLogFile(date)
			if err != nil {
				l.currentConfig.Store(oldCfg) // Rollback
				return err
			}

			if currentFile != nil && currentFile != logFile {
				_ = currentFile.Sync()
				if err := currentFile.Close(); err != nil {
					l.internalLog("warning - failed to close old log file: %v\n", err)
				}
			}

			l.state.CurrentFile.Store(logFile)
			l.state.CurrentDate.Store(date)
			l.state.CurrentSize.Store(0)
			if fi, errStat := logFile.Stat(); errStat == nil {
				l.state.CurrentSize.Store(fi.Size())
			}
		}
		return nil
	}(); err != nil {
		return err
	}

	// Console sink setup
	if cfg.EnableConsole {
		var writer io.Writer
		if cfg.ConsoleTarget == "stdout" {
			writer = os.Stdout
		} else {
			writer = os.Stderr
		}
		l.state.ConsoleSink.Store(newConsoleSink(writer, cfg.ConsoleColors))
	} else {
		l.state.ConsoleSink.Store(newConsoleSink(io.Discard, false))
	}

	// A fresh configuration clears a dead file sink
	l.state.FileDisabled.Store(false)
	l.state.IsInitialized.Store(true)
	l.state.ShutdownCalled.Store(false)

	if needsRestart {
		return l.Start()
	}

	return nil
}

// getConsoleSink returns the console sink, or nil when console output is
// disabled
func (l *Logger) getConsoleSink() *consoleSink {
	if !l.getConfig().EnableConsole {
		return nil
	}
	sink, _ := l.state.ConsoleSink.Load().(*consoleSink)
	return sink
}

// Start begins log processing. Safe to call multiple times.
// Returns an error if the logger is not initialized.
func (l *Logger) Start() error {
	if !l.state.IsInitialized.Load() {
		return fmtErrorf("logger not initialized, call ApplyConfig first")
	}

	// Check if the processor didn't exit cleanly last time
	if l.state.Started.Load() && !l.state.ProcessorExited.Load() {
		l.internalLog("warning - processor still running from previous start, forcing stop\n")
		if err := l.Stop(); err != nil {
			return fmtErrorf("failed to stop hung processor: %w", err)
		}
	}

	if l.state.Started.CompareAndSwap(false, true) {
		cfg := l.getConfig()
		l.state.LoggerStartTime.Store(l.now())

		if cfg.EnableQueue {
			queue := make(chan Record, cfg.BufferSize)
			l.state.ActiveQueue.Store(queue)

			l.state.ProcessorExited.Store(false)
			go l.processRecords(queue)
		} else {
			// Synchronous mode has no background loop; catch up on
			// compression and retention once at startup
			l.state.writeMutex.Lock()
			l.sweep(l.now())
			l.state.writeMutex.Unlock()
		}
	}

	return nil
}

// Stop halts log processing. Can be restarted with Start().
// Returns nil if already stopped.
func (l *Logger) Stop(timeout ...time.Duration) error {
	if !l.state.Started.CompareAndSwap(true, false) {
		return nil // Already stopped
	}

	if !l.getConfig().EnableQueue {
		return nil // Synchronous mode has no processor to stop
	}

	var effectiveTimeout time.Duration
	if len(timeout) > 0 {
		effectiveTimeout = timeout[0]
	} else {
		cfg := l.getConfig()
		effectiveTimeout = 2 * time.Duration(cfg.FlushIntervalMs) * time.Millisecond
	}

	// Replace the queue with a closed one, then close the real queue to
	// signal the processor to drain and exit
	ch := l.getActiveQueue()
	closedQueue := make(chan Record)
	close(closedQueue)
	l.state.ActiveQueue.Store(closedQueue)
	if ch != closedQueue {
		close(ch)
	}

	deadline := time.Now().Add(effectiveTimeout)
	for time.Now().Before(deadline) {
		if l.state.ProcessorExited.Load() {
			return nil
		}
		time.Sleep(minWaitTime)
	}

	return fmtErrorf("processor did not exit within timeout (%v)", effectiveTimeout)
}

// Shutdown gracefully closes the logger, draining pending records and
// closing the active file. If no timeout is provided, a default of 2x
// flush interval is used.
func (l *Logger) Shutdown(timeout ...time.Duration) error {
	if !l.state.ShutdownCalled.CompareAndSwap(false, true) {
		return nil
	}

	if !l.state.IsInitialized.Load() {
		l.state.ShutdownCalled.Store(false)
		l.state.ProcessorExited.Store(true)
		return nil
	}

	var stopErr error
	if l.state.Started.Load() {
		stopErr = l.Stop(timeout...)
	}

	l.state.IsInitialized.Store(false)

	var finalErr error
	if currentLogFile := l.currentFile(); currentLogFile != nil {
		if err := currentLogFile.Sync(); err != nil {
			finalErr = combineErrors(finalErr,
				fmtErrorf("failed to sync log file '%s' during shutdown: %w", currentLogFile.Name(), err))
		}
		if err := currentLogFile.Close(); err != nil {
			finalErr = combineErrors(finalErr,
				fmtErrorf("failed to close log file '%s' during shutdown: %w", currentLogFile.Name(), err))
		}
		l.state.CurrentFile.Store((*os.File)(nil))
	}

	if stopErr != nil {
		finalErr = combineErrors(finalErr, stopErr)
	}

	return finalErr
}

// Flush triggers a sync of the active log file to disk and waits for
// completion or timeout
func (l *Logger) Flush(timeout time.Duration) error {
	l.state.flushMutex.Lock()
	defer l.state.flushMutex.Unlock()

	if !l.state.IsInitialized.Load() || l.state.ShutdownCalled.Load() {
		return fmtErrorf("logger not initialized or already shut down")
	}
	if !l.state.Started.Load() {
		return fmtErrorf("logger not started")
	}

	if !l.getConfig().EnableQueue {
		l.state.writeMutex.Lock()
		l.performSync()
		l.state.writeMutex.Unlock()
		return nil
	}

	confirmChan := make(chan struct{})

	select {
	case l.state.flushRequestChan <- confirmChan:
		// Request sent
	case <-time.After(minWaitTime): // Short timeout if processor is stuck
		return fmtErrorf("failed to send flush request to processor (possible deadlock or high load)")
	}

	select {
	case <-confirmChan:
		return nil
	case <-time.After(timeout):
		return fmtErrorf("timeout waiting for flush confirmation (%v)", timeout)
	}
}

// LastError returns the fatal error that disabled the file sink, or nil
// while the sink is healthy
func (l *Logger) LastError() error {
	err, _ := l.state.SinkErr.Load().(error)
	if err != nil && !l.state.FileDisabled.Load() {
		return nil
	}
	return err
}

// Debug logs a message at debug level
func (l *Logger) Debug(msg string) {
	l.emit(LevelDebug, msg, nil, 3)
}

// Info logs a message at info level
func (l *Logger) Info(msg string) {
	l.emit(LevelInfo, msg, nil, 3)
}

// Warning logs a message at warning level
func (l *Logger) Warning(msg string) {
	l.emit(LevelWarn, msg, nil, 3)
}

// Error logs a message at error level
func (l *Logger) Error(msg string) {
	l.emit(LevelError, msg, nil, 3)
}

// Critical logs a message at critical level
func (l *Logger) Critical(msg string) {
	l.emit(LevelCritical, msg, nil, 3)
}

// Debugf logs a formatted message at debug level
func (l *Logger) Debugf(format string, args ...any) {
	l.emit(LevelDebug, fmt.Sprintf(format, args...), nil, 3)
}

// Infof logs a formatted message at info level
func (l *Logger) Infof(format string, args ...any) {
	l.emit(LevelInfo, fmt.Sprintf(format, args...), nil, 3)
}

// Warningf logs a formatted message at warning level
func (l *Logger) Warningf(format string, args ...any) {
	l.emit(LevelWarn, fmt.Sprintf(format, args...), nil, 3)
}

// Errorf logs a formatted message at error level
func (l *Logger) Errorf(format string, args ...any) {
	l.emit(LevelError, fmt.Sprintf(format, args...), nil, 3)
}

// Criticalf logs a formatted message at critical level
func (l *Logger) Criticalf(format string, args ...any) {
	l.emit(LevelCritical, fmt.Sprintf(format, args...), nil, 3)
}

// ErrorCtx logs an error-level message with an attached error or stack
// payload, rendered at the end of the record
func (l *Logger) ErrorCtx(msg string, ctx any) {
	l.emit(LevelError, msg, ctx, 3)
}

// CriticalCtx logs a critical-level message with an attached error or
// stack payload
func (l *Logger) CriticalCtx(msg string, ctx any) {
	l.emit(LevelCritical, msg, ctx, 3)
}

// Emit logs a message at an arbitrary level with an optional payload.
// This is the hook for adapters that map foreign severities.
func (l *Logger) Emit(level int64, msg string, ctx any) {
	l.emit(level, msg, ctx, 3)
}

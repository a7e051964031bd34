package daylog

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ensureDirectory provisions the log directory. Idempotent; invoked at
// construction and again before rollover to tolerate directories removed
// at runtime.
func ensureDirectory(dir string) error {
	if err := os.MkdirAll(dir, logDirMode); err != nil {
		return fmtErrorf("failed to create log directory '%s': %w", dir, err)
	}
	return nil
}

// logFileName builds the dated file name, e.g. "station_2025-08-28.log".
// Embedding the date keeps lexical and chronological order identical.
func logFileName(appName string, date time.Time) string {
	return fmt.Sprintf("%s_%s%s", appName, date.Format(fileDateLayout), logSuffix)
}

// activeFilePath returns the path of the currently active file, or ""
// when file output is not running
func (l *Logger) activeFilePath() string {
	datePtr := l.state.CurrentDate.Load()
	date, ok := datePtr.(time.Time)
	if !ok || date.IsZero() {
		return ""
	}
	cfg := l.getConfig()
	return filepath.Join(cfg.Directory, logFileName(cfg.AppName, date))
}

// openLogFile opens (creating if needed) the file for the given logging day
func (l *Logger) openLogFile(date time.Time) (*os.File, error) {
	cfg := l.getConfig()
	path := filepath.Join(cfg.Directory, logFileName(cfg.AppName, date))

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFileMode)
	if err != nil {
		return nil, fmtErrorf("failed to open log file '%s': %w", path, err)
	}
	return file, nil
}

// rotateLogFile closes the active file and opens the file for the current
// logging day. A failure to open the new file is fatal to the file sink:
// silent loss of logging is unacceptable, so the sink disables itself and
// surfaces the error through LastError.
func (l *Logger) rotateLogFile(now time.Time) error {
	cfg := l.getConfig()
	boundary, _ := parseRotationAt(cfg.RotationAt)
	newDate := logDay(now, boundary)

	// Flush and release the outgoing file first. The handle is cleared
	// immediately so a failed reopen never leaves a closed file behind
	// for performSync or Shutdown to trip over.
	if current := l.currentFile(); current != nil {
		_ = current.Sync()
		if err := current.Close(); err != nil {
			l.internalLog("warning - failed to close log file before rotation: %v\n", err)
		}
		l.state.CurrentFile.Store((*os.File)(nil))
	}

	// Tolerate a log directory deleted underneath us
	if err := ensureDirectory(cfg.Directory); err != nil {
		l.disableFileSink(err)
		return err
	}

	newFile, err := l.openLogFile(newDate)
	if err != nil {
		l.disableFileSink(err)
		return err
	}

	l.state.CurrentFile.Store(newFile)
	l.state.CurrentDate.Store(newDate)
	l.state.CurrentSize.Store(0)
	if fi, errStat := newFile.Stat(); errStat == nil {
		l.state.CurrentSize.Store(fi.Size())
	}
	l.state.TotalRotations.Add(1)

	return nil
}

// currentFile safely retrieves the active file handle
func (l *Logger) currentFile() *os.File {
	cfPtr := l.state.CurrentFile.Load()
	if cfPtr == nil {
		return nil
	}
	file, ok := cfPtr.(*os.File)
	if !ok {
		return nil
	}
	return file
}

// disableFileSink marks the file sink dead after a fatal rollover failure
// and reports the condition on the console sink
func (l *Logger) disableFileSink(err error) {
	l.state.FileDisabled.Store(true)
	l.state.SinkErr.Store(err)

	if sink := l.getConsoleSink(); sink != nil {
		sink.write(l.formatter, Record{
			Time:     l.now(),
			Level:    LevelCritical,
			Source:   "daylog",
			Function: "rotate",
			Message:  "file sink disabled",
			Context:  err,
		})
		return
	}
	l.internalLog("error - file sink disabled: %v\n", err)
}

// performSync flushes the active log file to disk
func (l *Logger) performSync() {
	if file := l.currentFile(); file != nil {
		if err := file.Sync(); err != nil {
			l.internalLog("warning - log file sync failed for '%s': %v\n", file.Name(), err)
		}
	}
}

package daylog

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
)

// The policy engine decides when the active file rolls over and which
// closed files get compressed or deleted. Rollover is evaluated lazily on
// the write path; compression and deletion run in periodic sweeps. Both
// execute on the writer goroutine (or under the write mutex), so they can
// never race an in-flight write.

// civilDate normalizes t to its calendar date, anchored in UTC so date
// arithmetic is immune to DST transitions.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// logDay returns the calendar date of the logging day containing t.
// A logging day starts at the rotation boundary (e.g. midnight) and is
// named for the calendar date the boundary falls on.
func logDay(t time.Time, boundary time.Duration) time.Time {
	return civilDate(t.Add(-boundary))
}

// shouldRotate reports whether wall-clock time has crossed the rotation
// boundary since the active file's day. A regressing clock never rotates:
// the active file keeps absorbing writes until time catches up.
func shouldRotate(activeDate, now time.Time, boundary time.Duration) bool {
	return logDay(now, boundary).After(activeDate)
}

// ageDays is the age of a file in whole logging days. A file dated
// yesterday has age 1 the moment today's boundary passes.
func ageDays(fileDate, now time.Time, boundary time.Duration) int64 {
	return int64(logDay(now, boundary).Sub(civilDate(fileDate)) / (24 * time.Hour))
}

// scanLogFiles lists the log files belonging to appName in dir, sorted by
// embedded date. Files whose names do not carry a parseable date are
// ignored; they are not ours to manage.
func scanLogFiles(dir, appName string) ([]logFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmtErrorf("failed to read log directory '%s': %w", dir, err)
	}

	prefix := appName + "_"
	var files []logFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, prefix) {
			continue
		}

		var compressed bool
		var datePart string
		switch {
		case strings.HasSuffix(name, archiveSuffix):
			compressed = true
			datePart = strings.TrimSuffix(name[len(prefix):], archiveSuffix)
		case strings.HasSuffix(name, logSuffix):
			datePart = strings.TrimSuffix(name[len(prefix):], logSuffix)
		default:
			continue
		}

		date, err := time.Parse(fileDateLayout, datePart)
		if err != nil {
			continue
		}

		files = append(files, logFile{
			path:       filepath.Join(dir, name),
			date:       date,
			compressed: compressed,
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].date.Before(files[j].date) })
	return files, nil
}

// sweep applies the compression and deletion policy to every closed file
// in the log directory. Failures are reported and retried on the next
// sweep; they never propagate to the write path.
func (l *Logger) sweep(now time.Time) {
	cfg := l.getConfig()
	boundary, err := parseRotationAt(cfg.RotationAt)
	if err != nil {
		return // Validated at apply time, cannot happen
	}

	files, err := scanLogFiles(cfg.Directory, cfg.AppName)
	if err != nil {
		l.reportSweepFailure(err)
		return
	}

	activePath := l.activeFilePath()

	for _, f := range files {
		// The active file is immune regardless of age
		if f.path == activePath {
			continue
		}

		age := ageDays(f.date, now, boundary)

		// Retention threshold is absolute: deletion applies to both
		// compressed and uncompressed files, compressed or not yet
		if cfg.RetentionDays > 0 && age >= cfg.RetentionDays {
			if err := os.Remove(f.path); err != nil {
				l.reportSweepFailure(fmtErrorf("failed to delete expired log file '%s': %w", f.path, err))
				continue
			}
			l.state.TotalDeletions.Add(1)
			continue
		}

		if !f.compressed && age >= cfg.CompressAfterDays {
			if err := l.compressLogFile(f); err != nil {
				l.reportSweepFailure(err)
				continue
			}
			l.state.TotalCompressions.Add(1)
		}
	}
}

// compressLogFile archives one closed file as a zip containing the
// original bytes, then removes the uncompressed original. Idempotent: an
// existing archive is never rebuilt, only the leftover original removed.
func (l *Logger) compressLogFile(f logFile) error {
	archivePath := strings.TrimSuffix(f.path, logSuffix) + archiveSuffix

	if _, err := os.Stat(archivePath); err == nil {
		// Archive already present from an earlier interrupted sweep
		if err := os.Remove(f.path); err != nil {
			return fmtErrorf("failed to remove already-archived log file '%s': %w", f.path, err)
		}
		return nil
	}

	src, err := os.Open(f.path)
	if err != nil {
		return fmtErrorf("failed to open log file '%s' for compression: %w", f.path, err)
	}
	defer src.Close()

	out, err := os.OpenFile(archivePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, logFileMode)
	if err != nil {
		return fmtErrorf("failed to create archive '%s': %w", archivePath, err)
	}

	zw := zip.NewWriter(out)
	header := &zip.FileHeader{
		Name:     filepath.Base(f.path),
		Method:   zip.Deflate,
		Modified: f.date,
	}
	w, err := zw.CreateHeader(header)
	if err == nil {
		_, err = io.Copy(w, src)
	}
	if cerr := zw.Close(); err == nil {
		err = cerr
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(archivePath) // Drop the partial archive, retry next sweep
		return fmtErrorf("failed to compress log file '%s': %w", f.path, err)
	}

	if err := os.Remove(f.path); err != nil {
		return fmtErrorf("failed to remove log file '%s' after compression: %w", f.path, err)
	}
	return nil
}

// reportSweepFailure routes a non-fatal cleanup error to the console sink
// when one is available, falling back to the internal stderr diagnostics
func (l *Logger) reportSweepFailure(err error) {
	if sink := l.getConsoleSink(); sink != nil {
		sink.write(l.formatter, Record{
			Time:     l.now(),
			Level:    LevelWarn,
			Source:   "daylog",
			Function: "sweep",
			Message:  "log cleanup failed, will retry next sweep",
			Context:  err,
		})
		return
	}
	l.internalLog("warning - %v\n", err)
}

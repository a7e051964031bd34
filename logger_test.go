package daylog

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestLogger creates a started queued logger in a temp directory
func createTestLogger(t *testing.T) (*Logger, string) {
	t.Helper()

	tmpDir := t.TempDir()
	logger := New()

	cfg := DefaultConfig()
	cfg.AppName = "test"
	cfg.EnableConsole = false
	cfg.EnableFile = true
	cfg.Directory = tmpDir
	cfg.BufferSize = 4096
	cfg.FlushIntervalMs = 10

	err := logger.ApplyConfig(cfg)
	require.NoError(t, err)

	err = logger.Start()
	require.NoError(t, err)

	return logger, tmpDir
}

// activeLogName is today's expected file name for the given app
func activeLogName(app string) string {
	return logFileName(app, civilDate(time.Now()))
}

func TestNew(t *testing.T) {
	logger := New()

	assert.NotNil(t, logger)
	assert.NotNil(t, logger.formatter)
	assert.False(t, logger.state.IsInitialized.Load())
	assert.False(t, logger.state.FileDisabled.Load())
	assert.True(t, logger.state.ProcessorExited.Load())
}

func TestApplyConfigCreatesDatedFile(t *testing.T) {
	logger, tmpDir := createTestLogger(t)
	defer logger.Shutdown()

	assert.True(t, logger.state.IsInitialized.Load())

	// The active file carries today's date in its name
	_, err := os.Stat(filepath.Join(tmpDir, activeLogName("test")))
	assert.NoError(t, err)
}

func TestApplyConfigNilAndInvalid(t *testing.T) {
	logger := New()

	assert.Error(t, logger.ApplyConfig(nil))

	cfg := DefaultConfig()
	cfg.BufferSize = -1
	assert.Error(t, logger.ApplyConfig(cfg))

	// A failed apply leaves the logger uninitialized
	assert.False(t, logger.state.IsInitialized.Load())
}

func TestEmitBeforeInit(t *testing.T) {
	logger := New()

	// Emissions before ApplyConfig are silently discarded
	logger.Info("ignored")
	logger.Error("ignored too")

	assert.Equal(t, uint64(0), logger.state.TotalLogsProcessed.Load())
}

func TestLoggingLevels(t *testing.T) {
	logger, tmpDir := createTestLogger(t)
	defer logger.Shutdown()

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warning("warning message")
	logger.Error("error message")
	logger.Critical("critical message")

	require.NoError(t, logger.Flush(time.Second))

	content, err := os.ReadFile(filepath.Join(tmpDir, activeLogName("test")))
	require.NoError(t, err)

	// Default file threshold is DEBUG, everything lands in the file
	assert.Contains(t, string(content), "debug message")
	assert.Contains(t, string(content), "| DEBUG    |")
	assert.Contains(t, string(content), "info message")
	assert.Contains(t, string(content), "| WARNING  |")
	assert.Contains(t, string(content), "| ERROR    |")
	assert.Contains(t, string(content), "| CRITICAL |")
}

func TestFileThresholdFilters(t *testing.T) {
	logger, tmpDir := createTestLogger(t)
	defer logger.Shutdown()

	cfg := logger.GetConfig()
	cfg.FileLevel = LevelError
	require.NoError(t, logger.ApplyConfig(cfg))

	logger.Debug("quiet debug")
	logger.Info("quiet info")
	logger.Error("loud error")

	require.NoError(t, logger.Flush(time.Second))
	time.Sleep(50 * time.Millisecond)

	content, err := os.ReadFile(filepath.Join(tmpDir, activeLogName("test")))
	require.NoError(t, err)

	assert.NotContains(t, string(content), "quiet debug")
	assert.NotContains(t, string(content), "quiet info")
	assert.Contains(t, string(content), "loud error")
}

func TestFormattedEmits(t *testing.T) {
	logger, tmpDir := createTestLogger(t)
	defer logger.Shutdown()

	logger.Infof("request %d took %s", 42, "15ms")
	logger.Errorf("failed after %d retries", 3)

	require.NoError(t, logger.Flush(time.Second))

	content, err := os.ReadFile(filepath.Join(tmpDir, activeLogName("test")))
	require.NoError(t, err)

	assert.Contains(t, string(content), "request 42 took 15ms")
	assert.Contains(t, string(content), "failed after 3 retries")
}

func TestContextEmits(t *testing.T) {
	logger, tmpDir := createTestLogger(t)
	defer logger.Shutdown()

	logger.ErrorCtx("upstream failed", errors.New("connection refused"))
	logger.CriticalCtx("panic recovered", map[string]int{"depth": 3})

	require.NoError(t, logger.Flush(time.Second))

	content, err := os.ReadFile(filepath.Join(tmpDir, activeLogName("test")))
	require.NoError(t, err)

	assert.Contains(t, string(content), "upstream failed | error: connection refused")
	assert.Contains(t, string(content), "panic recovered")
	assert.Contains(t, string(content), "depth")
}

func TestCallerAttribution(t *testing.T) {
	logger, tmpDir := createTestLogger(t)
	defer logger.Shutdown()

	logger.Info("attribution check")

	require.NoError(t, logger.Flush(time.Second))

	content, err := os.ReadFile(filepath.Join(tmpDir, activeLogName("test")))
	require.NoError(t, err)

	// Source column carries this package's import path, function column
	// the test function name
	assert.Contains(t, string(content), "github.com/lixenwraith/daylog")
	assert.Contains(t, string(content), "TestCallerAttribution")
}

func TestConcurrentEmits(t *testing.T) {
	logger, tmpDir := createTestLogger(t)

	const goroutines = 10
	const perGoroutine = 100

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				logger.Infof("worker=%d seq=%d", i, j)
			}
		}(i)
	}
	wg.Wait()

	require.NoError(t, logger.Shutdown(5 * time.Second))

	content, err := os.ReadFile(filepath.Join(tmpDir, activeLogName("test")))
	require.NoError(t, err)

	// Queue capacity exceeds the total send count, so nothing can drop
	// and every record must survive the shutdown drain intact
	lines := strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
	count := 0
	for _, line := range lines {
		if strings.Contains(line, "worker=") {
			count++
			assert.Contains(t, line, " | ", "malformed record: %q", line)
		}
	}
	assert.Equal(t, goroutines*perGoroutine, count)
	assert.Equal(t, uint64(0), logger.state.DroppedLogs.Load())
}

func TestSynchronousMode(t *testing.T) {
	tmpDir := t.TempDir()
	logger := New()

	cfg := DefaultConfig()
	cfg.AppName = "sync"
	cfg.Directory = tmpDir
	cfg.EnableConsole = false
	cfg.EnableQueue = false

	require.NoError(t, logger.ApplyConfig(cfg))
	require.NoError(t, logger.Start())
	defer logger.Shutdown()

	logger.Info("written in caller goroutine")

	// Synchronous mode needs no flush to make the record visible
	content, err := os.ReadFile(filepath.Join(tmpDir, activeLogName("sync")))
	require.NoError(t, err)
	assert.Contains(t, string(content), "written in caller goroutine")
}

func TestRotationOnDayChange(t *testing.T) {
	tmpDir := t.TempDir()
	logger := New()

	clock := time.Date(2026, 8, 27, 23, 59, 0, 0, time.UTC)
	logger.now = func() time.Time { return clock }

	cfg := DefaultConfig()
	cfg.AppName = "web"
	cfg.Directory = tmpDir
	cfg.EnableConsole = false
	cfg.EnableQueue = false

	require.NoError(t, logger.ApplyConfig(cfg))
	require.NoError(t, logger.Start())
	defer logger.Shutdown()

	logger.Info("before midnight")

	clock = time.Date(2026, 8, 28, 0, 1, 0, 0, time.UTC)
	logger.Info("after midnight")

	before, err := os.ReadFile(filepath.Join(tmpDir, "web_2026-08-27.log"))
	require.NoError(t, err)
	assert.Contains(t, string(before), "before midnight")
	assert.NotContains(t, string(before), "after midnight")

	after, err := os.ReadFile(filepath.Join(tmpDir, "web_2026-08-28.log"))
	require.NoError(t, err)
	assert.Contains(t, string(after), "after midnight")

	assert.Equal(t, uint64(1), logger.state.TotalRotations.Load())
}

func TestRotationAtCustomBoundary(t *testing.T) {
	tmpDir := t.TempDir()
	logger := New()

	clock := time.Date(2026, 8, 28, 1, 0, 0, 0, time.UTC)
	logger.now = func() time.Time { return clock }

	cfg := DefaultConfig()
	cfg.AppName = "web"
	cfg.Directory = tmpDir
	cfg.EnableConsole = false
	cfg.EnableQueue = false
	cfg.RotationAt = "02:00"

	require.NoError(t, logger.ApplyConfig(cfg))
	require.NoError(t, logger.Start())
	defer logger.Shutdown()

	// 01:00 is still yesterday's logging day under a 02:00 boundary
	logger.Info("late night")

	clock = time.Date(2026, 8, 28, 1, 59, 0, 0, time.UTC)
	logger.Info("still late night")

	clock = time.Date(2026, 8, 28, 2, 30, 0, 0, time.UTC)
	logger.Info("new logging day")

	previous, err := os.ReadFile(filepath.Join(tmpDir, "web_2026-08-27.log"))
	require.NoError(t, err)
	assert.Contains(t, string(previous), "late night")
	assert.Contains(t, string(previous), "still late night")

	current, err := os.ReadFile(filepath.Join(tmpDir, "web_2026-08-28.log"))
	require.NoError(t, err)
	assert.Contains(t, string(current), "new logging day")
}

func TestRotationTriggersSweep(t *testing.T) {
	tmpDir := t.TempDir()
	logger := New()

	clock := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	logger.now = func() time.Time { return clock }

	cfg := DefaultConfig()
	cfg.AppName = "web"
	cfg.Directory = tmpDir
	cfg.EnableConsole = false
	cfg.EnableQueue = false
	cfg.CompressAfterDays = 1
	cfg.RetentionDays = 5

	require.NoError(t, logger.ApplyConfig(cfg))
	require.NoError(t, logger.Start())
	defer logger.Shutdown()

	logger.Info("day one")

	// The day after, the first write rolls the file over and the sweep
	// immediately archives the file it just closed
	clock = clock.Add(24 * time.Hour)
	logger.Info("day two")

	_, err := os.Stat(filepath.Join(tmpDir, "web_2026-08-27.log.zip"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(tmpDir, "web_2026-08-27.log"))
	assert.True(t, os.IsNotExist(err))
}

func TestStopAndRestart(t *testing.T) {
	logger, tmpDir := createTestLogger(t)

	logger.Info("first run")
	require.NoError(t, logger.Stop(time.Second))
	assert.True(t, logger.state.ProcessorExited.Load())

	require.NoError(t, logger.Start())
	logger.Info("second run")

	require.NoError(t, logger.Shutdown(time.Second))

	content, err := os.ReadFile(filepath.Join(tmpDir, activeLogName("test")))
	require.NoError(t, err)
	assert.Contains(t, string(content), "first run")
	assert.Contains(t, string(content), "second run")
}

func TestShutdownDrainsQueue(t *testing.T) {
	logger, tmpDir := createTestLogger(t)

	for i := 0; i < 50; i++ {
		logger.Infof("pending %d", i)
	}

	require.NoError(t, logger.Shutdown(5 * time.Second))

	content, err := os.ReadFile(filepath.Join(tmpDir, activeLogName("test")))
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		assert.Contains(t, string(content), fmt.Sprintf("pending %d", i))
	}

	// Emissions after shutdown are discarded, not panics
	logger.Info("too late")
	assert.NoError(t, logger.Shutdown())
}

func TestQueueResizeRestartsProcessor(t *testing.T) {
	logger, tmpDir := createTestLogger(t)
	defer logger.Shutdown()

	logger.Info("before resize")

	cfg := logger.GetConfig()
	cfg.BufferSize = 8192
	require.NoError(t, logger.ApplyConfig(cfg))

	logger.Info("after resize")
	require.NoError(t, logger.Flush(time.Second))

	content, err := os.ReadFile(filepath.Join(tmpDir, activeLogName("test")))
	require.NoError(t, err)
	assert.Contains(t, string(content), "after resize")
}

func TestFullQueueEvictsOldest(t *testing.T) {
	logger := New()

	// A standalone queue with no running processor keeps the scenario
	// deterministic
	q := make(chan Record, 2)
	logger.state.ActiveQueue.Store(q)

	logger.sendRecord(Record{Message: "first"})
	logger.sendRecord(Record{Message: "second"})
	logger.sendRecord(Record{Message: "third"})

	// The oldest record made way for the newest
	assert.Equal(t, uint64(1), logger.state.DroppedLogs.Load())
	assert.Equal(t, "second", (<-q).Message)
	assert.Equal(t, "third", (<-q).Message)

	// The next uncontended send carries the eviction count in-band
	logger.sendRecord(Record{Message: "fourth"})
	assert.Equal(t, uint64(0), logger.state.DroppedLogs.Load())
	assert.Equal(t, "fourth", (<-q).Message)

	report := <-q
	assert.Equal(t, LevelError, report.Level)
	assert.Contains(t, report.Message, "records were dropped on full queue: 1")
}

func TestSendToStoppedQueueCountsDrop(t *testing.T) {
	logger := New()

	// The initial queue is closed; a send must be absorbed, not panic
	logger.sendRecord(Record{Message: "lost"})
	assert.Equal(t, uint64(1), logger.state.DroppedLogs.Load())

	// A failed drop report restores its carried count
	logger.handleFailedSend(Record{unreportedDrops: 7})
	assert.Equal(t, uint64(8), logger.state.DroppedLogs.Load())
}

func TestDisableFileSink(t *testing.T) {
	logger, _ := createTestLogger(t)
	defer logger.Shutdown()

	assert.NoError(t, logger.LastError())

	sinkErr := fmtErrorf("failed to open log file")
	logger.disableFileSink(sinkErr)

	assert.True(t, logger.state.FileDisabled.Load())
	assert.ErrorIs(t, logger.LastError(), sinkErr)

	// With the file sink dead and console off, emissions gate out early
	assert.False(t, logger.levelEnabled(logger.GetConfig(), LevelCritical))

	// Reconfiguration revives the sink
	require.NoError(t, logger.ApplyConfig(logger.GetConfig()))
	assert.False(t, logger.state.FileDisabled.Load())
	assert.NoError(t, logger.LastError())
}

func TestWriteFailureReportedOnce(t *testing.T) {
	tmpDir := t.TempDir()
	logger := New()

	cfg := DefaultConfig()
	cfg.AppName = "web"
	cfg.Directory = tmpDir
	cfg.EnableConsole = true
	cfg.EnableQueue = false

	require.NoError(t, logger.ApplyConfig(cfg))
	require.NoError(t, logger.Start())

	var buf bytes.Buffer
	logger.state.ConsoleSink.Store(newConsoleSink(&buf, false))

	// A closed handle makes every file write fail deterministically
	require.NoError(t, logger.currentFile().Close())

	logger.Error("first lost record")
	logger.Error("second lost record")

	// One report for the whole failure streak, every record counted
	assert.Equal(t, 1, strings.Count(buf.String(), "log file write failed"))
	assert.Equal(t, uint64(2), logger.state.DroppedLogs.Load())
	assert.True(t, logger.state.WriteFailLogged.Load())

	// A successful write re-arms the report
	path := filepath.Join(tmpDir, activeLogName("web"))
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	require.NoError(t, err)
	logger.state.CurrentFile.Store(file)

	logger.Error("recovered record")
	assert.False(t, logger.state.WriteFailLogged.Load())

	require.NoError(t, file.Close())
	logger.Error("third lost record")
	assert.Equal(t, 2, strings.Count(buf.String(), "log file write failed"))
}

func TestFailedRolloverClearsFileHandle(t *testing.T) {
	tmpDir := t.TempDir()
	logDir := filepath.Join(tmpDir, "logs")
	logger := New()

	clock := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	logger.now = func() time.Time { return clock }

	cfg := DefaultConfig()
	cfg.AppName = "web"
	cfg.Directory = logDir
	cfg.EnableConsole = true
	cfg.EnableQueue = false

	require.NoError(t, logger.ApplyConfig(cfg))
	require.NoError(t, logger.Start())

	var buf bytes.Buffer
	logger.state.ConsoleSink.Store(newConsoleSink(&buf, false))

	logger.Info("day one")

	// A regular file at the directory path makes the rollover's MkdirAll
	// fail even when the tests run as root
	require.NoError(t, os.RemoveAll(logDir))
	require.NoError(t, os.WriteFile(logDir, []byte("in the way"), 0644))

	clock = clock.Add(24 * time.Hour)
	logger.Error("day two")

	assert.True(t, logger.state.FileDisabled.Load())
	assert.Error(t, logger.LastError())
	assert.Contains(t, buf.String(), "file sink disabled")

	// The closed day-one handle must not linger after the failed reopen
	assert.Nil(t, logger.currentFile())

	// Records keep flowing to the console
	logger.Error("console only")
	assert.Contains(t, buf.String(), "console only")

	require.NoError(t, logger.Shutdown())
}

func TestDirectoryChangeMidStream(t *testing.T) {
	logger, dir1 := createTestLogger(t)
	dir2 := t.TempDir()

	logger.Info("before the move")

	cfg := logger.GetConfig()
	cfg.Directory = dir2
	require.NoError(t, logger.ApplyConfig(cfg))

	logger.Info("after the move")
	require.NoError(t, logger.Shutdown())

	// The swap drains the queue first, so each record lands in the
	// directory that was active when it was emitted
	first, err := os.ReadFile(filepath.Join(dir1, activeLogName("test")))
	require.NoError(t, err)
	assert.Contains(t, string(first), "before the move")
	assert.NotContains(t, string(first), "after the move")

	second, err := os.ReadFile(filepath.Join(dir2, activeLogName("test")))
	require.NoError(t, err)
	assert.Contains(t, string(second), "after the move")

	assert.Equal(t, uint64(0), logger.state.DroppedLogs.Load())
}

func TestFlushRequiresRunningLogger(t *testing.T) {
	logger := New()
	assert.Error(t, logger.Flush(time.Second))

	started, _ := createTestLogger(t)
	require.NoError(t, started.Shutdown())
	assert.Error(t, started.Flush(time.Second))
}

func TestBuilderBuildsStartedLogger(t *testing.T) {
	tmpDir := t.TempDir()

	logger, err := NewBuilder().
		AppName("built").
		Directory(tmpDir).
		FileLevelString("debug").
		ConsoleLevelString("warning").
		EnableConsole(false).
		RotationAt("03:00").
		CompressAfterDays(2).
		RetentionDays(14).
		BufferSize(256).
		Build()
	require.NoError(t, err)
	defer logger.Shutdown()

	cfg := logger.GetConfig()
	assert.Equal(t, "built", cfg.AppName)
	assert.Equal(t, LevelDebug, cfg.FileLevel)
	assert.Equal(t, LevelWarn, cfg.ConsoleLevel)
	assert.Equal(t, "03:00", cfg.RotationAt)
	assert.Equal(t, int64(2), cfg.CompressAfterDays)
	assert.Equal(t, int64(14), cfg.RetentionDays)
	assert.True(t, logger.state.Started.Load())

	logger.Info("built and running")
	require.NoError(t, logger.Flush(time.Second))
}

func TestBuilderInvalidLevel(t *testing.T) {
	_, err := NewBuilder().
		Directory(t.TempDir()).
		FileLevelString("verbose").
		Build()
	assert.Error(t, err)
}

func TestHeartbeatRecord(t *testing.T) {
	logger, tmpDir := createTestLogger(t)
	defer logger.Shutdown()

	logger.Info("some activity")
	require.NoError(t, logger.Flush(time.Second))

	rec := logger.heartbeatRecord()
	assert.Equal(t, LevelProc, rec.Level)
	assert.Contains(t, rec.Message, "heartbeat sequence=1")
	assert.Contains(t, rec.Message, "processed=")

	// Heartbeats pass every threshold and land in the file
	logger.state.writeMutex.Lock()
	logger.writeRecord(rec)
	logger.state.writeMutex.Unlock()
	require.NoError(t, logger.Flush(time.Second))

	content, err := os.ReadFile(filepath.Join(tmpDir, activeLogName("test")))
	require.NoError(t, err)
	assert.Contains(t, string(content), "| PROC     |")

	stats := logger.Stats()
	assert.GreaterOrEqual(t, stats.Processed, uint64(1))
}

package daylog

import (
	"time"
)

// Log level constants, higher is more severe
const (
	LevelDebug    int64 = -4
	LevelInfo     int64 = 0
	LevelWarn     int64 = 4
	LevelError    int64 = 8
	LevelCritical int64 = 12
)

// LevelProc marks internal statistics records emitted by the heartbeat
const LevelProc int64 = 16

// File naming and record layouts
const (
	// Date embedded in log file names, lexical sort equals chronological sort
	fileDateLayout = "2006-01-02"
	// Timestamp prefix of file records, millisecond precision
	fileTimeLayout = "2006-01-02 15:04:05.000"
	// Timestamp prefix of console records
	consoleTimeLayout = "15:04:05"

	logSuffix     = ".log"
	archiveSuffix = ".log.zip"

	logFileMode = 0644
	logDirMode  = 0755
)

// Column widths of the file record layout
const (
	padLevel    = 8
	padSource   = 35
	padFunction = 20
	padLine     = 4
)

// Timers
const (
	// Minimum wait time used throughout the package
	minWaitTime = 10 * time.Millisecond
)

package daylog

import (
	"sync"
	"sync/atomic"
)

// State encapsulates the runtime state of the logger
type State struct {
	IsInitialized   atomic.Bool
	FileDisabled    atomic.Bool // Set when the file sink hits a fatal rollover failure
	ShutdownCalled  atomic.Bool
	WriteFailLogged atomic.Bool // Suppresses repeated write failure reports
	ProcessorExited atomic.Bool // Tracks whether the writer goroutine is running
	Started         atomic.Bool

	flushRequestChan chan chan struct{} // Channel to request a flush
	flushMutex       sync.Mutex         // Protect concurrent Flush calls
	writeMutex       sync.Mutex         // Serializes writes in synchronous (unqueued) mode

	CurrentFile atomic.Value // stores *os.File
	CurrentDate atomic.Value // stores time.Time, civil date the active file is named for
	CurrentSize atomic.Int64 // Size of the active log file

	SinkErr atomic.Value // stores error, last fatal file sink error

	ActiveQueue atomic.Value  // stores chan Record
	ConsoleSink atomic.Value  // stores *consoleSink
	DroppedLogs atomic.Uint64 // Counter for records dropped on a full queue

	// Sweep and heartbeat statistics
	HeartbeatSequence  atomic.Uint64
	LoggerStartTime    atomic.Value // stores time.Time
	TotalLogsProcessed atomic.Uint64
	TotalRotations     atomic.Uint64
	TotalCompressions  atomic.Uint64
	TotalDeletions     atomic.Uint64
}

package daylog

import (
	"time"
)

// Record is a single log emission. It is created by the facade at emit
// time and consumed by each sink after formatting.
type Record struct {
	Time     time.Time
	Level    int64
	Source   string // logical source, the caller's package path
	Function string
	Line     int
	Message  string
	Context  any // optional error or stack payload

	// Dropped record count carried by a drop report, zero for regular records
	unreportedDrops uint64
}

// logFile describes one physical file in the log directory.
// Exactly one descriptor is active (open for append) at any time;
// closed descriptors transition compressed then deleted during sweeps.
type logFile struct {
	path       string
	date       time.Time // civil date the file is named for
	compressed bool
}

// timerSet holds the tickers driving the processor loop
type timerSet struct {
	flushTicker     *time.Ticker
	sweepTicker     *time.Ticker
	heartbeatTicker *time.Ticker
	heartbeatChan   <-chan time.Time
}

package daylog

import (
	"fmt"
	"time"
)

// heartbeatRecord assembles the periodic statistics record. Heartbeats are
// opt-in (heartbeat_interval_s > 0) and flow through the normal sinks at
// LevelProc, which passes every threshold.
func (l *Logger) heartbeatRecord() Record {
	sequence := l.state.HeartbeatSequence.Add(1)

	var uptimeHours float64
	if startTime, ok := l.state.LoggerStartTime.Load().(time.Time); ok && !startTime.IsZero() {
		uptimeHours = time.Since(startTime).Hours()
	}

	msg := fmt.Sprintf(
		"heartbeat sequence=%d uptime_hours=%.2f processed=%d dropped=%d rotations=%d compressions=%d deletions=%d",
		sequence,
		uptimeHours,
		l.state.TotalLogsProcessed.Load(),
		l.state.DroppedLogs.Load(),
		l.state.TotalRotations.Load(),
		l.state.TotalCompressions.Load(),
		l.state.TotalDeletions.Load(),
	)

	return Record{
		Time:     l.now(),
		Level:    LevelProc,
		Source:   "daylog",
		Function: "heartbeat",
		Message:  msg,
	}
}

// Stats is a point-in-time snapshot of logger activity counters
type Stats struct {
	Processed    uint64
	Dropped      uint64
	Rotations    uint64
	Compressions uint64
	Deletions    uint64
}

// Stats returns the current activity counters
func (l *Logger) Stats() Stats {
	return Stats{
		Processed:    l.state.TotalLogsProcessed.Load(),
		Dropped:      l.state.DroppedLogs.Load(),
		Rotations:    l.state.TotalRotations.Load(),
		Compressions: l.state.TotalCompressions.Load(),
		Deletions:    l.state.TotalDeletions.Load(),
	}
}

package daylog

import (
	"fmt"
	"os"
	"strings"
)

// getActiveQueue safely retrieves the current record queue
func (l *Logger) getActiveQueue() chan Record {
	chVal := l.state.ActiveQueue.Load()
	return chVal.(chan Record)
}

// dispatch hands a record to the write path. In queued mode callers
// enqueue and return immediately; in synchronous mode the record is
// written under the write mutex before returning.
func (l *Logger) dispatch(rec Record) {
	cfg := l.getConfig()
	if cfg.EnableQueue {
		l.sendRecord(rec)
		return
	}

	l.state.writeMutex.Lock()
	defer l.state.writeMutex.Unlock()
	l.writeRecord(rec)
}

// sendRecord performs a non-blocking send to the active queue. A full
// queue evicts its oldest record to make room for the incoming one, so
// under sustained overload the queue holds the newest records; evictions
// are counted and the count reported in-band on the next uncontended
// send so drops are never silent.
func (l *Logger) sendRecord(rec Record) {
	defer func() {
		if r := recover(); r != nil { // Catch panic on send to closed channel
			l.handleFailedSend(rec)
		}
	}()

	if l.state.ShutdownCalled.Load() {
		l.handleFailedSend(rec)
		return
	}

	ch := l.getActiveQueue()

	select {
	case ch <- rec:
		// Success. Report any accumulated drops in-band.
		if rec.unreportedDrops == 0 {
			droppedCount := l.state.DroppedLogs.Swap(0)
			if droppedCount > 0 {
				dropRecord := Record{
					Time:            l.now(),
					Level:           LevelError,
					Source:          "daylog",
					Function:        "queue",
					Message:         fmt.Sprintf("records were dropped on full queue: %d", droppedCount),
					unreportedDrops: droppedCount, // Carried for recovery
				}
				// No success check required, the count is restored on failure
				l.sendRecord(dropRecord)
			}
		}
	default:
		// A failed drop report only restores its count; evicting a live
		// record to requeue a report would trade data for metadata
		if rec.unreportedDrops > 0 {
			l.handleFailedSend(rec)
			return
		}

		// Evict the oldest queued record, then retry once. The processor
		// may win the race for the oldest record, which is fine: that
		// frees a slot too.
		select {
		case evicted := <-ch:
			l.handleFailedSend(evicted)
		default:
		}

		select {
		case ch <- rec:
		default:
			l.handleFailedSend(rec)
		}
	}
}

// handleFailedSend restores or increments the drop counter
func (l *Logger) handleFailedSend(rec Record) {
	amountToAdd := uint64(1)
	if rec.unreportedDrops > 0 {
		amountToAdd = rec.unreportedDrops
	}
	l.state.DroppedLogs.Add(amountToAdd)
}

// emit builds a record from the call site and routes it through every
// enabled sink whose threshold it meets. skip counts stack frames between
// the application call site and emit.
func (l *Logger) emit(level int64, msg string, ctx any, skip int) {
	if !l.state.IsInitialized.Load() {
		return
	}

	cfg := l.getConfig()
	if !l.levelEnabled(cfg, level) {
		return
	}

	source, function, line := callerInfo(skip)
	l.dispatch(Record{
		Time:     l.now(),
		Level:    level,
		Source:   source,
		Function: function,
		Line:     line,
		Message:  msg,
		Context:  ctx,
	})
}

// levelEnabled reports whether any enabled sink would accept the level
func (l *Logger) levelEnabled(cfg *Config, level int64) bool {
	if cfg.EnableFile && !l.state.FileDisabled.Load() && level >= cfg.FileLevel {
		return true
	}
	if cfg.EnableConsole && level >= cfg.ConsoleLevel {
		return true
	}
	return false
}

// internalLog writes internal logger diagnostics to stderr, if enabled
func (l *Logger) internalLog(format string, args ...any) {
	cfg := l.getConfig()
	if !cfg.InternalErrorsToStderr {
		return
	}

	if !strings.HasPrefix(format, "daylog: ") {
		format = "daylog: " + format
	}
	fmt.Fprintf(os.Stderr, format, args...)
}

package daylog

import (
	"time"
)

// processRecords is the single-writer loop draining the record queue.
// Rollover checks, sweeps and heartbeats all run here, so nothing ever
// races an in-flight write to the active file.
func (l *Logger) processRecords(ch <-chan Record) {
	l.state.ProcessorExited.Store(false)
	defer l.state.ProcessorExited.Store(true)

	timers := l.setupProcessingTimers()
	defer l.closeProcessingTimers(timers)

	// Catch up on compression and retention from previous runs
	l.sweep(l.now())

	for {
		select {
		case rec, ok := <-ch:
			if !ok {
				// Queue closed: drain is complete, final sync and exit
				l.performSync()
				return
			}
			l.writeRecord(rec)

		case <-timers.flushTicker.C:
			l.performSync()

		case <-timers.sweepTicker.C:
			l.sweep(l.now())

		case confirmChan := <-l.state.flushRequestChan:
			l.performSync()
			close(confirmChan) // Signal completion back to the Flush caller

		case <-timers.heartbeatChan:
			l.writeRecord(l.heartbeatRecord())
		}
	}
}

// setupProcessingTimers creates the tickers driving the processor
func (l *Logger) setupProcessingTimers() *timerSet {
	timers := &timerSet{}
	cfg := l.getConfig()

	flushInterval := cfg.FlushIntervalMs
	if flushInterval <= 0 {
		flushInterval = defaultConfig.FlushIntervalMs
	}
	timers.flushTicker = time.NewTicker(time.Duration(flushInterval) * time.Millisecond)

	sweepInterval := cfg.SweepIntervalMins
	if sweepInterval <= 0 {
		sweepInterval = defaultConfig.SweepIntervalMins
	}
	timers.sweepTicker = time.NewTicker(time.Duration(sweepInterval) * time.Minute)

	if cfg.HeartbeatIntervalS > 0 {
		timers.heartbeatTicker = time.NewTicker(time.Duration(cfg.HeartbeatIntervalS) * time.Second)
		timers.heartbeatChan = timers.heartbeatTicker.C
	}

	return timers
}

// closeProcessingTimers stops all active tickers
func (l *Logger) closeProcessingTimers(timers *timerSet) {
	timers.flushTicker.Stop()
	timers.sweepTicker.Stop()
	if timers.heartbeatTicker != nil {
		timers.heartbeatTicker.Stop()
	}
}

// writeRecord fans one record out to the sinks whose thresholds it meets.
// Must only run on the processor goroutine or under the write mutex.
func (l *Logger) writeRecord(rec Record) {
	cfg := l.getConfig()

	if cfg.EnableConsole && rec.Level >= cfg.ConsoleLevel {
		if sink := l.getConsoleSink(); sink != nil {
			sink.write(l.formatter, rec)
		}
	}

	if cfg.EnableFile && rec.Level >= cfg.FileLevel && !l.state.FileDisabled.Load() {
		l.writeFileRecord(rec)
	}
}

// writeFileRecord appends one formatted record to the active file,
// rolling over first when the rotation boundary has been crossed
func (l *Logger) writeFileRecord(rec Record) {
	cfg := l.getConfig()
	boundary, _ := parseRotationAt(cfg.RotationAt)
	now := l.now()

	activeDate, _ := l.state.CurrentDate.Load().(time.Time)
	if shouldRotate(activeDate, now, boundary) {
		if err := l.rotateLogFile(now); err != nil {
			// Sink is disabled, the record and all following ones are lost
			// to the file; the console sink already reported the failure
			return
		}
		// The just-closed file is now eligible for aging
		l.sweep(now)
	}

	file := l.currentFile()
	if file == nil {
		l.state.DroppedLogs.Add(1)
		return
	}

	data := l.formatter.fileLine(rec)
	n, err := file.Write(data)
	if err != nil {
		// Report once per occurrence, drop the record, never crash the caller
		if !l.state.WriteFailLogged.Swap(true) {
			if sink := l.getConsoleSink(); sink != nil {
				sink.write(l.formatter, Record{
					Time:     now,
					Level:    LevelError,
					Source:   "daylog",
					Function: "write",
					Message:  "log file write failed, records are being dropped",
					Context:  err,
				})
			}
			l.internalLog("error - failed to write to log file: %v\n", err)
		}
		l.state.DroppedLogs.Add(1)
		return
	}

	l.state.WriteFailLogged.Store(false)
	l.state.CurrentSize.Add(int64(n))
	l.state.TotalLogsProcessed.Add(1)
}

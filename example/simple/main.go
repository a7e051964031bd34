// FILE: example/simple/main.go
package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/lixenwraith/daylog"
)

func main() {
	// Package-level facade with the default logger
	err := daylog.InitWithDefaults(
		"app_name=simple",
		"directory=./logs",
		"console_level=info",
	)
	if err != nil {
		fmt.Printf("Init error: %v\n", err)
		return
	}
	defer daylog.Shutdown(time.Second)

	daylog.Debug("connecting to upstream")
	daylog.Info("service started")
	daylog.Warning("config file missing, using defaults")
	daylog.ErrorCtx("upstream request failed", errors.New("connection refused"))

	// Structured payload dumped below the record line
	daylog.CriticalCtx("shutting down", map[string]any{
		"reason":  "signal",
		"uptime":  "42s",
		"pending": 3,
	})

	if err := daylog.Flush(time.Second); err != nil {
		fmt.Printf("Flush error: %v\n", err)
	}
}

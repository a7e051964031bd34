// FILE: example/retention/main.go
package main

import (
	"fmt"
	"time"

	"github.com/lixenwraith/daylog"
)

// Demonstrates the daily rotation policy: files older than the compression
// delay are zipped, files older than the retention window are deleted.
// Pre-seed ./logs with dated files (demo_2026-08-20.log etc.) to see the
// sweep act on startup.
func main() {
	logger, err := daylog.NewBuilder().
		AppName("demo").
		Directory("./logs").
		CompressAfterDays(1).
		RetentionDays(3).
		Build()
	if err != nil {
		fmt.Printf("Build error: %v\n", err)
		return
	}

	for i := 0; i < 5; i++ {
		logger.Infof("test message %d", i)
	}

	if err := logger.Flush(time.Second); err != nil {
		fmt.Printf("Flush error: %v\n", err)
	}

	stats := logger.Stats()
	fmt.Printf("processed=%d rotations=%d compressions=%d deletions=%d\n",
		stats.Processed, stats.Rotations, stats.Compressions, stats.Deletions)

	if err := logger.Shutdown(time.Second); err != nil {
		fmt.Printf("Shutdown error: %v\n", err)
	}
}

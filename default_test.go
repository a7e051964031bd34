package daylog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The default logger is process-global, so its facade is exercised in a
// single test to avoid cross-test interference
func TestDefaultLoggerFacade(t *testing.T) {
	tmpDir := t.TempDir()

	err := InitWithDefaults(
		"app_name=facade",
		"directory="+tmpDir,
		"enable_console=false",
		"file_level=debug",
	)
	require.NoError(t, err)

	Debug("facade debug")
	Info("facade info")
	Warning("facade warning")
	Error("facade error")
	Critical("facade critical")
	ErrorCtx("facade error ctx", errors.New("wrapped cause"))
	CriticalCtx("facade critical ctx", "detail payload")

	require.NoError(t, Flush(time.Second))

	content, err := os.ReadFile(filepath.Join(tmpDir, activeLogName("facade")))
	require.NoError(t, err)

	assert.Contains(t, string(content), "facade debug")
	assert.Contains(t, string(content), "facade info")
	assert.Contains(t, string(content), "facade warning")
	assert.Contains(t, string(content), "facade error")
	assert.Contains(t, string(content), "facade critical")
	assert.Contains(t, string(content), "error: wrapped cause")
	assert.Contains(t, string(content), "detail payload")

	// Caller attribution points at the facade's caller, not the facade
	assert.Contains(t, string(content), "TestDefaultLoggerFacade")

	require.NoError(t, Shutdown(time.Second))
}

package daylog

import (
	"fmt"
	"runtime"
	"strings"
)

// fmtErrorf wrapper, prefixes all package errors consistently
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, "daylog: ") {
		format = "daylog: " + format
	}
	return fmt.Errorf(format, args...)
}

// combineErrors helper
func combineErrors(err1, err2 error) error {
	if err1 == nil {
		return err2
	}
	if err2 == nil {
		return err1
	}
	return fmt.Errorf("%v; %w", err1, err2)
}

// parseKeyValue splits a "key=value" string
func parseKeyValue(arg string) (string, string, error) {
	parts := strings.SplitN(strings.TrimSpace(arg), "=", 2)
	if len(parts) != 2 {
		return "", "", fmtErrorf("invalid format in override string '%s', expected key=value", arg)
	}
	key := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	if key == "" {
		return "", "", fmtErrorf("key cannot be empty in override string '%s'", arg)
	}
	return key, value, nil
}

// Level converts a level string to its numeric constant
func Level(levelStr string) (int64, error) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "critical":
		return LevelCritical, nil
	default:
		return 0, fmtErrorf("invalid level string: '%s' (use debug, info, warning, error, critical)", levelStr)
	}
}

// levelToString converts a numeric level to its record label
func levelToString(level int64) string {
	switch level {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARNING"
	case LevelError:
		return "ERROR"
	case LevelCritical:
		return "CRITICAL"
	case LevelProc:
		return "PROC"
	default:
		return fmt.Sprintf("LEVEL(%d)", level)
	}
}

// callerInfo resolves the emitting call site into a logical source name
// (the caller's package path), function name and line number.
func callerInfo(skip int) (source, function string, line int) {
	pc := make([]uintptr, 1)
	n := runtime.Callers(skip+1, pc) // +1 because Callers includes its own frame
	if n == 0 {
		return "(unknown)", "(unknown)", 0
	}
	frames := runtime.CallersFrames(pc[:n])
	frame, _ := frames.Next()
	if frame.Function == "" {
		return "(unknown)", "(unknown)", frame.Line
	}

	// frame.Function is "import/path/pkg.Func" or "import/path/pkg.(*T).Method"
	full := frame.Function
	slash := strings.LastIndex(full, "/")
	dot := strings.Index(full[slash+1:], ".")
	if dot < 0 {
		return full, "(unknown)", frame.Line
	}
	source = full[:slash+1+dot]
	function = full[slash+1+dot+1:]
	return source, function, frame.Line
}

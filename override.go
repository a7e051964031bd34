package daylog

import (
	"fmt"
	"strconv"
	"strings"
)

// ApplyOverride applies string key-value overrides to the logger's current
// configuration. Each override should be in the format "key=value".
// The configuration is cloned before modification to ensure thread safety.
//
// Example:
//
//	logger := daylog.New()
//	err := logger.ApplyOverride(
//	    "app_name=station",
//	    "directory=/var/log/station",
//	    "file_level=debug",
//	)
func (l *Logger) ApplyOverride(overrides ...string) error {
	cfg := l.getConfig().Clone()

	var errs []error

	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if err := applyConfigField(cfg, key, value); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return combineConfigErrors(errs)
	}

	return l.ApplyConfig(cfg)
}

// combineConfigErrors combines multiple configuration errors into a single error
func combineConfigErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}

	var sb strings.Builder
	sb.WriteString("daylog: multiple configuration errors:")
	for i, err := range errs {
		errMsg := err.Error()
		// Remove package prefix from individual errors to avoid duplication
		errMsg = strings.TrimPrefix(errMsg, "daylog: ")
		sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, errMsg))
	}
	return fmt.Errorf("%s", sb.String())
}

// applyConfigField applies a single key-value override to a Config.
// This is the core field mapping logic for string overrides.
func applyConfigField(cfg *Config, key, value string) error {
	switch key {
	case "app_name":
		cfg.AppName = value
	case "directory":
		cfg.Directory = value

	case "file_level":
		level, err := parseLevelValue(value)
		if err != nil {
			return fmtErrorf("invalid file_level value '%s': %w", value, err)
		}
		cfg.FileLevel = level
	case "console_level":
		level, err := parseLevelValue(value)
		if err != nil {
			return fmtErrorf("invalid console_level value '%s': %w", value, err)
		}
		cfg.ConsoleLevel = level

	case "enable_file":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for enable_file '%s': %w", value, err)
		}
		cfg.EnableFile = boolVal
	case "enable_console":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for enable_console '%s': %w", value, err)
		}
		cfg.EnableConsole = boolVal
	case "console_target":
		cfg.ConsoleTarget = value
	case "console_colors":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for console_colors '%s': %w", value, err)
		}
		cfg.ConsoleColors = boolVal

	case "rotation_at":
		cfg.RotationAt = value
	case "compress_after_days":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for compress_after_days '%s': %w", value, err)
		}
		cfg.CompressAfterDays = intVal
	case "retention_days":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for retention_days '%s': %w", value, err)
		}
		cfg.RetentionDays = intVal
	case "compression":
		cfg.Compression = value

	case "enable_queue":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for enable_queue '%s': %w", value, err)
		}
		cfg.EnableQueue = boolVal
	case "buffer_size":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for buffer_size '%s': %w", value, err)
		}
		cfg.BufferSize = intVal
	case "flush_interval_ms":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for flush_interval_ms '%s': %w", value, err)
		}
		cfg.FlushIntervalMs = intVal
	case "sweep_interval_mins":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for sweep_interval_mins '%s': %w", value, err)
		}
		cfg.SweepIntervalMins = intVal

	case "heartbeat_interval_s":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for heartbeat_interval_s '%s': %w", value, err)
		}
		cfg.HeartbeatIntervalS = intVal

	case "internal_errors_to_stderr":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for internal_errors_to_stderr '%s': %w", value, err)
		}
		cfg.InternalErrorsToStderr = boolVal

	default:
		return fmtErrorf("unknown config key: %s", key)
	}

	return nil
}

// parseLevelValue accepts both numeric and named level values
func parseLevelValue(value string) (int64, error) {
	if numVal, err := strconv.ParseInt(value, 10, 64); err == nil {
		if !validLevel(numVal) {
			return 0, fmtErrorf("invalid level: %d", numVal)
		}
		return numVal, nil
	}
	return Level(value)
}

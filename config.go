package daylog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/lixenwraith/config"
)

// Config holds all logger configuration values.
// A Config is immutable after it has been applied; reconfiguration goes
// through ApplyConfig with a fresh instance.
type Config struct {
	// Identity
	AppName   string `toml:"app_name"`  // Base name embedded in log file names
	Directory string `toml:"directory"` // Target log directory

	// Sink thresholds
	FileLevel    int64 `toml:"file_level"`
	ConsoleLevel int64 `toml:"console_level"`

	// Sink toggles
	EnableFile    bool   `toml:"enable_file"`
	EnableConsole bool   `toml:"enable_console"`
	ConsoleTarget string `toml:"console_target"` // "stderr" or "stdout"
	ConsoleColors bool   `toml:"console_colors"`

	// Rotation, compression, retention policy
	RotationAt        string `toml:"rotation_at"`         // Time-of-day boundary, "HH:MM"
	CompressAfterDays int64  `toml:"compress_after_days"` // Archive closed files older than this
	RetentionDays     int64  `toml:"retention_days"`      // Delete files older than this
	Compression       string `toml:"compression"`         // Archive format, "zip"

	// Write path
	EnableQueue       bool  `toml:"enable_queue"` // Queued writer goroutine vs synchronous mutex writes
	BufferSize        int64 `toml:"buffer_size"`  // Queue capacity
	FlushIntervalMs   int64 `toml:"flush_interval_ms"`
	SweepIntervalMins int64 `toml:"sweep_interval_mins"`

	// Heartbeat statistics record interval, 0 disables
	HeartbeatIntervalS int64 `toml:"heartbeat_interval_s"`

	// Internal error handling
	InternalErrorsToStderr bool `toml:"internal_errors_to_stderr"`
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	AppName:   "app",
	Directory: "./logs",

	FileLevel:    LevelDebug,
	ConsoleLevel: LevelInfo,

	EnableFile:    true,
	EnableConsole: true,
	ConsoleTarget: "stderr",
	ConsoleColors: true,

	RotationAt:        "00:00",
	CompressAfterDays: 7,
	RetentionDays:     45,
	Compression:       "zip",

	EnableQueue:       true,
	BufferSize:        1024,
	FlushIntervalMs:   100,
	SweepIntervalMins: 60,

	HeartbeatIntervalS: 0,

	InternalErrorsToStderr: false,
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	copiedConfig := defaultConfig
	return &copiedConfig
}

// NewConfigFromFile loads configuration from a TOML file and returns a validated Config
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	loader := config.New()

	if err := loader.RegisterStruct("daylog.", *cfg); err != nil {
		return nil, fmt.Errorf("failed to register config struct: %w", err)
	}

	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	if err := extractConfig(loader, "daylog.", cfg); err != nil {
		return nil, fmt.Errorf("failed to extract config values: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// extractConfig extracts values from lixenwraith/config into our Config struct
func extractConfig(loader *config.Config, prefix string, cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" {
			continue
		}

		val, found := loader.Get(prefix + tomlTag)
		if !found {
			continue // Keep default value
		}

		if err := setFieldValue(fieldValue, val); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}

	return nil
}

// setFieldValue sets a reflect.Value with proper type conversion
func setFieldValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		strVal, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		field.SetString(strVal)

	case reflect.Int64:
		switch v := value.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		default:
			return fmt.Errorf("expected int64, got %T", value)
		}

	case reflect.Bool:
		boolVal, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if strings.TrimSpace(c.AppName) == "" {
		return fmtErrorf("app_name cannot be empty")
	}
	if strings.ContainsAny(c.AppName, `/\`) {
		return fmtErrorf("app_name cannot contain path separators: %s", c.AppName)
	}

	if strings.TrimSpace(c.Directory) == "" {
		return fmtErrorf("directory cannot be empty")
	}

	if !validLevel(c.FileLevel) {
		return fmtErrorf("invalid file_level: %d", c.FileLevel)
	}
	if !validLevel(c.ConsoleLevel) {
		return fmtErrorf("invalid console_level: %d", c.ConsoleLevel)
	}

	if c.ConsoleTarget != "stdout" && c.ConsoleTarget != "stderr" {
		return fmtErrorf("invalid console_target: '%s' (use stdout or stderr)", c.ConsoleTarget)
	}

	if _, err := parseRotationAt(c.RotationAt); err != nil {
		return err
	}

	if c.Compression != "zip" {
		return fmtErrorf("invalid compression: '%s' (only zip is supported)", c.Compression)
	}

	if c.CompressAfterDays < 0 || c.RetentionDays < 0 {
		return fmtErrorf("compress_after_days and retention_days cannot be negative")
	}

	// A file must become eligible for compression no later than for deletion
	if c.RetentionDays > 0 && c.CompressAfterDays > c.RetentionDays {
		return fmtErrorf("compress_after_days (%d) cannot exceed retention_days (%d)",
			c.CompressAfterDays, c.RetentionDays)
	}

	if c.BufferSize <= 0 {
		return fmtErrorf("buffer_size must be positive: %d", c.BufferSize)
	}

	if c.FlushIntervalMs <= 0 || c.SweepIntervalMins <= 0 {
		return fmtErrorf("interval settings must be positive")
	}

	if c.HeartbeatIntervalS < 0 {
		return fmtErrorf("heartbeat_interval_s cannot be negative: %d", c.HeartbeatIntervalS)
	}

	return nil
}

// parseRotationAt parses a "HH:MM" time-of-day into an offset from midnight
func parseRotationAt(at string) (time.Duration, error) {
	parsed, err := time.Parse("15:04", strings.TrimSpace(at))
	if err != nil {
		return 0, fmtErrorf("invalid rotation_at: '%s' (expected HH:MM): %w", at, err)
	}
	return time.Duration(parsed.Hour())*time.Hour + time.Duration(parsed.Minute())*time.Minute, nil
}

// Clone creates a copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	return &copiedConfig
}

func validLevel(level int64) bool {
	switch level {
	case LevelDebug, LevelInfo, LevelWarn, LevelError, LevelCritical:
		return true
	}
	return false
}

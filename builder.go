package daylog

// Builder provides a fluent API for building logger configurations.
// It wraps a Config instance and provides chainable methods for setting values.
type Builder struct {
	cfg *Config
	err error // Accumulate errors for deferred handling
}

// NewBuilder creates a new configuration builder with default values
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// Build creates a started Logger with the built configuration
func (b *Builder) Build() (*Logger, error) {
	if b.err != nil {
		return nil, b.err
	}

	logger := New()

	if err := logger.ApplyConfig(b.cfg); err != nil {
		return nil, err
	}
	if err := logger.Start(); err != nil {
		return nil, err
	}

	return logger, nil
}

// AppName sets the base name embedded in log file names
func (b *Builder) AppName(name string) *Builder {
	b.cfg.AppName = name
	return b
}

// Directory sets the log directory
func (b *Builder) Directory(dir string) *Builder {
	b.cfg.Directory = dir
	return b
}

// FileLevel sets the file sink severity threshold
func (b *Builder) FileLevel(level int64) *Builder {
	b.cfg.FileLevel = level
	return b
}

// ConsoleLevel sets the console sink severity threshold
func (b *Builder) ConsoleLevel(level int64) *Builder {
	b.cfg.ConsoleLevel = level
	return b
}

// FileLevelString sets the file sink threshold from a level name
func (b *Builder) FileLevelString(level string) *Builder {
	if b.err != nil {
		return b
	}
	levelVal, err := Level(level)
	if err != nil {
		b.err = err
		return b
	}
	b.cfg.FileLevel = levelVal
	return b
}

// ConsoleLevelString sets the console sink threshold from a level name
func (b *Builder) ConsoleLevelString(level string) *Builder {
	if b.err != nil {
		return b
	}
	levelVal, err := Level(level)
	if err != nil {
		b.err = err
		return b
	}
	b.cfg.ConsoleLevel = levelVal
	return b
}

// RotationAt sets the time-of-day rotation boundary ("HH:MM")
func (b *Builder) RotationAt(at string) *Builder {
	b.cfg.RotationAt = at
	return b
}

// CompressAfterDays sets the age at which closed files are archived
func (b *Builder) CompressAfterDays(days int64) *Builder {
	b.cfg.CompressAfterDays = days
	return b
}

// RetentionDays sets the age at which files are deleted
func (b *Builder) RetentionDays(days int64) *Builder {
	b.cfg.RetentionDays = days
	return b
}

// EnableFile toggles the file sink
func (b *Builder) EnableFile(enable bool) *Builder {
	b.cfg.EnableFile = enable
	return b
}

// EnableConsole toggles the console sink
func (b *Builder) EnableConsole(enable bool) *Builder {
	b.cfg.EnableConsole = enable
	return b
}

// ConsoleColors toggles ANSI colorization of console records
func (b *Builder) ConsoleColors(enable bool) *Builder {
	b.cfg.ConsoleColors = enable
	return b
}

// EnableQueue toggles the queued write path
func (b *Builder) EnableQueue(enable bool) *Builder {
	b.cfg.EnableQueue = enable
	return b
}

// BufferSize sets the write queue capacity
func (b *Builder) BufferSize(size int64) *Builder {
	b.cfg.BufferSize = size
	return b
}

// HeartbeatIntervalS enables the periodic statistics record
func (b *Builder) HeartbeatIntervalS(interval int64) *Builder {
	b.cfg.HeartbeatIntervalS = interval
	return b
}

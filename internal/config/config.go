// Package config provides centralized configuration for the consolidation run.
// It loads settings from environment variables with defaults that reproduce
// the behavior of the monitor tooling, and validates them before the run
// starts so a bad setting fails fast instead of halfway through a folder.
package config

import "time"

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Logging LoggingConfig
	Archive ArchiveConfig
	Scan    ScanConfig
	Merge   MergeConfig
	Metrics MetricsConfig
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// ArchiveConfig controls the backup of original exports.
type ArchiveConfig struct {
	// Dir is the backup directory, relative to the processed folder (default: backups)
	Dir string `env:"BACKUP_DIR" default:"backups"`

	// Prefix starts every archive file name (default: backup_)
	Prefix string `env:"BACKUP_PREFIX" default:"backup_"`

	// TimeLayout formats the run start time in the archive name
	TimeLayout string `env:"BACKUP_TIME_LAYOUT" default:"2006-01-02_15-04-05"`

	// RemoveOriginals deletes each export once it is archived and parsed (default: true)
	RemoveOriginals bool `env:"REMOVE_ORIGINALS" default:"true"`
}

// ScanConfig controls which files of the folder are read.
type ScanConfig struct {
	// SkipExtensions lists extensions never handed to the parser: earlier
	// outputs and archives (default: .csv,.zip)
	SkipExtensions []string `env:"SCAN_SKIP_EXTENSIONS" default:".csv,.zip"`

	// SkipHidden ignores dot files (default: true)
	SkipHidden bool `env:"SCAN_SKIP_HIDDEN" default:"true"`
}

// MergeConfig controls record consolidation.
type MergeConfig struct {
	// Window is the largest gap between two exports of the same person that
	// still merges them (default: 3h)
	Window time.Duration `env:"MERGE_WINDOW" default:"3h"`
}

// MetricsConfig controls the run summary export.
type MetricsConfig struct {
	// TextfilePath receives the run counters in Prometheus text format.
	// Empty disables the export.
	TextfilePath string `env:"METRICS_TEXTFILE"`
}

// Default returns the configuration used when no variable is set.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Archive: ArchiveConfig{
			Dir:             "backups",
			Prefix:          "backup_",
			TimeLayout:      "2006-01-02_15-04-05",
			RemoveOriginals: true,
		},
		Scan:  ScanConfig{SkipExtensions: []string{".csv", ".zip"}, SkipHidden: true},
		Merge: MergeConfig{Window: 3 * time.Hour},
	}
}

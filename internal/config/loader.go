package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
// Returns an error if required values are missing or validation fails.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// loadStruct recursively populates struct fields from environment variables.
func loadStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		// Skip unexported fields
		if !fieldVal.CanSet() {
			continue
		}

		// Recurse into section structs
		if field.Type.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Time{}) {
			if err := loadStruct(fieldVal); err != nil {
				return err
			}
			continue
		}

		envName := field.Tag.Get("env")
		if envName == "" {
			continue
		}

		// Environment wins; fall back to the default tag
		value := os.Getenv(envName)
		if value == "" {
			if field.Tag.Get("required") == "true" {
				return fmt.Errorf("required environment variable %s is not set", envName)
			}
			value = field.Tag.Get("default")
		}

		if value == "" {
			continue
		}

		// Set the field value
		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}

	return nil
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		// Durations such as MERGE_WINDOW are int64 underneath
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			field.Set(reflect.ValueOf(d))
		} else {
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer: %w", err)
			}
			field.SetInt(i)
		}

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type: %s", field.Type().Elem().Kind())
		}
		// Comma-separated list, e.g. SCAN_SKIP_EXTENSIONS=".csv, .zip"
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				result = append(result, p)
			}
		}
		field.Set(reflect.ValueOf(result))

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	// Archive validation: backups live inside the scanned folder, and the
	// layout ends up in a file name
	if c.Archive.Dir == "" {
		errs = append(errs, "BACKUP_DIR must not be empty")
	} else if filepath.IsAbs(c.Archive.Dir) || strings.HasPrefix(filepath.Clean(c.Archive.Dir), "..") {
		errs = append(errs, fmt.Sprintf("BACKUP_DIR (%q) must be a relative path inside the folder", c.Archive.Dir))
	}
	if c.Archive.TimeLayout == "" {
		errs = append(errs, "BACKUP_TIME_LAYOUT must not be empty")
	} else if strings.ContainsAny(c.Archive.TimeLayout, `/\:`) {
		errs = append(errs, fmt.Sprintf("BACKUP_TIME_LAYOUT (%q) must not contain path separators or colons", c.Archive.TimeLayout))
	}

	// Scan validation
	for _, ext := range c.Scan.SkipExtensions {
		if !strings.HasPrefix(ext, ".") {
			errs = append(errs, fmt.Sprintf("SCAN_SKIP_EXTENSIONS entry %q must start with a dot", ext))
		}
	}
	if !c.SkipsExtension(".csv") {
		errs = append(errs, "SCAN_SKIP_EXTENSIONS must include .csv so outputs are not read back")
	}

	// Merge validation
	if c.Merge.Window <= 0 {
		errs = append(errs, "MERGE_WINDOW must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// SkipsExtension reports whether files with extension ext are excluded
// from the scan. The comparison ignores case.
func (c *Config) SkipsExtension(ext string) bool {
	for _, e := range c.Scan.SkipExtensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// String returns a compact representation of the config for logging.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}, ", c.Logging.Level, c.Logging.Format))
	b.WriteString(fmt.Sprintf("Archive: {Dir: %q, Prefix: %q, RemoveOriginals: %v}, ",
		c.Archive.Dir, c.Archive.Prefix, c.Archive.RemoveOriginals))
	b.WriteString(fmt.Sprintf("Scan: {SkipExtensions: %v, SkipHidden: %v}, ",
		c.Scan.SkipExtensions, c.Scan.SkipHidden))
	b.WriteString(fmt.Sprintf("Merge: {Window: %s}, ", c.Merge.Window))
	b.WriteString(fmt.Sprintf("Metrics: {TextfilePath: %q}", c.Metrics.TextfilePath))
	b.WriteString("}")
	return b.String()
}

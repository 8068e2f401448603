// Package config loads csvbook settings from environment variables with
// defaults, and validates them up front so a bad setting fails before any
// file is read. Command-line flags override these values.
package config

import (
	"fmt"
	"strings"
)

// Config holds all application configuration.
type Config struct {
	Convert ConvertConfig
	Logging LoggingConfig
}

// ConvertConfig holds batch conversion defaults.
type ConvertConfig struct {
	// Delimiter separates fields: "," ";" "|" or "tab" (default: ",")
	Delimiter string `env:"CSVBOOK_DELIMITER" default:","`

	// Mode is "multi" (zip of workbooks) or "single" (one workbook) (default: multi)
	Mode string `env:"CSVBOOK_MODE" default:"multi"`

	// OutputName is the output file name without extension (default: converted_files)
	OutputName string `env:"CSVBOOK_OUTPUT_NAME" default:"converted_files"`

	// OutputDir is where the output file is written (default: .)
	OutputDir string `env:"CSVBOOK_OUTPUT_DIR" default:"."`

	// Workers bounds parallel conversions in multi mode (default: 4)
	Workers int `env:"CSVBOOK_WORKERS" default:"4"`

	// AdjustColumnWidth fits column widths to content (default: false)
	AdjustColumnWidth bool `env:"CSVBOOK_ADJUST_WIDTH" default:"false"`

	// CustomNames names sheets after their source files in single mode (default: false)
	CustomNames bool `env:"CSVBOOK_CUSTOM_NAMES" default:"false"`

	// MaxFileSize is the largest input file accepted, in bytes (default: 100MB)
	MaxFileSize int64 `env:"CSVBOOK_MAX_FILE_SIZE" default:"104857600"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	validDelims := map[string]bool{",": true, ";": true, "|": true, "tab": true, `\t`: true, "\t": true}
	if !validDelims[strings.ToLower(c.Convert.Delimiter)] {
		errs = append(errs, fmt.Sprintf("CSVBOOK_DELIMITER (%q) must be one of: , ; | tab", c.Convert.Delimiter))
	}

	validModes := map[string]bool{"multi": true, "single": true}
	if !validModes[strings.ToLower(c.Convert.Mode)] {
		errs = append(errs, fmt.Sprintf("CSVBOOK_MODE (%q) must be one of: multi, single", c.Convert.Mode))
	}

	if strings.TrimSpace(c.Convert.OutputName) == "" {
		errs = append(errs, "CSVBOOK_OUTPUT_NAME must not be empty")
	}
	if c.Convert.Workers <= 0 {
		errs = append(errs, "CSVBOOK_WORKERS must be positive")
	}
	if c.Convert.MaxFileSize <= 0 {
		errs = append(errs, "CSVBOOK_MAX_FILE_SIZE must be positive")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

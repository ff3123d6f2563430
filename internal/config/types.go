// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"mason-cli/internal/options"
)

const (
	// LogLevelDebug enables debug and above.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo enables info and above.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn enables warnings and above.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError enables errors only.
	LogLevelError LogLevel = "error"
)

var (
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidMachineFileDir is the sentinel error wrapped by InvalidMachineFileDirError.
	ErrInvalidMachineFileDir = errors.New("invalid machine file directory")
	// ErrInvalidDefaultOption is the sentinel error wrapped by InvalidDefaultOptionError.
	ErrInvalidDefaultOption = errors.New("invalid default option")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogLevel selects the minimum severity emitted by the logger.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	// It wraps ErrInvalidLogLevel for errors.Is() compatibility.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// MachineFileDirPath represents a filesystem path to a directory searched
	// for cross and native files given by bare name. A valid path must be
	// non-empty and not whitespace-only.
	MachineFileDirPath string

	// InvalidMachineFileDirError is returned when a MachineFileDirPath value
	// is empty or whitespace-only. It wraps ErrInvalidMachineFileDir for
	// errors.Is() compatibility.
	InvalidMachineFileDirError struct {
		Value MachineFileDirPath
	}

	// InvalidDefaultOptionError is returned when a default_options key does
	// not parse as an option key. It wraps ErrInvalidDefaultOption for
	// errors.Is() compatibility.
	InvalidDefaultOptionError struct {
		Key string
		Err error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// LogLevel sets the minimum log severity.
		LogLevel LogLevel `json:"log_level" mapstructure:"log_level"`
		// NoColor disables colored terminal output.
		NoColor bool `json:"no_color" mapstructure:"no_color"`
		// MachineFileDirs lists directories searched for cross and native
		// files referenced by bare name.
		MachineFileDirs []MachineFileDirPath `json:"machine_file_dirs" mapstructure:"machine_file_dirs"`
		// DefaultOptions are option assignments applied to every fresh
		// configure before the command line, keyed by canonical option key.
		DefaultOptions map[string]string `json:"default_options" mapstructure:"default_options"`
	}
)

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:        LogLevelInfo,
		NoColor:         false,
		MachineFileDirs: nil,
		DefaultOptions:  nil,
	}
}

// IsValid returns whether the LogLevel is one of the recognized values.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true
	}
	return false
}

// Error implements the error interface for InvalidLogLevelError.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q: must be one of debug, info, warn, error", e.Value)
}

// Unwrap returns ErrInvalidLogLevel for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// IsValid returns whether the MachineFileDirPath is non-empty and not
// whitespace-only.
func (p MachineFileDirPath) IsValid() bool {
	return strings.TrimSpace(string(p)) != ""
}

// Error implements the error interface for InvalidMachineFileDirError.
func (e *InvalidMachineFileDirError) Error() string {
	return fmt.Sprintf("invalid machine file directory %q: must not be empty or whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidMachineFileDir for errors.Is() compatibility.
func (e *InvalidMachineFileDirError) Unwrap() error { return ErrInvalidMachineFileDir }

// Error implements the error interface for InvalidDefaultOptionError.
func (e *InvalidDefaultOptionError) Error() string {
	return fmt.Sprintf("invalid default option %q: %v", e.Key, e.Err)
}

// Unwrap returns ErrInvalidDefaultOption for errors.Is() compatibility.
func (e *InvalidDefaultOptionError) Unwrap() error { return ErrInvalidDefaultOption }

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// IsValid validates the whole configuration and collects every field-level
// problem instead of stopping at the first.
func (c *Config) IsValid() (bool, []error) {
	var errs []error

	if c.LogLevel != "" && !c.LogLevel.IsValid() {
		errs = append(errs, &InvalidLogLevelError{Value: c.LogLevel})
	}
	for _, dir := range c.MachineFileDirs {
		if !dir.IsValid() {
			errs = append(errs, &InvalidMachineFileDirError{Value: dir})
		}
	}
	for key := range c.DefaultOptions {
		if _, err := options.ParseKey(key); err != nil {
			errs = append(errs, &InvalidDefaultOptionError{Key: key, Err: err})
		}
	}

	return len(errs) == 0, errs
}

// DefaultOptionsList converts the configured default options into the bulk
// list form the option store consumes, in sorted key order.
func (c *Config) DefaultOptionsList() (*options.List, error) {
	out := options.NewList()
	keys := make([]string, 0, len(c.DefaultOptions))
	for k := range c.DefaultOptions {
		keys = append(keys, k)
	}
	// Map iteration order is random; sort for deterministic application.
	sort.Strings(keys)
	for _, raw := range keys {
		k, err := options.ParseKey(raw)
		if err != nil {
			return nil, &InvalidDefaultOptionError{Key: raw, Err: err}
		}
		out.Set(k, c.DefaultOptions[raw])
	}
	return out, nil
}

// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/mason/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/mason/config.cue on macOS, %APPDATA%\mason\config.cue
// on Windows). The package provides type-safe configuration access and covers log level
// selection, color output, machine file search directories, and persistent option
// defaults applied to every fresh configure.
//
// Configuration validation is performed against a CUE schema (config_schema.cue) to ensure
// type safety and provide clear error messages for invalid configurations.
package config

// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for mason.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"mason-cli/internal/config"
	"mason-cli/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// Verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "mason",
		Short: "A fast and user friendly build system configurator",
		Long: TitleStyle.Render("mason") + SubtitleStyle.Render(" - A fast and user friendly build system configurator") + `

mason configures a build directory from a source tree: it resolves
project, builtin, and toolchain options, records them in a persistent
cache, and keeps the configuration reproducible across reconfigures.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Run 'mason setup builddir' in your project directory
  2. Adjust options with 'mason configure builddir -Doption=value'
  3. Inspect the result with 'mason introspect --buildoptions builddir'

` + SubtitleStyle.Render("Examples:") + `
  mason setup build                      Configure the 'build' directory
  mason setup build -Dbuildtype=release  Configure with a release build
  mason configure build -Dwerror=true    Change an option afterwards
  mason introspect --buildoptions build  List all options as JSON
  mason config show                      Show current configuration`,
	}

	// app is the shared composition root for all command handlers.
	app = NewApp(Dependencies{})

	// loadedConfig holds the configuration read by initRootConfig.
	loadedConfig *config.Config
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/mason/config.cue)")

	// Add subcommands
	rootCmd.AddCommand(newSetupCommand(app))
	rootCmd.AddCommand(newConfigureCommand(app))
	rootCmd.AddCommand(newIntrospectCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig loads the config file and wires the global logger.
func initRootConfig() {
	cfg, err := app.Config.Load(context.Background(), config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		// Always surface config loading errors to the user
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
		cfg = config.DefaultConfig()
	}

	loadedConfig = cfg

	if cfg.NoColor {
		_ = os.Setenv("NO_COLOR", "1")
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "mason",
	})
	logger.SetLevel(logLevelFor(cfg.LogLevel))
	slog.SetDefault(slog.New(logger))
}

// logLevelFor maps the config log level to the logger's level, with the
// --verbose flag forcing debug.
func logLevelFor(level config.LogLevel) log.Level {
	if verbose {
		return log.DebugLevel
	}
	switch level {
	case config.LogLevelDebug:
		return log.DebugLevel
	case config.LogLevelWarn:
		return log.WarnLevel
	case config.LogLevelError:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// renderIssue writes the actionable description of a known failure mode to
// stderr before the error itself propagates.
func renderIssue(id issue.Id) {
	if is := issue.Get(id); is != nil {
		rendered, _ := is.Render("dark")
		fmt.Fprint(os.Stderr, rendered)
	}
}

// currentConfig returns the configuration loaded at startup, falling back
// to defaults when initialization has not run (as in direct handler tests).
func currentConfig() *config.Config {
	if loadedConfig != nil {
		return loadedConfig
	}
	return config.DefaultConfig()
}

// GetVerbose returns the verbose flag value
func GetVerbose() bool {
	return verbose
}

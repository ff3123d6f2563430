// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride redirects ConfigDir for tests. os.UserHomeDir() does
// not reliably respect the HOME environment variable on every platform
// (macOS in CI), so pointing tests at a temp directory needs an explicit
// hook rather than env manipulation.
var configDirOverride string

// Reset clears test overrides. Call from test cleanup to restore defaults.
func Reset() {
	configDirOverride = ""
}

// SetConfigDirOverride redirects the config directory, bypassing the
// platform lookup. Intended for tests.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

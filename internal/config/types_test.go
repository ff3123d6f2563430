// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"

	"mason-cli/internal/options"
)

func mustParseKey(t *testing.T, raw string) options.Key {
	t.Helper()
	k, err := options.ParseKey(raw)
	if err != nil {
		t.Fatalf("ParseKey(%q) returned error: %v", raw, err)
	}
	return k
}

func TestLogLevel_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level LogLevel
		want  bool
	}{
		{LogLevelDebug, true},
		{LogLevelInfo, true},
		{LogLevelWarn, true},
		{LogLevelError, true},
		{"", false},
		{"verbose", false},
		{"INFO", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			t.Parallel()
			if got := tt.level.IsValid(); got != tt.want {
				t.Errorf("LogLevel(%q).IsValid() = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestMachineFileDirPath_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path MachineFileDirPath
		want bool
	}{
		{"/opt/cross-files", true},
		{"relative/dir", true},
		{"", false},
		{"   ", false},
		{"\t", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.path), func(t *testing.T) {
			t.Parallel()
			if got := tt.path.IsValid(); got != tt.want {
				t.Errorf("MachineFileDirPath(%q).IsValid() = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestConfig_IsValid_CollectsAllErrors(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		LogLevel:        "verbose",
		MachineFileDirs: []MachineFileDirPath{"  ", "/ok"},
		DefaultOptions:  map[string]string{"bad key": "1", "werror": "true"},
	}

	valid, errs := cfg.IsValid()
	if valid {
		t.Fatal("expected config to be invalid")
	}
	if len(errs) != 3 {
		t.Fatalf("expected 3 field errors, got %d: %v", len(errs), errs)
	}

	var haveLevel, haveDir, haveOption bool
	for _, err := range errs {
		switch {
		case errors.Is(err, ErrInvalidLogLevel):
			haveLevel = true
		case errors.Is(err, ErrInvalidMachineFileDir):
			haveDir = true
		case errors.Is(err, ErrInvalidDefaultOption):
			haveOption = true
		}
	}
	if !haveLevel || !haveDir || !haveOption {
		t.Errorf("missing expected error kinds: level=%v dir=%v option=%v", haveLevel, haveDir, haveOption)
	}
}

func TestConfig_IsValid_EmptyLogLevelAllowed(t *testing.T) {
	t.Parallel()

	// An unset level falls back to the default at load time
	cfg := &Config{}
	if valid, errs := cfg.IsValid(); !valid {
		t.Errorf("empty config should be valid, got errors: %v", errs)
	}
}

func TestInvalidConfigError_Unwrap(t *testing.T) {
	t.Parallel()

	err := &InvalidConfigError{FieldErrors: []error{
		&InvalidLogLevelError{Value: "verbose"},
	}}

	if !errors.Is(err, ErrInvalidConfig) {
		t.Error("InvalidConfigError should wrap ErrInvalidConfig")
	}

	var logErr *InvalidLogLevelError
	if errors.As(err.FieldErrors[0], &logErr) {
		if logErr.Value != "verbose" {
			t.Errorf("Value = %q, want verbose", logErr.Value)
		}
	} else {
		t.Error("field error should be *InvalidLogLevelError")
	}
}

func TestDefaultOptionsList(t *testing.T) {
	t.Parallel()

	cfg := &Config{DefaultOptions: map[string]string{
		"werror":        "true",
		"buildtype":     "release",
		"sub:werror":    "false",
		"build.c_args":  "-O2",
		"warning_level": "3",
	}}

	list, err := cfg.DefaultOptionsList()
	if err != nil {
		t.Fatalf("DefaultOptionsList() returned error: %v", err)
	}

	keys := make([]string, 0, list.Len())
	for k := range list.All() {
		keys = append(keys, k.String())
	}

	want := []string{"build.c_args", "buildtype", "sub:werror", "warning_level", "werror"}
	if len(keys) != len(want) {
		t.Fatalf("got %d keys, want %d", len(keys), len(want))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}

	if v, ok := list.Get(mustParseKey(t, "buildtype")); !ok || v != "release" {
		t.Errorf("Get(buildtype) = %v, %v; want release, true", v, ok)
	}
}

func TestDefaultOptionsList_BadKey(t *testing.T) {
	t.Parallel()

	cfg := &Config{DefaultOptions: map[string]string{"bad key": "1"}}

	_, err := cfg.DefaultOptionsList()
	if err == nil {
		t.Fatal("expected error for unparseable key")
	}
	if !errors.Is(err, ErrInvalidDefaultOption) {
		t.Errorf("error should wrap ErrInvalidDefaultOption, got: %v", err)
	}

	var optErr *InvalidDefaultOptionError
	if !errors.As(err, &optErr) {
		t.Fatalf("error should be *InvalidDefaultOptionError, got: %T", err)
	}
	if optErr.Key != "bad key" {
		t.Errorf("Key = %q, want %q", optErr.Key, "bad key")
	}
}

// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestNewProvider(t *testing.T) {
	t.Parallel()

	if NewProvider() == nil {
		t.Fatal("NewProvider() returned nil")
	}
}

func TestProvider_Load_ExplicitDir(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(cfgPath, []byte(`log_level: "debug"`), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: tmpDir})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.LogLevel != LogLevelDebug {
		t.Errorf("LogLevel = %s, want debug", cfg.LogLevel)
	}
}

func TestProvider_Load_ExplicitFileBeatsDir(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()

	dirCfg := filepath.Join(tmpDir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(dirCfg, []byte(`log_level: "debug"`), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	fileCfg := filepath.Join(tmpDir, "other.cue")
	if err := os.WriteFile(fileCfg, []byte(`log_level: "error"`), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{
		ConfigFilePath: fileCfg,
		ConfigDirPath:  tmpDir,
	})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.LogLevel != LogLevelError {
		t.Errorf("LogLevel = %s, want error (explicit file should win)", cfg.LogLevel)
	}
}

func TestProvider_Load_UnknownFieldRejected(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(cfgPath, []byte(`container_engine: "docker"`), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: tmpDir})
	if err == nil {
		t.Fatal("expected Load() to reject a field the schema does not define")
	}
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"path/filepath"
	"testing"
)

func TestIntrospect_BuildOptions(t *testing.T) {
	app, stdout, _ := newTestApp()
	buildDir := filepath.Join(t.TempDir(), "build")

	setup := newSetupCommand(app)
	setup.SetArgs([]string{buildDir, "-Dbuildtype=release"})
	if err := setup.Execute(); err != nil {
		t.Fatalf("setup returned error: %v", err)
	}
	stdout.Reset()

	introspect := newIntrospectCommand(app)
	introspect.SetArgs([]string{buildDir, "--buildoptions"})
	if err := introspect.Execute(); err != nil {
		t.Fatalf("introspect returned error: %v", err)
	}

	var opts []buildOption
	if err := json.Unmarshal(stdout.Bytes(), &opts); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(opts) == 0 {
		t.Fatal("expected at least one option")
	}

	byName := make(map[string]buildOption, len(opts))
	for _, o := range opts {
		byName[o.Name] = o
	}

	bt, ok := byName["buildtype"]
	if !ok {
		t.Fatal("buildtype missing from introspection output")
	}
	if bt.Value != "release" {
		t.Errorf("buildtype value = %v, want release", bt.Value)
	}
	if bt.Section != "builtin" {
		t.Errorf("buildtype section = %q, want builtin", bt.Section)
	}
	if bt.Type != "combo" {
		t.Errorf("buildtype type = %q, want combo", bt.Type)
	}
	if len(bt.Choices) == 0 {
		t.Error("buildtype should expose its choices")
	}

	if _, ok := byName["werror"]; !ok {
		t.Error("werror missing from introspection output")
	}
}

func TestIntrospect_ProjectInfo(t *testing.T) {
	app, stdout, _ := newTestApp()
	buildDir := filepath.Join(t.TempDir(), "build")

	setup := newSetupCommand(app)
	setup.SetArgs([]string{buildDir})
	if err := setup.Execute(); err != nil {
		t.Fatalf("setup returned error: %v", err)
	}
	stdout.Reset()

	introspect := newIntrospectCommand(app)
	introspect.SetArgs([]string{buildDir, "--projectinfo"})
	if err := introspect.Execute(); err != nil {
		t.Fatalf("introspect returned error: %v", err)
	}

	var info struct {
		Version          string `json:"version"`
		RegenGUID        string `json:"regen_guid"`
		ConfigureCommand string `json:"configure_command"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &info); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if info.Version == "" || info.RegenGUID == "" {
		t.Error("expected version and regen GUID to be populated")
	}
	if info.ConfigureCommand == "" {
		t.Error("expected a configure command")
	}
}

func TestIntrospect_NoFlags_ShowsHelp(t *testing.T) {
	app, _, _ := newTestApp()

	introspect := newIntrospectCommand(app)
	introspect.SetArgs([]string{})
	if err := introspect.Execute(); err != nil {
		t.Fatalf("introspect without flags should show help, got error: %v", err)
	}
}

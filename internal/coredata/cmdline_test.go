// SPDX-License-Identifier: MPL-2.0

package coredata

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"

	"mason-cli/internal/options"
)

func TestCmdLineRoundTrip(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()

	opts := options.NewList()
	opts.Set(options.NewKey("buildtype"), "release")
	opts.Set(options.NewKey("MixedCase"), "Value")
	opts.Set(options.NewKey("pkg_config_path"), []string{"/a", "/b,c"})
	opts.Set(options.NewKey("werror").WithSubproject("sub"), true)
	opts.Set(options.NewKey("unity_size"), 8)

	in := CmdLine{
		Options:     opts,
		CrossFiles:  []string{"arm.ini"},
		NativeFiles: []string{"native.ini", "ccache.ini"},
	}
	if err := WriteCmdLine(fs, "build", in); err != nil {
		t.Fatalf("WriteCmdLine returned error: %v", err)
	}

	out, err := ReadCmdLine(fs, "build")
	if err != nil {
		t.Fatalf("ReadCmdLine returned error: %v", err)
	}

	if diff := cmp.Diff([]string{"arm.ini"}, out.CrossFiles); diff != "" {
		t.Errorf("cross files mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"native.ini", "ccache.ini"}, out.NativeFiles); diff != "" {
		t.Errorf("native files mismatch (-want +got):\n%s", diff)
	}

	// Everything reads back as a string; the option layer coerces later.
	want := map[string]string{
		"buildtype":       "release",
		"MixedCase":       "Value",
		"pkg_config_path": "['/a', '/b,c']",
		"sub:werror":      "true",
		"unity_size":      "8",
	}
	if out.Options.Len() != len(want) {
		t.Fatalf("read %d options, want %d", out.Options.Len(), len(want))
	}
	for k, v := range out.Options.All() {
		if want[k.String()] != v {
			t.Errorf("option %s = %v, want %v", k.String(), v, want[k.String()])
		}
	}
}

func TestCmdLineKeepsKeyCase(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	opts := options.NewList()
	opts.Set(options.NewKey("SomeOption"), "x")
	if err := WriteCmdLine(fs, "build", CmdLine{Options: opts}); err != nil {
		t.Fatalf("WriteCmdLine returned error: %v", err)
	}

	data, err := afero.ReadFile(fs, CmdLinePath("build"))
	if err != nil {
		t.Fatalf("reading replay file: %v", err)
	}
	if !strings.Contains(string(data), "SomeOption") {
		t.Errorf("replay file lost the option's case:\n%s", data)
	}
}

func TestMergeOptionsNewInvocationWins(t *testing.T) {
	t.Parallel()

	recorded := options.NewList()
	recorded.Set(options.NewKey("buildtype"), "release")
	recorded.Set(options.NewKey("werror"), "true")

	fresh := options.NewList()
	fresh.Set(options.NewKey("buildtype"), "minsize")
	fresh.Set(options.NewKey("strip"), "true")

	merged := MergeOptions(recorded, fresh)

	wantOrder := []string{"buildtype", "werror", "strip"}
	var gotOrder []string
	for k := range merged.All() {
		gotOrder = append(gotOrder, k.Name)
	}
	if diff := cmp.Diff(wantOrder, gotOrder); diff != "" {
		t.Errorf("merge order mismatch (-want +got):\n%s", diff)
	}

	if v, _ := merged.Get(options.NewKey("buildtype")); v != "minsize" {
		t.Errorf("buildtype = %v, want the new invocation's minsize", v)
	}
	if v, _ := merged.Get(options.NewKey("werror")); v != "true" {
		t.Errorf("werror = %v, want the recorded true", v)
	}
}

func TestFormatConfigureCommand(t *testing.T) {
	t.Parallel()

	store := options.NewStore(options.DefaultTables(), options.Config{})
	cd := New(Params{
		Store:         store,
		CrossFiles:    []string{"arm.ini"},
		ConfigureArgs: []string{"-Dbuildtype=release", "-Dwerror=true"},
	})

	got := FormatConfigureCommand("mason", "src", "build", cd)
	want := "mason setup -Dbuildtype=release -Dwerror=true --cross-file arm.ini src build"
	if got != want {
		t.Errorf("FormatConfigureCommand = %q, want %q", got, want)
	}
}

// SPDX-License-Identifier: MPL-2.0

package machinefile

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"

	"mason-cli/internal/options"
)

func writeFile(t *testing.T, fs afero.Fs, name, content string) {
	t.Helper()
	if err := afero.WriteFile(fs, name, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestParseFilesBasics(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeFile(t, fs, "cross.ini", `
[binaries]
c = '/usr/bin/arm-linux-gnueabihf-gcc'
strip = ['/usr/bin/arm-linux-gnueabihf-strip']

[properties]
needs_exe_wrapper = true
sizeof_int = 4

[host_machine]
system = 'linux'
cpu_family = 'arm'
cpu = 'armv7hl'
endian = 'little'
`)

	f, err := ParseFiles(fs, []string{"cross.ini"})
	if err != nil {
		t.Fatalf("ParseFiles returned error: %v", err)
	}

	if got, _ := f.Lookup("binaries", "c"); got != "/usr/bin/arm-linux-gnueabihf-gcc" {
		t.Errorf("binaries.c = %v", got)
	}
	strip, _ := f.Lookup("binaries", "strip")
	if diff := cmp.Diff([]string{"/usr/bin/arm-linux-gnueabihf-strip"}, strip); diff != "" {
		t.Errorf("binaries.strip mismatch (-want +got):\n%s", diff)
	}
	if got, _ := f.Lookup("properties", "needs_exe_wrapper"); got != true {
		t.Errorf("needs_exe_wrapper = %v, want true", got)
	}
	if got, _ := f.Lookup("properties", "sizeof_int"); got != int64(4) {
		t.Errorf("sizeof_int = %v, want 4", got)
	}
	if got, _ := f.Lookup("host_machine", "cpu_family"); got != "arm" {
		t.Errorf("cpu_family = %v, want arm", got)
	}
}

func TestParseFilesConstants(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeFile(t, fs, "cross.ini", `
[constants]
toolchain = '/opt/toolchain'
common_flags = ['--sysroot=/opt/sysroot']
arch = 'arm-' + 'linux'
enabled = True

[binaries]
c = toolchain / 'bin' / 'cc'

[properties]
c_args = common_flags + ['-DNDEBUG']
use_it = enabled
`)

	f, err := ParseFiles(fs, []string{"cross.ini"})
	if err != nil {
		t.Fatalf("ParseFiles returned error: %v", err)
	}

	if got, _ := f.Lookup(ConstantsSection, "arch"); got != "arm-linux" {
		t.Errorf("constants.arch = %v, want arm-linux", got)
	}
	if got, _ := f.Lookup("binaries", "c"); got != "/opt/toolchain/bin/cc" {
		t.Errorf("binaries.c = %v, want the joined path", got)
	}
	args, _ := f.Lookup("properties", "c_args")
	if diff := cmp.Diff([]string{"--sysroot=/opt/sysroot", "-DNDEBUG"}, args); diff != "" {
		t.Errorf("c_args mismatch (-want +got):\n%s", diff)
	}
	if got, _ := f.Lookup("properties", "use_it"); got != true {
		t.Errorf("use_it = %v, want true", got)
	}
}

func TestParseFilesLaterFileWins(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeFile(t, fs, "base.ini", `
[binaries]
c = 'gcc'
cpp = 'g++'
`)
	writeFile(t, fs, "override.ini", `
[binaries]
c = 'clang'
`)

	f, err := ParseFiles(fs, []string{"base.ini", "override.ini"})
	if err != nil {
		t.Fatalf("ParseFiles returned error: %v", err)
	}
	if got, _ := f.Lookup("binaries", "c"); got != "clang" {
		t.Errorf("binaries.c = %v, want the later file's clang", got)
	}
	if got, _ := f.Lookup("binaries", "cpp"); got != "g++" {
		t.Errorf("binaries.cpp = %v, want the earlier file's g++", got)
	}
}

func TestParseFilesUndefinedConstant(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeFile(t, fs, "cross.ini", `
[binaries]
c = toolchain / 'cc'
`)

	_, err := ParseFiles(fs, []string{"cross.ini"})
	if !errors.Is(err, ErrUndefinedConstant) {
		t.Fatalf("ParseFiles error = %v, want ErrUndefinedConstant", err)
	}
	var uerr *UndefinedConstantError
	if !errors.As(err, &uerr) {
		t.Fatalf("error is not a *UndefinedConstantError: %v", err)
	}
	if uerr.Name != "toolchain" {
		t.Errorf("UndefinedConstantError.Name = %q, want toolchain", uerr.Name)
	}
}

func TestParseFilesAggregatesErrors(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeFile(t, fs, "cross.ini", `
[properties]
first = missing_one
second = 'fine'
third = another_missing
`)

	_, err := ParseFiles(fs, []string{"cross.ini"})
	if err == nil {
		t.Fatal("ParseFiles accepted a file with undefined constants")
	}
	var first, second *UndefinedConstantError
	if !errors.As(err, &first) {
		t.Fatalf("aggregated error lost the constant errors: %v", err)
	}
	_ = second
	// Both entries must be reported, not just the first.
	for _, name := range []string{"missing_one", "another_missing"} {
		if !containsConstant(err, name) {
			t.Errorf("aggregated error does not mention %q: %v", name, err)
		}
	}
}

func containsConstant(err error, name string) bool {
	var uerr *UndefinedConstantError
	for e := err; e != nil; {
		if errors.As(e, &uerr) && uerr.Name == name {
			return true
		}
		if u, ok := e.(interface{ WrappedErrors() []error }); ok {
			for _, w := range u.WrappedErrors() {
				if containsConstant(w, name) {
					return true
				}
			}
			return false
		}
		e = errors.Unwrap(e)
	}
	return false
}

func TestParseFilesMalformedName(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeFile(t, fs, "cross.ini", `
[binaries]
c 'gcc' = 'x'
`)

	_, err := ParseFiles(fs, []string{"cross.ini"})
	if !errors.Is(err, ErrMalformedName) {
		t.Fatalf("ParseFiles error = %v, want ErrMalformedName", err)
	}
}

func TestParseFilesBadValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
	}{
		{name: "unterminated string", value: `'gcc`},
		{name: "string plus number", value: `'gcc' + 3`},
		{name: "path join on array", value: `['a'] / 'b'`},
		{name: "number element", value: `['a', 3]`},
		{name: "trailing operator", value: `'a' +`},
		{name: "trailing garbage", value: `'a' 'b'`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := afero.NewMemMapFs()
			writeFile(t, fs, "cross.ini", "[properties]\nx = "+tt.value+"\n")

			_, err := ParseFiles(fs, []string{"cross.ini"})
			if !errors.Is(err, ErrBadValue) {
				t.Fatalf("ParseFiles error = %v, want ErrBadValue", err)
			}
		})
	}
}

func TestOptionDefaults(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeFile(t, fs, "native.ini", `
[built-in options]
buildtype = 'release'
pkg_config_path = ['/opt/pc']

[project options]
docs = true
`)

	f, err := ParseFiles(fs, []string{"native.ini"})
	if err != nil {
		t.Fatalf("ParseFiles returned error: %v", err)
	}
	list, err := f.OptionDefaults()
	if err != nil {
		t.Fatalf("OptionDefaults returned error: %v", err)
	}

	if v, _ := list.Get(options.NewKey("buildtype")); v != "release" {
		t.Errorf("buildtype = %v, want release", v)
	}
	pc, _ := list.Get(options.NewKey("pkg_config_path"))
	if diff := cmp.Diff([]string{"/opt/pc"}, pc); diff != "" {
		t.Errorf("pkg_config_path mismatch (-want +got):\n%s", diff)
	}
	if v, _ := list.Get(options.NewKey("docs")); v != true {
		t.Errorf("docs = %v, want true", v)
	}

	// The list feeds straight into the option store.
	store := options.NewStore(options.DefaultTables(), options.Config{})
	if _, err := store.SetOptions(list, options.SetOptionsArgs{}); err != nil {
		t.Fatalf("SetOptions returned error: %v", err)
	}
	got, err := store.Get(options.NewKey("buildtype"))
	if err != nil {
		t.Fatalf("Get(buildtype) returned error: %v", err)
	}
	if got != "release" {
		t.Errorf("stored buildtype = %v, want release", got)
	}
}

func TestParseFilesEmptyList(t *testing.T) {
	t.Parallel()

	f, err := ParseFiles(afero.NewMemMapFs(), nil)
	if err != nil {
		t.Fatalf("ParseFiles(nil) returned error: %v", err)
	}
	if len(f.Sections()) != 0 {
		t.Errorf("empty parse has sections: %v", f.Sections())
	}
}

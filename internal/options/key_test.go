// SPDX-License-Identifier: MPL-2.0

package options

import (
	"errors"
	"testing"

	"mason-cli/internal/machine"
)

func TestParseKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want Key
	}{
		{
			name: "plain name",
			raw:  "buildtype",
			want: Key{Name: "buildtype"},
		},
		{
			name: "subproject scoped",
			raw:  "zlib:default_library",
			want: Key{Name: "default_library", Subproject: "zlib"},
		},
		{
			name: "build machine",
			raw:  "build.pkg_config_path",
			want: Key{Name: "pkg_config_path", Machine: machine.Build},
		},
		{
			name: "language prefixed",
			raw:  "cpp_std",
			want: Key{Name: "std", Lang: "cpp"},
		},
		{
			name: "longest language wins",
			raw:  "objcpp_args",
			want: Key{Name: "args", Lang: "objcpp"},
		},
		{
			name: "all segments",
			raw:  "sub:build.c_link_args",
			want: Key{Name: "link_args", Subproject: "sub", Machine: machine.Build, Lang: "c"},
		},
		{
			name: "underscore name is not a language",
			raw:  "custom_opt",
			want: Key{Name: "custom_opt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseKey(tt.raw)
			if err != nil {
				t.Fatalf("ParseKey(%q) returned error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("ParseKey(%q) = %#v, want %#v", tt.raw, got, tt.want)
			}
			if rendered := got.String(); rendered != tt.raw {
				t.Errorf("String() = %q, want round-trip back to %q", rendered, tt.raw)
			}
		})
	}
}

func TestParseKeyErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "empty subproject", raw: ":buildtype"},
		{name: "double subproject", raw: "a:b:buildtype"},
		{name: "bare machine segment", raw: "build."},
		{name: "machine after subproject only", raw: "sub:build."},
		{name: "machine embedded in name", raw: "c_build.args"},
		{name: "whitespace in name", raw: "bad key"},
		{name: "tab in name", raw: "bad\tkey"},
		{name: "quote in name", raw: `say_"cheese"`},
		{name: "single quote in name", raw: "it's"},
		{name: "whitespace in subproject", raw: "bad sub:werror"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseKey(tt.raw)
			if !errors.Is(err, ErrKeySyntax) {
				t.Fatalf("ParseKey(%q) error = %v, want ErrKeySyntax", tt.raw, err)
			}
			var kerr *KeySyntaxError
			if !errors.As(err, &kerr) {
				t.Fatalf("ParseKey(%q) error is not a *KeySyntaxError: %v", tt.raw, err)
			}
			if kerr.Raw != tt.raw {
				t.Errorf("KeySyntaxError.Raw = %q, want %q", kerr.Raw, tt.raw)
			}
		})
	}
}

func TestKeyDerivation(t *testing.T) {
	t.Parallel()

	base := NewKey("std").WithLang("cpp").WithSubproject("sub")
	derived := base.AsBuild()

	if base.Machine != machine.Host {
		t.Errorf("deriving AsBuild mutated the original key: %#v", base)
	}
	if derived.Machine != machine.Build {
		t.Errorf("AsBuild() machine = %v, want build", derived.Machine)
	}
	if got := derived.AsRoot().Subproject; got != "" {
		t.Errorf("AsRoot() subproject = %q, want empty", got)
	}
	if derived.String() != "sub:build.cpp_std" {
		t.Errorf("String() = %q, want %q", derived.String(), "sub:build.cpp_std")
	}
}

// SPDX-License-Identifier: MPL-2.0

package options

import (
	"testing"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tables := DefaultTables()

	tests := []struct {
		name string
		key  Key
		want Group
	}{
		{name: "dir builtin", key: NewKey("libdir"), want: GroupBuiltin},
		{name: "core builtin", key: NewKey("buildtype"), want: GroupBuiltin},
		{name: "per-machine builtin", key: NewKey("pkg_config_path"), want: GroupBuiltin},
		{name: "per-machine builtin for build", key: NewKey("pkg_config_path").AsBuild(), want: GroupBuiltin},
		{name: "subproject builtin", key: NewKey("werror").WithSubproject("sub"), want: GroupBuiltin},
		{name: "base toggle", key: NewKey("b_lto"), want: GroupBase},
		{name: "compiler option", key: NewKey("std").WithLang("cpp"), want: GroupCompiler},
		{name: "compiler option for build", key: NewKey("args").WithLang("c").AsBuild(), want: GroupCompiler},
		{name: "backend option", key: NewKey("backend_max_links"), want: GroupBackend},
		{name: "user option", key: NewKey("enable_docs"), want: GroupUser},
		{name: "subproject user option", key: NewKey("enable_docs").WithSubproject("sub"), want: GroupUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tables.Classify(tt.key); got != tt.want {
				t.Errorf("Classify(%s) = %s, want %s", tt.key.String(), got, tt.want)
			}
		})
	}
}

// Base names outrank everything: a base name carrying a language prefix must
// still classify as base, and a builtin-shaped name with a language prefix
// must classify as compiler.
func TestClassifyPriority(t *testing.T) {
	t.Parallel()

	tables := DefaultTables()

	if got := tables.Classify(NewKey("b_lto").WithLang("c")); got != GroupBase {
		t.Errorf("Classify(c_b_lto) = %s, want base", got)
	}
	if got := tables.Classify(NewKey("backend_max_links").WithLang("c")); got != GroupCompiler {
		t.Errorf("Classify(c_backend_max_links) = %s, want compiler", got)
	}
}

func TestClassifyPanicsOnImpossibleMachine(t *testing.T) {
	t.Parallel()

	tables := DefaultTables()

	for _, key := range []Key{
		NewKey("b_lto").AsBuild(),
		NewKey("enable_docs").AsBuild(),
	} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Classify(%s) did not panic", key.String())
				}
			}()
			tables.Classify(key)
		}()
	}
}

func TestClassifyIsMachineIndependentForBuiltins(t *testing.T) {
	t.Parallel()

	tables := DefaultTables()

	// Global builtins classify the same regardless of machine; the store's
	// lookup, not the classifier, rejects build-machine keys for options
	// that are not duplicated per machine.
	if got := tables.Classify(NewKey("buildtype").AsBuild()); got != GroupBuiltin {
		t.Errorf("Classify(build.buildtype) = %s, want builtin", got)
	}
}

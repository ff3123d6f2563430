// SPDX-License-Identifier: MPL-2.0

package options

import (
	"fmt"
	"runtime"
	"strings"
)

// BackendNamePrefix is the reserved name prefix that routes a key to the
// backend option group.
const BackendNamePrefix = "backend_"

// Builtin is the immutable declaration of one builtin option: everything
// needed to instantiate its Value with the right kind, constraints, and
// default.
type Builtin struct {
	Name        string
	Description string
	Kind        Kind
	Default     any
	Yielding    bool
	Choices     []string
	Min, Max    *int
	SplitArgs   bool
	AllowDups   bool
}

// NewValue instantiates the option's Value seeded with val. Passing the
// declaration's Default is the common case; subproject copies seed from the
// root project's current value instead.
func (b Builtin) NewValue(val any) Value {
	switch b.Kind {
	case KindBool:
		return NewBool(b.Description, b.Yielding, val.(bool))
	case KindString:
		return NewString(b.Description, b.Yielding, val.(string))
	case KindInteger:
		return NewInteger(b.Description, b.Yielding, b.Min, b.Max, val.(int))
	case KindUmask:
		return NewUmask(b.Description, b.Yielding, val)
	case KindCombo:
		return NewCombo(b.Description, b.Yielding, b.Choices, val.(string))
	case KindFeature:
		return NewFeature(b.Description, b.Yielding, val.(string))
	case KindArray:
		return NewArray(b.Description, b.Yielding, toStringList(val), ArrayConfig{
			SplitArgs: b.SplitArgs,
			AllowDups: b.AllowDups,
			Choices:   b.Choices,
		})
	}
	panic(fmt.Sprintf("options: builtin %q has unknown kind %d", b.Name, b.Kind))
}

func toStringList(val any) []string {
	if val == nil {
		return nil
	}
	return val.([]string)
}

// Tables is the immutable set of static option declarations the store is
// constructed around: builtin directory and core options, per-machine
// builtins, base (toolchain toggle) options, prefix-dependent directory
// defaults, and the known backend names. There is no mutation API; every
// store gets its tables injected at construction.
type Tables struct {
	dir        []Builtin
	core       []Builtin
	perMachine []Builtin
	base       []Builtin

	// noPrefix maps a directory option name to its default value keyed by
	// well-known install prefixes. These options never get prefix-relative
	// sanitization.
	noPrefix map[string]map[string]string

	byName           map[string]Builtin
	perMachineByName map[string]Builtin
	baseByName       map[string]Builtin

	backends []string
}

func intPtr(n int) *int { return &n }

// DefaultPrefix returns the platform install prefix default.
func DefaultPrefix() string {
	if runtime.GOOS == "windows" {
		return "c:/"
	}
	return "/usr/local"
}

// DefaultTables returns the standard option declarations.
func DefaultTables() *Tables {
	t := &Tables{
		dir: []Builtin{
			{Name: "prefix", Description: "Installation prefix", Kind: KindString, Default: DefaultPrefix(), Yielding: true},
			{Name: "bindir", Description: "Executable directory", Kind: KindString, Default: "bin", Yielding: true},
			{Name: "datadir", Description: "Data file directory", Kind: KindString, Default: "share", Yielding: true},
			{Name: "includedir", Description: "Header file directory", Kind: KindString, Default: "include", Yielding: true},
			{Name: "infodir", Description: "Info page directory", Kind: KindString, Default: "share/info", Yielding: true},
			{Name: "libdir", Description: "Library directory", Kind: KindString, Default: "lib", Yielding: true},
			{Name: "libexecdir", Description: "Library executable directory", Kind: KindString, Default: "libexec", Yielding: true},
			{Name: "localedir", Description: "Locale data directory", Kind: KindString, Default: "share/locale", Yielding: true},
			{Name: "localstatedir", Description: "Localstate data directory", Kind: KindString, Default: "var", Yielding: true},
			{Name: "mandir", Description: "Manual page directory", Kind: KindString, Default: "share/man", Yielding: true},
			{Name: "sbindir", Description: "System executable directory", Kind: KindString, Default: "sbin", Yielding: true},
			{Name: "sharedstatedir", Description: "Architecture-independent data directory", Kind: KindString, Default: "com", Yielding: true},
			{Name: "sysconfdir", Description: "Sysconf data directory", Kind: KindString, Default: "etc", Yielding: true},
		},
		core: []Builtin{
			{Name: "auto_features", Description: "Override value of all 'auto' features", Kind: KindFeature, Default: FeatureAuto, Yielding: true},
			{Name: "backend", Description: "Backend to use", Kind: KindCombo, Default: "ninja", Yielding: true,
				Choices: []string{"ninja", "vs", "vs2010", "vs2015", "vs2017", "vs2019", "xcode"}},
			{Name: "buildtype", Description: "Build type to use", Kind: KindCombo, Default: "debug", Yielding: true,
				Choices: []string{"plain", "debug", "debugoptimized", "release", "minsize", "custom"}},
			{Name: "debug", Description: "Debug", Kind: KindBool, Default: true, Yielding: true},
			{Name: "default_library", Description: "Default library type", Kind: KindCombo, Default: "shared", Yielding: false,
				Choices: []string{"shared", "static", "both"}},
			{Name: "errorlogs", Description: "Whether to print the logs from failing tests", Kind: KindBool, Default: true, Yielding: true},
			{Name: "install_umask", Description: "Default umask to apply on permissions of installed files", Kind: KindUmask, Default: 0o022, Yielding: true},
			{Name: "layout", Description: "Build directory layout", Kind: KindCombo, Default: "mirror", Yielding: true,
				Choices: []string{"mirror", "flat"}},
			{Name: "optimization", Description: "Optimization level", Kind: KindCombo, Default: "0", Yielding: true,
				Choices: []string{"0", "g", "1", "2", "3", "s"}},
			{Name: "stdsplit", Description: "Split stdout and stderr in test logs", Kind: KindBool, Default: true, Yielding: true},
			{Name: "strip", Description: "Strip targets on install", Kind: KindBool, Default: false, Yielding: true},
			{Name: "unity", Description: "Unity build", Kind: KindCombo, Default: "off", Yielding: true,
				Choices: []string{"on", "off", "subprojects"}},
			{Name: "unity_size", Description: "Unity block size", Kind: KindInteger, Default: 4, Yielding: true, Min: intPtr(2)},
			{Name: "warning_level", Description: "Compiler warning level to use", Kind: KindCombo, Default: "1", Yielding: false,
				Choices: []string{"0", "1", "2", "3"}},
			{Name: "werror", Description: "Treat warnings as errors", Kind: KindBool, Default: false, Yielding: false},
			{Name: "wrap_mode", Description: "Wrap mode", Kind: KindCombo, Default: "default", Yielding: true,
				Choices: []string{"default", "nofallback", "nodownload", "forcefallback"}},
			{Name: "force_fallback_for", Description: "Force fallback for those subprojects", Kind: KindArray, Yielding: true},
		},
		perMachine: []Builtin{
			{Name: "pkg_config_path", Description: "List of additional paths for pkg-config to search", Kind: KindArray, Yielding: true},
			{Name: "cmake_prefix_path", Description: "List of additional prefixes for cmake to search", Kind: KindArray, Yielding: true},
		},
		base: []Builtin{
			{Name: "b_pch", Description: "Use precompiled headers", Kind: KindBool, Default: true},
			{Name: "b_lto", Description: "Use link time optimization", Kind: KindBool, Default: false},
			{Name: "b_sanitize", Description: "Code sanitizer to use", Kind: KindCombo, Default: "none",
				Choices: []string{"none", "address", "thread", "undefined", "memory", "address,undefined"}},
			{Name: "b_lundef", Description: "Use -Wl,--no-undefined when linking", Kind: KindBool, Default: true},
			{Name: "b_asneeded", Description: "Use -Wl,--as-needed when linking", Kind: KindBool, Default: true},
			{Name: "b_pgo", Description: "Use profile guided optimization", Kind: KindCombo, Default: "off",
				Choices: []string{"off", "generate", "use"}},
			{Name: "b_coverage", Description: "Enable coverage tracking", Kind: KindBool, Default: false},
			{Name: "b_colorout", Description: "Use colored output", Kind: KindCombo, Default: "always",
				Choices: []string{"auto", "always", "never"}},
			{Name: "b_ndebug", Description: "Disable asserts", Kind: KindCombo, Default: "false",
				Choices: []string{"true", "false", "if-release"}},
			{Name: "b_staticpic", Description: "Build static libraries as position independent", Kind: KindBool, Default: true},
			{Name: "b_pie", Description: "Build executables as position independent", Kind: KindBool, Default: false},
			{Name: "b_bitcode", Description: "Generate and embed bitcode", Kind: KindBool, Default: false},
			{Name: "b_vscrt", Description: "VS runtime library to use", Kind: KindCombo, Default: "from_buildtype",
				Choices: []string{"none", "md", "mdd", "mt", "mtd", "from_buildtype"}},
		},
		noPrefix: map[string]map[string]string{
			"sysconfdir":     {"/usr": "/etc"},
			"localstatedir":  {"/usr": "/var", "/usr/local": "/var/local"},
			"sharedstatedir": {"/usr": "/var/lib", "/usr/local": "/var/local/lib"},
		},
		backends: []string{"ninja", "vs", "vs2010", "vs2015", "vs2017", "vs2019", "xcode"},
	}

	t.byName = make(map[string]Builtin, len(t.dir)+len(t.core))
	for _, b := range t.dir {
		t.byName[b.Name] = b
	}
	for _, b := range t.core {
		t.byName[b.Name] = b
	}
	t.perMachineByName = make(map[string]Builtin, len(t.perMachine))
	for _, b := range t.perMachine {
		t.perMachineByName[b.Name] = b
	}
	t.baseByName = make(map[string]Builtin, len(t.base))
	for _, b := range t.base {
		t.baseByName[b.Name] = b
	}
	return t
}

// BuiltinOptions returns the global builtin declarations, directory options
// first, in table order.
func (t *Tables) BuiltinOptions() []Builtin {
	out := make([]Builtin, 0, len(t.dir)+len(t.core))
	out = append(out, t.dir...)
	return append(out, t.core...)
}

// PerMachineOptions returns the builtin declarations duplicated per machine.
func (t *Tables) PerMachineOptions() []Builtin { return append([]Builtin(nil), t.perMachine...) }

// Builtin looks up a global or per-machine builtin declaration by name.
func (t *Tables) Builtin(name string) (Builtin, bool) {
	if b, ok := t.byName[name]; ok {
		return b, true
	}
	b, ok := t.perMachineByName[name]
	return b, ok
}

// BaseOption looks up a base option declaration by name.
func (t *Tables) BaseOption(name string) (Builtin, bool) {
	b, ok := t.baseByName[name]
	return b, ok
}

// IsBuiltinName reports whether name is a global or per-machine builtin.
func (t *Tables) IsBuiltinName(name string) bool {
	_, ok := t.Builtin(name)
	return ok
}

// IsPerMachineName reports whether name is duplicated per machine.
func (t *Tables) IsPerMachineName(name string) bool {
	_, ok := t.perMachineByName[name]
	return ok
}

// IsBaseName reports whether name is a base option.
func (t *Tables) IsBaseName(name string) bool {
	_, ok := t.baseByName[name]
	return ok
}

// IsDirOptionName reports whether name is an installation directory option
// subject to prefix-relative sanitization or prefix-dependent defaults.
func (t *Tables) IsDirOptionName(name string) bool {
	if _, ok := t.noPrefix[name]; ok {
		return true
	}
	for _, b := range t.dir {
		if b.Name == name {
			return true
		}
	}
	return false
}

// IsNoPrefixDirName reports whether name is excluded from prefix-relative
// sanitization.
func (t *Tables) IsNoPrefixDirName(name string) bool {
	_, ok := t.noPrefix[name]
	return ok
}

// NoPrefixDirNames returns the directory options with prefix-dependent
// defaults, in a stable order.
func (t *Tables) NoPrefixDirNames() []string {
	return []string{"sysconfdir", "localstatedir", "sharedstatedir"}
}

// PrefixedDefault returns the default value of a directory option for the
// given install prefix: the static table entry for well-known prefixes, or
// the ordinary declaration default otherwise.
func (t *Tables) PrefixedDefault(name, prefix string) any {
	if defaults, ok := t.noPrefix[name]; ok {
		if v, ok := defaults[prefix]; ok {
			return v
		}
	}
	b, ok := t.Builtin(name)
	if !ok {
		panic(fmt.Sprintf("options: prefixed default requested for non-builtin %q", name))
	}
	return b.Default
}

// Backends returns the known backend names.
func (t *Tables) Backends() []string { return append([]string(nil), t.backends...) }

// IsBackendName reports whether name carries the reserved backend prefix.
func (t *Tables) IsBackendName(name string) bool {
	return strings.HasPrefix(name, BackendNamePrefix)
}

// IsReservedName reports whether a project-declared option may not use the
// name because the build system owns it: builtin and base names, and
// anything under the backend prefix.
func (t *Tables) IsReservedName(name string) bool {
	return t.IsBuiltinName(name) || t.IsBaseName(name) || t.IsBackendName(name)
}

// Languages returns the known compiler languages.
func (t *Tables) Languages() []string { return append([]string(nil), knownLanguages...) }

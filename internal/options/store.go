// SPDX-License-Identifier: MPL-2.0

package options

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hashicorp/go-multierror"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"mason-cli/internal/machine"
)

type (
	// Config carries the store construction parameters.
	Config struct {
		// CrossBuild keeps build-machine values independently settable.
		// On a native build every bulk set mirrors host values onto the
		// build slots instead.
		CrossBuild bool
	}

	// Store is the aggregate holding every option group and implementing
	// the resolution and override algorithm. It is exclusively owned by
	// the configuring process; no internal locking is performed.
	Store struct {
		tables *Tables
		cross  bool

		// builtins holds the global builtin subset, including
		// subproject-scoped copies, keyed by (name, subproject).
		builtins *orderedmap.OrderedMap[Key, Value]
		// perMachine holds the cross-machine-duplicated builtin subset.
		// Keys are host-normalized; the slot selects the machine.
		perMachine machine.Per[*orderedmap.OrderedMap[Key, Value]]
		// base holds language-agnostic toolchain toggles keyed by name.
		base *orderedmap.OrderedMap[Key, Value]
		// compiler holds per-language options keyed by (name, language),
		// one map per machine.
		compiler machine.Per[*orderedmap.OrderedMap[Key, Value]]
		// backend holds the selected backend's options keyed by name.
		backend *orderedmap.OrderedMap[Key, Value]
		// user holds project-declared options keyed by (name, subproject).
		user *orderedmap.OrderedMap[Key, Value]
	}

	// SetOptionsArgs tunes a bulk apply.
	SetOptionsArgs struct {
		// Subproject names the subproject the options came from, for the
		// unknown-option warning.
		Subproject string
		// Strict escalates unknown options from a collected warning list
		// to an aggregated fatal error.
		Strict bool
	}
)

// NewStore builds a store around the given immutable tables and seeds the
// root project's builtin options with their defaults.
func NewStore(tables *Tables, cfg Config) *Store {
	s := &Store{
		tables:   tables,
		cross:    cfg.CrossBuild,
		builtins: orderedmap.New[Key, Value](),
		perMachine: machine.NewPer(
			orderedmap.New[Key, Value](),
			orderedmap.New[Key, Value](),
		),
		base: orderedmap.New[Key, Value](),
		compiler: machine.NewPer(
			orderedmap.New[Key, Value](),
			orderedmap.New[Key, Value](),
		),
		backend: orderedmap.New[Key, Value](),
		user:    orderedmap.New[Key, Value](),
	}
	s.initBuiltins("")
	return s
}

// Tables returns the static tables the store was constructed with.
func (s *Store) Tables() *Tables { return s.tables }

// IsCrossBuild reports whether build-machine values are independent.
func (s *Store) IsCrossBuild() bool { return s.cross }

// initBuiltins seeds builtin options for a project scope. Subproject copies
// are only created for non-yielding options (yielding ones resolve to the
// root value) and are seeded from the root project's current value.
func (s *Store) initBuiltins(subproject string) {
	for _, decl := range s.tables.BuiltinOptions() {
		s.addBuiltin(s.builtins, decl, subproject)
	}
	for _, m := range []machine.Machine{machine.Build, machine.Host} {
		for _, decl := range s.tables.PerMachineOptions() {
			s.addBuiltin(s.perMachine.Get(m), decl, subproject)
		}
	}
}

func (s *Store) addBuiltin(dst *orderedmap.OrderedMap[Key, Value], decl Builtin, subproject string) {
	k := Key{Name: decl.Name, Subproject: subproject}
	if _, ok := dst.Get(k); ok {
		return
	}
	val := decl.Default
	if subproject != "" {
		if decl.Yielding {
			return
		}
		if root, ok := dst.Get(k.AsRoot()); ok {
			val = root.Any()
		}
	}
	dst.Set(k, decl.NewValue(val))
}

// InitSubproject creates the subproject-scoped copies of the non-yielding
// builtin options. It is idempotent.
func (s *Store) InitSubproject(subproject string) {
	if subproject == "" {
		return
	}
	s.initBuiltins(subproject)
}

// InitBackendOptions registers the options of the selected backend.
func (s *Store) InitBackendOptions(backendName string) {
	switch {
	case backendName == "ninja":
		s.backend.Set(NewKey("backend_max_links"),
			NewInteger("Maximum number of linker processes to run or 0 for no limit",
				false, intPtr(0), nil, 0))
	case strings.HasPrefix(backendName, "vs"):
		s.backend.Set(NewKey("backend_startup_project"),
			NewString("Default project to execute in Visual Studio", false, ""))
	}
}

// builtinRaw resolves a builtin key to its Value, applying the yielding and
// root-project fallback. The returned Value is the live stored instance.
func (s *Store) builtinRaw(k Key) (Value, error) {
	if k.Lang != "" {
		panic(fmt.Sprintf("options: builtin lookup for %q carries a language", k.String()))
	}

	var src *orderedmap.OrderedMap[Key, Value]
	lookup := Key{Name: k.Name, Subproject: k.Subproject}
	if s.tables.IsPerMachineName(k.Name) {
		src = s.perMachine.Get(k.Machine)
	} else {
		if k.Machine != machine.Host {
			// Only the per-machine subset is duplicated; a build-machine
			// key for anything else cannot exist.
			return nil, &UnknownOptionError{Key: k}
		}
		src = s.builtins
	}

	v, ok := src.Get(lookup)
	if !ok || v.Yielding() {
		root, rootOK := src.Get(lookup.AsRoot())
		if !rootOK {
			return nil, &UnknownOptionError{Key: k}
		}
		v = root
	}
	return v, nil
}

// checkMachine rejects keys that cannot exist on the build machine before
// they reach classification. Only compiler options and the per-machine
// builtin subset are duplicated; any other build-machine key is unknown,
// whatever its name. Classify treats such keys as a caller defect, so user
// input must be filtered here first.
func (s *Store) checkMachine(k Key) error {
	if k.Machine == machine.Host {
		return nil
	}
	if s.tables.IsBaseName(k.Name) {
		return &UnknownOptionError{Key: k}
	}
	if k.Lang != "" || s.tables.IsPerMachineName(k.Name) {
		return nil
	}
	return &UnknownOptionError{Key: k}
}

// GetValue returns the live Value for a key, or an unknown-option error.
func (s *Store) GetValue(k Key) (Value, error) {
	if err := s.checkMachine(k); err != nil {
		return nil, err
	}
	switch s.tables.Classify(k) {
	case GroupBuiltin:
		return s.builtinRaw(k)
	case GroupBase:
		if v, ok := s.base.Get(NewKey(k.Name)); ok {
			return v, nil
		}
	case GroupBackend:
		if v, ok := s.backend.Get(NewKey(k.Name)); ok {
			return v, nil
		}
	case GroupCompiler:
		if v, ok := s.compiler.Get(k.Machine).Get(Key{Name: k.Name, Lang: k.Lang}); ok {
			return v, nil
		}
	case GroupUser:
		if v, ok := s.user.Get(Key{Name: k.Name, Subproject: k.Subproject}); ok {
			return v, nil
		}
	}
	return nil, &UnknownOptionError{Key: k}
}

// Get resolves a key to its stored native value.
func (s *Store) Get(k Key) (any, error) {
	v, err := s.GetValue(k)
	if err != nil {
		return nil, err
	}
	return v.Any(), nil
}

// Set validates raw input and stores it under the key. Builtin sets
// additionally recompute the derived buildtype/optimization/debug state.
func (s *Store) Set(k Key, raw any) error {
	if err := s.checkMachine(k); err != nil {
		return err
	}
	if s.tables.Classify(k) == GroupBuiltin {
		return s.setBuiltin(k, raw)
	}
	v, err := s.GetValue(k)
	if err != nil {
		return err
	}
	if err := v.Set(raw); err != nil {
		return &SetError{Key: k, Err: err}
	}
	return nil
}

func (s *Store) setBuiltin(k Key, raw any) error {
	v, err := s.builtinRaw(k)
	if err != nil {
		return err
	}

	if k.Subproject != "" {
		// An explicit subproject-scoped set pins a local copy so later
		// root changes no longer shine through, even for yielding options.
		v, err = s.pinSubprojectBuiltin(k)
		if err != nil {
			return err
		}
	}
	if err := v.Set(raw); err != nil {
		return &SetError{Key: k, Err: err}
	}

	// Derived state. The recomputations below go through the values
	// directly, never through Set, so they cannot re-trigger each other.
	switch k.Name {
	case "buildtype":
		s.setOthersFromBuildtype(k, v.Any().(string))
	case "optimization", "debug":
		s.setBuildtypeFromOthers(k)
	}
	return nil
}

// pinSubprojectBuiltin returns the subproject-local copy of a builtin,
// creating one (with yielding cleared) when the subproject has none yet.
func (s *Store) pinSubprojectBuiltin(k Key) (Value, error) {
	var src *orderedmap.OrderedMap[Key, Value]
	if s.tables.IsPerMachineName(k.Name) {
		src = s.perMachine.Get(k.Machine)
	} else {
		src = s.builtins
	}
	lookup := Key{Name: k.Name, Subproject: k.Subproject}
	if v, ok := src.Get(lookup); ok {
		return v, nil
	}
	decl, ok := s.tables.Builtin(k.Name)
	if !ok {
		return nil, &UnknownOptionError{Key: k}
	}
	decl.Yielding = false
	v := decl.NewValue(decl.Default)
	src.Set(lookup, v)
	return v, nil
}

// buildtypeComponents maps a buildtype to its (optimization, debug) pair.
// The "custom" buildtype maps to nothing and leaves both untouched.
func buildtypeComponents(buildtype string) (optimization string, debug, ok bool) {
	switch buildtype {
	case "plain":
		return "0", false, true
	case "debug":
		return "0", true, true
	case "debugoptimized":
		return "2", true, true
	case "release":
		return "3", false, true
	case "minsize":
		return "s", true, true
	}
	return "", false, false
}

// buildtypeFrom is the inverse of buildtypeComponents, defaulting to
// "custom" for combinations outside the table.
func buildtypeFrom(optimization string, debug bool) string {
	switch {
	case optimization == "0" && !debug:
		return "plain"
	case optimization == "0" && debug:
		return "debug"
	case optimization == "2" && debug:
		return "debugoptimized"
	case optimization == "3" && !debug:
		return "release"
	case optimization == "s" && debug:
		return "minsize"
	}
	return "custom"
}

func (s *Store) setOthersFromBuildtype(k Key, buildtype string) {
	opt, debug, ok := buildtypeComponents(buildtype)
	if !ok {
		return
	}
	if v, err := s.builtinRaw(k.WithName("optimization")); err == nil {
		_ = v.Set(opt)
	}
	if v, err := s.builtinRaw(k.WithName("debug")); err == nil {
		_ = v.Set(debug)
	}
}

func (s *Store) setBuildtypeFromOthers(k Key) {
	opt, err := s.builtinRaw(k.WithName("optimization"))
	if err != nil {
		return
	}
	debug, err := s.builtinRaw(k.WithName("debug"))
	if err != nil {
		return
	}
	if v, err := s.builtinRaw(k.WithName("buildtype")); err == nil {
		_ = v.Set(buildtypeFrom(opt.Any().(string), debug.Any().(bool)))
	}
}

// stripBuildNames normalizes build-machine keys onto the host machine.
// Used on native builds, where the build machine is the host machine and a
// `build.` spelling must not create an independent value.
func stripBuildNames(opts *List) *List {
	out := NewList()
	for k, v := range opts.All() {
		if k.Machine == machine.Build {
			k = k.AsHost()
		}
		out.Set(k, v)
	}
	return out
}

// SetOptions applies a batch of raw option values. The prefix is applied
// first because directory-option sanitization depends on it; unknown keys
// are collected and warned about (or, in strict mode, aggregated into the
// returned error) instead of aborting the batch; and on a native build the
// host-machine builtin and compiler values are mirrored onto the build
// machine afterwards.
//
// The returned key list names the unknown options regardless of mode.
func (s *Store) SetOptions(opts *List, args SetOptionsArgs) ([]Key, error) {
	if !s.cross {
		opts = stripBuildNames(opts)
	}

	prefixKey := NewKey("prefix")
	var prefix string
	if raw, ok := opts.Get(prefixKey); ok {
		str, ok := raw.(string)
		if !ok {
			return nil, &SetError{Key: prefixKey, Err: &NotStringError{Value: raw}}
		}
		sanitized, err := SanitizePrefix(str)
		if err != nil {
			return nil, err
		}
		prefix = sanitized
		v, err := s.builtinRaw(prefixKey)
		if err != nil {
			return nil, err
		}
		if err := v.Set(prefix); err != nil {
			return nil, &SetError{Key: prefixKey, Err: err}
		}
		// Directory options outside the prefix get their prefix-dependent
		// defaults unless the batch sets them explicitly.
		for _, name := range s.tables.NoPrefixDirNames() {
			k := NewKey(name)
			if opts.Has(k) {
				continue
			}
			if v, err := s.builtinRaw(k); err == nil {
				_ = v.Set(s.tables.PrefixedDefault(name, prefix))
			}
		}
	} else {
		v, err := s.builtinRaw(prefixKey)
		if err != nil {
			return nil, err
		}
		prefix = v.Any().(string)
	}

	var unknown []Key
	var merr *multierror.Error
	for k, raw := range opts.All() {
		if k.Name == "prefix" {
			continue
		}
		if s.tables.IsDirOptionName(k.Name) {
			sanitized, err := s.tables.SanitizeDirValue(prefix, k.Name, raw)
			if err != nil {
				return unknown, err
			}
			raw = sanitized
		}
		err := s.Set(k, raw)
		if errors.Is(err, ErrUnknownOption) {
			unknown = append(unknown, k)
			if args.Strict {
				merr = multierror.Append(merr, err)
			}
			continue
		}
		if err != nil {
			return unknown, err
		}
	}

	if len(unknown) > 0 && !args.Strict {
		names := make([]string, len(unknown))
		for i, k := range unknown {
			names[i] = k.String()
		}
		slog.Warn("unknown options", "subproject", args.Subproject, "options", strings.Join(names, ", "))
	}
	if err := merr.ErrorOrNil(); err != nil {
		return unknown, err
	}

	if !s.cross {
		s.mirrorHostToBuild()
	}
	return unknown, nil
}

// mirrorHostToBuild copies every host-machine per-machine builtin and
// compiler value onto its build-machine duplicate. Only meaningful on
// native builds.
func (s *Store) mirrorHostToBuild() {
	host := s.perMachine.Get(machine.Host)
	build := s.perMachine.Get(machine.Build)
	for pair := host.Oldest(); pair != nil; pair = pair.Next() {
		if dst, ok := build.Get(pair.Key); ok {
			_ = dst.Set(pair.Value.Any())
		} else {
			build.Set(pair.Key, cloneValue(pair.Value))
		}
	}

	hostC := s.compiler.Get(machine.Host)
	buildC := s.compiler.Get(machine.Build)
	for pair := hostC.Oldest(); pair != nil; pair = pair.Next() {
		if dst, ok := buildC.Get(pair.Key); ok {
			_ = dst.Set(pair.Value.Any())
		}
	}
}

// SetDefaultOptions merges a project's (or subproject's) declared default
// options with the invocation's pending overrides, then bulk-applies the
// result. A value declared directly for a subproject always wins over a
// non-yielding root-level default; a yielding root-level option is
// inherited unless the subproject overrides it explicitly.
func (s *Store) SetDefaultOptions(defaults *List, subproject string, pending *Pending) error {
	if pending == nil {
		pending = NewPending()
	}
	apply := NewList()

	for k, v := range defaults.All() {
		if err := s.checkMachine(k); err != nil {
			// Let the bulk apply below report it as an unknown option.
			apply.Set(k, v)
			continue
		}
		switch s.tables.Classify(k) {
		case GroupCompiler:
			for _, ck := range []Key{k, k.AsBuild()} {
				if !pending.Compiler.Has(ck) {
					pending.Compiler.Set(ck, v)
				}
			}
		case GroupBase:
			if subproject == "" && !pending.Base.Has(NewKey(k.Name)) {
				pending.Base.Set(NewKey(k.Name), v)
			}
		case GroupBuiltin:
			if k.Subproject != "" && subproject != "" {
				slog.Warn("cannot set subproject defaults from another subproject",
					"option", k.String(), "subproject", subproject)
				continue
			}
			if subproject != "" {
				k = k.WithSubproject(subproject)
			}
			if !pending.Builtin.Has(k) {
				pending.Builtin.Set(k, v)
			}
			if s.cross && s.tables.IsPerMachineName(k.Name) {
				bk := k.AsBuild()
				if !pending.Builtin.Has(bk) {
					pending.Builtin.Set(bk, v)
				}
			}
		case GroupUser:
			if subproject != "" && k.Subproject == "" {
				k = k.WithSubproject(subproject)
			}
			if k.Subproject == "" {
				apply.Set(k, v)
			} else {
				pending.Project.Set(k, v)
			}
		default:
			apply.Set(k, v)
		}
	}

	for k, v := range pending.Builtin.All() {
		if k.Subproject != subproject && k.Subproject != "" {
			continue
		}
		if k.Machine == machine.Build && !s.tables.IsPerMachineName(k.Name) {
			continue
		}
		if subproject != "" && k.Subproject == "" {
			// A pending value declared directly for this subproject beats
			// the root-level default for non-yielding options.
			if decl, ok := s.tables.Builtin(k.Name); ok && !decl.Yielding &&
				pending.Builtin.Has(k.WithSubproject(subproject)) {
				continue
			}
		}
		apply.Set(k, v)
	}

	for k, v := range pending.Project.All() {
		if k.Subproject == subproject {
			apply.Set(k, v)
		}
	}

	_, err := s.SetOptions(apply, SetOptionsArgs{Subproject: subproject})
	return err
}

// AddCompilerOption registers a per-language option if absent, applying a
// matching pending value first.
func (s *Store) AddCompilerOption(m machine.Machine, lang, name string, v Value, pending *Pending) error {
	key := Key{Name: name, Lang: lang}
	if pending != nil {
		if raw, ok := pending.Compiler.Get(Key{Name: name, Lang: lang, Machine: m}); ok {
			if err := v.Set(raw); err != nil {
				return &SetError{Key: Key{Name: name, Lang: lang, Machine: m}, Err: err}
			}
		}
	}
	dst := s.compiler.Get(m)
	if _, ok := dst.Get(key); !ok {
		dst.Set(key, v)
	}
	return nil
}

// EnableBaseOption activates a toolchain toggle supported by a detected
// compiler, applying a matching pending value first. Enabling an already
// active toggle is a no-op.
func (s *Store) EnableBaseOption(name string, pending *Pending) error {
	k := NewKey(name)
	if _, ok := s.base.Get(k); ok {
		return nil
	}
	decl, ok := s.tables.BaseOption(name)
	if !ok {
		return &UnknownOptionError{Key: k}
	}
	v := decl.NewValue(decl.Default)
	if pending != nil {
		if raw, ok := pending.Base.Get(k); ok {
			if err := v.Set(raw); err != nil {
				return &SetError{Key: k, Err: err}
			}
		}
	}
	s.base.Set(k, v)
	return nil
}

// AddUserOption registers a project-declared option. Names owned by the
// build system (builtins, base toggles, the backend prefix) are rejected:
// a user option stored under such a name would be shadowed by the owning
// group and unreachable. When a previous configure already holds a value
// of the same kind the stored instance is kept, preserving the user's
// earlier choice across reconfigures; a kind change replaces it.
func (s *Store) AddUserOption(k Key, v Value) error {
	if s.tables.IsReservedName(k.Name) {
		return &ReservedOptionError{Name: k.Name}
	}
	lookup := Key{Name: k.Name, Subproject: k.Subproject}
	if existing, ok := s.user.Get(lookup); ok && existing.Kind() == v.Kind() {
		return nil
	}
	s.user.Set(lookup, v)
	return nil
}

// UserOption pairs a project-declared option key with its declared value.
type UserOption struct {
	Key   Key
	Value Value
}

// MergeUserOptions installs a freshly declared project option set. Options
// whose kind is unchanged since the previous configure keep their stored
// value; options no longer declared are dropped. Reserved names are
// rejected up front, before any stored option is touched, so a failed
// merge leaves the previous set intact.
func (s *Store) MergeUserOptions(decls []UserOption) error {
	var merr *multierror.Error
	for _, d := range decls {
		if s.tables.IsReservedName(d.Key.Name) {
			merr = multierror.Append(merr, &ReservedOptionError{Name: d.Key.Name})
		}
	}
	if err := merr.ErrorOrNil(); err != nil {
		return err
	}

	old := s.user
	s.user = orderedmap.New[Key, Value]()
	for _, d := range decls {
		k := Key{Name: d.Key.Name, Subproject: d.Key.Subproject}
		if existing, ok := old.Get(k); ok && existing.Kind() == d.Value.Kind() {
			s.user.Set(k, existing)
			continue
		}
		s.user.Set(k, d.Value)
	}
	return nil
}

// ValidateOptionValue validates raw input against an existing option
// without storing it, returning the cleaned value.
func (s *Store) ValidateOptionValue(k Key, raw any) (any, error) {
	v, err := s.GetValue(k)
	if err != nil {
		return nil, err
	}
	cleaned, err := v.Validate(raw)
	if err != nil {
		return nil, &SetError{Key: k, Err: err}
	}
	return cleaned, nil
}

// ExternalArgs returns the user-provided compiler arguments for a language.
func (s *Store) ExternalArgs(m machine.Machine, lang string) ([]string, error) {
	return s.compilerStrings(m, lang, "args")
}

// ExternalLinkArgs returns the user-provided link arguments for a language.
func (s *Store) ExternalLinkArgs(m machine.Machine, lang string) ([]string, error) {
	return s.compilerStrings(m, lang, "link_args")
}

func (s *Store) compilerStrings(m machine.Machine, lang, name string) ([]string, error) {
	v, err := s.GetValue(Key{Name: name, Lang: lang, Machine: m})
	if err != nil {
		return nil, err
	}
	arr, ok := v.(*ArrayValue)
	if !ok {
		return nil, &SetError{Key: Key{Name: name, Lang: lang, Machine: m}, Err: &MalformedArrayError{
			Value: v.Any(), Reason: "stored option is not an array"}}
	}
	return arr.Strings(), nil
}

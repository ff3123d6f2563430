// SPDX-License-Identifier: MPL-2.0

package options

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"mason-cli/internal/machine"
)

type (
	// Entry pairs a fully qualified key with its live value and owning
	// group, for introspection and persistence.
	Entry struct {
		Key   Key
		Group Group
		Value Value
	}

	// SavedOption is the flat, codec-friendly image of one stored option.
	// Every field is concrete so the slice round-trips through encoding/gob
	// without touching the Value interface.
	SavedOption struct {
		Key         Key
		Group       Group
		Kind        Kind
		Description string
		Yielding    bool
		Choices     []string

		// Integer bounds; the Has flags distinguish "no bound" from zero.
		HasMin, HasMax bool
		Min, Max       int

		SplitArgs bool
		AllowDups bool

		// Raw is the value in its native form: bool, string, int, or
		// []string. Umask stores int or the literal "preserve".
		Raw any
	}
)

// Entries returns every stored option in stable group order: global
// builtins, per-machine builtins (host before build), base, compiler (host
// before build), backend, then user options. Within a group the insertion
// order is kept.
func (s *Store) Entries() []Entry {
	var out []Entry
	collect := func(src *orderedmap.OrderedMap[Key, Value], g Group, m machine.Machine) {
		for pair := src.Oldest(); pair != nil; pair = pair.Next() {
			k := pair.Key
			k.Machine = m
			out = append(out, Entry{Key: k, Group: g, Value: pair.Value})
		}
	}
	collect(s.builtins, GroupBuiltin, machine.Host)
	collect(s.perMachine.Get(machine.Host), GroupBuiltin, machine.Host)
	collect(s.perMachine.Get(machine.Build), GroupBuiltin, machine.Build)
	collect(s.base, GroupBase, machine.Host)
	collect(s.compiler.Get(machine.Host), GroupCompiler, machine.Host)
	collect(s.compiler.Get(machine.Build), GroupCompiler, machine.Build)
	collect(s.backend, GroupBackend, machine.Host)
	collect(s.user, GroupUser, machine.Host)
	return out
}

// Snapshot flattens the full store state for persistence. The returned
// slice, together with the construction Config, is sufficient to rebuild an
// identical store via RestoreStore.
func (s *Store) Snapshot() []SavedOption {
	entries := s.Entries()
	out := make([]SavedOption, 0, len(entries))
	for _, e := range entries {
		out = append(out, savedFromValue(e.Key, e.Group, e.Value))
	}
	return out
}

func savedFromValue(k Key, g Group, v Value) SavedOption {
	so := SavedOption{
		Key:         k,
		Group:       g,
		Kind:        v.Kind(),
		Description: v.Description(),
		Yielding:    v.Yielding(),
		Choices:     v.Choices(),
		Raw:         v.Any(),
	}
	switch t := v.(type) {
	case *IntegerValue:
		min, max := t.Bounds()
		if min != nil {
			so.HasMin, so.Min = true, *min
		}
		if max != nil {
			so.HasMax, so.Max = true, *max
		}
	case *ArrayValue:
		cfg := t.Config()
		so.SplitArgs = cfg.SplitArgs
		so.AllowDups = cfg.AllowDups
	}
	return so
}

// restoreValue rebuilds a live Value from its saved image. A kind or raw
// type mismatch means the saved data is damaged and is reported as an
// error, never a panic.
func restoreValue(so SavedOption) (Value, error) {
	bad := func(want string) error {
		return fmt.Errorf("option %q: saved %s value has type %T", so.Key.String(), want, so.Raw)
	}
	switch so.Kind {
	case KindBool:
		b, ok := so.Raw.(bool)
		if !ok {
			return nil, bad("boolean")
		}
		return NewBool(so.Description, so.Yielding, b), nil
	case KindString:
		s, ok := so.Raw.(string)
		if !ok {
			return nil, bad("string")
		}
		return NewString(so.Description, so.Yielding, s), nil
	case KindInteger:
		n, ok := so.Raw.(int)
		if !ok {
			return nil, bad("integer")
		}
		var min, max *int
		if so.HasMin {
			min = intPtr(so.Min)
		}
		if so.HasMax {
			max = intPtr(so.Max)
		}
		return NewInteger(so.Description, so.Yielding, min, max, n), nil
	case KindUmask:
		switch so.Raw.(type) {
		case int, string:
			return NewUmask(so.Description, so.Yielding, so.Raw), nil
		}
		return nil, bad("umask")
	case KindCombo:
		s, ok := so.Raw.(string)
		if !ok {
			return nil, bad("combo")
		}
		return NewCombo(so.Description, so.Yielding, so.Choices, s), nil
	case KindFeature:
		s, ok := so.Raw.(string)
		if !ok {
			return nil, bad("feature")
		}
		return NewFeature(so.Description, so.Yielding, s), nil
	case KindArray:
		list, ok := so.Raw.([]string)
		if !ok {
			return nil, bad("array")
		}
		return NewArray(so.Description, so.Yielding, list, ArrayConfig{
			SplitArgs: so.SplitArgs,
			AllowDups: so.AllowDups,
			Choices:   so.Choices,
		}), nil
	}
	return nil, fmt.Errorf("option %q: unknown saved kind %d", so.Key.String(), so.Kind)
}

// cloneValue deep-copies a live value. Round-tripping through the saved
// image cannot fail for a value the store already holds.
func cloneValue(v Value) Value {
	out, err := restoreValue(savedFromValue(Key{}, GroupBuiltin, v))
	if err != nil {
		panic(fmt.Sprintf("options: clone of live value failed: %v", err))
	}
	return out
}

// RestoreStore rebuilds a store from a snapshot. The tables and config must
// match the ones the snapshot was taken with; the saved options are placed
// back verbatim, so defaults that changed between versions do not leak into
// a restored build directory.
func RestoreStore(tables *Tables, cfg Config, saved []SavedOption) (*Store, error) {
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
	for _, so := range saved {
		v, err := restoreValue(so)
		if err != nil {
			return nil, err
		}
		k := so.Key
		switch so.Group {
		case GroupBuiltin:
			if tables.IsPerMachineName(k.Name) {
				s.perMachine.Get(k.Machine).Set(Key{Name: k.Name, Subproject: k.Subproject}, v)
			} else {
				s.builtins.Set(Key{Name: k.Name, Subproject: k.Subproject}, v)
			}
		case GroupBase:
			s.base.Set(NewKey(k.Name), v)
		case GroupCompiler:
			s.compiler.Get(k.Machine).Set(Key{Name: k.Name, Lang: k.Lang}, v)
		case GroupBackend:
			s.backend.Set(NewKey(k.Name), v)
		case GroupUser:
			s.user.Set(Key{Name: k.Name, Subproject: k.Subproject}, v)
		default:
			return nil, fmt.Errorf("option %q: unknown saved group %d", k.String(), so.Group)
		}
	}
	return s, nil
}

// SPDX-License-Identifier: MPL-2.0

// Package machinefile parses the cross and native files that describe a
// machine: its binaries, properties, CPU details, and option defaults.
// Entry values are small literal expressions, and the [constants] section
// defines names the other sections can reference.
package machinefile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"gopkg.in/ini.v1"

	"mason-cli/internal/options"
)

// ConstantsSection is evaluated before every other section so its names
// are in scope everywhere.
const ConstantsSection = "constants"

// Sections carrying option defaults.
const (
	BuiltinOptionsSection = "built-in options"
	ProjectOptionsSection = "project options"
)

var (
	// ErrMachineFile is the sentinel wrapped by every error of this
	// package.
	ErrMachineFile = errors.New("invalid machine file")
	// ErrUndefinedConstant is the sentinel wrapped by
	// UndefinedConstantError.
	ErrUndefinedConstant = fmt.Errorf("%w: undefined constant", ErrMachineFile)
	// ErrMalformedName is the sentinel wrapped by MalformedNameError.
	ErrMalformedName = fmt.Errorf("%w: malformed entry name", ErrMachineFile)
	// ErrBadValue is the sentinel wrapped by BadValueError.
	ErrBadValue = fmt.Errorf("%w: unsupported value", ErrMachineFile)
)

type (
	// UndefinedConstantError reports a reference to a name the
	// [constants] section never defined.
	UndefinedConstantError struct {
		Section string
		Entry   string
		Name    string
	}

	// MalformedNameError reports an entry name containing whitespace or
	// quote characters, usually a sign of a syntax error on the line.
	MalformedNameError struct {
		Section string
		Name    string
	}

	// BadValueError reports an entry value that is not a supported
	// literal expression.
	BadValueError struct {
		Section string
		Entry   string
		Value   string
		Reason  string
	}

	// File is a fully evaluated machine file (or concatenation of
	// several). Values are Go natives: string, bool, int64, or []string.
	File struct {
		paths    []string
		sections map[string]map[string]any
		order    []string
		// entryOrder keeps each section's entries in declaration order
		// for deterministic bulk application.
		entryOrder map[string][]string
	}
)

// Error implements the error interface for UndefinedConstantError.
func (e *UndefinedConstantError) Error() string {
	return fmt.Sprintf("[%s] %s: undefined constant %q", e.Section, e.Entry, e.Name)
}

// Unwrap returns ErrUndefinedConstant for errors.Is() compatibility.
func (e *UndefinedConstantError) Unwrap() error { return ErrUndefinedConstant }

// Error implements the error interface for MalformedNameError.
func (e *MalformedNameError) Error() string {
	return fmt.Sprintf("[%s]: malformed entry name %q", e.Section, e.Name)
}

// Unwrap returns ErrMalformedName for errors.Is() compatibility.
func (e *MalformedNameError) Unwrap() error { return ErrMalformedName }

// Error implements the error interface for BadValueError.
func (e *BadValueError) Error() string {
	return fmt.Sprintf("[%s] %s: unsupported value %q: %s", e.Section, e.Entry, e.Value, e.Reason)
}

// Unwrap returns ErrBadValue for errors.Is() compatibility.
func (e *BadValueError) Unwrap() error { return ErrBadValue }

// machineFileIniOptions keeps values verbatim: quote stripping would make
// the literal 'bin' indistinguishable from the identifier bin.
var machineFileIniOptions = ini.LoadOptions{
	KeyValueDelimiters:      "=",
	PreserveSurroundedQuote: true,
}

// ParseFiles reads and evaluates one or more machine files as a single
// logical file: later files override earlier entries, and constants
// accumulate across all of them. Evaluation problems are aggregated so a
// broken file reports every bad entry at once.
func ParseFiles(fs afero.Fs, paths []string) (*File, error) {
	if len(paths) == 0 {
		return &File{sections: map[string]map[string]any{}, entryOrder: map[string][]string{}}, nil
	}

	sources := make([]any, 0, len(paths))
	for _, p := range paths {
		data, err := afero.ReadFile(fs, p)
		if err != nil {
			return nil, fmt.Errorf("reading machine file: %w", err)
		}
		sources = append(sources, data)
	}
	raw, err := ini.LoadSources(machineFileIniOptions, sources[0], sources[1:]...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMachineFile, err)
	}

	f := &File{
		paths:      append([]string(nil), paths...),
		sections:   map[string]map[string]any{},
		entryOrder: map[string][]string{},
	}

	var merr *multierror.Error

	// Constants first, in declaration order, so later constants may
	// reference earlier ones.
	scope := map[string]any{"True": true, "False": false}
	if sect, err := raw.GetSection(ConstantsSection); err == nil {
		consts := map[string]any{}
		for _, key := range sect.Keys() {
			name := key.Name()
			if err := checkEntryName(ConstantsSection, name); err != nil {
				merr = multierror.Append(merr, err)
				continue
			}
			v, err := evalExpr(ConstantsSection, name, key.Value(), scope)
			if err != nil {
				merr = multierror.Append(merr, err)
				continue
			}
			scope[name] = v
			consts[name] = v
			f.entryOrder[ConstantsSection] = append(f.entryOrder[ConstantsSection], name)
		}
		f.sections[ConstantsSection] = consts
		f.order = append(f.order, ConstantsSection)
	}

	for _, sect := range raw.Sections() {
		name := sect.Name()
		if name == ini.DefaultSection || name == ConstantsSection {
			continue
		}
		entries := map[string]any{}
		for _, key := range sect.Keys() {
			entry := key.Name()
			if err := checkEntryName(name, entry); err != nil {
				merr = multierror.Append(merr, err)
				continue
			}
			v, err := evalExpr(name, entry, key.Value(), scope)
			if err != nil {
				merr = multierror.Append(merr, err)
				continue
			}
			entries[entry] = v
			f.entryOrder[name] = append(f.entryOrder[name], entry)
		}
		f.sections[name] = entries
		f.order = append(f.order, name)
	}

	if err := merr.ErrorOrNil(); err != nil {
		return nil, err
	}
	return f, nil
}

// checkEntryName rejects names that contain whitespace or quotes; those
// show up when a line is syntactically broken and the parser swallowed
// part of the value into the key.
func checkEntryName(section, name string) error {
	if strings.ContainsAny(name, " \t'\"") {
		return &MalformedNameError{Section: section, Name: name}
	}
	return nil
}

// Paths returns the files this File was parsed from.
func (f *File) Paths() []string { return append([]string(nil), f.paths...) }

// Sections returns the section names in file order.
func (f *File) Sections() []string { return append([]string(nil), f.order...) }

// Section returns the evaluated entries of one section.
func (f *File) Section(name string) (map[string]any, bool) {
	s, ok := f.sections[name]
	return s, ok
}

// Lookup returns one evaluated entry.
func (f *File) Lookup(section, entry string) (any, bool) {
	s, ok := f.sections[section]
	if !ok {
		return nil, false
	}
	v, ok := s[entry]
	return v, ok
}

// Binaries returns the [binaries] section, mapping tool names to a
// command, either a string or an argument list.
func (f *File) Binaries() map[string]any {
	s := f.sections["binaries"]
	if s == nil {
		return map[string]any{}
	}
	return s
}

// Properties returns the [properties] section.
func (f *File) Properties() map[string]any {
	s := f.sections["properties"]
	if s == nil {
		return map[string]any{}
	}
	return s
}

// OptionDefaults collects the option sections into a bulk-set list:
// [built-in options] and [project options], with entry names parsed as
// option keys.
func (f *File) OptionDefaults() (*options.List, error) {
	out := options.NewList()
	var merr *multierror.Error
	for _, section := range []string{BuiltinOptionsSection, ProjectOptionsSection} {
		entries, ok := f.sections[section]
		if !ok {
			continue
		}
		for _, name := range f.entryOrder[section] {
			k, err := options.ParseKey(name)
			if err != nil {
				merr = multierror.Append(merr, fmt.Errorf("[%s] %s: %w", section, name, err))
				continue
			}
			out.Set(k, entries[name])
		}
	}
	return out, merr.ErrorOrNil()
}

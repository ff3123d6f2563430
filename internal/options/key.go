// SPDX-License-Identifier: MPL-2.0

package options

import (
	"strings"
	"unicode"

	"mason-cli/internal/machine"
)

// knownLanguages lists every language whose compiler options can appear with
// a `<lang>_` prefix in the canonical key form. Sorted longest-first so that
// prefix matching can never pick a shorter language that happens to share a
// prefix with a longer one.
var knownLanguages = []string{
	"objcpp", "fortran", "swift", "cuda", "java", "nasm", "objc", "rust",
	"vala", "cpp", "cs", "d", "c",
}

// Key is the immutable composite identifier addressing one configurable
// value: option name, owning subproject ("" for the top-level project),
// target machine, and language for compiler options ("" for none).
//
// Key is a comparable value type: deriving a modified key never mutates the
// original, and Keys can be used directly as map keys.
type Key struct {
	Name       string
	Subproject string
	Machine    machine.Machine
	Lang       string
}

// NewKey returns a host-machine key for a top-level option name.
func NewKey(name string) Key {
	return Key{Name: name}
}

// String renders the canonical external form:
//
//	[subproject:][build.][language_]name
func (k Key) String() string {
	var sb strings.Builder
	if k.Subproject != "" {
		sb.WriteString(k.Subproject)
		sb.WriteByte(':')
	}
	if k.Machine == machine.Build {
		sb.WriteString("build.")
	}
	if k.Lang != "" {
		sb.WriteString(k.Lang)
		sb.WriteByte('_')
	}
	sb.WriteString(k.Name)
	return sb.String()
}

// ParseKey parses the canonical external string form back into a Key. It is
// the inverse of String: parse(render(k)) == k for every key built through
// this package's API.
func ParseKey(raw string) (Key, error) {
	rest := raw
	var subproject string
	if i := strings.IndexByte(rest, ':'); i >= 0 {
		subproject, rest = rest[:i], rest[i+1:]
		if subproject == "" {
			return Key{}, &KeySyntaxError{Raw: raw, Reason: "empty subproject segment"}
		}
		if strings.ContainsRune(rest, ':') {
			return Key{}, &KeySyntaxError{Raw: raw, Reason: "more than one subproject separator"}
		}
		if strings.ContainsFunc(subproject, invalidNameRune) {
			return Key{}, &KeySyntaxError{Raw: raw, Reason: "subproject name contains whitespace or quote characters"}
		}
	}

	m := machine.Host
	if after, ok := strings.CutPrefix(rest, "build."); ok {
		rest = after
		m = machine.Build
	}

	var lang string
	for _, l := range knownLanguages {
		if after, ok := strings.CutPrefix(rest, l+"_"); ok {
			lang, rest = l, after
			break
		}
	}

	if rest == "" {
		return Key{}, &KeySyntaxError{Raw: raw, Reason: "empty option name"}
	}
	if strings.Contains(rest, "build.") {
		return Key{}, &KeySyntaxError{Raw: raw, Reason: "machine segment must precede the option name"}
	}
	if strings.ContainsFunc(rest, invalidNameRune) {
		return Key{}, &KeySyntaxError{Raw: raw, Reason: "option name contains whitespace or quote characters"}
	}

	return Key{Name: rest, Subproject: subproject, Machine: m, Lang: lang}, nil
}

// invalidNameRune reports the runes that can never appear in an option or
// subproject name.
func invalidNameRune(r rune) bool {
	return unicode.IsSpace(r) || r == '"' || r == '\''
}

// WithName returns a copy of the key with the name replaced.
func (k Key) WithName(name string) Key {
	k.Name = name
	return k
}

// WithSubproject returns a copy of the key with the subproject replaced.
func (k Key) WithSubproject(subproject string) Key {
	k.Subproject = subproject
	return k
}

// WithLang returns a copy of the key with the language replaced.
func (k Key) WithLang(lang string) Key {
	k.Lang = lang
	return k
}

// AsRoot returns a copy of the key scoped to the top-level project.
func (k Key) AsRoot() Key {
	return k.WithSubproject("")
}

// AsBuild returns a copy of the key targeting the build machine.
func (k Key) AsBuild() Key {
	k.Machine = machine.Build
	return k
}

// AsHost returns a copy of the key targeting the host machine.
func (k Key) AsHost() Key {
	k.Machine = machine.Host
	return k
}

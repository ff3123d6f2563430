// SPDX-License-Identifier: MPL-2.0

package options

import (
	"fmt"

	"mason-cli/internal/machine"
)

// Group identifies the disjoint ownership group an option key classifies
// into.
type Group uint8

const (
	// GroupBuiltin covers the static builtin tables, including the
	// per-machine subset.
	GroupBuiltin Group = iota
	// GroupBase covers language-agnostic toolchain toggles (b_*).
	GroupBase
	// GroupCompiler covers per-machine, per-language compiler options.
	GroupCompiler
	// GroupBackend covers options of the selected backend (backend_*).
	GroupBackend
	// GroupUser covers project-declared options.
	GroupUser
)

// String returns the lowercase name of the group.
func (g Group) String() string {
	switch g {
	case GroupBuiltin:
		return "builtin"
	case GroupBase:
		return "base"
	case GroupCompiler:
		return "compiler"
	case GroupBackend:
		return "backend"
	case GroupUser:
		return "user"
	}
	panic("options: unknown group")
}

// Classify routes a key to its owning group. The result depends only on the
// key's shape and the static tables, never on store contents, so the same
// key always lands in the same group.
//
// Base and user options never exist per build machine; receiving such a key
// signals a defect in the caller's classification logic, not bad user input,
// and panics.
func (t *Tables) Classify(k Key) Group {
	switch {
	case t.IsBaseName(k.Name):
		if k.Machine != machine.Host {
			panic(fmt.Sprintf("options: base option %q classified with machine %s", k.Name, k.Machine))
		}
		return GroupBase
	case k.Lang != "":
		return GroupCompiler
	case t.IsBuiltinName(k.Name):
		return GroupBuiltin
	case t.IsBackendName(k.Name):
		return GroupBackend
	default:
		if k.Machine != machine.Host {
			panic(fmt.Sprintf("options: user option %q classified with machine %s", k.Name, k.Machine))
		}
		return GroupUser
	}
}

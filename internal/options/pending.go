// SPDX-License-Identifier: MPL-2.0

package options

// Pending accumulates option values that have been requested (on the
// command line, in machine files, or as project defaults) but whose owning
// table entries may not exist yet: compiler options before their compiler
// is detected, base options before a compiler enables them, and builtin or
// project defaults gathered across subprojects. The store drains Pending as
// the corresponding options come into existence.
type Pending struct {
	// Builtin holds deferred builtin values keyed by the full key,
	// including subproject and machine.
	Builtin *List
	// Compiler holds deferred per-language values keyed with language and
	// machine set.
	Compiler *List
	// Project holds deferred project (user) option values.
	Project *List
	// Base holds deferred toolchain toggle values keyed by plain name.
	Base *List
}

// NewPending returns an empty pending set.
func NewPending() *Pending {
	return &Pending{
		Builtin:  NewList(),
		Compiler: NewList(),
		Project:  NewList(),
		Base:     NewList(),
	}
}

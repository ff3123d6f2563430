// SPDX-License-Identifier: MPL-2.0

// Package options implements the option identity and resolution system that
// sits at the heart of mason's configure step.
//
// An option is addressed by a composite Key (name, subproject, machine,
// language) and owned by exactly one of five disjoint groups: builtin, base,
// compiler, backend, or user. Classification of a key into its group is a
// pure function of the key's shape and the static builtin tables; it never
// depends on what the store currently contains.
//
// Values are tagged variants, one concrete type per option kind, sharing the
// Value interface. Every Set validates first and replaces the stored value
// atomically, so a failed Set leaves the previous value untouched.
package options

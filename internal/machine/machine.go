// SPDX-License-Identifier: MPL-2.0

// Package machine distinguishes the machine that compiles the code (build)
// from the machine the compiled output runs on (host). The two differ only
// under cross-compilation; on a native build every host value is mirrored
// onto the build slot.
package machine

import (
	"errors"
	"fmt"
)

// ErrInvalidMachine is the sentinel error wrapped by InvalidMachineError.
var ErrInvalidMachine = errors.New("invalid machine")

type (
	// Machine selects one of the two machines involved in a build.
	// The zero value is Host, the common case.
	Machine int

	// InvalidMachineError is returned when a string does not name a machine.
	InvalidMachineError struct {
		Value string
	}
)

const (
	// Host is the machine the build outputs run on.
	Host Machine = iota
	// Build is the machine performing the compilation.
	Build
)

// String returns the lowercase name of the machine.
func (m Machine) String() string {
	if m == Build {
		return "build"
	}
	return "host"
}

// Parse converts a lowercase machine name into a Machine.
func Parse(s string) (Machine, error) {
	switch s {
	case "host":
		return Host, nil
	case "build":
		return Build, nil
	}
	return Host, &InvalidMachineError{Value: s}
}

// Error implements the error interface for InvalidMachineError.
func (e *InvalidMachineError) Error() string {
	return fmt.Sprintf("invalid machine %q: must be \"build\" or \"host\"", e.Value)
}

// Unwrap returns ErrInvalidMachine for errors.Is() compatibility.
func (e *InvalidMachineError) Unwrap() error { return ErrInvalidMachine }

// Per holds one value per machine as an explicit two-slot structure.
// Data that is not duplicated per machine should not use Per at all, so the
// presence (or absence) of the wrapper documents the duplication invariant
// in the type.
type Per[T any] struct {
	BuildSlot T
	HostSlot  T
}

// NewPer returns a Per with both slots set to the given values.
func NewPer[T any](build, host T) Per[T] {
	return Per[T]{BuildSlot: build, HostSlot: host}
}

// Get returns the slot for the given machine.
func (p *Per[T]) Get(m Machine) T {
	if m == Build {
		return p.BuildSlot
	}
	return p.HostSlot
}

// Set replaces the slot for the given machine.
func (p *Per[T]) Set(m Machine, v T) {
	if m == Build {
		p.BuildSlot = v
	} else {
		p.HostSlot = v
	}
}

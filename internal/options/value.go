// SPDX-License-Identifier: MPL-2.0

package options

// Kind tags the concrete variant of a Value. Every switch over Kind in this
// package is exhaustive and panics on an unknown tag so that adding a kind
// without updating the switch fails loudly.
type Kind uint8

const (
	// KindBool stores a boolean.
	KindBool Kind = iota
	// KindString stores an arbitrary string.
	KindString
	// KindInteger stores an int with optional inclusive bounds.
	KindInteger
	// KindUmask stores an octal file mode or the "preserve" sentinel.
	KindUmask
	// KindCombo stores one string out of a finite choice set.
	KindCombo
	// KindFeature is a combo fixed to enabled/disabled/auto.
	KindFeature
	// KindArray stores an ordered list of strings.
	KindArray
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "boolean"
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindUmask:
		return "umask"
	case KindCombo:
		return "combo"
	case KindFeature:
		return "feature"
	case KindArray:
		return "array"
	}
	panic("options: unknown kind")
}

// Value is the contract shared by every option value variant.
//
// Validate converts raw external input (native values or their string forms)
// into the stored representation, or reports a validation error carrying the
// offending value and the violated constraint. Set calls Validate and
// replaces the stored value atomically: a failed Set leaves the previous
// value in place.
type Value interface {
	// Kind identifies the concrete variant.
	Kind() Kind
	// Description is the human-readable description of the option.
	Description() string
	// Yielding reports whether a subproject-scoped instance falls back to
	// the root project's value when unset.
	Yielding() bool
	// Choices returns the legal value set, or nil when unconstrained.
	Choices() []string
	// Validate checks raw input and returns the cleaned stored form.
	Validate(raw any) (any, error)
	// Set validates raw input and replaces the stored value.
	Set(raw any) error
	// Any returns the stored value as its native type.
	Any() any
	// Printable returns the display form of the stored value.
	Printable() string
}

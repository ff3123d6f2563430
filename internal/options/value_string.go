// SPDX-License-Identifier: MPL-2.0

package options

// StringValue stores an arbitrary string option with no validation beyond
// the type check.
type StringValue struct {
	desc     string
	yielding bool
	val      string
}

// NewString constructs a string option value.
func NewString(desc string, yielding bool, val string) *StringValue {
	return &StringValue{desc: desc, yielding: yielding, val: val}
}

// Kind returns KindString.
func (v *StringValue) Kind() Kind { return KindString }

// Description returns the option description.
func (v *StringValue) Description() string { return v.desc }

// Yielding reports whether subproject instances inherit the root value.
func (v *StringValue) Yielding() bool { return v.yielding }

// Choices returns nil; string options are unconstrained.
func (v *StringValue) Choices() []string { return nil }

// Validate accepts any string.
func (v *StringValue) Validate(raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, &NotStringError{Value: raw}
	}
	return s, nil
}

// Set validates raw and replaces the stored value.
func (v *StringValue) Set(raw any) error {
	cleaned, err := v.Validate(raw)
	if err != nil {
		return err
	}
	v.val = cleaned.(string)
	return nil
}

// Any returns the stored string.
func (v *StringValue) Any() any { return v.val }

// String returns the stored value as its native type.
func (v *StringValue) String() string { return v.val }

// Printable returns the stored string.
func (v *StringValue) Printable() string { return v.val }

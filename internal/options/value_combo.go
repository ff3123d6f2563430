// SPDX-License-Identifier: MPL-2.0

package options

import "slices"

// ComboValue restricts the stored value to a finite set of string choices.
type ComboValue struct {
	desc     string
	yielding bool
	choices  []string
	val      string
}

// NewCombo constructs a combo option value. The initial value is trusted;
// only Set input is validated.
func NewCombo(desc string, yielding bool, choices []string, val string) *ComboValue {
	return &ComboValue{desc: desc, yielding: yielding, choices: slices.Clone(choices), val: val}
}

// Kind returns KindCombo.
func (v *ComboValue) Kind() Kind { return KindCombo }

// Description returns the option description.
func (v *ComboValue) Description() string { return v.desc }

// Yielding reports whether subproject instances inherit the root value.
func (v *ComboValue) Yielding() bool { return v.yielding }

// Choices returns the allowed value set.
func (v *ComboValue) Choices() []string { return slices.Clone(v.choices) }

// Validate accepts a string that is a member of the choice set.
func (v *ComboValue) Validate(raw any) (any, error) {
	s, ok := raw.(string)
	if !ok || !slices.Contains(v.choices, s) {
		return nil, &NotInChoicesError{Value: raw, Choices: slices.Clone(v.choices)}
	}
	return s, nil
}

// Set validates raw and replaces the stored value.
func (v *ComboValue) Set(raw any) error {
	cleaned, err := v.Validate(raw)
	if err != nil {
		return err
	}
	v.val = cleaned.(string)
	return nil
}

// Any returns the stored string.
func (v *ComboValue) Any() any { return v.val }

// String returns the stored value as its native type.
func (v *ComboValue) String() string { return v.val }

// Printable returns the stored string.
func (v *ComboValue) Printable() string { return v.val }

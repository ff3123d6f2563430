// SPDX-License-Identifier: MPL-2.0

package options

import "strings"

// BoolValue stores a boolean option. String input is accepted
// case-insensitively as "true" or "false".
type BoolValue struct {
	desc     string
	yielding bool
	val      bool
}

// NewBool constructs a boolean option value.
func NewBool(desc string, yielding bool, val bool) *BoolValue {
	return &BoolValue{desc: desc, yielding: yielding, val: val}
}

// Kind returns KindBool.
func (v *BoolValue) Kind() Kind { return KindBool }

// Description returns the option description.
func (v *BoolValue) Description() string { return v.desc }

// Yielding reports whether subproject instances inherit the root value.
func (v *BoolValue) Yielding() bool { return v.yielding }

// Choices returns the two boolean spellings.
func (v *BoolValue) Choices() []string { return []string{"true", "false"} }

// Validate accepts a bool or the case-insensitive strings "true"/"false".
func (v *BoolValue) Validate(raw any) (any, error) {
	switch t := raw.(type) {
	case bool:
		return t, nil
	case string:
		switch strings.ToLower(t) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return nil, &NotBooleanError{Value: raw}
}

// Set validates raw and replaces the stored value.
func (v *BoolValue) Set(raw any) error {
	cleaned, err := v.Validate(raw)
	if err != nil {
		return err
	}
	v.val = cleaned.(bool)
	return nil
}

// Any returns the stored bool.
func (v *BoolValue) Any() any { return v.val }

// Bool returns the stored value as its native type.
func (v *BoolValue) Bool() bool { return v.val }

// Printable returns "true" or "false".
func (v *BoolValue) Printable() string {
	if v.val {
		return "true"
	}
	return "false"
}

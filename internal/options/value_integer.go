// SPDX-License-Identifier: MPL-2.0

package options

import (
	"fmt"
	"strconv"
	"strings"
)

// IntegerValue stores an int option with optional inclusive bounds. String
// input is parsed as decimal.
type IntegerValue struct {
	desc     string
	yielding bool
	min, max *int
	val      int
}

// NewInteger constructs an integer option value. A nil bound leaves that
// side unbounded. The initial value is trusted; only Set input is validated.
func NewInteger(desc string, yielding bool, min, max *int, val int) *IntegerValue {
	return &IntegerValue{desc: desc, yielding: yielding, min: min, max: max, val: val}
}

// Kind returns KindInteger.
func (v *IntegerValue) Kind() Kind { return KindInteger }

// Description returns the option description.
func (v *IntegerValue) Description() string { return v.desc }

// Yielding reports whether subproject instances inherit the root value.
func (v *IntegerValue) Yielding() bool { return v.yielding }

// Choices renders the bounds as a constraint description, matching the way
// bounded integers advertise their legal range.
func (v *IntegerValue) Choices() []string {
	var c []string
	if v.min != nil {
		c = append(c, ">="+strconv.Itoa(*v.min))
	}
	if v.max != nil {
		c = append(c, "<="+strconv.Itoa(*v.max))
	}
	return c
}

// Bounds returns the optional inclusive bounds.
func (v *IntegerValue) Bounds() (min, max *int) { return v.min, v.max }

// Validate accepts an int or a decimal string and enforces the bounds.
func (v *IntegerValue) Validate(raw any) (any, error) {
	n, err := v.toInt(raw)
	if err != nil {
		return nil, err
	}
	if v.min != nil && n < *v.min {
		return nil, &OutOfRangeError{Value: n, Min: v.min, Max: v.max}
	}
	if v.max != nil && n > *v.max {
		return nil, &OutOfRangeError{Value: n, Min: v.min, Max: v.max}
	}
	return n, nil
}

func (v *IntegerValue) toInt(raw any) (int, error) {
	switch t := raw.(type) {
	case int:
		return t, nil
	case int64:
		return int(t), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, &NotIntegerError{Value: raw, Base: 10}
		}
		return n, nil
	}
	return 0, &NotIntegerError{Value: raw, Base: 10}
}

// Set validates raw and replaces the stored value.
func (v *IntegerValue) Set(raw any) error {
	cleaned, err := v.Validate(raw)
	if err != nil {
		return err
	}
	v.val = cleaned.(int)
	return nil
}

// Any returns the stored int.
func (v *IntegerValue) Any() any { return v.val }

// Int returns the stored value as its native type.
func (v *IntegerValue) Int() int { return v.val }

// Printable returns the decimal representation.
func (v *IntegerValue) Printable() string { return fmt.Sprintf("%d", v.val) }

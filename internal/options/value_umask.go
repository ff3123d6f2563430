// SPDX-License-Identifier: MPL-2.0

package options

import (
	"fmt"
	"strconv"
	"strings"
)

// UmaskPreserve is the sentinel accepted by umask options meaning "keep the
// permissions the build produced".
const UmaskPreserve = "preserve"

const umaskMax = 0o777

// UmaskValue stores an octal file mode in the range 0-0o777, or the
// "preserve" sentinel. String input is parsed base-8.
type UmaskValue struct {
	desc     string
	yielding bool
	val      int
	preserve bool
}

// NewUmask constructs a umask option value from an int mode or the
// "preserve" string. The initial value is trusted; only Set input is
// validated.
func NewUmask(desc string, yielding bool, val any) *UmaskValue {
	v := &UmaskValue{desc: desc, yielding: yielding}
	switch t := val.(type) {
	case int:
		v.val = t
	case string:
		if t == UmaskPreserve {
			v.preserve = true
		} else if n, err := strconv.ParseInt(t, 8, 32); err == nil {
			v.val = int(n)
		}
	}
	return v
}

// Kind returns KindUmask.
func (v *UmaskValue) Kind() Kind { return KindUmask }

// Description returns the option description.
func (v *UmaskValue) Description() string { return v.desc }

// Yielding reports whether subproject instances inherit the root value.
func (v *UmaskValue) Yielding() bool { return v.yielding }

// Choices advertises the sentinel and the octal range.
func (v *UmaskValue) Choices() []string { return []string{UmaskPreserve, "0000-0777"} }

// Validate accepts the "preserve" sentinel, an int, or an octal string,
// and enforces the 0-0o777 range.
func (v *UmaskValue) Validate(raw any) (any, error) {
	if raw == nil {
		return UmaskPreserve, nil
	}
	if s, ok := raw.(string); ok && s == UmaskPreserve {
		return UmaskPreserve, nil
	}

	var n int
	switch t := raw.(type) {
	case int:
		n = t
	case int64:
		n = int(t)
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(t), 8, 32)
		if err != nil {
			return nil, &NotIntegerError{Value: raw, Base: 8}
		}
		n = int(parsed)
	default:
		return nil, &NotIntegerError{Value: raw, Base: 8}
	}

	min, max := 0, umaskMax
	if n < min || n > max {
		return nil, &OutOfRangeError{Value: n, Min: &min, Max: &max}
	}
	return n, nil
}

// Set validates raw and replaces the stored value.
func (v *UmaskValue) Set(raw any) error {
	cleaned, err := v.Validate(raw)
	if err != nil {
		return err
	}
	if cleaned == UmaskPreserve {
		v.preserve = true
		v.val = 0
	} else {
		v.preserve = false
		v.val = cleaned.(int)
	}
	return nil
}

// Any returns the stored mode as an int, or the "preserve" string when the
// sentinel is set.
func (v *UmaskValue) Any() any {
	if v.preserve {
		return UmaskPreserve
	}
	return v.val
}

// IsPreserve reports whether the sentinel is set.
func (v *UmaskValue) IsPreserve() bool { return v.preserve }

// Mode returns the stored mode; it is only meaningful when IsPreserve is
// false.
func (v *UmaskValue) Mode() int { return v.val }

// Printable returns 4-digit octal, or "preserve" when the sentinel is set.
func (v *UmaskValue) Printable() string {
	if v.preserve {
		return UmaskPreserve
	}
	return fmt.Sprintf("%04o", v.val)
}

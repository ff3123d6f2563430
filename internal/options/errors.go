// SPDX-License-Identifier: MPL-2.0

package options

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the option error taxonomy. Every validation subkind
// chains to ErrValidation so callers can match the whole family with a
// single errors.Is check while still being able to distinguish subkinds.
var (
	// ErrValidation is the root of the validation error family.
	ErrValidation = errors.New("invalid option value")

	// ErrNotBoolean is wrapped by NotBooleanError.
	ErrNotBoolean = fmt.Errorf("%w: not a boolean", ErrValidation)
	// ErrNotString is wrapped by NotStringError.
	ErrNotString = fmt.Errorf("%w: not a string", ErrValidation)
	// ErrNotInteger is wrapped by NotIntegerError.
	ErrNotInteger = fmt.Errorf("%w: not an integer", ErrValidation)
	// ErrOutOfRange is wrapped by OutOfRangeError.
	ErrOutOfRange = fmt.Errorf("%w: out of range", ErrValidation)
	// ErrNotInChoices is wrapped by NotInChoicesError.
	ErrNotInChoices = fmt.Errorf("%w: not in choices", ErrValidation)
	// ErrMalformedArray is wrapped by MalformedArrayError.
	ErrMalformedArray = fmt.Errorf("%w: malformed array", ErrValidation)

	// ErrKeySyntax is the sentinel error wrapped by KeySyntaxError.
	ErrKeySyntax = errors.New("malformed option key")
	// ErrUnknownOption is the sentinel error wrapped by UnknownOptionError.
	ErrUnknownOption = errors.New("unknown option")
	// ErrReservedOption is the sentinel error wrapped by ReservedOptionError.
	ErrReservedOption = errors.New("reserved option name")
	// ErrInvalidPrefix is the sentinel error wrapped by InvalidPrefixError.
	ErrInvalidPrefix = errors.New("invalid prefix")
	// ErrDirEscapesPrefix is the sentinel error wrapped by DirEscapesPrefixError.
	ErrDirEscapesPrefix = errors.New("directory outside prefix")
)

type (
	// NotBooleanError is returned when a boolean option receives a value
	// that is neither a bool nor the strings "true"/"false".
	NotBooleanError struct {
		Value any
	}

	// NotStringError is returned when a string option receives a
	// non-string value.
	NotStringError struct {
		Value any
	}

	// NotIntegerError is returned when an integer option receives a value
	// that cannot be converted to an integer.
	NotIntegerError struct {
		Value any
		// Base is the numeric base the string form is parsed in (10, or 8
		// for umask options).
		Base int
	}

	// OutOfRangeError is returned when an integer option receives a value
	// outside its inclusive bounds. A nil bound means unbounded on that
	// side.
	OutOfRangeError struct {
		Value int
		Min   *int
		Max   *int
	}

	// NotInChoicesError is returned when a combo, feature, or array
	// element is not one of the allowed choices.
	NotInChoicesError struct {
		Value   any
		Choices []string
	}

	// MalformedArrayError is returned when an array option receives input
	// that cannot be interpreted as a string list.
	MalformedArrayError struct {
		Value  any
		Reason string
	}

	// KeySyntaxError is returned when a canonical option key string cannot
	// be parsed back into a Key.
	KeySyntaxError struct {
		Raw    string
		Reason string
	}

	// UnknownOptionError is returned when a key does not resolve to any
	// table entry, after yielding fallback has been applied.
	UnknownOptionError struct {
		Key Key
	}

	// ReservedOptionError is returned when a project declares a user
	// option whose name collides with a builtin, base, or backend option.
	ReservedOptionError struct {
		Name string
	}

	// InvalidPrefixError is returned when the install prefix is not an
	// absolute path.
	InvalidPrefixError struct {
		Value string
	}

	// DirEscapesPrefixError is returned when an installation directory
	// option is given an absolute path that does not reside under the
	// effective prefix.
	DirEscapesPrefixError struct {
		Option string
		Value  string
		Prefix string
	}

	// SetError wraps a validation failure with the key being set so the
	// user-facing message can name the option.
	SetError struct {
		Key Key
		Err error
	}
)

func (e *NotBooleanError) Error() string {
	return fmt.Sprintf("value %v is not a boolean (true or false)", e.Value)
}

// Unwrap returns ErrNotBoolean for errors.Is() compatibility.
func (e *NotBooleanError) Unwrap() error { return ErrNotBoolean }

func (e *NotStringError) Error() string {
	return fmt.Sprintf("value %v for string option is not a string", e.Value)
}

// Unwrap returns ErrNotString for errors.Is() compatibility.
func (e *NotStringError) Unwrap() error { return ErrNotString }

func (e *NotIntegerError) Error() string {
	if e.Base == 8 {
		return fmt.Sprintf("value %v is not a valid octal integer", e.Value)
	}
	return fmt.Sprintf("value %v is not convertible to an integer", e.Value)
}

// Unwrap returns ErrNotInteger for errors.Is() compatibility.
func (e *NotIntegerError) Unwrap() error { return ErrNotInteger }

func (e *OutOfRangeError) Error() string {
	switch {
	case e.Min != nil && e.Value < *e.Min:
		return fmt.Sprintf("value %d is less than minimum value %d", e.Value, *e.Min)
	case e.Max != nil && e.Value > *e.Max:
		return fmt.Sprintf("value %d is more than maximum value %d", e.Value, *e.Max)
	}
	return fmt.Sprintf("value %d is out of range", e.Value)
}

// Unwrap returns ErrOutOfRange for errors.Is() compatibility.
func (e *OutOfRangeError) Unwrap() error { return ErrOutOfRange }

func (e *NotInChoicesError) Error() string {
	quoted := make([]string, len(e.Choices))
	for i, c := range e.Choices {
		quoted[i] = fmt.Sprintf("%q", c)
	}
	return fmt.Sprintf("value %v is not one of the choices. Possible choices are: %s",
		e.Value, strings.Join(quoted, ", "))
}

// Unwrap returns ErrNotInChoices for errors.Is() compatibility.
func (e *NotInChoicesError) Unwrap() error { return ErrNotInChoices }

func (e *MalformedArrayError) Error() string {
	return fmt.Sprintf("value %v does not define a string array: %s", e.Value, e.Reason)
}

// Unwrap returns ErrMalformedArray for errors.Is() compatibility.
func (e *MalformedArrayError) Unwrap() error { return ErrMalformedArray }

func (e *KeySyntaxError) Error() string {
	return fmt.Sprintf("malformed option name %q: %s", e.Raw, e.Reason)
}

// Unwrap returns ErrKeySyntax for errors.Is() compatibility.
func (e *KeySyntaxError) Unwrap() error { return ErrKeySyntax }

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("unknown option %q", e.Key.String())
}

// Unwrap returns ErrUnknownOption for errors.Is() compatibility.
func (e *UnknownOptionError) Unwrap() error { return ErrUnknownOption }

func (e *ReservedOptionError) Error() string {
	return fmt.Sprintf("option name %q is reserved for the build system", e.Name)
}

// Unwrap returns ErrReservedOption for errors.Is() compatibility.
func (e *ReservedOptionError) Unwrap() error { return ErrReservedOption }

func (e *InvalidPrefixError) Error() string {
	return fmt.Sprintf("prefix value %q must be an absolute path", e.Value)
}

// Unwrap returns ErrInvalidPrefix for errors.Is() compatibility.
func (e *InvalidPrefixError) Unwrap() error { return ErrInvalidPrefix }

func (e *DirEscapesPrefixError) Error() string {
	return fmt.Sprintf("the value of the %q option is %q which must be a subdir of the prefix %q; "+
		"note that a relative path is assumed to be a subdir of prefix", e.Option, e.Value, e.Prefix)
}

// Unwrap returns ErrDirEscapesPrefix for errors.Is() compatibility.
func (e *DirEscapesPrefixError) Unwrap() error { return ErrDirEscapesPrefix }

func (e *SetError) Error() string {
	return fmt.Sprintf("option %q: %v", e.Key.String(), e.Err)
}

// Unwrap returns the underlying validation error.
func (e *SetError) Unwrap() error { return e.Err }

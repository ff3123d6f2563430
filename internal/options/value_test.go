// SPDX-License-Identifier: MPL-2.0

package options

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBoolValueSet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     any
		want    bool
		wantErr error
	}{
		{name: "native true", raw: true, want: true},
		{name: "native false", raw: false, want: false},
		{name: "string true", raw: "true", want: true},
		{name: "string false", raw: "false", want: false},
		{name: "mixed case", raw: "True", want: true},
		{name: "uppercase", raw: "FALSE", want: false},
		{name: "yes rejected", raw: "yes", wantErr: ErrNotBoolean},
		{name: "numeric rejected", raw: 1, wantErr: ErrNotBoolean},
		{name: "empty rejected", raw: "", wantErr: ErrNotBoolean},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v := NewBool("strip", false, false)
			err := v.Set(tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Set(%v) error = %v, want %v", tt.raw, err, tt.wantErr)
				}
				if !errors.Is(err, ErrValidation) {
					t.Errorf("Set(%v) error does not chain to ErrValidation", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("Set(%v) returned error: %v", tt.raw, err)
			}
			if got := v.Any().(bool); got != tt.want {
				t.Errorf("Any() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIntegerValueBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     any
		want    int
		wantErr error
	}{
		{name: "lower bound", raw: 2, want: 2},
		{name: "upper bound", raw: 8, want: 8},
		{name: "below lower", raw: 1, wantErr: ErrOutOfRange},
		{name: "above upper", raw: 9, wantErr: ErrOutOfRange},
		{name: "decimal string", raw: "4", want: 4},
		{name: "padded string", raw: " 4 ", want: 4},
		{name: "garbage string", raw: "four", wantErr: ErrNotInteger},
		{name: "float rejected", raw: 4.0, wantErr: ErrNotInteger},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v := NewInteger("unity_size", false, intPtr(2), intPtr(8), 4)
			err := v.Set(tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Set(%v) error = %v, want %v", tt.raw, err, tt.wantErr)
				}
				if got := v.Int(); got != 4 {
					t.Errorf("failed Set changed the stored value to %d", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Set(%v) returned error: %v", tt.raw, err)
			}
			if got := v.Int(); got != tt.want {
				t.Errorf("Int() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIntegerValueUnbounded(t *testing.T) {
	t.Parallel()

	v := NewInteger("jobs", false, nil, nil, 0)
	for _, raw := range []any{-1000000, 0, 1000000} {
		if err := v.Set(raw); err != nil {
			t.Errorf("Set(%v) on unbounded integer returned error: %v", raw, err)
		}
	}
}

func TestUmaskValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		raw           any
		wantAny       any
		wantPrintable string
		wantErr       error
	}{
		{name: "octal string", raw: "027", wantAny: 0o27, wantPrintable: "0027"},
		{name: "native int", raw: 0o22, wantAny: 0o22, wantPrintable: "0022"},
		{name: "preserve sentinel", raw: "preserve", wantAny: "preserve", wantPrintable: "preserve"},
		{name: "zero", raw: "0", wantAny: 0, wantPrintable: "0000"},
		{name: "max", raw: "777", wantAny: 0o777, wantPrintable: "0777"},
		{name: "non-octal digits", raw: "088", wantErr: ErrNotInteger},
		{name: "above range", raw: 0o1000, wantErr: ErrOutOfRange},
		{name: "negative", raw: -1, wantErr: ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v := NewUmask("install_umask", false, 0o22)
			err := v.Set(tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Set(%v) error = %v, want %v", tt.raw, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Set(%v) returned error: %v", tt.raw, err)
			}
			if got := v.Any(); got != tt.wantAny {
				t.Errorf("Any() = %v, want %v", got, tt.wantAny)
			}
			if got := v.Printable(); got != tt.wantPrintable {
				t.Errorf("Printable() = %q, want %q", got, tt.wantPrintable)
			}
		})
	}
}

func TestComboValue(t *testing.T) {
	t.Parallel()

	v := NewCombo("layout", false, []string{"mirror", "flat"}, "mirror")
	if err := v.Set("flat"); err != nil {
		t.Fatalf("Set(flat) returned error: %v", err)
	}
	if got := v.Any().(string); got != "flat" {
		t.Errorf("Any() = %q, want %q", got, "flat")
	}

	err := v.Set("nested")
	if !errors.Is(err, ErrNotInChoices) {
		t.Fatalf("Set(nested) error = %v, want ErrNotInChoices", err)
	}
	var cerr *NotInChoicesError
	if !errors.As(err, &cerr) {
		t.Fatalf("error is not a *NotInChoicesError: %v", err)
	}
	if diff := cmp.Diff([]string{"mirror", "flat"}, cerr.Choices); diff != "" {
		t.Errorf("NotInChoicesError.Choices mismatch (-want +got):\n%s", diff)
	}
	if got := v.Any().(string); got != "flat" {
		t.Errorf("failed Set changed the stored value to %q", got)
	}
}

func TestFeatureValue(t *testing.T) {
	t.Parallel()

	v := NewFeature("x11", false, FeatureAuto)
	if !v.IsAuto() {
		t.Error("new feature with auto default does not report IsAuto")
	}
	if v.Kind() != KindFeature {
		t.Errorf("Kind() = %v, want KindFeature", v.Kind())
	}
	if err := v.Set(FeatureEnabled); err != nil {
		t.Fatalf("Set(enabled) returned error: %v", err)
	}
	if !v.IsEnabled() || v.IsAuto() || v.IsDisabled() {
		t.Errorf("after Set(enabled): enabled=%v disabled=%v auto=%v", v.IsEnabled(), v.IsDisabled(), v.IsAuto())
	}
	if err := v.Set("on"); !errors.Is(err, ErrNotInChoices) {
		t.Errorf("Set(on) error = %v, want ErrNotInChoices", err)
	}
}

func TestFormatListLiteralRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		list []string
	}{
		{name: "empty", list: []string{}},
		{name: "single", list: []string{"a"}},
		{name: "plain", list: []string{"a", "b", "c"}},
		{name: "embedded comma", list: []string{"a,b", "c"}},
		{name: "embedded quote", list: []string{"it's", "fine"}},
		{name: "embedded backslash", list: []string{`C:\tmp`, "x"}},
		{name: "empty element", list: []string{"", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rendered := FormatListLiteral(tt.list)
			parsed, err := parseListLiteral(rendered)
			if err != nil {
				t.Fatalf("parseListLiteral(%q) returned error: %v", rendered, err)
			}
			if diff := cmp.Diff(tt.list, parsed); diff != "" {
				t.Errorf("round trip through %q mismatch (-want +got):\n%s", rendered, diff)
			}
		})
	}
}

// SPDX-License-Identifier: MPL-2.0

package options

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"mvdan.cc/sh/v3/shell"
)

// ArrayConfig tunes how an ArrayValue interprets and checks its input.
type ArrayConfig struct {
	// SplitArgs makes plain string input shell-argument-lexed instead of
	// comma-split.
	SplitArgs bool
	// AllowDups suppresses the deprecation warning on duplicated elements.
	AllowDups bool
	// Choices optionally restricts every element to this set.
	Choices []string
}

// ArrayValue stores an ordered list of strings. Raw input may be a native
// string list, a bracketed list literal, a comma-separated string, or (with
// SplitArgs) a shell-lexed argument string.
type ArrayValue struct {
	desc     string
	yielding bool
	cfg      ArrayConfig
	val      []string
}

// NewArray constructs an array option value. The initial value is trusted;
// only Set input is validated.
func NewArray(desc string, yielding bool, val []string, cfg ArrayConfig) *ArrayValue {
	return &ArrayValue{desc: desc, yielding: yielding, cfg: cfg, val: slices.Clone(val)}
}

// Kind returns KindArray.
func (v *ArrayValue) Kind() Kind { return KindArray }

// Description returns the option description.
func (v *ArrayValue) Description() string { return v.desc }

// Yielding reports whether subproject instances inherit the root value.
func (v *ArrayValue) Yielding() bool { return v.yielding }

// Choices returns the per-element choice set, or nil when unconstrained.
func (v *ArrayValue) Choices() []string { return slices.Clone(v.cfg.Choices) }

// Config returns the array behavior toggles.
func (v *ArrayValue) Config() ArrayConfig {
	cfg := v.cfg
	cfg.Choices = slices.Clone(v.cfg.Choices)
	return cfg
}

// Validate converts raw input into a string list, warns on duplicated
// elements unless AllowDups is set, and enforces the per-element choice set.
func (v *ArrayValue) Validate(raw any) (any, error) {
	list, err := v.toList(raw)
	if err != nil {
		return nil, err
	}

	if !v.cfg.AllowDups && hasDuplicates(list) {
		slog.Warn("duplicated values in array option are deprecated and will become a hard error",
			"value", list)
	}

	if len(v.cfg.Choices) > 0 {
		var bad []string
		for _, e := range list {
			if !slices.Contains(v.cfg.Choices, e) {
				bad = append(bad, e)
			}
		}
		if len(bad) > 0 {
			return nil, &NotInChoicesError{Value: strings.Join(bad, ", "), Choices: slices.Clone(v.cfg.Choices)}
		}
	}
	return list, nil
}

func (v *ArrayValue) toList(raw any) ([]string, error) {
	switch t := raw.(type) {
	case []string:
		return slices.Clone(t), nil
	case []any:
		list := make([]string, 0, len(t))
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil, &MalformedArrayError{Value: raw, Reason: fmt.Sprintf("element %v is not a string", e)}
			}
			list = append(list, s)
		}
		return list, nil
	case string:
		switch {
		case strings.HasPrefix(t, "["):
			list, err := parseListLiteral(t)
			if err != nil {
				return nil, &MalformedArrayError{Value: raw, Reason: err.Error()}
			}
			return list, nil
		case t == "":
			return []string{}, nil
		case v.cfg.SplitArgs:
			list, err := shell.Fields(t, nil)
			if err != nil {
				return nil, &MalformedArrayError{Value: raw, Reason: err.Error()}
			}
			return list, nil
		default:
			parts := strings.Split(t, ",")
			list := make([]string, len(parts))
			for i, p := range parts {
				list[i] = strings.TrimSpace(p)
			}
			return list, nil
		}
	}
	return nil, &MalformedArrayError{Value: raw, Reason: "expected a string list or a string"}
}

func hasDuplicates(list []string) bool {
	seen := make(map[string]struct{}, len(list))
	for _, e := range list {
		if _, ok := seen[e]; ok {
			return true
		}
		seen[e] = struct{}{}
	}
	return false
}

// Set validates raw and replaces the stored value.
func (v *ArrayValue) Set(raw any) error {
	cleaned, err := v.Validate(raw)
	if err != nil {
		return err
	}
	v.val = cleaned.([]string)
	return nil
}

// Any returns the stored string list.
func (v *ArrayValue) Any() any { return slices.Clone(v.val) }

// Strings returns the stored value as its native type.
func (v *ArrayValue) Strings() []string { return slices.Clone(v.val) }

// Printable renders the list as a bracketed literal.
func (v *ArrayValue) Printable() string { return FormatListLiteral(v.val) }

// SPDX-License-Identifier: MPL-2.0

package machinefile

import (
	"path"
	"strconv"
	"strings"
	"unicode"
)

// Machine file entry values are a small expression language:
//
//	c = '/usr/bin/cc'
//	args = ['-mcpu=power9', '-mtune=power9']
//	link_args = args + ['-static']
//	bindir = prefix / 'bin'
//	needs_exe_wrapper = true
//
// Strings concatenate with '+', arrays concatenate with '+', and '/'
// joins path fragments. Identifiers resolve against the [constants]
// scope (plus the True/False aliases).

type tokKind uint8

const (
	tokString tokKind = iota
	tokNumber
	tokIdent
	tokLBracket
	tokRBracket
	tokComma
	tokPlus
	tokSlash
)

type token struct {
	kind tokKind
	str  string
	num  int64
}

type evaluator struct {
	section string
	entry   string
	raw     string
	toks    []token
	pos     int
	scope   map[string]any
}

// evalExpr evaluates one entry value against the constants scope.
func evalExpr(section, entry, raw string, scope map[string]any) (any, error) {
	ev := &evaluator{section: section, entry: entry, raw: raw, scope: scope}
	if err := ev.tokenize(); err != nil {
		return nil, err
	}
	if len(ev.toks) == 0 {
		return nil, ev.bad("empty value")
	}
	v, err := ev.expression()
	if err != nil {
		return nil, err
	}
	if ev.pos != len(ev.toks) {
		return nil, ev.bad("trailing content after expression")
	}
	return v, nil
}

func (ev *evaluator) bad(reason string) error {
	return &BadValueError{Section: ev.section, Entry: ev.entry, Value: ev.raw, Reason: reason}
}

func (ev *evaluator) tokenize() error {
	s := ev.raw
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '\'' || c == '"':
			lit, rest, err := scanString(s[i:], c)
			if err != nil {
				return ev.bad(err.Error())
			}
			ev.toks = append(ev.toks, token{kind: tokString, str: lit})
			i = len(s) - len(rest)
		case c == '[':
			ev.toks = append(ev.toks, token{kind: tokLBracket})
			i++
		case c == ']':
			ev.toks = append(ev.toks, token{kind: tokRBracket})
			i++
		case c == ',':
			ev.toks = append(ev.toks, token{kind: tokComma})
			i++
		case c == '+':
			ev.toks = append(ev.toks, token{kind: tokPlus})
			i++
		case c == '/':
			ev.toks = append(ev.toks, token{kind: tokSlash})
			i++
		case c >= '0' && c <= '9' || c == '-' && i+1 < len(s) && s[i+1] >= '0' && s[i+1] <= '9':
			j := i + 1
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			n, err := strconv.ParseInt(s[i:j], 10, 64)
			if err != nil {
				return ev.bad("bad number " + s[i:j])
			}
			ev.toks = append(ev.toks, token{kind: tokNumber, num: n})
			i = j
		case isIdentStart(rune(c)):
			j := i + 1
			for j < len(s) && isIdentPart(rune(s[j])) {
				j++
			}
			ev.toks = append(ev.toks, token{kind: tokIdent, str: s[i:j]})
			i = j
		default:
			return ev.bad("unexpected character " + strconv.QuoteRune(rune(c)))
		}
	}
	return nil
}

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }
func isIdentPart(r rune) bool  { return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) }

// scanString consumes one quoted literal with backslash escapes and
// returns the contents plus the unconsumed remainder.
func scanString(s string, quote byte) (string, string, error) {
	var sb strings.Builder
	for i := 1; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			if i+1 >= len(s) {
				return "", "", errStr("dangling escape in string literal")
			}
			i++
			switch s[i] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			default:
				sb.WriteByte(s[i])
			}
		case quote:
			return sb.String(), s[i+1:], nil
		default:
			sb.WriteByte(c)
		}
	}
	return "", "", errStr("unterminated string literal")
}

type errStr string

func (e errStr) Error() string { return string(e) }

// expression parses `operand (('+' | '/') operand)*` left to right.
func (ev *evaluator) expression() (any, error) {
	left, err := ev.operand()
	if err != nil {
		return nil, err
	}
	for ev.pos < len(ev.toks) {
		op := ev.toks[ev.pos].kind
		if op != tokPlus && op != tokSlash {
			return left, nil
		}
		ev.pos++
		right, err := ev.operand()
		if err != nil {
			return nil, err
		}
		left, err = ev.apply(op, left, right)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (ev *evaluator) apply(op tokKind, left, right any) (any, error) {
	if op == tokSlash {
		ls, lok := left.(string)
		rs, rok := right.(string)
		if !lok || !rok {
			return nil, ev.bad("the path join operator needs string operands")
		}
		return path.Join(ls, rs), nil
	}

	switch l := left.(type) {
	case string:
		r, ok := right.(string)
		if !ok {
			return nil, ev.bad("cannot concatenate a string with a non-string")
		}
		return l + r, nil
	case []string:
		r, ok := right.([]string)
		if !ok {
			return nil, ev.bad("cannot concatenate an array with a non-array")
		}
		out := make([]string, 0, len(l)+len(r))
		out = append(out, l...)
		return append(out, r...), nil
	case int64:
		r, ok := right.(int64)
		if !ok {
			return nil, ev.bad("cannot add an integer to a non-integer")
		}
		return l + r, nil
	}
	return nil, ev.bad("operands do not support concatenation")
}

func (ev *evaluator) operand() (any, error) {
	if ev.pos >= len(ev.toks) {
		return nil, ev.bad("missing operand")
	}
	t := ev.toks[ev.pos]
	switch t.kind {
	case tokString:
		ev.pos++
		return t.str, nil
	case tokNumber:
		ev.pos++
		return t.num, nil
	case tokIdent:
		ev.pos++
		switch t.str {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		v, ok := ev.scope[t.str]
		if !ok {
			return nil, &UndefinedConstantError{Section: ev.section, Entry: ev.entry, Name: t.str}
		}
		return v, nil
	case tokLBracket:
		return ev.array()
	}
	return nil, ev.bad("unexpected token")
}

// array parses a bracketed list of string-valued expressions.
func (ev *evaluator) array() (any, error) {
	ev.pos++ // consume '['
	out := []string{}
	expectElem := true
	for ev.pos < len(ev.toks) {
		t := ev.toks[ev.pos]
		switch {
		case t.kind == tokRBracket:
			if expectElem && len(out) > 0 {
				return nil, ev.bad("trailing comma in array")
			}
			ev.pos++
			return out, nil
		case t.kind == tokComma:
			if expectElem {
				return nil, ev.bad("missing element before comma")
			}
			expectElem = true
			ev.pos++
		default:
			if !expectElem {
				return nil, ev.bad("missing comma between elements")
			}
			v, err := ev.expression()
			if err != nil {
				return nil, err
			}
			switch e := v.(type) {
			case string:
				out = append(out, e)
			case []string:
				out = append(out, e...)
			default:
				return nil, ev.bad("array elements must be strings")
			}
			expectElem = false
		}
	}
	return nil, ev.bad("unterminated array")
}

// SPDX-License-Identifier: MPL-2.0

package options

import (
	"errors"
	"fmt"
	"strings"
)

// parseListLiteral parses a bracketed string-list literal such as
//
//	['a', "b", 'c,d']
//
// into its elements. Both quote styles are accepted, with backslash escapes
// for the quote character and backslash itself. This is the list syntax used
// by array options and by the cross/native file list recorded in
// cmd_line.txt.
func parseListLiteral(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, errors.New("list literal must be enclosed in brackets")
	}
	inner := s[1 : len(s)-1]

	list := []string{}
	i := 0
	expectElem := true
	for i < len(inner) {
		switch c := inner[i]; {
		case c == ' ' || c == '\t' || c == '\n':
			i++
		case c == ',':
			if expectElem {
				return nil, errors.New("missing element before comma")
			}
			expectElem = true
			i++
		case c == '\'' || c == '"':
			if !expectElem {
				return nil, errors.New("missing comma between elements")
			}
			elem, rest, err := scanQuoted(inner[i:], c)
			if err != nil {
				return nil, err
			}
			list = append(list, elem)
			i = len(inner) - len(rest)
			expectElem = false
		default:
			return nil, fmt.Errorf("unexpected character %q in list literal", c)
		}
	}
	if expectElem && len(list) > 0 {
		return nil, errors.New("trailing comma in list literal")
	}
	return list, nil
}

// scanQuoted consumes one quoted string starting at s[0] == quote and
// returns the unescaped contents plus the unconsumed remainder.
func scanQuoted(s string, quote byte) (string, string, error) {
	var sb strings.Builder
	for i := 1; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			if i+1 >= len(s) {
				return "", "", errors.New("dangling escape in string literal")
			}
			i++
			sb.WriteByte(s[i])
		case quote:
			return sb.String(), s[i+1:], nil
		default:
			sb.WriteByte(c)
		}
	}
	return "", "", errors.New("unterminated string literal")
}

// ParseListLiteral parses a bracketed string-list literal into its
// elements.
func ParseListLiteral(s string) ([]string, error) {
	return parseListLiteral(s)
}

// FormatListLiteral renders elements as a single-quoted bracketed list
// literal, the inverse of the parse accepted by array options.
func FormatListLiteral(list []string) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, e := range list {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('\'')
		e = strings.ReplaceAll(e, `\`, `\\`)
		e = strings.ReplaceAll(e, `'`, `\'`)
		sb.WriteString(e)
		sb.WriteByte('\'')
	}
	sb.WriteByte(']')
	return sb.String()
}

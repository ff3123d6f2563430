// SPDX-License-Identifier: MPL-2.0

package options

import (
	"os"
	"path/filepath"
	"strings"
)

// SanitizePrefix expands a leading "~", requires the result to be absolute,
// and strips a trailing path separator. The root directory and Windows
// drive roots like "C:\" keep their trailing separator because stripping it
// would change their meaning.
func SanitizePrefix(prefix string) (string, error) {
	if prefix == "~" || strings.HasPrefix(prefix, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			prefix = filepath.Join(home, prefix[1:])
		}
	}
	if !filepath.IsAbs(prefix) {
		return "", &InvalidPrefixError{Value: prefix}
	}
	if strings.HasSuffix(prefix, "/") || strings.HasSuffix(prefix, "\\") {
		switch {
		case len(prefix) == 3 && prefix[1] == ':':
			// "C:\" is absolute, "C:" is not.
		case len(prefix) == 1:
			// Root directory.
		default:
			prefix = prefix[:len(prefix)-1]
		}
	}
	return prefix, nil
}

// SanitizeDirValue normalizes the value of an installation directory option.
// An absolute path must resolve underneath prefix and is stored in its
// prefix-relative form; anything else is returned unchanged. Options in the
// no-prefix table keep absolute values as given.
func (t *Tables) SanitizeDirValue(prefix, option string, value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return value, nil
	}
	if !strings.HasSuffix(option, "dir") || !filepath.IsAbs(s) || t.IsNoPrefixDirName(option) {
		return value, nil
	}

	rel, err := filepath.Rel(prefix, s)
	if err != nil || escapesParent(rel) {
		return nil, &DirEscapesPrefixError{Option: option, Value: s, Prefix: prefix}
	}
	return filepath.ToSlash(rel), nil
}

// escapesParent reports whether a relative path contains a ".." component.
func escapesParent(rel string) bool {
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if part == ".." {
			return true
		}
	}
	return false
}

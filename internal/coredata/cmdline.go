// SPDX-License-Identifier: MPL-2.0

package coredata

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/afero"
	"gopkg.in/ini.v1"

	"mason-cli/internal/options"
)

// CmdLineFileName is the human-readable replay file recorded next to the
// cache. Reconfiguration merges it with the new invocation's options so
// values given once keep applying.
const CmdLineFileName = "cmd_line.txt"

const (
	cmdLineOptionsSection    = "options"
	cmdLinePropertiesSection = "properties"

	crossFileKey  = "cross_file"
	nativeFileKey = "native_file"
)

// CmdLine is the decoded content of the replay file.
type CmdLine struct {
	Options     *options.List
	CrossFiles  []string
	NativeFiles []string
}

// cmdLineIniOptions keeps ':' usable inside option keys; only '=' may
// separate a key from its value.
var cmdLineIniOptions = ini.LoadOptions{
	KeyValueDelimiters:       "=",
	KeyValueDelimiterOnWrite: "=",
	IgnoreInlineComment:      true,
	PreserveSurroundedQuote:  true,
}

// CmdLinePath returns the replay file location inside a build directory.
func CmdLinePath(buildDir string) string {
	return filepath.Join(buildDir, PrivateDirName, CmdLineFileName)
}

// WriteCmdLine records the effective command-line options and machine
// files of a configure run. Option names keep their exact case; list
// values use the bracketed literal form the option layer parses back.
func WriteCmdLine(fs afero.Fs, buildDir string, cl CmdLine) error {
	file := ini.Empty(cmdLineIniOptions)

	props, err := file.NewSection(cmdLinePropertiesSection)
	if err != nil {
		return fmt.Errorf("writing replay file: %w", err)
	}
	if len(cl.CrossFiles) > 0 {
		props.NewKey(crossFileKey, options.FormatListLiteral(cl.CrossFiles))
	}
	if len(cl.NativeFiles) > 0 {
		props.NewKey(nativeFileKey, options.FormatListLiteral(cl.NativeFiles))
	}

	opts, err := file.NewSection(cmdLineOptionsSection)
	if err != nil {
		return fmt.Errorf("writing replay file: %w", err)
	}
	if cl.Options != nil {
		for k, raw := range cl.Options.All() {
			opts.NewKey(k.String(), renderRawValue(raw))
		}
	}

	path := CmdLinePath(buildDir)
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating private directory: %w", err)
	}
	out, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("creating replay file: %w", err)
	}
	if _, err := file.WriteTo(out); err != nil {
		out.Close()
		return fmt.Errorf("writing replay file: %w", err)
	}
	return out.Close()
}

// ReadCmdLine loads the replay file back. Option values come back as
// strings; the option layer coerces them on Set.
func ReadCmdLine(fs afero.Fs, buildDir string) (CmdLine, error) {
	path := CmdLinePath(buildDir)
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return CmdLine{}, fmt.Errorf("reading replay file: %w", err)
	}
	file, err := ini.LoadSources(cmdLineIniOptions, data)
	if err != nil {
		return CmdLine{}, fmt.Errorf("parsing replay file %s: %w", path, err)
	}

	cl := CmdLine{Options: options.NewList()}
	if props, err := file.GetSection(cmdLinePropertiesSection); err == nil {
		if props.HasKey(crossFileKey) {
			cl.CrossFiles, err = options.ParseListLiteral(props.Key(crossFileKey).String())
			if err != nil {
				return CmdLine{}, fmt.Errorf("parsing replay file %s: %s: %w", path, crossFileKey, err)
			}
		}
		if props.HasKey(nativeFileKey) {
			cl.NativeFiles, err = options.ParseListLiteral(props.Key(nativeFileKey).String())
			if err != nil {
				return CmdLine{}, fmt.Errorf("parsing replay file %s: %s: %w", path, nativeFileKey, err)
			}
		}
	}

	if opts, err := file.GetSection(cmdLineOptionsSection); err == nil {
		for _, key := range opts.Keys() {
			k, err := options.ParseKey(key.Name())
			if err != nil {
				return CmdLine{}, fmt.Errorf("parsing replay file %s: %w", path, err)
			}
			cl.Options.Set(k, key.String())
		}
	}
	return cl, nil
}

// MergeOptions overlays a new invocation's options onto the recorded ones.
// The recorded values keep their positions; new values win on conflict and
// append otherwise.
func MergeOptions(recorded, fresh *options.List) *options.List {
	out := options.NewList()
	if recorded != nil {
		for k, v := range recorded.All() {
			out.Set(k, v)
		}
	}
	if fresh != nil {
		for k, v := range fresh.All() {
			out.Set(k, v)
		}
	}
	return out
}

// renderRawValue converts a raw option value into its replay-file text.
func renderRawValue(raw any) string {
	switch t := raw.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case []string:
		return options.FormatListLiteral(t)
	}
	return fmt.Sprintf("%v", raw)
}

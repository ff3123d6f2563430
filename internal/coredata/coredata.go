// SPDX-License-Identifier: MPL-2.0

// Package coredata owns the persistent state of a configured build
// directory: the option store, the stable GUIDs handed to backends, the
// cross and native files the configuration was made with, and the cache
// file plus command-line replay file that make reconfiguration possible.
package coredata

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"mason-cli/internal/options"
)

// Version is the tool version stamped into every cache file. A cache
// written by a different major.minor version is refused on load.
const Version = "0.55.0"

// CoreData is the root object persisted across configure runs.
type CoreData struct {
	version string
	store   *options.Store

	// Stable identifiers for backend project files. Generated once at
	// first configure and kept for the lifetime of the build directory so
	// regenerated projects keep their identity.
	regenGUID   string
	testGUID    string
	installGUID string
	targetGUIDs map[string]string

	crossFiles  []string
	nativeFiles []string

	// configureArgs is the raw option and file arguments of the first
	// configure invocation, kept verbatim for display.
	configureArgs []string
}

// Params carries the inputs of a first-time configure.
type Params struct {
	Store         *options.Store
	CrossFiles    []string
	NativeFiles   []string
	ConfigureArgs []string
}

// New creates the core data of a freshly configured build directory.
func New(p Params) *CoreData {
	return &CoreData{
		version:       Version,
		store:         p.Store,
		regenGUID:     newGUID(),
		testGUID:      newGUID(),
		installGUID:   newGUID(),
		targetGUIDs:   make(map[string]string),
		crossFiles:    append([]string(nil), p.CrossFiles...),
		nativeFiles:   append([]string(nil), p.NativeFiles...),
		configureArgs: append([]string(nil), p.ConfigureArgs...),
	}
}

// newGUID returns an uppercase random GUID, the casing backend project
// files expect.
func newGUID() string {
	return strings.ToUpper(uuid.New().String())
}

// Options returns the live option store.
func (c *CoreData) Options() *options.Store { return c.store }

// VersionString returns the version the cache was written by.
func (c *CoreData) VersionString() string { return c.version }

// RegenGUID returns the GUID of the regeneration pseudo-target.
func (c *CoreData) RegenGUID() string { return c.regenGUID }

// TestGUID returns the GUID of the test runner pseudo-target.
func (c *CoreData) TestGUID() string { return c.testGUID }

// InstallGUID returns the GUID of the install pseudo-target.
func (c *CoreData) InstallGUID() string { return c.installGUID }

// TargetGUID returns the stable GUID for a build target, creating one on
// first use.
func (c *CoreData) TargetGUID(name string) string {
	if g, ok := c.targetGUIDs[name]; ok {
		return g
	}
	g := newGUID()
	c.targetGUIDs[name] = g
	return g
}

// TargetNames returns the targets that have been assigned a GUID, sorted.
func (c *CoreData) TargetNames() []string {
	names := make([]string, 0, len(c.targetGUIDs))
	for n := range c.targetGUIDs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// CrossFiles returns the cross files of the original configure.
func (c *CoreData) CrossFiles() []string { return append([]string(nil), c.crossFiles...) }

// NativeFiles returns the native files of the original configure.
func (c *CoreData) NativeFiles() []string { return append([]string(nil), c.nativeFiles...) }

// IsCrossBuild reports whether the configuration uses any cross file.
func (c *CoreData) IsCrossBuild() bool { return len(c.crossFiles) > 0 }

// ConfigureArgs returns the verbatim arguments of the first configure.
func (c *CoreData) ConfigureArgs() []string { return append([]string(nil), c.configureArgs...) }

// FormatConfigureCommand renders the command line that reproduces the
// current configuration, for logs and introspection output.
func FormatConfigureCommand(program, sourceDir, buildDir string, c *CoreData) string {
	parts := []string{program, "setup"}
	parts = append(parts, c.configureArgs...)
	for _, f := range c.crossFiles {
		parts = append(parts, "--cross-file", f)
	}
	for _, f := range c.nativeFiles {
		parts = append(parts, "--native-file", f)
	}
	parts = append(parts, sourceDir, buildDir)
	return strings.Join(parts, " ")
}

// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	CorruptCacheId Id = iota + 1
	CacheVersionMismatchId
	UnknownOptionId
	InvalidOptionValueId
	OptionSpecifiedTwiceId
	InvalidPrefixId
	DirEscapesPrefixId
	MachineFileErrorId
	BuildDirNotConfiguredId
	ConfigLoadFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	corruptCacheIssue = &Issue{
		id: CorruptCacheId,
		mdMsg: `
# Configuration cache is corrupted!

The cache file in your build directory could not be read back. This
usually happens after an interrupted configure run or a disk problem.

## Things you can try:
- A backup of the previous cache is kept next to it; rename it back:
~~~
$ mv builddir/mason-private/coredata.dat.prev builddir/mason-private/coredata.dat
~~~

- Or wipe the build directory and configure from scratch:
~~~
$ rm -rf builddir
$ mason setup builddir
~~~`,
	}

	cacheVersionMismatchIssue = &Issue{
		id: CacheVersionMismatchId,
		mdMsg: `
# Build directory was configured by an incompatible version!

The cache in this build directory was written by a version of the tool
whose on-disk format is not compatible with the one you are running.

## Things you can try:
- Reconfigure the build directory from scratch:
~~~
$ rm -rf builddir
$ mason setup builddir
~~~

- Or keep using the version that configured it.`,
	}

	unknownOptionIssue = &Issue{
		id: UnknownOptionId,
		mdMsg: `
# Unknown option!

You passed an option this project does not declare and that is not a
builtin either.

## Things you can try:
- List every option the configured build directory knows:
~~~
$ mason introspect --buildoptions builddir
~~~

- Check for typos; subproject options are spelled ` + "`subproject:name`" + `
  and build-machine options ` + "`build.name`" + `.`,
	}

	invalidOptionValueIssue = &Issue{
		id: InvalidOptionValueId,
		mdMsg: `
# Invalid option value!

The value you passed does not fit the option's type or constraints.

## Option value rules:
- **boolean**: ` + "`true`" + ` or ` + "`false`" + `
- **integer**: a decimal number, possibly range-limited
- **combo**: one value out of a fixed choice list
- **array**: ` + "`a,b,c`" + ` or ` + "`['a', 'b', 'c']`" + `

## Things you can try:
- Check the reported choices or range in the error message
- Inspect the option's type and current value:
~~~
$ mason introspect --buildoptions builddir
~~~`,
	}

	optionSpecifiedTwiceIssue = &Issue{
		id: OptionSpecifiedTwiceId,
		mdMsg: `
# Option specified more than once!

The same option appeared multiple times on one command line, which makes
the intended value ambiguous.

## Things you can try:
- Drop the duplicates and keep a single ` + "`-Doption=value`" + `
- Check shell aliases and wrapper scripts that may append options`,
	}

	invalidPrefixIssue = &Issue{
		id: InvalidPrefixId,
		mdMsg: `
# Invalid installation prefix!

The installation prefix must be an absolute path.

## Things you can try:
- Pass an absolute path:
~~~
$ mason setup -Dprefix=/opt/myapp builddir
~~~

- A leading ` + "`~`" + ` is expanded to your home directory.`,
	}

	dirEscapesPrefixIssue = &Issue{
		id: DirEscapesPrefixId,
		mdMsg: `
# Installation directory outside the prefix!

An absolute installation directory must live underneath the installation
prefix so it can be stored in its prefix-relative form.

## Things you can try:
- Use a path below the prefix, or a relative one:
~~~
$ mason setup -Dprefix=/usr -Dlibdir=/usr/lib64 builddir
$ mason setup -Dprefix=/usr -Dlibdir=lib64 builddir
~~~

- ` + "`sysconfdir`" + `, ` + "`localstatedir`" + ` and ` + "`sharedstatedir`" + `
  are exempt and may point anywhere.`,
	}

	machineFileErrorIssue = &Issue{
		id: MachineFileErrorId,
		mdMsg: `
# Failed to parse a machine file!

A cross or native file you passed contains a syntax error or references
an undefined constant.

## Machine file format:
~~~ini
[constants]
toolchain = '/opt/toolchain'

[binaries]
c = toolchain / 'bin' / 'cc'

[host_machine]
system = 'linux'
cpu_family = 'arm'
cpu = 'armv7hl'
endian = 'little'
~~~

## Things you can try:
- Define every referenced name in the [constants] section
- Quote string values; bare words are treated as constant references`,
	}

	buildDirNotConfiguredIssue = &Issue{
		id: BuildDirNotConfiguredId,
		mdMsg: `
# Build directory is not configured!

The directory you pointed at has no configuration cache.

## Things you can try:
- Configure it first:
~~~
$ mason setup builddir
~~~

- Or point the command at the right build directory.`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the mason configuration file.

## Configuration file locations:
- Linux: ~/.config/mason/config.cue
- macOS: ~/Library/Application Support/mason/config.cue
- Windows: %APPDATA%\mason\config.cue

## Things you can try:
- Check the configuration syntax
- Remove the config file to use defaults:
~~~
$ rm ~/.config/mason/config.cue
~~~

## Example configuration:
~~~cue
log_level: "info"
no_color: false
machine_file_dirs: [
    "/home/user/machine-files"
]
~~~`,
	}

	issues = map[Id]*Issue{
		corruptCacheIssue.Id():          corruptCacheIssue,
		cacheVersionMismatchIssue.Id():  cacheVersionMismatchIssue,
		unknownOptionIssue.Id():         unknownOptionIssue,
		invalidOptionValueIssue.Id():    invalidOptionValueIssue,
		optionSpecifiedTwiceIssue.Id():  optionSpecifiedTwiceIssue,
		invalidPrefixIssue.Id():         invalidPrefixIssue,
		dirEscapesPrefixIssue.Id():      dirEscapesPrefixIssue,
		machineFileErrorIssue.Id():      machineFileErrorIssue,
		buildDirNotConfiguredIssue.Id(): buildDirNotConfiguredIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}

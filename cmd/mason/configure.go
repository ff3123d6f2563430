// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"mason-cli/internal/coredata"
	"mason-cli/internal/issue"
	"mason-cli/internal/options"
)

// newConfigureCommand creates the `mason configure` command.
func newConfigureCommand(app *App) *cobra.Command {
	var (
		defines    []string
		fatalWarns bool
	)

	configureCmd := &cobra.Command{
		Use:   "configure [builddir]",
		Short: "Change options of a configured build directory",
		Long: `Change options of a configured build directory.

Without -D arguments the current options are listed. With -D arguments
the changes are validated against the stored option set, applied, and
recorded so later reconfigures replay them.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			buildDir := "."
			if len(args) == 1 {
				buildDir = args[0]
			}
			if len(defines) == 0 {
				return listOptions(app, buildDir)
			}
			fresh, _, err := parseDefines(defines)
			if err != nil {
				return err
			}
			return reapplyOptions(app, buildDir, fresh, fatalWarns)
		},
	}

	configureCmd.Flags().StringArrayVarP(&defines, "define", "D", nil, "set the value of a build option (option=value)")
	configureCmd.Flags().BoolVar(&fatalWarns, "fatal-warnings", false, "treat unknown options as errors")

	return configureCmd
}

// loadCoreData loads the persisted configuration of a build directory,
// rendering the actionable description of known failure modes.
func loadCoreData(app *App, buildDir string) (*coredata.CoreData, *options.Tables, error) {
	tables := options.DefaultTables()
	cd, err := coredata.Load(app.Fs, buildDir, tables)
	if err != nil {
		switch {
		case errors.Is(err, os.ErrNotExist):
			renderIssue(issue.BuildDirNotConfiguredId)
		case errors.Is(err, coredata.ErrVersionMismatch):
			renderIssue(issue.CacheVersionMismatchId)
		case errors.Is(err, coredata.ErrCorruptCache):
			renderIssue(issue.CorruptCacheId)
		}
		return nil, nil, err
	}
	return cd, tables, nil
}

// reapplyOptions applies fresh option changes to an already configured
// build directory and records them for replay.
func reapplyOptions(app *App, buildDir string, fresh *options.List, strict bool) error {
	cd, _, err := loadCoreData(app, buildDir)
	if err != nil {
		return err
	}

	if _, err := cd.Options().SetOptions(fresh, options.SetOptionsArgs{Strict: strict}); err != nil {
		return classifyOptionError(err)
	}

	recorded, err := coredata.ReadCmdLine(app.Fs, buildDir)
	if err != nil {
		return err
	}
	recorded.Options = coredata.MergeOptions(recorded.Options, fresh)

	if err := coredata.Save(app.Fs, buildDir, cd); err != nil {
		return err
	}
	if err := coredata.WriteCmdLine(app.Fs, buildDir, recorded); err != nil {
		return err
	}

	fmt.Fprintln(app.stdout, SuccessStyle.Render("✓")+" Options updated")
	return nil
}

// listOptions prints every stored option grouped the way the store orders
// them, followed by the command line that reproduces the configuration.
func listOptions(app *App, buildDir string) error {
	cd, _, err := loadCoreData(app, buildDir)
	if err != nil {
		return err
	}

	var lastGroup string
	for _, e := range cd.Options().Entries() {
		group := e.Group.String()
		if group != lastGroup {
			header := strings.ToUpper(group[:1]) + group[1:] + " options"
			fmt.Fprintln(app.stdout, sectionHeaderStyle.Render(header))
			lastGroup = group
		}

		line := fmt.Sprintf("  %-36s %-18s %s",
			optionNameStyle.Render(e.Key.String()),
			optionValueStyle.Render(e.Value.Printable()),
			SubtitleStyle.Render(e.Value.Description()))
		if choices := e.Value.Choices(); len(choices) > 0 {
			line += SubtitleStyle.Render(" [" + strings.Join(choices, ", ") + "]")
		}
		fmt.Fprintln(app.stdout, line)
	}

	fmt.Fprintln(app.stdout)
	fmt.Fprintln(app.stdout, SubtitleStyle.Render("Reproduce with:"))
	fmt.Fprintln(app.stdout, "  "+CmdStyle.Render(coredata.FormatConfigureCommand("mason", ".", buildDir, cd)))
	return nil
}

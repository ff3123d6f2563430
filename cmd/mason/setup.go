// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"mason-cli/internal/config"
	"mason-cli/internal/coredata"
	"mason-cli/internal/issue"
	"mason-cli/internal/machinefile"
	"mason-cli/internal/options"
)

// newSetupCommand creates the `mason setup` command.
func newSetupCommand(app *App) *cobra.Command {
	var (
		defines     []string
		crossFiles  []string
		nativeFiles []string
		reconfigure bool
		fatalWarns  bool
	)

	setupCmd := &cobra.Command{
		Use:   "setup <builddir> [sourcedir]",
		Short: "Configure a build directory",
		Long: `Configure a build directory from a source tree.

Options are applied in increasing priority: machine file defaults first
(native files, then cross files), persistent defaults from the mason
config file, and finally -D assignments from this command line.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sourceDir := "."
			if len(args) == 2 {
				sourceDir = args[1]
			}
			return runSetup(cmd, app, setupRequest{
				BuildDir:    args[0],
				SourceDir:   sourceDir,
				Defines:     defines,
				CrossFiles:  crossFiles,
				NativeFiles: nativeFiles,
				Reconfigure: reconfigure,
				Strict:      fatalWarns,
			})
		},
	}

	setupCmd.Flags().StringArrayVarP(&defines, "define", "D", nil, "set the value of a build option (option=value)")
	setupCmd.Flags().StringArrayVar(&crossFiles, "cross-file", nil, "cross build definition file (bare names are searched in configured directories)")
	setupCmd.Flags().StringArrayVar(&nativeFiles, "native-file", nil, "native build environment overrides file")
	setupCmd.Flags().BoolVar(&reconfigure, "reconfigure", false, "reapply options to an already configured directory")
	setupCmd.Flags().BoolVar(&fatalWarns, "fatal-warnings", false, "treat unknown options as errors")
	registerBuiltinFlags(setupCmd)

	return setupCmd
}

// setupRequest captures all setup inputs as an immutable value.
type setupRequest struct {
	BuildDir    string
	SourceDir   string
	Defines     []string
	CrossFiles  []string
	NativeFiles []string
	Reconfigure bool
	Strict      bool
}

// registerBuiltinFlags adds one long flag per builtin option so users can
// write --buildtype release instead of -Dbuildtype=release. Flag names use
// dashes where option names use underscores.
func registerBuiltinFlags(cmd *cobra.Command) {
	tables := options.DefaultTables()
	for _, b := range append(tables.BuiltinOptions(), tables.PerMachineOptions()...) {
		flagName := builtinFlagName(b.Name)
		if cmd.Flags().Lookup(flagName) != nil {
			continue
		}
		cmd.Flags().String(flagName, "", b.Description)
	}
}

// builtinFlagName maps an option name to its long flag spelling.
// warning_level keeps its historical short spelling.
func builtinFlagName(optionName string) string {
	if optionName == "warning_level" {
		return "warnlevel"
	}
	return strings.ReplaceAll(optionName, "_", "-")
}

// collectBuiltinFlags folds changed builtin flags into the fresh option
// list. A builtin given both as a flag and as -D is fatal.
func collectBuiltinFlags(cmd *cobra.Command, fresh *options.List, configureArgs []string) ([]string, error) {
	tables := options.DefaultTables()
	for _, b := range append(tables.BuiltinOptions(), tables.PerMachineOptions()...) {
		flagName := builtinFlagName(b.Name)
		f := cmd.Flags().Lookup(flagName)
		if f == nil || !f.Changed {
			continue
		}
		k := options.NewKey(b.Name)
		if fresh.Has(k) {
			renderIssue(issue.OptionSpecifiedTwiceId)
			return nil, fmt.Errorf("option %q given both as --%s and as -D", b.Name, flagName)
		}
		fresh.Set(k, f.Value.String())
		configureArgs = append(configureArgs, fmt.Sprintf("-D%s=%s", b.Name, f.Value.String()))
	}
	return configureArgs, nil
}

// parseDefines parses -D assignments into an option list, preserving the
// raw argument strings for later replay.
func parseDefines(defines []string) (*options.List, []string, error) {
	fresh := options.NewList()
	configureArgs := make([]string, 0, len(defines))
	for _, d := range defines {
		name, value, ok := strings.Cut(d, "=")
		if !ok {
			return nil, nil, fmt.Errorf("option %q is malformed: expected option=value", d)
		}
		k, err := options.ParseKey(name)
		if err != nil {
			return nil, nil, err
		}
		if fresh.Has(k) {
			renderIssue(issue.OptionSpecifiedTwiceId)
			return nil, nil, fmt.Errorf("option %q given more than once", k.String())
		}
		fresh.Set(k, value)
		configureArgs = append(configureArgs, "-D"+d)
	}
	return fresh, configureArgs, nil
}

// resolveMachineFiles resolves bare machine file names against the
// configured search directories.
func resolveMachineFiles(cfg *config.Config, names []string) ([]string, error) {
	out := make([]string, 0, len(names))
	for _, n := range names {
		p, err := cfg.ResolveMachineFile(n)
		if err != nil {
			renderIssue(issue.MachineFileErrorId)
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func runSetup(cmd *cobra.Command, app *App, req setupRequest) error {
	if req.BuildDir == req.SourceDir {
		return fmt.Errorf("build directory %q must differ from the source directory", req.BuildDir)
	}

	fresh, configureArgs, err := parseDefines(req.Defines)
	if err != nil {
		return err
	}
	configureArgs, err = collectBuiltinFlags(cmd, fresh, configureArgs)
	if err != nil {
		return err
	}

	configured, err := afero.Exists(app.Fs, coredata.CachePath(req.BuildDir))
	if err != nil {
		return err
	}
	if configured {
		if !req.Reconfigure {
			return fmt.Errorf("build directory %q is already configured; run %s or pass --reconfigure",
				req.BuildDir, CmdStyle.Render("mason configure"))
		}
		return reapplyOptions(app, req.BuildDir, fresh, req.Strict)
	}

	cfg := currentConfig()

	nativePaths, err := resolveMachineFiles(cfg, req.NativeFiles)
	if err != nil {
		return err
	}
	crossPaths, err := resolveMachineFiles(cfg, req.CrossFiles)
	if err != nil {
		return err
	}

	tables := options.DefaultTables()
	store := options.NewStore(tables, options.Config{CrossBuild: len(crossPaths) > 0})

	backend := "ninja"
	if raw, ok := fresh.Get(options.NewKey("backend")); ok {
		if s, isStr := raw.(string); isStr {
			backend = s
		}
	}
	store.InitBackendOptions(backend)

	pending := options.NewPending()
	for _, paths := range [][]string{nativePaths, crossPaths} {
		if len(paths) == 0 {
			continue
		}
		mf, err := machinefile.ParseFiles(app.Fs, paths)
		if err != nil {
			renderIssue(issue.MachineFileErrorId)
			return err
		}
		defaults, err := mf.OptionDefaults()
		if err != nil {
			renderIssue(issue.MachineFileErrorId)
			return err
		}
		if err := store.SetDefaultOptions(defaults, "", pending); err != nil {
			return classifyOptionError(err)
		}
	}

	if len(cfg.DefaultOptions) > 0 {
		defaults, err := cfg.DefaultOptionsList()
		if err != nil {
			return err
		}
		if err := store.SetDefaultOptions(defaults, "", pending); err != nil {
			return classifyOptionError(err)
		}
	}

	if _, err := store.SetOptions(fresh, options.SetOptionsArgs{Strict: req.Strict}); err != nil {
		return classifyOptionError(err)
	}

	cd := coredata.New(coredata.Params{
		Store:         store,
		CrossFiles:    crossPaths,
		NativeFiles:   nativePaths,
		ConfigureArgs: configureArgs,
	})
	if err := coredata.Save(app.Fs, req.BuildDir, cd); err != nil {
		return err
	}
	if err := coredata.WriteCmdLine(app.Fs, req.BuildDir, coredata.CmdLine{
		Options:     fresh,
		CrossFiles:  crossPaths,
		NativeFiles: nativePaths,
	}); err != nil {
		return err
	}

	printSetupSummary(app, req, cd)
	return nil
}

// classifyOptionError maps option store failures to their actionable
// descriptions before returning the error unchanged.
func classifyOptionError(err error) error {
	switch {
	case errors.Is(err, options.ErrInvalidPrefix):
		renderIssue(issue.InvalidPrefixId)
	case errors.Is(err, options.ErrDirEscapesPrefix):
		renderIssue(issue.DirEscapesPrefixId)
	case errors.Is(err, options.ErrUnknownOption):
		renderIssue(issue.UnknownOptionId)
	case errors.Is(err, options.ErrValidation):
		renderIssue(issue.InvalidOptionValueId)
	}
	return err
}

func printSetupSummary(app *App, req setupRequest, cd *coredata.CoreData) {
	store := cd.Options()

	fmt.Fprintln(app.stdout, TitleStyle.Render("mason")+" "+SubtitleStyle.Render(coredata.Version))
	fmt.Fprintf(app.stdout, "  %s %s\n", SubtitleStyle.Render("Source dir:"), req.SourceDir)
	fmt.Fprintf(app.stdout, "  %s %s\n", SubtitleStyle.Render("Build dir: "), req.BuildDir)

	for _, name := range []string{"backend", "buildtype", "prefix"} {
		if v, err := store.GetValue(options.NewKey(name)); err == nil {
			fmt.Fprintf(app.stdout, "  %s %s\n",
				SubtitleStyle.Render(name+":"+strings.Repeat(" ", 10-len(name))),
				optionValueStyle.Render(v.Printable()))
		}
	}
	if cd.IsCrossBuild() {
		fmt.Fprintf(app.stdout, "  %s %s\n", SubtitleStyle.Render("Cross files:"), strings.Join(cd.CrossFiles(), ", "))
	}

	fmt.Fprintln(app.stdout, SuccessStyle.Render("✓")+" Build directory configured")
}

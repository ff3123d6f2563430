// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"mason-cli/internal/coredata"
	"mason-cli/internal/machine"
)

// buildOption is the JSON shape of one option in introspection output.
type buildOption struct {
	Name        string   `json:"name"`
	Section     string   `json:"section"`
	Machine     string   `json:"machine"`
	Type        string   `json:"type"`
	Value       any      `json:"value"`
	Description string   `json:"description"`
	Choices     []string `json:"choices,omitempty"`
	Yielding    bool     `json:"yielding"`
}

// newIntrospectCommand creates the `mason introspect` command.
func newIntrospectCommand(app *App) *cobra.Command {
	var (
		buildOptions bool
		projectInfo  bool
	)

	introspectCmd := &cobra.Command{
		Use:   "introspect [builddir]",
		Short: "Dump configured build state as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			buildDir := "."
			if len(args) == 1 {
				buildDir = args[0]
			}
			switch {
			case buildOptions:
				return introspectBuildOptions(app, buildDir)
			case projectInfo:
				return introspectProjectInfo(app, buildDir)
			default:
				return cmd.Help()
			}
		},
	}

	introspectCmd.Flags().BoolVar(&buildOptions, "buildoptions", false, "dump every configured option")
	introspectCmd.Flags().BoolVar(&projectInfo, "projectinfo", false, "dump version, GUIDs, and the configure command")

	return introspectCmd
}

// introspectBuildOptions writes the full option set as a JSON array.
func introspectBuildOptions(app *App, buildDir string) error {
	cd, _, err := loadCoreData(app, buildDir)
	if err != nil {
		return err
	}

	entries := cd.Options().Entries()
	out := make([]buildOption, 0, len(entries))
	for _, e := range entries {
		m := "host"
		if e.Key.Machine == machine.Build {
			m = "build"
		}
		out = append(out, buildOption{
			Name:        e.Key.String(),
			Section:     e.Group.String(),
			Machine:     m,
			Type:        e.Value.Kind().String(),
			Value:       e.Value.Any(),
			Description: e.Value.Description(),
			Choices:     e.Value.Choices(),
			Yielding:    e.Value.Yielding(),
		})
	}

	return writeJSON(app, out)
}

// introspectProjectInfo writes the stable identity of the build directory.
func introspectProjectInfo(app *App, buildDir string) error {
	cd, _, err := loadCoreData(app, buildDir)
	if err != nil {
		return err
	}

	info := struct {
		Version          string   `json:"version"`
		RegenGUID        string   `json:"regen_guid"`
		TestGUID         string   `json:"test_guid"`
		InstallGUID      string   `json:"install_guid"`
		CrossFiles       []string `json:"cross_files"`
		NativeFiles      []string `json:"native_files"`
		ConfigureCommand string   `json:"configure_command"`
	}{
		Version:          cd.VersionString(),
		RegenGUID:        cd.RegenGUID(),
		TestGUID:         cd.TestGUID(),
		InstallGUID:      cd.InstallGUID(),
		CrossFiles:       cd.CrossFiles(),
		NativeFiles:      cd.NativeFiles(),
		ConfigureCommand: coredata.FormatConfigureCommand("mason", ".", buildDir, cd),
	}

	return writeJSON(app, info)
}

func writeJSON(app *App, v any) error {
	enc := json.NewEncoder(app.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

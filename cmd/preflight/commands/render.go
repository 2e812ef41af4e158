package commands

import (
	"github.com/spf13/cobra"
)

// Render command
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Validate a configuration and render templates from it",
	Long: `Validate the configuration, then render every file under the template
directory into the output directory.

Files ending in .j2 are executed as Go templates with the configuration as
data. A directory holding a .mjfilter file is rendered only when the predicate
named in that file holds for the configuration.`,
	Example: `  preflight render -c cluster.yaml --templates templates --out-dir .`,
	Args:    cobra.NoArgs,
}

// Version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the preflight version",
	Args:  cobra.NoArgs,
}

// GetRenderCommands returns references to render and version commands
func GetRenderCommands() (*cobra.Command, *cobra.Command) {
	return renderCmd, versionCmd
}

// SetupRenderFlags configures flags for the render command
func SetupRenderFlags(renderCmd *cobra.Command, configPtr, templatesPtr, outDirPtr *string, skipTestsPtr *bool) {
	renderCmd.Flags().StringVarP(configPtr, "config", "c", "cluster.yaml", "Cluster configuration file")
	renderCmd.Flags().StringVar(templatesPtr, "templates", "templates", "Template directory")
	renderCmd.Flags().StringVar(outDirPtr, "out-dir", ".", "Output directory")
	renderCmd.Flags().BoolVar(skipTestsPtr, "skip-tests", false,
		"Skip live checks before rendering")
}

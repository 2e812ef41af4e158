package commands

import (
	"github.com/spf13/cobra"
)

// Validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a cluster configuration",
	Long: `Run the full rule table against a cluster configuration.

Rules run in a fixed order. The pass stops at the first failure unless
--collect-all is given. The command exits non-zero when any rule fails.`,
	Example: `  # Validate cluster.yaml
  preflight validate -c cluster.yaml

  # Check four nodes at a time with a longer timeout
  preflight validate -c cluster.yaml --parallelism 4 --timeout 10s`,
	Args: cobra.NoArgs,
	// RunE will be set by the main package that imports this
}

// Defaults command
var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print the configuration with all defaults applied",
	Long: `Print the configuration as YAML after massaging, profile defaults and
template data defaults are applied. The input file is not modified.`,
	Example: `  preflight defaults -c cluster.yaml`,
	Args:    cobra.NoArgs,
}

// GetValidateCommands returns references to the document commands for flag
// and handler setup
func GetValidateCommands() (*cobra.Command, *cobra.Command) {
	return validateCmd, defaultsCmd
}

// SetupValidateFlags configures flags for commands that read a configuration
func SetupValidateFlags(validateCmd, defaultsCmd *cobra.Command, configPtr *string, skipTestsPtr *bool) {
	for _, cmd := range []*cobra.Command{validateCmd, defaultsCmd} {
		cmd.Flags().StringVarP(configPtr, "config", "c", "cluster.yaml", "Cluster configuration file")
	}
	validateCmd.Flags().BoolVar(skipTestsPtr, "skip-tests", false,
		"Skip live checks (same as skip_tests: true in the configuration)")
}

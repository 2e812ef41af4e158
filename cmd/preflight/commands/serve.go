package commands

import (
	"github.com/spf13/cobra"
)

// Serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the validation service",
	Long: `Serve the validation engine over HTTP.

POST a YAML or JSON configuration to /api/v1/validate to receive the same
report the validate command prints with -o json. The service answers 200 when
the pass succeeds and 422 when a rule fails.`,
	Example: `  # Listen on loopback
  preflight serve

  # Validate through the service
  curl --data-binary @cluster.yaml 'http://127.0.0.1:8008/api/v1/validate?collect_all=true'`,
	Args: cobra.NoArgs,
}

// GetServeCommand returns the serve command for flag and handler setup
func GetServeCommand() *cobra.Command {
	return serveCmd
}

// SetupServeFlags configures flags for the serve command
func SetupServeFlags(serveCmd *cobra.Command, bindPtr *string, defaultBind string) {
	serveCmd.Flags().StringVar(bindPtr, "bind", defaultBind, "Address and port to listen on")
}

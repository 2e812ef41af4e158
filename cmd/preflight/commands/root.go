// Package commands provides the command tree for the preflight CLI.
//
// COMMAND STRUCTURE:
//   - validate: run every rule against a cluster configuration and print the report
//   - defaults: print the configuration after massaging and defaulting
//   - render: validate, then render a template tree with the registered helpers
//   - serve: expose the validation engine over HTTP
//   - version: print the tool version
//
// Commands only declare usage and flags. RunE handlers are assigned by the
// main package so command definitions stay free of execution logic.
package commands

import (
	"time"

	"github.com/spf13/cobra"
)

// Root command
var RootCmd = &cobra.Command{
	Use:   "preflight",
	Short: "Pre-flight validation for cluster bootstrap configuration",
	Long: `preflight checks a cluster bootstrap configuration before it is rendered
into deployment artifacts.

Every field is checked for syntax, cross-field consistency and, unless
skip_tests is set, live reachability: node SSH/API ports, DNS and NTP servers,
the GitHub repository branch and the Cloudflare zone and tunnel.`,
	SilenceUsage: true,
	Example: `  # Validate a configuration with the default (nested) layout
  preflight validate -c cluster.yaml

  # Validate a legacy flat configuration
  preflight validate -c config.yaml --profile flat

  # Report every failure instead of stopping at the first
  preflight validate -c cluster.yaml --collect-all

  # Syntax and consistency only, no network checks
  preflight validate -c cluster.yaml --skip-tests

  # Machine-readable report
  preflight validate -c cluster.yaml -o json`,
}

// SetupCommands initializes all commands and their relationships
func SetupCommands() {
	RootCmd.AddCommand(validateCmd)
	RootCmd.AddCommand(defaultsCmd)
	RootCmd.AddCommand(renderCmd)
	RootCmd.AddCommand(serveCmd)
	RootCmd.AddCommand(versionCmd)
}

// SetupGlobalFlags configures all global persistent flags
func SetupGlobalFlags(rootCmd *cobra.Command, settingsPtr, logLevelPtr, logFilePtr, outputPtr, profilePtr *string,
	verbosePtr *bool, timeoutPtr *time.Duration, parallelismPtr *int, collectAllPtr *bool,
	defaultLogLevel, defaultProfile string, defaultTimeout time.Duration, defaultParallelism int) {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(settingsPtr, "settings", "",
		"Settings file (default .preflight.yaml in the working directory or ~/.config/preflight)")
	flags.StringVar(logLevelPtr, "log-level", defaultLogLevel,
		"Log level: DEBUG, INFO, WARN, ERROR")
	flags.StringVar(logFilePtr, "log-file", "",
		"Write all log output to this file instead of stdout/stderr")
	flags.StringVarP(outputPtr, "output", "o", "table",
		"Output format: table, json")
	flags.StringVar(profilePtr, "profile", defaultProfile,
		"Configuration layout: flat (v1), nested (v2) or a profile YAML file")
	flags.BoolVarP(verbosePtr, "verbose", "v", false,
		"Show verbose output")
	flags.DurationVar(timeoutPtr, "timeout", defaultTimeout,
		"Timeout for each live check")
	flags.IntVar(parallelismPtr, "parallelism", defaultParallelism,
		"Maximum concurrent node and server checks")
	flags.BoolVar(collectAllPtr, "collect-all", false,
		"Run every rule and report all failures")
}

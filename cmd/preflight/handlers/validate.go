package handlers

import (
	"fmt"

	"github.com/concave-dev/preflight/cmd/preflight/config"
	"github.com/concave-dev/preflight/cmd/preflight/display"
	"github.com/concave-dev/preflight/cmd/preflight/utils"
	"github.com/concave-dev/preflight/internal/logging"
	"github.com/concave-dev/preflight/internal/preflight"
	"github.com/spf13/cobra"
)

// HandleValidate runs the validation pass and prints the report. A failed
// pass is returned as an error so the process exits non-zero.
func HandleValidate(cmd *cobra.Command, args []string) error {
	if err := utils.SetupLogging(); err != nil {
		return err
	}
	defer utils.CleanupLogFile()

	profile, doc, err := loadInput()
	if err != nil {
		return err
	}

	runner := preflight.NewRunner(profile, preflight.LiveDeps(config.Settings), preflight.OptionsFrom(config.Settings))
	report, err := runner.Run(commandContext(cmd), doc)
	display.DisplayReport(report)

	if err != nil {
		return fmt.Errorf("configuration %s failed validation: %w", config.Document.ConfigFile, err)
	}
	logging.Success("Configuration %s passed all checks", config.Document.ConfigFile)
	return nil
}

// HandleVersion prints the tool version.
func HandleVersion(cmd *cobra.Command, args []string) error {
	fmt.Fprintf(cmd.OutOrStdout(), "preflight %s\n", config.Version)
	return nil
}

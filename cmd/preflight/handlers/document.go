package handlers

import (
	"fmt"

	"github.com/concave-dev/preflight/cmd/preflight/config"
	"github.com/concave-dev/preflight/cmd/preflight/display"
	"github.com/concave-dev/preflight/cmd/preflight/utils"
	"github.com/concave-dev/preflight/internal/logging"
	"github.com/concave-dev/preflight/internal/preflight"
	"github.com/concave-dev/preflight/internal/render"
	"github.com/spf13/cobra"
)

// HandleDefaults prints the configuration after the profile and template data
// defaults are applied.
func HandleDefaults(cmd *cobra.Command, args []string) error {
	if err := utils.SetupLogging(); err != nil {
		return err
	}
	defer utils.CleanupLogFile()

	profile, doc, err := loadInput()
	if err != nil {
		return err
	}
	return display.DisplayDocument(render.DataDefaults(profile.Prepare(doc)))
}

// HandleRender validates the configuration and renders the template tree.
// Nothing is written when validation fails.
func HandleRender(cmd *cobra.Command, args []string) error {
	if err := utils.SetupLogging(); err != nil {
		return err
	}
	defer utils.CleanupLogFile()

	profile, doc, err := loadInput()
	if err != nil {
		return err
	}

	opts := preflight.OptionsFrom(config.Settings)
	if err := preflight.Validate(commandContext(cmd), doc, profile, preflight.LiveDeps(config.Settings), opts); err != nil {
		return fmt.Errorf("configuration %s failed validation: %w", config.Document.ConfigFile, err)
	}

	written, err := render.NewRenderer(config.Render.Templates, config.Render.OutDir).Render(profile.Prepare(doc))
	if err != nil {
		return err
	}
	logging.Success("Rendered %d files from %s", len(written), config.Render.Templates)
	return nil
}

// Package handlers provides command handler functions for the preflight CLI.
//
// - validate.go: the validation pass and report output
// - document.go: defaults and render, which share configuration loading
//
// Handlers log through the logging package and print through display, so
// command output stays uniform across table and JSON modes.
package handlers

import (
	"context"
	"fmt"

	"github.com/concave-dev/preflight/cmd/preflight/config"
	pconfig "github.com/concave-dev/preflight/internal/config"
	"github.com/concave-dev/preflight/internal/logging"
	"github.com/concave-dev/preflight/internal/rules"
	"github.com/spf13/cobra"
)

// loadInput resolves the active profile and reads the cluster configuration.
// --skip-tests is applied to the returned copy at the profile's skip path.
func loadInput() (*rules.Profile, pconfig.Document, error) {
	profile, err := rules.Resolve(config.Settings.Profile)
	if err != nil {
		return nil, nil, err
	}

	logging.Debug("Reading configuration %s (profile %s)", config.Document.ConfigFile, profile.Name)
	doc, err := pconfig.LoadDocument(config.Document.ConfigFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if config.Document.SkipTests {
		path := profile.Path(rules.FieldSkipTests)
		if path == "" {
			return nil, nil, fmt.Errorf("profile %s has no skip_tests path", profile.Name)
		}
		doc = doc.Clone()
		pconfig.Set(doc, path, true)
	}
	return profile, doc, nil
}

// commandContext returns the command's context, or Background for commands
// executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

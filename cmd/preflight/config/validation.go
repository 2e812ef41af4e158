package config

import (
	"fmt"

	pconfig "github.com/concave-dev/preflight/internal/config"
	"github.com/concave-dev/preflight/internal/logging"
	"github.com/concave-dev/preflight/internal/rules"
	"github.com/concave-dev/preflight/internal/validate"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// flagKeys maps persistent flags to settings keys. A flag only overrides the
// settings file and environment when it was set explicitly.
var flagKeys = map[string]string{
	"log-level":   "log_level",
	"log-file":    "log_file",
	"timeout":     "timeout",
	"parallelism": "parallelism",
	"profile":     "profile",
	"collect-all": "collect_all",
}

// ValidateGlobalFlags loads settings and validates all global flags before
// running any command
func ValidateGlobalFlags(cmd *cobra.Command, args []string) error {
	if err := ValidateOutputFormat(); err != nil {
		return err
	}

	v := pconfig.NewViper()
	if err := bindFlags(cmd, v); err != nil {
		return err
	}
	settings, err := pconfig.LoadSettings(v, Global.SettingsFile)
	if err != nil {
		logging.Error("Failed to load settings: %v", err)
		return err
	}
	if err := ValidateSettings(settings); err != nil {
		return err
	}

	Settings = settings
	return nil
}

func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	for flag, key := range flagKeys {
		f := cmd.Flags().Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", flag, err)
		}
	}
	return nil
}

// ValidateSettings checks the merged settings
func ValidateSettings(s *pconfig.Settings) error {
	if err := logging.ValidateLogLevel(s.LogLevel); err != nil {
		logging.Error("Invalid log level '%s': %v", s.LogLevel, err)
		return fmt.Errorf("invalid log level: %w", err)
	}

	if err := validate.ValidatePositiveTimeout(s.Timeout, "timeout"); err != nil {
		logging.Error("Invalid timeout %s: %v", s.Timeout, err)
		return err
	}

	if err := validate.ValidateParallelism(s.Parallelism); err != nil {
		logging.Error("Invalid parallelism %d: %v", s.Parallelism, err)
		return err
	}

	if _, err := rules.Resolve(s.Profile); err != nil {
		logging.Error("Invalid profile '%s': %v", s.Profile, err)
		return err
	}

	for name, url := range map[string]string{"github_api_url": s.GitHubAPIURL, "cloudflare_api_url": s.CloudflareAPIURL} {
		if err := validate.ValidateField(url, "required,url"); err != nil {
			logging.Error("Invalid %s '%s'", name, url)
			return fmt.Errorf("invalid %s - expected an absolute URL", name)
		}
	}

	if err := validate.ValidateRequiredString(s.RuntimeCommand, "runtime_command"); err != nil {
		return err
	}
	return nil
}

// ValidateOutputFormat validates the --output flag
func ValidateOutputFormat() error {
	validOutputs := map[string]bool{
		"table": true,
		"json":  true,
	}
	if !validOutputs[Global.Output] {
		logging.Error("Invalid output format '%s' - valid formats are: table, json", Global.Output)
		return fmt.Errorf("invalid output format - valid: table, json")
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Settings holds the tool's own knobs, as opposed to the cluster Document it
// validates. Values come from defaults, an optional settings file, PREFLIGHT_*
// environment variables and finally bound CLI flags.
type Settings struct {
	LogLevel         string        `mapstructure:"log_level"`
	LogFile          string        `mapstructure:"log_file"`
	Timeout          time.Duration `mapstructure:"timeout"`
	Parallelism      int           `mapstructure:"parallelism"`
	Profile          string        `mapstructure:"profile"`
	CollectAll       bool          `mapstructure:"collect_all"`
	GitHubAPIURL     string        `mapstructure:"github_api_url"`
	CloudflareAPIURL string        `mapstructure:"cloudflare_api_url"`
	RuntimeCommand   string        `mapstructure:"runtime_command"`
	DNSProbeHost     string        `mapstructure:"dns_probe_host"`
}

// NewViper returns a viper instance carrying preflight defaults and the
// environment binding. Callers bind flags on it before LoadSettings.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_file", "")
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("parallelism", DefaultParallelism)
	v.SetDefault("profile", DefaultProfile)
	v.SetDefault("collect_all", false)
	v.SetDefault("github_api_url", DefaultGitHubAPIURL)
	v.SetDefault("cloudflare_api_url", DefaultCloudflareAPIURL)
	v.SetDefault("runtime_command", DefaultRuntimeCommand)
	v.SetDefault("dns_probe_host", DefaultDNSProbeHost)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// LoadSettings reads the settings file (explicit path, or .preflight.yaml in
// the working directory or $HOME/.config/preflight) and decodes the merged
// result. A missing implicit settings file is not an error.
func LoadSettings(v *viper.Viper, path string) (*Settings, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultSettingsName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "preflight"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read settings: %w", err)
		}
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	return settings, nil
}

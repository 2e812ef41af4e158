// Package config provides the configuration document consumed by preflight
// checks and the default values shared across preflight components (CLI,
// probes, API clients). This centralizes configuration management and keeps
// the CLI flags, environment variables and settings file consistent.
package config

import "time"

const (
	// DefaultLogLevel is the default log level for all components
	// INFO provides good balance of visibility without verbose debug output
	DefaultLogLevel = "INFO"

	// DefaultTimeout bounds every live probe (TCP, DNS, NTP, HTTP)
	DefaultTimeout = 5 * time.Second

	// DefaultParallelism of 1 runs reachability probes sequentially
	DefaultParallelism = 1

	// DefaultProfile is the configuration generation assumed when none is given
	DefaultProfile = "nested"

	// DefaultRuntimeCommand reports the template runtime version
	DefaultRuntimeCommand = "python3 --version"

	// DefaultDNSProbeHost is resolved through every configured DNS server
	DefaultDNSProbeHost = "cloudflare.com"

	// DefaultGitHubAPIURL is the source-control API used for branch lookups
	DefaultGitHubAPIURL = "https://api.github.com"

	// DefaultCloudflareAPIURL is the DNS/tunnel provider API
	DefaultCloudflareAPIURL = "https://api.cloudflare.com/client/v4"

	// DefaultSettingsName is the optional settings file base name (.preflight.yaml)
	DefaultSettingsName = ".preflight"

	// EnvPrefix prefixes every environment variable read by the settings layer
	EnvPrefix = "PREFLIGHT"
)

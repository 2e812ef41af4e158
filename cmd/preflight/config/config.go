// Package config provides configuration management for the preflight CLI.
package config

import (
	"time"

	pconfig "github.com/concave-dev/preflight/internal/config"
	"github.com/concave-dev/preflight/internal/version"
)

// DefaultServeBind is the default listen address of the validation service
const DefaultServeBind = "127.0.0.1:8008"

// Version returns the current preflight version from the centralized version package
var Version = version.PreflightVersion

// Global holds the global CLI configuration
var Global struct {
	SettingsFile string        // Settings file path, empty for the default search
	LogLevel     string        // Log level for CLI operations
	LogFile      string        // Log file path, empty for stdout/stderr
	Output       string        // Output format: table, json
	Profile      string        // Configuration profile name or file
	Verbose      bool          // Show verbose output
	Timeout      time.Duration // Per-probe timeout
	Parallelism  int           // Concurrent probes
	CollectAll   bool          // Aggregate failures instead of failing fast
}

// Document holds the flags of commands that read a cluster configuration
var Document struct {
	ConfigFile string // Cluster configuration file
	SkipTests  bool   // Force skip_tests on
}

// Render holds the render command configuration
var Render struct {
	Templates string // Template source directory
	OutDir    string // Output directory
}

// Settings is the merged tool configuration, loaded by ValidateGlobalFlags
var Settings *pconfig.Settings

// Serve holds the serve command configuration
var Serve struct {
	Bind string // Listen address (host:port)
}

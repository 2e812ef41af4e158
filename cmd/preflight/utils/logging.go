// Package utils provides utility functions for the preflight CLI.
package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/concave-dev/preflight/cmd/preflight/config"
	"github.com/concave-dev/preflight/internal/logging"
)

// logFileHandle is the open log file while log_file is set
var logFileHandle *os.File

// SetupLogging configures CLI logging from the merged settings. DEBUG=true in
// the environment forces debug output; JSON output keeps only errors so the
// report is the sole content on stdout. Standard library log output is
// routed through the same logger. When log_file is set every level goes to
// that file; call CleanupLogFile once the command is done.
func SetupLogging() error {
	if os.Getenv("DEBUG") == "true" {
		logging.RestoreOutput()
		logging.SetLevel("DEBUG")
		logging.RedirectStandardLog(logging.NewLevelWriter("DEBUG", "stdlib"))
		return openLogFile()
	}

	level := config.Global.LogLevel
	if config.Settings != nil {
		level = config.Settings.LogLevel
	}

	if config.Global.Output == "json" {
		logging.SuppressOutput()
		logging.RedirectStandardLog(nil)
		return openLogFile()
	}
	logging.RestoreOutput()
	logging.SetLevel(level)

	// net/http reports accept and TLS errors through the standard logger
	logging.RedirectStandardLog(logging.NewLevelWriter("WARN", "stdlib"))
	return openLogFile()
}

// openLogFile redirects all logging to the configured log file, creating
// parent directories as needed. The file is opened in append mode.
func openLogFile() error {
	path := config.Global.LogFile
	if config.Settings != nil {
		path = config.Settings.LogFile
	}
	if path == "" {
		return nil
	}

	CleanupLogFile()

	logDir := filepath.Dir(path)
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory %s: %w", logDir, err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	logFileHandle = f
	logging.SetOutput(f)
	return nil
}

// CleanupLogFile closes the log file handle if it exists
func CleanupLogFile() {
	if logFileHandle == nil {
		return
	}
	logFileHandle.Close()
	logFileHandle = nil
}

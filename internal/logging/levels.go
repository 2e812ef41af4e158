// Package logging provides centralized log level validation for preflight.
//
// This file defines the canonical set of valid log levels accepted by the
// CLI flags, the settings file and the PREFLIGHT_LOG_LEVEL environment
// variable. All level strings are uppercase.
package logging

import (
	"fmt"
	"strings"
)

// ValidLogLevels defines the canonical set of supported log levels. This map
// is the single source of truth for level validation in settings and flags.
var ValidLogLevels = map[string]bool{
	"DEBUG": true,
	"INFO":  true,
	"WARN":  true,
	"ERROR": true,
}

// IsValidLogLevel checks if the provided log level string is supported.
func IsValidLogLevel(level string) bool {
	return ValidLogLevels[level]
}

// ValidateLogLevel validates a log level string and returns an error if invalid.
// The error lists the accepted levels so a mistyped flag can be fixed directly.
func ValidateLogLevel(level string) error {
	if !IsValidLogLevel(level) {
		return fmt.Errorf("invalid log level: %s (valid: %s)", level, strings.Join(levelNames(), ", "))
	}
	return nil
}

func levelNames() []string {
	return []string{"DEBUG", "INFO", "WARN", "ERROR"}
}

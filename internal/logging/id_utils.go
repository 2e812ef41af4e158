package logging

import (
	"github.com/charmbracelet/log"
)

// shortIDLength is the prefix of a run ID shown outside debug logging.
const shortIDLength = 8

// FormatRunID returns the full run ID when debug logging is enabled and its
// first eight characters otherwise. Reports always carry the full ID.
func FormatRunID(id string) string {
	if stderrLogger.GetLevel() <= log.DebugLevel {
		return id
	}
	if len(id) <= shortIDLength {
		return id
	}
	return id[:shortIDLength]
}

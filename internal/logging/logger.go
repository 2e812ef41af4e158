// Package logging provides structured, colorful logging for preflight runs,
// keeping check progress, warnings and failures visually distinct on a terminal.
//
// Implements a package-level logging interface over charmbracelet/log. Every
// component of the validation engine (probes, API clients, the orchestrator
// and the CLI) logs through these functions so output stays uniform.
//
// LOGGING FEATURES:
//   - Color-coded levels: DEBUG (purple), INFO (blue), WARN (yellow), ERROR (red), SUCCESS (green)
//   - Unix conventions: INFO/SUCCESS to stdout, WARN/ERROR/DEBUG to stderr
//   - Single log file mode that overrides the stdout/stderr split
//   - Generic io.Writer adapters for third-party libraries and the standard logger
//
// Secrets must never be passed to these functions. Callers log field paths,
// hostnames and statuses, not credential values.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	stdlog "log"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	// Logger for INFO/SUCCESS messages (stdout by default)
	stdoutLogger = newLogger(os.Stdout)

	// Logger for WARN/ERROR/DEBUG messages (stderr by default)
	stderrLogger = newLogger(os.Stderr)

	// Track if logging has been explicitly configured by the CLI
	cliConfigured = false

	currentStdoutOutput io.Writer = os.Stdout

	// Single log file mode overrides stdout/stderr separation
	usingLogFile  = false
	logFileHandle io.Writer
)

// newLogger builds a timestamped logger with the preflight color scheme.
func newLogger(w io.Writer) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
	l.SetStyles(setupCustomStyles())
	return l
}

// setupCustomStyles creates custom color styling for log levels. The palette
// reads well on both light and dark terminals.
func setupCustomStyles() *log.Styles {
	styles := log.DefaultStyles()

	// DEBUG: light purple
	styles.Levels[log.DebugLevel] = lipgloss.NewStyle().
		SetString("DEBUG").
		Foreground(lipgloss.Color("#7F6DFF"))

	// INFO: light blue
	styles.Levels[log.InfoLevel] = lipgloss.NewStyle().
		SetString("INFO").
		Foreground(lipgloss.Color("#42E7FF"))

	// WARN: light yellow
	styles.Levels[log.WarnLevel] = lipgloss.NewStyle().
		SetString("WARN").
		Foreground(lipgloss.Color("#FFE763"))

	// ERROR: light red/pink
	styles.Levels[log.ErrorLevel] = lipgloss.NewStyle().
		SetString("ERROR").
		Foreground(lipgloss.Color("#FF4473"))

	return styles
}

// getStdoutLoggerOutput returns the current output destination for stdout logger.
// Used by Success to respect log file redirection.
func getStdoutLoggerOutput() io.Writer {
	if usingLogFile {
		return logFileHandle
	}
	return currentStdoutOutput
}

// Info logs informational messages such as check progress.
func Info(format string, v ...any) {
	stdoutLogger.Info(fmt.Sprintf(format, v...))
}

// Warn logs warning messages for conditions that do not fail the run, such as
// an ACME email domain that does not accept mail.
func Warn(format string, v ...any) {
	stderrLogger.Warn(fmt.Sprintf(format, v...))
}

// Error logs error messages for failed checks and unusable settings.
func Error(format string, v ...any) {
	stderrLogger.Error(fmt.Sprintf(format, v...))
}

// Success logs successful operations in green using INFO level with custom styling.
// Respects INFO level filtering and log file redirection.
func Success(format string, v ...any) {
	if stdoutLogger.GetLevel() > log.InfoLevel {
		return
	}

	// Override the INFO label with a green SUCCESS label on a throwaway logger
	styles := setupCustomStyles()
	styles.Levels[log.InfoLevel] = lipgloss.NewStyle().
		SetString("SUCCESS").
		Foreground(lipgloss.Color("#60F281"))

	tempLogger := log.NewWithOptions(getStdoutLoggerOutput(), log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
	tempLogger.SetStyles(styles)
	tempLogger.Info(fmt.Sprintf(format, v...))
}

// Debug logs detailed debugging information such as outgoing request paths
// and per-rule timings.
func Debug(format string, v ...any) {
	stderrLogger.Debug(fmt.Sprintf(format, v...))
}

// SetLevel configures the minimum logging level. Accepts DEBUG, INFO, WARN and
// ERROR; anything else falls back to INFO.
func SetLevel(level string) {
	var logLevel log.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		logLevel = log.DebugLevel
	case "INFO":
		logLevel = log.InfoLevel
	case "WARN":
		logLevel = log.WarnLevel
	case "ERROR":
		logLevel = log.ErrorLevel
	default:
		logLevel = log.InfoLevel
	}

	stdoutLogger.SetLevel(logLevel)
	stderrLogger.SetLevel(logLevel)
}

// SetOutput configures the log destination. A non-nil file receives every
// level; nil suppresses all output.
func SetOutput(w *os.File) {
	if w == nil {
		stdoutLogger.SetLevel(log.FatalLevel + 1)
		stderrLogger.SetLevel(log.FatalLevel + 1)
		usingLogFile = false
		return
	}

	usingLogFile = true
	logFileHandle = w

	level := stdoutLogger.GetLevel()
	stdoutLogger = newLogger(w)
	stderrLogger = newLogger(w)
	stdoutLogger.SetLevel(level)
	stderrLogger.SetLevel(level)
}

// SuppressOutput disables INFO/WARN/DEBUG logs while keeping ERROR logs visible.
// Used when the report itself is the only desired output (e.g. JSON mode).
func SuppressOutput() {
	stdoutLogger.SetLevel(log.ErrorLevel)
	stderrLogger.SetLevel(log.ErrorLevel)
	cliConfigured = true
}

// RestoreOutput restores normal logging with Unix conventions at INFO level.
func RestoreOutput() {
	usingLogFile = false

	stdoutLogger = newLogger(os.Stdout)
	stderrLogger = newLogger(os.Stderr)
	stdoutLogger.SetLevel(log.InfoLevel)
	stderrLogger.SetLevel(log.InfoLevel)

	currentStdoutOutput = os.Stdout
	cliConfigured = true
}

// IsConfiguredByCLI returns true if logging has been explicitly configured by the CLI.
func IsConfiguredByCLI() bool {
	return cliConfigured
}

// LevelWriter forwards log lines to a specific log level with optional prefix.
// Useful for integrating third-party libraries that expect io.Writer interfaces.
type LevelWriter struct {
	level  string
	prefix string
}

// NewLevelWriter creates a writer that logs each line at the specified level with prefix.
// Valid levels: DEBUG, INFO, WARN, ERROR
func NewLevelWriter(level, prefix string) io.Writer {
	return &LevelWriter{level: strings.ToUpper(level), prefix: prefix}
}

// Write implements io.Writer by splitting input into lines and logging each at
// the configured level. Blank lines are dropped.
func (w *LevelWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(string(p), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		msg := line
		if w.prefix != "" {
			msg = w.prefix + ": " + line
		}
		switch w.level {
		case "DEBUG":
			Debug("%s", msg)
		case "WARN":
			Warn("%s", msg)
		case "ERROR":
			Error("%s", msg)
		default:
			Info("%s", msg)
		}
	}
	return len(p), nil
}

// RedirectStandardLog redirects Go's standard library logger output to the provided writer.
// Passing nil discards standard log output.
func RedirectStandardLog(w io.Writer) {
	if w == nil {
		stdlog.SetOutput(io.Discard)
		return
	}
	stdlog.SetOutput(w)
}

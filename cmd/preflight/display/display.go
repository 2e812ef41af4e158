// Package display provides output formatting for preflight reports.
//
// Reports are printed either as a table (text/tabwriter, with a colored
// summary line) or as indented JSON. The JSON form carries the run id, every
// rule outcome and the state transitions of the pass.
package display

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/concave-dev/preflight/cmd/preflight/config"
	"github.com/concave-dev/preflight/cmd/preflight/utils"
	"github.com/concave-dev/preflight/internal/logging"
	"github.com/concave-dev/preflight/internal/preflight"
	"gopkg.in/yaml.v3"
)

var (
	passStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#42FF76"))
	failStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF4473"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFE763"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8A8A8A"))
)

// Out is where reports are written. Tests replace it.
var Out io.Writer = os.Stdout

// DisplayReport prints a report in the configured output format.
func DisplayReport(report *preflight.Report) {
	if config.Global.Output == "json" {
		encoder := json.NewEncoder(Out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			logging.Error("Failed to encode JSON: %v", err)
			fmt.Fprintln(Out, "Error encoding JSON output")
		}
		return
	}

	w := tabwriter.NewWriter(Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RULE\tSTAGE\tSTATUS\tDURATION\tDETAIL")
	for _, o := range report.Outcomes {
		detail := o.Error
		if o.Status == preflight.StatusSkipped {
			detail = o.SkipReason
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			o.Rule, o.Stage, o.Status, utils.FormatDuration(o.Duration), detail)
	}
	w.Flush()

	for _, warning := range report.Warnings() {
		fmt.Fprintln(Out, warnStyle.Render("warning: "+warning))
	}

	if config.Global.Verbose {
		displayStates(report)
	}

	fmt.Fprintln(Out)
	fmt.Fprintln(Out, summary(report))
}

func displayStates(report *preflight.Report) {
	fmt.Fprintln(Out)
	w := tabwriter.NewWriter(Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FROM\tTO\tAFTER RULE")
	for _, tr := range report.States {
		rule := tr.Rule
		if rule == "" {
			rule = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", tr.From, tr.To, rule)
	}
	w.Flush()
}

func summary(report *preflight.Report) string {
	counts := report.Counts()
	line := fmt.Sprintf("%d passed, %d failed, %d skipped in %s",
		counts[preflight.StatusPassed], counts[preflight.StatusFailed], counts[preflight.StatusSkipped],
		utils.FormatDuration(report.Duration))
	run := dimStyle.Render(fmt.Sprintf("(run %s, profile %s)", report.RunID, report.Profile))

	if report.Passed() {
		return passStyle.Render("PASSED") + " " + line + " " + run
	}
	return failStyle.Render("FAILED") + " " + line + " " + run
}

// DisplayDocument prints a configuration document as YAML, or JSON when
// configured.
func DisplayDocument(doc map[string]any) error {
	if config.Global.Output == "json" {
		encoder := json.NewEncoder(Out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(doc)
	}

	encoder := yaml.NewEncoder(Out)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

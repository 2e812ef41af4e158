package display

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/concave-dev/preflight/cmd/preflight/config"
	"github.com/concave-dev/preflight/internal/preflight"
)

func sampleReport() *preflight.Report {
	return &preflight.Report{
		RunID:   "0b6f7a4e-2c1d-4e8f-9a3b-5d6c7e8f9a0b",
		Profile: "nested",
		Outcomes: []preflight.Outcome{
			{Rule: "distribution", Stage: "syntax", Status: preflight.StatusPassed, Duration: time.Millisecond},
			{Rule: "acme-email", Stage: "syntax", Status: preflight.StatusPassed, Warnings: []string{"no MX records"}},
			{Rule: "cloudflare", Stage: "reachability", Status: preflight.StatusSkipped, SkipReason: "skip_tests is set"},
			{Rule: "node-reachability", Stage: "reachability", Status: preflight.StatusFailed,
				Err: errors.New("node-1 is not reachable"), Error: "node-1 is not reachable"},
		},
		States: []preflight.Transition{{From: preflight.StateInit, To: preflight.StateFailed, Rule: "node-reachability"}},
		State:  preflight.StateFailed,
		Error:  "node-reachability: node-1 is not reachable",
	}
}

func capture(t *testing.T, output string, verbose bool) string {
	t.Helper()
	var buf bytes.Buffer
	Out = &buf
	config.Global.Output = output
	config.Global.Verbose = verbose
	t.Cleanup(func() {
		Out = os.Stdout
		config.Global.Output = ""
		config.Global.Verbose = false
	})

	DisplayReport(sampleReport())
	return buf.String()
}

func TestDisplayReportTable(t *testing.T) {
	out := capture(t, "table", true)

	for _, want := range []string{
		"RULE", "node-reachability", "node-1 is not reachable", "skip_tests is set",
		"warning: acme-email: no MX records", "FAILED", "1 failed", "FROM", "Init",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestDisplayReportJSON(t *testing.T) {
	out := capture(t, "json", false)

	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if decoded["state"] != "Failed" {
		t.Errorf("state = %v, want Failed", decoded["state"])
	}
	if decoded["run_id"] != "0b6f7a4e-2c1d-4e8f-9a3b-5d6c7e8f9a0b" {
		t.Errorf("run_id = %v", decoded["run_id"])
	}
	outcomes := decoded["outcomes"].([]any)
	if len(outcomes) != 4 {
		t.Errorf("outcomes = %d, want 4", len(outcomes))
	}
}

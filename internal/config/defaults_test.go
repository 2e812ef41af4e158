package config

import (
	"testing"
	"time"

	"github.com/concave-dev/preflight/internal/logging"
)

// TestDefaultLogLevel validates the default log level constant
func TestDefaultLogLevel(t *testing.T) {
	if !logging.IsValidLogLevel(DefaultLogLevel) {
		t.Errorf("DefaultLogLevel %q is not a valid log level", DefaultLogLevel)
	}
}

// TestDefaultProbeSettings validates the probe defaults are usable as-is
func TestDefaultProbeSettings(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{name: "timeout is positive", ok: DefaultTimeout > 0},
		{name: "timeout is at most a minute", ok: DefaultTimeout <= time.Minute},
		{name: "parallelism is at least one", ok: DefaultParallelism >= 1},
		{name: "dns probe host is set", ok: DefaultDNSProbeHost != ""},
		{name: "runtime command is set", ok: DefaultRuntimeCommand != ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.ok {
				t.Errorf("default check failed: %s", tt.name)
			}
		})
	}
}

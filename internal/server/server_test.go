package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/concave-dev/preflight/internal/config"
	"github.com/concave-dev/preflight/internal/rules"
	"github.com/gin-gonic/gin"
)

type stubProbes struct{}

func (stubProbes) TCP(context.Context, string, string, int) error { return nil }
func (stubProbes) ResolveAll(context.Context, string, []string, string) error { return nil }
func (stubProbes) NTP(context.Context, string) error { return nil }
func (stubProbes) HasMX(context.Context, string, ...string) error { return nil }
func (stubProbes) Tools([]string) error { return nil }
func (stubProbes) RuntimeVersion(context.Context, string, string) error { return nil }

type stubGitHub struct{}

func (stubGitHub) BranchExists(context.Context, string, string, string) error { return nil }

const clusterYAML = `
distribution:
  type: k3s
sops:
  age_public_key: age1qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqq
cluster:
  timezone: TIMEZONE
network:
  node_cidr: 10.1.0.0/24
  api_addr: 10.1.0.100
  gateway_addr: 10.1.0.101
  external_ingress_addr: 10.1.0.102
  internal_ingress_addr: 10.1.0.103
flux:
  webhook_token: abc123
acme:
  email: ops@example.com
repository:
  username: onedr0p
  name: home-ops
nodes:
  inventory:
    - name: node-1
      address: 10.1.0.5
      controller: true
      ssh_user: admin
`

func testServer(t *testing.T, maxBody int64) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := DefaultConfig()
	cfg.MaxBodyBytes = maxBody
	cfg.Settings = &config.Settings{Profile: "nested", Timeout: time.Second, Parallelism: 1}
	cfg.Deps = &rules.Deps{Probes: stubProbes{}, GitHub: stubGitHub{}}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	return NewServer(cfg).Handler()
}

func post(t *testing.T, h http.Handler, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/yaml")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(c *Config)
		expectError bool
	}{
		{name: "valid", modify: func(*Config) {}},
		{name: "empty bind address", modify: func(c *Config) { c.BindAddr = "" }, expectError: true},
		{name: "port zero", modify: func(c *Config) { c.BindPort = 0 }, expectError: true},
		{name: "no body limit", modify: func(c *Config) { c.MaxBodyBytes = 0 }, expectError: true},
		{name: "no settings", modify: func(c *Config) { c.Settings = nil }, expectError: true},
		{name: "unknown profile", modify: func(c *Config) { c.Settings.Profile = "v7" }, expectError: true},
		{name: "profile alias", modify: func(c *Config) { c.Settings.Profile = "v1" }},
		{name: "profile file", modify: func(c *Config) { c.Settings.Profile = "../rules/profiles/nested.yaml" }, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Settings = &config.Settings{Profile: "nested"}
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.expectError && err == nil {
				t.Error("Validate() expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestHandleValidate(t *testing.T) {
	h := testServer(t, DefaultMaxBodyBytes)

	tests := []struct {
		name       string
		target     string
		body       string
		wantStatus int
		wantState  string
		wantError  string
	}{
		{
			name:       "passing configuration",
			target:     "/api/v1/validate",
			body:       strings.Replace(clusterYAML, "TIMEZONE", "Europe/Paris", 1),
			wantStatus: http.StatusOK,
			wantState:  "Done",
		},
		{
			name:       "skip tests",
			target:     "/api/v1/validate?skip_tests=true&profile=v2",
			body:       strings.Replace(clusterYAML, "TIMEZONE", "UTC", 1),
			wantStatus: http.StatusOK,
			wantState:  "Done",
		},
		{
			name:       "failing configuration",
			target:     "/api/v1/validate",
			body:       strings.Replace(clusterYAML, "TIMEZONE", "Mars/Olympus", 1),
			wantStatus: http.StatusUnprocessableEntity,
			wantState:  "Failed",
			wantError:  "timezone",
		},
		{
			name:       "unknown profile",
			target:     "/api/v1/validate?profile=../../etc/profile.yaml",
			body:       "a: b",
			wantStatus: http.StatusBadRequest,
			wantError:  "unknown profile",
		},
		{
			name:       "bad collect_all",
			target:     "/api/v1/validate?collect_all=maybe",
			body:       "a: b",
			wantStatus: http.StatusBadRequest,
			wantError:  "collect_all",
		},
		{
			name:       "not a mapping",
			target:     "/api/v1/validate",
			body:       "- a\n- b\n",
			wantStatus: http.StatusBadRequest,
			wantError:  "mapping",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(t, h, tt.target, tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}

			var resp map[string]any
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("response is not JSON: %v", err)
			}
			if tt.wantState != "" && resp["state"] != tt.wantState {
				t.Errorf("state = %v, want %s", resp["state"], tt.wantState)
			}
			if tt.wantError != "" && !strings.Contains(resp["error"].(string), tt.wantError) {
				t.Errorf("error = %q, want it to contain %q", resp["error"], tt.wantError)
			}
		})
	}
}

func TestHandleValidateBodyLimit(t *testing.T) {
	h := testServer(t, 64)

	w := post(t, h, "/api/v1/validate", strings.Repeat("x: y\n", 100))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want %d", w.Code, http.StatusRequestEntityTooLarge)
	}
}

func TestHandleRulesAndProfiles(t *testing.T) {
	h := testServer(t, DefaultMaxBodyBytes)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/rules", nil))
	var ruleList []RuleInfo
	if err := json.Unmarshal(w.Body.Bytes(), &ruleList); err != nil {
		t.Fatalf("rules response: %v", err)
	}
	if len(ruleList) != len(rules.Names()) {
		t.Errorf("rules = %d, want %d", len(ruleList), len(rules.Names()))
	}
	if ruleList[0].Name != "runtime-version" || ruleList[0].Stage != "reachability" {
		t.Errorf("first rule = %+v", ruleList[0])
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/profiles", nil))
	var profiles []ProfileInfo
	if err := json.Unmarshal(w.Body.Bytes(), &profiles); err != nil {
		t.Fatalf("profiles response: %v", err)
	}
	if len(profiles) != 2 || profiles[0].Name != "flat" || profiles[1].Name != "nested" {
		t.Errorf("profiles = %+v, want flat and nested", profiles)
	}
}

func TestServeAndShutdown(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := DefaultConfig()
	cfg.Settings = &config.Settings{Profile: "nested", Timeout: time.Second}
	cfg.Deps = &rules.Deps{Probes: stubProbes{}, GitHub: stubGitHub{}}
	server := NewServer(cfg)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to create test listener: %v", err)
	}
	if err := server.Serve(listener); err != nil {
		t.Fatalf("Serve() error = %v", err)
	}

	resp, err := http.Get("http://" + listener.Addr().String() + "/api/v1/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	var health HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("health response: %v", err)
	}
	if health.Status != "healthy" || health.Version == "" {
		t.Errorf("health = %+v", health)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

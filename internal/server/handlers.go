package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/concave-dev/preflight/internal/config"
	"github.com/concave-dev/preflight/internal/logging"
	"github.com/concave-dev/preflight/internal/preflight"
	"github.com/concave-dev/preflight/internal/rules"
	"github.com/gin-gonic/gin"
)

// HealthResponse is the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
}

// RuleInfo describes one entry of the rule table
type RuleInfo struct {
	Name  string `json:"name"`
	Stage string `json:"stage"`
	Gated bool   `json:"gated"`
}

// ProfileInfo describes a built-in profile
type ProfileInfo struct {
	Name          string   `json:"name"`
	Aliases       []string `json:"aliases,omitempty"`
	Distributions []string `json:"distributions"`
}

// ErrorResponse is returned for requests that never reach validation
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   serviceVersion(),
		Uptime:    s.uptime().Round(time.Second).String(),
	})
}

func (s *Server) handleRules(c *gin.Context) {
	table := rules.Table()
	out := make([]RuleInfo, 0, len(table))
	for _, r := range table {
		out = append(out, RuleInfo{Name: r.Name, Stage: r.Stage.String(), Gated: r.Gated})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleProfiles(c *gin.Context) {
	builtins := rules.Builtins()
	out := make([]ProfileInfo, 0, len(builtins))
	for _, p := range builtins {
		out = append(out, ProfileInfo{Name: p.Name, Aliases: p.Aliases, Distributions: p.DistributionNames()})
	}
	c.JSON(http.StatusOK, out)
}

// handleValidate runs a pass over the submitted YAML or JSON document.
// Query parameters: profile (built-in name or alias), collect_all, skip_tests.
// The report is returned with 200 when the pass succeeds and 422 when it fails.
func (s *Server) handleValidate(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "configuration too large"})
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
		return
	}

	doc, err := config.ParseDocument(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	// Only built-in profiles: a request must not name files on the server.
	profile, err := rules.Builtin(c.DefaultQuery("profile", s.config.Settings.Profile))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	opts := preflight.OptionsFrom(s.config.Settings)
	if opts.CollectAll, err = queryBool(c, "collect_all", opts.CollectAll); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	skipTests, err := queryBool(c, "skip_tests", false)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if skipTests {
		config.Set(doc, profile.Path(rules.FieldSkipTests), true)
	}

	report, err := preflight.NewRunner(profile, s.deps, opts).Run(c.Request.Context(), doc)
	if err != nil {
		logging.Warn("Validation run %s failed: %d rule(s)", logging.FormatRunID(report.RunID), report.Counts()[preflight.StatusFailed])
		c.JSON(http.StatusUnprocessableEntity, report)
		return
	}
	c.JSON(http.StatusOK, report)
}

func queryBool(c *gin.Context, key string, fallback bool) (bool, error) {
	raw, ok := c.GetQuery(key)
	if !ok {
		return fallback, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errors.New("invalid " + key + " query parameter")
	}
	return b, nil
}

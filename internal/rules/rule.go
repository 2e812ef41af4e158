package rules

import (
	"context"
	"fmt"

	"github.com/concave-dev/preflight/internal/api"
)

// Stage groups rules for the orchestrator's state watermark.
type Stage int

const (
	StageSyntax Stage = iota
	StageConsistency
	StageReachability
)

func (s Stage) String() string {
	switch s {
	case StageSyntax:
		return "syntax"
	case StageConsistency:
		return "consistency"
	case StageReachability:
		return "reachability"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Probes are the live checks rules may call. *probe.Prober implements it.
type Probes interface {
	TCP(ctx context.Context, name, address string, port int) error
	ResolveAll(ctx context.Context, field string, servers []string, host string) error
	NTP(ctx context.Context, server string) error
	HasMX(ctx context.Context, domain string, servers ...string) error
	Tools(tools []string) error
	RuntimeVersion(ctx context.Context, command, minimum string) error
}

// GitHubAPI looks up repository branches. *api.GitHub implements it.
type GitHubAPI interface {
	BranchExists(ctx context.Context, owner, repo, branch string) error
}

// CloudflareAPI checks zone and tunnel access. *api.Cloudflare implements it.
type CloudflareAPI interface {
	ZoneExists(ctx context.Context, domain string) error
	TunnelExists(ctx context.Context, accountTag, tunnelID string) error
}

// Deps are the collaborators and settings shared by every rule.
type Deps struct {
	Probes     Probes
	GitHub     GitHubAPI
	Cloudflare func(token string) CloudflareAPI

	RuntimeCommand string
	MinimumRuntime string
	DNSProbeHost   string
	Parallelism    int

	// DecodeTunnelToken defaults to api.DecodeTunnelToken.
	DecodeTunnelToken func(token string) (*api.TunnelCredentials, error)
}

// Env is what a rule's check sees: the active profile, its resolved values,
// the shared dependencies and the skip-tests flag.
type Env struct {
	Profile   *Profile
	Values    Values
	Deps      Deps
	SkipTests bool

	Warnings []string
}

// Warn records a non-fatal finding for the report.
func (e *Env) Warn(format string, args ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

// Rule is one named check in the table. Rules are stateless and shared
// across runs.
type Rule struct {
	Name  string
	Stage Stage

	// Requires must resolve; Optional may be absent.
	Requires []Field
	Optional []Field

	// Gated rules are skipped when the document sets skip_tests.
	Gated bool

	// When, if set, is evaluated on WhenFields (resolved without requirement)
	// before anything else is extracted; false skips the rule.
	WhenFields []Field
	When       func(v Values) bool

	Check func(ctx context.Context, env *Env) error
}

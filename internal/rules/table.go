package rules

import (
	"context"
	"fmt"

	"github.com/concave-dev/preflight/internal/api"
	"github.com/concave-dev/preflight/internal/probe"
	"github.com/concave-dev/preflight/internal/validate"
)

const (
	dnsPort = 53
	ntpPort = 123
)

var loadBalancerModes = map[string]bool{"dsr": true, "snat": true}

// table is the authoritative rule order. Cheap local checks come first so
// they fail before any network call is made.
var table = []Rule{
	{
		Name:  "runtime-version",
		Stage: StageReachability,
		Check: checkRuntimeVersion,
	},
	{
		Name:     "cli-tools",
		Stage:    StageReachability,
		Requires: []Field{FieldDistribution},
		Optional: []Field{FieldCloudflareEnabled, FieldCloudflareTunnelToken},
		Check:    checkCLITools,
	},
	{
		Name:     "distribution",
		Stage:    StageSyntax,
		Requires: []Field{FieldDistribution},
		Check:    checkDistribution,
	},
	{
		Name:     "age-public-key",
		Stage:    StageSyntax,
		Requires: []Field{FieldAgePublicKey},
		Check: func(_ context.Context, env *Env) error {
			return validate.AgePublicKey(env.Values.String(FieldAgePublicKey))
		},
	},
	{
		Name:     "timezone",
		Stage:    StageSyntax,
		Requires: []Field{FieldTimezone},
		Check: func(_ context.Context, env *Env) error {
			return validate.Timezone(env.Values.String(FieldTimezone))
		},
	},
	{
		Name:     "dns-servers",
		Stage:    StageSyntax,
		Requires: []Field{FieldDNSServers},
		Check: func(_ context.Context, env *Env) error {
			return checkServerList(env.Values, FieldDNSServers, dnsPort)
		},
	},
	{
		Name:     "dns-resolution",
		Stage:    StageReachability,
		Requires: []Field{FieldDNSServers},
		Gated:    true,
		Check:    checkDNSResolution,
	},
	{
		Name:     "ntp-servers",
		Stage:    StageSyntax,
		Requires: []Field{FieldNTPServers},
		Check: func(_ context.Context, env *Env) error {
			return checkServerList(env.Values, FieldNTPServers, ntpPort)
		},
	},
	{
		Name:     "ntp-handshake",
		Stage:    StageReachability,
		Requires: []Field{FieldNTPServers},
		Gated:    true,
		Check:    checkNTPHandshake,
	},
	{
		Name:     "cluster-cidrs",
		Stage:    StageConsistency,
		Requires: []Field{FieldDualStack, FieldPodCIDR, FieldServiceCIDR},
		Check:    checkClusterCIDRs,
	},
	{
		Name:     "webhook-token",
		Stage:    StageSyntax,
		Requires: []Field{FieldWebhookToken},
		Check: func(_ context.Context, env *Env) error {
			return validate.WebhookToken(env.Values.String(FieldWebhookToken))
		},
	},
	{
		Name:  "host-network",
		Stage: StageConsistency,
		Requires: []Field{
			FieldNodeCIDR,
			FieldAPIAddr,
			FieldGatewayAddr,
			FieldExternalIngressAddr,
			FieldInternalIngressAddr,
		},
		Check: checkHostNetwork,
	},
	{
		Name:       "loadbalancer-mode",
		Stage:      StageSyntax,
		WhenFields: []Field{FieldLoadBalancerMode},
		When:       func(v Values) bool { return v.Has(FieldLoadBalancerMode) },
		Optional:   []Field{FieldLoadBalancerMode},
		Check:      checkLoadBalancerMode,
	},
	{
		Name:     "acme-email",
		Stage:    StageSyntax,
		Requires: []Field{FieldACMEEmail},
		Optional: []Field{FieldACMEProduction},
		Check:    checkACMEEmail,
	},
	{
		Name:       "github-branch",
		Stage:      StageReachability,
		WhenFields: []Field{FieldRepositoryPrivate},
		When:       func(v Values) bool { return !v.Bool(FieldRepositoryPrivate) },
		Requires:   []Field{FieldRepositoryUser, FieldRepositoryName},
		Optional:   []Field{FieldRepositoryBranch},
		Check:      checkGitHubBranch,
	},
	{
		Name:       "cloudflare",
		Stage:      StageReachability,
		Gated:      true,
		WhenFields: []Field{FieldCloudflareEnabled},
		When:       tunnelEnabled,
		Requires:   []Field{FieldCloudflareDomain, FieldCloudflareToken},
		Optional: []Field{
			FieldCloudflareAccountTag,
			FieldCloudflareTunnelID,
			FieldCloudflareTunnelSecret,
			FieldCloudflareTunnelToken,
		},
		Check: checkCloudflare,
	},
	{
		Name:     "node-inventory",
		Stage:    StageConsistency,
		Gated:    true,
		Requires: []Field{FieldDistribution, FieldNodeCIDR, FieldNodes},
		Check:    checkNodeInventory,
	},
	{
		Name:     "node-reachability",
		Stage:    StageReachability,
		Gated:    true,
		Requires: []Field{FieldDistribution, FieldNodes},
		Check:    checkNodeReachability,
	},
}

// Table returns the ordered rule table. The slice is a copy; rules are shared.
func Table() []Rule {
	out := make([]Rule, len(table))
	copy(out, table)
	return out
}

// Names returns rule names in table order.
func Names() []string {
	names := make([]string, len(table))
	for i, r := range table {
		names[i] = r.Name
	}
	return names
}

func tunnelEnabled(v Values) bool {
	return (v.profile != nil && v.profile.Tunnel.AlwaysEnabled) || v.Bool(FieldCloudflareEnabled)
}

func checkRuntimeVersion(ctx context.Context, env *Env) error {
	return env.Deps.Probes.RuntimeVersion(ctx, env.Deps.RuntimeCommand, env.Deps.MinimumRuntime)
}

// requiredTools lists global tools, then distribution tools, then the tunnel
// CLI when the tunnel is enabled and no pre-issued token replaces it.
func requiredTools(p *Profile, v Values, d Distribution) []string {
	tools := make([]string, 0, len(p.GlobalTools)+len(d.Tools)+1)
	tools = append(tools, p.GlobalTools...)
	tools = append(tools, d.Tools...)

	t := p.Tunnel
	if t.Tool != "" && tunnelEnabled(v) {
		if !t.ToolUnlessToken || v.String(FieldCloudflareTunnelToken) == "" {
			tools = append(tools, t.Tool)
		}
	}
	return tools
}

func checkCLITools(_ context.Context, env *Env) error {
	d, err := env.Profile.Distribution(env.Values.String(FieldDistribution))
	if err != nil {
		return err
	}
	return env.Deps.Probes.Tools(requiredTools(env.Profile, env.Values, d))
}

func checkDistribution(_ context.Context, env *Env) error {
	_, err := env.Profile.Distribution(env.Values.String(FieldDistribution))
	return err
}

func checkServerList(v Values, f Field, port int) error {
	servers := v.List(f)
	if len(servers) == 0 {
		return &validate.SyntaxError{Field: v.Label(f), Value: "", Expected: "at least one server address"}
	}
	for _, server := range servers {
		if _, err := validate.ParseServerAddress(v.Label(f), server, port); err != nil {
			return err
		}
	}
	return nil
}

func checkDNSResolution(ctx context.Context, env *Env) error {
	v := env.Values
	return env.Deps.Probes.ResolveAll(ctx, v.Label(FieldDNSServers), v.List(FieldDNSServers), env.Deps.DNSProbeHost)
}

func checkNTPHandshake(ctx context.Context, env *Env) error {
	servers := env.Values.List(FieldNTPServers)
	return probe.ForEach(ctx, len(servers), env.Deps.Parallelism, func(ctx context.Context, i int) error {
		return env.Deps.Probes.NTP(ctx, servers[i])
	})
}

// checkClusterCIDRs validates range count and family for both cluster
// networks before comparing them, so a malformed value is reported as such
// rather than as a collision. Ranges of the same family must not overlap.
func checkClusterCIDRs(_ context.Context, env *Env) error {
	v := env.Values
	dual := v.Bool(FieldDualStack)

	pods, err := validate.ClusterCIDRs(v.Label(FieldPodCIDR), v.String(FieldPodCIDR), dual)
	if err != nil {
		return err
	}
	services, err := validate.ClusterCIDRs(v.Label(FieldServiceCIDR), v.String(FieldServiceCIDR), dual)
	if err != nil {
		return err
	}

	if err := validate.DistinctValues(
		validate.NamedValue{Field: v.Label(FieldPodCIDR), Value: v.String(FieldPodCIDR)},
		validate.NamedValue{Field: v.Label(FieldServiceCIDR), Value: v.String(FieldServiceCIDR)},
	); err != nil {
		return err
	}
	return validate.DisjointRanges(v.Label(FieldPodCIDR), pods, v.Label(FieldServiceCIDR), services)
}

func checkHostNetwork(_ context.Context, env *Env) error {
	v := env.Values
	network, err := validate.ParseCIDR(v.Label(FieldNodeCIDR), v.String(FieldNodeCIDR), 4)
	if err != nil {
		return err
	}

	reserved := []Field{FieldAPIAddr, FieldGatewayAddr, FieldExternalIngressAddr, FieldInternalIngressAddr}
	named := make([]validate.NamedValue, 0, len(reserved))
	for _, f := range reserved {
		named = append(named, validate.NamedValue{Field: v.Label(f), Value: v.String(f)})
	}
	if err := validate.UniqueAddresses(named...); err != nil {
		return err
	}

	for _, nv := range named {
		if err := validate.AddressInNetwork(nv.Field, nv.Value, network); err != nil {
			return err
		}
	}
	return nil
}

func checkLoadBalancerMode(_ context.Context, env *Env) error {
	mode := env.Values.String(FieldLoadBalancerMode)
	if !loadBalancerModes[mode] {
		return &validate.SyntaxError{Field: env.Values.Label(FieldLoadBalancerMode), Value: mode, Expected: "dsr or snat"}
	}
	return nil
}

// checkACMEEmail fails only on syntax. A domain without MX records is
// reported as a warning since certificates can still be issued.
func checkACMEEmail(ctx context.Context, env *Env) error {
	email := env.Values.String(FieldACMEEmail)
	if err := validate.Email(email); err != nil {
		return err
	}
	if env.SkipTests {
		return nil
	}

	domain := validate.EmailDomain(email)
	if err := env.Deps.Probes.HasMX(ctx, domain); err != nil {
		env.Warn("ACME email domain %s may not accept mail: %v", domain, err)
	}
	return nil
}

func checkGitHubBranch(ctx context.Context, env *Env) error {
	v := env.Values
	branch := v.String(FieldRepositoryBranch)
	if branch == "" {
		branch = "main"
	}
	return env.Deps.GitHub.BranchExists(ctx, v.String(FieldRepositoryUser), v.String(FieldRepositoryName), branch)
}

// checkCloudflare verifies zone access for the domain, then tunnel access
// either from the pre-issued tunnel token or from the account and tunnel id.
// Without a token both ids are required.
func checkCloudflare(ctx context.Context, env *Env) error {
	v := env.Values
	token := v.String(FieldCloudflareTunnelToken)
	if token == "" {
		for _, f := range []Field{FieldCloudflareAccountTag, FieldCloudflareTunnelID} {
			if v.String(f) == "" {
				return &validate.MissingKeyError{Path: v.Label(f)}
			}
		}
	}

	cf := env.Deps.Cloudflare(v.String(FieldCloudflareToken))
	if err := cf.ZoneExists(ctx, v.String(FieldCloudflareDomain)); err != nil {
		return err
	}

	if token != "" {
		decode := env.Deps.DecodeTunnelToken
		if decode == nil {
			decode = api.DecodeTunnelToken
		}
		creds, err := decode(token)
		if err != nil {
			return &validate.SyntaxError{Field: v.Label(FieldCloudflareTunnelToken), Value: token, Expected: fmt.Sprintf("a tunnel token (%v)", err), Secret: true}
		}
		return cf.TunnelExists(ctx, creds.AccountTag, creds.TunnelID)
	}

	return cf.TunnelExists(ctx, v.String(FieldCloudflareAccountTag), v.String(FieldCloudflareTunnelID))
}

func checkNodeInventory(_ context.Context, env *Env) error {
	v := env.Values
	d, err := env.Profile.Distribution(v.String(FieldDistribution))
	if err != nil {
		return err
	}

	network, err := validate.ParseCIDR(v.Label(FieldNodeCIDR), v.String(FieldNodeCIDR), 4)
	if err != nil {
		return err
	}

	nodes, err := ParseInventory(v.Raw(FieldNodes), env.Profile.Inventory, v.Label(FieldNodes))
	if err != nil {
		return err
	}
	return validate.ValidateInventory(nodes, network, d.Requirements())
}

func checkNodeReachability(ctx context.Context, env *Env) error {
	v := env.Values
	d, err := env.Profile.Distribution(v.String(FieldDistribution))
	if err != nil {
		return err
	}

	nodes, err := ParseInventory(v.Raw(FieldNodes), env.Profile.Inventory, v.Label(FieldNodes))
	if err != nil {
		return err
	}
	return probe.ForEach(ctx, len(nodes), env.Deps.Parallelism, func(ctx context.Context, i int) error {
		return env.Deps.Probes.TCP(ctx, nodes[i].Name, nodes[i].Address, d.Port)
	})
}

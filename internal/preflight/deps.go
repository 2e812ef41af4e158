package preflight

import (
	"github.com/concave-dev/preflight/internal/api"
	"github.com/concave-dev/preflight/internal/config"
	"github.com/concave-dev/preflight/internal/probe"
	"github.com/concave-dev/preflight/internal/rules"
	"github.com/concave-dev/preflight/internal/version"
)

// OptionsFrom derives run options from tool settings.
func OptionsFrom(s *config.Settings) Options {
	return Options{
		Parallelism: s.Parallelism,
		CollectAll:  s.CollectAll,
	}
}

// LiveDeps wires the rule dependencies to the real network, the public APIs
// and the local host. s.Timeout bounds every probe and API request.
func LiveDeps(s *config.Settings) rules.Deps {
	prober := probe.New(s.Timeout)

	return rules.Deps{
		Probes: prober,
		GitHub: api.NewGitHub(s.GitHubAPIURL, s.Timeout),
		Cloudflare: func(token string) rules.CloudflareAPI {
			return api.NewCloudflare(s.CloudflareAPIURL, token, s.Timeout)
		},
		RuntimeCommand:    s.RuntimeCommand,
		MinimumRuntime:    version.MinimumRuntimeVersion,
		DNSProbeHost:      s.DNSProbeHost,
		Parallelism:       s.Parallelism,
		DecodeTunnelToken: api.DecodeTunnelToken,
	}
}

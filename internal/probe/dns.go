package probe

import (
	"context"
	"fmt"
	"net"

	"github.com/concave-dev/preflight/internal/logging"
	"github.com/concave-dev/preflight/internal/validate"
	"github.com/miekg/dns"
)

const dnsPort = 53

// exchange sends a single question to server ("ip" or "ip:port").
func (p *Prober) exchange(ctx context.Context, server, name string, qtype uint16) (*dns.Msg, error) {
	addr, err := validate.ParseServerAddress("dns server", server, dnsPort)
	if err != nil {
		return nil, err
	}

	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), qtype)
	msg.RecursionDesired = true

	client := &dns.Client{Net: p.DNSNet, Timeout: p.Timeout}
	resp, _, err := client.ExchangeContext(ctx, msg, addr.String())
	if err != nil {
		return nil, &validate.UnreachableError{
			Target:  fmt.Sprintf("dns server %s", server),
			Service: "dns",
			Timeout: p.Timeout,
			Err:     classify(err),
		}
	}
	return resp, nil
}

// Resolve asks server for the A records of host. It fails unless the server
// answers NOERROR with at least one address.
func (p *Prober) Resolve(ctx context.Context, server, host string) ([]net.IP, error) {
	resp, err := p.exchange(ctx, server, host, dns.TypeA)
	if err != nil {
		return nil, err
	}
	if resp.Rcode != dns.RcodeSuccess {
		return nil, &validate.UnreachableError{
			Target:  fmt.Sprintf("dns server %s", server),
			Service: "dns",
			Err:     fmt.Errorf("resolving %s returned %s", host, dns.RcodeToString[resp.Rcode]),
		}
	}

	var ips []net.IP
	for _, rr := range resp.Answer {
		if a, ok := rr.(*dns.A); ok {
			ips = append(ips, a.A)
		}
	}
	if len(ips) == 0 {
		return nil, &validate.UnreachableError{
			Target:  fmt.Sprintf("dns server %s", server),
			Service: "dns",
			Err:     fmt.Errorf("no addresses returned for %s", host),
		}
	}

	logging.Debug("DNS server %s resolved %s to %v", server, host, ips)
	return ips, nil
}

// ResolveAll requires every server to resolve host. The first failing server
// (in list order) is reported together with the full list.
func (p *Prober) ResolveAll(ctx context.Context, field string, servers []string, host string) error {
	for _, server := range servers {
		if _, err := p.Resolve(ctx, server, host); err != nil {
			return fmt.Errorf("%s %v: %w", field, servers, err)
		}
	}
	return nil
}

// HasMX reports whether domain publishes at least one MX record. Servers
// default to the prober's Resolvers and then to the system resolver config.
func (p *Prober) HasMX(ctx context.Context, domain string, servers ...string) error {
	if len(servers) == 0 {
		servers = p.Resolvers
	}
	if len(servers) == 0 {
		conf, err := dns.ClientConfigFromFile("/etc/resolv.conf")
		if err != nil {
			return fmt.Errorf("no resolvers available for MX lookup: %w", err)
		}
		servers = conf.Servers
	}

	var lastErr error
	for _, server := range servers {
		resp, err := p.exchange(ctx, server, domain, dns.TypeMX)
		if err != nil {
			lastErr = err
			continue
		}
		for _, rr := range resp.Answer {
			if _, ok := rr.(*dns.MX); ok {
				return nil
			}
		}
		return fmt.Errorf("domain %s has no MX records", domain)
	}
	return lastErr
}

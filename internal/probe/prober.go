package probe

import (
	"context"
	"net"
	"os/exec"
	"time"

	"github.com/beevik/ntp"
	"github.com/concave-dev/preflight/internal/config"
)

// Dialer opens stream connections. *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// NTPQueryFunc performs a single NTP exchange. ntp.QueryWithOptions satisfies it.
type NTPQueryFunc func(address string, opts ntp.QueryOptions) (*ntp.Response, error)

// CommandRunner runs an external command and returns its combined output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Prober bundles the live checks with their injectable transports. The zero
// value is not usable; construct with New.
type Prober struct {
	Timeout  time.Duration
	Dialer   Dialer
	NTPQuery NTPQueryFunc
	LookPath func(file string) (string, error)
	Run      CommandRunner

	// DNSNet is the transport used for DNS queries ("udp" or "tcp").
	DNSNet string

	// Resolvers are used for MX lookups when no servers are passed explicitly.
	Resolvers []string
}

// New returns a Prober wired to the real network, NTP client and $PATH.
func New(timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	return &Prober{
		Timeout:  timeout,
		Dialer:   &net.Dialer{Timeout: timeout},
		NTPQuery: ntp.QueryWithOptions,
		LookPath: exec.LookPath,
		Run:      runCommand,
		DNSNet:   "udp",
	}
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// withTimeout derives a per-probe deadline from the prober timeout.
func (p *Prober) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, p.Timeout)
}

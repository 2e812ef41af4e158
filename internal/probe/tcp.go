package probe

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/concave-dev/preflight/internal/logging"
	"github.com/concave-dev/preflight/internal/validate"
)

// TCP opens a connection to address:port and closes it immediately. A failed
// connect is reported as an UnreachableError naming the node and port.
func (p *Prober) TCP(ctx context.Context, name, address string, port int) error {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	target := net.JoinHostPort(address, strconv.Itoa(port))
	logging.Debug("Probing %s at %s", name, target)

	conn, err := p.Dialer.DialContext(ctx, "tcp", target)
	if err != nil {
		return &validate.UnreachableError{
			Target:  fmt.Sprintf("node %s (%s)", name, address),
			Service: fmt.Sprintf("tcp/%d", port),
			Timeout: p.Timeout,
			Err:     classify(err),
		}
	}
	return conn.Close()
}

package probe

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/beevik/ntp"
	"github.com/concave-dev/preflight/internal/logging"
	"github.com/concave-dev/preflight/internal/validate"
)

const ntpPort = 123

// NTP performs an NTP version 3 exchange with server and validates that the
// response is usable for time synchronization.
func (p *Prober) NTP(ctx context.Context, server string) error {
	addr, err := validate.ParseServerAddress("ntp server", server, ntpPort)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	target := net.JoinHostPort(addr.Host, strconv.Itoa(addr.Port))
	resp, err := p.NTPQuery(target, ntp.QueryOptions{Version: 3, Timeout: p.Timeout})
	if err != nil {
		return &validate.UnreachableError{
			Target:  fmt.Sprintf("ntp server %s", server),
			Service: "ntp",
			Timeout: p.Timeout,
			Err:     classify(err),
		}
	}
	if err := resp.Validate(); err != nil {
		return &validate.UnreachableError{
			Target:  fmt.Sprintf("ntp server %s", server),
			Service: "ntp",
			Err:     fmt.Errorf("invalid response: %w", err),
		}
	}

	logging.Debug("NTP server %s answered (stratum %d, offset %s)", server, resp.Stratum, resp.ClockOffset)
	return nil
}

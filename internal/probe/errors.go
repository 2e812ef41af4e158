// Package probe implements the live checks run against the declared
// environment: node TCP reachability, DNS resolution, NTP handshakes, MX
// deliverability, CLI tool presence and the template runtime version.
//
// This file implements network error classification for probe failures.
// Provides type-based error detection that works reliably across operating
// systems and Go versions, avoiding fragile string matching, so that an
// unreachable node is reported as "refused" or "timed out" rather than with a
// raw dial error.

package probe

import (
	"context"
	"errors"
	"net"
	"os"
	"syscall"
)

// IsConnectionRefusedError checks if an error indicates "connection refused"
// using proper error type checking rather than string matching.
//
// A refused connection means the host answered but nothing listens on the
// port, which usually points at a node that is up but not yet provisioned.
func IsConnectionRefusedError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errors.Is(opErr.Err, syscall.ECONNREFUSED)
	}
	return false
}

// IsTimeoutError reports dial or read deadlines, including context expiry.
func IsTimeoutError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsHostUnreachableError reports missing routes to the target host or network.
func IsHostUnreachableError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errors.Is(opErr.Err, syscall.EHOSTUNREACH) || errors.Is(opErr.Err, syscall.ENETUNREACH)
	}
	return false
}

// classify condenses a dial error into a short cause for report output.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case IsConnectionRefusedError(err):
		return errors.New("connection refused")
	case IsTimeoutError(err):
		return errors.New("timed out")
	case IsHostUnreachableError(err):
		return errors.New("host unreachable")
	default:
		return err
	}
}

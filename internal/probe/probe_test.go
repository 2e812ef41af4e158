package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/beevik/ntp"
	"github.com/concave-dev/preflight/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listenLoopback(t *testing.T) (string, int) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			_ = conn.Close()
		}
	}()

	addr := ln.Addr().(*net.TCPAddr)
	return addr.IP.String(), addr.Port
}

func closedPort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func TestTCP(t *testing.T) {
	p := New(time.Second)

	host, port := listenLoopback(t)
	assert.NoError(t, p.TCP(context.Background(), "node-1", host, port))

	port = closedPort(t)
	err := p.TCP(context.Background(), "node-1", "127.0.0.1", port)
	var unreachable *validate.UnreachableError
	require.ErrorAs(t, err, &unreachable)
	assert.Contains(t, err.Error(), "node-1")
	assert.Contains(t, err.Error(), "tcp/"+strconv.Itoa(port))
	assert.Contains(t, err.Error(), "connection refused")
}

type timeoutDialer struct{}

func (timeoutDialer) DialContext(ctx context.Context, _, _ string) (net.Conn, error) {
	return nil, &net.OpError{Op: "dial", Net: "tcp", Err: os.ErrDeadlineExceeded}
}

func TestTCPTimeout(t *testing.T) {
	p := New(50 * time.Millisecond)
	p.Dialer = timeoutDialer{}

	err := p.TCP(context.Background(), "node-2", "10.1.0.6", 50000)
	var unreachable *validate.UnreachableError
	require.ErrorAs(t, err, &unreachable)
	assert.Equal(t, "tcp/50000", unreachable.Service)
	assert.Contains(t, err.Error(), "timed out")
}

func TestNTP(t *testing.T) {
	p := New(time.Second)

	var seen ntp.QueryOptions
	var seenAddr string
	p.NTPQuery = func(address string, opts ntp.QueryOptions) (*ntp.Response, error) {
		seen, seenAddr = opts, address
		now := time.Now()
		return &ntp.Response{
			Time:          now,
			ReferenceTime: now.Add(-time.Minute),
			Stratum:       2,
			Leap:          ntp.LeapNoWarning,
		}, nil
	}

	require.NoError(t, p.NTP(context.Background(), "162.159.200.1"))
	assert.Equal(t, 3, seen.Version)
	assert.Equal(t, time.Second, seen.Timeout)
	assert.Equal(t, "162.159.200.1:123", seenAddr)
}

func TestNTPFailures(t *testing.T) {
	p := New(time.Second)

	p.NTPQuery = func(string, ntp.QueryOptions) (*ntp.Response, error) {
		return nil, errors.New("read udp: i/o timeout")
	}
	var unreachable *validate.UnreachableError
	err := p.NTP(context.Background(), "162.159.200.123")
	require.ErrorAs(t, err, &unreachable)
	assert.Contains(t, err.Error(), "162.159.200.123")

	p.NTPQuery = func(string, ntp.QueryOptions) (*ntp.Response, error) {
		return &ntp.Response{Stratum: 0}, nil
	}
	require.ErrorAs(t, p.NTP(context.Background(), "162.159.200.123"), &unreachable)

	var syntaxErr *validate.SyntaxError
	require.ErrorAs(t, p.NTP(context.Background(), "time.example"), &syntaxErr)
}

func TestTools(t *testing.T) {
	p := New(time.Second)
	installed := map[string]bool{"age": true, "flux": true, "sops": true}
	p.LookPath = func(file string) (string, error) {
		if installed[file] {
			return "/usr/bin/" + file, nil
		}
		return "", errors.New("not found")
	}

	assert.NoError(t, p.Tools([]string{"age", "flux", "sops"}))

	err := p.Tools([]string{"age", "talosctl", "talhelper"})
	var missing *validate.ToolNotFoundError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "talosctl", missing.Tool)
}

func TestRuntimeVersion(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		runErr  error
		wantErr interface{}
	}{
		{name: "newer", output: "Python 3.12.1\n"},
		{name: "equal", output: "Python 3.11.0\n"},
		{name: "two part version", output: "Python 3.13\n"},
		{name: "older", output: "Python 3.10.12\n", wantErr: new(*validate.RuntimeVersionError)},
		{name: "missing binary", runErr: errors.New("exec: not found"), wantErr: new(*validate.ToolNotFoundError)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(time.Second)
			p.Run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
				assert.Equal(t, "python3", name)
				assert.Equal(t, []string{"--version"}, args)
				return []byte(tt.output), tt.runErr
			}

			err := p.RuntimeVersion(context.Background(), "python3 --version", "3.11.0")
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorAs(t, err, tt.wantErr)
		})
	}
}

func TestForEachReportsLowestIndex(t *testing.T) {
	var inFlight, maxInFlight int32
	fn := func(ctx context.Context, i int) error {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			old := atomic.LoadInt32(&maxInFlight)
			if n <= old || atomic.CompareAndSwapInt32(&maxInFlight, old, n) {
				break
			}
		}
		// Later indexes finish first so completion order differs from index order
		time.Sleep(time.Duration(10-i) * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		if i == 2 || i == 5 {
			return fmt.Errorf("failed %d", i)
		}
		return nil
	}

	err := ForEach(context.Background(), 8, 4, fn)
	require.Error(t, err)
	assert.Equal(t, "failed 2", err.Error())
	assert.LessOrEqual(t, atomic.LoadInt32(&maxInFlight), int32(4))

	errs := ForEachAll(context.Background(), 8, 3, fn)
	require.Len(t, errs, 8)
	assert.Error(t, errs[2])
	assert.Error(t, errs[5])
	assert.NoError(t, errs[0])
}

func TestForEachSequentialStopsEarly(t *testing.T) {
	calls := 0
	err := ForEach(context.Background(), 5, 1, func(ctx context.Context, i int) error {
		calls++
		if i == 1 {
			return errors.New("stop")
		}
		return nil
	})
	require.Error(t, err)
	assert.Equal(t, 2, calls)
}

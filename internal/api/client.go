// Package api provides the HTTP clients used by preflight's external checks.
//
// This package implements the thin client layer for the source-control and
// DNS/tunnel provider APIs consulted during validation. It handles timeouts,
// JSON decoding and debug logging, and converts
// every failure into a validate.ExternalAPIError that names the looked-up
// resource but never the credential used.
//
// SUPPORTED LOOKUPS:
//   - GitHub: repository branch existence
//   - Cloudflare: zone access for a domain, tunnel existence for an account
//   - Tunnel credentials: encoding and decoding of the compact tunnel token
//
// Request logging prints the method and URL path only. Authorization headers
// and tokens are never logged.
package api

import (
	"fmt"
	"time"

	"github.com/concave-dev/preflight/internal/logging"
	"github.com/concave-dev/preflight/internal/version"
	"github.com/go-resty/resty/v2"
)

// RestyLogger implements resty.Logger interface and routes logs through structured logging
type RestyLogger struct{}

// Errorf routes error messages through structured logging.
func (RestyLogger) Errorf(format string, v ...interface{}) {
	logging.Error(format, v...)
}

// Warnf routes warning messages through structured logging.
func (RestyLogger) Warnf(format string, v ...interface{}) {
	logging.Warn(format, v...)
}

// Debugf routes debug messages through structured logging.
func (RestyLogger) Debugf(format string, v ...interface{}) {
	logging.Debug(format, v...)
}

// newRestyClient builds a JSON client against baseURL with the shared timeout
// and logging policy. Requests are never retried.
func newRestyClient(baseURL string, timeout time.Duration) *resty.Client {
	client := resty.New()

	// Route Resty's internal logging through our structured logging system
	client.SetLogger(RestyLogger{})

	client.
		SetTimeout(timeout).
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", fmt.Sprintf("preflight/%s", version.PreflightVersion))

	// A check is one attempt bounded by the timeout. Failures surface as-is.
	client.SetRetryCount(0)

	client.OnBeforeRequest(func(c *resty.Client, req *resty.Request) error {
		logging.Debug("Making API request: %s %s", req.Method, req.URL)
		return nil
	})

	client.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		logging.Debug("API response: %d %s (took %v)",
			resp.StatusCode(), resp.Request.URL, resp.Time())
		return nil
	})

	client.OnError(func(req *resty.Request, err error) {
		logging.Debug("API request failed: %s %s - %v", req.Method, req.URL, err)
	})

	return client
}

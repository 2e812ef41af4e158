package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/concave-dev/preflight/internal/validate"
	"github.com/go-resty/resty/v2"
)

// cloudflareEnvelope is the common response wrapper of the v4 API.
type cloudflareEnvelope struct {
	Success bool             `json:"success"`
	Result  any              `json:"result"`
	Errors  []cloudflareItem `json:"errors"`
}

type cloudflareItem struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Cloudflare checks zone and tunnel access for an API token. The token is
// attached as a bearer credential and is never part of an error.
type Cloudflare struct {
	client *resty.Client
}

// NewCloudflare returns a client for the Cloudflare v4 API at baseURL.
func NewCloudflare(baseURL, token string, timeout time.Duration) *Cloudflare {
	client := newRestyClient(baseURL, timeout)
	client.SetAuthToken(token)
	return &Cloudflare{client: client}
}

// ZoneExists succeeds when the token can see a zone named domain.
func (c *Cloudflare) ZoneExists(ctx context.Context, domain string) error {
	resource := fmt.Sprintf("Cloudflare domain %s not found or token does not have access to it", domain)

	var envelope cloudflareEnvelope
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("name", domain).
		SetResult(&envelope).
		Get("/zones")
	if err != nil {
		return &validate.ExternalAPIError{Resource: resource, Err: err}
	}
	if resp.StatusCode() != http.StatusOK || !envelope.Success {
		return &validate.ExternalAPIError{Resource: resource, Status: resp.StatusCode()}
	}

	zones, ok := envelope.Result.([]any)
	if !ok || len(zones) == 0 {
		return &validate.ExternalAPIError{Resource: resource, Status: resp.StatusCode()}
	}
	return nil
}

// TunnelExists succeeds when the token can read the tunnel in the account and
// the API returns a non-empty tunnel object.
func (c *Cloudflare) TunnelExists(ctx context.Context, accountTag, tunnelID string) error {
	resource := fmt.Sprintf("Cloudflare tunnel for %s not found or token does not have access to it", accountTag)

	var envelope cloudflareEnvelope
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"account": accountTag,
			"tunnel":  tunnelID,
		}).
		SetResult(&envelope).
		Get("/accounts/{account}/cfd_tunnel/{tunnel}")
	if err != nil {
		return &validate.ExternalAPIError{Resource: resource, Err: err}
	}
	if resp.StatusCode() != http.StatusOK || !envelope.Success {
		return &validate.ExternalAPIError{Resource: resource, Status: resp.StatusCode()}
	}

	tunnel, ok := envelope.Result.(map[string]any)
	if !ok || len(tunnel) == 0 {
		return &validate.ExternalAPIError{Resource: resource, Status: resp.StatusCode()}
	}
	return nil
}

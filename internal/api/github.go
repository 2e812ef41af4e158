package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/concave-dev/preflight/internal/validate"
	"github.com/go-resty/resty/v2"
)

// GitHub looks up public repository metadata. No credential is sent, so only
// public repositories can be checked.
type GitHub struct {
	client *resty.Client
}

// NewGitHub returns a client for the GitHub REST API at baseURL.
func NewGitHub(baseURL string, timeout time.Duration) *GitHub {
	client := newRestyClient(baseURL, timeout)
	client.SetHeader("Accept", "application/vnd.github+json")
	return &GitHub{client: client}
}

// BranchExists succeeds when owner/repo has the named branch.
func (g *GitHub) BranchExists(ctx context.Context, owner, repo, branch string) error {
	resource := fmt.Sprintf("GitHub repository %s/%s branch %s not found", owner, repo, branch)

	resp, err := g.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"owner":  owner,
			"repo":   repo,
			"branch": branch,
		}).
		Get("/repos/{owner}/{repo}/branches/{branch}")
	if err != nil {
		return &validate.ExternalAPIError{Resource: resource, Err: err}
	}

	if resp.StatusCode() != http.StatusOK {
		return &validate.ExternalAPIError{Resource: resource, Status: resp.StatusCode()}
	}
	return nil
}

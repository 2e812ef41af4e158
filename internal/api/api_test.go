package api

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/concave-dev/preflight/internal/validate"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "cf-test-token-0123456789"

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeGitHub serves a single repository with a main branch.
func fakeGitHub(t *testing.T) *httptest.Server {
	t.Helper()
	r := gin.New()
	r.GET("/repos/:owner/:repo/branches/:branch", func(c *gin.Context) {
		if c.Param("owner") == "onedr0p" && c.Param("repo") == "home-ops" && c.Param("branch") == "main" {
			c.JSON(http.StatusOK, gin.H{"name": "main"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"message": "Branch not found"})
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

// fakeCloudflare serves one zone and one tunnel for testToken.
func fakeCloudflare(t *testing.T) *httptest.Server {
	t.Helper()
	r := gin.New()

	authorized := func(c *gin.Context) bool {
		if c.GetHeader("Authorization") != "Bearer "+testToken {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "errors": []gin.H{{"code": 9109, "message": "Invalid access token"}}})
			return false
		}
		return true
	}

	r.GET("/zones", func(c *gin.Context) {
		if !authorized(c) {
			return
		}
		result := []gin.H{}
		if c.Query("name") == "example.com" {
			result = append(result, gin.H{"id": "zone-1", "name": "example.com"})
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "result": result})
	})

	r.GET("/accounts/:account/cfd_tunnel/:tunnel", func(c *gin.Context) {
		if !authorized(c) {
			return
		}
		if c.Param("account") == "acct" && c.Param("tunnel") == "tunnel-1" {
			c.JSON(http.StatusOK, gin.H{"success": true, "result": gin.H{"id": "tunnel-1"}})
			return
		}
		if c.Param("tunnel") == "tunnel-empty" {
			c.JSON(http.StatusOK, gin.H{"success": true, "result": nil})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"success": false, "result": nil})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestGitHubBranchExists(t *testing.T) {
	srv := fakeGitHub(t)
	gh := NewGitHub(srv.URL, time.Second)
	ctx := context.Background()

	require.NoError(t, gh.BranchExists(ctx, "onedr0p", "home-ops", "main"))

	err := gh.BranchExists(ctx, "onedr0p", "home-ops", "feature")
	var apiErr *validate.ExternalAPIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Contains(t, err.Error(), "onedr0p/home-ops branch feature not found")
}

func TestGitHubTransportError(t *testing.T) {
	srv := fakeGitHub(t)
	url := srv.URL
	srv.Close()

	gh := NewGitHub(url, 200*time.Millisecond)
	err := gh.BranchExists(context.Background(), "onedr0p", "home-ops", "main")
	var apiErr *validate.ExternalAPIError
	require.ErrorAs(t, err, &apiErr)
	assert.Error(t, apiErr.Err)
}

func TestGitHubSingleAttempt(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	var attempts atomic.Int32
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			attempts.Add(1)
			conn.Close()
		}
	}()

	gh := NewGitHub("http://"+ln.Addr().String(), time.Second)
	err = gh.BranchExists(context.Background(), "onedr0p", "home-ops", "main")
	var apiErr *validate.ExternalAPIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestCloudflareZoneExists(t *testing.T) {
	srv := fakeCloudflare(t)
	ctx := context.Background()

	cf := NewCloudflare(srv.URL, testToken, time.Second)
	require.NoError(t, cf.ZoneExists(ctx, "example.com"))

	err := cf.ZoneExists(ctx, "other.org")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cloudflare domain other.org not found")

	bad := NewCloudflare(srv.URL, "wrong-token-value", time.Second)
	err = bad.ZoneExists(ctx, "example.com")
	var apiErr *validate.ExternalAPIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.NotContains(t, err.Error(), "wrong-token-value")
}

func TestCloudflareTunnelExists(t *testing.T) {
	srv := fakeCloudflare(t)
	ctx := context.Background()
	cf := NewCloudflare(srv.URL, testToken, time.Second)

	require.NoError(t, cf.TunnelExists(ctx, "acct", "tunnel-1"))

	err := cf.TunnelExists(ctx, "acct", "tunnel-2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cloudflare tunnel for acct not found")
	assert.NotContains(t, err.Error(), testToken)

	err = cf.TunnelExists(ctx, "acct", "tunnel-empty")
	var apiErr *validate.ExternalAPIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusOK, apiErr.Status)
}

func TestTunnelTokenRoundTrip(t *testing.T) {
	creds := TunnelCredentials{AccountTag: "acct", TunnelID: "tunnel-1", TunnelSecret: "c2VjcmV0"}

	token, err := EncodeTunnelToken(creds)
	require.NoError(t, err)
	// base64 of {"a":"acct","t":"tunnel-1","s":"c2VjcmV0"}
	assert.Equal(t, "eyJhIjoiYWNjdCIsInQiOiJ0dW5uZWwtMSIsInMiOiJjMlZqY21WMCJ9", token)

	decoded, err := DecodeTunnelToken(token)
	require.NoError(t, err)
	assert.Equal(t, creds, *decoded)
}

func TestDecodeTunnelTokenErrors(t *testing.T) {
	for _, token := range []string{"%%%not-base64", "bm90LWpzb24=", "eyJhIjoiYWNjdCJ9"} {
		_, err := DecodeTunnelToken(token)
		require.Error(t, err, token)
		assert.NotContains(t, err.Error(), token)
	}
}

func TestLoadTunnelCredentials(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cloudflare-tunnel.json")
	content := `{"AccountTag":"acct","TunnelID":"tunnel-1","TunnelSecret":"c2VjcmV0"}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	creds, err := LoadTunnelCredentials(path)
	require.NoError(t, err)
	assert.Equal(t, "tunnel-1", creds.TunnelID)

	incomplete := filepath.Join(dir, "incomplete.json")
	require.NoError(t, os.WriteFile(incomplete, []byte(`{"AccountTag":"acct"}`), 0o600))
	_, err = LoadTunnelCredentials(incomplete)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "TunnelID"))

	_, err = LoadTunnelCredentials(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

// Package render holds the helpers a template renderer registers next to the
// validation hook: filters, file-backed functions, data defaults and
// per-directory inclusion predicates.
package render

import (
	"fmt"
	"net/netip"
	"path/filepath"
	"strings"
	"text/template"

	"golang.org/x/crypto/bcrypt"
)

// EncryptCost is the bcrypt cost used by Encrypt.
const EncryptCost = 10

// FuncMap returns every filter and function under its template name.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		// filters
		"nthhost":  NthHost,
		"basename": Basename,
		"encrypt":  Encrypt,

		// functions
		"age_key":                  AgeKey,
		"cloudflare_tunnel_id":     CloudflareTunnelID,
		"cloudflare_tunnel_secret": CloudflareTunnelSecret,
		"github_deploy_key":        GitHubDeployKey,
		"github_push_token":        GitHubPushToken,
		"talos_patches":            TalosPatches,
	}
}

// NthHost returns the nth address of cidr, counting the network address as 0.
func NthHost(cidr string, n int) (string, error) {
	prefix, err := netip.ParsePrefix(strings.TrimSpace(cidr))
	if err != nil {
		return "", fmt.Errorf("invalid network %q: %w", cidr, err)
	}
	if n < 0 {
		return "", fmt.Errorf("host index %d is negative", n)
	}
	prefix = prefix.Masked()

	addr, ok := addOffset(prefix.Addr(), uint64(n))
	if !ok || !prefix.Contains(addr) {
		return "", fmt.Errorf("host index %d is outside %s", n, prefix)
	}
	return addr.String(), nil
}

// addOffset adds n to addr, reporting false on overflow of the address space.
func addOffset(addr netip.Addr, n uint64) (netip.Addr, bool) {
	b := addr.As16()
	carry := n
	for i := len(b) - 1; i >= 0 && carry > 0; i-- {
		sum := uint64(b[i]) + carry&0xff
		b[i] = byte(sum)
		carry = carry>>8 + sum>>8
	}
	if carry > 0 {
		return netip.Addr{}, false
	}

	out := netip.AddrFrom16(b)
	if addr.Is4() {
		if !out.Is4In6() {
			return netip.Addr{}, false
		}
		out = out.Unmap()
	}
	return out, true
}

// Basename returns the file name of path without its last extension, so
// "talos/patches/controller.yaml.j2" becomes "controller.yaml".
func Basename(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Encrypt returns the bcrypt hash of value.
func Encrypt(value string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(value), EncryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash value: %w", err)
	}
	return string(hash), nil
}

package render

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/concave-dev/preflight/internal/api"
)

// Default file names read by the file-backed functions when no path is given.
const (
	DefaultAgeKeyFile         = "age.key"
	DefaultTunnelFile         = "cloudflare-tunnel.json"
	DefaultDeployKeyFile      = "github-deploy.key"
	DefaultPushTokenFile      = "github-push-token.txt"
	DefaultTalosPatchesDir    = "templates/config/talos/patches"
	talosPatchTemplatePattern = "*.yaml.j2"
)

var (
	agePublicKeyPattern  = regexp.MustCompile(`# public key: (age1[\w]+)`)
	agePrivateKeyPattern = regexp.MustCompile(`(AGE-SECRET-KEY-[\w]+)`)
)

func pathOr(paths []string, fallback string) string {
	if len(paths) > 0 && paths[0] != "" {
		return paths[0]
	}
	return fallback
}

func readTrimmed(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// AgeKey returns the public or private key from an age key file. The private
// key is never part of an error.
func AgeKey(keyType string, path ...string) (string, error) {
	file := pathOr(path, DefaultAgeKeyFile)

	var pattern *regexp.Regexp
	switch keyType {
	case "public":
		pattern = agePublicKeyPattern
	case "private":
		pattern = agePrivateKeyPattern
	default:
		return "", fmt.Errorf("invalid age key type %q: use public or private", keyType)
	}

	content, err := readTrimmed(file)
	if err != nil {
		return "", err
	}
	match := pattern.FindStringSubmatch(content)
	if match == nil {
		return "", fmt.Errorf("could not find %s key in age key file %s", keyType, file)
	}
	return match[1], nil
}

// CloudflareTunnelID returns the tunnel id from a tunnel credentials file.
func CloudflareTunnelID(path ...string) (string, error) {
	creds, err := api.LoadTunnelCredentials(pathOr(path, DefaultTunnelFile))
	if err != nil {
		return "", err
	}
	return creds.TunnelID, nil
}

// CloudflareTunnelSecret returns the credentials file in tunnel token form.
func CloudflareTunnelSecret(path ...string) (string, error) {
	creds, err := api.LoadTunnelCredentials(pathOr(path, DefaultTunnelFile))
	if err != nil {
		return "", err
	}
	return api.EncodeTunnelToken(*creds)
}

// GitHubDeployKey returns the contents of the deploy key file.
func GitHubDeployKey(path ...string) (string, error) {
	return readTrimmed(pathOr(path, DefaultDeployKeyFile))
}

// GitHubPushToken returns the contents of the push token file.
func GitHubPushToken(path ...string) (string, error) {
	return readTrimmed(pathOr(path, DefaultPushTokenFile))
}

// TalosPatches lists the patch templates for a machine type ("global",
// "controller", "worker"), sorted. A missing directory yields no patches.
func TalosPatches(kind string) ([]string, error) {
	dir := filepath.Join(DefaultTalosPatchesDir, kind)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return []string{}, nil
	}

	matches, err := filepath.Glob(filepath.Join(dir, talosPatchTemplatePattern))
	if err != nil {
		return nil, err
	}

	patches := make([]string, 0, len(matches))
	for _, m := range matches {
		if fi, err := os.Stat(m); err == nil && fi.Mode().IsRegular() {
			patches = append(patches, m)
		}
	}
	return patches, nil
}

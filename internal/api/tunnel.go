package api

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
)

// TunnelCredentials is the credentials file written by "cloudflared tunnel create".
type TunnelCredentials struct {
	AccountTag   string `json:"AccountTag"`
	TunnelID     string `json:"TunnelID"`
	TunnelSecret string `json:"TunnelSecret"`
}

// tunnelToken is the compact form accepted as TUNNEL_TOKEN.
type tunnelToken struct {
	AccountTag   string `json:"a"`
	TunnelID     string `json:"t"`
	TunnelSecret string `json:"s"`
}

// LoadTunnelCredentials reads a credentials file and checks all fields are set.
func LoadTunnelCredentials(path string) (*TunnelCredentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tunnel credentials: %w", err)
	}

	var creds TunnelCredentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("could not decode JSON file %s: %w", path, err)
	}
	if err := creds.complete(); err != nil {
		return nil, fmt.Errorf("missing key in JSON file %s: %w", path, err)
	}
	return &creds, nil
}

func (c TunnelCredentials) complete() error {
	switch {
	case c.AccountTag == "":
		return fmt.Errorf("AccountTag")
	case c.TunnelID == "":
		return fmt.Errorf("TunnelID")
	case c.TunnelSecret == "":
		return fmt.Errorf("TunnelSecret")
	}
	return nil
}

// EncodeTunnelToken returns base64 of the compact JSON {"a","t","s"}.
func EncodeTunnelToken(c TunnelCredentials) (string, error) {
	raw, err := json.Marshal(tunnelToken(c))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// DecodeTunnelToken reverses EncodeTunnelToken. Decode errors never include
// the token itself.
func DecodeTunnelToken(token string) (*TunnelCredentials, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("tunnel token is not valid base64")
	}

	var t tunnelToken
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("tunnel token does not contain valid JSON")
	}

	creds := TunnelCredentials(t)
	if err := creds.complete(); err != nil {
		return nil, fmt.Errorf("tunnel token is missing %v", err)
	}
	return &creds, nil
}

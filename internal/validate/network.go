// Package validate provides network validation utilities for preflight checks,
// covering node addresses, reserved service addresses and network ranges.
//
// Implements IP address, CIDR (with address-family constraint), port range and
// "host:port" validation using the go-playground/validator library together
// with net/netip for parsed values that carry their address family.
//
// VALIDATION FEATURES:
//   - IP Address: IPv4 and IPv6 format validation
//   - CIDR: address+prefix parsing with an optional required family (4 or 6)
//   - Containment: an address must fall within a declared range
//   - Server Addresses: "host" or "host:port" with a default port
package validate

import (
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// Global validator instance with built-in and preflight-specific tags
	validate *validator.Validate
)

func init() {
	validate = validator.New()
	registerCustomValidations(validate)
}

// NetworkAddress represents a validated "host:port" endpoint such as a DNS or
// NTP server entry with an explicit port.
type NetworkAddress struct {
	Host string `validate:"required,ip"`
	Port int    `validate:"required,min=1,max=65535"`
}

// String returns the network address in standard "host:port" format. IPv6
// hosts are bracketed.
func (na NetworkAddress) String() string {
	return net.JoinHostPort(na.Host, strconv.Itoa(na.Port))
}

// ParseBindAddress parses and validates a "host:port" address string.
// Returns a validated NetworkAddress or an error naming the malformed part.
func ParseBindAddress(addr string) (*NetworkAddress, error) {
	if addr == "" {
		return nil, fmt.Errorf("address cannot be empty")
	}

	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("invalid address format '%s': %w", addr, err)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid port '%s': %w", portStr, err)
	}

	netAddr := &NetworkAddress{
		Host: host,
		Port: port,
	}

	if err := validate.Struct(netAddr); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return netAddr, nil
}

// ParseServerAddress accepts either a bare IP address or an "ip:port" pair and
// returns the normalized endpoint, filling in defaultPort when none is given.
// Used for resolver and time server lists, which are usually written without ports.
func ParseServerAddress(field, addr string, defaultPort int) (*NetworkAddress, error) {
	addr = strings.TrimSpace(addr)
	if ip, err := ParseIP(field, addr); err == nil {
		return &NetworkAddress{Host: ip.String(), Port: defaultPort}, nil
	}

	netAddr, err := ParseBindAddress(addr)
	if err != nil {
		return nil, &SyntaxError{Field: field, Value: addr, Expected: "an IP address or ip:port"}
	}
	return netAddr, nil
}

// ValidateField validates individual values against validator tags without a
// struct definition. Example: ValidateField("192.168.1.1", "required,ip")
func ValidateField(value interface{}, tag string) error {
	return validate.Var(value, tag)
}

// ParseIP validates that value is an IPv4 or IPv6 address and returns it parsed.
// The error names the offending string.
func ParseIP(field, value string) (netip.Addr, error) {
	if err := validate.Var(value, "required,ip"); err != nil {
		return netip.Addr{}, &SyntaxError{Field: field, Value: value, Expected: "an IP address"}
	}
	addr, err := netip.ParseAddr(value)
	if err != nil {
		return netip.Addr{}, &SyntaxError{Field: field, Value: value, Expected: "an IP address"}
	}
	return addr, nil
}

// ParseCIDR parses value as address+prefix. When family is 4 or 6 the parsed
// range must belong to that family exactly; family 0 accepts either.
func ParseCIDR(field, value string, family int) (netip.Prefix, error) {
	prefix, err := netip.ParsePrefix(strings.TrimSpace(value))
	if err != nil {
		return netip.Prefix{}, &SyntaxError{Field: field, Value: value, Expected: "a CIDR range"}
	}

	actual := Family(prefix.Addr())
	if family != 0 && actual != family {
		return netip.Prefix{}, &FamilyMismatchError{Field: field, Value: value, Expected: family, Actual: actual}
	}
	return prefix, nil
}

// Family returns 4 or 6 for the address family of addr.
func Family(addr netip.Addr) int {
	if addr.Is4() {
		return 4
	}
	return 6
}

// AddressInNetwork checks that addr lies within network. Both arguments are
// raw strings so the error can echo them unchanged.
func AddressInNetwork(field, addr string, network netip.Prefix) error {
	ip, err := ParseIP(field, addr)
	if err != nil {
		return err
	}
	if !network.Contains(ip) {
		return &ConsistencyError{
			Fields: []string{field},
			Rule:   fmt.Sprintf("address %s is not in the node network %s", addr, network),
		}
	}
	return nil
}

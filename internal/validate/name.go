// Package validate provides input validation utilities for cluster bootstrap
// configuration, ensuring malformed values are reported before any node is touched.
//
// Implements syntax rules for node names, addresses, network ranges, hardware
// identifiers, keys and contact addresses. Every check either succeeds or returns
// one of the failure kinds in errors.go naming the offending field and value.
//
// VALIDATION COVERAGE:
//   - Node Names: format validation plus a reserved-word list
//   - Network Addresses: IP, CIDR and server endpoint validation
//   - Identifiers: MAC addresses, timezones, schematic ids, email addresses
//   - Secrets: age public keys and webhook tokens (never echoed)
//
// Used by the rule table, the CLI settings layer and the template filters so the
// same syntax rules apply at every entry point.

package validate

import (
	"regexp"
	"strings"
)

var nodeNameRegex = regexp.MustCompile(`^[a-z0-9.-]+$`)

// ReservedNodeNames are names that collide with inventory group names used by
// the bootstrap tooling and therefore cannot name a node.
var ReservedNodeNames = []string{
	"all",
	"controller",
	"controllers",
	"master",
	"masters",
	"worker",
	"workers",
	"kubernetes",
}

// NodeNameFormat validates node names against cluster naming requirements.
// Ensures names contain only [a-z0-9.-], don't start/end with a separator, and
// are not one of the reserved group names.
//
// Node names become host names and inventory keys, so they must be valid DNS
// labels and must not shadow an inventory group.
func NodeNameFormat(name string) error {
	if name == "" {
		return &SyntaxError{Field: "node name", Value: name, Expected: "a non-empty name"}
	}

	// Check if name contains only allowed characters: lowercase letters, numbers, hyphens, dots
	if !nodeNameRegex.MatchString(name) {
		return &SyntaxError{Field: "node name", Value: name, Expected: "only lowercase letters [a-z], numbers [0-9], hyphens (-) and dots (.)"}
	}

	// Ensure it starts and ends with alphanumeric (not - or .)
	if strings.HasPrefix(name, "-") || strings.HasPrefix(name, ".") ||
		strings.HasSuffix(name, "-") || strings.HasSuffix(name, ".") {
		return &SyntaxError{Field: "node name", Value: name, Expected: "no leading or trailing hyphen (-) or dot (.)"}
	}

	for _, reserved := range ReservedNodeNames {
		if name == reserved {
			return &SyntaxError{Field: "node name", Value: name, Expected: "a name that is not reserved"}
		}
	}

	return nil
}

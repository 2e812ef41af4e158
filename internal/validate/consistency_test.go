package validate

import (
	"errors"
	"net/netip"
	"testing"
)

func TestClusterCIDRs(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		dualStack   bool
		expectError bool
		count       int
	}{
		{name: "dual stack pair", value: "10.42.0.0/16,fd00::/64", dualStack: true, count: 2},
		{name: "dual stack pair with space", value: "10.42.0.0/16, fd00::/64", dualStack: true, count: 2},
		{name: "dual stack single range", value: "10.42.0.0/16", dualStack: true, expectError: true},
		{name: "dual stack reversed order", value: "fd00::/64,10.42.0.0/16", dualStack: true, expectError: true},
		{name: "single stack ipv4", value: "10.42.0.0/16", count: 1},
		{name: "single stack ipv6", value: "fd00::/64", expectError: true},
		{name: "single stack with pair", value: "10.42.0.0/16,fd00::/64", expectError: true},
		{name: "garbage", value: "10.42.0.0", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefixes, err := ClusterCIDRs("pod cidr", tt.value, tt.dualStack)
			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for '%s', got none", tt.value)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error for '%s': %v", tt.value, err)
			}
			if len(prefixes) != tt.count {
				t.Errorf("Expected %d ranges, got %d", tt.count, len(prefixes))
			}
		})
	}
}

func TestDistinctValues(t *testing.T) {
	err := DistinctValues(
		NamedValue{Field: "pod cidr", Value: "10.42.0.0/16"},
		NamedValue{Field: "service cidr", Value: "10.43.0.0/16"},
	)
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	err = DistinctValues(
		NamedValue{Field: "pod cidr", Value: "10.42.0.0/16"},
		NamedValue{Field: "service cidr", Value: "10.42.0.0/16"},
	)
	var consistencyErr *ConsistencyError
	if !errors.As(err, &consistencyErr) {
		t.Fatalf("Expected *ConsistencyError, got %v", err)
	}
	if len(consistencyErr.Fields) != 2 {
		t.Errorf("Expected both fields named, got %v", consistencyErr.Fields)
	}
}

func TestDisjointRanges(t *testing.T) {
	tests := []struct {
		name        string
		a           []string
		b           []string
		expectError bool
	}{
		{name: "separate ipv4", a: []string{"10.42.0.0/16"}, b: []string{"10.43.0.0/16"}},
		{name: "nested ipv4", a: []string{"10.42.0.0/16"}, b: []string{"10.42.0.0/24"}, expectError: true},
		{name: "separate dual stack", a: []string{"10.42.0.0/16", "fd00:42::/64"}, b: []string{"10.43.0.0/16", "fd00:43::/112"}},
		{name: "overlapping ipv6 only", a: []string{"10.42.0.0/16", "fd00::/48"}, b: []string{"10.43.0.0/16", "fd00::/112"}, expectError: true},
	}

	parse := func(t *testing.T, values []string) []netip.Prefix {
		t.Helper()
		out := make([]netip.Prefix, 0, len(values))
		for _, v := range values {
			out = append(out, netip.MustParsePrefix(v))
		}
		return out
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := DisjointRanges("pod cidr", parse(t, tt.a), "service cidr", parse(t, tt.b))
			if !tt.expectError {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
				return
			}
			var consistencyErr *ConsistencyError
			if !errors.As(err, &consistencyErr) {
				t.Fatalf("Expected *ConsistencyError, got %v", err)
			}
			if len(consistencyErr.Fields) != 2 || consistencyErr.Fields[0] != "pod cidr" || consistencyErr.Fields[1] != "service cidr" {
				t.Errorf("Expected both fields named, got %v", consistencyErr.Fields)
			}
		})
	}
}

func TestUniqueAddresses(t *testing.T) {
	tests := []struct {
		name        string
		values      []NamedValue
		expectError bool
	}{
		{
			name: "all distinct",
			values: []NamedValue{
				{Field: "api", Value: "192.168.1.10"},
				{Field: "gateway", Value: "192.168.1.11"},
				{Field: "ingress", Value: "192.168.1.12"},
			},
		},
		{
			name: "duplicate",
			values: []NamedValue{
				{Field: "api", Value: "192.168.1.10"},
				{Field: "gateway", Value: "192.168.1.11"},
				{Field: "ingress", Value: "192.168.1.10"},
			},
			expectError: true,
		},
		{
			name: "malformed",
			values: []NamedValue{
				{Field: "api", Value: "192.168.1"},
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := UniqueAddresses(tt.values...)
			if tt.expectError && err == nil {
				t.Error("Expected error, got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

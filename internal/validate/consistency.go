package validate

import (
	"fmt"
	"net/netip"
	"strings"
)

// NamedValue pairs a configuration field with its raw value so cross-field
// failures can name every field involved.
type NamedValue struct {
	Field string
	Value string
}

// ClusterCIDRs validates a cluster network field. With dualStack the value must
// hold exactly two comma-joined ranges, IPv4 first then IPv6; otherwise exactly
// one IPv4 range. Returns the parsed ranges in declaration order.
func ClusterCIDRs(field, value string, dualStack bool) ([]netip.Prefix, error) {
	parts := strings.Split(value, ",")
	want := []int{4}
	if dualStack {
		want = []int{4, 6}
	}

	if len(parts) != len(want) {
		rule := "must contain exactly one IPv4 range"
		if dualStack {
			rule = "must contain exactly two ranges (IPv4,IPv6) when dual-stack is enabled"
		}
		return nil, &ConsistencyError{Fields: []string{field}, Rule: fmt.Sprintf("%s, got %q", rule, value)}
	}

	prefixes := make([]netip.Prefix, 0, len(parts))
	for i, part := range parts {
		prefix, err := ParseCIDR(field, strings.TrimSpace(part), want[i])
		if err != nil {
			return nil, err
		}
		prefixes = append(prefixes, prefix)
	}
	return prefixes, nil
}

// DistinctValues fails when any two fields carry the literally equal value.
// Comparison is textual: two spellings of the same range are not detected.
func DistinctValues(values ...NamedValue) error {
	seen := make(map[string]string, len(values))
	for _, v := range values {
		if other, ok := seen[v.Value]; ok {
			return &ConsistencyError{
				Fields: []string{other, v.Field},
				Rule:   fmt.Sprintf("must not be equal, both are %q", v.Value),
			}
		}
		seen[v.Value] = v.Field
	}
	return nil
}

// DisjointRanges fails when a range of one field overlaps a range of the same
// address family in the other field.
func DisjointRanges(fieldA string, a []netip.Prefix, fieldB string, b []netip.Prefix) error {
	for _, pa := range a {
		for _, pb := range b {
			if pa.Addr().Is4() != pb.Addr().Is4() {
				continue
			}
			if pa.Overlaps(pb) {
				return &ConsistencyError{
					Fields: []string{fieldA, fieldB},
					Rule:   fmt.Sprintf("must not overlap, %s and %s intersect", pa, pb),
				}
			}
		}
	}
	return nil
}

// UniqueAddresses checks that every reserved address parses as an IP and that
// the set of addresses is as large as the list, i.e. no address is reused.
func UniqueAddresses(values ...NamedValue) error {
	set := make(map[netip.Addr]struct{}, len(values))
	for _, v := range values {
		addr, err := ParseIP(v.Field, v.Value)
		if err != nil {
			return err
		}
		set[addr] = struct{}{}
	}

	if len(set) != len(values) {
		fields := make([]string, 0, len(values))
		for _, v := range values {
			fields = append(fields, v.Field)
		}
		return &ConsistencyError{Fields: fields, Rule: "addresses must be unique"}
	}
	return nil
}

package validate

import (
	"fmt"
	"net/netip"
)

// Node is one inventory entry after extraction from the configuration.
// Optional attributes are empty strings when absent.
type Node struct {
	Name        string
	Address     string
	Controller  bool
	Username    string
	Disk        string
	MACAddr     string
	SchematicID string
}

// NodeRequirements lists the per-distribution attributes every node must carry.
type NodeRequirements struct {
	Username bool
	Disk     bool
}

// ControllerQuorum checks that the controller count is at least one and odd.
func ControllerQuorum(count int) error {
	if count < 1 || count%2 == 0 {
		return &QuorumError{Count: count}
	}
	return nil
}

// ValidateInventory checks node syntax, name and address uniqueness, required
// attributes, containment in the node network (when valid) and controller quorum.
// Checks run node by node so the first offending node is reported.
func ValidateInventory(nodes []Node, network netip.Prefix, req NodeRequirements) error {
	names := make(map[string]struct{}, len(nodes))
	addresses := make(map[string]string, len(nodes))
	controllers := 0

	for i, node := range nodes {
		if err := NodeNameFormat(node.Name); err != nil {
			return err
		}
		if _, dup := names[node.Name]; dup {
			return &ConsistencyError{
				Fields: []string{"nodes"},
				Rule:   fmt.Sprintf("node name %q is used more than once", node.Name),
			}
		}
		names[node.Name] = struct{}{}

		field := fmt.Sprintf("node %s address", node.Name)
		if node.Address == "" {
			return &MissingKeyError{Path: fmt.Sprintf("nodes[%d].address", i)}
		}
		addr, err := ParseIP(field, node.Address)
		if err != nil {
			return err
		}
		if other, dup := addresses[addr.String()]; dup {
			return &ConsistencyError{
				Fields: []string{other, node.Name},
				Rule:   fmt.Sprintf("nodes share address %s", node.Address),
			}
		}
		addresses[addr.String()] = node.Name

		if network.IsValid() {
			if err := AddressInNetwork(field, node.Address, network); err != nil {
				return err
			}
		}

		if err := nodeCompleteness(i, node, req); err != nil {
			return err
		}

		if node.Controller {
			controllers++
		}
	}

	return ControllerQuorum(controllers)
}

func nodeCompleteness(i int, node Node, req NodeRequirements) error {
	if req.Username && node.Username == "" {
		return &MissingKeyError{Path: fmt.Sprintf("nodes[%d].username (node %s)", i, node.Name)}
	}
	if req.Disk && node.Disk == "" {
		return &MissingKeyError{Path: fmt.Sprintf("nodes[%d].disk (node %s)", i, node.Name)}
	}
	if node.MACAddr != "" {
		if err := MACAddress(fmt.Sprintf("nodes[%d].mac_addr (node %s)", i, node.Name), node.MACAddr); err != nil {
			return err
		}
	}
	if node.SchematicID != "" {
		if err := SchematicID(fmt.Sprintf("nodes[%d].schematic_id (node %s)", i, node.Name), node.SchematicID); err != nil {
			return err
		}
	}
	return nil
}

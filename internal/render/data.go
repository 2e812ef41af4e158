package render

import (
	"github.com/concave-dev/preflight/internal/config"
)

var bgpKeys = []string{"cilium_bgp_router_addr", "cilium_bgp_router_asn", "cilium_bgp_node_asn"}

// DataDefaults returns a copy of doc with the template data defaults filled
// in. Keys already present are kept as they are.
func DataDefaults(doc config.Document) config.Document {
	out := doc.Clone()
	setDefault := func(key string, value any) {
		if _, ok := config.Lookup(out, key); !ok {
			out[key] = value
		}
	}

	if cidr, ok := out["node_cidr"].(string); ok {
		if gateway, err := NthHost(cidr, 1); err == nil {
			setDefault("node_default_gateway", gateway)
		}
	}
	setDefault("node_dns_servers", []any{"1.1.1.1", "1.0.0.1"})
	setDefault("node_ntp_servers", []any{"162.159.200.1", "162.159.200.123"})
	setDefault("cluster_pod_cidr", "10.42.0.0/16")
	setDefault("cluster_svc_cidr", "10.43.0.0/16")
	setDefault("repository_branch", "main")
	setDefault("repository_visibility", "public")
	setDefault("cilium_loadbalancer_mode", "dsr")

	bgp := true
	for _, key := range bgpKeys {
		if !truthy(out[key]) {
			bgp = false
			break
		}
	}
	setDefault("cilium_bgp_enabled", bgp)
	setDefault("spegel_enabled", len(nodeList(out)) > 1)

	return out
}

// nodeList returns the inventory as a list for either document layout.
func nodeList(doc config.Document) []any {
	for _, path := range []string{"nodes", "nodes.inventory", "bootstrap_node_inventory"} {
		if v, ok := config.Lookup(doc, path); ok {
			if list, ok := v.([]any); ok {
				return list
			}
		}
	}
	return nil
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case int64:
		return t != 0
	case uint64:
		return t != 0
	case float64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

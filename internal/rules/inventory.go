package rules

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/concave-dev/preflight/internal/validate"
)

// ParseInventory converts the raw inventory value into node records following
// the profile layout. Grouped inventories list controller groups first (in the
// declared order), then the remaining groups by name.
func ParseInventory(raw any, layout InventoryLayout, path string) ([]validate.Node, error) {
	if !layout.Grouped {
		return parseNodeList(raw, layout, path, nil)
	}

	groups, ok := raw.(map[string]any)
	if !ok {
		return nil, &validate.SyntaxError{Field: path, Value: fmt.Sprintf("%T", raw), Expected: "a mapping of group to node list"}
	}

	controllers := make(map[string]bool, len(layout.ControllerGroups))
	order := make([]string, 0, len(groups))
	for _, name := range layout.ControllerGroups {
		controllers[name] = true
		if _, ok := groups[name]; ok {
			order = append(order, name)
		}
	}
	rest := make([]string, 0, len(groups))
	for name := range groups {
		if !controllers[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	order = append(order, rest...)

	var nodes []validate.Node
	for _, group := range order {
		isController := controllers[group]
		parsed, err := parseNodeList(groups[group], layout, path+"."+group, &isController)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, parsed...)
	}
	return nodes, nil
}

// parseNodeList reads a list of node mappings. A non-nil controller overrides
// the per-node controller key.
func parseNodeList(raw any, layout InventoryLayout, path string, controller *bool) ([]validate.Node, error) {
	if raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, &validate.SyntaxError{Field: path, Value: fmt.Sprintf("%T", raw), Expected: "a list of nodes"}
	}

	keys := layout.Keys
	nodes := make([]validate.Node, 0, len(list))
	for i, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			return nil, &validate.SyntaxError{Field: fmt.Sprintf("%s[%d]", path, i), Value: fmt.Sprintf("%T", item), Expected: "a node mapping"}
		}

		node := validate.Node{
			Name:        str(entry, keys.Name),
			Address:     str(entry, keys.Address),
			Username:    str(entry, keys.Username),
			Disk:        str(entry, keys.Disk),
			MACAddr:     str(entry, keys.MACAddr),
			SchematicID: str(entry, keys.SchematicID),
		}
		if node.Name == "" {
			return nil, &validate.MissingKeyError{Path: fmt.Sprintf("%s[%d].%s", path, i, keys.Name)}
		}

		if controller != nil {
			node.Controller = *controller
		} else if keys.Controller != "" {
			isController, err := boolean(entry, keys.Controller)
			if err != nil {
				return nil, &validate.SyntaxError{Field: fmt.Sprintf("%s[%d].%s", path, i, keys.Controller), Value: fmt.Sprint(entry[keys.Controller]), Expected: "a boolean"}
			}
			node.Controller = isController
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func str(entry map[string]any, key string) string {
	if key == "" {
		return ""
	}
	s, _ := scalar(entry[key])
	return s
}

func boolean(entry map[string]any, key string) (bool, error) {
	switch t := entry[key].(type) {
	case nil:
		return false, nil
	case bool:
		return t, nil
	case string:
		return strconv.ParseBool(t)
	default:
		return false, fmt.Errorf("not a boolean")
	}
}
